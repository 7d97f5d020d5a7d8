// internal/features/application/validate-application/models.go
package validateapplication

import (
	"regexp"

	"membership-portal/internal/models"
)

type Input struct {
	Application models.Application `json:"application"`
}

type Output struct {
	Valid   bool                  `json:"valid"`
	Errors  map[string]FieldError `json:"errors"`
	Touched []string              `json:"touched"`
	Message string                `json:"message,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	CodeMissingRequired = "MISSING_REQUIRED"
	CodeInvalidFormat   = "INVALID_FORMAT"
	CodeInvalidOption   = "INVALID_OPTION"
	CodeRoleConflict    = "ROLE_CONFLICT"
)

const (
	MessageFillAllFields = "Please fill all the fields"
	MessageRoleConflict  = "Role preferences must differ"
)

var (
	rollNumberRegex       = regexp.MustCompile(`^\d{11}$`)
	phoneRegex            = regexp.MustCompile(`^\d{10}$`)
	githubRegex           = regexp.MustCompile(`^(https?://)?(www\.)?github\.com/[a-zA-Z0-9_-]+/?$`)
	linkedinRegex         = regexp.MustCompile(`^(https?://)?(www\.)?linkedin\.com/in/[a-zA-Z0-9_-]+/?$`)
	codechefRegex         = regexp.MustCompile(`^(https?://)?(www\.)?codechef\.com/users/[a-zA-Z0-9_-]+/?$`)
	resumeRegex           = regexp.MustCompile(`^https://drive\.google\.com/file/d/([a-zA-Z0-9_-]+)(?:/view(?:\?[^ ]*)?)?$`)
	cgpaRegex             = regexp.MustCompile(`^(10(\.0{1,2})?|[0-9](\.\d{1,2})?)$`)
	membershipNumberRegex = regexp.MustCompile(`^\d{7}$`)
)

// requiredFields is the current required set. The earlier revision without
// cgpa and membershipNumber is no longer accepted.
var requiredFields = []string{
	models.FieldRollNumber,
	models.FieldBranch,
	models.FieldYear,
	models.FieldPhoneNumber,
	models.FieldGithubProfile,
	models.FieldLinkedinProfile,
	models.FieldCodechefProfile,
	models.FieldResume,
	models.FieldWhyACM,
	models.FieldCGPA,
	models.FieldRole,
	models.FieldRole2,
}

var fieldLabels = map[string]string{
	models.FieldRollNumber:       "Roll number",
	models.FieldBranch:           "Branch",
	models.FieldYear:             "Year",
	models.FieldCGPA:             "CGPA",
	models.FieldPhoneNumber:      "Phone number",
	models.FieldGithubProfile:    "GitHub profile",
	models.FieldLinkedinProfile:  "LinkedIn profile",
	models.FieldCodechefProfile:  "CodeChef profile",
	models.FieldResume:           "Resume link",
	models.FieldMembershipNumber: "Membership number",
	models.FieldWhyACM:           "Why ACM",
	models.FieldRole:             "First role preference",
	models.FieldRole2:            "Second role preference",
}

// Label returns the display label of a field.
func Label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}
