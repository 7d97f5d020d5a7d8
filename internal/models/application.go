// internal/models/application.go
package models

import (
	"fmt"
	"strconv"
)

// Field names as stored in the application document.
const (
	FieldFullName         = "fullName"
	FieldEmail            = "email"
	FieldRollNumber       = "rollNumber"
	FieldBranch           = "branch"
	FieldYear             = "year"
	FieldCGPA             = "cgpa"
	FieldPhoneNumber      = "phoneNumber"
	FieldGithubProfile    = "githubProfile"
	FieldLinkedinProfile  = "linkedinProfile"
	FieldCodechefProfile  = "codechefProfile"
	FieldResume           = "resume"
	FieldHasMembership    = "hasMembership"
	FieldMembershipNumber = "membershipNumber"
	FieldWhyACM           = "whyACM"
	FieldRole             = "role"
	FieldRole2            = "role2"
	FieldSubmitted        = "submitted"
	FieldSubmittedAt      = "submittedAt"
)

// SubmittedAtLayout formats submittedAt: UTC ISO-8601 with milliseconds.
const SubmittedAtLayout = "2006-01-02T15:04:05.000Z"

// Application is one applicant's record, keyed by the applicant's identity UID.
type Application struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	RollNumber       string `json:"rollNumber"`
	Branch           string `json:"branch"`
	Year             string `json:"year"`
	CGPA             string `json:"cgpa"`
	PhoneNumber      string `json:"phoneNumber"`
	GithubProfile    string `json:"githubProfile"`
	LinkedinProfile  string `json:"linkedinProfile"`
	CodechefProfile  string `json:"codechefProfile"`
	Resume           string `json:"resume"`
	HasMembership    bool   `json:"hasMembership"`
	MembershipNumber string `json:"membershipNumber"`
	WhyACM           string `json:"whyACM"`
	Role             string `json:"role"`
	Role2            string `json:"role2"`
	Submitted        bool   `json:"submitted,omitempty"`
	SubmittedAt      string `json:"submittedAt,omitempty"`
}

// StoredApplication pairs a record with its store key.
type StoredApplication struct {
	ID          string      `json:"id"`
	Application Application `json:"application"`
}

// FormFields lists the fields an applicant edits, in display order.
var FormFields = []string{
	FieldRollNumber,
	FieldBranch,
	FieldYear,
	FieldCGPA,
	FieldPhoneNumber,
	FieldGithubProfile,
	FieldLinkedinProfile,
	FieldCodechefProfile,
	FieldResume,
	FieldHasMembership,
	FieldMembershipNumber,
	FieldWhyACM,
	FieldRole,
	FieldRole2,
}

// NewApplication returns an empty draft pre-populated with identity fields.
func NewApplication(identity Identity) Application {
	return Application{
		FullName: identity.DisplayName,
		Email:    identity.Email,
	}
}

// Field returns the string value of a named field.
func (a *Application) Field(name string) (string, bool) {
	switch name {
	case FieldFullName:
		return a.FullName, true
	case FieldEmail:
		return a.Email, true
	case FieldRollNumber:
		return a.RollNumber, true
	case FieldBranch:
		return a.Branch, true
	case FieldYear:
		return a.Year, true
	case FieldCGPA:
		return a.CGPA, true
	case FieldPhoneNumber:
		return a.PhoneNumber, true
	case FieldGithubProfile:
		return a.GithubProfile, true
	case FieldLinkedinProfile:
		return a.LinkedinProfile, true
	case FieldCodechefProfile:
		return a.CodechefProfile, true
	case FieldResume:
		return a.Resume, true
	case FieldHasMembership:
		return strconv.FormatBool(a.HasMembership), true
	case FieldMembershipNumber:
		return a.MembershipNumber, true
	case FieldWhyACM:
		return a.WhyACM, true
	case FieldRole:
		return a.Role, true
	case FieldRole2:
		return a.Role2, true
	case FieldSubmitted:
		return strconv.FormatBool(a.Submitted), true
	case FieldSubmittedAt:
		return a.SubmittedAt, true
	}
	return "", false
}

// SetField updates an applicant-editable field. Identity and lifecycle
// fields are rejected.
func (a *Application) SetField(name, value string) error {
	switch name {
	case FieldRollNumber:
		a.RollNumber = value
	case FieldBranch:
		a.Branch = value
	case FieldYear:
		a.Year = value
	case FieldCGPA:
		a.CGPA = value
	case FieldPhoneNumber:
		a.PhoneNumber = value
	case FieldGithubProfile:
		a.GithubProfile = value
	case FieldLinkedinProfile:
		a.LinkedinProfile = value
	case FieldCodechefProfile:
		a.CodechefProfile = value
	case FieldResume:
		a.Resume = value
	case FieldHasMembership:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		a.HasMembership = b
	case FieldMembershipNumber:
		a.MembershipNumber = value
	case FieldWhyACM:
		a.WhyACM = value
	case FieldRole:
		a.Role = value
	case FieldRole2:
		a.Role2 = value
	default:
		return fmt.Errorf("field %s is not editable", name)
	}
	return nil
}

// DraftDocument returns the mergeable part of the record. Lifecycle flags
// are never part of a draft write.
func (a *Application) DraftDocument() map[string]interface{} {
	return map[string]interface{}{
		FieldFullName:         a.FullName,
		FieldEmail:            a.Email,
		FieldRollNumber:       a.RollNumber,
		FieldBranch:           a.Branch,
		FieldYear:             a.Year,
		FieldCGPA:             a.CGPA,
		FieldPhoneNumber:      a.PhoneNumber,
		FieldGithubProfile:    a.GithubProfile,
		FieldLinkedinProfile:  a.LinkedinProfile,
		FieldCodechefProfile:  a.CodechefProfile,
		FieldResume:           a.Resume,
		FieldHasMembership:    a.HasMembership,
		FieldMembershipNumber: a.MembershipNumber,
		FieldWhyACM:           a.WhyACM,
		FieldRole:             a.Role,
		FieldRole2:            a.Role2,
	}
}
