// internal/features/admin/export-applications/models.go
package exportapplications

import "membership-portal/internal/models"

// Columns is the fixed column order of the export.
var Columns = []string{
	models.FieldFullName,
	models.FieldEmail,
	models.FieldRollNumber,
	models.FieldBranch,
	models.FieldYear,
	models.FieldCGPA,
	models.FieldPhoneNumber,
	models.FieldGithubProfile,
	models.FieldLinkedinProfile,
	models.FieldCodechefProfile,
	models.FieldResume,
	models.FieldMembershipNumber,
	models.FieldRole,
	models.FieldRole2,
	models.FieldWhyACM,
	models.FieldSubmitted,
	models.FieldSubmittedAt,
}

type Input struct{}

type Output struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Rows        int    `json:"rows"`
	Content     []byte `json:"-"`
}
