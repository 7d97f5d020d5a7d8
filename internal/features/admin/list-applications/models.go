// internal/features/admin/list-applications/models.go
package listapplications

import "membership-portal/internal/models"

type Input struct {
	SubmittedOnly bool `json:"submittedOnly"`
}

// Stats are computed over the whole collection, whatever the filter.
type Stats struct {
	Total      int `json:"total"`
	Submitted  int `json:"submitted"`
	SecondYear int `json:"secondYear"`
	ThirdYear  int `json:"thirdYear"`
}

type Output struct {
	Applications  []models.StoredApplication `json:"applications"`
	Stats         Stats                      `json:"stats"`
	SubmittedOnly bool                       `json:"submittedOnly"`
}
