// internal/features/access/route-guard/models.go
package routeguard

import "membership-portal/internal/models"

// Views
const (
	ViewSignIn     = "signin"
	ViewForm       = "form"
	ViewPreview    = "preview"
	ViewSuccess    = "success"
	ViewAdmin      = "admin"
	ViewFormClosed = "formclosed"
)

var knownViews = map[string]bool{
	ViewSignIn:     true,
	ViewForm:       true,
	ViewPreview:    true,
	ViewSuccess:    true,
	ViewAdmin:      true,
	ViewFormClosed: true,
}

// IsView reports whether view names a known view.
func IsView(view string) bool {
	return knownViews[view]
}

const (
	MessageLoginRequired = "Please login to access the form"
	MessageNotSubmitted  = "You have not submitted the form yet."
	MessageNoApplication = "No application found."
	MessageUnauthorized  = "Unauthorized access"
)

type Input struct {
	View     string           `json:"view"`
	Identity *models.Identity `json:"identity,omitempty"`
	// ViewHint is the session's cached "already submitted" flag.
	ViewHint bool `json:"viewHint"`
}

// Decision is where a request for a view ends up and how it renders.
type Decision struct {
	View          string              `json:"view"`
	Requested     string              `json:"requested"`
	Redirected    bool                `json:"redirected"`
	SignOut       bool                `json:"signOut"`
	Message       string              `json:"message,omitempty"`
	ReadOnly      bool                `json:"readOnly"`
	SetViewHint   bool                `json:"setViewHint"`
	ClearViewHint bool                `json:"clearViewHint"`
	// FromHint marks a decision taken from the session hint without the record.
	FromHint      bool                `json:"fromHint,omitempty"`
	Application   *models.Application `json:"application,omitempty"`
}
