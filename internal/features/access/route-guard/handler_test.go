// internal/features/access/route-guard/handler_test.go
package routeguard

import (
	"context"
	"errors"
	"testing"

	commonerrors "membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
	applicationstore "membership-portal/internal/features/data-access/application-store"
	"membership-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Get(context.Context, string) (*models.Application, error) {
	return nil, errors.New("connection refused")
}

var (
	applicant = &models.Identity{UID: "uid-1", DisplayName: "Asha Rao", Email: "asha.rao@somaiya.edu"}
	admin     = &models.Identity{UID: "uid-9", DisplayName: "Chapter Admin", Email: "admin@somaiya.edu"}
	outsider  = &models.Identity{UID: "uid-5", DisplayName: "Someone", Email: "someone@gmail.com"}
)

func createTestHandler(t *testing.T, open bool) (*Handler, *applicationstore.MemoryStore) {
	store := applicationstore.NewMemoryStore()
	cfg := &Config{
		AllowedDomain:   "somaiya.edu",
		InstitutionName: "Somaiya",
		AdminEmails:     []string{"Admin@somaiya.edu"},
		FormOpen:        open,
	}
	return NewHandler(cfg, store, logger.NewTestLogger(t)), store
}

func storeRecord(t *testing.T, store *applicationstore.MemoryStore, submitted bool) {
	app := models.NewApplication(*applicant)
	app.RollNumber = "16010123001"
	if submitted {
		app.Submitted = true
		app.SubmittedAt = "2025-01-15T10:30:00.000Z"
	}
	require.NoError(t, store.Put(context.Background(), applicant.UID, &app))
}

// ==========================
// Unauthenticated
// ==========================

func TestGuard_Unauthenticated(t *testing.T) {
	h, _ := createTestHandler(t, true)

	tests := []struct {
		view       string
		want       string
		redirected bool
		message    string
	}{
		{ViewSignIn, ViewSignIn, false, ""},
		{ViewForm, ViewSignIn, true, MessageLoginRequired},
		{ViewPreview, ViewSignIn, true, MessageLoginRequired},
		{ViewSuccess, ViewSignIn, true, ""},
		{ViewAdmin, ViewSignIn, true, ""},
		{ViewFormClosed, ViewFormClosed, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			d, err := h.Execute(context.Background(), &Input{View: tt.view})
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.View)
			assert.Equal(t, tt.redirected, d.Redirected)
			assert.Equal(t, tt.message, d.Message)
			assert.False(t, d.SignOut)
		})
	}
}

func TestGuard_UnknownView(t *testing.T) {
	h, _ := createTestHandler(t, true)
	_, err := h.Execute(context.Background(), &Input{View: "settings", Identity: applicant})
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeInvalidRequest))
}

// ==========================
// Domain restriction
// ==========================

func TestGuard_WrongDomainForcesSignOut(t *testing.T) {
	h, _ := createTestHandler(t, true)

	for _, view := range []string{ViewSignIn, ViewForm, ViewAdmin} {
		d, err := h.Execute(context.Background(), &Input{View: view, Identity: outsider})
		require.NoError(t, err)
		assert.Equal(t, ViewSignIn, d.View)
		assert.True(t, d.SignOut)
		assert.Equal(t, "Please use a Somaiya email address (@somaiya.edu)", d.Message)
	}
}

// ==========================
// Form access
// ==========================

func TestGuard_FormWithoutRecordIsPrefilled(t *testing.T) {
	h, _ := createTestHandler(t, true)

	d, err := h.Execute(context.Background(), &Input{View: ViewForm, Identity: applicant})
	require.NoError(t, err)
	assert.Equal(t, ViewForm, d.View)
	assert.False(t, d.Redirected)
	assert.False(t, d.ReadOnly)
	require.NotNil(t, d.Application)
	assert.Equal(t, "Asha Rao", d.Application.FullName)
	assert.Equal(t, "asha.rao@somaiya.edu", d.Application.Email)
}

func TestGuard_FormWithDraft(t *testing.T) {
	h, store := createTestHandler(t, true)
	storeRecord(t, store, false)

	d, err := h.Execute(context.Background(), &Input{View: ViewForm, Identity: applicant, ViewHint: true})
	require.NoError(t, err)
	assert.Equal(t, ViewForm, d.View)
	assert.Equal(t, "16010123001", d.Application.RollNumber)
	assert.True(t, d.ClearViewHint, "stale hint is cleared")
}

func TestGuard_SubmittedRecordLeavesForm(t *testing.T) {
	h, store := createTestHandler(t, true)
	storeRecord(t, store, true)

	d, err := h.Execute(context.Background(), &Input{View: ViewForm, Identity: applicant})
	require.NoError(t, err)
	assert.Equal(t, ViewSuccess, d.View)
	assert.True(t, d.Redirected)
	assert.True(t, d.ReadOnly)
	assert.True(t, d.SetViewHint)
	assert.False(t, d.ClearViewHint)
}

func TestGuard_SignInRoutesOnward(t *testing.T) {
	h, store := createTestHandler(t, true)

	d, err := h.Execute(context.Background(), &Input{View: ViewSignIn, Identity: applicant})
	require.NoError(t, err)
	assert.Equal(t, ViewForm, d.View)
	assert.True(t, d.Redirected)

	storeRecord(t, store, true)
	d, err = h.Execute(context.Background(), &Input{View: ViewSignIn, Identity: applicant})
	require.NoError(t, err)
	assert.Equal(t, ViewSuccess, d.View)
}

func TestGuard_ClosedForm(t *testing.T) {
	h, store := createTestHandler(t, false)

	d, err := h.Execute(context.Background(), &Input{View: ViewForm, Identity: applicant})
	require.NoError(t, err)
	assert.Equal(t, ViewFormClosed, d.View)
	assert.True(t, d.Redirected)

	storeRecord(t, store, true)
	d, err = h.Execute(context.Background(), &Input{View: ViewForm, Identity: applicant})
	require.NoError(t, err)
	assert.Equal(t, ViewSuccess, d.View, "submitted applicants still reach their confirmation")
}

// ==========================
// Preview / success
// ==========================

func TestGuard_Preview(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		h, _ := createTestHandler(t, true)
		d, err := h.Execute(context.Background(), &Input{View: ViewPreview, Identity: applicant})
		require.NoError(t, err)
		assert.Equal(t, ViewForm, d.View)
		assert.Equal(t, MessageNoApplication, d.Message)
	})

	t.Run("draft", func(t *testing.T) {
		h, store := createTestHandler(t, true)
		storeRecord(t, store, false)
		d, err := h.Execute(context.Background(), &Input{View: ViewPreview, Identity: applicant})
		require.NoError(t, err)
		assert.Equal(t, ViewForm, d.View)
		assert.True(t, d.Redirected)
		assert.Equal(t, MessageNotSubmitted, d.Message)
	})

	t.Run("submitted", func(t *testing.T) {
		h, store := createTestHandler(t, true)
		storeRecord(t, store, true)
		d, err := h.Execute(context.Background(), &Input{View: ViewPreview, Identity: applicant})
		require.NoError(t, err)
		assert.Equal(t, ViewPreview, d.View)
		assert.True(t, d.ReadOnly)
		assert.Equal(t, "2025-01-15T10:30:00.000Z", d.Application.SubmittedAt)
	})
}

func TestGuard_Success(t *testing.T) {
	h, _ := createTestHandler(t, true)
	d, err := h.Execute(context.Background(), &Input{View: ViewSuccess, Identity: applicant})
	require.NoError(t, err)
	assert.Equal(t, ViewSuccess, d.View)
	assert.False(t, d.ReadOnly)
}

// ==========================
// Admin
// ==========================

func TestGuard_Admin(t *testing.T) {
	h, _ := createTestHandler(t, true)

	d, err := h.Execute(context.Background(), &Input{View: ViewAdmin, Identity: admin})
	require.NoError(t, err)
	assert.Equal(t, ViewAdmin, d.View)

	d, err = h.Execute(context.Background(), &Input{View: ViewAdmin, Identity: applicant})
	require.NoError(t, err)
	assert.Equal(t, ViewForm, d.View)
	assert.True(t, d.Redirected)
	assert.Equal(t, MessageUnauthorized, d.Message)
}

func TestConfig_IsAdmin_EmptyListDeniesEveryone(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.IsAdmin("admin@somaiya.edu"))
	assert.False(t, cfg.IsAdmin(""))
}

// ==========================
// Store failures
// ==========================

func TestGuard_StoreReadFailure(t *testing.T) {
	h := NewHandler(&Config{AllowedDomain: "somaiya.edu", FormOpen: true}, failingReader{}, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{View: ViewForm, Identity: applicant})
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeStoreReadFailed))
	assert.Equal(t, 503, commonerrors.StatusCode(err))
}

func TestGuard_StoreReadFailureFallsBackToViewHint(t *testing.T) {
	h := NewHandler(&Config{AllowedDomain: "somaiya.edu", FormOpen: true}, failingReader{}, logger.NewTestLogger(t))

	tests := []struct {
		view       string
		want       string
		redirected bool
	}{
		{ViewForm, ViewSuccess, true},
		{ViewSignIn, ViewSuccess, true},
		{ViewPreview, ViewPreview, false},
		{ViewSuccess, ViewSuccess, false},
	}

	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			d, err := h.Execute(context.Background(), &Input{View: tt.view, Identity: applicant, ViewHint: true})
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.View)
			assert.Equal(t, tt.redirected, d.Redirected)
			assert.True(t, d.ReadOnly)
			assert.True(t, d.FromHint)
			assert.Nil(t, d.Application)
			assert.False(t, d.ClearViewHint)
		})
	}
}
