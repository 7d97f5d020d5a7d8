// internal/features/application/submit-application/handler_test.go
package submitapplication

import (
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
	sendconfirmation "membership-portal/internal/features/application/send-confirmation"
	validateapplication "membership-portal/internal/features/application/validate-application"
	applicationstore "membership-portal/internal/features/data-access/application-store"
	"membership-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test doubles
// ==========================

type countingStore struct {
	*applicationstore.MemoryStore
	puts   int
	getErr error
	putErr error
}

func (s *countingStore) Get(ctx context.Context, id string) (*models.Application, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStore.Get(ctx, id)
}

func (s *countingStore) Put(ctx context.Context, id string, app *models.Application) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.puts++
	return s.MemoryStore.Put(ctx, id, app)
}

type fakeDrafts struct {
	cancelled []string
}

func (d *fakeDrafts) Cancel(uid string) bool {
	d.cancelled = append(d.cancelled, uid)
	return true
}

type fakeNotifier struct {
	inputs []*sendconfirmation.Input
	status string
	err    error
}

func (n *fakeNotifier) Execute(_ context.Context, input *sendconfirmation.Input) (*sendconfirmation.Output, error) {
	n.inputs = append(n.inputs, input)
	if n.err != nil {
		return nil, n.err
	}
	return &sendconfirmation.Output{Status: n.status}, nil
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

// ==========================
// Test Helper Functions
// ==========================

var asha = models.Identity{UID: "uid-1", DisplayName: "Asha Rao", Email: "asha.rao@somaiya.edu"}

func validApplication() models.Application {
	return models.Application{
		RollNumber:      "16010123001",
		Branch:          "CSE",
		Year:            "2",
		CGPA:            "9.12",
		PhoneNumber:     "9876543210",
		GithubProfile:   "https://github.com/asharao",
		LinkedinProfile: "https://www.linkedin.com/in/asha-rao",
		CodechefProfile: "https://www.codechef.com/users/asha_rao",
		Resume:          "https://drive.google.com/file/d/1AbC_dEf-123/view?usp=sharing",
		WhyACM: "I want to join the chapter because I enjoy building software with other students and " +
			"would like to help organise workshops, contests and hackathons for juniors while learning " +
			"from seniors who have done this before me.",
		Role:  "Technical Team",
		Role2: "Creative Team",
	}
}

type fixture struct {
	handler  *Handler
	store    *countingStore
	drafts   *fakeDrafts
	notifier *fakeNotifier
}

func createFixture(t *testing.T, open bool) *fixture {
	f := &fixture{
		store:    &countingStore{MemoryStore: applicationstore.NewMemoryStore()},
		drafts:   &fakeDrafts{},
		notifier: &fakeNotifier{status: sendconfirmation.StatusSent},
	}
	log := &testLogger{t: t}
	f.handler = NewHandler(&Config{FormOpen: open}, f.store, f.drafts, validateapplication.NewHandler(nil, log), f.notifier, log)
	f.handler.now = func() time.Time {
		return time.Date(2025, 1, 15, 16, 0, 0, 123456789, time.FixedZone("IST", 5*3600+1800))
	}
	return f
}

// ==========================
// Core Functionality Tests
// ==========================

func TestExecute_Success(t *testing.T) {
	f := createFixture(t, true)

	input := &Input{Identity: asha, Application: validApplication()}
	input.Application.Email = "spoofed@example.com"

	out, err := f.handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, MessageSubmitted, out.Message)
	assert.Equal(t, RedirectSuccess, out.Redirect)
	assert.Equal(t, "2025-01-15T10:30:00.123Z", out.SubmittedAt)
	assert.Equal(t, sendconfirmation.StatusSent, out.NotificationStatus)

	assert.Equal(t, 1, f.store.puts, "exactly one unconditional write")
	assert.Equal(t, []string{"uid-1"}, f.drafts.cancelled)

	stored, err := f.store.Get(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.True(t, stored.Submitted)
	assert.Equal(t, "2025-01-15T10:30:00.123Z", stored.SubmittedAt)
	assert.Equal(t, "asha.rao@somaiya.edu", stored.Email, "identity fields come from the session")
	assert.Equal(t, "Asha Rao", stored.FullName)

	require.Len(t, f.notifier.inputs, 1)
	assert.Equal(t, "uid-1", f.notifier.inputs[0].ApplicationID)
}

func TestExecute_ValidationFailure(t *testing.T) {
	f := createFixture(t, true)

	app := validApplication()
	app.PhoneNumber = "98765"
	app.Role2 = app.Role

	out, err := f.handler.Execute(context.Background(), &Input{Identity: asha, Application: app})
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeApplicationValidationFailed))
	assert.Equal(t, 422, commonerrors.StatusCode(err))

	require.NotNil(t, out.Validation)
	assert.Contains(t, out.Validation.Errors, models.FieldPhoneNumber)
	assert.Contains(t, out.Validation.Errors, models.FieldRole)
	assert.Contains(t, out.Validation.Errors, models.FieldRole2)
	assert.ElementsMatch(t, models.FormFields, out.Validation.Touched)

	assert.Zero(t, f.store.puts)
	assert.Empty(t, f.drafts.cancelled)
	assert.Empty(t, f.notifier.inputs)
}

func TestExecute_AlreadySubmitted(t *testing.T) {
	f := createFixture(t, true)
	ctx := context.Background()

	first := validApplication()
	first.Email = asha.Email
	first.Submitted = true
	first.SubmittedAt = "2025-01-01T00:00:00.000Z"
	require.NoError(t, f.store.MemoryStore.Put(ctx, "uid-1", &first))

	_, err := f.handler.Execute(ctx, &Input{Identity: asha, Application: validApplication()})
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeApplicationAlreadySubmitted))

	stored, _ := f.store.Get(ctx, "uid-1")
	assert.Equal(t, "2025-01-01T00:00:00.000Z", stored.SubmittedAt)
}

func TestExecute_FormClosed(t *testing.T) {
	f := createFixture(t, false)

	_, err := f.handler.Execute(context.Background(), &Input{Identity: asha, Application: validApplication()})
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeFormClosed))
	assert.Zero(t, f.store.puts)
}

func TestExecute_StoreFailures(t *testing.T) {
	t.Run("read", func(t *testing.T) {
		f := createFixture(t, true)
		f.store.getErr = errors.New("connection refused")

		_, err := f.handler.Execute(context.Background(), &Input{Identity: asha, Application: validApplication()})
		assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeStoreReadFailed))
	})

	t.Run("write", func(t *testing.T) {
		f := createFixture(t, true)
		f.store.putErr = errors.New("connection refused")

		_, err := f.handler.Execute(context.Background(), &Input{Identity: asha, Application: validApplication()})
		assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeStoreWriteFailed))
		assert.Empty(t, f.notifier.inputs)
	})
}

func TestExecute_NotifierFailureDoesNotFailSubmit(t *testing.T) {
	f := createFixture(t, true)
	f.notifier.err = errors.New("ses down")

	out, err := f.handler.Execute(context.Background(), &Input{Identity: asha, Application: validApplication()})
	require.NoError(t, err)
	assert.Equal(t, sendconfirmation.StatusFailed, out.NotificationStatus)
}
