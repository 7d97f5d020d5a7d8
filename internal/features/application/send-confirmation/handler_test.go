// internal/features/application/send-confirmation/handler_test.go
package sendconfirmation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"membership-portal/internal/common/config"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		EmailEnabled:    true,
		TopicEnabled:    true,
		FromEmail:       "acm@somaiya.edu",
		TopicARN:        "arn:aws:sns:ap-south-1:123456789012:acm-applications",
		AWSRegion:       "ap-south-1",
		InstitutionName: "KJSCE",
		Timeout:         5 * time.Second,
	}
}

func createTestInput() *Input {
	return &Input{
		ApplicationID: "uid-1",
		Application: models.Application{
			FullName:    "Asha Rao",
			Email:       "asha.rao@somaiya.edu",
			Year:        "2",
			Branch:      "CSE",
			Role:        "Technical Team",
			Role2:       "Creative Team",
			Submitted:   true,
			SubmittedAt: "2025-01-15T10:30:00.000Z",
		},
	}
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

func okSES(sent *[]*ses.SendEmailInput) *MockSESService {
	return &MockSESService{
		SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			*sent = append(*sent, params)
			return &ses.SendEmailOutput{}, nil
		},
	}
}

func okSNS(published *[]*sns.PublishInput) *MockSNSService {
	return &MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			*published = append(*published, params)
			return &sns.PublishOutput{}, nil
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Sent(t *testing.T) {
	var sent []*ses.SendEmailInput
	var published []*sns.PublishInput
	h := NewHandler(createTestConfig(), okSES(&sent), okSNS(&published), &testLogger{t: t})

	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, StatusSent, out.Status)
	assert.True(t, out.EmailSent)
	assert.True(t, out.EventPublished)
	assert.NotEmpty(t, out.NotificationID)

	require.Len(t, sent, 1)
	assert.Equal(t, []string{"asha.rao@somaiya.edu"}, sent[0].Destination.ToAddresses)
	assert.Equal(t, "acm@somaiya.edu", *sent[0].Source)
	assert.Contains(t, *sent[0].Message.Body.Text.Data, "Hello Asha Rao")

	require.Len(t, published, 1)
	assert.Equal(t, createTestConfig().TopicARN, *published[0].TopicArn)

	var event SubmissionEvent
	require.NoError(t, json.Unmarshal([]byte(*published[0].Message), &event))
	assert.Equal(t, TypeApplicationSubmitted, event.Type)
	assert.Equal(t, "uid-1", event.ApplicationID)
	assert.Equal(t, out.NotificationID, event.NotificationID)
	assert.Equal(t, "2025-01-15T10:30:00.000Z", event.SubmittedAt)
	assert.Equal(t, TypeApplicationSubmitted, *published[0].MessageAttributes["eventType"].StringValue)
}

func TestHandler_Execute_Channels(t *testing.T) {
	tests := []struct {
		name         string
		emailEnabled bool
		topicEnabled bool
		sesErr       error
		snsErr       error
		wantStatus   string
		wantEmail    bool
		wantEvent    bool
	}{
		{"all disabled", false, false, nil, nil, StatusDisabled, false, false},
		{"email only", true, false, nil, nil, StatusSent, true, false},
		{"topic only", false, true, nil, nil, StatusSent, false, true},
		{"email fails", true, true, errors.New("throttled"), nil, StatusFailed, false, true},
		{"topic fails", true, true, nil, errors.New("not authorized"), StatusFailed, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			cfg.EmailEnabled = tt.emailEnabled
			cfg.TopicEnabled = tt.topicEnabled

			sesMock := &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
				return &ses.SendEmailOutput{}, tt.sesErr
			}}
			snsMock := &MockSNSService{PublishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
				return &sns.PublishOutput{}, tt.snsErr
			}}

			h := NewHandler(cfg, sesMock, snsMock, &testLogger{t: t})
			out, err := h.Execute(context.Background(), createTestInput())

			require.NoError(t, err, "delivery failures are reported in the status")
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantEmail, out.EmailSent)
			assert.Equal(t, tt.wantEvent, out.EventPublished)
		})
	}
}

func TestNewHandlerFromAWS_Disabled(t *testing.T) {
	h, err := NewHandlerFromAWS(context.Background(), &Config{Timeout: time.Second}, &testLogger{t: t})
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)
}

func TestLoadConfig(t *testing.T) {
	var nc config.NotificationConfig
	nc.Email.Enabled = true
	nc.Email.FromEmail = "acm@somaiya.edu"
	nc.AWS.Region = "ap-south-1"

	cfg := LoadConfig(nc, "KJSCE")
	assert.True(t, cfg.Enabled())
	assert.False(t, cfg.TopicEnabled)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "KJSCE", cfg.InstitutionName)
}

func TestConfirmationMessage(t *testing.T) {
	subject, body := confirmationMessage("", "  ")
	assert.NotEmpty(t, subject)
	assert.Contains(t, body, "Hello,")
	assert.NotContains(t, body, "ACM Student Chapter")
}
