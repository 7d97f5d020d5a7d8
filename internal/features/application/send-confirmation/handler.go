// internal/features/application/send-confirmation/handler.go
package sendconfirmation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	commonaws "membership-portal/internal/common/aws"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

const (
	FeatureName = "send-confirmation"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

func NewHandler(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"feature": FeatureName}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// NewHandlerFromAWS loads the default AWS configuration and builds SES and
// SNS clients for the enabled channels.
func NewHandlerFromAWS(ctx context.Context, config *Config, log logger.Logger) (*Handler, error) {
	if !config.Enabled() {
		return NewHandler(config, nil, nil, log), nil
	}
	awsCfg, err := commonaws.LoadConfig(ctx, config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewHandler(config, commonaws.NewSESClient(awsCfg), commonaws.NewSNSClient(awsCfg), log), nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	out := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}
	if !h.config.Enabled() {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	app := input.Application
	failed := false

	if h.config.EmailEnabled && h.sesClient != nil && app.Email != "" {
		if err := h.sendEmail(ctx, &app); err != nil {
			h.logger.Error("confirmation email failed", map[string]interface{}{
				"error":         err.Error(),
				"applicationId": input.ApplicationID,
			})
			failed = true
		} else {
			out.EmailSent = true
		}
	}

	if h.config.TopicEnabled && h.snsClient != nil && h.config.TopicARN != "" {
		if err := h.publishEvent(ctx, out.NotificationID, input); err != nil {
			h.logger.Error("submission event publish failed", map[string]interface{}{
				"error":         err.Error(),
				"applicationId": input.ApplicationID,
			})
			failed = true
		} else {
			out.EventPublished = true
		}
	}

	switch {
	case failed:
		out.Status = StatusFailed
	case out.EmailSent || out.EventPublished:
		out.Status = StatusSent
	}

	h.logger.Info("confirmation processed", map[string]interface{}{
		"applicationId":  input.ApplicationID,
		"notificationId": out.NotificationID,
		"status":         out.Status,
	})
	return out, nil
}

func (h *Handler) sendEmail(ctx context.Context, app *models.Application) error {
	subject, text := confirmationMessage(h.config.InstitutionName, app.FullName)
	_, err := h.sesClient.SendEmail(ctx, commonaws.BuildEmail(h.config.FromEmail, app.Email, subject, text, ""))
	return err
}

func (h *Handler) publishEvent(ctx context.Context, notificationID string, input *Input) error {
	app := input.Application
	event := SubmissionEvent{
		Type:           TypeApplicationSubmitted,
		NotificationID: notificationID,
		ApplicationID:  input.ApplicationID,
		FullName:       app.FullName,
		Email:          app.Email,
		Year:           app.Year,
		Branch:         app.Branch,
		Role:           app.Role,
		Role2:          app.Role2,
		SubmittedAt:    app.SubmittedAt,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = h.snsClient.Publish(ctx, commonaws.BuildTopicMessage(
		h.config.TopicARN,
		"New membership application",
		string(body),
		map[string]string{"eventType": TypeApplicationSubmitted, "year": app.Year},
	))
	return err
}

func confirmationMessage(institution, name string) (string, string) {
	subject := "Your membership application was received"
	greeting := "Hello"
	if strings.TrimSpace(name) != "" {
		greeting = "Hello " + strings.TrimSpace(name)
	}
	body := greeting + ",\n\nThank you for applying. Your application has been submitted and can no longer be edited."
	if institution != "" {
		body += "\n\n" + institution + " ACM Student Chapter"
	}
	return subject, body
}
