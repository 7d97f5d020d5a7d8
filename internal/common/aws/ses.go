// internal/common/aws/ses.go
package aws

import (
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charsetUTF8 = "UTF-8"

// NewSESClient builds an SES client from a loaded AWS config.
func NewSESClient(cfg awssdk.Config) *ses.Client {
	return ses.NewFromConfig(cfg)
}

// BuildEmail creates a single-recipient SES message with text and HTML bodies.
func BuildEmail(from, to, subject, textBody, htmlBody string) *ses.SendEmailInput {
	body := &types.Body{
		Text: &types.Content{Data: awssdk.String(textBody), Charset: awssdk.String(charsetUTF8)},
	}
	if htmlBody != "" {
		body.Html = &types.Content{Data: awssdk.String(htmlBody), Charset: awssdk.String(charsetUTF8)}
	}
	return &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(subject), Charset: awssdk.String(charsetUTF8)},
			Body:    body,
		},
		Source: awssdk.String(from),
	}
}
