// internal/features/application/send-confirmation/config.go
package sendconfirmation

import (
	"time"

	"membership-portal/internal/common/config"
)

type Config struct {
	EmailEnabled    bool
	TopicEnabled    bool
	FromEmail       string
	TopicARN        string
	AWSRegion       string
	InstitutionName string
	Timeout         time.Duration
}

func LoadConfig(cfg config.NotificationConfig, institution string) *Config {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{
		EmailEnabled:    cfg.Email.Enabled,
		TopicEnabled:    cfg.Topic.Enabled,
		FromEmail:       cfg.Email.FromEmail,
		TopicARN:        cfg.Topic.ARN,
		AWSRegion:       cfg.AWS.Region,
		InstitutionName: institution,
		Timeout:         timeout,
	}
}

// Enabled reports whether any channel is switched on.
func (c *Config) Enabled() bool {
	return c.EmailEnabled || c.TopicEnabled
}
