package dispatcher

import (
	"errors"
	"strings"

	"github.com/jmehdipour/invest-backoffice/internal/config"
)

var ErrNoProviders = errors.New("no mail providers enabled in config")

// FromConfig builds the SMTP provider (when enabled) followed by every
// enabled HTTP provider.
func FromConfig(cfg config.MailerConfig) (*Dispatcher, error) {
	var provs []Provider
	if cfg.SMTP.Enabled && strings.TrimSpace(cfg.SMTP.Host) != "" {
		provs = append(provs, NewSMTPProvider(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
			cfg.SMTP.Breaker.FailThreshold,
			cfg.SMTP.Breaker.OpenForMs,
		))
	}
	for _, pc := range cfg.Providers {
		if !pc.Enabled || strings.TrimSpace(pc.BaseURL) == "" {
			continue
		}
		provs = append(provs, NewHTTPProvider(
			pc.Name,
			strings.TrimRight(pc.BaseURL, "/"),
			pc.SendPath,
			pc.APIKey,
			pc.TimeoutMs,
			pc.Breaker.FailThreshold,
			pc.Breaker.OpenForMs,
		))
	}
	if len(provs) == 0 {
		return nil, ErrNoProviders
	}
	return NewDispatcher(provs, cfg.MaxAttempts), nil
}
