package providers

import (
	"github.com/samber/do/v2"

	"github.com/critiqueapp/critique-server/internal/config"
	"github.com/critiqueapp/critique-server/internal/logger"
	"github.com/critiqueapp/critique-server/internal/mail"
)

// ProvideMailer provides the outbound mailer. SMTP when configured, a noop
// that only logs otherwise, so development never needs a mail server.
func ProvideMailer(i do.Injector) (mail.Mailer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Mail.Enabled {
		log.Info("Mail delivery disabled, using noop mailer")
		return mail.NewNoop(), nil
	}

	log.Info("SMTP mailer configured", "host", cfg.Mail.Host, "port", cfg.Mail.Port)
	return mail.NewSMTP(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		From:     cfg.Mail.From,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
	}), nil
}
