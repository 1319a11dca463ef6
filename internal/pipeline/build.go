package pipeline

import (
	"salarycheck/internal/config"
	"salarycheck/internal/mailer"
	"salarycheck/internal/notify"
	"salarycheck/internal/pkg/github"
	"salarycheck/internal/pkg/payroll"

	"go.uber.org/zap"
)

// NewSender returns the SMTP sender, or a logging sender for dry runs.
func NewSender(cfg *config.Config, dryRun bool, log *zap.SugaredLogger) mailer.Sender {
	if dryRun {
		return &mailer.LogSender{Log: log}
	}
	return mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:         cfg.SMTPHost,
		Port:         cfg.SMTPPort,
		FallbackPort: cfg.SMTPFallbackPort,
		Username:     cfg.SMTPUser,
		Password:     cfg.SMTPPass,
		FromName:     cfg.MailFromName,
		ReplyTo:      cfg.MailReplyTo,
		Timeout:      cfg.SMTPTimeout,
	}, log)
}

// FromConfig wires the upstream clients and the dispatcher into a Runner.
func FromConfig(cfg *config.Config, sender mailer.Sender, log *zap.SugaredLogger) (*Runner, error) {
	checkpoints, err := notify.ParseCheckpoints(cfg.Checkpoints)
	if err != nil {
		return nil, err
	}

	payrollClient := payroll.New(payroll.Options{
		URL:       cfg.PayrollURL,
		AppCode:   cfg.PayrollAppCode,
		UserID:    cfg.PayrollUserID,
		PowerType: cfg.PayrollPowerType,
		IsLock:    cfg.PayrollIsLock,
		Sheet:     cfg.PayrollSheet,
		Timeout:   cfg.HTTPTimeout,
	})
	registry := github.New(cfg.GitHubAPIURL, cfg.RegistryRepo, cfg.GitHubToken, cfg.HTTPTimeout)
	dispatcher := notify.NewDispatcher(sender, checkpoints, cfg.CheckpointTolerance, log)

	return NewRunner(cfg, payrollClient, registry, dispatcher, log), nil
}
