package service

import (
	"fmt"

	"mathwave_backend/internal/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer 邮件发送抽象，验证码与密码重置链接都走这里
type Mailer interface {
	SendOTP(toEmail, code string) error
	SendPasswordReset(toEmail, resetURL string) error
}

func NewMailer(cfg *config.EmailConfig, logger *zap.Logger) Mailer {
	if cfg.Provider == "sendgrid" && cfg.APIKey != "" {
		return &SendGridMailer{cfg: cfg, logger: logger}
	}
	// 本地开发不配 SendGrid，邮件内容直接打到日志
	return &ConsoleMailer{logger: logger}
}

type SendGridMailer struct {
	cfg    *config.EmailConfig
	logger *zap.Logger
}

func (m *SendGridMailer) send(toEmail, subject, plain, html string) error {
	from := mail.NewEmail(m.cfg.FromName, m.cfg.FromAddress)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	client := sendgrid.NewSendClient(m.cfg.APIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}

	m.logger.Info("邮件已发送", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}

func (m *SendGridMailer) SendOTP(toEmail, code string) error {
	plain := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	html := fmt.Sprintf("<p>Your verification code is <strong>%s</strong>.</p><p>It expires in 10 minutes.</p>", code)
	return m.send(toEmail, "Verify your email", plain, html)
}

func (m *SendGridMailer) SendPasswordReset(toEmail, resetURL string) error {
	plain := fmt.Sprintf("Reset your password: %s (valid for 1 hour)", resetURL)
	html := fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password.</p><p>The link is valid for 1 hour.</p>`, resetURL)
	return m.send(toEmail, "Reset your password", plain, html)
}

type ConsoleMailer struct {
	logger *zap.Logger
}

func (m *ConsoleMailer) SendOTP(toEmail, code string) error {
	m.logger.Info("[console mailer] 验证码邮件",
		zap.String("to", toEmail),
		zap.String("code", code))
	return nil
}

func (m *ConsoleMailer) SendPasswordReset(toEmail, resetURL string) error {
	m.logger.Info("[console mailer] 密码重置邮件",
		zap.String("to", toEmail),
		zap.String("reset_url", resetURL))
	return nil
}
