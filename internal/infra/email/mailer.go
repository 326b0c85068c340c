// Package email renderiza os três templates HTML fixos e entrega via
// SMTP (STARTTLS). Só roda no worker; falha aqui vira retry da fila,
// nunca erro na request original.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string

	AdminEmail   string
	DashboardURL string
}

func ConfigFromEnv() Config {
	port, err := strconv.Atoi(os.Getenv("MAIL_PORT"))
	if err != nil {
		port = 587
	}
	return Config{
		Host:         os.Getenv("MAIL_SERVER"),
		Port:         port,
		Username:     os.Getenv("MAIL_USERNAME"),
		Password:     os.Getenv("MAIL_PASSWORD"),
		From:         os.Getenv("MAIL_FROM"),
		FromName:     os.Getenv("MAIL_FROM_NAME"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),
		DashboardURL: os.Getenv("ADMIN_DASHBOARD_URL"),
	}
}

type Mailer struct {
	config Config
	dialer *gomail.Dialer
}

func NewMailer(config Config) *Mailer {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	return &Mailer{config: config, dialer: dialer}
}

// SendTransactionAlert avisa a caixa do administrador que uma transação
// nova está aguardando validação manual.
func (m *Mailer) SendTransactionAlert(reference string) error {
	body, err := render(transactionAlertTemplate, map[string]string{
		"Reference":    reference,
		"DashboardURL": m.config.DashboardURL,
	})
	if err != nil {
		return err
	}
	return m.send(m.config.AdminEmail, "💸 Nouvelle transaction", body)
}

func (m *Mailer) SendPasswordResetLink(to, link string) error {
	body, err := render(passwordResetLinkTemplate, map[string]string{"Link": link})
	if err != nil {
		return err
	}
	return m.send(to, "🔐 Réinitialisation de mot de passe", body)
}

func (m *Mailer) SendPasswordResetOTP(to, code string) error {
	body, err := render(passwordResetOTPTemplate, map[string]string{"Code": code})
	if err != nil {
		return err
	}
	return m.send(to, "🔐 Votre code de réinitialisation", body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.config.From, m.config.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp relay failed: %w", err)
	}
	return nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}
