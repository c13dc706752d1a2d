package email

import (
	"fmt"

	"shophub_backend/internal/config"
	"shophub_backend/internal/logger"
	"shophub_backend/internal/models"

	"gopkg.in/gomail.v2"
)

// Sender шлет письма через SMTP
type Sender struct {
	cfg *config.Config
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{cfg: cfg}
}

func (e *Sender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.Email.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		e.cfg.Email.SMTPHost,
		e.cfg.Email.SMTPPort,
		e.cfg.Email.SMTPUsername,
		e.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

// NotifyVerificationEvent уведомляет администратора платформы о шаге
// верификации магазина. Отправка асинхронная и не роняет операцию.
func (e *Sender) NotifyVerificationEvent(shopName string, status models.VerificationStatus) {
	if e.cfg.Email.AdminEmail == "" {
		return
	}
	go func() {
		subject := fmt.Sprintf("Shop verification update: %s", shopName)
		body := fmt.Sprintf(
			"<p>Shop <b>%s</b> moved to verification status <b>%s</b>.</p>",
			shopName, status,
		)
		if err := e.Send(e.cfg.Email.AdminEmail, subject, body); err != nil {
			logger.Warn("verification notification failed", "shop", shopName, "error", err)
		}
	}()
}
