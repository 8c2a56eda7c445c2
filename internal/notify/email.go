package notify

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"github.com/tontine-app/tontine/internal/models"
)

// Sender abstracts the SMTP dial so tests can capture messages.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email sends notifications over SMTP.
type Email struct {
	from   string
	sender Sender
}

// NewEmail dials server:port with the given credentials for every message.
func NewEmail(server string, port int, user, password string) *Email {
	return NewEmailWithSender(user, gomail.NewDialer(server, port, user, password))
}

func NewEmailWithSender(from string, sender Sender) *Email {
	return &Email{from: from, sender: sender}
}

func (e *Email) Notify(ctx context.Context, user *models.User, n Notification) error {
	if user.Email == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := e.sender.DialAndSend(e.compose(user.Email, n)); err != nil {
		return fmt.Errorf("email to user %s failed: %w", user.ID, err)
	}
	return nil
}

func (e *Email) compose(address string, n Notification) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", "Tontine", e.from))
	m.SetHeader("To", address)
	m.SetHeader("Subject", n.Title)
	m.SetBody("text/html", "<p>"+html.EscapeString(n.Body)+"</p>")
	return m
}
