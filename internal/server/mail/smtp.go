package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"github.com/marianfedorco24/api/internal/server/config"
)

// SMTPSender sends verification codes through an authenticated STARTTLS
// SMTP relay from a fixed sender address.
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender builds a sender from the SMTP settings in cfg.
func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	client, err := gomail.NewClient(cfg.SMTPHost,
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
		gomail.WithUsername(cfg.SMTPUser),
		gomail.WithPassword(cfg.SMTPPassword),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.MailFrom}, nil
}

// SendVerificationCode dispatches the one-time code. The message body shows
// the code and its 5-minute validity window.
func (s *SMTPSender) SendVerificationCode(ctx context.Context, to string, code string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject("Your login code")
	msg.SetBodyString(gomail.TypeTextHTML, fmt.Sprintf(
		`<img src="https://fedorco.dev/logo/logo.png" style="width:10rem;"><br><p>Your one-time code is: <b>%s</b><br>(valid for 5 minutes)</p>`,
		code))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
