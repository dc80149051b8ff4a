package email

import (
	"context"

	"github.com/wneessen/go-mail"
)

// Sender delivers rendered messages. *mail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// NewSMTPClient builds a go-mail client. Authentication is only enabled
// when a user is configured, so local relays such as MailHog work as-is.
func NewSMTPClient(host string, port int, user, pass string) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(user),
			mail.WithPassword(pass),
		)
	}
	return mail.NewClient(host, opts...)
}
