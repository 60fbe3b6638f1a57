package notifier

import (
	"github.com/Bankydog/auth-service/shared/mailer"
)

// EmailNotifier delivers verification messages over SMTP. It satisfies
// usecase.VerificationNotifier.
type EmailNotifier struct {
	mailer *mailer.Mailer
}

// NewEmailNotifier creates an EmailNotifier backed by the given mailer.
func NewEmailNotifier(m *mailer.Mailer) *EmailNotifier {
	return &EmailNotifier{mailer: m}
}

func (n *EmailNotifier) SendVerificationMessage(to, subject, htmlBody string) error {
	return n.mailer.SendHTML([]string{to}, subject, htmlBody)
}
