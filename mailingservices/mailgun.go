package mailingservices

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/propvista/backend/config"
)

// Mailgun wraps the transactional email provider. The API key and sender
// address are injected once at startup and never re-read.
type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

func (m *Mailgun) Init(conf *config.Config) {
	if conf.MailgunApiKey == "" {
		log.Println("mailgun api key not configured, outbound email disabled")
		return
	}
	m.Client = mailgun.NewMailgun(conf.MgDomain, conf.MailgunApiKey)
	m.From = conf.MgEmailFrom
	if m.From == "" {
		m.From = fmt.Sprintf("PropVista <no-reply@%s>", conf.MgDomain)
	}
}

// Configured reports whether an API key was supplied at startup
func (m *Mailgun) Configured() bool {
	return m.Client != nil
}

// SendNotificationEmail delivers one transactional email. When no text body
// is given one is derived by stripping markup from the HTML body.
func (m *Mailgun) SendNotificationEmail(recipient, subject, htmlBody, textBody string) (string, error) {
	if m.Client == nil {
		return "", errors.New("mailgun client is not configured")
	}
	if textBody == "" {
		textBody = StripHTML(htmlBody)
	}

	message := m.Client.NewMessage(m.From, subject, textBody, recipient)
	message.SetHtml(htmlBody)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	_, id, err := m.Client.Send(ctx, message)
	if err != nil {
		return "", err
	}
	return id, nil
}

// SendResetPassword emails a password reset link
func (m *Mailgun) SendResetPassword(recipient, resetLink string) (string, error) {
	htmlBody := fmt.Sprintf(`<p>Hello,</p>
<p>We received a request to reset the password on your PropVista account.</p>
<p><a href="%s">Reset your password</a></p>
<p>If you did not request this, you can ignore this email.</p>`, resetLink)

	return m.SendNotificationEmail(recipient, "Reset your PropVista password", htmlBody, "")
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML reduces an HTML body to plain text
func StripHTML(html string) string {
	text := strings.ReplaceAll(html, "</p>", "\n")
	text = strings.ReplaceAll(text, "<br>", "\n")
	text = strings.ReplaceAll(text, "<br/>", "\n")
	text = tagPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	return strings.TrimSpace(text)
}
