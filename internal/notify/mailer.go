package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/MdFayaz7/portfolio1/internal/config"
	"github.com/MdFayaz7/portfolio1/internal/tasks"
)

var mailTemplate = template.Must(template.New("contact").Parse(`<h3>New Message from Portfolio Contact Form</h3>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
{{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>
{{end}}<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p>{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
<hr>
<p><small>Sent on {{.SentOn}}</small></p>
`))

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer delivers contact notifications over SMTP with PLAIN auth.
type Mailer struct {
	addr string
	host string
	user string
	pass string
	to   string
	send sendFunc
}

// NewMailer returns nil when credentials are absent.
func NewMailer(cfg config.MailConfig) *Mailer {
	if !cfg.Enabled() {
		return nil
	}
	to := strings.TrimSpace(cfg.AdminEmail)
	if to == "" {
		to = cfg.User
	}
	return &Mailer{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host: cfg.Host,
		user: cfg.User,
		pass: cfg.Password,
		to:   to,
		send: smtp.SendMail,
	}
}

// Subject formats the notification subject line.
func Subject(subject string) string {
	if strings.TrimSpace(subject) == "" {
		subject = "No Subject"
	}
	return "New Portfolio Message: " + subject
}

// Send delivers one notification. net/smtp has no context support, so ctx is only
// checked before dialing.
func (m *Mailer) Send(ctx context.Context, p tasks.ContactNotifyPayload) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.compose(p)
	if err != nil {
		return err
	}
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := m.send(m.addr, auth, m.user, []string{m.to}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (m *Mailer) compose(p tasks.ContactNotifyPayload) ([]byte, error) {
	subject := p.Subject
	if strings.TrimSpace(subject) == "" {
		subject = "No Subject"
	}
	received := p.ReceivedAt
	if received.IsZero() {
		received = time.Now()
	}

	var body bytes.Buffer
	err := mailTemplate.Execute(&body, map[string]any{
		"Name":    p.Name,
		"Email":   p.Email,
		"Phone":   p.Phone,
		"Subject": subject,
		"Lines":   strings.Split(p.Message, "\n"),
		"SentOn":  received.Format(time.RFC1123),
	})
	if err != nil {
		return nil, fmt.Errorf("render mail: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.user)
	fmt.Fprintf(&msg, "To: %s\r\n", m.to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", Subject(p.Subject)))
	fmt.Fprintf(&msg, "Reply-To: %s\r\n", sanitizeHeader(p.Email))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}
