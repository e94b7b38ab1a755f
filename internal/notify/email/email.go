package email

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/config"
	"github.com/charmbracelet/log"
	mail "github.com/xhit/go-simple-mail/v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))

// Service sends the site's transactional mails over SMTP.
type Service struct {
	config *config.EmailConfig
	log    *log.Logger
}

// LinkMail is the data for mails carrying a single action link.
type LinkMail struct {
	Name string
	Link string
}

// CodeMail is the data for the account deletion confirmation mail.
type CodeMail struct {
	Name     string
	Code     string
	Validity time.Duration
}

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// New creates a new mail service.
func New(cfg *config.EmailConfig) *Service {
	if cfg == nil {
		cfg = &config.EmailConfig{}
	}
	return &Service{
		config: cfg,
		log:    log.Default().WithPrefix("mail"),
	}
}

// SendVerification mails the e-mail confirmation link.
func (s *Service) SendVerification(to, name, link string) error {
	return s.send(to, "Confirm your e-mail address", "verify_email.html", LinkMail{Name: name, Link: link}, "")
}

// SendPasswordReset mails the password reset link.
func (s *Service) SendPasswordReset(to, name, link string) error {
	return s.send(to, "Password reset", "reset_password.html", LinkMail{Name: name, Link: link}, "")
}

// SendDeletionCode mails the code confirming account deletion.
func (s *Service) SendDeletionCode(to, name, code string, validity time.Duration) error {
	return s.send(to, "Account deletion code", "delete_account.html", CodeMail{Name: name, Code: code, Validity: validity}, "")
}

// SendContactMessage forwards a contact form message to the configured recipient.
func (s *Service) SendContactMessage(msg ContactMessage) error {
	if s.config.Recipient == "" {
		return fmt.Errorf("no contact recipient configured")
	}
	subject := fmt.Sprintf("[Contact] %s", msg.Subject)
	return s.send(s.config.Recipient, subject, "contact.html", msg, msg.Email)
}

func (s *Service) send(to, subject, tmpl string, data any, replyTo string) error {
	if !s.config.Enabled {
		s.log.Debug("email is disabled, skipping", "to", to, "subject", subject)
		return nil
	}
	if to == "" {
		return fmt.Errorf("empty recipient")
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl, err)
	}

	return s.sendEmail(to, subject, buf.String(), replyTo)
}

// sendEmail sends an HTML mail using go-simple-mail.
func (s *Service) sendEmail(to, subject, body, replyTo string) error {
	server := mail.NewSMTPClient()
	server.Host = s.config.SMTPHost
	server.Port = s.config.SMTPPort
	server.Username = s.config.Username
	server.Password = s.config.Password

	switch {
	case s.config.UseSSL:
		server.Encryption = mail.EncryptionSSLTLS
	case s.config.UseTLS:
		server.Encryption = mail.EncryptionSTARTTLS
	default:
		server.Encryption = mail.EncryptionNone
	}

	if s.config.InsecureSkipVerify {
		server.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	smtpClient, err := server.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() {
		if closeErr := smtpClient.Close(); closeErr != nil {
			s.log.Warn("failed to close SMTP client", "error", closeErr)
		}
	}()

	fromName := s.config.FromName
	if fromName == "" {
		fromName = "IPBA"
	}

	email := mail.NewMSG()
	email.SetFrom(fmt.Sprintf("%s <%s>", fromName, s.config.FromEmail))
	email.AddTo(to)
	if replyTo != "" {
		email.SetReplyTo(replyTo)
	}
	email.SetSubject(subject)
	email.SetBody(mail.TextHTML, body)

	if email.Error != nil {
		return fmt.Errorf("failed to build email: %w", email.Error)
	}
	if err := email.Send(smtpClient); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Info("email sent", "to", to, "subject", subject)
	return nil
}

// render is used by tests to check template output.
func render(tmpl string, data any) (string, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, tmpl, data)
	return buf.String(), err
}
