package services

import (
	"bytes"
	"fmt"
	"io/fs"
	"mime"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Message is one outgoing plain-text email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// MailConfig selects the delivery backend. With Host, Port and From set,
// mail goes out over SMTP; otherwise each message is written to a file
// under Dir.
type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Dir      string
}

func (c MailConfig) smtpEnabled() bool {
	return c.Host != "" && c.Port != "" && c.From != ""
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// MailService renders emails from templates and delivers them.
type MailService struct {
	cfg       MailConfig
	templates *template.Template
	logger    *log.Logger
	send      sendFunc
	now       func() time.Time
}

// NewMailService parses every *.txt template in templates.
func NewMailService(cfg MailConfig, templates fs.FS, logger *log.Logger) (*MailService, error) {
	tmpl, err := template.ParseFS(templates, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	if !cfg.smtpEnabled() {
		logger.WithField("dir", cfg.Dir).Warn("SMTP not configured, emails are written to files")
	}
	return &MailService{cfg: cfg, templates: tmpl, logger: logger, send: smtp.SendMail, now: time.Now}, nil
}

// Render builds a message from the "<name>_subject.txt" and "<name>_email.txt" templates.
func (s *MailService) Render(name string, to string, data interface{}) (Message, error) {
	var subject, body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&subject, name+"_subject.txt", data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := s.templates.ExecuteTemplate(&body, name+"_email.txt", data); err != nil {
		return Message{}, fmt.Errorf("render %s body: %w", name, err)
	}
	return Message{
		To:      []string{to},
		Subject: strings.Join(strings.Fields(subject.String()), " "),
		Body:    body.String(),
	}, nil
}

// Send delivers msg. SMTP delivery runs in the background and only logs
// failures; the file backend writes synchronously.
func (s *MailService) Send(msg Message) error {
	raw := s.compose(msg)
	if !s.cfg.smtpEnabled() {
		return s.writeFile(msg, raw)
	}

	go func() {
		var auth smtp.Auth
		if s.cfg.Username != "" {
			auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		}
		addr := s.cfg.Host + ":" + s.cfg.Port
		entry := s.logger.WithFields(log.Fields{"to": msg.To, "subject": msg.Subject})
		if err := s.send(addr, auth, s.cfg.From, msg.To, raw); err != nil {
			entry.WithError(err).Error("failed to send email")
			return
		}
		entry.Info("email sent")
	}()
	return nil
}

func (s *MailService) compose(msg Message) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", mime.QEncoding.Encode("utf-8", "Yatube")+" <"+s.cfg.From+">")
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", s.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return b.Bytes()
}

func (s *MailService) writeFile(msg Message, raw []byte) error {
	if s.cfg.Dir == "" {
		s.logger.WithFields(log.Fields{"to": msg.To, "subject": msg.Subject}).Info("email dropped, no mail directory")
		return nil
	}
	if err := os.MkdirAll(s.cfg.Dir, 0o700); err != nil {
		return fmt.Errorf("create mail dir: %w", err)
	}
	name := filepath.Join(s.cfg.Dir, s.now().Format("20060102-150405")+"-"+uuid.NewString()+".eml")
	if err := os.WriteFile(name, raw, 0o600); err != nil {
		return fmt.Errorf("write email: %w", err)
	}
	s.logger.WithFields(log.Fields{"to": msg.To, "file": name}).Info("email written")
	return nil
}
