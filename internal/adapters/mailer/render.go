package mailer

import (
	"bytes"
	"io"
	"net/mail"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gopkg.in/gomail.v2"

	"github.com/mikey/nzbget-notify/internal/core"
	"github.com/mikey/nzbget-notify/internal/recipients"
)

// Render builds the MIME message: text/plain, UTF-8, quoted-printable, with
// a MIME-encoded subject and the X-Application header
func Render(n *core.Notification) *gomail.Message {
	m := gomail.NewMessage(gomail.SetCharset("UTF-8"), gomail.SetEncoding(gomail.QuotedPrintable))

	m.SetHeader("From", formatAddress(m, n.From))
	m.SetHeader("To", lo.Map(n.To, func(a *mail.Address, _ int) string {
		return formatAddress(m, a)
	})...)
	m.SetHeader("Subject", n.Subject)
	m.SetDateHeader("Date", n.Date.UTC())
	m.SetHeader("Message-ID", messageID(n.From))
	if n.Application != "" {
		m.SetHeader("X-Application", n.Application)
	}
	m.SetBody("text/plain", n.Body)

	return m
}

// WriteMessage renders n into w
func WriteMessage(w io.Writer, n *core.Notification) error {
	_, err := Render(n).WriteTo(w)
	return err
}

// Bytes renders n into a byte slice
func Bytes(n *core.Notification) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAddress(m *gomail.Message, a *mail.Address) string {
	return m.FormatAddress(a.Address, a.Name)
}

func messageID(from *mail.Address) string {
	domain := recipients.Domain(from)
	if domain == "" {
		domain = "nzbget-notify"
	}
	return "<" + uuid.NewString() + "@" + domain + ">"
}
