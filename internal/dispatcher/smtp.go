package dispatcher

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/model"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPProvider submits mail to an SMTP relay with PLAIN auth over STARTTLS.
type SMTPProvider struct {
	addr     string
	host     string
	auth     smtp.Auth
	br       *MicroBreaker
	sendMail sendMailFunc
	now      func() time.Time
}

func NewSMTPProvider(host string, port int, username, password string, failThreshold, openForMs int) *SMTPProvider {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPProvider{
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		host:     host,
		auth:     auth,
		br:       NewMicroBreaker(failThreshold, time.Duration(openForMs)*time.Millisecond),
		sendMail: smtp.SendMail,
		now:      time.Now,
	}
}

func (p *SMTPProvider) Name() string  { return "smtp" }
func (p *SMTPProvider) Ready() bool   { return p.br.Ready() }
func (p *SMTPProvider) Acquire() bool { return p.br.TryAcquire() }

// Send does not observe ctx cancellation once the SMTP dialogue started;
// net/smtp has no context support.
func (p *SMTPProvider) Send(ctx context.Context, m model.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.sendMail(p.addr, p.auth, m.From, []string{m.To}, p.message(m))
	if err != nil {
		err = fmt.Errorf("smtp %s: %w", p.addr, err)
	}
	p.br.Record(err)
	return err
}

func (p *SMTPProvider) message(m model.Mail) []byte {
	var b strings.Builder
	b.WriteString("From: " + m.From + "\r\n")
	b.WriteString("To: " + m.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", m.Subject) + "\r\n")
	b.WriteString("Date: " + p.now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.HTML)
	return []byte(b.String())
}
