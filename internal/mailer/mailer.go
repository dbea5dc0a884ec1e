// Package mailer renders customer notifications into HTML mail and hands
// them to the provider dispatcher.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/jmehdipour/invest-backoffice/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var ErrUnknownTemplate = errors.New("unknown notification template")

var subjects = map[string]string{
	model.TemplateInvestActivated:   "Your investment is active",
	model.TemplateInvestRejected:    "Your investment was rejected",
	model.TemplateWithdrawFulfilled: "Your withdrawal was sent",
	model.TemplateWithdrawRejected:  "Your withdrawal was rejected",
}

// MailSender is satisfied by *dispatcher.Dispatcher.
type MailSender interface {
	Send(ctx context.Context, m model.Mail) (provider string, err error)
}

type Mailer struct {
	from   string
	brand  string
	pages  map[string]*template.Template
	sender MailSender
}

type view struct {
	Username string
	Brand    string
	P        map[string]string
}

func New(from, brand string, sender MailSender) (*Mailer, error) {
	base, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(subjects))
	for tag := range subjects {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.New("content").Parse(`{{template "` + tag + `.content" .}}`); err != nil {
			return nil, fmt.Errorf("template %s: %w", tag, err)
		}
		pages[tag] = t
	}

	return &Mailer{from: from, brand: brand, pages: pages, sender: sender}, nil
}

// Render builds the mail for n. Payload values are HTML-escaped.
func (m *Mailer) Render(n model.Notification) (model.Mail, error) {
	page, ok := m.pages[n.Template]
	if !ok {
		return model.Mail{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, n.Template)
	}

	var body bytes.Buffer
	if err := page.ExecuteTemplate(&body, "layout", view{Username: n.Username, Brand: m.brand, P: n.Payload}); err != nil {
		return model.Mail{}, fmt.Errorf("render %s: %w", n.Template, err)
	}

	return model.Mail{
		From:    m.from,
		To:      n.Recipient,
		Subject: subjects[n.Template],
		HTML:    body.String(),
	}, nil
}

// Deliver renders and sends n, returning the provider that handled it.
func (m *Mailer) Deliver(ctx context.Context, n model.Notification) (string, error) {
	mail, err := m.Render(n)
	if err != nil {
		return "", err
	}
	return m.sender.Send(ctx, mail)
}

func (m *Mailer) Send(ctx context.Context, n model.Notification) error {
	_, err := m.Deliver(ctx, n)
	return err
}
