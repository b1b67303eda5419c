package mail

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
)

// Message is a fully formatted transactional email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Transport delivers a formatted message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher renders transactional emails and hands them to a Transport.
// Send failures are logged and reported as false; they never propagate.
type Dispatcher struct {
	transport Transport
	from      string
	appName   string
}

// NewDispatcher returns a dispatcher. A nil transport means mail is not
// configured and every send reports false.
func NewDispatcher(transport Transport, from, appName string) *Dispatcher {
	return &Dispatcher{transport: transport, from: from, appName: appName}
}

func (d *Dispatcher) Configured() bool {
	return d != nil && d.transport != nil
}

var temporaryPasswordTmpl = template.Must(template.New("temporary_password").Parse(`<!DOCTYPE html>
<html><body style="font-family:-apple-system,BlinkMacSystemFont,sans-serif;color:#1a1a1a">
<h2>{{.AppName}}</h2>
<p>Ciao {{.Name}},</p>
<p>we received a request to reset your password. Your temporary password is:</p>
<p style="font-size:20px;font-weight:bold;letter-spacing:2px">{{.Password}}</p>
<p>Log in with it and change it from your profile as soon as possible.</p>
<p>If you did not ask for a reset, contact the club staff.</p>
</body></html>`))

// SendTemporaryPassword emails a freshly generated password to a member.
func (d *Dispatcher) SendTemporaryPassword(ctx context.Context, to, name, password string) bool {
	if !d.Configured() {
		slog.Warn("mail not configured, skipping temporary password email", "action", "password_reset")
		return false
	}

	var body bytes.Buffer
	err := temporaryPasswordTmpl.Execute(&body, struct {
		AppName  string
		Name     string
		Password string
	}{AppName: d.appName, Name: name, Password: password})
	if err != nil {
		slog.Error("failed to render temporary password email", "error", err, "action", "password_reset")
		return false
	}

	msg := Message{
		From:    d.from,
		To:      to,
		Subject: d.appName + " - password reset",
		HTML:    body.String(),
	}
	if err := d.transport.Send(ctx, msg); err != nil {
		slog.Error("failed to send temporary password email", "error", err, "action", "password_reset")
		return false
	}

	slog.Info("temporary password email sent", "action", "password_reset")
	return true
}
