// Package mailer delivers password reset links.
package mailer

import (
	"context"
	"html/template"
)

// Sender delivers a reset URL to an email address
type Sender interface {
	Send(ctx context.Context, email, resetURL string) error
}

const resetSubject = "Password Reset"

var resetBody = template.Must(template.New("reset").Parse(
	`<p>Click <a href="{{.URL}}">here</a> to reset your password.</p>`,
))

type resetData struct {
	URL template.URL
}
