package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

type mailTemplate struct {
	subject string
	body    *template.Template
}

const layout = `<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #222;">
{{template "content" .}}
<p style="color:#888;font-size:12px;">This is an automated message. Please do not reply.</p>
</body></html>`

var templates = map[Kind]mailTemplate{
	KindAccountCreated: mustTemplate("Your employee account has been created", `{{define "content"}}
<p>Hello {{.name}},</p>
<p>An account has been created for you. Use the credentials below to sign in and complete your onboarding form.</p>
<p>Email: <b>{{.email}}</b><br>Temporary password: <b>{{.temporary_password}}</b></p>
<p>You will be asked to change your password after the first login.</p>
{{if .app_url}}<p><a href="{{.app_url}}">Sign in</a></p>{{end}}
{{end}}`),

	KindPasswordReset: mustTemplate("Your password has been reset", `{{define "content"}}
<p>Hello {{.name}},</p>
<p>HR has reset your password. Your new temporary password is <b>{{.temporary_password}}</b>.</p>
<p>All existing sessions were signed out.</p>
{{if .app_url}}<p><a href="{{.app_url}}">Sign in</a></p>{{end}}
{{end}}`),

	KindOnboardingApproved: mustTemplate("Your onboarding has been approved", `{{define "content"}}
<p>Hello {{.name}},</p>
<p>Your onboarding form has been approved. Welcome aboard! You can now mark your daily attendance.</p>
{{end}}`),

	KindOnboardingRejected: mustTemplate("Your onboarding application was not approved", `{{define "content"}}
<p>Hello {{.name}},</p>
<p>Unfortunately your onboarding application was not approved.</p>
{{if .reason}}<p>Reason: {{.reason}}</p>{{end}}
<p>Please contact HR if you have any questions.</p>
{{end}}`),
}

func mustTemplate(subject, content string) mailTemplate {
	t := template.Must(template.New("layout").Option("missingkey=zero").Parse(layout))
	template.Must(t.Parse(content))
	return mailTemplate{subject: subject, body: t}
}

// Render returns the subject and HTML body for msg. Data values are
// escaped by html/template.
func Render(msg Message) (subject, body string, err error) {
	tpl, ok := templates[msg.Kind]
	if !ok {
		return "", "", fmt.Errorf("notification: unknown kind %q", msg.Kind)
	}
	data := msg.Data
	if data == nil {
		data = map[string]string{}
	}
	var buf bytes.Buffer
	if err := tpl.body.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("notification: render %s: %w", msg.Kind, err)
	}
	return tpl.subject, buf.String(), nil
}
