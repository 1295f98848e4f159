package mailer

import (
	"bytes"
	htmpl "html/template"
)

var invitationTpl = htmpl.Must(htmpl.New("invitation").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>You're invited!</h2>
  <p>{{ if .FromName }}{{ .FromName }}{{ else }}A fellow student{{ end }}
  invited you to {{ if .EventTitle }}<strong>{{ .EventTitle }}</strong>{{ else }}an event{{ end }}.</p>
  <p>Open the app to accept or decline the invitation.</p>
</body>
</html>`))

// RenderInvitation renders the subject, text and HTML bodies for an
// invitation notification email.
func RenderInvitation(job InvitationJob) (subject, text, html string, err error) {
	subject = "You've been invited to an event"
	if job.EventTitle != "" {
		subject = "You've been invited to " + job.EventTitle
	}
	from := job.FromName
	if from == "" {
		from = "A fellow student"
	}
	text = from + " invited you to an event. Open the app to respond."

	var buf bytes.Buffer
	if err = invitationTpl.Execute(&buf, job); err != nil {
		return "", "", "", err
	}
	return subject, text, buf.String(), nil
}
