package email

import (
	"bytes"
	"html/template"
)

var welcomeTmpl = template.Must(template.New("welcome").Parse(
	`<p>Merhaba,</p>
<p><strong>{{.Gym}}</strong> üyeliğiniz oluşturuldu. Salona girişte uygulamadaki QR kodunuzu kullanabilirsiniz.</p>
<p>İyi antrenmanlar!</p>`))

// WelcomeRequest builds the email sent to a newly added member.
// PRE: to is the member's address
// POST: Gym name is HTML-escaped in the body
func WelcomeRequest(from, gymName, to string) SendRequest {
	var buf bytes.Buffer
	_ = welcomeTmpl.Execute(&buf, struct{ Gym string }{gymName})
	return SendRequest{
		To:      []string{to},
		From:    from,
		Subject: gymName + " üyeliğiniz hazır",
		HTML:    buf.String(),
	}
}
