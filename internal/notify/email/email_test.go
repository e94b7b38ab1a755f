package email

import (
	"testing"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     string
		data     any
		contains []string
	}{
		{
			name:     "verification",
			tmpl:     "verify_email.html",
			data:     LinkMail{Name: "Jan", Link: "http://localhost:5000/verify_email/abc"},
			contains: []string{"Hi Jan", `href="http://localhost:5000/verify_email/abc"`},
		},
		{
			name:     "reset",
			tmpl:     "reset_password.html",
			data:     LinkMail{Name: "Jan", Link: "http://localhost:5000/reset_password/abc"},
			contains: []string{"reset the password", "/reset_password/abc"},
		},
		{
			name:     "deletion code",
			tmpl:     "delete_account.html",
			data:     CodeMail{Name: "Jan", Code: "012345", Validity: 10 * time.Minute},
			contains: []string{"012345", "10m0s"},
		},
		{
			name:     "contact escapes input",
			tmpl:     "contact.html",
			data:     ContactMessage{Name: "<b>x</b>", Email: "a@b.c", Subject: "Hi", Message: "Hello"},
			contains: []string{"&lt;b&gt;x&lt;/b&gt;", "Hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := render(tt.tmpl, tt.data)
			require.NoError(t, err)
			for _, c := range tt.contains {
				assert.Contains(t, out, c)
			}
		})
	}
}

func TestDisabledServiceSkipsSending(t *testing.T) {
	s := New(&config.EmailConfig{Enabled: false, Recipient: "club@ipba.pl"})
	assert.NoError(t, s.SendVerification("a@b.c", "Jan", "http://x"))
	assert.NoError(t, s.SendContactMessage(ContactMessage{Subject: "x"}))
}

func TestContactWithoutRecipient(t *testing.T) {
	s := New(&config.EmailConfig{Enabled: true})
	assert.Error(t, s.SendContactMessage(ContactMessage{Subject: "x"}))
}
