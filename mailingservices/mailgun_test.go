package mailingservices

import (
	"testing"

	"github.com/propvista/backend/config"
	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	html := `<p>Hello,</p><p>Your <b>engineering</b> report is ready.</p><p><a href="https://propvista.in/reports/1">Download</a></p>`
	text := StripHTML(html)

	assert.NotContains(t, text, "<")
	assert.Contains(t, text, "Hello,")
	assert.Contains(t, text, "Your engineering report is ready.")
	assert.Contains(t, text, "Download")
}

func TestStripHTMLEntities(t *testing.T) {
	assert.Equal(t, "2 & 3 BHK flats", StripHTML("2 &amp; 3&nbsp;BHK flats"))
}

func TestInitWithoutKeyLeavesClientUnconfigured(t *testing.T) {
	m := &Mailgun{}
	m.Init(&config.Config{})

	assert.False(t, m.Configured())

	_, err := m.SendNotificationEmail("someone@example.in", "subject", "<p>body</p>", "")
	assert.Error(t, err)
}

func TestInitDerivesFromAddress(t *testing.T) {
	m := &Mailgun{}
	m.Init(&config.Config{
		MailgunApiKey: "key-test",
		MgDomain:      "mg.propvista.in",
	})

	assert.True(t, m.Configured())
	assert.Equal(t, "PropVista <no-reply@mg.propvista.in>", m.From)
}
