package logging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactSecrets_BearerToken(t *testing.T) {
	in := `401 unauthorized: Bearer eyJhbGciOiJIUzI1NiJ9.payload.sig rejected`
	out := RedactSecrets(in)

	assert.NotContains(t, out, "eyJhbGciOiJIUzI1NiJ9")
	assert.Contains(t, out, RedactedText)
}

func TestRedactSecrets_APIKeyParameter(t *testing.T) {
	in := "request failed: api_key=abcdefghijklmnopqrstuvwxyz123456"
	out := RedactSecrets(in)

	assert.Equal(t, "request failed: api_key="+RedactedText, out)
}

func TestRedactSecrets_SecretKeyLiteral(t *testing.T) {
	out := RedactSecrets("invalid key sk-proj-abcdefghij1234567890")
	assert.NotContains(t, out, "sk-proj")
}

func TestRedactSecrets_PlainTextUntouched(t *testing.T) {
	in := "connection refused"
	assert.Equal(t, in, RedactSecrets(in))
}

func TestTruncateQuestion(t *testing.T) {
	assert.Equal(t, "short question", TruncateQuestion("  short question "))

	long := strings.Repeat("x", 300)
	out := TruncateQuestion(long)
	assert.Len(t, out, MaxQuestionLogLength+3)
	assert.True(t, strings.HasSuffix(out, "..."))
}
