package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivationSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		locale string
		want   string
	}{
		{locale: "en", want: "Activate your account"},
		{locale: "en_US", want: "Activate your account"},
		{locale: "id-ID", want: "Aktifkan akun Anda"},
		{locale: "de", want: "Aktivieren Sie Ihr Konto"},
		{locale: "fr", want: "Activate your account"},
		{locale: "", want: "Activate your account"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run("locale "+tt.locale, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ActivationSubject(tt.locale))
		})
	}
}

func TestActivationBody(t *testing.T) {
	t.Parallel()

	text, html := ActivationBody("Alice", "https://example.com/activate/K1")
	assert.True(t, strings.Contains(text, "Alice"))
	assert.True(t, strings.Contains(text, "https://example.com/activate/K1"))
	assert.True(t, strings.Contains(html, `href="https://example.com/activate/K1"`))
}
