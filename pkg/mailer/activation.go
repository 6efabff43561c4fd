package mailer

import (
	"fmt"
	"strings"
)

var activationSubjects = map[string]string{
	"en": "Activate your account",
	"id": "Aktifkan akun Anda",
	"de": "Aktivieren Sie Ihr Konto",
}

// ActivationSubject returns the localized subject line, falling back to
// English for unknown locales. Locale values look like "en" or "en_US".
func ActivationSubject(locale string) string {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "_-"); i > 0 {
		lang = lang[:i]
	}
	if s, ok := activationSubjects[lang]; ok {
		return s
	}
	return activationSubjects["en"]
}

// ActivationBody renders the plain-text and HTML bodies for an activation
// email pointing at the given activation URL.
func ActivationBody(displayName, activationURL string) (text, html string) {
	text = fmt.Sprintf(
		"Hi %s,\n\nPlease activate your account by visiting the link below:\n\n%s\n\nIf you did not sign up, you can ignore this email.\n",
		displayName, activationURL)
	html = fmt.Sprintf(
		`<p>Hi %s,</p><p>Please activate your account by clicking the link below:</p><p><a href="%s">%s</a></p><p>If you did not sign up, you can ignore this email.</p>`,
		displayName, activationURL, activationURL)
	return text, html
}
