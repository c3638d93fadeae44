// Package redact removes credentials and personal data from strings before
// they reach logs or error responses: connection-string passwords, bearer
// and JWT tokens, bcrypt hashes, password parameters and email addresses.
package redact

import (
	"net/url"
	"regexp"
	"strings"
)

// Redaction placeholders
const (
	Placeholder           = "[REDACTED]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	HashPlaceholder       = "[REDACTED_HASH]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	DSNPlaceholder        = "[REDACTED_DSN]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules are applied in order; bearer tokens go before bare JWTs so the
// scheme survives.
var rules = []rule{
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|smtps?)://[^@\s/]+@`),
		"${1}://" + CredentialPlaceholder + "@",
	},
	{
		regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]+=*`),
		"Bearer " + TokenPlaceholder,
	},
	{
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		JWTPlaceholder,
	},
	{
		regexp.MustCompile(`\$2[aby]?\$\d{2}\$[./A-Za-z0-9]{53}`),
		HashPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret)(\s*[=:]\s*)[^\s&,;]+`),
		"${1}${2}" + Placeholder,
	},
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		EmailPlaceholder,
	},
}

// String redacts sensitive information from input.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// DSN returns a loggable form of a connection URL with the password masked.
// Unparsable input is replaced entirely.
func DSN(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return DSNPlaceholder
	}
	return u.Redacted()
}

// Email masks the local part of an address, keeping its first character
// and the domain: "ann@example.com" becomes "a***@example.com".
func Email(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return EmailPlaceholder
	}
	return email[:1] + "***" + email[at:]
}
