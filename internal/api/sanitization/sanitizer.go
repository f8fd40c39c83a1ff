package sanitization

import (
	"html/template"
	"regexp"
	"strings"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	lineBreaks = regexp.MustCompile(`\r\n|\r|\n`)
)

// SanitizeString collapses runs of spaces and tabs and trims the result
func SanitizeString(input string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(input, " "))
}

// SanitizeEmail trims whitespace around an email address
func SanitizeEmail(input string) string {
	return strings.TrimSpace(input)
}

// SanitizeMessage trims a free-text message and normalizes its line endings
func SanitizeMessage(input string) string {
	return strings.TrimSpace(lineBreaks.ReplaceAllString(input, "\n"))
}

// EscapeHTML escapes a value for interpolation into an HTML body
func EscapeHTML(input string) string {
	return template.HTMLEscapeString(input)
}

// EscapeMultiline escapes a value and turns its line breaks into <br>
func EscapeMultiline(input string) string {
	return lineBreaks.ReplaceAllString(template.HTMLEscapeString(input), "<br>")
}

// HasHeaderBreak reports whether a value would break out of a mail header
func HasHeaderBreak(input string) bool {
	return strings.ContainsAny(input, "\r\n")
}
