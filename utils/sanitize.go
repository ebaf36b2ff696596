package utils

import "github.com/microcosm-cc/bluemonday"

var (
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()
)

// Sanitize cleans rich HTML content to prevent XSS attacks while keeping the
// user-generated-content subset of markup.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// StripHTML removes all markup from free-text fields such as titles and bios.
func StripHTML(input string) string {
	return stripper.Sanitize(input)
}
