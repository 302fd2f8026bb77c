package report

import (
	"net/url"
	"strings"
)

// MailtoLink assembles a mailto: URL for the day's report. The body is
// percent-encoded with newline sequences as %0D%0A; actually sending mail is
// the user agent's job.
func MailtoLink(subject, body string) string {
	return "mailto:?subject=" + escape(subject) + "&body=" + escapeBody(body)
}

func escapeBody(body string) string {
	// Normalize to CRLF so newlines encode as %0D%0A per RFC 2368.
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\n", "\r\n")
	return escape(body)
}

// escape percent-encodes like encodeURIComponent: spaces become %20, not "+".
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
