package services

import (
	"fmt"
	"regexp"
	"strings"
)

// AnonymizeIP masks the last octet of a dotted IPv4 address, e.g.
// "203.0.113.42" becomes "203.0.113.xxx". Anything else is "unknown".
func AnonymizeIP(ip string) string {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return "unknown"
	}
	return fmt.Sprintf("%s.%s.%s.xxx", parts[0], parts[1], parts[2])
}

// Truncate cuts text to n runes and appends "..." when it was longer.
func Truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

const maxUserAgentLength = 255

// TruncateUserAgent fits a User-Agent header into the analytics column.
func TruncateUserAgent(ua string) string {
	if ua == "" {
		return "unknown"
	}
	runes := []rune(ua)
	if len(runes) > maxUserAgentLength {
		return string(runes[:maxUserAgentLength])
	}
	return ua
}

var (
	slugStrip    = regexp.MustCompile(`[^A-Za-z0-9_\s-]`)
	slugSeparate = regexp.MustCompile(`[\s_-]+`)
)

// Slugify turns free text into a lowercase, dash-separated token safe for
// URLs and storage folder names.
func Slugify(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSeparate.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// BuildAdminLeadURL links to a lead in the back office.
// Returns "" when either part is missing.
func BuildAdminLeadURL(baseURL, leadID string) string {
	if baseURL == "" || leadID == "" {
		return ""
	}
	return fmt.Sprintf("%s/admin/leads/%s", strings.TrimSuffix(baseURL, "/"), leadID)
}
