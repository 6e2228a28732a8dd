package handlers

import (
	"strings"
	"unicode/utf8"
)

// maxTemplateNameLen bounds requested template names.
const maxTemplateNameLen = 200

// validateTemplateName checks a requested template name and returns the
// first problem found, or "" if the name is acceptable. Whether the name
// resolves to a file is the resolver's concern, not this one's.
func validateTemplateName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Template name is required."
	}
	if !utf8.ValidString(name) {
		return "Template name is not valid UTF-8."
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return "Template name is too long (max 200 characters)."
	}
	if strings.ContainsAny(name, "\x00\r\n") {
		return "Template name contains control characters."
	}
	return ""
}
