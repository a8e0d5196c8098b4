package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// descriptionPolicy: HTML из редактора описаний: разметка UGC и картинки.
func descriptionPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	return p
}

// sanitizeDescription чистит HTML и возвращает "" для пустого редактора ("<p><br></p>").
func sanitizeDescription(p *bluemonday.Policy, raw string) string {
	clean := strings.TrimSpace(p.Sanitize(raw))
	if strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(clean)) == "" && !strings.Contains(clean, "<img") {
		return ""
	}
	return clean
}
