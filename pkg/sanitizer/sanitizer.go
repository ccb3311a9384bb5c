package sanitizer

import (
	"path"
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reKeepLettersDigits = regexp.MustCompile(`[^0-9a-z]+`)

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

// SanitizeExtension returns the extension of filename suitable for an object
// key, e.g. "Photo.JPEG" becomes ".jpeg". Returns "" when there is none.
func SanitizeExtension(filename string) string {
	p := Pipeline{
		trimAndLower,
		path.Ext,
		func(s string) string { return reKeepLettersDigits.ReplaceAllString(s, "") },
	}
	ext := p.Apply(filename)
	if ext == "" {
		return ""
	}
	return "." + ext
}
