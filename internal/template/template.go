// Package template parses the message-template mini-language shared by
// every call-site surface: a prose string containing `{Name}`,
// `{Name:format}`, `{Name,align}`, `{Name,align:format}` placeholders and
// `{{`/`}}` escapes.
package template

import (
	"strings"

	"codenerd/logprobe/internal/types"
)

// Parse splits a message template into its ordered placeholders.
// Duplicate names are preserved — each occurrence keeps its own index.
// Alignment and format specs are stripped from the returned name but do
// not affect ordering. A malformed template (unbalanced braces) yields an
// empty, non-nil slice, the same result as a template without placeholders;
// callers continue past it, never treat it as a hard error, and do not log
// it.
func Parse(tmpl string) []types.TemplatePlaceholder {
	var out []types.TemplatePlaceholder
	idx := 0
	i := 0
	n := len(tmpl)
	for i < n {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < n && tmpl[i+1] == '{':
			i += 2
		case c == '}' && i+1 < n && tmpl[i+1] == '}':
			i += 2
		case c == '{':
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				// Unbalanced: malformed template.
				return []types.TemplatePlaceholder{}
			}
			body := tmpl[i+1 : i+1+end]
			if body == "" {
				return []types.TemplatePlaceholder{}
			}
			name := stripAlignAndFormat(body)
			if name == "" {
				return []types.TemplatePlaceholder{}
			}
			out = append(out, types.TemplatePlaceholder{Name: name, Index: idx})
			idx++
			i = i + 1 + end + 1
		case c == '}':
			// Stray unmatched close brace.
			return []types.TemplatePlaceholder{}
		default:
			i++
		}
	}
	if out == nil {
		out = []types.TemplatePlaceholder{}
	}
	return out
}

// stripAlignAndFormat reduces `Name`, `Name,align`, `Name:format`, and
// `Name,align:format` to bare `Name`. Alignment is separated by the first
// comma, format by the first colon following it (or, if no comma, the
// first colon in the whole body).
func stripAlignAndFormat(body string) string {
	name := body
	if comma := strings.IndexByte(name, ','); comma >= 0 {
		name = name[:comma]
	} else if colon := strings.IndexByte(name, ':'); colon >= 0 {
		name = name[:colon]
	}
	return strings.TrimSpace(name)
}

// Normalize reduces a template to its canonical form for inconsistency
// detection: every placeholder (in any form) becomes the literal text
// "{}"; escaped braces collapse to single braces.
func Normalize(tmpl string) string {
	var b strings.Builder
	i := 0
	n := len(tmpl)
	for i < n {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < n && tmpl[i+1] == '{':
			b.WriteByte('{')
			i += 2
		case c == '}' && i+1 < n && tmpl[i+1] == '}':
			b.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				b.WriteString(tmpl[i:])
				return b.String()
			}
			b.WriteString("{}")
			i = i + 1 + end + 1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}
