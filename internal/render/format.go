// Package render prepares backend-supplied email text for a terminal pane.
// Bodies arrive as plain text but often carry CRLF line endings, rich-text
// glyphs pasted from mail clients, and unwrapped paragraphs.
package render

import (
	"strings"
	"unicode"
)

// Body runs the full pipeline: normalize newlines, sanitize glyphs, then wrap
// to width. width <= 0 skips wrapping (the pane wraps on its own).
func Body(s string, width int) string {
	s = Sanitize(Normalize(s))
	if width > 0 {
		s = Wrap(s, width)
	}
	return s
}

// Normalize converts CRLF/CR line endings to LF and collapses runs of three
// or more blank lines down to one blank line.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}

// Sanitize replaces rich-text glyphs that render as tofu in many terminals
// with ASCII-safe equivalents, and drops zero-width and control characters.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\u00A0', '\u202F', '\u2000', '\u2001', '\u2002', '\u2003',
			'\u2004', '\u2005', '\u2006', '\u2007', '\u2008', '\u2009', '\u200A':
			b.WriteRune(' ')
		case '\u200B', '\u200C', '\u200D', '\uFEFF', '\u2060', '\u00AD':
			// zero-width, BOM, word joiner, soft hyphen
		case '–', '—':
			b.WriteRune('-')
		case '‘', '’':
			b.WriteRune('\'')
		case '“', '”':
			b.WriteRune('"')
		case '…':
			b.WriteString("...")
		default:
			if unicode.IsControl(r) && r != '\n' && r != '\t' {
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Wrap soft-wraps text to width at word boundaries. Quote prefixes ("> ",
// nested) carry onto continuation lines. Tokens are never split, so a long
// URL overflows its line rather than breaking mid-address.
func Wrap(input string, width int) string {
	if width <= 0 {
		return input
	}
	lines := strings.Split(input, "\n")
	var out strings.Builder
	for i, line := range lines {
		prefix := ""
		rest := line
		for strings.HasPrefix(rest, "> ") {
			prefix += "> "
			rest = strings.TrimPrefix(rest, "> ")
		}

		tokens := strings.Fields(rest)
		if len(tokens) == 0 {
			out.WriteString(strings.TrimRight(prefix, " "))
		} else {
			cur := prefix + tokens[0]
			for _, tok := range tokens[1:] {
				if len([]rune(cur))+1+len([]rune(tok)) <= width {
					cur += " " + tok
					continue
				}
				out.WriteString(cur)
				out.WriteByte('\n')
				cur = prefix + tok
			}
			out.WriteString(cur)
		}
		if i < len(lines)-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

// KeywordTags splits the backend's comma-joined keyword string into trimmed
// tags, dropping empties.
func KeywordTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
