package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// boldHeadingMaxLen is the length below which a fully bolded line counts as a heading.
const boldHeadingMaxLen = 40

//nolint:gochecknoglobals // compiled once
var (
	hashHeading = regexp.MustCompile(`^#+\s`)
	hashMarker  = regexp.MustCompile(`^#+\s*`)
	boldLine    = regexp.MustCompile(`^\*\*.*\*\*$`)
)

// Parse splits generated Markdown into sections.
//
// Only `#` headings and whole-line `**bold**` headings shorter than 40 characters open a
// section. Lines before the first heading, or under a heading with no text, are dropped. A repeated heading starts its section
// over: content is not merged. Every kept line is sanitized and sections left without
// content are omitted.
func Parse(text string) (sections SectionMap) {
	raw := SectionMap{}
	current := ""
	open := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if key, ok := headingKey(line); ok {
			current = key
			open = key != ""
			if open {
				raw.Set(current, []string{})
			}
			continue
		}

		if !open {
			continue
		}

		lines, _ := raw.Get(current)
		raw.Set(current, append(lines, line))
	}

	for _, s := range raw.sections {
		cleaned := cleanLines(s.Lines)
		if len(cleaned) > 0 {
			sections.Set(s.Key, cleaned)
		}
	}

	return sections
}

// headingKey returns the section key if line is a heading.
func headingKey(line string) (key string, ok bool) {
	if hashHeading.MatchString(line) {
		key = strings.ToLower(strings.TrimSpace(hashMarker.ReplaceAllString(line, "")))
		ok = true
		return key, ok
	}

	if boldLine.MatchString(line) && utf8.RuneCountInString(line) < boldHeadingMaxLen {
		key = strings.ToLower(strings.TrimSpace(strings.Trim(line, "*")))
		ok = true
		return key, ok
	}

	return key, ok
}

func cleanLines(lines []string) (cleaned []string) {
	cleaned = make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.TrimSpace(Sanitize(normalizeListMarker(line)))
		if clean != "" {
			cleaned = append(cleaned, clean)
		}
	}
	return cleaned
}

// normalizeListMarker rewrites `* item` and `+ item` list lines as `- item` so the
// sanitizer's asterisk stripping does not turn a bullet into a paragraph line.
func normalizeListMarker(line string) (normalized string) {
	normalized = line
	if strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "+ ") {
		normalized = "- " + strings.TrimSpace(line[2:])
	}
	return normalized
}
