package renderer

import (
	"strings"
)

const (
	projectSeparator = "||"
	fieldSeparator   = "|"
)

// ProjectEntry is one block of the projects section.
type ProjectEntry struct {
	Title        string
	Technologies string
	Year         string
	Description  []string
}

// ParseProjects splits the projects section into entries.
//
// Entries are separated by `||`. The first line of an entry is `Title | Technologies | Year`
// (a line without `|` is all title); the remaining lines are description fragments split on
// `;` or newlines. Entries with neither a title nor a description are skipped.
func ParseProjects(lines []string) (entries []ProjectEntry) {
	text := strings.Join(lines, "\n")

	blocks := []string{text}
	if strings.Contains(text, projectSeparator) {
		blocks = strings.Split(text, projectSeparator)
	}

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		blockLines := strings.Split(block, "\n")
		entry := parseProjectHeader(blockLines[0])
		entry.Description = descriptionFragments(strings.Join(blockLines[1:], "\n"))

		if entry.Title != "" || len(entry.Description) > 0 {
			entries = append(entries, entry)
		}
	}

	return entries
}

func parseProjectHeader(line string) (entry ProjectEntry) {
	if !strings.Contains(line, fieldSeparator) {
		entry.Title = strings.TrimSpace(line)
		return entry
	}

	parts := strings.Split(line, fieldSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	entry.Title = parts[0]
	if len(parts) > 1 {
		entry.Technologies = parts[1]
	}
	if len(parts) > 2 {
		entry.Year = parts[2]
	}

	return entry
}

func descriptionFragments(description string) (fragments []string) {
	pieces := strings.FieldsFunc(description, func(r rune) bool {
		return r == ';' || r == '\n'
	})

	for _, piece := range pieces {
		fragment := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(piece), "-•—◦▪ "))
		if fragment != "" {
			fragments = append(fragments, fragment)
		}
	}

	return fragments
}
