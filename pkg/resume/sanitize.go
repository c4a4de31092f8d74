package resume

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// maxSanitizePasses bounds the fixed-point loop. Every pass after the first only deletes
// characters, so two or three passes are enough in practice.
const maxSanitizePasses = 8

//nolint:gochecknoglobals // immutable replacement table
var punctuationReplacer = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"€", "e", // euro sign
)

//nolint:gochecknoglobals // immutable replacement table
var markupReplacer = strings.NewReplacer(
	"*", "",
	"[", "",
	"]", "",
)

//nolint:gochecknoglobals // immutable replacement table
var glyphReplacer = strings.NewReplacer(
	"•", "-", // bullet
	"◦", "-", // white bullet
	"▪", "-", // small black square
	`\`, "",
	"%", "",
	"\t", " ",
)

// Sanitize makes a single line safe for the single-byte fonts of the PDF renderer.
// Non-Latin characters are removed. The result is stable: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(line string) (clean string) {
	clean = line
	for i := 0; i < maxSanitizePasses; i++ {
		next := sanitizePass(clean)
		if next == clean {
			return clean
		}
		clean = next
	}
	return clean
}

func sanitizePass(s string) (out string) {
	out = punctuationReplacer.Replace(s)
	out = markupReplacer.Replace(out)
	out = removeEmptyParens(out)
	out = glyphReplacer.Replace(out)
	out = printableASCII(out)
	out = latin1(norm.NFKD.String(out))
	return out
}

func removeEmptyParens(s string) (out string) {
	out = s
	for strings.Contains(out, "()") {
		out = strings.ReplaceAll(out, "()", "")
	}
	return out
}

func printableASCII(s string) (out string) {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x20 && r <= 0x7e {
			b.WriteRune(r)
		}
	}
	out = b.String()
	return out
}

// latin1 drops every rune the ISO-8859-1 charset cannot represent.
func latin1(s string) (out string) {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, ok := charmap.ISO8859_1.EncodeRune(r); ok {
			b.WriteRune(r)
		}
	}
	out = b.String()
	return out
}

// SanitizeDocument runs every line of text through Sanitize, keeping line structure.
func SanitizeDocument(text string) (clean string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = Sanitize(line)
	}
	clean = strings.Join(lines, "\n")
	return clean
}

// SanitizeSections returns a copy of m with every line sanitized. Keys and order are kept;
// lines left blank are dropped, as are sections left without lines.
func SanitizeSections(m SectionMap) (clean SectionMap) {
	for _, s := range m.sections {
		lines := make([]string, 0, len(s.Lines))
		for _, line := range s.Lines {
			line = strings.TrimSpace(Sanitize(line))
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			clean.Set(s.Key, lines)
		}
	}
	return clean
}

// SanitizeContact returns a copy of the record with every field sanitized.
func SanitizeContact(c ContactRecord) (clean ContactRecord) {
	clean = ContactRecord{
		Name:      strings.TrimSpace(Sanitize(c.Name)),
		Location:  strings.TrimSpace(Sanitize(c.Location)),
		Phone:     strings.TrimSpace(Sanitize(c.Phone)),
		Email:     strings.TrimSpace(Sanitize(c.Email)),
		Portfolio: strings.TrimSpace(Sanitize(c.Portfolio)),
		LinkedIn:  strings.TrimSpace(Sanitize(c.LinkedIn)),
		GitHub:    strings.TrimSpace(Sanitize(c.GitHub)),
	}
	return clean
}
