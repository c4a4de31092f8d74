package renderer

import (
	"strings"

	"github.com/nikogura/resume-builder/pkg/resume"
)

// Vertical metrics in millimetres.
const (
	bulletIndent     = 8
	bulletLineHeight = 5
	bulletGap        = 2
	paragraphHeight  = 6
	projectGap       = 4
	// bottomRuleMargin keeps a section separator from being stranded at a page break.
	bottomRuleMargin = 17
)

//nolint:gochecknoglobals // palette
var (
	black         = rgb{0, 0, 0}
	accent        = rgb{0, 102, 204}
	nameColor     = rgb{30, 30, 30}
	contactColor  = rgb{80, 80, 80}
	titleRule     = rgb{180, 180, 180}
	separatorRule = rgb{200, 200, 200}
)

type headerLink struct {
	label string
	url   string
}

// layout places resume content on a canvas.
type layout struct {
	c canvas
}

func (l *layout) header(contact resume.ContactRecord) {
	name := strings.TrimSpace(contact.Name)
	if name != "" {
		l.c.SetFont("B", 18)
		l.c.SetTextColor(nameColor)
		l.c.Cell(0, 12, name, true, "C")
	}

	details := nonEmpty(contact.Location, contact.Phone, contact.Email)
	links := headerLinks(contact)
	if name == "" && len(details) == 0 && len(links) == 0 {
		return
	}
	l.c.Ln(2)

	if len(details) > 0 {
		l.c.SetFont("", 10)
		l.c.SetTextColor(contactColor)
		l.c.Cell(0, 7, strings.Join(details, " | "), true, "C")
	}

	if len(links) > 0 {
		labels := make([]string, 0, len(links))
		for _, link := range links {
			labels = append(labels, link.label)
		}

		l.c.SetFont("U", 10)
		l.c.SetTextColor(accent)
		pageWidth, _ := l.c.PageSize()
		l.c.SetX((pageWidth - l.c.StringWidth(strings.Join(labels, " | "))) / 2)
		for i, link := range links {
			if i > 0 {
				l.c.Write(7, " | ", "")
			}
			l.c.Write(7, link.label, link.url)
		}
		l.c.Ln(8)
	}

	l.c.SetTextColor(black)
	l.c.SetFont("", 11)
}

func (l *layout) body(sections resume.SectionMap) {
	for _, st := range resume.SectionOrder {
		lines, ok := sections.Get(st.Key)
		if !ok || !hasContent(lines) {
			continue
		}

		l.sectionTitle(st.Title)

		switch {
		case st.Key == resume.SectionProjects:
			for _, entry := range ParseProjects(lines) {
				l.project(entry)
			}
		case allBullets(lines):
			l.bullets(lines)
		default:
			l.paragraph(strings.Join(lines, "\n"))
		}

		l.separator()
	}
}

func (l *layout) sectionTitle(title string) {
	l.c.SetFont("B", 12)
	l.c.SetTextColor(accent)
	l.c.Cell(0, 8, strings.ToUpper(title), true, "")
	l.c.SetTextColor(black)
	l.c.SetDrawColor(titleRule)
	l.c.SetLineWidth(0.5)
	l.c.HorizontalRule(l.c.Y())
	l.c.Ln(4)
}

func (l *layout) bullets(lines []string) {
	l.c.SetFont("", 11)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		l.c.Cell(bulletIndent, bulletLineHeight, "", false, "")
		l.c.MultiCell(0, bulletLineHeight, "- "+stripBullet(line))
		l.c.Ln(bulletGap)
	}
}

func (l *layout) paragraph(text string) {
	l.c.SetFont("", 11)
	l.c.MultiCell(0, paragraphHeight, text)
	l.c.Ln(bulletGap)
}

func (l *layout) project(entry ProjectEntry) {
	l.c.SetFont("B", 11)
	meta := nonEmpty(entry.Technologies, entry.Year)
	if len(meta) > 0 {
		l.c.Cell(l.c.StringWidth(entry.Title)+1, 6, entry.Title, false, "")
		l.c.SetFont("", 11)
		l.c.Cell(0, 6, "| "+strings.Join(meta, " | "), true, "")
	} else {
		l.c.Cell(0, 6, entry.Title, true, "")
	}
	l.c.Ln(1)

	if len(entry.Description) > 0 {
		l.c.SetFont("", 11)
		for _, fragment := range entry.Description {
			l.c.Cell(bulletIndent, bulletLineHeight, "", false, "")
			l.c.MultiCell(0, bulletLineHeight, "- "+fragment)
		}
	}
	l.c.Ln(projectGap)
}

func (l *layout) separator() {
	l.c.SetDrawColor(separatorRule)
	l.c.SetLineWidth(0.3)
	y := l.c.Y()
	_, pageHeight := l.c.PageSize()
	if y < pageHeight-bottomRuleMargin {
		l.c.HorizontalRule(y)
	}
	l.c.Ln(bulletGap)
}

// LinkURL returns the URL a header link opens, adding https:// when no scheme is present.
func LinkURL(value string) (url string) {
	url = strings.TrimSpace(value)
	lower := strings.ToLower(url)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		url = "https://" + url
	}
	return url
}

func headerLinks(contact resume.ContactRecord) (links []headerLink) {
	candidates := []headerLink{
		{label: "LinkedIn", url: contact.LinkedIn},
		{label: "GitHub", url: contact.GitHub},
		{label: "Portfolio", url: contact.Portfolio},
	}
	for _, c := range candidates {
		if strings.TrimSpace(c.url) == "" {
			continue
		}
		links = append(links, headerLink{label: c.label, url: LinkURL(c.url)})
	}
	return links
}

func nonEmpty(values ...string) (kept []string) {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			kept = append(kept, v)
		}
	}
	return kept
}

func hasContent(lines []string) (ok bool) {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			ok = true
			return ok
		}
	}
	return ok
}

func allBullets(lines []string) (ok bool) {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, "- ") {
			return false
		}
	}
	return true
}

func stripBullet(line string) (text string) {
	text = strings.TrimSpace(strings.TrimLeft(line, "- "))
	return text
}
