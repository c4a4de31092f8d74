// Package preview renders resume content as sanitized HTML for display before download.
package preview

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nikogura/resume-builder/pkg/renderer"
	"github.com/nikogura/resume-builder/pkg/resume"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// Renderer converts Markdown to HTML.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New creates a Renderer with GFM extensions and hard line breaks.
func New() (r *Renderer) {
	r = &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
				gmhtml.WithXHTML(),
			),
		),
		policy: bluemonday.UGCPolicy(),
	}
	return r
}

// Fragment converts Markdown to a sanitized HTML fragment.
func (r *Renderer) Fragment(markdown string) (fragment string, err error) {
	var buf bytes.Buffer
	err = r.md.Convert([]byte(markdown), &buf)
	if err != nil {
		err = errors.Wrap(err, "markdown conversion failed")
		return fragment, err
	}

	fragment = r.policy.Sanitize(buf.String())
	return fragment, err
}

// Page renders the contact header and sections as a standalone HTML document.
func (r *Renderer) Page(sections resume.SectionMap, contact resume.ContactRecord) (page string, err error) {
	var body string
	body, err = r.Fragment(Markdown(sections, contact))
	if err != nil {
		return page, err
	}

	title := "Resume"
	if name := strings.TrimSpace(contact.Name); name != "" {
		title = name + " - Resume"
	}

	page = fmt.Sprintf(pageTemplate, html.EscapeString(title), body)
	return page, err
}

// Markdown prepends a contact header to the reconstructed sections.
func Markdown(sections resume.SectionMap, contact resume.ContactRecord) (markdown string) {
	var b strings.Builder

	if name := strings.TrimSpace(contact.Name); name != "" {
		b.WriteString("# " + name + "\n\n")
	}

	var details []string
	for _, v := range []string{contact.Location, contact.Phone, contact.Email} {
		if v = strings.TrimSpace(v); v != "" {
			details = append(details, v)
		}
	}
	if len(details) > 0 {
		b.WriteString(strings.Join(details, " | ") + "\n\n")
	}

	var links []string
	for _, l := range []struct{ label, value string }{
		{"LinkedIn", contact.LinkedIn},
		{"GitHub", contact.GitHub},
		{"Portfolio", contact.Portfolio},
	} {
		if strings.TrimSpace(l.value) == "" {
			continue
		}
		links = append(links, fmt.Sprintf("[%s](%s)", l.label, renderer.LinkURL(l.value)))
	}
	if len(links) > 0 {
		b.WriteString(strings.Join(links, " | ") + "\n\n")
	}

	b.WriteString(resume.Reconstruct(sections))

	markdown = b.String()
	return markdown
}
