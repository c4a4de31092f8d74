// Package renderer lays out resume sections on a paginated PDF.
package renderer

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/nikogura/resume-builder/pkg/resume"
	"github.com/pkg/errors"
)

const (
	// DefaultFontFamily is a core PDF font; core fonts only cover a single-byte Western charset.
	DefaultFontFamily = "Helvetica"
	// DefaultPageSize is the paper size used when none is configured.
	DefaultPageSize = "A4"

	pageMargin      = 10
	pageBreakMargin = 20
)

// documentDate is stamped on every document so identical content yields identical bytes.
//
//nolint:gochecknoglobals // fixed timestamp
var documentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Renderer turns a section map and a contact record into PDF bytes.
type Renderer struct {
	fontFamily string
	pageSize   string
	compress   bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFontFamily selects the core font family (Helvetica, Times, Courier).
func WithFontFamily(family string) (opt Option) {
	opt = func(r *Renderer) {
		r.fontFamily = family
	}
	return opt
}

// WithPageSize selects the paper size (A4, Letter, Legal).
func WithPageSize(size string) (opt Option) {
	opt = func(r *Renderer) {
		r.pageSize = size
	}
	return opt
}

// WithCompression toggles content stream compression.
func WithCompression(compress bool) (opt Option) {
	opt = func(r *Renderer) {
		r.compress = compress
	}
	return opt
}

// New creates a Renderer.
func New(opts ...Option) (r *Renderer) {
	r = &Renderer{
		fontFamily: DefaultFontFamily,
		pageSize:   DefaultPageSize,
		compress:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the PDF for sections and contact.
//
// Text the document fonts cannot encode triggers a single retry after every section line and
// the contact record are run through the line sanitizer. Any other failure is returned as a
// *RenderError and no bytes are returned.
func (r *Renderer) Render(sections resume.SectionMap, contact resume.ContactRecord) (pdf []byte, err error) {
	pdf, err = r.render(sections, contact)

	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		return pdf, err
	}

	slog.Warn("document contains unsupported characters, retrying with sanitized content",
		"field", encErr.Field, "rune", fmt.Sprintf("%U", encErr.Rune))

	cleanSections := resume.SanitizeSections(sections)
	pdf, err = r.render(cleanSections, resume.SanitizeContact(contact))
	if err != nil {
		err = errors.Wrap(err, "render failed after sanitizing content")
		return pdf, err
	}

	return pdf, err
}

func (r *Renderer) render(sections resume.SectionMap, contact resume.ContactRecord) (pdf []byte, err error) {
	err = checkEncodable(sections, contact)
	if err != nil {
		return pdf, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			pdf = nil
			err = &RenderError{Message: "drawing aborted", Cause: fmt.Errorf("%v", rec)}
		}
	}()

	doc := gofpdf.New("P", "mm", r.pageSize, "")
	doc.SetCompression(r.compress)
	doc.SetCatalogSort(true)
	doc.SetCreationDate(documentDate)
	doc.SetModificationDate(documentDate)
	doc.SetCreator("resume-builder", false)
	if contact.Name != "" {
		doc.SetTitle(contact.Name+" - Resume", true)
		doc.SetAuthor(contact.Name, true)
	}
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageBreakMargin)
	doc.AddPage()

	l := layout{c: newFpdfCanvas(doc, r.fontFamily)}
	l.header(contact)
	l.body(sections)

	if doc.Err() {
		err = &RenderError{Message: "drawing failed", Cause: doc.Error()}
		return pdf, err
	}

	var buf bytes.Buffer
	outErr := doc.Output(&buf)
	if outErr != nil {
		err = &RenderError{Message: "could not finalize document", Cause: outErr}
		return pdf, err
	}

	valErr := Validate(buf.Bytes())
	if valErr != nil {
		err = &RenderError{Message: "generated document is invalid", Cause: valErr}
		return pdf, err
	}

	pdf = buf.Bytes()
	slog.Debug("rendered resume", "bytes", len(pdf), "sections", sections.Len())

	return pdf, err
}

// checkEncodable verifies that every string the layout will draw fits the single-byte font
// encoding.
func checkEncodable(sections resume.SectionMap, contact resume.ContactRecord) (err error) {
	for _, field := range resume.ContactFields {
		err = encodable("contact "+field, contact.Get(field))
		if err != nil {
			return err
		}
	}

	for _, st := range resume.SectionOrder {
		lines, _ := sections.Get(st.Key)
		for _, line := range lines {
			err = encodable("section "+st.Key, line)
			if err != nil {
				return err
			}
		}
	}

	return err
}

func encodable(field, text string) (err error) {
	for _, r := range text {
		if r == '\n' || (r >= 0x20 && r <= 0x7e) || (r >= 0xa0 && r <= 0xff) {
			continue
		}
		err = &EncodingError{Field: field, Rune: r}
		return err
	}
	return err
}
