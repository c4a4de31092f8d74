package renderer

import (
	"github.com/jung-kurt/gofpdf"
)

type rgb struct {
	r, g, b int
}

// canvas is the set of drawing primitives the layout needs from a PDF engine.
type canvas interface {
	SetFont(style string, size float64)
	SetTextColor(c rgb)
	SetDrawColor(c rgb)
	SetLineWidth(width float64)
	// Cell draws a single line of text. A zero width extends to the right margin.
	Cell(width, height float64, text string, newline bool, align string)
	// MultiCell draws wrapped text and leaves the cursor on the next line.
	MultiCell(width, height float64, text string)
	// Write draws inline flowing text, as a hyperlink when link is set.
	Write(height float64, text, link string)
	StringWidth(text string) float64
	SetX(x float64)
	Ln(height float64)
	Y() float64
	// HorizontalRule draws a line between the left and right margins at y.
	HorizontalRule(y float64)
	PageSize() (width, height float64)
}

// fpdfCanvas draws on a gofpdf document using one core font family.
type fpdfCanvas struct {
	pdf    *gofpdf.Fpdf
	family string
	tr     func(string) string
}

func newFpdfCanvas(pdf *gofpdf.Fpdf, family string) (c *fpdfCanvas) {
	c = &fpdfCanvas{
		pdf:    pdf,
		family: family,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
	}
	return c
}

func (c *fpdfCanvas) SetFont(style string, size float64) {
	c.pdf.SetFont(c.family, style, size)
}

func (c *fpdfCanvas) SetTextColor(col rgb) {
	c.pdf.SetTextColor(col.r, col.g, col.b)
}

func (c *fpdfCanvas) SetDrawColor(col rgb) {
	c.pdf.SetDrawColor(col.r, col.g, col.b)
}

func (c *fpdfCanvas) SetLineWidth(width float64) {
	c.pdf.SetLineWidth(width)
}

func (c *fpdfCanvas) Cell(width, height float64, text string, newline bool, align string) {
	ln := 0
	if newline {
		ln = 1
	}
	c.pdf.CellFormat(width, height, c.tr(text), "", ln, align, false, 0, "")
}

func (c *fpdfCanvas) MultiCell(width, height float64, text string) {
	c.pdf.MultiCell(width, height, c.tr(text), "", "L", false)
}

func (c *fpdfCanvas) Write(height float64, text, link string) {
	if link != "" {
		c.pdf.WriteLinkString(height, c.tr(text), link)
		return
	}
	c.pdf.Write(height, c.tr(text))
}

func (c *fpdfCanvas) StringWidth(text string) (width float64) {
	width = c.pdf.GetStringWidth(c.tr(text))
	return width
}

func (c *fpdfCanvas) SetX(x float64) {
	c.pdf.SetX(x)
}

func (c *fpdfCanvas) Ln(height float64) {
	c.pdf.Ln(height)
}

func (c *fpdfCanvas) Y() (y float64) {
	y = c.pdf.GetY()
	return y
}

func (c *fpdfCanvas) HorizontalRule(y float64) {
	left, _, right, _ := c.pdf.GetMargins()
	width, _ := c.pdf.GetPageSize()
	c.pdf.Line(left, y, width-right, y)
}

func (c *fpdfCanvas) PageSize() (width, height float64) {
	width, height = c.pdf.GetPageSize()
	return width, height
}
