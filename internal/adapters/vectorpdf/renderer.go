// Package vectorpdf draws the inquiry document directly with fpdf, without a
// browser in the loop.
package vectorpdf

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"travel_inquiry/internal/adapters/observability"
	"travel_inquiry/internal/domain"
	"travel_inquiry/internal/render"
)

type rgb struct{ r, g, b int }

var (
	brand = rgb{228, 69, 70}
	white = rgb{255, 255, 255}
	black = rgb{0, 0, 0}
	band  = rgb{245, 245, 245}
	grey  = rgb{100, 100, 100}
)

const (
	margin    = 15.0
	topMargin = 20.0
)

type Renderer struct {
	now func() time.Time
}

func New() *Renderer { return &Renderer{now: time.Now} }

// Render lays out doc on A4 pages and returns the PDF bytes.
func (r *Renderer) Render(ctx context.Context, doc domain.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	now := r.now()
	s := render.NewSummary(doc, now)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Travel Inquiry "+s.Reference, false)
	pdf.SetCreator("travel-inquiry", false)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)

	l := &layout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	l.w, l.h = pdf.GetPageSize()
	pdf.AddPage()

	l.header(s)
	for _, b := range s.Blocks {
		l.section(b.Title)
		for _, row := range b.Rows {
			if len(row.Items) > 0 {
				l.text(row.Label+":", margin, 12, true)
				for _, it := range row.Items {
					l.text("  "+it, margin+5, 12, false)
				}
				continue
			}
			l.text(row.Label+": "+row.Value, margin, 12, false)
		}
	}
	l.footer()

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	observability.ObserveExternal("fpdf", "render", 0, time.Since(start))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// layout tracks the write cursor across pages.
type layout struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	w, h float64
	y    float64
}

func (l *layout) fill(c rgb)  { l.pdf.SetFillColor(c.r, c.g, c.b) }
func (l *layout) color(c rgb) { l.pdf.SetTextColor(c.r, c.g, c.b) }

func (l *layout) font(style string, size float64) { l.pdf.SetFont("Helvetica", style, size) }

// enc converts UTF-8 text to the code page of the core fonts.
func (l *layout) enc(s string) string { return l.tr(latin1(s)) }

func (l *layout) at(x, y float64, s string) { l.pdf.Text(x, y, l.enc(s)) }

func (l *layout) right(xRight, y float64, s string) {
	s = l.enc(s)
	l.pdf.Text(xRight-l.pdf.GetStringWidth(s), y, s)
}

func (l *layout) center(y float64, s string) {
	s = l.enc(s)
	l.pdf.Text((l.w-l.pdf.GetStringWidth(s))/2, y, s)
}

// latin1 replaces runes the core font width tables do not cover.
func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xff {
			return '?'
		}
		return r
	}, s)
}

func (l *layout) header(s render.Summary) {
	l.fill(brand)
	l.pdf.Rect(0, 0, l.w, 35, "F")
	l.color(white)
	l.font("B", 24)
	l.at(20, 18, "SERENDIA")
	l.font("", 12)
	l.at(20, 28, "Travel & Tours")
	l.font("B", 18)
	l.right(l.w-20, 18, "TRAVEL INQUIRY")
	l.font("", 10)
	l.right(l.w-20, 28, "Detailed Travel Proposal")
	l.color(black)

	// document info box
	l.fill(rgb{250, 250, 250})
	l.pdf.SetDrawColor(200, 200, 200)
	l.pdf.Rect(l.w-80, 40, 70, 24, "FD")
	l.font("B", 8)
	l.at(l.w-75, 46, "Inquiry Date:")
	l.font("", 8)
	l.at(l.w-75, 51, s.InquiryDate)
	l.font("B", 8)
	l.at(l.w-75, 56, "Reference ID:")
	l.font("", 8)
	l.at(l.w-75, 61, s.Reference)

	l.y = 70
	l.text("Generated on: "+s.GeneratedAt, margin, 9, false)
}

func (l *layout) ensure(space float64) {
	if l.y > l.h-space {
		l.pdf.AddPage()
		l.y = topMargin
	}
}

// text writes wrapped text at x and advances the cursor.
func (l *layout) text(s string, x, size float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	l.font(style, size)
	l.ensure(20)
	lines := l.pdf.SplitText(latin1(s), l.w-2*margin-(x-margin))
	for i, line := range lines {
		l.pdf.Text(x, l.y+float64(i)*size*0.4, l.tr(line))
	}
	l.y += float64(len(lines))*size*0.4 + 5
}

func (l *layout) section(title string) {
	l.ensure(40)
	l.y += 8
	l.fill(band)
	l.pdf.Rect(10, l.y-6, l.w-20, 14, "F")
	l.pdf.SetDrawColor(brand.r, brand.g, brand.b)
	l.pdf.SetLineWidth(0.5)
	l.pdf.Line(10, l.y-6, l.w-10, l.y-6)
	l.color(brand)
	l.font("B", 12)
	l.at(margin, l.y+2, strings.ToUpper(title))
	l.color(black)
	l.y += 14
}

func (l *layout) footer() {
	if l.y > l.h-60 {
		l.pdf.AddPage()
	}
	l.fill(band)
	l.pdf.Rect(0, l.h-50, l.w, 50, "F")
	l.color(brand)
	l.font("B", 14)
	l.center(l.h-35, "SERENDIA TRAVEL & TOURS")
	l.color(black)
	l.font("", 10)
	l.center(l.h-25, "Professional Travel Planning Services")
	l.font("", 9)
	l.center(l.h-15, "info@serendia.com | +1 (555) 123-4567 | www.serendia.com")
	l.color(grey)
	l.font("", 8)
	l.center(l.h-5, "This inquiry was generated automatically. Please contact us for any modifications or additional requirements.")
}
