// Package pdfdoc собирает PDF-документы: расписания (A4 альбомный) и отчёты (A4 книжный).
package pdfdoc

import (
	"github.com/go-pdf/fpdf"

	"github.com/Vaflel/planning/grid"
)

const fontFamily = "Helvetica"

// surface рисует раскладку grid на странице fpdf. Текст переводится в cp1252,
// иначе встроенные шрифты не покажут французские буквы.
type surface struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

var _ grid.Surface = (*surface)(nil)

func newSurface(pdf *fpdf.Fpdf) *surface {
	return &surface{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (s *surface) SetFont(bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	s.pdf.SetFont(fontFamily, style, size)
}

func (s *surface) SetLineWidth(w float64) { s.pdf.SetLineWidth(w) }

func (s *surface) SetFillColor(r, g, b int) { s.pdf.SetFillColor(r, g, b) }

func (s *surface) Rect(x, y, w, h float64, style string) { s.pdf.Rect(x, y, w, h, style) }

func (s *surface) Line(x1, y1, x2, y2 float64) { s.pdf.Line(x1, y1, x2, y2) }

func (s *surface) Text(x, y float64, text string) { s.pdf.Text(x, y, s.tr(text)) }

func (s *surface) TextWidth(text string) float64 { return s.pdf.GetStringWidth(s.tr(text)) }

// centered выводит строку по центру страницы
func (s *surface) centered(y float64, text string) {
	w, _ := s.pdf.GetPageSize()
	s.Text((w-s.TextWidth(text))/2, y, text)
}
