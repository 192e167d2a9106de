package grid

// Surface то, на чём рисуется таблица. Координаты в миллиметрах.
type Surface interface {
	SetFont(bold bool, size float64)
	SetLineWidth(w float64)
	SetFillColor(r, g, b int)
	Rect(x, y, w, h float64, style string)
	Line(x1, y1, x2, y2 float64)
	Text(x, y float64, s string)
	TextWidth(s string) float64
}

const (
	borderWidth    = 0.2
	separatorWidth = 0.3
	headerGray     = 230
)

// Draw выполняет раскладку на поверхности
func Draw(s Surface, p Plan) {
	s.SetLineWidth(borderWidth)
	s.SetFillColor(headerGray, headerGray, headerGray)
	for _, b := range p.Header {
		style := "D"
		if b.Fill {
			style = "FD"
		}
		s.Rect(b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H, style)
		DrawLabel(s, b.Label)
	}

	for _, c := range p.Cells {
		s.Rect(c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H, "D")
		if len(c.Separators) > 0 {
			s.SetLineWidth(separatorWidth)
			for _, y := range c.Separators {
				s.Line(c.Rect.X, y, c.Rect.X+c.Rect.W, y)
			}
			s.SetLineWidth(borderWidth)
		}
		for _, part := range c.Parts {
			for _, l := range part.Labels {
				DrawLabel(s, l)
			}
		}
	}
}

// DrawLabel выводит подпись с учётом выравнивания
func DrawLabel(s Surface, l Label) {
	if l.Text == "" {
		return
	}
	s.SetFont(l.Bold, l.Size)
	x := l.X
	switch l.Align {
	case AlignCenter:
		x -= s.TextWidth(l.Text) / 2
	case AlignRight:
		x -= s.TextWidth(l.Text)
	}
	s.Text(x, l.Y, l.Text)
}
