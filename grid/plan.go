// Package grid раскладывает недельную сетку занятий в прямоугольники и подписи
// и отрисовывает готовую раскладку на любой поверхности.
package grid

import (
	"errors"
	"fmt"

	"github.com/Vaflel/planning/domain"
)

// ErrStackCount в ячейке помещается одно или два занятия
var ErrStackCount = errors.New("в ячейке можно разместить одно или два занятия")

// Layout размеры таблицы в миллиметрах
type Layout struct {
	StartY       float64
	Margin       float64
	LabelWidth   float64
	DayWidth     float64
	HeaderHeight float64
	RowHeight    float64
}

// DefaultLayout таблица на альбомном A4
var DefaultLayout = Layout{
	StartY:       40,
	Margin:       15,
	LabelWidth:   25,
	DayWidth:     40.25,
	HeaderHeight: 12,
	RowHeight:    20,
}

// Width ширина всей таблицы
func (l Layout) Width() float64 {
	return l.LabelWidth + l.DayWidth*domain.DaysPerWeek
}

// Bottom нижняя граница таблицы
func (l Layout) Bottom() float64 {
	return l.StartY + l.HeaderHeight + l.RowHeight*domain.SlotsPerDay
}

// Rect прямоугольник: левый верхний угол и размеры
type Rect struct {
	X, Y, W, H float64
}

// Stacked результат деления ячейки по вертикали
type Stacked struct {
	Parts      []Rect
	Separators []float64
}

// Stack делит ячейку по высоте на count равных частей
func Stack(r Rect, count int) (Stacked, error) {
	if count != 1 && count != 2 {
		return Stacked{}, fmt.Errorf("%w: %d", ErrStackCount, count)
	}
	h := r.H / float64(count)
	st := Stacked{}
	for i := 0; i < count; i++ {
		y := r.Y + h*float64(i)
		st.Parts = append(st.Parts, Rect{X: r.X, Y: y, W: r.W, H: h})
		if i > 0 {
			st.Separators = append(st.Separators, y)
		}
	}
	return st, nil
}

// Align выравнивание подписи относительно точки привязки
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Label подпись: текст, точка привязки, шрифт
type Label struct {
	Text  string
	X, Y  float64
	Size  float64
	Bold  bool
	Align Align
}

// Box ячейка заголовка таблицы
type Box struct {
	Rect  Rect
	Fill  bool
	Label Label
}

// Part часть ячейки под одно занятие
type Part struct {
	Rect      Rect
	SessionID string
	Labels    []Label
}

// Cell ячейка сетки с занятиями
type Cell struct {
	Coordinate domain.Coordinate
	Rect       Rect
	Parts      []Part
	Separators []float64
}

// Count число занятий в ячейке
func (c Cell) Count() int { return len(c.Parts) }

// Plan раскладка таблицы, ничего не рисует
type Plan struct {
	Layout Layout
	Header []Box
	Cells  []Cell
}

// CellAt ячейка по координате
func (p Plan) CellAt(c domain.Coordinate) (Cell, bool) {
	for _, cell := range p.Cells {
		if cell.Coordinate == c {
			return cell, true
		}
	}
	return Cell{}, false
}

// Fields какие поля занятия выводятся в ячейке
type Fields struct {
	Primary   func(domain.Session) string
	Secondary func(domain.Session) string
}

// FieldsFor поля для вида расписания: в расписании преподавателя вместо
// преподавателя выводится группа, в расписании аудитории вместо аудитории
func FieldsFor(t domain.Target) Fields {
	teacher := func(s domain.Session) string { return s.TeacherName() }
	class := func(s domain.Session) string { return s.ClassName() }
	room := func(s domain.Session) string { return s.RoomName() }

	switch t {
	case domain.TargetTeacher:
		return Fields{Primary: class, Secondary: room}
	case domain.TargetRoom:
		return Fields{Primary: teacher, Secondary: class}
	}
	return Fields{Primary: teacher, Secondary: room}
}

// Build строит раскладку сетки одной цели
func Build(g *domain.Grid, target domain.Target, layout Layout) (Plan, error) {
	plan := Plan{Layout: layout}
	fields := FieldsFor(target)

	x0, y0 := layout.Margin, layout.StartY
	plan.Header = append(plan.Header, headerBox(Rect{X: x0, Y: y0, W: layout.LabelWidth, H: layout.HeaderHeight}, "Horaires", 9))
	for d, label := range domain.DayLabels {
		r := Rect{X: x0 + layout.LabelWidth + layout.DayWidth*float64(d), Y: y0, W: layout.DayWidth, H: layout.HeaderHeight}
		plan.Header = append(plan.Header, headerBox(r, label, 9))
	}

	for slot := 0; slot < domain.SlotsPerDay; slot++ {
		rowY := y0 + layout.HeaderHeight + layout.RowHeight*float64(slot)
		plan.Header = append(plan.Header, headerBox(Rect{X: x0, Y: rowY, W: layout.LabelWidth, H: layout.RowHeight}, domain.TimeSlotLabels[slot], 8))

		for day := 0; day < domain.DaysPerWeek; day++ {
			c, err := domain.CoordinateOf(day, slot)
			if err != nil {
				return Plan{}, err
			}
			rect := Rect{X: x0 + layout.LabelWidth + layout.DayWidth*float64(day), Y: rowY, W: layout.DayWidth, H: layout.RowHeight}
			cell := Cell{Coordinate: c, Rect: rect}

			var sessions []domain.Session
			if g != nil {
				sessions = g.At(c)
			}
			if len(sessions) > 0 {
				st, err := Stack(rect, len(sessions))
				if err != nil {
					return Plan{}, fmt.Errorf("ячейка %s: %w", c, err)
				}
				cell.Separators = st.Separators
				stacked := len(sessions) > 1
				for i, s := range sessions {
					cell.Parts = append(cell.Parts, Part{
						Rect:      st.Parts[i],
						SessionID: s.ID,
						Labels:    sessionLabels(s, st.Parts[i], fields, stacked),
					})
				}
			}
			plan.Cells = append(plan.Cells, cell)
		}
	}
	return plan, nil
}

func headerBox(r Rect, text string, size float64) Box {
	return Box{
		Rect:  r,
		Fill:  true,
		Label: Label{Text: text, X: r.X + r.W/2, Y: r.Y + r.H/2 + 1, Size: size, Bold: true, Align: AlignCenter},
	}
}

func sessionLabels(s domain.Session, r Rect, f Fields, stacked bool) []Label {
	labels := []Label{
		{Text: s.CourseCode(), X: r.X + r.W/2, Y: r.Y + r.H/2 + 1, Size: 8, Bold: true, Align: AlignCenter},
		{Text: f.Secondary(s), X: r.X + r.W - 1, Y: r.Y + r.H - 2, Size: 6, Align: AlignRight},
	}
	if stacked {
		labels = append(labels,
			Label{Text: f.Primary(s), X: r.X + 1, Y: r.Y + r.H - 2, Size: 6},
			Label{Text: s.GroupTag(), X: r.X + r.W - 1, Y: r.Y + 6, Size: 6, Align: AlignRight},
		)
	} else {
		labels = append(labels,
			Label{Text: f.Primary(s), X: r.X + 1, Y: r.Y + 5, Size: 6},
			Label{Text: s.GroupTag(), X: r.X + r.W/2, Y: r.Y + r.H - 2, Size: 5, Align: AlignCenter},
		)
	}

	out := labels[:0]
	for _, l := range labels {
		if l.Text != "" {
			out = append(out, l)
		}
	}
	return out
}
