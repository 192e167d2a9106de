package domain

import (
	"errors"
	"fmt"
)

const (
	// DaysPerWeek учебные дни с понедельника по субботу
	DaysPerWeek = 6
	// SlotsPerDay пары в учебном дне
	SlotsPerDay = 6
	// SlotHours длительность одной пары в часах
	SlotHours = 1.5
)

// DayLabels названия дней недели, индекс = dayOfWeek-1
var DayLabels = [DaysPerWeek]string{
	"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi",
}

// TimeSlotLabels интервалы пар, индекс = timeSlot-1
var TimeSlotLabels = [SlotsPerDay]string{
	"8h30-10h00", "10h10-11h40", "11h50-13h20",
	"13h30-15h00", "15h10-16h40", "16h50-18h20",
}

// ErrOutOfRange координата вне сетки 6x6
var ErrOutOfRange = errors.New("координата вне недельной сетки")

// Coordinate ячейка недельной сетки: день 1..6 и пара 1..6.
// Поля закрыты, создаётся только через NewCoordinate/CoordinateOf.
type Coordinate struct {
	day  int
	slot int
}

// NewCoordinate создаёт координату из номеров дня и пары (с единицы)
func NewCoordinate(day, slot int) (Coordinate, error) {
	if day < 1 || day > DaysPerWeek {
		return Coordinate{}, fmt.Errorf("%w: день %d", ErrOutOfRange, day)
	}
	if slot < 1 || slot > SlotsPerDay {
		return Coordinate{}, fmt.Errorf("%w: пара %d", ErrOutOfRange, slot)
	}
	return Coordinate{day: day, slot: slot}, nil
}

// CoordinateOf переводит индексы столбца дня и строки пары (с нуля) в координату
func CoordinateOf(dayIndex, timeIndex int) (Coordinate, error) {
	return NewCoordinate(dayIndex+1, timeIndex+1)
}

// MustCoordinate как NewCoordinate, но паникует. Только для констант и тестов.
func MustCoordinate(day, slot int) Coordinate {
	c, err := NewCoordinate(day, slot)
	if err != nil {
		panic(err)
	}
	return c
}

// Day номер дня недели, 1 = понедельник
func (c Coordinate) Day() int { return c.day }

// Slot номер пары, 1 = первая
func (c Coordinate) Slot() int { return c.slot }

// DayIndex индекс столбца дня (с нуля)
func (c Coordinate) DayIndex() int { return c.day - 1 }

// SlotIndex индекс строки пары (с нуля)
func (c Coordinate) SlotIndex() int { return c.slot - 1 }

// IsValid ложно только для нулевого значения
func (c Coordinate) IsValid() bool {
	return c.day >= 1 && c.day <= DaysPerWeek && c.slot >= 1 && c.slot <= SlotsPerDay
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d/%d", c.day, c.slot)
}

// LabelOf возвращает подписи дня и пары для координаты
func LabelOf(c Coordinate) (string, string) {
	if !c.IsValid() {
		return "", ""
	}
	return DayLabels[c.day-1], TimeSlotLabels[c.slot-1]
}

// Coordinates все 36 ячеек: по парам, внутри пары по дням
func Coordinates() []Coordinate {
	all := make([]Coordinate, 0, DaysPerWeek*SlotsPerDay)
	for slot := 1; slot <= SlotsPerDay; slot++ {
		for day := 1; day <= DaysPerWeek; day++ {
			all = append(all, Coordinate{day: day, slot: slot})
		}
	}
	return all
}

// DayByLabel ищет номер дня по названию без учёта регистра
func DayByLabel(label string) (int, bool) {
	for i, l := range DayLabels {
		if equalFold(l, label) {
			return i + 1, true
		}
	}
	return 0, false
}

// SlotByLabel ищет номер пары по подписи интервала
func SlotByLabel(label string) (int, bool) {
	for i, l := range TimeSlotLabels {
		if equalFold(l, label) {
			return i + 1, true
		}
	}
	return 0, false
}
