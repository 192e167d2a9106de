package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound занятия с таким ID нет в текущей выборке
	ErrSessionNotFound = errors.New("занятие не найдено")
	// ErrNothingPicked DropAt вызван без PickUp
	ErrNothingPicked = errors.New("занятие для переноса не выбрано")
)

// Move перенос занятия мышью в два шага: PickUp, затем DropAt.
// Проверка лимита ячейки делается до отправки изменений на сервер.
type Move struct {
	sessions []Session
	picked   *Session
}

// NewMove начинает перенос в рамках текущей выборки занятий
func NewMove(sessions []Session) *Move {
	return &Move{sessions: sessions}
}

// PickUp берёт занятие
func (m *Move) PickUp(sessionID string) error {
	for i := range m.sessions {
		if m.sessions[i].ID == sessionID {
			s := m.sessions[i]
			m.picked = &s
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
}

// Picked выбранное занятие или nil
func (m *Move) Picked() *Session {
	return m.picked
}

// Cancel отменяет перенос
func (m *Move) Cancel() {
	m.picked = nil
}

// DropAt ставит выбранное занятие в ячейку группы class.
// Возвращает изменённую копию; исходная выборка не меняется.
func (m *Move) DropAt(class Class, c Coordinate) (Session, error) {
	if m.picked == nil {
		return Session{}, ErrNothingPicked
	}
	if !c.IsValid() {
		return Session{}, fmt.Errorf("%w: %s", ErrOutOfRange, c)
	}

	moved := *m.picked
	moved.Class = &class
	moved.DayOfWeek = c.Day()
	moved.TimeSlot = c.Slot()

	if err := CheckPlacement(m.sessions, moved); err != nil {
		return Session{}, err
	}

	m.picked = nil
	return moved, nil
}
