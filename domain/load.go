package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Правило пересчёта лекции: пара лекции 1,5 ч = 1 ч лекции + 0,5 ч TD
const (
	lectureHoursPerSession         = 1.0
	lectureTutorialHoursPerSession = 0.5
)

// TeacherLoad нагрузка преподавателя за семестр
type TeacherLoad struct {
	TeacherID              string
	TotalHours             float64
	LectureEquivalentHours float64
	TutorialHours          float64
	PracticalHours         float64
	SessionCount           int
}

// CalculateLoad считает нагрузку преподавателя по списку занятий.
// Единственная формула для экрана, bilan и листа преподавателя.
func CalculateLoad(teacherID string, sessions []Session) TeacherLoad {
	load := TeacherLoad{TeacherID: teacherID}
	for _, s := range sessions {
		if s.TeacherID() != teacherID {
			continue
		}
		load.add(s)
	}
	load.TotalHours = load.LectureEquivalentHours + load.TutorialHours + load.PracticalHours
	return load
}

func (l *TeacherLoad) add(s Session) {
	l.SessionCount++
	switch s.Type {
	case Lecture:
		l.LectureEquivalentHours += lectureHoursPerSession
		l.TutorialHours += lectureTutorialHoursPerSession
	case Tutorial:
		l.TutorialHours += SlotHours
	case Practical:
		l.PracticalHours += SlotHours
	}
}

// Summary строка статистики под шапкой листа преподавателя
func (l TeacherLoad) Summary() string {
	return fmt.Sprintf("Total : %sh, Cours : %sh, TD: %sh, TP: %sh",
		FormatHours(l.TotalHours),
		FormatHours(l.LectureEquivalentHours),
		FormatHours(l.TutorialHours),
		FormatHours(l.PracticalHours),
	)
}

// FormatHours печатает часы с запятой: 2,5 / 6
func FormatHours(h float64) string {
	return strings.Replace(strconv.FormatFloat(h, 'f', -1, 64), ".", ",", 1)
}

// BilanRow строка сводного отчёта
type BilanRow struct {
	Teacher Teacher
	Load    TeacherLoad
}

// Bilan сводная нагрузка преподавателей за семестр
type Bilan struct {
	Rows   []BilanRow
	Totals TeacherLoad
}

// BuildBilan считает нагрузку каждого преподавателя, оставляет только тех,
// у кого есть занятия, и сортирует по убыванию общего числа часов.
func BuildBilan(teachers []Teacher, sessions []Session) Bilan {
	byTeacher := make(map[string][]Session)
	for _, s := range sessions {
		if id := s.TeacherID(); id != "" {
			byTeacher[id] = append(byTeacher[id], s)
		}
	}

	var bilan Bilan
	for _, t := range teachers {
		load := CalculateLoad(t.ID, byTeacher[t.ID])
		if load.SessionCount == 0 {
			continue
		}
		bilan.Rows = append(bilan.Rows, BilanRow{Teacher: t, Load: load})

		bilan.Totals.TotalHours += load.TotalHours
		bilan.Totals.LectureEquivalentHours += load.LectureEquivalentHours
		bilan.Totals.TutorialHours += load.TutorialHours
		bilan.Totals.PracticalHours += load.PracticalHours
		bilan.Totals.SessionCount += load.SessionCount
	}

	sort.SliceStable(bilan.Rows, func(i, j int) bool {
		return bilan.Rows[i].Load.TotalHours > bilan.Rows[j].Load.TotalHours
	})
	return bilan
}
