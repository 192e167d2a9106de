package infrastructure

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Vaflel/planning/domain"
)

const bilanSheet = "Bilan"

var bilanColumns = []struct {
	title string
	width float64
}{
	{"N°", 6},
	{"Enseignant", 32},
	{"Grade", 14},
	{"Total H", 10},
	{"H Cours", 10},
	{"H TD", 10},
	{"H TP", 10},
	{"Séances", 10},
}

// BilanTitle заголовок листа
type BilanTitle struct {
	Title        string
	AcademicYear string
	Semester     int
	Note         string
}

func cell(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}

// ExportBilanXLSX формирует XLSX с нагрузкой преподавателей. Часы пишутся числами,
// чтобы их можно было суммировать в таблице.
func ExportBilanXLSX(title BilanTitle, bilan domain.Bilan) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bilanSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E6E6E6"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Style: 1}, {Type: "right", Style: 1},
			{Type: "top", Style: 1}, {Type: "bottom", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	set := func(col, row int, v any) {
		if err == nil {
			err = f.SetCellValue(bilanSheet, cell(col, row), v)
		}
	}

	set(1, 1, title.Title)
	set(1, 2, fmt.Sprintf("A.U.: %s    Semestre: %d", title.AcademicYear, title.Semester))

	const headerRow = 4
	for i, c := range bilanColumns {
		set(i+1, headerRow, c.title)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err == nil {
			err = f.SetColWidth(bilanSheet, colName, colName, c.width)
		}
	}

	row := headerRow + 1
	writeLoad := func(n any, name, grade string, l domain.TeacherLoad) {
		set(1, row, n)
		set(2, row, name)
		set(3, row, grade)
		set(4, row, l.TotalHours)
		set(5, row, l.LectureEquivalentHours)
		set(6, row, l.TutorialHours)
		set(7, row, l.PracticalHours)
		set(8, row, l.SessionCount)
		row++
	}
	for i, r := range bilan.Rows {
		writeLoad(i+1, r.Teacher.FullName(), r.Teacher.Grade.Name, r.Load)
	}
	totalRow := row
	writeLoad("", "TOTAL", "", bilan.Totals)

	if title.Note != "" {
		set(1, row+1, title.Note)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка заполнения XLSX: %w", err)
	}

	if err := f.SetCellStyle(bilanSheet, cell(1, 1), cell(1, 1), bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(bilanSheet, cell(1, headerRow), cell(len(bilanColumns), headerRow), headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(bilanSheet, cell(1, totalRow), cell(len(bilanColumns), totalRow), bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ошибка записи XLSX: %w", err)
	}
	return buf.Bytes(), nil
}
