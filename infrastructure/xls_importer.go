package infrastructure

// Импорт занятий из XLS-выгрузки. Первая строка, в которой найдены колонки
// группы, дня и пары, считается заголовком; каждая следующая непустая строка
// даёт одно занятие. Названия колонок сравниваются без учёта регистра и
// диакритики ("Matière" = "matiere"). Значения не проверяются: сопоставление
// имён с идентификаторами и проверка ячейки выполняются при импорте в сервисе.

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/extrame/xls"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrNoHeader в таблице нет строки заголовка
var ErrNoHeader = errors.New("не найдена строка заголовка (Classe, Jour, Horaire)")

// ImportRow строка выгрузки как есть, Line: номер строки в листе с единицы
type ImportRow struct {
	Line     int
	Class    string
	Teacher  string
	Room     string
	Course   string
	Type     string
	Day      string
	Slot     string
	Semester string
	Group    string
}

type importColumn int

const (
	colClass importColumn = iota
	colTeacher
	colRoom
	colCourse
	colType
	colDay
	colSlot
	colSemester
	colGroup
)

var columnAliases = map[string]importColumn{
	"classe":      colClass,
	"class":       colClass,
	"enseignant":  colTeacher,
	"teacher":     colTeacher,
	"salle":       colRoom,
	"room":        colRoom,
	"matiere":     colCourse,
	"course":      colCourse,
	"code":        colCourse,
	"type":        colType,
	"jour":        colDay,
	"day":         colDay,
	"horaire":     colSlot,
	"seance":      colSlot,
	"creneau":     colSlot,
	"slot":        colSlot,
	"semestre":    colSemester,
	"semester":    colSemester,
	"groupe":      colGroup,
	"group":       colGroup,
	"sous-groupe": colGroup,
}

// XLSImporter читает занятия из XLS-файла
type XLSImporter struct {
	charset string
}

// NewXLSImporter создаёт импортёр. Пустая кодировка = windows-1252 (французские выгрузки).
func NewXLSImporter(charset string) *XLSImporter {
	if charset == "" {
		charset = "windows-1252"
	}
	return &XLSImporter{charset: charset}
}

// Parse читает первый лист файла
func (p *XLSImporter) Parse(r io.ReadSeeker) ([]ImportRow, error) {
	file, err := xls.OpenReader(r, p.charset)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия XLS: %w", err)
	}

	sheet := file.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("в файле нет листов")
	}

	var table [][]string
	for rowIndex := 0; rowIndex <= int(sheet.MaxRow); rowIndex++ {
		row := sheet.Row(rowIndex)
		if row == nil {
			table = append(table, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, strings.TrimSpace(row.Col(c)))
		}
		table = append(table, cells)
	}

	return rowsFromTable(table)
}

// rowsFromTable разбирает таблицу строк: ищет заголовок и собирает строки под ним
func rowsFromTable(table [][]string) ([]ImportRow, error) {
	headerIndex := -1
	var columns map[importColumn]int
	for i, cells := range table {
		if cols := headerColumns(cells); cols != nil {
			headerIndex, columns = i, cols
			break
		}
	}
	if headerIndex < 0 {
		return nil, ErrNoHeader
	}

	var rows []ImportRow
	for i := headerIndex + 1; i < len(table); i++ {
		cells := table[i]
		get := func(c importColumn) string {
			idx, ok := columns[c]
			if !ok || idx >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[idx])
		}

		row := ImportRow{
			Line:     i + 1,
			Class:    get(colClass),
			Teacher:  get(colTeacher),
			Room:     get(colRoom),
			Course:   get(colCourse),
			Type:     get(colType),
			Day:      get(colDay),
			Slot:     get(colSlot),
			Semester: get(colSemester),
			Group:    get(colGroup),
		}
		if row.isEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r ImportRow) isEmpty() bool {
	return r.Class == "" && r.Teacher == "" && r.Room == "" && r.Course == "" && r.Day == "" && r.Slot == ""
}

func headerColumns(cells []string) map[importColumn]int {
	cols := make(map[importColumn]int)
	for i, cell := range cells {
		if c, ok := columnAliases[normalizeHeader(cell)]; ok {
			if _, dup := cols[c]; !dup {
				cols[c] = i
			}
		}
	}
	for _, required := range []importColumn{colClass, colDay, colSlot} {
		if _, ok := cols[required]; !ok {
			return nil
		}
	}
	return cols
}

// normalizeHeader нижний регистр без диакритики и пробелов по краям
func normalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
