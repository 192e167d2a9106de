package pdfdoc

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Vaflel/planning/domain"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9.\-]+`)

// Заглушки для частей имени, от которых после очистки ничего не осталось
const (
	fallbackEntity     = "Sans_nom"
	fallbackDepartment = "Dept"
	fallbackYear       = "Annee"
)

// foldDiacritics убирает диакритику: "Génie" -> "Genie"
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Sanitize снимает диакритику и заменяет всё, кроме латиницы, цифр, точки и дефиса, на "_"
func Sanitize(part string) string {
	s := unsafeChars.ReplaceAllString(foldDiacritics(strings.TrimSpace(part)), "_")
	return strings.Trim(s, "_")
}

func sanitizeOr(part, fallback string) string {
	if s := Sanitize(part); s != "" {
		return s
	}
	return fallback
}

// FileName имя файла расписания одной цели: {Label}_{Name}_{Department}_{Year}_S{n}.pdf
func FileName(target domain.Target, entityName, department, academicYear string, semester int) string {
	return fmt.Sprintf("%s_%s_%s_%s_S%d.pdf",
		Sanitize(target.Label()),
		sanitizeOr(entityName, fallbackEntity),
		sanitizeOr(department, fallbackDepartment),
		sanitizeOr(academicYear, fallbackYear),
		semester)
}

// BundleFileName имя файла со всеми целями одного вида
func BundleFileName(target domain.Target, department, academicYear string, semester int) string {
	kind := map[domain.Target]string{
		domain.TargetClass:   "classes",
		domain.TargetTeacher: "enseignants",
		domain.TargetRoom:    "salles",
	}[target]
	return fmt.Sprintf("Emplois_du_temps_%s_%s_%s_S%d.pdf",
		kind, sanitizeOr(department, fallbackDepartment), sanitizeOr(academicYear, fallbackYear), semester)
}

// ReportFileName имя файла отчёта
func ReportFileName(prefix, academicYear string, semester int, ext string) string {
	return fmt.Sprintf("%s_%s_S%d.%s", Sanitize(prefix), sanitizeOr(academicYear, fallbackYear), semester, ext)
}
