package infrastructure

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Vaflel/planning/domain"
)

// TemplateFiles имена файлов шаблонов шапки по видам расписания
type TemplateFiles struct {
	Class   string `yaml:"class"`
	Teacher string `yaml:"teacher"`
	Room    string `yaml:"room"`
}

// DefaultTemplateFiles имена файлов, под которыми шаблоны лежали изначально
var DefaultTemplateFiles = TemplateFiles{
	Class:   "modle_classe.dot",
	Teacher: "model_teacher.dot",
	Room:    "model_room.dot",
}

// TemplateRepository читает шаблоны шапки из каталога
type TemplateRepository struct {
	dir   string
	files TemplateFiles
}

// NewTemplateRepository создаёт репозиторий шаблонов
func NewTemplateRepository(dir string, files TemplateFiles) *TemplateRepository {
	return &TemplateRepository{dir: dir, files: files}
}

func (r *TemplateRepository) fileFor(target domain.Target) string {
	switch target {
	case domain.TargetTeacher:
		return r.files.Teacher
	case domain.TargetRoom:
		return r.files.Room
	}
	return r.files.Class
}

// Load возвращает текст шаблона построчно. Отсутствующий файл не ошибка:
// возвращается пустая строка и используется шапка по умолчанию.
// HTML-шаблон разворачивается в строки по блочным элементам.
func (r *TemplateRepository) Load(target domain.Target) (string, error) {
	name := r.fileFor(target)
	if name == "" {
		return "", nil
	}

	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("не удалось прочитать шаблон %s: %w", name, err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(strings.TrimSpace(text), "<") {
		return text, nil
	}
	return flattenHTML(text)
}

const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, tr, div"

var lineBreakRe = regexp.MustCompile(`(?i)<br\s*/?>`)

func flattenHTML(text string) (string, error) {
	text = lineBreakRe.ReplaceAllString(text, "\n")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return "", fmt.Errorf("не удалось разобрать HTML шаблона: %w", err)
	}
	doc.Find("script, style").Remove()

	var lines []string
	collect := func(s string) {
		for _, part := range strings.Split(s, "\n") {
			if line := strings.Join(strings.Fields(part), " "); line != "" {
				lines = append(lines, line)
			}
		}
	}

	// берутся только блоки без вложенных блоков, иначе текст задвоится
	doc.Find(blockSelector).Each(func(i int, s *goquery.Selection) {
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		collect(s.Text())
	})

	if len(lines) == 0 {
		collect(doc.Text())
	}
	return strings.Join(lines, "\n"), nil
}
