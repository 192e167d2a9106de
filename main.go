package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/joho/godotenv"

	"github.com/Vaflel/planning/config"
	"github.com/Vaflel/planning/infrastructure"
	"github.com/Vaflel/planning/usecases"
	"github.com/Vaflel/planning/web"
)

// openBrowser opens the specified URL in the default browser
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Не удалось открыть браузер: %v", err)
		log.Printf("Откройте вручную: %s", url)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Не удалось прочитать .env: %v", err)
	}

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	tokens, err := infrastructure.OpenTokenStore(cfg.TokenDBPath)
	if err != nil {
		log.Fatalf("Ошибка открытия хранилища токенов: %v", err)
	}
	defer tokens.Close()

	api := infrastructure.NewAPIClient(cfg.APIBaseURL, cfg.APITimeout, tokens)
	refs := infrastructure.NewReferenceRepository(api, cfg.CacheTTL)
	sessionsRepo := infrastructure.NewSessionRepository(api)
	resourcesRepo := infrastructure.NewResourceRepository(api)
	templates := infrastructure.NewTemplateRepository(cfg.TemplatesDir, cfg.Templates)
	importer := infrastructure.NewXLSImporter(cfg.ImportCharset)

	server := web.NewServer(web.Services{
		Timetables: usecases.NewTimetableService(refs, sessionsRepo, templates, usecases.TimetableOptions{
			ISOCode:       cfg.ISOCode,
			LocationToken: cfg.FallbackLocation,
		}),
		Sessions:  usecases.NewSessionService(sessionsRepo, refs, importer),
		Reports:   usecases.NewReportService(refs, sessionsRepo),
		Integrity: usecases.NewIntegrityService(sessionsRepo),
		Dashboard: usecases.NewDashboardService(refs, sessionsRepo),
		Resources: usecases.NewResourceService(resourcesRepo, refs),
		Auth:      usecases.NewAuthService(api, tokens),
	})

	if cfg.OpenBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			_, port, _ := net.SplitHostPort(cfg.HTTPAddr)
			url := fmt.Sprintf("http://localhost:%s", port)
			log.Printf("Открываем браузер: %s\n", url)
			openBrowser(url)
		}()
	}

	if err := server.Start(cfg.HTTPAddr); err != nil {
		log.Fatalf("Ошибка запуска веб-сервера: %v", err)
	}
}
