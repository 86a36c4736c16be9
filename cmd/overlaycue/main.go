package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/overlaycue/internal/api"
	"github.com/ivlev/overlaycue/internal/clipboard"
	"github.com/ivlev/overlaycue/internal/config"
	"github.com/ivlev/overlaycue/internal/content"
	"github.com/ivlev/overlaycue/internal/effects"
	"github.com/ivlev/overlaycue/internal/engine"
	"github.com/ivlev/overlaycue/internal/logging"
	"github.com/ivlev/overlaycue/internal/renderer"
	"github.com/ivlev/overlaycue/internal/stage"
	"github.com/ivlev/overlaycue/internal/storyboard"
	"github.com/ivlev/overlaycue/internal/system"
	"github.com/ivlev/overlaycue/internal/timeline"
	"github.com/ivlev/overlaycue/internal/tui"
	"github.com/ivlev/overlaycue/internal/video"
)

func main() {
	modePtr := flag.String("mode", "state", "Режим: state, sweep, spans, filter, burn, storyboard, serve, preview, export-schedule")
	configPtr := flag.String("config", "overlaycue.yaml", "Путь к конфигу (если файла нет, берутся значения по умолчанию)")
	pagePtr := flag.String("page", timeline.PageAbout, "Страница: about, compositions")
	langPtr := flag.String("lang", "", "Язык: en, de (по умолчанию из конфига)")
	viewportPtr := flag.String("viewport", "standard", "Viewport: compact, standard (burn: также both)")
	widthPtr := flag.Int("width", 0, "Ширина окна в px; если задана, viewport определяется по breakpoint")
	timePtr := flag.Float64("t", 0, "Время воспроизведения в секундах (state)")
	durationPtr := flag.Float64("duration", 0, "Длительность (sweep/filter/storyboard; 0: конец последней панели + 1с)")
	stepPtr := flag.Float64("step", 0, "Шаг выборки в секундах (sweep/storyboard; 0: из конфига)")
	inputPtr := flag.String("input", "", "Входное видео (burn; по умолчанию самый свежий файл в input/video/)")
	outputPtr := flag.String("output", "", "Выходной файл (если пусто, генерируется автоматически в output/)")
	copyPtr := flag.Bool("copy", false, "Скопировать фильтр в буфер обмена (filter)")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности (burn)")
	debugPtr := flag.Bool("debug", false, "Выводить таймкод поверх видео (burn/filter)")

	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}
	if *langPtr != "" {
		cfg.DefaultLanguage = *langPtr
		if err := cfg.Validate(); err != nil {
			log.Fatalf("[-] Ошибка конфигурации: %v", err)
		}
	}
	if *statsPtr {
		cfg.Render.ShowStats = true
	}
	if *debugPtr {
		cfg.Render.Debug = true
	}

	cleanup, err := logging.Init(cfg.Log)
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации логов: %v", err)
	}
	defer cleanup()

	schedule, err := loadSchedule(cfg.ScheduleFile)
	if err != nil {
		log.Fatalf("[-] Ошибка расписания: %v", err)
	}

	if *modePtr == "export-schedule" {
		exportSchedule(schedule, *outputPtr)
		return
	}

	catalogs, err := loadCatalogs(cfg.ContentDir)
	if err != nil {
		log.Fatalf("[-] Ошибка контента: %v", err)
	}

	// Ошибка конфигурации останавливает запуск целиком
	registry, err := stage.NewRegistry(schedule, catalogs, cfg.Language())
	if err != nil {
		log.Fatalf("[-] Ошибка таблицы панелей: %v", err)
	}
	slog.Debug("registry built", "pages", registry.Pages(), "lang", registry.Language())

	if *modePtr == "serve" {
		serve(registry, cfg)
		return
	}

	st, err := registry.Stage(*pagePtr)
	if err != nil {
		log.Fatalf("[-] %v (доступны: %s)", err, strings.Join(registry.Pages(), ", "))
	}

	if *modePtr == "burn" {
		burn(cfg, st, *viewportPtr, *inputPtr, *outputPtr)
		return
	}

	vp, err := resolveViewport(cfg.Viewport, *viewportPtr, *widthPtr)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	table := st.Table()

	switch *modePtr {
	case "state":
		state, err := table.State(*timePtr, vp)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		printJSON(state)

	case "sweep":
		frames, err := renderer.SampleEvery(table, vp, sampleStep(*stepPtr, cfg.Storyboard.Step), playDuration(table, vp, *durationPtr))
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		for _, f := range frames {
			fmt.Println(sweepLine(f))
		}

	case "spans":
		spans, err := table.ActiveSpans(vp)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		for _, s := range spans {
			fmt.Printf("#%d %-8s %7.2f → %7.2f  (окно %.2f → %.2f)\n", s.PanelID, s.Kind, s.Start, s.End, s.Window.Start, s.Window.End)
		}

	case "filter":
		params := cfg.Params(vp, playDuration(table, vp, *durationPtr))
		filter, err := effects.NewDrawTextEffect().GenerateFilter(table, params)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		fmt.Println(filter)
		if *copyPtr {
			if err := clipboard.WriteAll(filter); err != nil {
				log.Printf("[!] %v", err)
			} else {
				fmt.Println("[*] Фильтр скопирован в буфер обмена")
			}
		}

	case "storyboard":
		renderStoryboard(cfg, st, table, vp, *stepPtr, *durationPtr, *outputPtr)

	case "preview":
		tick := time.Duration(cfg.Preview.TickMillis) * time.Millisecond
		model := tui.NewModel(st, vp, tick, cfg.Preview.SeekStep)
		model.Locale = registry
		p := tea.NewProgram(model)
		if _, err := p.Run(); err != nil {
			log.Fatalf("[-] Ошибка предпросмотра: %v", err)
		}

	default:
		log.Fatalf("[-] Неизвестный режим: %s", *modePtr)
	}
}

// loadSchedule reads the schedule file, the newest schedule in a directory,
// or falls back to the built-in timing tables
func loadSchedule(path string) (*timeline.Schedule, error) {
	if path == "" {
		return timeline.DefaultSchedule(), nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		latest, err := timeline.FindLatestSchedule(path)
		if err != nil {
			return nil, err
		}
		fmt.Printf("[*] Используется расписание: %s\n", latest)
		path = latest
	}
	return timeline.ReadSchedule(path)
}

func loadCatalogs(dir string) (map[string]*content.Catalog, error) {
	if dir == "" {
		return content.Defaults()
	}
	return content.LoadDir(dir)
}

func resolveViewport(vc config.ViewportConfig, name string, width int) (timeline.Viewport, error) {
	if width > 0 {
		return vc.Classify(width), nil
	}
	return timeline.ParseViewport(name)
}

func parseViewports(name string) ([]timeline.Viewport, error) {
	if strings.EqualFold(name, "both") {
		return []timeline.Viewport{timeline.Compact, timeline.Standard}, nil
	}
	vp, err := timeline.ParseViewport(name)
	if err != nil {
		return nil, err
	}
	return []timeline.Viewport{vp}, nil
}

// playDuration is the explicit duration or the end of the last panel plus a second
func playDuration(table *timeline.Table, vp timeline.Viewport, explicit float64) float64 {
	if explicit > 0 {
		return explicit
	}
	end, err := table.End(vp)
	if err != nil {
		return 0
	}
	return end + 1
}

func sampleStep(flagStep, cfgStep float64) float64 {
	if flagStep > 0 {
		return flagStep
	}
	return cfgStep
}

func sweepLine(f renderer.Frame) string {
	st := f.State
	if !st.Active {
		return fmt.Sprintf("%7.2f  -", f.Time)
	}
	title := ""
	if st.Content != nil {
		title = st.Content.Title
	}
	return fmt.Sprintf("%7.2f  #%d %-8s %.3f  %s", f.Time, st.PanelID, st.Kind, st.Opacity, title)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	fmt.Println(string(data))
}

func defaultOutput(page string, lang timeline.Language, suffix, ext string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join("output", fmt.Sprintf("%s_%s_%s_%s%s", page, lang, suffix, timestamp, ext))
}

func burn(cfg *config.Config, st *stage.Stage, viewport, input, output string) {
	// Увеличиваем лимиты системы (для macOS/Linux)
	if limit, err := system.RaiseFileLimit(2048); err != nil {
		log.Printf("[!] Не удалось изменить лимит файлов: %v", err)
	} else {
		fmt.Printf("[*] Лимит открытых файлов: %d\n", limit)
	}

	for _, d := range []string{"input/video", "output"} {
		_ = os.MkdirAll(d, 0755)
	}

	viewports, err := parseViewports(viewport)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	if input == "" {
		latest, err := system.FindLatestVideo("input/video")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите видео в input/video/", err)
		}
		input = latest
		fmt.Printf("[*] Выбран файл: %s\n", input)
	}
	if output == "" {
		output = defaultOutput(st.Page(), st.Language(), "overlay", ".mp4")
	}

	encoderName := cfg.Render.VideoEncoder
	if encoderName == "" || encoderName == "auto" {
		encoderName = system.BestH264Encoder()
		if encoderName != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
		}
	}
	if !system.CheckFilterSupport("drawtext") {
		log.Printf("[!] ffmpeg собран без drawtext, прожиг завершится ошибкой")
	}

	quality := cfg.Render.Quality
	if quality == 0 {
		switch encoderName {
		case "h264_videotoolbox":
			quality = 75 // Хорошее качество для VideoToolbox
		case "h264_nvenc":
			quality = 28 // Эквивалент CRF для NVENC
		default:
			quality = 23 // Стандартный CRF для x264
		}
	}

	project := engine.NewProject(cfg, st, video.NewFFmpegBurner(encoderName, quality), effects.NewDrawTextEffect())
	project.Input = input
	project.Output = output
	project.Viewports = viewports
	project.BenchmarkLog = "benchmark.log"

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := project.Run(ctx)
	if err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}
	for _, vp := range viewports {
		fmt.Printf("[+++] Успех! Результат (%s): %s\n", vp, report.Outputs[vp])
	}
}

func renderStoryboard(cfg *config.Config, st *stage.Stage, table *timeline.Table, vp timeline.Viewport, step, duration float64, output string) {
	frames, err := renderer.SampleEvery(table, vp, sampleStep(step, cfg.Storyboard.Step), playDuration(table, vp, duration))
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	img, err := storyboard.Render(context.Background(), frames, storyboard.Options{
		Title:     storyboard.Title(st.Page(), table.Language(), vp),
		Columns:   cfg.Storyboard.Columns,
		CellWidth: cfg.Storyboard.CellWidth,
		AssetURL:  cfg.Storyboard.AssetURL,
		Workers:   cfg.Render.Workers,
	})
	if err != nil {
		log.Fatalf("[-] Ошибка раскадровки: %v", err)
	}

	if output == "" {
		_ = os.MkdirAll("output", 0755)
		output = defaultOutput(st.Page(), table.Language(), "storyboard-"+vp.String(), ".png")
	}
	if err := storyboard.WritePNG(img, output); err != nil {
		log.Fatalf("[-] %v", err)
	}
	fmt.Printf("[+++] Раскадровка сохранена: %s (%d кадров)\n", output, len(frames))
}

func exportSchedule(schedule *timeline.Schedule, output string) {
	if output == "" {
		_ = os.MkdirAll("schedules", 0755)
		output = timeline.GenerateSchedulePath("schedules")
	}
	if err := timeline.WriteSchedule(schedule, output); err != nil {
		log.Fatalf("[-] %v", err)
	}
	fmt.Printf("[+++] Успех! Расписание сохранено: %s\n", output)
}

func serve(registry *stage.Registry, cfg *config.Config) {
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(api.NewServer(registry, cfg)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("preview api listening", "addr", cfg.Server.Addr, "lang", registry.Language())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[-] Ошибка сервера: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
