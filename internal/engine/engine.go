package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/overlaycue/internal/config"
	"github.com/ivlev/overlaycue/internal/effects"
	"github.com/ivlev/overlaycue/internal/stage"
	"github.com/ivlev/overlaycue/internal/system"
	"github.com/ivlev/overlaycue/internal/timeline"
	"github.com/ivlev/overlaycue/internal/video"
)

// Project burns the overlay of one page into a source clip, once per viewport
type Project struct {
	Config *config.Config
	Stage  *stage.Stage
	Burner video.Burner
	Effect effects.Effect

	Input        string
	Output       string
	Viewports    []timeline.Viewport
	BenchmarkLog string // appended to when stats are on; empty disables
	Out          io.Writer
}

type Report struct {
	Page      string
	Language  timeline.Language
	Duration  float64 // source clip, seconds
	Outputs   map[timeline.Viewport]string
	Elapsed   time.Duration
	BurnTimes map[timeline.Viewport]time.Duration
}

type burnJob struct {
	viewport timeline.Viewport
	output   string
	filter   string
	params   config.OverlayParams
}

func NewProject(cfg *config.Config, st *stage.Stage, b video.Burner, eff effects.Effect) *Project {
	return &Project{
		Config:    cfg,
		Stage:     st,
		Burner:    b,
		Effect:    eff,
		Viewports: []timeline.Viewport{timeline.Standard},
		Out:       os.Stdout,
	}
}

func (p *Project) Run(ctx context.Context) (*Report, error) {
	startTime := time.Now()
	if p.Input == "" {
		return nil, fmt.Errorf("не задан входной видео-файл")
	}
	if p.Output == "" {
		return nil, fmt.Errorf("не задан выходной файл")
	}
	if len(p.Viewports) == 0 {
		return nil, fmt.Errorf("не задан ни один viewport")
	}
	out := p.Out
	if out == nil {
		out = io.Discard
	}

	duration, err := p.Burner.Probe(ctx, p.Input)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения длительности: %w", err)
	}

	// Одна таблица на весь рендер: смена языка во время прожига не влияет на результат
	table := p.Stage.Table()

	fmt.Fprintln(out, "--- [PROJECT: OVERLAY BURN] ---")
	fmt.Fprintf(out, "[*] Страница: %s | Язык: %s | Панелей: %d\n", p.Stage.Page(), table.Language(), table.Len())
	fmt.Fprintf(out, "[*] Источник: %s (%.2fs) | %dx%d @ %d FPS\n", p.Input, duration, p.Config.Render.Width, p.Config.Render.Height, p.Config.Render.FPS)
	fmt.Fprintln(out, "-------------------------------")

	report := &Report{
		Page:      p.Stage.Page(),
		Language:  table.Language(),
		Duration:  duration,
		Outputs:   make(map[timeline.Viewport]string, len(p.Viewports)),
		BurnTimes: make(map[timeline.Viewport]time.Duration, len(p.Viewports)),
	}
	var mu sync.Mutex

	// Все фильтры строятся до первого прожига
	jobs := make([]burnJob, 0, len(p.Viewports))
	for _, vp := range p.Viewports {
		end, err := table.End(vp)
		if err != nil {
			return nil, err
		}
		if end > duration {
			slog.Warn("panels outlast the source clip", "page", report.Page, "viewport", vp, "panels_end", end, "clip", duration)
		}

		params := p.Config.Params(vp, duration)
		filter, err := p.Effect.GenerateFilter(table, params)
		if err != nil {
			return nil, fmt.Errorf("ошибка генерации фильтра (%s): %w", vp, err)
		}
		jobs = append(jobs, burnJob{
			viewport: vp,
			output:   outputFor(p.Output, vp, len(p.Viewports) > 1),
			filter:   filter,
			params:   params,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	workers := p.Config.Render.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for _, job := range jobs {
		vp, output, filter, params := job.viewport, job.output, job.filter, job.params
		g.Go(func() error {
			burnStart := time.Now()
			if err := p.Burner.Burn(gctx, p.Input, output, filter, params); err != nil {
				return fmt.Errorf("ошибка прожига %s: %w", output, err)
			}
			mu.Lock()
			report.Outputs[vp] = output
			report.BurnTimes[vp] = time.Since(burnStart)
			mu.Unlock()
			fmt.Fprintf(out, "[>] Ready: %s\n", output)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.Elapsed = time.Since(startTime)

	if p.Config.Render.ShowStats {
		p.writeReport(out, report)
	}
	return report, nil
}

// outputFor adds a viewport suffix when several viewports are burned
func outputFor(output string, vp timeline.Viewport, suffixed bool) string {
	if !suffixed {
		return output
	}
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "-" + vp.String() + ext
}

func (p *Project) writeReport(out io.Writer, r *Report) {
	host := "n/a"
	if s, err := system.ReadHostStats(); err == nil {
		host = s.String()
	}

	fmt.Fprintf(out,
		"--- [PERFORMANCE REPORT] ---\n"+
			"Page: %s (%s)\n"+
			"Clip: %.2fs\n"+
			"Total Time: %.2fs\n",
		r.Page, r.Language, r.Duration, r.Elapsed.Seconds())
	for _, vp := range p.Viewports {
		fmt.Fprintf(out, "Burn %s: %.2fs\n", vp, r.BurnTimes[vp].Seconds())
	}
	fmt.Fprintf(out, "Host: %s\n----------------------------\n", host)

	if p.BenchmarkLog == "" {
		return
	}
	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Page: %s | Lang: %s | Input: %s | Viewports: %d | Clip: %.2fs | Total: %.2fs\n",
		time.Now().Format("2006-01-02 15:04:05"),
		r.Page,
		r.Language,
		filepath.Base(p.Input),
		len(p.Viewports),
		r.Duration,
		r.Elapsed.Seconds(),
	)
	f, err := os.OpenFile(p.BenchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(out, "[!] Не удалось записать %s: %v\n", p.BenchmarkLog, err)
		return
	}
	defer f.Close()
	_, _ = f.WriteString(logEntry)
}
