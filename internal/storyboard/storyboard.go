// Package storyboard renders sampled overlay frames as a contact sheet.
package storyboard

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/overlaycue/internal/renderer"
	"github.com/ivlev/overlaycue/internal/system"
	"github.com/ivlev/overlaycue/internal/timeline"
)

const (
	headerHeight = 72
	qrSize       = 64
	padding      = 6
	lineHeight   = 15
	barHeight    = 6
)

var (
	background = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	cellColor  = color.RGBA{R: 40, G: 40, B: 46, A: 255}
	dimText    = color.RGBA{R: 140, G: 140, B: 150, A: 255}
	barColor   = color.RGBA{R: 230, G: 180, B: 60, A: 255}
	colorWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

type Options struct {
	Title     string // header line, e.g. "about / en / standard"
	Columns   int
	CellWidth int
	AssetURL  string // encoded as QR code in the header when set
	Workers   int
}

// Render draws one cell per frame: timestamp, panel id and kind, the
// panel title faded to its opacity and an opacity bar.
func Render(ctx context.Context, frames []renderer.Frame, opts Options) (*image.RGBA, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to render")
	}
	if opts.Columns <= 0 {
		return nil, fmt.Errorf("columns must be positive, got %d", opts.Columns)
	}
	if opts.CellWidth < 64 {
		return nil, fmt.Errorf("cell width %d too small", opts.CellWidth)
	}

	cellW := opts.CellWidth
	cellH := cellW * 9 / 16
	rows := (len(frames) + opts.Columns - 1) / opts.Columns

	sheet := image.NewRGBA(image.Rect(0, 0, opts.Columns*(cellW+padding)+padding, headerHeight+rows*(cellH+padding)+padding))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	if err := drawHeader(sheet, opts); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	g.SetLimit(workers)

	for i, f := range frames {
		x := padding + (i%opts.Columns)*(cellW+padding)
		y := headerHeight + padding + (i/opts.Columns)*(cellH+padding)
		dst := image.Rect(x, y, x+cellW, y+cellH)

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cell := system.AcquireCell(cellW, cellH)
			defer system.ReleaseCell(cell)

			drawCell(cell, f)
			// Ячейки не пересекаются, запись в общий лист безопасна
			draw.Draw(sheet, dst, cell, image.Point{}, draw.Src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sheet, nil
}

func drawHeader(sheet *image.RGBA, opts Options) error {
	drawString(sheet, opts.Title, padding, 28, color.White)
	if opts.AssetURL == "" {
		return nil
	}
	drawString(sheet, opts.AssetURL, padding, 50, dimText)

	qr, err := qrcode.New(opts.AssetURL, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qr code: %w", err)
	}
	img := qr.Image(qrSize)
	x := sheet.Bounds().Dx() - qrSize - padding
	if x < 0 {
		return nil
	}
	draw.Draw(sheet, image.Rect(x, (headerHeight-qrSize)/2, x+qrSize, (headerHeight+qrSize)/2), img, image.Point{}, draw.Src)
	return nil
}

func drawCell(cell *image.RGBA, f renderer.Frame) {
	b := cell.Bounds()
	draw.Draw(cell, b, image.NewUniform(cellColor), image.Point{}, draw.Src)

	st := f.State
	drawString(cell, fmt.Sprintf("t=%6.2fs", f.Time), padding, lineHeight, dimText)
	if !st.Active {
		drawString(cell, "-", padding, 2*lineHeight+4, dimText)
		return
	}

	drawString(cell, fmt.Sprintf("#%d %s %.2f", st.PanelID, st.Kind, st.Opacity), padding, 2*lineHeight, dimText)

	maxChars := (b.Dx() - 2*padding) / basicfont.Face7x13.Advance
	title := ""
	if st.Content != nil {
		title = st.Content.Title
		if title == "" && len(st.Content.Body) > 0 {
			title = st.Content.Body[0]
		}
	}
	drawString(cell, truncate(title, maxChars), padding, 3*lineHeight+6, fade(colorWhite, cellColor, st.Opacity))

	barW := int(float64(b.Dx()-2*padding) * st.Opacity)
	draw.Draw(cell, image.Rect(padding, b.Dy()-padding-barHeight, padding+barW, b.Dy()-padding), image.NewUniform(barColor), image.Point{}, draw.Src)
}

func drawString(dst draw.Image, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// fade blends fg over bg at the given opacity
func fade(fg, bg color.RGBA, opacity float64) color.RGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(b) + (float64(a)-float64(b))*opacity + 0.5)
	}
	return color.RGBA{R: mix(fg.R, bg.R), G: mix(fg.G, bg.G), B: mix(fg.B, bg.B), A: 255}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// Title formats the default header line
func Title(page string, lang timeline.Language, vp timeline.Viewport) string {
	return fmt.Sprintf("%s / %s / %s", page, lang, vp)
}

func WritePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
