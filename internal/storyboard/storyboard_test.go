package storyboard

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/overlaycue/internal/content"
	"github.com/ivlev/overlaycue/internal/renderer"
	"github.com/ivlev/overlaycue/internal/timeline"
)

func aboutFrames(t *testing.T, step float64) []renderer.Frame {
	t.Helper()
	catalogs, err := content.Defaults()
	require.NoError(t, err)
	page, err := timeline.DefaultSchedule().Page(timeline.PageAbout)
	require.NoError(t, err)
	lookup, err := catalogs[page.Name].ForLanguage(timeline.English)
	require.NoError(t, err)
	table, err := timeline.BuildPanelTable(timeline.English, page.Panels, lookup)
	require.NoError(t, err)
	frames, err := renderer.SampleEvery(table, timeline.Standard, step, 80)
	require.NoError(t, err)
	return frames
}

func TestRenderLayout(t *testing.T) {
	frames := aboutFrames(t, 4) // 20 frames
	opts := Options{
		Title:     Title(timeline.PageAbout, timeline.English, timeline.Standard),
		Columns:   6,
		CellWidth: 160,
		AssetURL:  "https://example.org/about-hero.mp4",
	}

	img, err := Render(context.Background(), frames, opts)
	require.NoError(t, err)

	cellH := 160 * 9 / 16
	wantW := 6*(160+padding) + padding
	wantH := headerHeight + 4*(cellH+padding) + padding
	assert.Equal(t, image.Rect(0, 0, wantW, wantH), img.Bounds())

	// The opacity bar of a fully opaque cell is painted; t=4 is the heading hold
	x := padding + 1*(160+padding) + padding + 1
	y := headerHeight + padding + cellH - padding - barHeight/2
	assert.Equal(t, barColor, img.RGBAAt(x, y))

	// The QR code (light quiet zone) sits at the right edge of the dark header
	qrX := wantW - qrSize - padding
	var light int
	for yy := (headerHeight - qrSize) / 2; yy < (headerHeight+qrSize)/2; yy++ {
		for xx := qrX; xx < qrX+qrSize; xx++ {
			if img.RGBAAt(xx, yy).R > 200 {
				light++
			}
		}
	}
	assert.Greater(t, light, 0, "QR code not drawn")
}

func TestRenderInactiveCellHasNoBar(t *testing.T) {
	frames := aboutFrames(t, 4)
	img, err := Render(context.Background(), frames[:1], Options{Columns: 1, CellWidth: 160})
	require.NoError(t, err)

	// t=0 precedes every panel
	cellH := 160 * 9 / 16
	y := headerHeight + padding + cellH - padding - barHeight/2
	assert.Equal(t, cellColor, img.RGBAAt(2*padding, y))
}

func TestRenderErrors(t *testing.T) {
	frames := aboutFrames(t, 10)

	_, err := Render(context.Background(), nil, Options{Columns: 6, CellWidth: 160})
	assert.Error(t, err)
	_, err = Render(context.Background(), frames, Options{Columns: 0, CellWidth: 160})
	assert.Error(t, err)
	_, err = Render(context.Background(), frames, Options{Columns: 6, CellWidth: 10})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Render(ctx, frames, Options{Columns: 6, CellWidth: 160})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWritePNG(t *testing.T) {
	img, err := Render(context.Background(), aboutFrames(t, 10), Options{Columns: 4, CellWidth: 96})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "storyboard.png")
	require.NoError(t, WritePNG(img, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestFadeAndTruncate(t *testing.T) {
	white := fade(colorWhite, cellColor, 1)
	assert.Equal(t, colorWhite, white)
	assert.Equal(t, cellColor, fade(colorWhite, cellColor, 0))

	assert.Equal(t, "About", truncate("About", 10))
	assert.Equal(t, "Abo…", truncate("About me", 4))
	assert.Equal(t, "", truncate("About", 0))
}
