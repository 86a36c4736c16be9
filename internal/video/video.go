package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/ivlev/overlaycue/internal/config"
)

// Burner probes source clips and burns an overlay filter into them
type Burner interface {
	Probe(ctx context.Context, path string) (float64, error)
	Burn(ctx context.Context, input, output, filter string, params config.OverlayParams) error
}

type FFmpegBurner struct {
	Encoder string // h264_videotoolbox, h264_nvenc or libx264
	Quality int
}

func NewFFmpegBurner(encoder string, quality int) *FFmpegBurner {
	if encoder == "" {
		encoder = "libx264"
	}
	return &FFmpegBurner{Encoder: encoder, Quality: quality}
}

func (b *FFmpegBurner) Burn(ctx context.Context, input, output, filter string, params config.OverlayParams) error {
	args := b.BuildArgs(input, output, filter, params)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg burn error: %w, output: %s", err, tail(string(out), 2000))
	}
	return nil
}

// BuildArgs returns the ffmpeg arguments for one burn
func (b *FFmpegBurner) BuildArgs(input, output, filter string, params config.OverlayParams) []string {
	kw := ffmpeg.KwArgs{
		"vf":      filter,
		"pix_fmt": "yuv420p",
		"c:v":     b.Encoder,
		"c:a":     "copy",
	}
	if params.FPS > 0 {
		kw["r"] = strconv.Itoa(params.FPS)
	}
	if params.Duration > 0 {
		kw["t"] = fmt.Sprintf("%f", params.Duration)
	}

	// Качество в зависимости от энкодера
	for k, v := range qualityArgs(b.Encoder, b.Quality) {
		kw[k] = v
	}

	return ffmpeg.Input(input).Output(output, kw).OverWriteOutput().GetArgs()
}

func qualityArgs(encoder string, quality int) ffmpeg.KwArgs {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox не везде поддерживает -q:v, используем битрейт
		return ffmpeg.KwArgs{"b:v": fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return ffmpeg.KwArgs{"cq": strconv.Itoa(quality)}
	default: // libx264
		return ffmpeg.KwArgs{"crf": strconv.Itoa(quality), "preset": "medium"}
	}
}

// Probe returns the container duration in seconds
func (b *FFmpegBurner) Probe(ctx context.Context, path string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return ParseProbeDuration(out)
}

// ParseProbeDuration extracts format.duration from ffprobe JSON output
func ParseProbeDuration(probeJSON string) (float64, error) {
	var info struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(probeJSON), &info); err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if info.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe output has no duration")
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(info.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", info.Format.Duration, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("non-positive duration %v", d)
	}
	return d, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
