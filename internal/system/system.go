package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

// RaiseFileLimit lifts the soft RLIMIT_NOFILE towards want, capped by the
// hard limit, and returns the limit now in effect.
func RaiseFileLimit(want uint64) (uint64, error) {
	var lim syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &lim); err != nil {
		return 0, fmt.Errorf("getrlimit: %w", err)
	}
	if lim.Cur >= want {
		return lim.Cur, nil
	}
	lim.Cur = min(want, lim.Max)
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &lim); err != nil {
		return 0, fmt.Errorf("setrlimit %d: %w", lim.Cur, err)
	}
	return lim.Cur, nil
}

var videoExtensions = []string{".mp4", ".mov", ".webm", ".mkv", ".m4v"}

// FindLatestVideo returns the most recently modified video clip in dir
func FindLatestVideo(dir string) (string, error) {
	latest, err := findLatest(dir, videoExtensions)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return "", fmt.Errorf("в папке %s не найдено видео-файлов", dir)
	}
	return latest, nil
}

func findLatest(dir string, extensions []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), extensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}
	return latestFile, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

var (
	encodersOnce sync.Once
	encodersOut  string
	filtersOnce  sync.Once
	filtersOut   string
)

func ffmpegList(flag string) string {
	out, err := exec.Command("ffmpeg", "-hide_banner", flag).CombinedOutput()
	if err != nil {
		return ""
	}
	return string(out)
}

// BestH264Encoder prefers hardware encoders and falls back to libx264.
// The encoder list is read from ffmpeg once per process.
func BestH264Encoder() string {
	encodersOnce.Do(func() { encodersOut = ffmpegList("-encoders") })
	return pickEncoder(encodersOut)
}

// VideoToolbox, then NVENC
var hardwareEncoders = []string{"h264_videotoolbox", "h264_nvenc"}

func pickEncoder(encoderList string) string {
	for _, name := range hardwareEncoders {
		if strings.Contains(encoderList, name) {
			return name
		}
	}
	return "libx264"
}

// CheckFilterSupport reports whether the local ffmpeg build has the filter
func CheckFilterSupport(name string) bool {
	filtersOnce.Do(func() { filtersOut = ffmpegList("-filters") })
	for _, line := range strings.Split(filtersOut, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == name {
			return true
		}
	}
	return false
}
