package downloader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/juliakriv0137/video-analysis-system/internal/logging"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Downloader fetches videos from remote URLs via yt-dlp
type Downloader struct {
	ytdlpPath string
	log       *logging.Logger
}

// New creates a new Downloader instance
func New(ytdlpPath string, log *logging.Logger) *Downloader {
	return &Downloader{
		ytdlpPath: ytdlpPath,
		log:       log,
	}
}

// Download fetches the video at url into destDir and returns the local path.
// Download failures are fatal to the run: there is nothing to analyze
// without the file.
func (d *Downloader) Download(ctx context.Context, url, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	args := []string{
		"--format", "best",
		"--output", filepath.Join(destDir, "video.%(ext)s"),
		"--no-warnings",
		"--no-check-certificates",
		"--add-header", "User-Agent:" + userAgent,
		"--no-simulate",
		"--print", "after_move:filepath",
		url,
	}

	d.log.Infof("Downloading video from %s", url)

	cmd := exec.CommandContext(ctx, d.ytdlpPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp download failed: %w, stderr: %s", err, stderr.String())
	}

	videoPath := strings.TrimSpace(stdout.String())
	if videoPath == "" {
		return "", fmt.Errorf("yt-dlp reported no output file for %s", url)
	}
	if _, err := os.Stat(videoPath); err != nil {
		return "", fmt.Errorf("downloaded file missing at %s: %w", videoPath, err)
	}

	d.log.Infof("Video downloaded to %s", videoPath)
	return videoPath, nil
}
