package downloader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliakriv0137/video-analysis-system/internal/logging"
)

func TestDownloadMissingBinary(t *testing.T) {
	d := New("definitely-not-a-real-yt-dlp", logging.NewNop())

	_, err := d.Download(context.Background(), "https://example.com/video", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "yt-dlp download failed")
}

func TestDownloadCancelledContext(t *testing.T) {
	d := New("definitely-not-a-real-yt-dlp", logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Download(ctx, "https://example.com/video", t.TempDir())
	assert.Error(t, err)
}
