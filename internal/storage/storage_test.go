package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filePath string
		wantType string
	}{
		{"video_analysis.zip", "application/zip"},
		{"analysis.json", "application/json"},
		{"frame_0001.jpg", "image/jpeg"},
		{"frame_0001.jpeg", "image/jpeg"},
		{"audio.wav", "audio/wav"},
		{"video.mp4", "video/mp4"},
		{"unknown.xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filePath, func(t *testing.T) {
			assert.Equal(t, tt.wantType, getContentType(tt.filePath))
		})
	}
}
