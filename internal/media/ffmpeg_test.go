package media

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		rateHz   float64
		expected float64
	}{
		{name: "first frame at 1 Hz", index: 0, rateHz: 1.0, expected: 0},
		{name: "tenth frame at 1 Hz", index: 9, rateHz: 1.0, expected: 9},
		{name: "third frame at 2 Hz", index: 3, rateHz: 2.0, expected: 1.5},
		{name: "frame at half rate", index: 3, rateHz: 0.5, expected: 6},
		{name: "source frame at 30 fps", index: 90, rateHz: 30.0, expected: 3},
		{name: "zero rate clamps to zero", index: 5, rateHz: 0, expected: 0},
		{name: "negative rate clamps to zero", index: 5, rateHz: -1, expected: 0},
		{name: "negative index clamps to zero", index: -2, rateHz: 1.0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FrameTimestamp(tt.index, tt.rateHz))
		})
	}
}

func TestFrameTimestampDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		first := FrameTimestamp(i, 1.0)
		second := FrameTimestamp(i, 1.0)
		assert.Equal(t, first, second, "index %d", i)
		assert.Equal(t, float64(i), first, "index %d at 1 Hz maps to its own second", i)
	}
}

func TestFrameNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		number  int
		ok      bool
	}{
		{name: "plain number", input: "frame_7.jpg", number: 7, ok: true},
		{name: "zero padded", input: "frame_0042.jpg", number: 42, ok: true},
		{name: "large pts", input: "frame_1234567.jpg", number: 1234567, ok: true},
		{name: "no separator", input: "frame.jpg", ok: false},
		{name: "non-numeric suffix", input: "frame_abc.jpg", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := frameNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.number, n)
			}
		})
	}
}

func TestSelectKeyFrames(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		maxCount int
		expected []string
	}{
		{
			name:     "no candidates",
			input:    nil,
			maxCount: 3,
			expected: nil,
		},
		{
			name:     "fewer than cap",
			input:    []string{"frame_30.jpg", "frame_150.jpg"},
			maxCount: 3,
			expected: []string{"frame_30.jpg", "frame_150.jpg"},
		},
		{
			name:     "exactly at cap",
			input:    []string{"frame_30.jpg", "frame_150.jpg", "frame_270.jpg"},
			maxCount: 3,
			expected: []string{"frame_30.jpg", "frame_150.jpg", "frame_270.jpg"},
		},
		{
			name:     "dense scene changes truncate to first in temporal order",
			input:    []string{"frame_30.jpg", "frame_60.jpg", "frame_90.jpg", "frame_120.jpg", "frame_150.jpg"},
			maxCount: 3,
			expected: []string{"frame_30.jpg", "frame_60.jpg", "frame_90.jpg"},
		},
		{
			name:     "out of order names sort by frame number before the cap",
			input:    []string{"frame_900.jpg", "frame_30.jpg", "frame_1200.jpg", "frame_60.jpg"},
			maxCount: 2,
			expected: []string{"frame_30.jpg", "frame_60.jpg"},
		},
		{
			name:     "unparseable names are skipped",
			input:    []string{"frame_abc.jpg", "frame_30.jpg"},
			maxCount: 3,
			expected: []string{"frame_30.jpg"},
		},
		{
			name:     "zero cap keeps nothing",
			input:    []string{"frame_30.jpg"},
			maxCount: 0,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected := selectKeyFrames(tt.input, tt.maxCount)

			assert.LessOrEqual(t, len(selected), tt.maxCount)
			var names []string
			for _, c := range selected {
				names = append(names, c.name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestSelectKeyFramesNeverExceedsCap(t *testing.T) {
	var names []string
	for i := 0; i < 50; i++ {
		names = append(names, fmt.Sprintf("frame_%d.jpg", i*30))
	}

	for maxCount := 0; maxCount <= 5; maxCount++ {
		selected := selectKeyFrames(names, maxCount)
		assert.Len(t, selected, maxCount, "cap %d", maxCount)
	}
}

func TestListFrameFiles(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"frame_0003.jpg", "frame_0001.jpg", "frame_0002.jpg", "audio.wav", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "frame_nested.jpg.d"), 0755))

	names, err := listFrameFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"frame_0001.jpg", "frame_0002.jpg", "frame_0003.jpg"}, names)
}

func TestListFrameFilesNumericOrderPastPadWidth(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"frame_10000.jpg", "frame_2000.jpg", "frame_9999.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	names, err := listFrameFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"frame_2000.jpg", "frame_9999.jpg", "frame_10000.jpg"}, names)
}

func TestListFrameFilesMissingDir(t *testing.T) {
	_, err := listFrameFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
