package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/juliakriv0137/video-analysis-system/internal/logging"
	"github.com/juliakriv0137/video-analysis-system/pkg/models"
)

// keyFrameSourceRate is the frame rate assumed when converting a key frame's
// embedded presentation number into seconds. The extraction pass numbers
// output files by source PTS, so this holds only for constant-rate sources.
// TODO: read the video stream's real time base from the probe result once
// the required timestamp accuracy is settled.
const keyFrameSourceRate = 30.0

// Extractor wraps FFmpeg and FFprobe operations on a downloaded video
type Extractor struct {
	ffmpegPath  string
	ffprobePath string
	log         *logging.Logger
}

// NewExtractor creates a new Extractor instance
func NewExtractor(ffmpegPath, ffprobePath string, log *logging.Logger) *Extractor {
	return &Extractor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		log:         log,
	}
}

// probeOutput mirrors the ffprobe JSON document
type probeOutput struct {
	Format  formatInfo   `json:"format"`
	Streams []streamInfo `json:"streams"`
}

type formatInfo struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type streamInfo struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// ProbeMetadata extracts container metadata from a video file. Metadata is
// best-effort: any failure yields the unknown sentinel, never an error.
func (e *Extractor) ProbeMetadata(ctx context.Context, inputPath string) models.VideoMetadata {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	}

	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		e.log.Warnf("ffprobe failed, continuing without metadata: %v, stderr: %s", err, stderr.String())
		return models.UnknownMetadata()
	}

	var probe probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &probe); err != nil {
		e.log.Warnf("failed to parse ffprobe output, continuing without metadata: %v", err)
		return models.UnknownMetadata()
	}

	meta := models.UnknownMetadata()
	if probe.Format.FormatName != "" {
		meta.Format = probe.Format.FormatName
	}
	if duration, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		meta.Duration = duration
	}
	for _, stream := range probe.Streams {
		if stream.CodecType == "video" {
			meta.Resolution = fmt.Sprintf("%dx%d", stream.Width, stream.Height)
			break
		}
	}

	return meta
}

// FrameTimestamp derives a frame's timestamp from its sequence position and
// the extraction rate. Pure function of its arguments: the same index and
// rate always produce the same timestamp.
func FrameTimestamp(index int, rateHz float64) float64 {
	if rateHz <= 0 {
		return 0
	}
	ts := float64(index) / rateHz
	if ts < 0 {
		return 0
	}
	return ts
}

// ExtractDenseFrames samples the video at a fixed rate into outputDir as
// frame_0001.jpg, frame_0002.jpg, ... An empty result is valid (zero-length
// video); an ffmpeg failure is fatal to the run.
func (e *Extractor) ExtractDenseFrames(ctx context.Context, inputPath, outputDir string, cadenceHz float64) ([]models.Frame, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create frames directory: %w", err)
	}

	args := []string{
		"-i", inputPath,
		"-vf", fmt.Sprintf("fps=%g", cadenceHz),
		"-vsync", "0",
		filepath.Join(outputDir, "frame_%04d.jpg"),
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame extraction failed: %w, stderr: %s", err, stderr.String())
	}

	names, err := listFrameFiles(outputDir)
	if err != nil {
		return nil, err
	}

	frames := make([]models.Frame, 0, len(names))
	for i, name := range names {
		frames = append(frames, models.Frame{
			Path:      filepath.Join(outputDir, name),
			Filename:  name,
			Timestamp: FrameTimestamp(i, cadenceHz),
			Index:     i,
		})
	}

	return frames, nil
}

// ExtractKeyFrames extracts scene-change frames above the given threshold
// into outputDir and keeps the first maxCount in temporal order. Truncating
// in capture order, not by any importance score, bounds the number of
// expensive vision calls for arbitrarily long videos.
func (e *Extractor) ExtractKeyFrames(ctx context.Context, inputPath, outputDir string, threshold float64, maxCount int) ([]models.Frame, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create key frames directory: %w", err)
	}

	args := []string{
		"-i", inputPath,
		"-vf", fmt.Sprintf("select=gt(scene\\,%g)", threshold),
		"-vsync", "0",
		"-frame_pts", "1",
		filepath.Join(outputDir, "frame_%d.jpg"),
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg key frame extraction failed: %w, stderr: %s", err, stderr.String())
	}

	names, err := listFrameFiles(outputDir)
	if err != nil {
		return nil, err
	}

	frames := make([]models.Frame, 0, maxCount)
	for i, c := range selectKeyFrames(names, maxCount) {
		frames = append(frames, models.Frame{
			Path:      filepath.Join(outputDir, c.name),
			Filename:  c.name,
			Timestamp: FrameTimestamp(c.pts, keyFrameSourceRate),
			Index:     i,
		})
	}

	return frames, nil
}

// keyFrameCandidate is one extracted scene-change frame; pts is the source
// frame number embedded in the filename by frame_pts numbering.
type keyFrameCandidate struct {
	name string
	pts  int
}

// selectKeyFrames orders candidate filenames by their embedded frame number
// and keeps the first maxCount in temporal order. Names without a parseable
// number are skipped. The result never exceeds maxCount, whatever the
// scene-change density produced.
func selectKeyFrames(names []string, maxCount int) []keyFrameCandidate {
	if maxCount <= 0 {
		return nil
	}

	order := make([]keyFrameCandidate, 0, len(names))
	for _, name := range names {
		pts, ok := frameNumber(name)
		if !ok {
			continue
		}
		order = append(order, keyFrameCandidate{name: name, pts: pts})
	}
	sort.Slice(order, func(i, j int) bool { return order[i].pts < order[j].pts })

	if len(order) > maxCount {
		order = order[:maxCount]
	}
	return order
}

// ExtractAudio downmixes the video's audio to a mono 16 kHz wav suitable for
// the transcription endpoint and returns its path.
func (e *Extractor) ExtractAudio(ctx context.Context, inputPath, outputDir string) (string, error) {
	audioPath := filepath.Join(outputDir, "audio.wav")

	args := []string{
		"-i", inputPath,
		"-ac", "1",
		"-ar", "16000",
		"-y",
		audioPath,
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg audio extraction failed: %w, stderr: %s", err, stderr.String())
	}

	return audioPath, nil
}

// listFrameFiles returns the frame_*.jpg names in dir ordered by their
// embedded frame number. Lexical order is not enough: once ffmpeg rolls past
// the pad width, frame_10000.jpg would sort before frame_2000.jpg and corrupt
// the derived timestamps.
func listFrameFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frames directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "frame_") && strings.HasSuffix(strings.ToLower(name), ".jpg") {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		ni, iok := frameNumber(names[i])
		nj, jok := frameNumber(names[j])
		if iok && jok {
			return ni < nj
		}
		return names[i] < names[j]
	})

	return names, nil
}

// frameNumber parses the numeric part of a frame_<n>.jpg filename
func frameNumber(name string) (int, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
