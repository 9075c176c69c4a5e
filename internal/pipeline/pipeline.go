package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/juliakriv0137/video-analysis-system/internal/config"
	"github.com/juliakriv0137/video-analysis-system/internal/logging"
	"github.com/juliakriv0137/video-analysis-system/internal/report"
	"github.com/juliakriv0137/video-analysis-system/pkg/models"
)

// Downloader fetches a remote video into a local directory
type Downloader interface {
	Download(ctx context.Context, url, destDir string) (string, error)
}

// Extractor produces frames, audio, and metadata from a local video file
type Extractor interface {
	ProbeMetadata(ctx context.Context, videoPath string) models.VideoMetadata
	ExtractDenseFrames(ctx context.Context, videoPath, outputDir string, cadenceHz float64) ([]models.Frame, error)
	ExtractKeyFrames(ctx context.Context, videoPath, outputDir string, threshold float64, maxCount int) ([]models.Frame, error)
	ExtractAudio(ctx context.Context, videoPath, outputDir string) (string, error)
}

// OCREngine extracts text from a frame image, best-effort
type OCREngine interface {
	Recognize(ctx context.Context, imagePath string) string
}

// Analyzer runs the external inference API calls
type Analyzer interface {
	AnalyzeImage(ctx context.Context, imagePath string) models.VisionAnalysis
	Transcribe(ctx context.Context, audioPath string) string
	GenerateSummary(ctx context.Context, evidence string) models.Summary
}

// MusicDetector reports music segments in an audio track
type MusicDetector interface {
	Detect(audioPath string) models.MusicDetection
}

// Result holds everything a completed run produced
type Result struct {
	Report      *models.AnalysisReport
	Metadata    models.VideoMetadata
	FramesDir   string
	ArchivePath string
}

// Pipeline runs the fixed video-to-evidence sequence: download, probe,
// dense frames, key frames, OCR, vision, audio, transcription, music stub,
// aggregate, summarize, render, archive, cleanup. Strictly sequential: the
// aggregation stage must see every prior result, and the inference API's
// rate limits make concurrency counterproductive here.
type Pipeline struct {
	cfg      config.PipelineConfig
	download Downloader
	extract  Extractor
	ocr      OCREngine
	ai       Analyzer
	music    MusicDetector
	log      *logging.Logger
	out      io.Writer
}

// New creates a pipeline from its collaborators
func New(cfg config.PipelineConfig, download Downloader, extract Extractor, ocr OCREngine, ai Analyzer, music MusicDetector, log *logging.Logger, out io.Writer) *Pipeline {
	if out == nil {
		out = os.Stdout
	}
	return &Pipeline{
		cfg:      cfg,
		download: download,
		extract:  extract,
		ocr:      ocr,
		ai:       ai,
		music:    music,
		log:      log,
		out:      out,
	}
}

// Run analyzes the video at url and returns the assembled report and
// archive path. Only fatal-to-run failures (download, extraction) surface
// as errors; per-artifact analysis failures degrade in place and the report
// always carries a summary once aggregation is reached.
func (p *Pipeline) Run(ctx context.Context, url string) (*Result, error) {
	// Per-run unique directories: one run exclusively owns its scratch
	// space, so concurrent runs can never share or clobber it.
	runID := uuid.NewString()
	workDir := filepath.Join(p.cfg.WorkDir, runID)
	outputDir := filepath.Join(p.cfg.OutputDir, time.Now().Format("20060102_150405")+"_"+runID[:8])

	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	lock := flock.New(workDir + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock working directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("working directory %s is owned by another run", workDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			p.log.Warnf("failed to unlock working directory: %v", err)
		}
		p.cleanup(workDir)
	}()

	fmt.Fprintln(p.out, "\nDownloading video...")
	videoPath, err := p.download.Download(ctx, url, workDir)
	if err != nil {
		return nil, fmt.Errorf("video download failed: %w", err)
	}
	fmt.Fprintln(p.out, "Video downloaded")
	p.log.LogStage("download", map[string]interface{}{"path": videoPath})

	meta := p.extract.ProbeMetadata(ctx, videoPath)
	fmt.Fprintln(p.out, "\nVideo information:")
	fmt.Fprintf(p.out, "Duration: %g seconds\n", meta.Duration)
	fmt.Fprintf(p.out, "Resolution: %s\n", meta.Resolution)
	fmt.Fprintf(p.out, "Format: %s\n", meta.Format)

	fmt.Fprintln(p.out, "\nSaving all frames...")
	framesDir := filepath.Join(outputDir, "all_frames")
	allFrames, err := p.extract.ExtractDenseFrames(ctx, videoPath, framesDir, p.cfg.FrameCadence)
	if err != nil {
		return nil, fmt.Errorf("dense frame extraction failed: %w", err)
	}
	fmt.Fprintf(p.out, "Saved %d frames to %s\n", len(allFrames), framesDir)

	fmt.Fprintln(p.out, "\nExtracting key frames for analysis...")
	keyFrames, err := p.extract.ExtractKeyFrames(ctx, videoPath, filepath.Join(workDir, "key_frames"), p.cfg.SceneThreshold, p.cfg.MaxKeyFrames)
	if err != nil {
		return nil, fmt.Errorf("key frame extraction failed: %w", err)
	}
	fmt.Fprintf(p.out, "Extracted %d key frames\n", len(keyFrames))
	p.log.LogStage("extraction", map[string]interface{}{
		"all_frames": len(allFrames),
		"key_frames": len(keyFrames),
	})

	analysis := &models.AnalysisReport{
		KeyFrames: []models.FrameAnalysis{},
		AllFrames: []models.FrameIndexEntry{},
	}

	fmt.Fprintln(p.out, "\nAnalyzing all frames to build the chronology...")
	for _, frame := range allFrames {
		analysis.AllFrames = append(analysis.AllFrames, models.FrameIndexEntry{
			Timestamp: frame.Timestamp,
			Filename:  frame.Filename,
			OCRText:   p.ocr.Recognize(ctx, frame.Path),
		})
	}

	for i, frame := range keyFrames {
		fmt.Fprintf(p.out, "\nDetailed analysis of key frame %d/%d...\n", i+1, len(keyFrames))
		analysis.KeyFrames = append(analysis.KeyFrames, models.FrameAnalysis{
			Timestamp: frame.Timestamp,
			OCRText:   p.ocr.Recognize(ctx, frame.Path),
			Vision:    p.ai.AnalyzeImage(ctx, frame.Path),
		})
		fmt.Fprintf(p.out, "Key frame %d analyzed\n", i+1)
	}

	fmt.Fprintln(p.out, "\nAnalyzing audio...")
	audioPath, err := p.extract.ExtractAudio(ctx, videoPath, workDir)
	if err != nil {
		return nil, fmt.Errorf("audio extraction failed: %w", err)
	}
	analysis.Audio = &models.AudioAnalysis{
		Transcription:  p.ai.Transcribe(ctx, audioPath),
		MusicDetection: p.music.Detect(audioPath),
	}
	fmt.Fprintln(p.out, "Audio analyzed")

	fmt.Fprintln(p.out, "\nGenerating the detailed summary...")
	summary := p.ai.GenerateSummary(ctx, report.BuildSummaryPrompt(analysis))
	analysis.Summary = &summary
	fmt.Fprintln(p.out, "Summary generated")

	report.Render(p.out, analysis)

	fmt.Fprintln(p.out, "\nCreating the results archive...")
	archivePath, err := report.BuildArchive(analysis, meta, framesDir, outputDir)
	if err != nil {
		return nil, fmt.Errorf("archive creation failed: %w", err)
	}
	fmt.Fprintf(p.out, "Archive created: %s\n", archivePath)
	p.log.LogStage("archive", map[string]interface{}{"path": archivePath})

	return &Result{
		Report:      analysis,
		Metadata:    meta,
		FramesDir:   framesDir,
		ArchivePath: archivePath,
	}, nil
}

// cleanup removes the run's scratch directory and its lock file
func (p *Pipeline) cleanup(workDir string) {
	if err := os.RemoveAll(workDir); err != nil {
		p.log.Warnf("failed to remove working directory %s: %v", workDir, err)
	}
	if err := os.Remove(workDir + ".lock"); err != nil && !os.IsNotExist(err) {
		p.log.Warnf("failed to remove lock file: %v", err)
	}
}
