package report

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/juliakriv0137/video-analysis-system/pkg/models"
)

// MarshalReport serializes an AnalysisReport the way it is persisted in the
// archive. Pure function of the report: equal reports always produce
// identical bytes.
func MarshalReport(report *models.AnalysisReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize analysis report: %w", err)
	}
	return append(data, '\n'), nil
}

// BuildArchive writes the serialized report and a narrative readme next to
// the dense frame images and zips all three into one archive at
// <outputDir>/video_analysis.zip. Assembly is deterministic given its
// inputs; the generation timestamp appears only in the readme.
func BuildArchive(report *models.AnalysisReport, meta models.VideoMetadata, framesDir, outputDir string) (string, error) {
	archiveDir := filepath.Join(outputDir, "analysis_results")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	resultsPath := filepath.Join(archiveDir, "analysis.json")
	data, err := MarshalReport(report)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(resultsPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write analysis results: %w", err)
	}

	readmePath := filepath.Join(archiveDir, "README.md")
	if err := os.WriteFile(readmePath, []byte(buildReadme(report, meta, time.Now())), 0644); err != nil {
		return "", fmt.Errorf("failed to write readme: %w", err)
	}

	zipPath := filepath.Join(outputDir, "video_analysis.zip")
	if err := writeZip(zipPath, framesDir, resultsPath, readmePath); err != nil {
		return "", err
	}

	return zipPath, nil
}

// buildReadme generates the narrative readme. The timestamp is isolated
// here so analysis.json stays byte-stable across repeated runs.
func buildReadme(report *models.AnalysisReport, meta models.VideoMetadata, now time.Time) string {
	hasAudio := "No"
	hasMusic := "No"
	if report.Audio != nil {
		hasAudio = "Yes"
		if report.Audio.MusicDetection.HasMusic {
			hasMusic = "Yes"
		}
	}

	mainContent := "Analysis failed"
	if report.Summary != nil && !report.Summary.IsError() {
		mainContent = report.Summary.DetailedSummary
	}

	return fmt.Sprintf(`# Video analysis results
Analysis date: %s

## Archive layout:
- all_frames/ - every frame extracted from the video
- analysis.json - full analysis results with detailed descriptions
- README.md - this file

## Video information:
- Duration: %g seconds
- Resolution: %s
- Format: %s

## Analysis statistics:
- Extracted frames: %d
- Key frames: %d
- Audio present: %s
- Music detected: %s

## Main content:
%s
`,
		now.Format("2006-01-02 15:04:05"),
		meta.Duration,
		meta.Resolution,
		meta.Format,
		len(report.AllFrames),
		len(report.KeyFrames),
		hasAudio,
		hasMusic,
		mainContent,
	)
}

// writeZip bundles the frames directory plus the results and readme files.
// Every frame file present on disk goes in; a file that cannot be read
// fails the build rather than being dropped.
func writeZip(zipPath, framesDir, resultsPath, readmePath string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	entries, err := os.ReadDir(framesDir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read frames directory: %w", err)
	}

	var frameNames []string
	for _, entry := range entries {
		if !entry.IsDir() {
			frameNames = append(frameNames, entry.Name())
		}
	}
	sort.Strings(frameNames)

	for _, name := range frameNames {
		if err := addFile(zw, filepath.Join(framesDir, name), filepath.Join("all_frames", name)); err != nil {
			return err
		}
	}
	if err := addFile(zw, resultsPath, "analysis.json"); err != nil {
		return err
	}
	if err := addFile(zw, readmePath, "README.md"); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, srcPath, archivePath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s for archiving: %w", srcPath, err)
	}
	defer src.Close()

	w, err := zw.Create(filepath.ToSlash(archivePath))
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", archivePath, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("failed to write %s into archive: %w", archivePath, err)
	}
	return nil
}
