package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/juliakriv0137/video-analysis-system/pkg/models"
)

const notSpecified = "Not specified"

// Render writes the human-readable analysis report. A successful summary
// maps every field to a labeled section; missing optional sub-fields render
// as an explicit placeholder rather than being omitted. An error-shaped
// summary takes a distinct branch.
func Render(w io.Writer, report *models.AnalysisReport) {
	fmt.Fprintln(w, "\n=== DETAILED VIDEO ANALYSIS ===")

	summary := report.Summary
	if summary == nil {
		fmt.Fprintln(w, "\nSummary unavailable")
		return
	}
	if summary.IsError() {
		fmt.Fprintln(w, "\nSummary generation failed:")
		if payload, err := json.MarshalIndent(summary, "", "  "); err == nil {
			fmt.Fprintln(w, string(payload))
		} else {
			fmt.Fprintf(w, "%s: %s\n", summary.Error, summary.Message)
		}
		return
	}

	fmt.Fprintln(w, "\nGENERAL INFORMATION:")
	fmt.Fprintf(w, "Title: %s\n", orPlaceholder(summary.Title))
	fmt.Fprintf(w, "Duration: %s\n", orPlaceholder(summary.Duration))
	fmt.Fprintf(w, "Overall mood: %s\n", orPlaceholder(summary.OverallMood))
	fmt.Fprintf(w, "Purpose: %s\n", orPlaceholder(summary.Purpose))

	fmt.Fprintln(w, "\nTECHNICAL ASPECTS:")
	fmt.Fprintf(w, "Video quality: %s\n", orPlaceholder(summary.TechnicalAspects.VideoQuality))
	fmt.Fprintf(w, "Lighting: %s\n", orPlaceholder(summary.TechnicalAspects.Lighting))
	fmt.Fprintf(w, "Camera work: %s\n", orPlaceholder(summary.TechnicalAspects.CameraWork))

	fmt.Fprintln(w, "\nMAIN ELEMENTS:")
	fmt.Fprintf(w, "Characters: %s\n", joinOrPlaceholder(summary.MainElements.Characters))
	fmt.Fprintf(w, "Objects: %s\n", joinOrPlaceholder(summary.MainElements.Objects))
	fmt.Fprintf(w, "Locations: %s\n", joinOrPlaceholder(summary.MainElements.Locations))
	fmt.Fprintf(w, "Actions: %s\n", joinOrPlaceholder(summary.MainElements.Actions))

	fmt.Fprintln(w, "\nCHRONOLOGY OF EVENTS:")
	for _, event := range summary.ChronologicalEvents {
		fmt.Fprintf(w, "%s: %s\n", event.Timestamp, event.Description)
	}

	fmt.Fprintln(w, "\nAUDIO ANALYSIS:")
	fmt.Fprintf(w, "Speech: %s\n", orPlaceholder(summary.AudioAnalysis.SpeechContent))
	fmt.Fprintf(w, "Background sounds: %s\n", orPlaceholder(summary.AudioAnalysis.BackgroundSounds))
	fmt.Fprintf(w, "Music: %s\n", orPlaceholder(summary.AudioAnalysis.Music))

	fmt.Fprintln(w, "\nDETAILED SUMMARY:")
	fmt.Fprintln(w, orPlaceholder(summary.DetailedSummary))
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

func joinOrPlaceholder(items []string) string {
	if len(items) == 0 {
		return notSpecified
	}
	return strings.Join(items, ", ")
}
