package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/juliakriv0137/video-analysis-system/pkg/models"
)

// BuildSummaryPrompt renders the aggregated evidence into the text block the
// summary call consumes. Vision payloads that carry an error marker are left
// out: error payloads are not evidence. A payload that could not be parsed
// at all is included as its raw text.
func BuildSummaryPrompt(report *models.AnalysisReport) string {
	var b strings.Builder
	b.WriteString("Analyze the following video content to produce the JSON analysis:\n\n")

	if len(report.KeyFrames) > 0 {
		b.WriteString("Key frames:\n")
		for _, frame := range report.KeyFrames {
			fmt.Fprintf(&b, "Moment %.1fs:\n", frame.Timestamp)
			if frame.Vision.Raw != "" {
				b.WriteString(frame.Vision.Raw)
				b.WriteString("\n")
			} else if !frame.Vision.IsError() {
				if payload, err := json.MarshalIndent(frame.Vision, "", "  "); err == nil {
					b.Write(payload)
					b.WriteString("\n")
				}
			}
			if frame.OCRText != "" {
				fmt.Fprintf(&b, "Detected text: %s\n", frame.OCRText)
			}
		}
	}

	if report.Audio != nil {
		fmt.Fprintf(&b, "\nAudio content:\n%s\n", report.Audio.Transcription)
		if report.Audio.MusicDetection.HasMusic {
			b.WriteString("Music was detected in the video.\n")
		}
	}

	return b.String()
}
