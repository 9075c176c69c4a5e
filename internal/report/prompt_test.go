package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juliakriv0137/video-analysis-system/pkg/models"
)

func TestBuildSummaryPromptIncludesEvidence(t *testing.T) {
	report := &models.AnalysisReport{
		KeyFrames: []models.FrameAnalysis{
			{
				Timestamp: 2.5,
				OCRText:   "STOP",
				Vision: models.VisionAnalysis{
					SceneDescription: "a street intersection",
					Mood:             "busy",
				},
			},
		},
		Audio: &models.AudioAnalysis{
			Transcription:  "Watch out for the traffic.",
			MusicDetection: models.MusicDetection{HasMusic: true},
		},
	}

	prompt := BuildSummaryPrompt(report)

	assert.Contains(t, prompt, "Moment 2.5s:")
	assert.Contains(t, prompt, "a street intersection")
	assert.Contains(t, prompt, "Detected text: STOP")
	assert.Contains(t, prompt, "Watch out for the traffic.")
	assert.Contains(t, prompt, "Music was detected in the video.")
}

func TestBuildSummaryPromptExcludesErrorPayloads(t *testing.T) {
	report := &models.AnalysisReport{
		KeyFrames: []models.FrameAnalysis{
			{
				Timestamp: 0,
				Vision: models.VisionAnalysis{
					Error:   "API quota exceeded",
					Message: "insufficient API quota to analyze the frame",
				},
			},
		},
	}

	prompt := BuildSummaryPrompt(report)

	assert.Contains(t, prompt, "Moment 0.0s:")
	assert.NotContains(t, prompt, "API quota exceeded")
	assert.NotContains(t, prompt, "insufficient API quota")
}

func TestBuildSummaryPromptKeepsRawPayloads(t *testing.T) {
	report := &models.AnalysisReport{
		KeyFrames: []models.FrameAnalysis{
			{
				Timestamp: 1,
				Vision:    models.VisionAnalysis{Raw: "The frame shows a sunset over water."},
			},
		},
	}

	prompt := BuildSummaryPrompt(report)

	assert.Contains(t, prompt, "The frame shows a sunset over water.")
}

func TestBuildSummaryPromptNoMusicLineWithoutMusic(t *testing.T) {
	report := &models.AnalysisReport{
		Audio: &models.AudioAnalysis{
			Transcription:  "plain speech",
			MusicDetection: models.MusicDetection{HasMusic: false},
		},
	}

	prompt := BuildSummaryPrompt(report)

	assert.Contains(t, prompt, "plain speech")
	assert.NotContains(t, prompt, "Music was detected")
}
