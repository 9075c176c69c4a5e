package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/juliakriv0137/video-analysis-system/internal/config"
	"github.com/juliakriv0137/video-analysis-system/internal/logging"
	"github.com/juliakriv0137/video-analysis-system/pkg/models"
)

const visionPrompt = `Analyze this frame from a video and return the result as JSON with the following fields:
{
    "scene_description": "description of the scene",
    "main_objects": ["list of the main objects"],
    "actions": ["list of actions"],
    "detected_text": "any visible text",
    "mood": "mood of the scene"
}`

const summarySystemPrompt = `Create a detailed video analysis as JSON with the following structure:
{
    "title": "short title or topic of the video",
    "duration": "approximate duration of the video",
    "chronological_events": [
        {
            "timestamp": "time marker",
            "description": "description of the event"
        }
    ],
    "main_elements": {
        "characters": ["people or characters in the video"],
        "objects": ["key objects"],
        "locations": ["locations"],
        "actions": ["main actions"]
    },
    "audio_analysis": {
        "speech_content": "content of the speech",
        "background_sounds": "background sounds",
        "music": "description of the music, if any"
    },
    "technical_aspects": {
        "video_quality": "video quality",
        "lighting": "lighting",
        "camera_work": "camera work"
    },
    "overall_mood": "overall mood",
    "purpose": "presumed purpose of the video",
    "detailed_summary": "detailed textual description of everything happening in the video"
}`

// Client wraps the inference API for vision analysis, transcription, and
// summary generation. Every call goes through the retry adapter.
type Client struct {
	api             openai.Client
	policy          RetryPolicy
	visionModel     string
	transcribeModel string
	summaryModel    string
	log             *logging.Logger
}

// NewClient creates a new inference API client
func NewClient(cfg config.AIConfig, log *logging.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("inference API key is required (set OPENAI_API_KEY)")
	}

	policy := RetryPolicy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
	}
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}

	return &Client{
		api:             openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		policy:          policy,
		visionModel:     cfg.VisionModel,
		transcribeModel: cfg.TranscribeModel,
		summaryModel:    cfg.SummaryModel,
		log:             log,
	}, nil
}

// AnalyzeImage runs the vision model over one key frame. The result is
// always a payload: quota exhaustion and terminal failures come back
// error-shaped so one frame's failure never stops the batch.
func (c *Client) AnalyzeImage(ctx context.Context, imagePath string) models.VisionAnalysis {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return models.VisionAnalysis{
			Error:            "Analysis failed",
			Message:          "could not read frame image",
			TechnicalDetails: err.Error(),
		}
	}
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)

	var content string
	err = c.call(ctx, "vision analysis", func(ctx context.Context) error {
		resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
					openai.TextContentPart(visionPrompt),
					openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
						URL: dataURL,
					}),
				}),
			},
			Model: c.visionModel,
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("model returned no choices")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		if IsQuotaExceeded(err) {
			return models.VisionAnalysis{
				Error:            "API quota exceeded",
				Message:          "insufficient API quota to analyze the frame",
				TechnicalDetails: err.Error(),
			}
		}
		return models.VisionAnalysis{
			Error:            "Analysis failed",
			Message:          "could not analyze the frame",
			TechnicalDetails: err.Error(),
		}
	}

	return parseVision(content)
}

// parseVision unmarshals the model output, keeping the raw text when the
// payload cannot be parsed at all
func parseVision(content string) models.VisionAnalysis {
	cleaned := cleanJSONResponse(content)

	var analysis models.VisionAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return models.VisionAnalysis{Raw: strings.TrimSpace(content)}
	}
	return analysis
}

// Transcribe runs the speech endpoint over the extracted audio track. On
// quota exhaustion or failure it returns a readable placeholder string, not
// an error: transcription is recoverable-per-artifact.
func (c *Client) Transcribe(ctx context.Context, audioPath string) string {
	f, err := os.Open(audioPath)
	if err != nil {
		c.log.Warnf("could not open audio file %s: %v", audioPath, err)
		return "Error: audio transcription failed"
	}
	defer f.Close()

	var text string
	err = c.call(ctx, "transcription", func(ctx context.Context) error {
		// rewind so a retried attempt re-sends the whole file
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		resp, err := c.api.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
			Model: c.transcribeModel,
			File:  f,
		})
		if err != nil {
			return err
		}
		text = resp.Text
		return nil
	})
	if err != nil {
		if IsQuotaExceeded(err) {
			return "Error: transcription API quota exceeded"
		}
		c.log.Warnf("transcription failed: %v", err)
		return "Error: audio transcription failed"
	}

	return text
}

// GenerateSummary runs one inference call over the rendered evidence block
// and returns the consolidated summary. It never returns an error: a failed
// call yields an error-shaped Summary so aggregation and archiving always
// complete.
func (c *Client) GenerateSummary(ctx context.Context, evidence string) models.Summary {
	var content string
	err := c.call(ctx, "summary generation", func(ctx context.Context) error {
		resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(summarySystemPrompt),
				openai.UserMessage(evidence),
			},
			Model: c.summaryModel,
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("model returned no choices")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		if IsQuotaExceeded(err) {
			return models.Summary{
				Error:            "API quota exceeded",
				Message:          "insufficient API quota to generate the summary",
				TechnicalDetails: err.Error(),
			}
		}
		return models.Summary{
			Error:            "Summary generation failed",
			Message:          "could not generate the summary",
			TechnicalDetails: err.Error(),
		}
	}

	cleaned := cleanJSONResponse(content)
	var summary models.Summary
	if err := json.Unmarshal([]byte(cleaned), &summary); err != nil {
		return models.Summary{
			Error:            "Summary generation failed",
			Message:          "could not parse the summary response",
			TechnicalDetails: err.Error(),
		}
	}

	return summary
}

// cleanJSONResponse strips markdown fences and surrounding prose from a
// model response, leaving the outermost JSON object
func cleanJSONResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}

	return strings.TrimSpace(cleaned)
}
