package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Pipeline PipelineConfig
	Tools    ToolsConfig
	AI       AIConfig
	Storage  StorageConfig
	Publish  PublishConfig
	Logging  LoggingConfig
}

// PipelineConfig holds extraction and sampling policy
type PipelineConfig struct {
	FrameCadence   float64 // dense extraction rate in frames per second
	SceneThreshold float64 // scene-change threshold on a 0-1 scale
	MaxKeyFrames   int     // cap on key frames sent to the vision model
	WorkDir        string  // base directory for per-run scratch space
	OutputDir      string  // base directory for per-run results
}

// ToolsConfig holds paths to external binaries
type ToolsConfig struct {
	FFmpegPath    string
	FFprobePath   string
	YtDlpPath     string
	TesseractPath string
}

// AIConfig holds inference API configuration and retry policy
type AIConfig struct {
	APIKey          string
	VisionModel     string
	TranscribeModel string
	SummaryModel    string
	MaxAttempts     int
	BaseDelay       time.Duration
}

// StorageConfig holds optional object storage configuration for archives
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// PublishConfig holds credentials for source publishing
type PublishConfig struct {
	Token    string
	RepoName string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from file and environment variables. A missing
// config file is not an error; defaults plus environment variables suffice.
func Load(configPath string) (*Config, error) {
	viper.Reset()
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.AI.APIKey == "" {
		config.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if config.Publish.Token == "" {
		config.Publish.Token = os.Getenv("GITHUB_TOKEN")
	}

	return &config, nil
}

func setDefaults() {
	// Pipeline defaults
	viper.SetDefault("pipeline.frameCadence", 1.0)
	viper.SetDefault("pipeline.sceneThreshold", 0.4)
	viper.SetDefault("pipeline.maxKeyFrames", 3)
	viper.SetDefault("pipeline.workDir", "temp")
	viper.SetDefault("pipeline.outputDir", "output")

	// Tool defaults
	viper.SetDefault("tools.ffmpegPath", "ffmpeg")
	viper.SetDefault("tools.ffprobePath", "ffprobe")
	viper.SetDefault("tools.ytDlpPath", "yt-dlp")
	viper.SetDefault("tools.tesseractPath", "tesseract")

	// AI defaults
	viper.SetDefault("ai.visionModel", "gpt-4o")
	viper.SetDefault("ai.transcribeModel", "whisper-1")
	viper.SetDefault("ai.summaryModel", "gpt-4o")
	viper.SetDefault("ai.maxAttempts", 3)
	viper.SetDefault("ai.baseDelay", "5s")

	// Storage defaults
	viper.SetDefault("storage.enabled", false)
	viper.SetDefault("storage.endpoint", "localhost:9000")
	viper.SetDefault("storage.accessKeyID", "minioadmin")
	viper.SetDefault("storage.secretAccessKey", "minioadmin")
	viper.SetDefault("storage.bucketName", "video-analysis")
	viper.SetDefault("storage.region", "us-east-1")
	viper.SetDefault("storage.useSSL", false)

	// Publish defaults
	viper.SetDefault("publish.repoName", "video-analysis-system")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}
