package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/juliakriv0137/video-analysis-system/internal/ai"
	"github.com/juliakriv0137/video-analysis-system/internal/config"
	"github.com/juliakriv0137/video-analysis-system/internal/downloader"
	"github.com/juliakriv0137/video-analysis-system/internal/logging"
	"github.com/juliakriv0137/video-analysis-system/internal/media"
	"github.com/juliakriv0137/video-analysis-system/internal/ocr"
	"github.com/juliakriv0137/video-analysis-system/internal/pipeline"
	"github.com/juliakriv0137/video-analysis-system/internal/publish"
	"github.com/juliakriv0137/video-analysis-system/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	publishResults := flag.Bool("publish", false, "publish the results archive to GitHub")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	url := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})

	client, err := ai.NewClient(cfg.AI, log.WithStage("inference"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize inference client: %v\n", err)
		os.Exit(1)
	}

	p := pipeline.New(
		cfg.Pipeline,
		downloader.New(cfg.Tools.YtDlpPath, log.WithStage("download")),
		media.NewExtractor(cfg.Tools.FFmpegPath, cfg.Tools.FFprobePath, log.WithStage("extraction")),
		ocr.New(cfg.Tools.TesseractPath, log.WithStage("ocr")),
		client,
		pipeline.StubMusicDetector{},
		log,
		os.Stdout,
	)

	// Handle shutdown gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := p.Run(ctx, url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nAnalysis complete. Archive: %s\n", result.ArchivePath)

	if cfg.Storage.Enabled {
		uploadArchive(ctx, cfg, result.ArchivePath, log)
	}

	if *publishResults {
		publishArchive(ctx, cfg, result.ArchivePath, log)
	}
}

// uploadArchive pushes the archive to object storage. Failure is logged,
// not fatal: the local archive already exists.
func uploadArchive(ctx context.Context, cfg *config.Config, archivePath string, log *logging.Logger) {
	stor, err := storage.New(cfg.Storage)
	if err != nil {
		log.Warnf("storage upload skipped: %v", err)
		return
	}

	objectName := filepath.Base(filepath.Dir(archivePath)) + "/" + filepath.Base(archivePath)
	if err := stor.UploadFile(ctx, objectName, archivePath); err != nil {
		log.Warnf("storage upload failed: %v", err)
		return
	}

	fmt.Printf("Archive uploaded to storage as %s\n", objectName)
}

// publishArchive pushes the archive to a fresh GitHub repository. Failure
// is logged, not fatal.
func publishArchive(ctx context.Context, cfg *config.Config, archivePath string, log *logging.Logger) {
	publisher, err := publish.NewPublisher(cfg.Publish.Token, log)
	if err != nil {
		log.Warnf("publishing skipped: %v", err)
		return
	}

	repoURL, err := publisher.Publish(ctx, cfg.Publish.RepoName, []string{archivePath})
	if err != nil {
		log.Warnf("publishing failed: %v", err)
		return
	}

	fmt.Printf("Results published at: %s\n", repoURL)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <video-url>\n\nFlags:\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}
