package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"strings"

	"github.com/juliakriv0137/video-analysis-system/internal/logging"
)

// Engine wraps the external tesseract binary. OCR is best-effort per frame:
// every failure degrades to an empty string so one unreadable frame never
// stops a batch.
type Engine struct {
	tesseractPath string
	log           *logging.Logger
}

// New creates a new OCR engine
func New(tesseractPath string, log *logging.Logger) *Engine {
	return &Engine{
		tesseractPath: tesseractPath,
		log:           log,
	}
}

// Recognize extracts text from the frame image at imagePath
func (e *Engine) Recognize(ctx context.Context, imagePath string) string {
	text, err := e.recognize(ctx, imagePath)
	if err != nil {
		e.log.Warnf("OCR failed for %s: %v", imagePath, err)
		return ""
	}
	return text
}

func (e *Engine) recognize(ctx context.Context, imagePath string) (string, error) {
	gray, err := grayscale(imagePath)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, e.tesseractPath, "stdin", "stdout", "-l", "eng")
	cmd.Stdin = bytes.NewReader(gray)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w, stderr: %s", err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}

// grayscale decodes the image and re-encodes it as a grayscale PNG, the
// preprocessing step the engine reads best
func grayscale(imagePath string) ([]byte, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("could not open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode image %s: %w", imagePath, err)
	}

	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, src.At(x, y))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("could not encode grayscale image: %w", err)
	}

	return buf.Bytes(), nil
}
