// Package exif wraps the external exiftool binary, the collaborator that
// turns an image file into its metadata document.
package exif

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// ErrExtractionFailed marks a run where exiftool produced no usable output
// for a file. The file is skipped; the run continues.
var ErrExtractionFailed = errors.New("metadata extraction produced no output")

// Extractor produces the serialized metadata document for an image file.
type Extractor interface {
	Extract(ctx context.Context, imagePath, outputPath string) error
}

// Tool runs the exiftool binary with JSON output, group-prefixed tag names
// and structured values, the tag vocabulary the guides are written against.
type Tool struct {
	binary string
}

// NewTool builds an extractor. binary may be empty to use the exiftool found
// on PATH.
func NewTool(binary string) *Tool {
	if binary == "" {
		binary = "exiftool"
	}
	return &Tool{binary: binary}
}

// Extract reads the image's metadata and writes the raw JSON document to
// outputPath. exiftool may exit non-zero on minor warnings while still
// producing a full document, so output presence decides success.
func (t *Tool) Extract(ctx context.Context, imagePath, outputPath string) error {
	cmd := exec.CommandContext(ctx, t.binary, "-j", "-G1", "-struct", imagePath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		slog.Debug("exiftool stderr", "image", imagePath, "output", msg)
	}
	if stdout.Len() == 0 {
		if runErr != nil {
			return fmt.Errorf("%w: %s: %v", ErrExtractionFailed, imagePath, runErr)
		}
		return fmt.Errorf("%w: %s", ErrExtractionFailed, imagePath)
	}

	if err := os.WriteFile(outputPath, stdout.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write metadata cache: %w", err)
	}
	return nil
}
