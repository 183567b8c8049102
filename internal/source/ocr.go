package source

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// OCR recognizes the text of a scanned invoice image.
type OCR interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Tesseract runs the tesseract CLI, image on stdin, text on stdout.
type Tesseract struct {
	Path    string
	Lang    string
	Timeout time.Duration
}

func NewTesseract(path, lang string, timeout time.Duration) *Tesseract {
	if strings.TrimSpace(path) == "" {
		path = "tesseract"
	}
	return &Tesseract{Path: path, Lang: lang, Timeout: timeout}
}

func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	args := []string{"stdin", "stdout"}
	if t.Lang != "" {
		args = append(args, "-l", t.Lang)
	}
	cmd := exec.CommandContext(ctx, t.Path, args...)
	cmd.Stdin = bytes.NewReader(image)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("tesseract: %w", err)
		}
		return "", fmt.Errorf("tesseract: %w: %s", err, msg)
	}
	return stdout.String(), nil
}
