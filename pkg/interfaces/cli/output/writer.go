package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedSuffix selects zstd compression for output files
const CompressedSuffix = ".zst"

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type compressedFile struct {
	enc  *zstd.Encoder
	file *os.File
}

func (c *compressedFile) Write(p []byte) (int, error) {
	return c.enc.Write(p)
}

func (c *compressedFile) Close() error {
	encErr := c.enc.Close()
	fileErr := c.file.Close()
	if encErr != nil {
		return fmt.Errorf("failed to finish compressed output: %w", encErr)
	}
	return fileErr
}

// Open returns the destination for path: stdout when path is empty or "-",
// a zstd stream when path ends in .zst, a plain file otherwise. The caller
// must Close the returned writer.
func Open(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	if !strings.HasSuffix(path, CompressedSuffix) {
		return f, nil
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	return &compressedFile{enc: enc, file: f}, nil
}
