package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrSourceOutsideBaseDir = errors.New("source path is outside the import directory")
	ErrUnsupportedSource    = errors.New("only .csv files can be imported")
)

// LocalSource reads import files from a single base directory.
type LocalSource struct {
	BaseDir  string
	MaxBytes int64
}

func NewLocalSource(baseDir string, maxBytes int64) *LocalSource {
	if baseDir == "" {
		baseDir = "."
	}
	return &LocalSource{BaseDir: baseDir, MaxBytes: maxBytes}
}

// ReadAll returns the contents of sourcePath, resolved against BaseDir.
func (s *LocalSource) ReadAll(ctx context.Context, sourcePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(sourcePath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if s.MaxBytes > 0 {
		r = io.LimitReader(f, s.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	if s.MaxBytes > 0 && int64(len(data)) > s.MaxBytes {
		return nil, fmt.Errorf("file %s is larger than %d bytes", path, s.MaxBytes)
	}
	return data, nil
}

func (s *LocalSource) resolve(sourcePath string) (string, error) {
	if !strings.EqualFold(filepath.Ext(sourcePath), ".csv") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedSource, sourcePath)
	}

	base, err := filepath.Abs(s.BaseDir)
	if err != nil {
		return "", fmt.Errorf("resolve base dir: %w", err)
	}

	path := sourcePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrSourceOutsideBaseDir, sourcePath)
	}
	return path, nil
}
