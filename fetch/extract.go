package fetch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"
	"github.com/navtool/chartload/errors"
	"go.uber.org/zap"
)

// ZipExtractor unpacks a chart archive and returns the cell payload.
// ENC archives carry the base cell as a ".000" file; when none is present
// the largest extracted file is taken instead.
type ZipExtractor struct {
	logger *zap.SugaredLogger
}

// NewZipExtractor creates an extractor.
func NewZipExtractor(logger *zap.SugaredLogger) *ZipExtractor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ZipExtractor{logger: logger}
}

// Extract implements pipeline.Extractor.
func (e *ZipExtractor) Extract(ctx context.Context, chartID string, archive []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "chartload-extract-")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create extraction dir")
	}
	defer os.RemoveAll(tmpDir)

	src := filepath.Join(tmpDir, chartID+".zip")
	if err := os.WriteFile(src, archive, 0o644); err != nil {
		return nil, errors.Wrap(err, "failed to stage archive")
	}

	cellDir := filepath.Join(tmpDir, "cells")
	decompressor := new(getter.ZipDecompressor)
	if err := decompressor.Decompress(cellDir, src, true, 0o022); err != nil {
		return nil, errors.Wrap(errors.ErrArchiveCorrupt, err.Error())
	}

	payloadPath, err := pickCell(cellDir)
	if err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(payloadPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read cell %s", payloadPath)
	}

	e.logger.Debugw("Chart payload extracted",
		"chartId", chartID,
		"cell", filepath.Base(payloadPath),
		"size", len(payload))
	return payload, nil
}

// pickCell selects the chart payload from the extracted tree: the first
// ".000" base cell, or the largest file when the archive has none.
func pickCell(dir string) (string, error) {
	var baseCell string
	var largest string
	var largestSize int64

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if baseCell == "" && strings.HasSuffix(d.Name(), ".000") {
			baseCell = path
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > largestSize {
			largest = path
			largestSize = info.Size()
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrArchiveCorrupt, err.Error())
	}

	if baseCell != "" {
		return baseCell, nil
	}
	if largest == "" {
		return "", errors.Wrap(errors.ErrArchiveCorrupt, "archive contains no files")
	}
	return largest, nil
}
