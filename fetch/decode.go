package fetch

import (
	"context"

	"github.com/navtool/chartload/errors"
	"go.uber.org/zap"
)

// iso8211LeaderSize is the fixed leader length of an ISO/IEC 8211 data
// descriptive record, the container format S-57 cells are written in.
const iso8211LeaderSize = 24

// Cell is the decoded chart payload handed back through the pipeline.
type Cell struct {
	ChartID   string
	SizeBytes int
	// Interchange level from the ISO 8211 leader ('1', '2', '3' for S-57).
	InterchangeLevel byte
}

// CellDecoder validates the ISO 8211 framing of an extracted S-57 cell.
// It does not parse feature records; it only establishes that the payload
// is a well-formed cell and surfaces its basic shape.
type CellDecoder struct {
	logger *zap.SugaredLogger
}

// NewCellDecoder creates a decoder.
func NewCellDecoder(logger *zap.SugaredLogger) *CellDecoder {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CellDecoder{logger: logger}
}

// Decode implements pipeline.Decoder.
func (d *CellDecoder) Decode(ctx context.Context, chartID string, payload []byte) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(payload) < iso8211LeaderSize {
		return nil, errors.Newf("payload too short for an ISO 8211 leader: %d bytes", len(payload))
	}

	// Leader bytes 0-4 hold the record length as ASCII digits.
	for i := 0; i < 5; i++ {
		if payload[i] < '0' || payload[i] > '9' {
			return nil, errors.Newf("invalid record length digit at leader offset %d", i)
		}
	}

	// Byte 6 is the leader identifier; 'L' marks the DDR leading an S-57 cell.
	if payload[6] != 'L' {
		return nil, errors.Newf("unexpected leader identifier %q", payload[6])
	}

	cell := &Cell{
		ChartID:          chartID,
		SizeBytes:        len(payload),
		InterchangeLevel: payload[5],
	}
	d.logger.Debugw("Chart cell decoded",
		"chartId", chartID,
		"size", cell.SizeBytes)
	return cell, nil
}
