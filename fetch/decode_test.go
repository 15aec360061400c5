package fetch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validLeader builds a minimal ISO 8211 leader followed by filler.
func validLeader() []byte {
	leader := []byte("002413LE1 0900073   5504")
	return append(leader, make([]byte, 100)...)
}

func TestCellDecoderAcceptsValidLeader(t *testing.T) {
	d := NewCellDecoder(nil)

	decoded, err := d.Decode(context.Background(), "US5WA50M", validLeader())
	require.NoError(t, err)

	cell, ok := decoded.(*Cell)
	require.True(t, ok)
	assert.Equal(t, "US5WA50M", cell.ChartID)
	assert.Equal(t, 124, cell.SizeBytes)
	assert.Equal(t, byte('3'), cell.InterchangeLevel)
}

func TestCellDecoderRejectsShortPayload(t *testing.T) {
	d := NewCellDecoder(nil)

	_, err := d.Decode(context.Background(), "US5WA50M", []byte("stub"))
	assert.ErrorContains(t, err, "too short")
}

func TestCellDecoderRejectsBadRecordLength(t *testing.T) {
	d := NewCellDecoder(nil)

	payload := validLeader()
	payload[2] = 'x'
	_, err := d.Decode(context.Background(), "US5WA50M", payload)
	assert.ErrorContains(t, err, "record length digit")
}

func TestCellDecoderRejectsBadLeaderIdentifier(t *testing.T) {
	d := NewCellDecoder(nil)

	payload := validLeader()
	payload[6] = 'D'
	_, err := d.Decode(context.Background(), "US5WA50M", payload)
	assert.ErrorContains(t, err, "leader identifier")
}

func TestCellDecoderHonorsCancelledContext(t *testing.T) {
	d := NewCellDecoder(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Decode(ctx, "US5WA50M", validLeader())
	assert.ErrorIs(t, err, context.Canceled)
}
