package spool

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novabind/internal/adapter"
	"github.com/tuannm99/novabind/internal/batch"
	"github.com/tuannm99/novabind/internal/bind"
	"github.com/tuannm99/novabind/internal/wire"
)

// newTestResult binds a small two-column batch with compressible data.
func newTestResult(t *testing.T) *batch.Result {
	t.Helper()

	ids := make([]adapter.Int32, 200)
	names := make([]adapter.String, 200)
	for i := range ids {
		ids[i] = adapter.Int32(i % 3)
		names[i] = adapter.String(strings.Repeat("n", i%7))
	}

	b := batch.New(batch.Options{})
	b.Add(func() (*bind.Column, error) { return bind.BindInt[wire.Int32](1, ids) })
	b.Add(func() (*bind.Column, error) { return bind.BindChr(2, names) })

	res, err := b.Bind(context.Background())
	require.NoError(t, err)
	return res
}

func TestSpool_RoundTrip(t *testing.T) {
	for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(comp.String(), func(t *testing.T) {
			res := newTestResult(t)

			var buf bytes.Buffer
			w, err := NewWriter(&buf, res.ID, comp)
			require.NoError(t, err)
			require.NoError(t, w.WriteResult(res))
			require.NoError(t, w.Close())

			r, err := NewReader(&buf)
			require.NoError(t, err)
			require.Equal(t, res.ID, r.BatchID())

			for _, col := range res.Columns {
				f, err := r.Next()
				require.NoError(t, err)
				require.Equal(t, col.Index, f.Index)
				require.Equal(t, col.Tag, f.Tag)
				require.Equal(t, col.Rows, f.Rows)
				require.Equal(t, col.Fixed(), f.Fixed)
				require.Equal(t, col.Lengths, f.Lengths)
				require.Equal(t, comp, f.Compression)
				for i := 0; i < col.Rows; i++ {
					require.Equal(t, col.Slot(i), f.Slot(i))
				}
			}

			_, err = r.Next()
			require.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestSpool_IncompressibleStoredRaw(t *testing.T) {
	noise := make([]byte, 512)
	_, err := rand.Read(noise)
	require.NoError(t, err)

	col, err := bind.BindBin(1, []adapter.Bytes{noise})
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, batch.New(batch.Options{}).ID(), CompressionLZ4)
	require.NoError(t, err)
	require.NoError(t, w.WriteColumn(col))
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	f, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, CompressionNone, f.Compression)
	require.Equal(t, noise, f.Slot(0))
}

func TestSpool_DetectsCorruption(t *testing.T) {
	col, err := bind.BindInt[wire.Int64](1, []adapter.Int64{1, 2, 3})
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, batch.New(batch.Options{}).ID(), CompressionNone)
	require.NoError(t, err)
	require.NoError(t, w.WriteColumn(col))
	require.NoError(t, w.Close())

	raw := buf.Bytes()
	// The payload sits right before the 4-byte end marker.
	raw[len(raw)-5] ^= 0xFF

	r, err := NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	_, err = r.Next()
	require.ErrorIs(t, err, ErrChecksum)
}

// writeRawFrame writes a spool holding one frame with the given header,
// bypassing Writer so the header can lie about the layout.
func writeRawFrame(t *testing.T, h frameHeader, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := NewWriter(&buf, batch.New(batch.Options{}).ID(), CompressionNone)
	require.NoError(t, err)

	h.PayloadSize = len(payload)
	hdr, err := encMode.Marshal(h)
	require.NoError(t, err)
	require.NoError(t, writeBlock(&buf, hdr))
	buf.Write(payload)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestReader_RejectsBadLayout(t *testing.T) {
	tests := []struct {
		name string
		h    frameHeader
	}{
		{"slot size times rows overflows", frameHeader{
			Rows: 4, SlotSize: 1 << 62, Fixed: true, RawSize: 0, Lengths: []int{5, 5, 5, 5},
		}},
		{"negative slot size", frameHeader{
			Rows: 1, SlotSize: -4, Fixed: true, RawSize: -4, Lengths: []int{0},
		}},
		{"raw size over limit", frameHeader{
			Rows: 0, Offsets: []int{0}, RawSize: 1 << 40, Compression: CompressionLZ4,
		}},
		{"offsets wrap around", frameHeader{
			Rows: 2, RawSize: 2, Offsets: []int{0, math.MinInt, 2}, Lengths: []int{math.MinInt, 2},
		}},
		{"offset past data", frameHeader{
			Rows: 2, RawSize: 2, Offsets: []int{0, 5, 2}, Lengths: []int{5, -3},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := writeRawFrame(t, tt.h, nil)

			r, err := NewReader(bytes.NewReader(raw))
			require.NoError(t, err)
			f, err := r.Next()
			require.Nil(t, f)
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestSpool_BadMagic(t *testing.T) {
	_, err := NewReader(strings.NewReader("NOPE\x01"))
	require.ErrorIs(t, err, ErrBadMagic)

	_, err = NewReader(strings.NewReader("NV"))
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestSpool_Truncated(t *testing.T) {
	col, err := bind.BindChr(1, []adapter.String{"abc"})
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, batch.New(batch.Options{}).ID(), CompressionNone)
	require.NoError(t, err)
	require.NoError(t, w.WriteColumn(col))

	raw := buf.Bytes()
	r, err := NewReader(bytes.NewReader(raw[:len(raw)-1]))
	require.NoError(t, err)
	_, err = r.Next()
	require.ErrorIs(t, err, ErrTruncated)
}

func TestWriter_Closed(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, batch.New(batch.Options{}).ID(), CompressionNone)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	col, err := bind.BindChr(1, []adapter.String{"x"})
	require.NoError(t, err)
	require.ErrorIs(t, w.WriteColumn(col), ErrClosed)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	require.Error(t, err)
}
