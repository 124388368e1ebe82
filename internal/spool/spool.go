// Package spool writes bound columns to a file the transport layer can pick
// up, and reads them back.
//
// Layout:
//
//	"NVBS" [version u8] [u32 LE len][CBOR file header]
//	repeated: [u32 LE len][CBOR frame header][payload]
//	[u32 LE 0]
//
// Each frame holds one column. The payload is the column data, possibly
// compressed; the header carries the tag, slot layout, per-row lengths and a
// BLAKE3 checksum of the uncompressed data.
package spool

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/tuannm99/novabind/internal/alias/bx"
	"github.com/tuannm99/novabind/internal/batch"
	"github.com/tuannm99/novabind/internal/bind"
	"github.com/tuannm99/novabind/internal/wire"
)

const (
	version        = 1
	maxHeaderSize  = 16 << 20
	maxPayloadSize = 1 << 30
	maxRawSize     = 1 << 30
)

var magic = [4]byte{'N', 'V', 'B', 'S'}

var (
	ErrBadMagic  = errors.New("spool: not a spool file")
	ErrVersion   = errors.New("spool: unsupported version")
	ErrCorrupt   = errors.New("spool: corrupt frame")
	ErrChecksum  = errors.New("spool: checksum mismatch")
	ErrClosed    = errors.New("spool: writer closed")
	ErrTruncated = errors.New("spool: truncated file")
)

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("spool: CBOR encoder initialization failed: " + err.Error())
	}
}

type fileHeader struct {
	BatchID string `cbor:"batch_id"`
}

type frameHeader struct {
	Index       int         `cbor:"index"`
	Tag         uint16      `cbor:"tag"`
	Rows        int         `cbor:"rows"`
	SlotSize    int         `cbor:"slot_size"`
	Fixed       bool        `cbor:"fixed"`
	Lengths     []int       `cbor:"lengths"`
	Offsets     []int       `cbor:"offsets,omitempty"`
	Compression Compression `cbor:"compression"`
	RawSize     int         `cbor:"raw_size"`
	PayloadSize int         `cbor:"payload_size"`
	Checksum    []byte      `cbor:"checksum"`
}

// Writer streams columns into a spool.
type Writer struct {
	w      io.Writer
	comp   Compression
	frames int
	closed bool
}

// NewWriter writes the file header for batchID. comp is the compression
// tried for every frame; frames that do not shrink are stored as-is.
func NewWriter(w io.Writer, batchID uuid.UUID, comp Compression) (*Writer, error) {
	hdr, err := encMode.Marshal(fileHeader{BatchID: batchID.String()})
	if err != nil {
		return nil, fmt.Errorf("spool: encode file header: %w", err)
	}
	prefix := make([]byte, 0, len(magic)+1)
	prefix = append(prefix, magic[:]...)
	prefix = append(prefix, version)
	if _, err := w.Write(prefix); err != nil {
		return nil, err
	}
	if err := writeBlock(w, hdr); err != nil {
		return nil, err
	}
	return &Writer{w: w, comp: comp}, nil
}

// WriteColumn appends one column frame.
func (sw *Writer) WriteColumn(c *bind.Column) error {
	if sw.closed {
		return ErrClosed
	}

	raw := c.Data
	comp := sw.comp
	payload, err := compress(raw, comp)
	if errors.Is(err, errIncompressible) {
		comp, payload, err = CompressionNone, raw, nil
	}
	if err != nil {
		return err
	}

	sum := blake3.Sum256(raw)
	hdr, err := encMode.Marshal(frameHeader{
		Index:       c.Index,
		Tag:         uint16(c.Tag),
		Rows:        c.Rows,
		SlotSize:    c.SlotSize,
		Fixed:       c.Fixed(),
		Lengths:     c.Lengths,
		Offsets:     c.Offsets,
		Compression: comp,
		RawSize:     len(raw),
		PayloadSize: len(payload),
		Checksum:    sum[:],
	})
	if err != nil {
		return fmt.Errorf("spool: encode frame header: %w", err)
	}
	if err := writeBlock(sw.w, hdr); err != nil {
		return err
	}
	if _, err := sw.w.Write(payload); err != nil {
		return err
	}

	sw.frames++
	slog.Debug("spool: wrote frame",
		"col", c.Index,
		"tag", c.Tag.String(),
		"raw", len(raw),
		"stored", len(payload),
		"compression", comp.String(),
	)
	return nil
}

// WriteResult appends every column of a bound batch.
func (sw *Writer) WriteResult(r *batch.Result) error {
	for _, c := range r.Columns {
		if err := sw.WriteColumn(c); err != nil {
			return err
		}
	}
	return nil
}

// Close writes the end marker. It does not close the underlying writer.
func (sw *Writer) Close() error {
	if sw.closed {
		return nil
	}
	sw.closed = true
	var end [4]byte
	_, err := sw.w.Write(end[:])
	return err
}

func writeBlock(w io.Writer, b []byte) error {
	var n [4]byte
	bx.PutU32LE(n[:], uint32(len(b)))
	if _, err := w.Write(n[:]); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// Frame is one column read back from a spool.
type Frame struct {
	Index       int
	Tag         wire.Tag
	Rows        int
	SlotSize    int
	Fixed       bool
	Lengths     []int
	Offsets     []int
	Compression Compression
	Data        []byte
}

// Slot returns the bytes written for row i.
func (f *Frame) Slot(i int) []byte {
	if f.Fixed {
		lo := i * f.SlotSize
		return f.Data[lo : lo+f.Lengths[i]]
	}
	return f.Data[f.Offsets[i]:f.Offsets[i+1]]
}

type Reader struct {
	r       io.Reader
	batchID uuid.UUID
	done    bool
}

func NewReader(r io.Reader) (*Reader, error) {
	var prefix [5]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if [4]byte(prefix[:4]) != magic {
		return nil, ErrBadMagic
	}
	if prefix[4] != version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, prefix[4])
	}

	b, err := readBlock(r)
	if err != nil {
		return nil, err
	}
	var fh fileHeader
	if err := cbor.Unmarshal(b, &fh); err != nil {
		return nil, fmt.Errorf("%w: file header: %v", ErrCorrupt, err)
	}
	id, err := uuid.Parse(fh.BatchID)
	if err != nil {
		return nil, fmt.Errorf("%w: batch id: %v", ErrCorrupt, err)
	}
	return &Reader{r: r, batchID: id}, nil
}

func (sr *Reader) BatchID() uuid.UUID { return sr.batchID }

// Next returns the next frame, or io.EOF after the last one.
func (sr *Reader) Next() (*Frame, error) {
	if sr.done {
		return nil, io.EOF
	}
	b, err := readBlock(sr.r)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		sr.done = true
		return nil, io.EOF
	}

	var h frameHeader
	if err := cbor.Unmarshal(b, &h); err != nil {
		return nil, fmt.Errorf("%w: frame header: %v", ErrCorrupt, err)
	}
	if err := h.validate(); err != nil {
		return nil, err
	}

	payload := make([]byte, h.PayloadSize)
	if _, err := io.ReadFull(sr.r, payload); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrTruncated, err)
	}
	data, err := decompress(payload, h.Compression, h.RawSize)
	if err != nil {
		return nil, err
	}
	if sum := blake3.Sum256(data); string(sum[:]) != string(h.Checksum) {
		return nil, fmt.Errorf("%w: column %d", ErrChecksum, h.Index)
	}

	return &Frame{
		Index:       h.Index,
		Tag:         wire.Tag(h.Tag),
		Rows:        h.Rows,
		SlotSize:    h.SlotSize,
		Fixed:       h.Fixed,
		Lengths:     h.Lengths,
		Offsets:     h.Offsets,
		Compression: h.Compression,
		Data:        data,
	}, nil
}

// validate checks the slot layout against the payload size so Frame.Slot
// cannot index outside Data.
func (h *frameHeader) validate() error {
	if h.Rows < 0 || h.RawSize < 0 || h.RawSize > maxRawSize ||
		h.PayloadSize < 0 || h.PayloadSize > maxPayloadSize {
		return fmt.Errorf("%w: bad sizes", ErrCorrupt)
	}
	if len(h.Lengths) != h.Rows {
		return fmt.Errorf("%w: %d lengths for %d rows", ErrCorrupt, len(h.Lengths), h.Rows)
	}
	if h.Fixed {
		// Rows is bounded by RawSize/SlotSize first so the product cannot overflow.
		if h.SlotSize < 0 || (h.SlotSize > 0 && h.Rows > h.RawSize/h.SlotSize) ||
			h.SlotSize*h.Rows != h.RawSize {
			return fmt.Errorf("%w: %d rows of %d bytes in %d", ErrCorrupt, h.Rows, h.SlotSize, h.RawSize)
		}
		for _, n := range h.Lengths {
			if n < 0 || n > h.SlotSize {
				return fmt.Errorf("%w: row length %d over slot %d", ErrCorrupt, n, h.SlotSize)
			}
		}
		return nil
	}
	if len(h.Offsets) != h.Rows+1 || h.Offsets[0] != 0 || h.Offsets[h.Rows] != h.RawSize {
		return fmt.Errorf("%w: bad offsets", ErrCorrupt)
	}
	for i, n := range h.Lengths {
		lo, hi := h.Offsets[i], h.Offsets[i+1]
		if lo < 0 || hi < lo || hi > h.RawSize || hi-lo != n {
			return fmt.Errorf("%w: offsets disagree with lengths at row %d", ErrCorrupt, i)
		}
	}
	return nil
}

func readBlock(r io.Reader) ([]byte, error) {
	var n [4]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	size := bx.U32LE(n[:])
	if size > maxHeaderSize {
		return nil, fmt.Errorf("%w: header of %d bytes", ErrCorrupt, size)
	}
	b := make([]byte, size)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return b, nil
}
