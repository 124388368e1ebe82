// Package colarrow exposes bound columns as Apache Arrow arrays so tools
// that speak Arrow can inspect a batch before it is handed on.
//
// A fixed-size column becomes a FixedSizeBinary array of whole slots and a
// variable-size column a Binary array. Each column is paired with an int32
// array of the bytes written per row, and carries its SQLT tag and slot size
// as field metadata.
package colarrow

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/tuannm99/novabind/internal/batch"
	"github.com/tuannm99/novabind/internal/bind"
)

const (
	MetaTag      = "novabind.sqlt"
	MetaSlotSize = "novabind.slot_size"
	MetaBatchID  = "novabind.batch_id"
)

var ErrRowCount = errors.New("colarrow: columns disagree on row count")

// Fields returns the data and length fields describing c.
func Fields(c *bind.Column) (data, lengths arrow.Field) {
	var dt arrow.DataType = arrow.BinaryTypes.Binary
	if c.Fixed() && c.SlotSize > 0 {
		dt = &arrow.FixedSizeBinaryType{ByteWidth: c.SlotSize}
	}
	md := arrow.NewMetadata(
		[]string{MetaTag, MetaSlotSize},
		[]string{strconv.Itoa(int(c.Tag)), strconv.Itoa(c.SlotSize)},
	)
	name := "c" + strconv.Itoa(c.Index)
	return arrow.Field{Name: name, Type: dt, Metadata: md},
		arrow.Field{Name: name + "_len", Type: arrow.PrimitiveTypes.Int32}
}

// Arrays builds the data and length arrays for c. The caller releases both.
func Arrays(mem memory.Allocator, c *bind.Column) (data, lengths arrow.Array) {
	lb := array.NewInt32Builder(mem)
	defer lb.Release()
	lb.Reserve(c.Rows)
	for _, n := range c.Lengths {
		lb.Append(int32(n))
	}

	if c.Fixed() && c.SlotSize > 0 {
		db := array.NewFixedSizeBinaryBuilder(mem, &arrow.FixedSizeBinaryType{ByteWidth: c.SlotSize})
		defer db.Release()
		db.Reserve(c.Rows)
		for i := 0; i < c.Rows; i++ {
			lo := i * c.SlotSize
			db.Append(c.Data[lo : lo+c.SlotSize])
		}
		return db.NewArray(), lb.NewArray()
	}

	db := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
	defer db.Release()
	db.Reserve(c.Rows)
	for i := 0; i < c.Rows; i++ {
		db.Append(c.Slot(i))
	}
	return db.NewArray(), lb.NewArray()
}

// Record builds one record holding every column of res. The caller
// releases it.
func Record(mem memory.Allocator, res *batch.Result) (arrow.Record, error) {
	fields := make([]arrow.Field, 0, 2*len(res.Columns))
	cols := make([]arrow.Array, 0, 2*len(res.Columns))
	defer func() {
		for _, a := range cols {
			a.Release()
		}
	}()

	for _, c := range res.Columns {
		if c.Rows != res.Rows {
			return nil, fmt.Errorf("%w: column %d has %d rows, batch has %d", ErrRowCount, c.Index, c.Rows, res.Rows)
		}
		df, lf := Fields(c)
		da, la := Arrays(mem, c)
		fields = append(fields, df, lf)
		cols = append(cols, da, la)
	}

	md := arrow.NewMetadata([]string{MetaBatchID}, []string{res.ID.String()})
	schema := arrow.NewSchema(fields, &md)
	return array.NewRecord(schema, cols, int64(res.Rows)), nil
}

// WriteIPC writes res as a single-record Arrow IPC stream.
func WriteIPC(w io.Writer, mem memory.Allocator, res *batch.Result) error {
	rec, err := Record(mem, res)
	if err != nil {
		return err
	}
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		_ = iw.Close()
		return fmt.Errorf("colarrow: write record: %w", err)
	}
	if err := iw.Close(); err != nil {
		return fmt.Errorf("colarrow: close stream: %w", err)
	}
	return nil
}
