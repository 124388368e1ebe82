package colarrow

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novabind/internal/adapter"
	"github.com/tuannm99/novabind/internal/alias/bx"
	"github.com/tuannm99/novabind/internal/batch"
	"github.com/tuannm99/novabind/internal/bind"
	"github.com/tuannm99/novabind/internal/wire"
)

func newTestResult(t *testing.T) *batch.Result {
	t.Helper()
	b := batch.New(batch.Options{})
	b.Add(func() (*bind.Column, error) {
		return bind.BindInt[wire.Int32](1, []adapter.Int16{10, -5, 0})
	})
	b.Add(func() (*bind.Column, error) {
		return bind.BindChr(2, []adapter.String{"a", "", "xyz"})
	})
	res, err := b.Bind(context.Background())
	require.NoError(t, err)
	return res
}

func TestArrays_FixedColumn(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	col, err := bind.BindInt[wire.Int32](1, []adapter.Int32{10, -5, 0})
	require.NoError(t, err)

	data, lengths := Arrays(mem, col)
	defer data.Release()
	defer lengths.Release()

	fsb, ok := data.(*array.FixedSizeBinary)
	require.True(t, ok)
	require.Equal(t, 3, fsb.Len())
	require.Equal(t, int32(-5), bx.I32(fsb.Value(1)))
	require.Equal(t, []int32{4, 4, 4}, lengths.(*array.Int32).Int32Values())
}

func TestFields_Metadata(t *testing.T) {
	col, err := bind.BindNum(4, []adapter.Int32{1})
	require.NoError(t, err)

	df, lf := Fields(col)
	require.Equal(t, "c4", df.Name)
	require.Equal(t, "c4_len", lf.Name)
	require.Equal(t, arrow.FIXED_SIZE_BINARY, df.Type.ID())

	tag, ok := df.Metadata.GetValue(MetaTag)
	require.True(t, ok)
	require.Equal(t, strconv.Itoa(int(wire.SQLTNum)), tag)
}

func TestWriteIPC_RoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	res := newTestResult(t)

	var buf bytes.Buffer
	require.NoError(t, WriteIPC(&buf, mem, res))

	rdr, err := ipc.NewReader(&buf, ipc.WithAllocator(mem))
	require.NoError(t, err)
	defer rdr.Release()

	id, ok := rdr.Schema().Metadata().GetValue(MetaBatchID)
	require.True(t, ok)
	require.Equal(t, res.ID.String(), id)

	require.True(t, rdr.Next())
	rec := rdr.Record()
	require.Equal(t, int64(3), rec.NumRows())
	require.Equal(t, int64(4), rec.NumCols())

	ints := rec.Column(0).(*array.FixedSizeBinary)
	require.Equal(t, int16(-5), bx.I16(ints.Value(1)))
	require.Equal(t, []int32{2, 2, 2}, rec.Column(1).(*array.Int32).Int32Values())

	strs := rec.Column(2).(*array.Binary)
	require.Equal(t, "xyz", string(strs.Value(2)))
	require.Equal(t, []int32{1, 0, 3}, rec.Column(3).(*array.Int32).Int32Values())

	require.False(t, rdr.Next())
}

func TestRecord_RowCountMismatch(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	res := newTestResult(t)
	res.Rows = 5

	_, err := Record(mem, res)
	require.ErrorIs(t, err, ErrRowCount)
}
