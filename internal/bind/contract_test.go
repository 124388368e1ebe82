package bind

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novabind/internal/adapter"
	"github.com/tuannm99/novabind/internal/wire"
)

// boolWire is a wire type declared outside the built-in family, the way a
// third party would add SQLT_BOL support.
type boolWire struct{}

func (boolWire) Tag() wire.Tag           { return 252 }
func (boolWire) CappedSize() (int, bool) { return 1, true }

type boolEncoder interface{ EncodeBool(dst []byte) (int, error) }

type boolContract[T boolEncoder] struct{ boolWire }

func (boolContract[T]) Encode(v T, dst []byte) (int, error) { return v.EncodeBool(dst) }

type flag bool

func (f flag) EncodeBool(dst []byte) (int, error) {
	if f {
		dst[0] = 1
	}
	return 1, nil
}

func TestBindColumn_ThirdPartyContract(t *testing.T) {
	col, err := BindColumn[flag, boolContract[flag]](7, []flag{true, false, true})
	require.NoError(t, err)
	require.Equal(t, wire.Tag(252), col.Tag)
	require.Equal(t, []byte{1, 0, 1}, col.Data)
	require.Equal(t, []int{1, 1, 1}, col.Lengths)
}

// TestContracts_WireConstants checks each built-in contract against the
// wire marker it is declared with.
func TestContracts_WireConstants(t *testing.T) {
	tests := []struct {
		name  string
		c     wire.Wire
		tag   wire.Tag
		size  int
		fixed bool
	}{
		{"int8", IntContract[wire.Int8, adapter.Int8]{}, wire.SQLTInt, 1, true},
		{"int64", IntContract[wire.Int64, adapter.Int64]{}, wire.SQLTInt, 8, true},
		{"num", NumContract[adapter.Int32]{}, wire.SQLTNum, wire.NumSize, true},
		{"chr", ChrContract[adapter.String]{}, wire.SQLTChr, 0, false},
		{"afc", AfcContract[adapter.String]{}, wire.SQLTAfc, 0, false},
		{"bin", BinContract[adapter.Bytes]{}, wire.SQLTBin, 0, false},
		{"bfloat", FloatContract[adapter.Float32]{}, wire.SQLTBFloat, 4, true},
		{"bdouble", DoubleContract[adapter.Float64]{}, wire.SQLTBDouble, 8, true},
		{"dat", DateContract[adapter.Time]{}, wire.SQLTDat, 7, true},
		{"timestamp", TimestampContract[adapter.Time]{}, wire.SQLTTimestamp, 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.tag, tt.c.Tag())
			size, fixed := tt.c.CappedSize()
			require.Equal(t, tt.size, size)
			require.Equal(t, tt.fixed, fixed)
		})
	}
}

// TestContracts_FixedNeverExceedSlot binds sample values under every fixed
// contract and checks that no row reports more than the capped size.
func TestContracts_FixedNeverExceedSlot(t *testing.T) {
	now := adapter.Time(time.Date(2025, 3, 4, 5, 6, 7, 8, time.UTC))
	cols := []func() (*Column, error){
		func() (*Column, error) { return BindInt[wire.Int8](1, []adapter.Int8{-128, 127}) },
		func() (*Column, error) { return BindInt[wire.Int64](1, []adapter.Int64{-1 << 63, 1<<63 - 1}) },
		func() (*Column, error) { return BindNum(1, []adapter.Int64{-1 << 63, 1<<63 - 1}) },
		func() (*Column, error) { return BindDouble(1, []adapter.Float32{1.25}) },
		func() (*Column, error) { return BindDate(1, []adapter.Time{now}) },
		func() (*Column, error) { return BindTimestamp(1, []adapter.Time{now}) },
	}

	for _, bindFn := range cols {
		col, err := bindFn()
		require.NoError(t, err)
		for _, n := range col.Lengths {
			require.LessOrEqual(t, n, col.SlotSize)
		}
	}
}

func TestBindBinAndAfc(t *testing.T) {
	bin, err := BindBin(1, []adapter.Bytes{{1, 2}, {3}})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, bin.Data)
	require.Equal(t, []int{0, 2, 3}, bin.Offsets)

	afc, err := BindAfc(2, []adapter.String{"ab", "c"})
	require.NoError(t, err)
	require.Equal(t, wire.SQLTAfc, afc.Tag)
	require.Equal(t, "c", string(afc.Slot(1)))
}

func TestKindLabel(t *testing.T) {
	_, err := BindInt[wire.Int16](1, []adapter.Int32{1})
	require.Equal(t, "capped_size_mismatch", KindLabel(err))

	_, err = BindNum(1, []placeholderNum{1})
	require.Equal(t, "unimplemented_adapter", KindLabel(err))

	require.Equal(t, "other", KindLabel(errors.New("plain")))
	require.Equal(t, "unsupported_conversion", KindLabel(NewError(1, 0, wire.SQLTNum, ErrUnsupportedConversion)))
}
