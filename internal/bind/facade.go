package bind

import (
	"log/slog"

	"github.com/tuannm99/novabind/internal/wire"
)

// BindInt binds values as SQLT_INT of width W, e.g. BindInt[wire.Int32](1, ids).
func BindInt[W wire.IntWire, T IntEncoder](col int, values []T, opts ...Option) (*Column, error) {
	return bindLogged[T, IntContract[W, T]](col, values, opts)
}

// BindNum binds values as Oracle NUMBER.
func BindNum[T NumEncoder](col int, values []T, opts ...Option) (*Column, error) {
	return bindLogged[T, NumContract[T]](col, values, opts)
}

func BindChr[T ChrEncoder](col int, values []T, opts ...Option) (*Column, error) {
	return bindLogged[T, ChrContract[T]](col, values, opts)
}

func BindAfc[T AfcEncoder](col int, values []T, opts ...Option) (*Column, error) {
	return bindLogged[T, AfcContract[T]](col, values, opts)
}

func BindBin[T BinEncoder](col int, values []T, opts ...Option) (*Column, error) {
	return bindLogged[T, BinContract[T]](col, values, opts)
}

func BindFloat[T FloatEncoder](col int, values []T, opts ...Option) (*Column, error) {
	return bindLogged[T, FloatContract[T]](col, values, opts)
}

func BindDouble[T DoubleEncoder](col int, values []T, opts ...Option) (*Column, error) {
	return bindLogged[T, DoubleContract[T]](col, values, opts)
}

func BindDate[T DateEncoder](col int, values []T, opts ...Option) (*Column, error) {
	return bindLogged[T, DateContract[T]](col, values, opts)
}

func BindTimestamp[T TimestampEncoder](col int, values []T, opts ...Option) (*Column, error) {
	return bindLogged[T, TimestampContract[T]](col, values, opts)
}

func bindLogged[T any, C Contract[T]](col int, values []T, opts []Option) (*Column, error) {
	c, err := BindColumn[T, C](col, values, opts...)
	if err != nil {
		slog.Debug("bind: column failed", "col", col, "err", err)
		return nil, err
	}
	d := c.Diagnostics()
	slog.Debug("bind: column bound",
		"col", d.Column,
		"tag", d.Tag.String(),
		"rows", d.Rows,
		"capped", d.CappedSize,
		"fixed", d.Fixed,
		"written", d.Written,
	)
	return c, nil
}
