package plan

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cast"

	"github.com/tuannm99/novabind/internal/adapter"
	"github.com/tuannm99/novabind/internal/batch"
	"github.com/tuannm99/novabind/internal/bind"
	"github.com/tuannm99/novabind/internal/wire"
)

var (
	errRange  = errors.New("out of range")
	errFormat = errors.New("unexpected value")
)

// Natural adapter type per wire name.
var defaultType = map[string]string{
	"int8":      "int8",
	"int16":     "int16",
	"int32":     "int32",
	"int64":     "int64",
	"num":       "int64",
	"bfloat":    "float32",
	"bdouble":   "float64",
	"chr":       "string",
	"afc":       "string",
	"bin":       "bytes",
	"dat":       "time",
	"timestamp": "time",
}

type integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32
}

// Job returns the batch job binding c. Every combination of wire and
// adapter type below is checked by the compiler; the switch only selects one.
func (c Column) Job(opts ...bind.Option) (batch.Job, error) {
	info, ok := wire.Lookup(c.Wire)
	if !ok {
		return nil, fmt.Errorf("%w: column %d: %q", ErrUnknownWire, c.Index, c.Wire)
	}
	typ := c.Type
	if typ == "" {
		typ = defaultType[info.Name]
	}

	var job batch.Job
	switch info.Name {
	case "int8":
		job = intJob[wire.Int8](c, typ, opts)
	case "int16":
		job = intJob[wire.Int16](c, typ, opts)
	case "int32":
		job = intJob[wire.Int32](c, typ, opts)
	case "int64":
		job = intJob[wire.Int64](c, typ, opts)
	case "num":
		job = numJob(c, typ, opts)
	case "bfloat":
		if typ == "float32" {
			job = bindJob(c, info.Tag, toFloat[adapter.Float32], bind.BindFloat[adapter.Float32], opts)
		}
	case "bdouble":
		switch typ {
		case "float32":
			job = bindJob(c, info.Tag, toFloat[adapter.Float32], bind.BindDouble[adapter.Float32], opts)
		case "float64":
			job = bindJob(c, info.Tag, toFloat[adapter.Float64], bind.BindDouble[adapter.Float64], opts)
		}
	case "chr":
		if typ == "string" {
			job = bindJob(c, info.Tag, toString, bind.BindChr[adapter.String], opts)
		}
	case "afc":
		if typ == "string" {
			job = bindJob(c, info.Tag, toString, bind.BindAfc[adapter.String], opts)
		}
	case "bin":
		if typ == "bytes" {
			job = bindJob(c, info.Tag, toBytes, bind.BindBin[adapter.Bytes], opts)
		}
	case "dat":
		if typ == "time" {
			job = bindJob(c, info.Tag, toTime, bind.BindDate[adapter.Time], opts)
		}
	case "timestamp":
		if typ == "time" {
			job = bindJob(c, info.Tag, toTime, bind.BindTimestamp[adapter.Time], opts)
		}
	}
	if job == nil {
		return nil, bind.NewError(c.Index, -1, info.Tag,
			fmt.Errorf("%w: %s has no %s adapter", bind.ErrUnsupportedConversion, typ, info.Name))
	}
	return job, nil
}

type binder[T any] func(col int, values []T, opts ...bind.Option) (*bind.Column, error)

// bindJob converts the raw values of c with conv and binds them with fn.
func bindJob[T any](c Column, tag wire.Tag, conv func(any) (T, error), fn binder[T], opts []bind.Option) batch.Job {
	return func() (*bind.Column, error) {
		values := make([]T, len(c.Values))
		for i, raw := range c.Values {
			v, err := conv(raw)
			if err != nil {
				return nil, bind.NewError(c.Index, i, tag,
					fmt.Errorf("%w: %v (%T): %v", bind.ErrUnsupportedConversion, raw, raw, err))
			}
			values[i] = v
		}
		return fn(c.Index, values, opts...)
	}
}

func intJob[W wire.IntWire](c Column, typ string, opts []bind.Option) batch.Job {
	tag := wire.SQLTInt
	switch typ {
	case "int8":
		return bindJob(c, tag, toInt[adapter.Int8], bind.BindInt[W, adapter.Int8], opts)
	case "int16":
		return bindJob(c, tag, toInt[adapter.Int16], bind.BindInt[W, adapter.Int16], opts)
	case "int32":
		return bindJob(c, tag, toInt[adapter.Int32], bind.BindInt[W, adapter.Int32], opts)
	case "int64":
		return bindJob(c, tag, toInt[adapter.Int64], bind.BindInt[W, adapter.Int64], opts)
	}
	return nil
}

func numJob(c Column, typ string, opts []bind.Option) batch.Job {
	tag := wire.SQLTNum
	switch typ {
	case "int8":
		return bindJob(c, tag, toInt[adapter.Int8], bind.BindNum[adapter.Int8], opts)
	case "int16":
		return bindJob(c, tag, toInt[adapter.Int16], bind.BindNum[adapter.Int16], opts)
	case "int32":
		return bindJob(c, tag, toInt[adapter.Int32], bind.BindNum[adapter.Int32], opts)
	case "int64":
		return bindJob(c, tag, toInt[adapter.Int64], bind.BindNum[adapter.Int64], opts)
	case "uint8":
		return bindJob(c, tag, toInt[adapter.Uint8], bind.BindNum[adapter.Uint8], opts)
	case "uint16":
		return bindJob(c, tag, toInt[adapter.Uint16], bind.BindNum[adapter.Uint16], opts)
	case "uint32":
		return bindJob(c, tag, toInt[adapter.Uint32], bind.BindNum[adapter.Uint32], opts)
	}
	return nil
}

func toInt[T integer](raw any) (T, error) {
	v, err := int64Of(raw)
	if err != nil {
		return 0, err
	}
	if int64(T(v)) != v {
		return 0, errRange
	}
	return T(v), nil
}

// int64Of rejects the inputs cast would silently truncate or wrap.
func int64Of(raw any) (int64, error) {
	switch x := raw.(type) {
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
			return 0, errRange
		}
	case float32:
		if f := float64(x); f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, errRange
		}
	case uint64:
		if x > math.MaxInt64 {
			return 0, errRange
		}
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, errRange
		}
	}
	return cast.ToInt64E(raw)
}

func toFloat[T adapter.Float32 | adapter.Float64](raw any) (T, error) {
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, err
	}
	if !math.IsInf(v, 0) && math.IsInf(float64(T(v)), 0) {
		return 0, errRange
	}
	return T(v), nil
}

func toString(raw any) (adapter.String, error) {
	s, err := cast.ToStringE(raw)
	return adapter.String(s), err
}

// toBytes decodes hex text such as "deadbeef".
func toBytes(raw any) (adapter.Bytes, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, errFormat
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return adapter.Bytes(b), nil
}

// toTime accepts time values and the layouts cast knows, read as UTC when
// no zone is given.
func toTime(raw any) (adapter.Time, error) {
	t, err := cast.ToTimeInDefaultLocationE(raw, time.UTC)
	return adapter.Time(t), err
}
