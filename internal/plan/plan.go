// Package plan reads load plans: YAML files that describe the columns of one
// array-bind batch and the values to bind into them.
//
//	name: orders
//	columns:
//	  - index: 1
//	    wire: int32
//	    type: int16
//	    values: [1, 2, 3]
//	  - index: 2
//	    wire: chr
//	    values: [a, b, c]
//
// The wire name selects the contract and type the adapter. Type may be left
// out, in which case the natural adapter for the wire is used.
package plan

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/tuannm99/novabind/internal/batch"
	"github.com/tuannm99/novabind/internal/bind"
	"github.com/tuannm99/novabind/internal/wire"
)

var (
	ErrNoColumns   = errors.New("plan: no columns")
	ErrUnknownWire = errors.New("plan: unknown wire type")
)

type Plan struct {
	Name    string   `mapstructure:"name"`
	Columns []Column `mapstructure:"columns"`
}

type Column struct {
	Index  int    `mapstructure:"index"`
	Wire   string `mapstructure:"wire"`
	Type   string `mapstructure:"type"`
	Values []any  `mapstructure:"values"`
}

// Load reads a plan from a YAML file.
func Load(path string) (*Plan, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var p Plan
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("plan: loaded", "path", path, "name", p.Name, "columns", len(p.Columns))
	return &p, nil
}

// Validate checks the plan's shape. Values are checked when the batch binds.
func (p *Plan) Validate() error {
	if len(p.Columns) == 0 {
		return ErrNoColumns
	}
	for _, c := range p.Columns {
		if _, ok := wire.Lookup(c.Wire); !ok {
			return fmt.Errorf("%w: column %d: %q", ErrUnknownWire, c.Index, c.Wire)
		}
	}
	return nil
}

// Batch builds a batch with one job per column. A column whose adapter type
// cannot bind to its wire type fails here with ErrUnsupportedConversion.
func (p *Plan) Batch(opts batch.Options, bindOpts ...bind.Option) (*batch.Batch, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b := batch.New(opts)
	for _, c := range p.Columns {
		job, err := c.Job(bindOpts...)
		if err != nil {
			return nil, err
		}
		b.Add(job)
	}
	return b, nil
}
