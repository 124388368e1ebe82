package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/tuannm99/novabind/internal/batch"
	"github.com/tuannm99/novabind/internal/bufferpool"
)

type report struct {
	Plan    string         `yaml:"plan"`
	BatchID string         `yaml:"batch_id"`
	Rows    int            `yaml:"rows"`
	Elapsed time.Duration  `yaml:"elapsed"`
	Columns []columnReport `yaml:"columns"`
	Pool    poolReport     `yaml:"pool"`
}

type columnReport struct {
	Index      int    `yaml:"index"`
	Tag        string `yaml:"tag"`
	CappedSize int    `yaml:"capped_size"`
	Fixed      bool   `yaml:"fixed"`
	Written    int    `yaml:"written"`
	BufferSize int    `yaml:"buffer_size"`
}

type poolReport struct {
	Hits     int `yaml:"hits"`
	Misses   int `yaml:"misses"`
	Retained int `yaml:"retained"`
}

func newReport(name string, res *batch.Result, elapsed time.Duration, st bufferpool.Stats) report {
	r := report{
		Plan:    name,
		BatchID: res.ID.String(),
		Rows:    res.Rows,
		Elapsed: elapsed,
		Pool:    poolReport{Hits: st.Hits, Misses: st.Misses, Retained: st.Retained},
	}
	for _, c := range res.Columns {
		d := c.Diagnostics()
		r.Columns = append(r.Columns, columnReport{
			Index:      d.Column,
			Tag:        d.Tag.String(),
			CappedSize: d.CappedSize,
			Fixed:      d.Fixed,
			Written:    d.Written,
			BufferSize: d.BufferSize,
		})
	}
	return r
}

func (r report) writeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

func (r report) writeText(w io.Writer) error {
	fmt.Fprintf(w, "plan %s  batch %s  rows %s  in %s\n\n",
		r.Plan, r.BatchID, humanize.Comma(int64(r.Rows)), r.Elapsed.Round(time.Microsecond))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COL\tTAG\tSLOT\tWRITTEN\tBUFFER")
	for _, c := range r.Columns {
		slot := "var"
		if c.Fixed {
			slot = humanize.Bytes(uint64(c.CappedSize))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			c.Index, c.Tag, slot, humanize.Bytes(uint64(c.Written)), humanize.Bytes(uint64(c.BufferSize)))
	}
	return tw.Flush()
}
