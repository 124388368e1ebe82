// novabind binds the columns of a load plan into array-bind buffers and
// reports what was produced.
//
//	novabind [-c config.yaml] [--format text|yaml] [--spool out.nvbs] [--arrow out.arrows] plan.yaml
//
// The spool file holds the column frames for the transport layer; the Arrow
// file is an IPC stream for inspection with Arrow tooling.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/sourcegraph/conc"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/tuannm99/novabind/internal"
	"github.com/tuannm99/novabind/internal/alias/util"
	"github.com/tuannm99/novabind/internal/batch"
	"github.com/tuannm99/novabind/internal/bufferpool"
	"github.com/tuannm99/novabind/internal/colarrow"
	"github.com/tuannm99/novabind/internal/metrics"
	"github.com/tuannm99/novabind/internal/plan"
	"github.com/tuannm99/novabind/internal/spool"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	config    string
	format    string
	spoolPath string
	arrowPath string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options

	fs := pflag.NewFlagSet("novabind", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.config, "config", "c", "", "path to config YAML")
	fs.StringVar(&opts.format, "format", "text", "report format: text or yaml")
	fs.StringVar(&opts.spoolPath, "spool", "", "write the bound columns to this spool file")
	fs.StringVar(&opts.arrowPath, "arrow", "", "write the bound columns as an Arrow IPC stream")
	fs.Int("workers", 0, "columns bound in parallel (0 = GOMAXPROCS)")
	fs.String("compression", "", "spool compression: none, lz4 or zstd")
	fs.String("log-level", "", "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected one plan file, got %d arguments", fs.NArg())
	}
	if opts.format != "text" && opts.format != "yaml" {
		return fmt.Errorf("unknown report format %q", opts.format)
	}

	v := internal.NewViper()
	for key, flag := range map[string]string{
		"bind.max_workers":  "workers",
		"spool.compression": "compression",
		"log.level":         "log-level",
	} {
		if f := fs.Lookup(flag); f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}
	cfg, err := internal.LoadConfig(v, opts.config)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	comp, err := spool.ParseCompression(cfg.Spool.Compression)
	if err != nil {
		return err
	}

	p, err := plan.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	rec, err := metrics.NewRecorder(nil)
	if err != nil {
		return err
	}
	pool := bufferpool.New(cfg.Bind.PoolCapacity)

	b, err := p.Batch(batch.Options{MaxWorkers: cfg.Bind.MaxWorkers, Recorder: rec}, cfg.BindOptions(pool)...)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := b.Bind(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	defer res.Release()

	slog.Info("novabind: batch bound",
		"app", cfg.AppName,
		"plan", p.Name,
		"batch", res.ID,
		"columns", len(res.Columns),
		"rows", res.Rows,
		"elapsed", elapsed,
	)

	if err := writeOutputs(res, opts, comp); err != nil {
		return err
	}

	r := newReport(p.Name, res, elapsed, pool.Stats())
	if opts.format == "yaml" {
		return r.writeYAML(stdout)
	}
	return r.writeText(stdout)
}

// writeOutputs writes the requested files side by side. Each writer holds
// the result until it is done.
func writeOutputs(res *batch.Result, opts options, comp spool.Compression) error {
	var (
		wg       conc.WaitGroup
		spoolErr error
		arrowErr error
	)
	if opts.spoolPath != "" {
		res.Retain()
		wg.Go(func() {
			defer res.Release()
			spoolErr = writeSpool(opts.spoolPath, res, comp)
		})
	}
	if opts.arrowPath != "" {
		res.Retain()
		wg.Go(func() {
			defer res.Release()
			arrowErr = writeArrow(opts.arrowPath, res)
		})
	}
	wg.Wait()
	return multierr.Combine(spoolErr, arrowErr)
}

// createFile opens an output file for writing.
var createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// writeFile creates path and fills it with write. A failed close fails the
// write, since buffered data may not have reached the file.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		util.CloseLogged(path, f)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func writeSpool(path string, res *batch.Result, comp spool.Compression) error {
	err := writeFile(path, func(f io.Writer) error {
		w, err := spool.NewWriter(f, res.ID, comp)
		if err != nil {
			return err
		}
		if err := w.WriteResult(res); err != nil {
			return err
		}
		return w.Close()
	})
	if err != nil {
		return err
	}
	slog.Debug("novabind: spool written", "path", path, "compression", comp)
	return nil
}

func writeArrow(path string, res *batch.Result) error {
	err := writeFile(path, func(f io.Writer) error {
		return colarrow.WriteIPC(f, memory.DefaultAllocator, res)
	})
	if err != nil {
		return err
	}
	slog.Debug("novabind: arrow stream written", "path", path)
	return nil
}
