// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	bb "github.com/db47h/breadboard"
	"github.com/db47h/breadboard/internal/logging"
	"github.com/db47h/breadboard/internal/metrics"
	"github.com/db47h/breadboard/internal/telemetry"
	"github.com/db47h/breadboard/store"
	"github.com/db47h/breadboard/trace"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type runOpts struct {
	traceOut string
	save     string
	noColor  bool
}

func newRunCmd(a *app) *cobra.Command {
	var o runOpts
	cmd := &cobra.Command{
		Use:   "run <circuit.yaml>",
		Short: "Build a circuit and play its pin script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0], &o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.traceOut, "trace", "t", "", "write a plot of the board pin traces to `file` (.svg, .png or .pdf)")
	f.StringVarP(&o.save, "save", "s", "", "save the circuit and its traces under `name` in the data directory")
	f.BoolVar(&o.noColor, "no-color", false, "disable colored output")
	return cmd
}

func (a *app) run(cmd *cobra.Command, file string, o *runOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.noColor {
		color.NoColor = true
	}

	cf, err := readCircuitFile(file)
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     a.cfg.Tracing,
		SampleRatio: a.cfg.TraceRatio,
		Output:      cmd.ErrOrStderr(),
	}, a.log)
	if err != nil {
		return err
	}
	defer telemetry.Shutdown(ctx, shutdown, a.log)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}
	if a.cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              a.cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.log.Error(ctx, "metrics server", logging.Error(err))
			}
		}()
		defer srv.Close()
		a.log.Info(ctx, "serving metrics", logging.String("addr", a.cfg.MetricsAddr))
	}

	out := cmd.OutOrStdout()
	c := bb.New(
		bb.WithMaxDepth(a.cfg.MaxDepth),
		bb.WithLogger(a.log),
		bb.WithRenderer(newTermRenderer(out)),
		bb.WithNotifier(newTermNotifier(out)),
		bb.WithMetrics(m),
	)
	byName, err := cf.build(c)
	if err != nil {
		return err
	}
	rec := trace.New(c)

	if err = c.Start(ctx); err != nil {
		a.log.Warn(ctx, "simulation started with errors", logging.Error(err))
	}
	r := &runner{byName: byName, tick: a.cfg.PWMTick, sleep: time.Sleep}
	runErr := r.run(cf.Script)
	data := rec.SaveData()
	c.Stop(ctx)
	if runErr != nil {
		return runErr
	}

	if o.traceOut != "" {
		if err = writePlot(o.traceOut, data); err != nil {
			return err
		}
	}
	if o.save != "" {
		s, err := store.Open(a.cfg.DataDir)
		if err != nil {
			return err
		}
		id, err := s.Save(o.save, c.Save())
		if err != nil {
			return err
		}
		if err = s.SaveTrace(id, data); err != nil {
			return err
		}
		a.log.Info(ctx, "circuit saved", logging.String("id", id), logging.String("dir", s.Dir()))
	}
	return nil
}

func writePlot(name string, d trace.Data) error {
	format := strings.TrimPrefix(filepath.Ext(name), ".")
	if format == "" {
		format = "svg"
	}
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "trace output")
	}
	if err = trace.Plot(f, d, format); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "trace output")
}
