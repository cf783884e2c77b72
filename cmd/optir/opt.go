/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/cloudwego/optir"
	"github.com/cloudwego/optir/debug"
	"github.com/cloudwego/optir/internal/cache"
	"github.com/cloudwego/optir/internal/opts"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type optFlags struct {
	rounds       int
	noPeephole   bool
	noConstProp  bool
	verify       bool
	config       string
	cache        bool
	cacheDir     string
	dumpDataflow bool
	output       string
	jobs         int
}

// optResult is what one input file produced, it is printed in argument
// order once every file is done.
type optResult struct {
	path   string
	output string
	trace  bytes.Buffer
	cached bool
	stats  optir.Stats
	err    error
}

func newOptCmd() *cobra.Command {
	var f optFlags
	cmd := &cobra.Command{
		Use:   "opt [flags] <file.ir>...",
		Short: "Optimize one or more modules and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpt(cmd, &f, args)
		},
	}
	cmd.Flags().IntVar(&f.rounds, "rounds", opts.MaxRounds, "maximum number of peephole rounds")
	cmd.Flags().BoolVar(&f.noPeephole, "no-peephole", false, "disable DCE, constant folding and CSE")
	cmd.Flags().BoolVar(&f.noConstProp, "no-constprop", false, "disable constant propagation")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "verify the IR after optimizing")
	cmd.Flags().StringVar(&f.config, "config", "", "read options from a TOML file")
	cmd.Flags().BoolVar(&f.cache, "cache", false, "reuse results from the on-disk cache")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "", "cache directory (default $XDG_CACHE_HOME/optir)")
	cmd.Flags().BoolVar(&f.dumpDataflow, "dump-dataflow", false, "dump the reaching stores of every block after optimizing")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the result to a file, single input only")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "max parallel workers (0=auto)")
	return cmd
}

// options merges the config file and the flags, flags take precedence.
func (f *optFlags) options(cmd *cobra.Command) ([]optir.Option, error) {
	var ret []optir.Option
	if f.config != "" {
		cfg, err := opts.LoadFile(f.config)
		if err != nil {
			return nil, err
		}
		ret = append(ret, cfg.Apply)
	}

	/* explicitly set flags only */
	flags := cmd.Flags()
	if flags.Changed("rounds") {
		if f.rounds < 1 {
			return nil, fmt.Errorf("--rounds must be at least 1, got %d", f.rounds)
		}
		ret = append(ret, optir.WithMaxRounds(f.rounds))
	}
	if flags.Changed("no-peephole") {
		ret = append(ret, optir.WithPeephole(!f.noPeephole))
	}
	if flags.Changed("no-constprop") {
		ret = append(ret, optir.WithConstProp(!f.noConstProp))
	}
	if flags.Changed("verify") {
		ret = append(ret, optir.WithVerify(f.verify))
	}
	return ret, nil
}

func runOpt(cmd *cobra.Command, f *optFlags, args []string) error {
	if f.output != "" && len(args) != 1 {
		return errors.New("-o requires exactly one input file")
	}

	/* options shared by every file */
	options, err := f.options(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	options = append(options, optir.WithLogger(logger))

	/* the resolved options make up the cache key */
	resolved := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&resolved)
	}

	/* result cache */
	var dc *cache.Cache
	if f.cache {
		if dc, err = cache.Open(f.cacheDir); err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	/* optimize every file concurrently */
	jobs := f.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*optResult, len(args))
	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(min(jobs, len(args)))
	for i, path := range args {
		i := i
		results[i] = &optResult{path: path}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			optimizeFile(results[i], f, options, &resolved, dc, quiet)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	/* print in argument order */
	failed := 0
	for _, r := range results {
		if _, err = r.trace.WriteTo(cmd.ErrOrStderr()); err != nil {
			return err
		}
		if r.err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", r.err)
			continue
		}
		logger.Info("optimized", "file", r.path, "cached", r.cached, "stats", r.stats.String())
		if err = writeOutput(cmd.OutOrStdout(), f.output, r.output); err != nil {
			return err
		}
	}

	/* exit status */
	if failed != 0 {
		return fmt.Errorf("%d of %d module(s) failed", failed, len(args))
	}
	return nil
}

func optimizeFile(r *optResult, f *optFlags, options []optir.Option, resolved *opts.Options, dc *cache.Cache, quiet bool) {
	src, err := os.ReadFile(r.path)
	if err != nil {
		r.err = &optir.LoadError{Path: r.path, Err: err}
		return
	}

	/* cached result, the trace is replayed from the entry */
	key := cache.Key(src, resolved)
	if !f.dumpDataflow {
		var e cache.Entry
		if ok, err := dc.Get(key, &e); err != nil {
			r.err = err
			return
		} else if ok {
			r.output, r.stats, r.cached = e.Output, e.Stats, true
			if !quiet {
				r.trace.WriteString(e.Trace)
			}
			return
		}
	}

	/* load the module */
	m, err := optir.Load(r.path, src)
	if err != nil {
		r.err = err
		return
	}

	/* optimize it, the trace is always recorded so it can be cached */
	var tr bytes.Buffer
	options = append(options[:len(options):len(options)], optir.WithTracer(newTraceWriter(&tr)))
	if r.stats, err = optir.Optimize(m, options...); err != nil {
		r.err = err
		return
	}

	/* save the result */
	r.output = m.String()
	if !quiet {
		r.trace.Write(tr.Bytes())
	}
	if f.dumpDataflow {
		debug.Dump(&r.trace, m)
	}
	r.err = dc.Put(key, &cache.Entry{Module: r.path, Output: r.output, Trace: tr.String(), Stats: r.stats})
}

func writeOutput(stdout io.Writer, path string, text string) error {
	if path == "" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
