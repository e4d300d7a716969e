// psdsheet converts a directory tree of PSD documents into flattened
// images. Documents with more than one visible layer become sprite sheets:
// each visible layer is a cell, layers whose name carries the overlay marker
// ("[md]" by default) are merged into the cell before them, and cells are
// packed into a near-square grid.
//
// Usage:
//
//	psdsheet --in art/ --out build/art [--config psdsheet.yaml] [flags]
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/setanarut/psdsheet"
	"github.com/setanarut/psdsheet/batch"
)

// exitError carries a process exit code and, optionally, the message
// printed in place of err.
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return e.err.Error()
}

func (e *exitError) ExitCode() int { return e.code }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	if err := run(os.Args[1:]); err != nil {
		code := 1
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			code = coder.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(code)
	}
}

func run(args []string) error {
	var (
		configPath string
		verbose    bool
		cfg        = batch.DefaultConfig()
	)
	flagSet := pflag.NewFlagSet("psdsheet", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "YAML config file; flags override its values")
	flagSet.StringVar(&cfg.Input, "in", "", "directory containing psd files")
	flagSet.StringVar(&cfg.Output, "out", "", "directory to place output")
	flagSet.StringVar(&cfg.Format, "format", cfg.Format, "output format: png, bmp or tiff")
	flagSet.StringVar(&cfg.OverlayMarker, "marker", cfg.OverlayMarker, "layer name substring that merges a layer into the previous cell")
	flagSet.BoolVar(&cfg.Clean, "clean", cfg.Clean, "remove the output directory before converting")
	flagSet.BoolVar(&cfg.Manifest, "manifest", cfg.Manifest, "write a JSON manifest next to each image")
	flagSet.IntVar(&cfg.Palette.Size, "palette", cfg.Palette.Size, "number of palette colours to extract (0 disables)")
	flagSet.StringVar(&cfg.Palette.Method, "palette-method", cfg.Palette.Method, "palette method: dominantcolor or kmeans")
	flagSet.BoolVar(&cfg.Palette.Swatch, "palette-swatch", cfg.Palette.Swatch, "write a palette swatch png next to each image")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log per-layer decisions")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return &exitError{code: 2, err: err}
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return &exitError{code: 2, err: fmt.Errorf("unexpected argument: %s", rest[0])}
	}

	if configPath != "" {
		fileCfg, err := batch.LoadConfig(configPath)
		if err != nil {
			return &exitError{code: 2, err: err}
		}
		cfg = overlay(fileCfg, cfg, flagSet)
	}
	if err := cfg.Validate(); err != nil {
		return &exitError{code: 2, err: err}
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	psdsheet.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	fmt.Printf("Generating art assets: %s -> %s\n", cfg.Input, cfg.Output)
	sum, err := batch.NewRunner(cfg).Run()
	if errors.Is(err, batch.ErrInputNotFound) {
		return &exitError{code: 1, msg: "No such directory: " + cfg.Input, err: err}
	}
	if err != nil {
		return err
	}
	if sum.Processed+sum.Failed == 0 {
		fmt.Fprintf(os.Stderr, "ERROR: No psd files found under: %s\n", cfg.Input)
	}
	fmt.Printf("Processed %d files\n", sum.Processed)
	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", sum.Failed, sum.Processed+sum.Failed)
	}
	return nil
}

// overlay applies the flags the user set explicitly on top of the file
// config.
func overlay(file, flags batch.Config, fs *pflag.FlagSet) batch.Config {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("in", func() { file.Input = flags.Input })
	set("out", func() { file.Output = flags.Output })
	set("format", func() { file.Format = flags.Format })
	set("marker", func() { file.OverlayMarker = flags.OverlayMarker })
	set("clean", func() { file.Clean = flags.Clean })
	set("manifest", func() { file.Manifest = flags.Manifest })
	set("palette", func() { file.Palette.Size = flags.Palette.Size })
	set("palette-method", func() { file.Palette.Method = flags.Palette.Method })
	set("palette-swatch", func() { file.Palette.Swatch = flags.Palette.Swatch })
	return file
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `psdsheet: flatten PSD documents into images and sprite sheets.

Every .psd under --in is written to the same relative path under --out.
A document with several visible layers becomes a grid of cells; layers
named with the overlay marker are merged into the cell before them.

Usage:
  psdsheet --in DIR --out DIR [flags]

Flags:
%s`, flagSet.FlagUsages())
}
