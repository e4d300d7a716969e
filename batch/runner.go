// Package batch converts every PSD document under a directory tree into a
// flattened raster, mirroring the tree into an output directory.
//
// Failures are per document: a document that cannot be decoded, has no
// visible layers, mixes layer sizes or cannot be encoded is logged, counted
// in the Summary and skipped. Only problems with the directories themselves
// stop a run.
package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/setanarut/psdsheet"
	"github.com/setanarut/psdsheet/psdfile"
	"github.com/setanarut/psdsheet/utils"
)

var (
	ErrInputNotFound       = errors.New("no such directory")
	ErrOutputOverlapsInput = errors.New("output directory overlaps input directory")
)

// DocumentError records why one document was skipped.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *DocumentError) Unwrap() error { return e.Err }

// Summary counts the outcome of a run.
type Summary struct {
	// Processed is the number of documents written.
	Processed int
	// Failed documents are listed in Errors.
	Failed int
	// Skipped counts regular files that are not PSD documents.
	Skipped int
	// Bytes is the total size of all written rasters.
	Bytes  uint64
	Errors []*DocumentError
}

// OpenFunc decodes the document at path.
type OpenFunc func(path string) (psdsheet.Document, error)

func openPSD(path string) (psdsheet.Document, error) {
	return psdfile.Open(path)
}

type Runner struct {
	Config Config
	// Open defaults to the oov/psd decoder.
	Open OpenFunc
}

func NewRunner(cfg Config) *Runner {
	return &Runner{Config: cfg, Open: openPSD}
}

// Run walks Config.Input in lexical order. It returns an error only when the
// run cannot start or the output tree cannot be created; per-document
// failures are reported in the Summary.
func (r *Runner) Run() (Summary, error) {
	var sum Summary
	cfg := r.Config
	if err := cfg.Validate(); err != nil {
		return sum, err
	}
	ext, _ := utils.Ext(cfg.Format)
	method, _ := utils.ParsePaletteMethod(cfg.Palette.Method)
	open := r.Open
	if open == nil {
		open = openPSD
	}

	if info, err := os.Stat(cfg.Input); err != nil || !info.IsDir() {
		return sum, fmt.Errorf("%w: %s", ErrInputNotFound, cfg.Input)
	}
	if err := checkOverlap(cfg.Input, cfg.Output); err != nil {
		return sum, err
	}
	if cfg.Clean {
		if err := os.RemoveAll(cfg.Output); err != nil {
			return sum, fmt.Errorf("cleaning output: %w", err)
		}
	}
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return sum, fmt.Errorf("creating output: %w", err)
	}

	log := psdsheet.Logger()
	job := document{cfg: cfg, ext: ext, method: method}
	err := filepath.WalkDir(cfg.Input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(cfg.Input, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			return os.MkdirAll(filepath.Join(cfg.Output, rel), 0o755)
		}
		if !isPSD(path) {
			sum.Skipped++
			return nil
		}

		n, err := job.convert(open, path, rel)
		if err != nil {
			derr := &DocumentError{Path: path, Err: err}
			sum.Failed++
			sum.Errors = append(sum.Errors, derr)
			log.Error("document failed", slog.String("path", path), slog.Any("err", err))
			return nil
		}
		sum.Processed++
		sum.Bytes += n
		log.Info("wrote sheet", slog.String("path", rel), slog.String("size", humanize.Bytes(n)))
		return nil
	})
	if err != nil {
		return sum, fmt.Errorf("walking %s: %w", cfg.Input, err)
	}
	log.Info("batch finished",
		slog.Int("processed", sum.Processed),
		slog.Int("failed", sum.Failed),
		slog.Int("skipped", sum.Skipped),
		slog.String("written", humanize.Bytes(sum.Bytes)))
	return sum, nil
}

func isPSD(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".psd")
}

// checkOverlap rejects an output directory equal to, inside, or containing
// the input directory.
func checkOverlap(in, out string) error {
	absIn, err := filepath.Abs(in)
	if err != nil {
		return err
	}
	absOut, err := filepath.Abs(out)
	if err != nil {
		return err
	}
	if within(absIn, absOut) || within(absOut, absIn) {
		return fmt.Errorf("%w: %s and %s", ErrOutputOverlapsInput, in, out)
	}
	return nil
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// document holds the per-run settings used to convert each file.
type document struct {
	cfg    Config
	ext    string
	method utils.PaletteMethod
}

// convert builds and writes one sheet and returns the encoded size.
func (j document) convert(open OpenFunc, path, rel string) (uint64, error) {
	doc, err := open(path)
	if err != nil {
		return 0, fmt.Errorf("decoding: %w", err)
	}
	opt := psdsheet.DefaultOptions()
	opt.OverlayMarker = j.cfg.OverlayMarker
	sheet, err := psdsheet.NewSheetBuilder(doc).Build(opt)
	if err != nil {
		return 0, err
	}

	base := filepath.Join(j.cfg.Output, strings.TrimSuffix(rel, filepath.Ext(rel)))
	out := base + j.ext
	if err := utils.SaveImage(sheet.Image, out); err != nil {
		return 0, fmt.Errorf("encoding: %w", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		return 0, err
	}

	var palette []string
	if j.cfg.Palette.Size > 0 {
		colors := utils.ExtractPalette(sheet.Image, j.cfg.Palette.Size, j.method)
		palette = utils.PaletteHex(colors)
		if j.cfg.Palette.Swatch && len(colors) > 0 {
			if err := utils.SavePalette(colors, j.cfg.Palette.TileSize, base+".palette.png"); err != nil {
				return 0, fmt.Errorf("writing palette: %w", err)
			}
		}
	}
	if j.cfg.Manifest {
		m := newManifest(rel, filepath.Base(out), sheet, palette)
		if err := m.write(base + ".json"); err != nil {
			return 0, fmt.Errorf("writing manifest: %w", err)
		}
	}
	return uint64(info.Size()), nil
}
