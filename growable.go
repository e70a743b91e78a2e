// Package growable generates Java and Scala data types from schema
// documents. Schemas declare records, interfaces and enums; records carry
// versioned fields so generated types stay binary compatible as the schema
// grows. Optionally a set of sjson-new JSON codecs is generated alongside.
//
// The package wires the pipeline end to end: compiler/load parses schema
// documents, compiler/gen resolves them into a graph and drives emission,
// and the per-language emitters render the sources.
package growable

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/growable/growable/compiler/gen"
	"github.com/growable/growable/compiler/gen/codec"
	"github.com/growable/growable/compiler/gen/java"
	"github.com/growable/growable/compiler/gen/scala"
	"github.com/growable/growable/compiler/load"
)

// Render resolves the parsed schema and renders every source file in memory.
// The result maps destination paths, relative to the output directory, to
// rendered text. Any resolution or emission failure returns a nil map; no
// partial output is ever produced.
func Render(ctx context.Context, s *load.Schema, opts ...gen.Option) (map[string]string, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return render(ctx, cfg, s)
}

func render(ctx context.Context, cfg *gen.Config, s *load.Schema) (map[string]string, error) {
	graph, err := gen.NewGraph(cfg, s)
	if err != nil {
		return nil, err
	}
	return gen.NewGenerator(graph).
		WithEmitter(java.New()).
		WithEmitter(scala.New()).
		WithCodec(codec.New()).
		Generate(ctx)
}

// Generate discovers schema documents under the configured source directory,
// renders all sources and writes them under the configured output directory.
// Output is written only after every file rendered successfully.
func Generate(ctx context.Context, logger zerolog.Logger, opts ...gen.Option) error {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return err
	}
	if cfg.SourceDir == "" {
		return gen.NewConfigError("SourceDir", nil, "source directory is required: use WithSourceDir()")
	}
	if cfg.OutputDir == "" {
		return gen.NewConfigError("OutputDir", nil, "output directory is required: use WithOutputDir()")
	}
	s, err := load.Directory(cfg.SourceDir)
	if err != nil {
		return err
	}
	logger.Debug().Str("source", cfg.SourceDir).Int("types", len(s.Types)).Msg("schemas loaded")

	files, err := render(ctx, cfg, s)
	if err != nil {
		return err
	}
	for rel, src := range files {
		dst := filepath.Join(cfg.OutputDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, []byte(src), 0o644); err != nil {
			return err
		}
		logger.Debug().Str("file", rel).Msg("source written")
	}
	logger.Info().Int("files", len(files)).Str("output", cfg.OutputDir).Msg("generation complete")
	return nil
}
