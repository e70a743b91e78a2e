// Command growable generates Java and Scala data types, and optionally
// sjson-new JSON codecs, from JSON or YAML schema documents.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/growable/growable"
	"github.com/growable/growable/compiler/gen"
)

var (
	sourceDir      string
	outputDir      string
	header         string
	workers        int
	sealInterfaces bool
	codecNamespace string
	fullCodecName  string
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "growable",
	Short: "Generate growable data types from schema documents",
	Long: `growable generates Java and Scala data types from JSON or YAML schema
documents. Fields annotated with a since version produce one constructor
per schema version, so consumers compiled against an older schema keep
working as the schema grows.

Examples:
  growable generate --source schema/ --output src/main/
  growable generate --source schema/ --output src/main/ --seal
  growable watch --source schema/ --output src/main/`,
	SilenceUsage: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate sources once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return growable.Generate(cmd.Context(), newLogger(), options()...)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Generate sources and regenerate on schema changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		w, err := growable.NewWatcher(ctx, newLogger(), options()...)
		if err != nil {
			return err
		}
		<-ctx.Done()
		w.Stop()
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{generateCmd, watchCmd} {
		cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "Directory containing schema documents (required)")
		cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory generated sources are written to (required)")
		cmd.Flags().StringVar(&header, "header", "", "Override the generated file header comment")
		cmd.Flags().IntVar(&workers, "workers", 0, "Number of parallel emission workers (default: number of CPUs)")
		cmd.Flags().BoolVar(&sealInterfaces, "seal", false, "Generate Scala interfaces as sealed")
		cmd.Flags().StringVar(&codecNamespace, "codec-namespace", "", "Generate JSON codecs under this namespace")
		cmd.Flags().StringVar(&fullCodecName, "full-codec", "", "Name of the aggregate codec (requires --codec-namespace)")
		cobra.CheckErr(cmd.MarkFlagRequired("source"))
		cobra.CheckErr(cmd.MarkFlagRequired("output"))
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(generateCmd, watchCmd)
}

func options() []gen.Option {
	opts := []gen.Option{
		gen.WithSourceDir(sourceDir),
		gen.WithOutputDir(outputDir),
		gen.WithSealedInterfaces(sealInterfaces),
	}
	if header != "" {
		opts = append(opts, gen.WithHeader(header))
	}
	if workers > 0 {
		opts = append(opts, gen.WithWorkers(workers))
	}
	if codecNamespace != "" {
		opts = append(opts, gen.WithCodec(codecNamespace, fullCodecName))
	}
	return opts
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
