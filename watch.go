package growable

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/growable/growable/compiler/gen"
)

// watchDebounce coalesces bursts of file system events (editors often fire
// several per save) into a single regeneration.
const watchDebounce = 250 * time.Millisecond

// Watcher regenerates sources whenever a schema document under the source
// directory changes. A failing regeneration keeps the previous output on
// disk and is retried on the next change.
type Watcher struct {
	logger  zerolog.Logger
	opts    []gen.Option
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher over the configured source directory and runs
// one initial generation. The options must include WithSourceDir and
// WithOutputDir.
func NewWatcher(ctx context.Context, logger zerolog.Logger, opts ...gen.Option) (*Watcher, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	if cfg.SourceDir == "" {
		return nil, gen.NewConfigError("SourceDir", nil, "source directory is required: use WithSourceDir()")
	}
	if err := Generate(ctx, logger, opts...); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(cfg.SourceDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch directory %s: %w", cfg.SourceDir, err)
	}

	w := &Watcher{
		logger:  logger,
		opts:    opts,
		watcher: fw,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go w.watchLoop(ctx)

	logger.Info().Str("source", cfg.SourceDir).Msg("watching schema directory for changes")
	return w, nil
}

// Stop stops watching and waits for the loop to exit.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	<-w.doneCh
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isSchemaFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("schema file changed")
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if err := Generate(ctx, w.logger, w.opts...); err != nil {
				w.logger.Error().Err(err).Msg("regeneration failed, keeping previous output")
				continue
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yml", ".yaml":
		return true
	default:
		return false
	}
}
