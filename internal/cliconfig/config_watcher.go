package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher monitors the TOML config file via fsnotify and reloads it on
// change. Only runtime-safe settings take effect without a restart; the
// caller decides which those are in its callback.
type ConfigWatcher struct {
	path     string
	base     Config
	onChange func(Config)

	mu       sync.Mutex
	debounce *time.Timer
}

// NewConfigWatcher creates a watcher for path. base is the startup config;
// reloaded file values are layered over it so settings the file omits keep
// their flag- or env-provided values. onChange is invoked with the freshly
// loaded, validated config after each change.
func NewConfigWatcher(path string, base Config, onChange func(Config)) *ConfigWatcher {
	return &ConfigWatcher{path: path, base: base, onChange: onChange}
}

// Run watches the config file's directory until ctx is canceled. Watching
// the directory rather than the file survives the rename-on-save pattern
// editors and config management tools use.
func (w *ConfigWatcher) Run(ctx context.Context) {
	if w.path == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error().Err(err).Msg("config watcher: failed to create watcher")
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		logger.Error().Err(err).Str("dir", dir).Msg("config watcher: failed to watch")
		return
	}

	logger.Debug().Str("path", w.path).Msg("config watcher: started")

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounceReload(100 * time.Millisecond)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Error().Err(err).Msg("config watcher: error")
		}
	}
}

// debounceReload coalesces bursts of file events into one reload.
func (w *ConfigWatcher) debounceReload(delay time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(delay, w.reload)
}

func (w *ConfigWatcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		logger.Error().Err(err).Str("path", w.path).Msg("config watcher: reload failed")
		return
	}

	cfg := w.base
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		logger.Error().Err(err).Msg("config watcher: apply failed")
		return
	}
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("config watcher: new config invalid, keeping current")
		return
	}

	logger.Info().Str("path", w.path).Msg("config watcher: configuration reloaded")
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
