package infra

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// ConfigStore holds the live configuration snapshot.
// Readers always see a complete, validated Config.
type ConfigStore struct {
	path    string
	current atomic.Pointer[Config]
}

// NewConfigStore wraps an already loaded configuration
func NewConfigStore(path string, cfg *Config) *ConfigStore {
	s := &ConfigStore{path: path}
	s.current.Store(cfg)
	return s
}

// Current returns the latest configuration
func (s *ConfigStore) Current() *Config {
	return s.current.Load()
}

// Path returns the watched file
func (s *ConfigStore) Path() string {
	return s.path
}

// Reload re-reads the file (plus env overrides) and swaps the snapshot.
// On error the previous configuration stays active.
func (s *ConfigStore) Reload() (*Config, error) {
	cfg, err := LoadConfig(s.path)
	if err != nil {
		return nil, err
	}
	s.current.Store(cfg)
	return cfg, nil
}

// Watch hot-reloads the configuration whenever the file changes.
// Call the returned stop function to clean up.
func (s *ConfigStore) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(s.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher add %s: %w", s.path, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					if _, err := s.Reload(); err != nil {
						slog.Warn("Config reload skipped", slog.Any("error", err))
						continue
					}
					slog.Info("Config reloaded", slog.String("path", s.path))
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("Config watcher error", slog.Any("error", err))
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}
