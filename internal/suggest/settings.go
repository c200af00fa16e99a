package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/BhanuIITMandi/SprintSync/internal/config"
)

// debounceInterval is the delay after an fsnotify event before re-reading the
// settings file, letting atomic write+rename sequences settle.
const debounceInterval = 100 * time.Millisecond

// Settings is the effective generator configuration for one request.
type Settings struct {
	ForceStub bool   `yaml:"force_stub"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
}

// SettingsSource resolves the settings from the environment, optionally
// overridden by a YAML file that can be edited while the server runs. Each
// request reads a consistent snapshot via Current.
type SettingsSource struct {
	base Settings
	file string

	mu       sync.RWMutex
	resolved Settings
}

func NewSettingsSource(env config.AIEnv) *SettingsSource {
	base := Settings{
		ForceStub: env.ForceStub,
		APIKey:    env.APIKey,
		BaseURL:   env.BaseURL,
		Model:     env.Model,
	}
	s := &SettingsSource{
		base:     base,
		file:     env.SettingsFile,
		resolved: base,
	}
	if s.file != "" {
		s.reload()
	}
	return s
}

// Current returns the settings snapshot to use for a single request.
func (s *SettingsSource) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved
}

// reload merges the override file over the environment baseline. A missing
// or unreadable file falls back to the baseline alone.
func (s *SettingsSource) reload() {
	resolved := s.base

	data, err := os.ReadFile(s.file)
	if err == nil {
		var override struct {
			ForceStub *bool   `yaml:"force_stub"`
			APIKey    *string `yaml:"api_key"`
			BaseURL   *string `yaml:"base_url"`
			Model     *string `yaml:"model"`
		}
		if err := yaml.Unmarshal(data, &override); err != nil {
			slog.Warn("failed to parse settings file, keeping previous settings",
				slog.String("file", s.file), slog.String("error", err.Error()))
			return
		}
		if override.ForceStub != nil {
			resolved.ForceStub = *override.ForceStub
		}
		if override.APIKey != nil {
			resolved.APIKey = *override.APIKey
		}
		if override.BaseURL != nil {
			resolved.BaseURL = *override.BaseURL
		}
		if override.Model != nil {
			resolved.Model = *override.Model
		}
	} else if !os.IsNotExist(err) {
		slog.Warn("failed to read settings file",
			slog.String("file", s.file), slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	s.resolved = resolved
	s.mu.Unlock()
}

// Watch blocks until ctx is done, re-reading the settings file whenever it
// changes on disk. It watches the parent directory because editors and config
// tools typically replace the file with a rename, which changes the inode.
func (s *SettingsSource) Watch(ctx context.Context) error {
	if s.file == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}
	defer watcher.Close()

	watchDir := filepath.Dir(s.file)
	fileName := filepath.Base(s.file)
	if err := watcher.Add(watchDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", watchDir, err)
	}
	slog.InfoContext(ctx, "watching settings file", slog.String("file", s.file))

	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != fileName {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, func() {
				s.reload()
				slog.Info("settings reloaded", slog.String("file", s.file))
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "settings watcher error", slog.String("error", err.Error()))

		case <-ctx.Done():
			return nil
		}
	}
}
