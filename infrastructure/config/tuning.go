package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"mindgraph-backend/domain/graph"
	"mindgraph-backend/domain/layout"
)

// Tuning is the runtime-changeable graph and layout configuration.
// Operators adjust these without redeploying; open sessions pick up the
// new values on their next rebuild.
type Tuning struct {
	Graph  graph.BuildConfig `yaml:"graph"`
	Layout layout.Config     `yaml:"layout"`
}

// DefaultTuning returns the reference tuning for both stages
func DefaultTuning() Tuning {
	return Tuning{
		Graph:  graph.DefaultBuildConfig(),
		Layout: layout.DefaultConfig(),
	}
}

// LoadTuningFile reads a YAML tuning overlay. Omitted fields keep their
// defaults.
func LoadTuningFile(path string) (Tuning, error) {
	tuning := DefaultTuning()

	data, err := os.ReadFile(path)
	if err != nil {
		return tuning, fmt.Errorf("failed to read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return tuning, fmt.Errorf("failed to parse tuning file: %w", err)
	}
	return tuning, nil
}

// TuningWatcher watches the tuning overlay file for changes
type TuningWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	mu       sync.RWMutex
	current  Tuning
	onChange []func(Tuning)

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewTuningWatcher loads the initial tuning and starts watching the file.
// Editors and configuration management tools often replace files by
// rename, so the parent directory is watched as well.
func NewTuningWatcher(path string, logger *zap.Logger) (*TuningWatcher, error) {
	tuning, err := LoadTuningFile(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch tuning file: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("Failed to watch tuning directory", zap.Error(err))
	}

	tw := &TuningWatcher{
		path:    path,
		watcher: watcher,
		logger:  logger,
		current: tuning,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	go tw.watch()
	return tw, nil
}

// Current returns the active tuning
func (tw *TuningWatcher) Current() Tuning {
	tw.mu.RLock()
	defer tw.mu.RUnlock()
	return tw.current
}

// OnChange registers a callback invoked with every reloaded tuning
func (tw *TuningWatcher) OnChange(fn func(Tuning)) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.onChange = append(tw.onChange, fn)
}

// Stop terminates the watcher
func (tw *TuningWatcher) Stop() {
	close(tw.stopCh)
	<-tw.doneCh
	tw.watcher.Close()
}

func (tw *TuningWatcher) watch() {
	defer close(tw.doneCh)

	// Editors fire bursts of events for one save; debounce them.
	var reloadTimer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-tw.stopCh:
			return

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(tw.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(100*time.Millisecond, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			tw.reload()

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			tw.logger.Error("Tuning watcher error", zap.Error(err))
		}
	}
}

func (tw *TuningWatcher) reload() {
	tuning, err := LoadTuningFile(tw.path)
	if err != nil {
		tw.logger.Error("Failed to reload tuning file; keeping previous values",
			zap.String("path", tw.path),
			zap.Error(err),
		)
		return
	}

	tw.mu.Lock()
	tw.current = tuning
	callbacks := make([]func(Tuning), len(tw.onChange))
	copy(callbacks, tw.onChange)
	tw.mu.Unlock()

	tw.logger.Info("Tuning reloaded",
		zap.String("path", tw.path),
		zap.Int("maxEdgesPerNode", tuning.Graph.MaxEdgesPerNode),
	)
	for _, fn := range callbacks {
		fn(tuning)
	}
}
