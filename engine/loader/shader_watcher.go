package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

func (l *loader) WatchShader(m material.Material, vertexPath, fragmentPath string) error {
	if m == nil || m.Kind() != material.KindShader {
		return fmt.Errorf("loader: WatchShader needs a shader material")
	}

	l.mu.RLock()
	closed := l.closed
	l.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	vertexPath, err := filepath.Abs(vertexPath)
	if err != nil {
		return err
	}
	fragmentPath, err = filepath.Abs(fragmentPath)
	if err != nil {
		return err
	}

	w := &shaderWatch{material: m, vertexPath: vertexPath, fragmentPath: fragmentPath}
	update, err := w.read()
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}

	if l.watcher == nil {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		l.watcher = watcher
		l.watchDone = make(chan struct{})
		go l.watchLoop(watcher, l.watchDone)
	}

	// Directories are watched so editors that replace files by rename keep triggering events.
	for _, path := range []string{vertexPath, fragmentPath} {
		if err := l.watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		l.watches[path] = append(l.watches[path], w)
	}

	l.queue(update)
	common.Logger().Info("watching shader sources", "material", m.Name(), "vertex", vertexPath, "fragment", fragmentPath)
	return nil
}

func (w *shaderWatch) read() (material.SourceUpdate, error) {
	vertex, err := os.ReadFile(w.vertexPath)
	if err != nil {
		return material.SourceUpdate{}, fmt.Errorf("failed to read vertex shader: %w", err)
	}
	fragment, err := os.ReadFile(w.fragmentPath)
	if err != nil {
		return material.SourceUpdate{}, fmt.Errorf("failed to read fragment shader: %w", err)
	}
	return material.SourceUpdate{Material: w.material, Vertex: string(vertex), Fragment: string(fragment)}, nil
}

// queue replaces any pending update for the same material. Callers hold l.mu.
func (l *loader) queue(u material.SourceUpdate) {
	for i := range l.updates {
		if l.updates[i].Material == u.Material {
			l.updates[i] = u
			return
		}
	}
	l.updates = append(l.updates, u)
}

func (l *loader) watchLoop(w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			l.reload(filepath.Clean(event.Name))
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			common.Logger().Warn("shader watcher error", "error", err)
		}
	}
}

func (l *loader) reload(path string) {
	l.mu.RLock()
	watches := append([]*shaderWatch(nil), l.watches[path]...)
	l.mu.RUnlock()

	for _, w := range watches {
		update, err := w.read()
		if err != nil {
			common.Logger().Warn("shader reload failed", "material", w.material.Name(), "error", err)
			continue
		}
		l.mu.Lock()
		l.queue(update)
		l.mu.Unlock()
		common.Logger().Debug("shader source changed", "material", w.material.Name(), "file", path)
	}
}
