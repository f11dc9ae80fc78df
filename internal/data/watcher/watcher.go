// Package watcher reports changes to CSV data files.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/util"
)

type FileWatcher struct {
	watcher   *fsnotify.Watcher
	paths     []string
	events    chan model.FileEvent
	done      chan struct{}
	closeOnce sync.Once

	// last fingerprint reported per file; touched only by processEvents
	seen map[string]util.FileFingerprint
}

// NewFileWatcher watches every directory under paths. A file path is
// watched through its parent directory.
func NewFileWatcher(paths []string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: w,
		paths:   paths,
		events:  make(chan model.FileEvent, 100),
		done:    make(chan struct{}),
		seen:    make(map[string]util.FileFingerprint),
	}

	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fw.watcher.Add(filepath.Dir(path))
	}

	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return fw.watcher.Add(p)
		}
		return nil
	})
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)
	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !IsDataFile(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			if fw.unchanged(event) {
				util.LogDebug("Skipping unchanged file", util.Field{Key: "path", Value: event.Name})
				continue
			}
			select {
			case fw.events <- model.FileEvent{Path: event.Name, Operation: event.Op.String()}:
			case <-fw.done:
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error", util.Field{Key: "error", Value: err.Error()})
		}
	}
}

// unchanged reports whether a write left the file content as it was last
// reported. Removals and renames forget the file.
func (fw *FileWatcher) unchanged(event fsnotify.Event) bool {
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		delete(fw.seen, event.Name)
		return false
	}
	fp, err := util.CalculateFileFingerprint(event.Name)
	if err != nil {
		delete(fw.seen, event.Name)
		return false
	}
	prev, ok := fw.seen[event.Name]
	fw.seen[event.Name] = fp
	return ok && prev.SameContent(fp)
}

// IsDataFile reports whether name looks like a CSV table.
func IsDataFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

func (fw *FileWatcher) Paths() []string {
	return fw.paths
}

func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
