package jointstate

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"go.viam.com/fk/logging"
	"go.viam.com/fk/utils"
)

// FileSource keeps a store in sync with a JSON file mapping joint names to values. The whole file is applied as one
// batch each time it changes. Names the tree does not declare are ignored; a file that fails to parse or carries a
// value the store rejects is logged and leaves the store alone.
type FileSource struct {
	path    string
	store   *Store
	logger  logging.Logger
	watcher *fsnotify.Watcher
	workers utils.StoppableWorkers

	loads    atomic.Uint64
	failures atomic.Uint64
}

// NewFileSource loads path into store and then watches it for changes until Close is called.
func NewFileSource(path string, store *Store, logger logging.Logger) (*FileSource, error) {
	path = filepath.Clean(path)
	fs := &FileSource{path: path, store: store, logger: logger}
	if err := fs.Load(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create joint file watcher")
	}
	// watch the directory so editors that replace the file by rename are still seen
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return nil, multierr.Combine(errors.Wrapf(err, "failed to watch %q", path), watcher.Close())
	}
	fs.watcher = watcher
	fs.workers = utils.NewStoppableWorkers(fs.watch)
	return fs, nil
}

func (fs *FileSource) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fs.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fs.path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := fs.Load(); err != nil {
				fs.logger.Warnw("ignoring joint file update", "path", fs.path, "error", err)
			}
		case err, ok := <-fs.watcher.Errors:
			if !ok {
				return
			}
			fs.logger.Errorw("joint file watcher error", "path", fs.path, "error", err)
		}
	}
}

// Load reads the file and applies it to the store.
func (fs *FileSource) Load() error {
	//nolint:gosec
	data, err := os.ReadFile(fs.path)
	if err != nil {
		fs.failures.Inc()
		return errors.Wrap(err, "failed to read joint file")
	}
	if len(data) == 0 {
		// writers truncate before writing, the follow-up write event carries the content
		return nil
	}
	values := map[string]float64{}
	if err := json.Unmarshal(data, &values); err != nil {
		fs.failures.Inc()
		return errors.Wrapf(err, "failed to parse joint file %q", fs.path)
	}
	values, ignored := fs.store.FilterDeclared(values)
	if len(ignored) > 0 {
		fs.logger.Debugw("ignoring joints not in the tree", "path", fs.path, "joints", ignored)
	}
	if err := fs.store.SetMany(values); err != nil {
		fs.failures.Inc()
		return errors.Wrapf(err, "joint file %q", fs.path)
	}
	fs.loads.Inc()
	fs.logger.Debugw("applied joint file", "path", fs.path, "joints", len(values))
	return nil
}

// Loads returns how many times the file has been applied successfully.
func (fs *FileSource) Loads() uint64 {
	return fs.loads.Load()
}

// Failures returns how many reads of the file were rejected.
func (fs *FileSource) Failures() uint64 {
	return fs.failures.Load()
}

// Close stops watching the file.
func (fs *FileSource) Close() error {
	err := fs.watcher.Close()
	fs.workers.Stop()
	return err
}
