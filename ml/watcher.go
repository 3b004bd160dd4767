package ml

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ArtifactWatcher reports changes to artifact files on disk. It never reloads
// them: the loaded artifacts stay fixed until the process restarts.
type ArtifactWatcher struct {
	cfg   ArtifactConfig
	log   *zap.Logger
	files map[string]bool
}

func NewArtifactWatcher(cfg ArtifactConfig, log *zap.Logger) *ArtifactWatcher {
	if log == nil {
		log = zap.L()
	}
	return &ArtifactWatcher{
		cfg:   cfg,
		log:   log.With(zap.String("dir", cfg.Dir)),
		files: map[string]bool{
			filepath.Clean(cfg.ImputerPath()): true,
			filepath.Clean(cfg.ScalerPath()):  true,
			filepath.Clean(cfg.ModelPath()):   true,
		},
	}
}

// Run blocks until ctx is done or the underlying watcher fails.
func (w *ArtifactWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "artifact watcher: create")
	}
	defer watcher.Close()

	if err := watcher.Add(w.cfg.Dir); err != nil {
		return eris.Wrapf(err, "artifact watcher: watch %s", w.cfg.Dir)
	}
	w.log.Info("watching artifact directory")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			w.log.Warn("artifact changed on disk, restart to load it",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()),
			)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("artifact watcher error", zap.Error(err))
		}
	}
}
