package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/obj8conv/internal/config"
	"github.com/Faultbox/obj8conv/internal/logger"
	"github.com/Faultbox/obj8conv/internal/texture"
)

// settle is how long a file must stay quiet before it is re-exported.
// Editors often write a file in several steps.
const settle = 300 * time.Millisecond

func cmdWatch(args []string) error {
	cfg, fs, err := setup("watch", args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: obj8tool watch [options] <file.obj|dir>")
	}

	if err := prepareOutput(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	images := newTextureLoader(cfg)
	return watch(ctx, fs.Arg(0), cfg, images, func(input string) {
		out, err := convert(input, cfg, images)
		if err != nil {
			logger.Warn("export failed", zap.String("file", input), zap.Error(err))
			return
		}
		fmt.Printf("%s -> %s\n", input, out)
	})
}

// watch calls rebuild for every .obj file under target once it has been
// written and left alone for settle. A changed texture is dropped from
// images; when target is a single model that model is rebuilt too. It
// returns when ctx is done.
func watch(ctx context.Context, target string, cfg *config.Config, images *texture.Loader, rebuild func(string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	dir := target
	only := ""
	if !info.IsDir() {
		dir = filepath.Dir(target)
		only = filepath.Clean(target)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	log := logger.Named("watch")
	log.Info("watching for changes", zap.String("dir", dir), zap.String("format", cfg.Export.Format))

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settle / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(ev.Name)
			switch {
			case strings.EqualFold(filepath.Ext(name), ".obj"):
				if only != "" && name != only {
					continue
				}
				log.Debug("change", zap.String("file", name), zap.String("op", ev.Op.String()))
				pending[name] = time.Now()
			case images != nil && texture.Supported(name):
				if images.Forget(name) > 0 && only != "" {
					pending[only] = time.Now()
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))

		case now := <-ticker.C:
			for name, changed := range pending {
				if now.Sub(changed) >= settle {
					delete(pending, name)
					rebuild(name)
				}
			}
		}
	}
}
