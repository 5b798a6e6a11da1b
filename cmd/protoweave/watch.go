package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/platinummonkey/protoweave/pkg/config"
	"github.com/platinummonkey/protoweave/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// errInPlaceWatch is returned when watch mode would re-render its own output
var errInPlaceWatch = errors.New("watch requires a target for every source root")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render whenever a .proto file changes",
	Long:  "Runs a pass at startup and again after every burst of .proto changes below the proto roots. Every source root needs a target.",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := checkWatchTargets(cfg); err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := initTracing(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer flushTracing(shutdown, log)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		registry := prometheus.NewRegistry()
		metrics = observability.NewMetrics(registry)

		server := startMetricsServer(cfg.Observability.MetricsAddr, registry, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range cfg.Proto.Roots {
		if err := addWatchDirs(watcher, root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	pass := func() {
		report, written, err := renderOnce(ctx, cfg, log, metrics, true)
		if err != nil {
			log.WithError(err).Error("Pass failed")
			return
		}
		log.WithFields(logrus.Fields{
			"pass_id": report.PassID,
			"applied": report.Totals.Applied,
			"written": written,
		}).Info("Pass finished")
	}

	pass()
	log.WithField("roots", cfg.Proto.Roots).Info("Watching for proto changes")

	return watchLoop(ctx, watcher, cfg.Watch.Debounce, log, pass)
}

// watchLoop calls pass once per burst of .proto changes, after the burst has been
// quiet for the debounce interval. New directories are watched as they appear.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration, log *logrus.Logger, pass func()) error {
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := addWatchDirs(watcher, event.Name); err != nil {
						log.WithError(err).WithField("dir", event.Name).Warn("Failed to watch new directory")
					}
					continue
				}
			}

			if !isProtoChange(event) {
				continue
			}
			log.WithFields(logrus.Fields{
				"file": event.Name,
				"op":   event.Op.String(),
			}).Debug("Proto file changed")

			fire = time.After(debounce)

		case <-fire:
			fire = nil
			pass()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("Watcher error")
		}
	}
}

// checkWatchTargets rejects source roots rendered in place. Watch mode runs a pass on
// every proto change without protoc regenerating the roots in between.
func checkWatchTargets(cfg *config.Config) error {
	for _, src := range cfg.Sources {
		if src.InPlace() {
			return fmt.Errorf("%w: %s", errInPlaceWatch, src.Path)
		}
	}
	return nil
}

func isProtoChange(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != ".proto" {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// addWatchDirs adds root and every directory below it to the watcher
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func startMetricsServer(addr string, registry *prometheus.Registry, log *logrus.Logger) *http.Server {
	if addr == "" {
		addr = ":9090"
	}

	mux := http.NewServeMux()
	observability.RegisterMetricsEndpoint(mux, registry)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("Serving metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server failed")
		}
	}()

	return server
}
