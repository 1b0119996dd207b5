// Command timerctl runs a collection of countdown timers from the terminal.
//
// Timers keep counting while the shell is "suspended", and alarms fire
// through simulated local notifications with an in-process fallback.
//
// Usage:
//
//	timerctl [flags]
//
// Flags:
//
//	-config string        Configuration file path
//	-data-dir string      Directory for persisted timers
//	-store string         Store backend: memory, json, sqlite
//	-log-level string     Log level: debug, info, warn, error
//	-event-log string     Append timer events to this .tlog file
//	-metrics-addr string  Serve Prometheus metrics on this address
//
// Examples:
//
//	# Start with the defaults (JSON store in ~/.multitimer)
//	timerctl
//
//	# Keep timers in SQLite and record events for timer-log
//	timerctl -store sqlite -event-log timers.tlog
//
//	# Expose metrics
//	timerctl -store memory -metrics-addr :9090
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/multitimer/multitimer-go/cmd/timerctl/interactive"
	"github.com/multitimer/multitimer-go/internal/config"
	"github.com/multitimer/multitimer-go/pkg/background"
	"github.com/multitimer/multitimer-go/pkg/clock"
	"github.com/multitimer/multitimer-go/pkg/log"
	"github.com/multitimer/multitimer-go/pkg/manager"
	"github.com/multitimer/multitimer-go/pkg/metrics"
	"github.com/multitimer/multitimer-go/pkg/notify"
	"github.com/multitimer/multitimer-go/pkg/sound"
	"github.com/multitimer/multitimer-go/pkg/store"
)

// recentEvents is the size of the in-memory event history.
const recentEvents = 200

// Flags holds command-line overrides of the configuration file.
type Flags struct {
	ConfigFile  string
	DataDir     string
	Store       string
	LogLevel    string
	EventLog    string
	MetricsAddr string
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.DataDir, "data-dir", "", "Directory for persisted timers")
	flag.StringVar(&flags.Store, "store", "", "Store backend: memory, json, sqlite")
	flag.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&flags.EventLog, "event-log", "", "Append timer events to this .tlog file")
	flag.StringVar(&flags.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
}

func main() {
	flag.Parse()

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file, if any, and applies flags over it.
func loadConfig(f Flags) (config.Config, error) {
	cfg := config.Default()
	if f.ConfigFile != "" {
		loaded, err := config.Load(f.ConfigFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.Store != "" {
		cfg.Store = f.Store
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.EventLog != "" {
		cfg.EventLog = f.EventLog
	}
	if f.MetricsAddr != "" {
		cfg.MetricsAddr = f.MetricsAddr
	}
	return cfg, cfg.Validate()
}

func run(cfg config.Config) error {
	out := &switchWriter{w: os.Stderr}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	backend, err := store.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer backend.Close()

	player, err := newPlayer(cfg, logger)
	if err != nil {
		return err
	}

	recent := log.NewRecorder(recentEvents)
	eventLoggers := []log.Logger{recent, log.NewSlogAdapter(logger).WithLevel(slog.LevelDebug)}
	if cfg.EventLog != "" {
		fileLogger, err := log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer fileLogger.Close()
		eventLoggers = append(eventLoggers, fileLogger)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	clk := clock.Real{}
	center := notify.NewCenter(clk, cfg.PermissionGranted, logger)
	center.OnDeliver(func(d notify.Delivery) {
		fmt.Fprintf(out, "\n*** %s: %s ***\n", d.Title, d.Body)
	})

	mgr := manager.NewManager(manager.Config{
		Store:        backend,
		Notifier:     center,
		Player:       player,
		Background:   background.NewWindow(clk, cfg.BackgroundBudget, logger),
		DefaultSound: cfg.DefaultSound,
		Clock:        clk,
		EventLogger:  log.NewMultiLogger(eventLoggers...),
		Metrics:      m,
		Logger:       logger,
	})
	defer mgr.Close()

	n, err := mgr.Load()
	if err != nil {
		logger.Warn("starting without persisted timers", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer shutdown(srv, logger)
	}

	shell, err := interactive.New(interactive.Deps{Manager: mgr, Player: player, Recent: recent})
	if err != nil {
		return err
	}
	out.Set(shell.Stdout())

	fmt.Fprintln(out, "Multi Timer")
	fmt.Fprintln(out, "===========")
	fmt.Fprintf(out, "Store: %s (%d timers loaded)\n", cfg.Store, n)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			logger.Info("received signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	shell.Run(ctx, cancel)
	player.Stop()
	return nil
}

// newPlayer builds the sound catalog from the configured manifest and
// sound directory.
func newPlayer(cfg config.Config, logger *slog.Logger) (*sound.Player, error) {
	sounds := sound.DefaultSounds
	if cfg.SoundManifest != "" {
		loaded, err := sound.LoadManifest(cfg.SoundManifest)
		if err != nil {
			return nil, fmt.Errorf("load sound manifest: %w", err)
		}
		sounds = loaded
	}

	var audio sound.AudioService
	if cfg.SoundsDir != "" {
		audio = sound.NewDirAudio(cfg.SoundsDir, logger)
	} else {
		names := make([]string, len(sounds))
		for i, s := range sounds {
			names[i] = s.Name
		}
		audio = sound.NewMemoryAudio(names...)
	}

	catalog, err := sound.NewCatalog(audio, sounds...)
	if err != nil {
		return nil, fmt.Errorf("load sounds: %w", err)
	}
	if _, ok := catalog.Lookup(cfg.DefaultSound); !ok {
		logger.Warn("default sound not in catalog", "sound", cfg.DefaultSound, "fallback", catalog.Default().Name)
	}
	return sound.NewPlayer(catalog, logger), nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("metrics listening", "addr", addr, "path", "/metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}

func shutdown(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown", "error", err)
	}
}

// switchWriter forwards writes to a target that can change once the
// shell owns the terminal.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
