package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alvinow/folio/internal/config"
	"github.com/alvinow/folio/internal/frame"
	"github.com/alvinow/folio/internal/logging"
	"github.com/alvinow/folio/internal/reader"
	"github.com/alvinow/folio/internal/store"
	"github.com/alvinow/folio/internal/tui"
)

func main() {
	demo := flag.Bool("demo", false, "run against the built-in simulated renderer")
	backendFlag := flag.String("backend", "", "renderer backend: epubjs or readium")
	urlFlag := flag.String("url", "", "publication URL to open")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *backendFlag != "" {
		cfg.Reader.Backend = *backendFlag
	}
	if *urlFlag != "" {
		cfg.Reader.DefaultURL = *urlFlag
	}

	if err := logging.Init(cfg.Log.Path, cfg.Log.Level); err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logging.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := store.RunMigrations(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	factory, err := transportFactory(cfg, *demo)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}

	ctrl := reader.NewController(reader.Options{
		Factory:          factory,
		SettleDelay:      cfg.Frame.SettleDelay(),
		HandshakeTimeout: cfg.Frame.HandshakeTimeout(),
		Positions:        store.NewPositionRepo(db),
		Bookmarks:        store.NewBookmarkRepo(db),
	})
	defer ctrl.Close()

	p := tea.NewProgram(tui.New(ctrl, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// transportFactory picks the frame implementation: a loopback-served browser
// page for real backends, or the in-process simulator for --demo.
func transportFactory(cfg config.Config, demo bool) (reader.TransportFactory, error) {
	if demo {
		return func() (frame.Transport, error) {
			f := frame.NewSimFrame(300 * time.Millisecond)
			f.Start()
			return f, nil
		}, nil
	}

	backend, err := frame.ParseBackend(cfg.Reader.Backend)
	if err != nil {
		return nil, err
	}
	return func() (frame.Transport, error) {
		return frame.NewWebFrame(backend, cfg.Frame.ListenAddr, cfg.Reader.ScriptURL)
	}, nil
}
