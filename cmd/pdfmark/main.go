package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"pdfmark/internal/config"
	"pdfmark/internal/coords"
	"pdfmark/internal/eventbus"
	"pdfmark/internal/logger"
	"pdfmark/internal/logic"
	"pdfmark/internal/metrics"
	"pdfmark/internal/pagetool"
	"pdfmark/internal/pdfdoc"
	"pdfmark/internal/ui"
	"pdfmark/internal/ui/coordinator"
	"pdfmark/internal/ui/services/annotation"
	"pdfmark/internal/ui/services/navigation"
)

func main() {
	var (
		configPath  string
		logLevel    string
		metricsAddr string
	)
	flag.StringVar(&configPath, "config", config.DefaultPath(), "Path to the config file")
	flag.StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: pdfmark [flags] [file.pdf]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	var document string
	if flag.NArg() > 0 {
		abs, err := filepath.Abs(flag.Arg(0))
		if err != nil {
			fmt.Printf("Error resolving path: %v\n", err)
			os.Exit(1)
		}
		document = abs
	}

	// Load configuration
	configSvc := config.NewConfigServiceAt(configPath)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}

	// Set up logging
	logCfg := logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}
	if logFile, err := logger.OpenFile(cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
	} else {
		defer logFile.Close()
		logCfg.Output = logFile
	}
	lg := logger.InitGlobalLogger(logCfg)
	lg.LogStartup(document, configSvc.Path())

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	m := metrics.NewMetrics()
	m.Subscribe(bus)
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr); err != nil {
				log.Error().Err(err).Str("addr", cfg.Metrics.Addr).Msg("metrics endpoint failed")
			}
		}()
	}

	coord := coordinator.NewCoordinator(bus, logic.NewMemoryMarkupStore(), pdfdoc.NewOpener(), sessionOptions(cfg))

	tool, err := pagetool.New(pagetool.Config{QpdfPath: cfg.Tools.Qpdf, PdfcpuFallback: cfg.Tools.PdfcpuFallback})
	if err != nil {
		log.Warn().Err(err).Msg("page tools disabled")
	} else {
		coord.SetPageTool(pagetool.NewRunner(tool, bus))
		log.Info().Str("tool", tool.Name()).Msg("page tool ready")
	}

	model := ui.NewModel(bus, cfg, coord)
	if document != "" {
		model.OpenOnStart(document)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	model.SetProgram(p)

	// Forward domain events to the UI loop
	bus.Subscribe(eventbus.AllEvents, func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			log.Info().Msg("signal received, quitting")
			p.Send(ui.ShutdownMsg{})
		case <-ctx.Done():
		}
	}()

	_, err = p.Run()
	lg.LogShutdown(err)
	if err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

// sessionOptions translates the config file into document session options
func sessionOptions(cfg *config.Config) coordinator.Options {
	nav := navigation.DefaultOptions()
	nav.ZoomStep = cfg.View.ZoomStep
	nav.MinZoom = cfg.View.MinZoom
	nav.MaxZoom = cfg.View.MaxZoom
	nav.PageGap = cfg.View.PageGap
	if mode, ok := navigation.ParseZoomMode(cfg.View.FitMode); ok {
		nav.Mode = mode
	}
	if cfg.View.Layout == "continuous" {
		nav.Layout = coords.LayoutContinuous
	} else {
		nav.Layout = coords.LayoutSinglePage
	}

	return coordinator.Options{
		SidecarDir:       cfg.Sidecar.Dir,
		AutosaveOnCommit: cfg.Sidecar.AutosaveCommit,
		AutosaveOnClose:  cfg.Sidecar.AutosaveQuit,
		Annotation: annotation.Options{
			MinSize:    cfg.Annotation.MinSize,
			Colors:     cfg.Colors(),
			SnapToText: cfg.Annotation.SnapToText,
		},
		Navigation: nav,
	}
}
