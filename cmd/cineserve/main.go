// Copyright 2025 The CineServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the title suggestion server and CLI [DBG] application.

CineServe suggests movie and TV titles while a user types. Titles come from a
catalog bundled into the binary plus any catalog files found in the data
directory. Suggestions keep only titles containing the query, put titles that
start with it first, then earlier matches, then alphabetical order.

# Usage

Start the server with default settings:

	cineserve

Use a custom data directory and enable debug mode:

	cineserve -data /path/to/catalogs -d

Run in CLI mode for interactive testing:

	cineserve -c -limit 5

The data directory may hold numbered catalog files, catalog_0001.toml,
catalog_0002.msgpack and so on, with [[movies]] and [[shows]] entries.

# Configuration

Runtime configuration lives in a TOML file that is created with defaults on
first run:

	[server]
	max_limit = 50
	max_query = 100
	reload_every = 100

	[suggest]
	default_limit = 10
	timeout_ms = 0

	[catalog]
	data_dir = "data"
	use_embedded = true

	[cli]
	default_limit = 10
	show_corrections = true

Server mode re-reads the file every reload_every requests.

# IPC Protocol

The server reads MessagePack requests from stdin and writes responses to
stdout; see package server for the message shapes.

	{"id": "req1", "q": "man", "l": 5}

# Command Line Flags

	-data string
	    Directory containing catalog files (default from config)
	-config string
	    Path to a config file
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to print in CLI mode (default from config)
	-version
	    Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/cineserve/internal/cli"
	"github.com/bastiangx/cineserve/internal/logger"
	"github.com/bastiangx/cineserve/internal/utils"
	"github.com/bastiangx/cineserve/pkg/catalog"
	"github.com/bastiangx/cineserve/pkg/config"
	"github.com/bastiangx/cineserve/pkg/server"
	"github.com/bastiangx/cineserve/pkg/suggest"
)

const (
	Version = "0.3.0"
	AppName = "cineserve"
	gh      = "https://github.com/bastiangx/cineserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow; server and CLI live in their own packages.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "", "Directory containing catalog files (default from config)")
	configFile := flag.String("config", "", "Path to a config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of suggestions to print in CLI mode (default from config)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.SetDebug(*debugMode)

	cfg, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	if *dataDir == "" {
		*dataDir = cfg.Catalog.DataDir
	}
	cat, resolvedDataDir := loadCatalog(cfg, *dataDir)

	if *cliMode {
		log.SetReportTimestamp(false)
		n := *limit
		if n <= 0 {
			n = cfg.CLI.DefaultLimit
		}
		log.Debug("Input info:", "limit", n, "corrections", cfg.CLI.ShowCorrections)

		ranker := suggest.NewRanker(cat, suggest.WithTimeout(cfg.Timeout()))
		inputHandler := cli.NewInputHandler(ranker, cat, n, cfg.CLI.ShowCorrections)
		if err := inputHandler.Start(context.Background(), os.Stdin); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(cat, cfg, configPath)

	showStartupInfo(cat, resolvedDataDir)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// loadCatalog fills a catalog from the embedded seed and the data dir. It
// exits when neither source yields a title.
func loadCatalog(cfg *config.Config, dataDir string) (*catalog.Catalog, string) {
	cat := catalog.New()
	if cfg.Catalog.UseEmbedded {
		if err := cat.LoadEmbedded(); err != nil {
			log.Errorf("Failed to load embedded catalog: %v", err)
		}
	}

	resolved := ""
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
		return finishCatalog(cat), resolved
	}
	log.Debugf("Config dir: %s", pathResolver.GetConfigDir())

	if dir, ok := pathResolver.GetDataDir(dataDir); ok {
		resolved = dir
		log.Debugf("Using data dir at: %s", dir)
		if _, err := catalog.NewLoader(dir).LoadAll(cat); err != nil {
			log.Errorf("Failed to load catalog files: %v", err)
		}
	} else {
		log.Debugf("No catalog files found for data dir %q", dataDir)
	}
	return finishCatalog(cat), resolved
}

// finishCatalog exits when the catalog ended up empty.
func finishCatalog(cat *catalog.Catalog) *catalog.Catalog {
	st := cat.Stats()
	if st.Movies+st.Shows == 0 {
		log.Fatal("Catalog is empty: enable catalog.use_embedded or add catalog files to the data dir")
	}
	log.Debug("Catalog ready", "movies", st.Movies, "shows", st.Shows, "index_keys", st.IndexKeys)
	return cat
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ CineServe ] Movie and TV title suggestions as you type")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(cat *catalog.Catalog, dataDir string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	st := cat.Stats()
	if dataDir == "" {
		dataDir = "(embedded only)"
	}

	fmt.Fprintln(os.Stderr, "============")
	fmt.Fprintln(os.Stderr, " CineServe ")
	fmt.Fprintln(os.Stderr, "============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("catalog: %s movies, %s shows", utils.FormatWithCommas(st.Movies), utils.FormatWithCommas(st.Shows))
	log.Infof("data dir: ( %s )", dataDir)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "============")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")
}
