// Copyright 2025 The Typeahead Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the next-word prediction server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

Typeahead builds unigram and bigram frequency models from the text of an
editing session and serves "what word comes next" queries while the user
types a prefix. It can operate as a MessagePack IPC server for integration
with text editors, or as a CLI application for testing and debugging.

Each buffer gets its own model, rebuilt from the full buffer text on every
change notification and guarded by the host's change marker so redundant
rebuilds are skipped. Predictions merge plain word frequencies with weighted
previous-word continuations and are served from Patricia tries.

# Usage

Start the server with default settings:

	typeahead

Use a custom config file and enable debug mode:

	typeahead -config /path/to/config.toml -d

Run in CLI mode for interactive testing:

	typeahead -c -limit 10

# Configuration

Runtime configuration is managed through a TOML file that supports prediction
parameters, server limits, and CLI defaults:

	[predict]
	min_prefix = 1
	bigram_weight = 2.0
	max_candidates = 5

	[server]
	max_limit = 64
	max_prefix = 60
	enable_filter = true

The config file is automatically created with defaults if it doesn't exist.
Prediction parameters are read at query time, so config updates sent over
IPC take effect on the next request without restart.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Requests are
processed synchronously with microsecond timing information included in
responses.

Feed buffer text into the model:

	{"id": "u1", "cmd": "update", "doc": "buf:7", "text": "...", "marker": 42}

Request ranked candidates:

	{"id": "q1", "cmd": "complete", "doc": "buf:7", "p": "th", "prev": "with", "l": 5}

Drive the candidate selection machine:

	{"id": "c1", "cmd": "cycle", "action": "query", "doc": "buf:7", "p": "th"}
	{"id": "c2", "cmd": "cycle", "action": "next"}

Lifecycle and introspection commands round out the surface: "clear" drops a
document's tables, "forget" removes the document entirely when the editor
closes a buffer, "stats" reports model sizes, "freq" answers raw unigram and
bigram lookups.

# Server Mode

The default mode starts a MessagePack IPC server that processes requests
from stdin and writes responses to stdout. This design enables integration
with text editors and other applications through process communication.

	srv := server.NewServer(engine, config, configPath)
	err := srv.Start()

Debounce, throttling and large-buffer skip policies belong to the editor
side of the pipe; the server stays correct whether it is called on every
keystroke or once every N keystrokes.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging
prediction functionality. Text is fed into a scratch model with ':add', and
plain input is treated as a '[previous] prefix' query.

	inputHandler := cli.NewInputHandler(engine, limit, noFilter)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new features
before deploying to server mode.

# Prediction Engine

The core functionality is provided by the model and predict packages:
per-document frequency tables with Patricia trie prefix indexes, a scoring
engine that merges unigram and weighted bigram candidates, and a cycling
state machine the renderer follows.

	m := model.New()
	m.Update("buf:7", text, marker)
	engine := predict.NewEngine(m, cfg)
	candidates := engine.Candidates("buf:7", "th", "with", 5)

# Command Line Flags

The following flags control application behavior:

	-config string
	    Path to a custom config.toml
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of predictions to show in CLI mode (default from config)
	-no-filter
	    Disable input filtering for debugging
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/typeahead/internal/cli"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/model"
	"github.com/bastiangx/typeahead/pkg/predict"
	"github.com/bastiangx/typeahead/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "typeahead"
	gh      = "https://github.com/bastiangx/typeahead"
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

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	configFlag := flag.String("config", "", "Path to a custom config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of predictions to show in CLI mode")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - queries raw prefixes (numbers, symbols, etc)")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["version"] = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ Typeahead ] Learns your buffer, predicts your next word!")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")
		logger.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	engine := predict.NewEngine(model.New(), appConfig)

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"limit", *limit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(engine, *limit, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, appConfig, configPath)

	showStartupInfo(configPath)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(configPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" Typeahead ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
