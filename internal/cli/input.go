// Package cli handles cmd line input and predictions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/model"
	"github.com/bastiangx/typeahead/pkg/predict"
	"github.com/charmbracelet/log"
)

// scratchDoc is the single document the REPL feeds and queries.
const scratchDoc model.DocumentID = "cli-scratch"

// InputHandler processes user input from stdin against a scratch document.
// Text is fed in with :add, then plain input is treated as a prediction
// query. It accepts flags to control suggestion limits and filtering.
type InputHandler struct {
	engine       *predict.Engine
	cycler       *predict.Cycler
	suggestLimit int
	noFilter     bool
	log          *log.Logger

	buffer strings.Builder
	marker int64
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(engine *predict.Engine, limit int, noFilter bool) *InputHandler {
	return &InputHandler{
		engine:       engine,
		cycler:       predict.NewCycler(engine),
		suggestLimit: limit,
		noFilter:     noFilter,
		log:          logger.New("cli"),
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	h.log.Print("Typeahead CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("feed text with ':add <text>', then type '[previous] <prefix>' to see predictions (Ctrl+C to exit):")

	for {
		h.log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			h.handleCommand(line)
			continue
		}
		h.handleQuery(line)
	}
}

// handleCommand processes one colon command.
func (h *InputHandler) handleCommand(line string) {
	cmd, rest, _ := strings.Cut(line, " ")

	switch cmd {
	case ":add":
		if rest == "" {
			h.log.Warn("Nothing to add")
			return
		}
		h.buffer.WriteString(rest)
		h.buffer.WriteString("\n")
		h.marker++
		h.engine.Model().Update(scratchDoc, h.buffer.String(), h.marker)
		stats := h.engine.Model().Stats(scratchDoc)
		h.log.Printf("Model now has %s words, %s bigrams (version %d)",
			utils.FormatWithCommas(stats.UniqueWords),
			utils.FormatWithCommas(stats.UniqueBigrams),
			stats.Version)
	case ":stats":
		stats := h.engine.Model().Stats(scratchDoc)
		h.log.Printf("unique words: %d, unique bigrams: %d, version: %d",
			stats.UniqueWords, stats.UniqueBigrams, stats.Version)
	case ":clear":
		h.engine.Model().Clear(scratchDoc)
		h.buffer.Reset()
		h.cycler.Reset()
		h.log.Print("Model cleared")
	case ":next":
		h.cycler.Next()
		h.printCurrent()
	case ":prev":
		h.cycler.Prev()
		h.printCurrent()
	case ":current":
		h.printCurrent()
	case ":reset":
		h.cycler.Reset()
		h.log.Print("Cycler reset")
	default:
		h.log.Errorf("Unknown command: %s", cmd)
	}
}

// handleQuery treats the last field of the line as the prefix and the field
// before it, if any, as the previous word.
func (h *InputHandler) handleQuery(line string) {
	fields := strings.Fields(line)
	prefix := fields[len(fields)-1]
	previous := ""
	if len(fields) > 1 {
		previous = fields[len(fields)-2]
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter {
		if !utils.IsValidInput(prefix) {
			h.log.Infof("No results found for prefix: '%s'", prefix)
			return
		}
	} else {
		h.log.Debug("Input filtering disabled")
	}

	start := time.Now()
	h.log.Debug("Processing request for", "prefix", prefix, "previous", previous)

	session := h.cycler.Query(scratchDoc, prefix, previous)

	elapsed := time.Since(start)
	h.log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)

	if session == nil {
		h.log.Warnf("No predictions found for prefix: '%s'", prefix)
		return
	}

	candidates := session.Candidates
	if len(candidates) > h.suggestLimit && h.suggestLimit > 0 {
		candidates = candidates[:h.suggestLimit]
	}

	h.log.Printf("Found %d predictions for prefix '%s':", len(candidates), prefix)
	for i, c := range candidates {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", c.Word)
		h.log.Printf("%2d. %-40s (freq: %4d, score: %6.1f, %s)", i+1, clWord, c.Frequency, c.Score, c.Source)
	}
	h.log.Print("cycle with :next / :prev, accept shown candidate with :current")
}

// printCurrent shows the candidate under the cursor, if any.
func (h *InputHandler) printCurrent() {
	current, ok := h.cycler.Current()
	if !ok {
		h.log.Warn("No active session")
		return
	}
	session := h.cycler.Session()
	h.log.Printf("[%d/%d] %s (%s)", session.Cursor+1, len(session.Candidates), current.Word, current.Source)
}
