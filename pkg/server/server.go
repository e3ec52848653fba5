package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/model"
	"github.com/bastiangx/typeahead/pkg/predict"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for next-word predictions. One request per msgpack
// message over stdin, one response over stdout, processed synchronously.
type Server struct {
	engine     *predict.Engine
	cycler     *predict.Cycler
	cfg        *config.Config
	configPath string
	decoder    *msgpack.Decoder
	encoder    *msgpack.Encoder
}

// NewServer creates a prediction server using stdin/stdout for IPC.
func NewServer(engine *predict.Engine, cfg *config.Config, configPath string) *Server {
	return &Server{
		engine:     engine,
		cycler:     predict.NewCycler(engine),
		cfg:        cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(os.Stdin),
		encoder:    msgpack.NewEncoder(os.Stdout),
	}
}

// Start begins listening for IPC requests until stdin closes.
func (s *Server) Start() error {
	log.Debug("Starting Server.")

	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches on the cmd field.
func (s *Server) handleRequest(request Request) {
	switch request.Cmd {
	case "update":
		s.handleUpdate(request)
	case "complete":
		s.handleComplete(request)
	case "predict":
		s.handlePredict(request)
	case "freq":
		s.handleFreq(request)
	case "stats":
		s.handleStats(request)
	case "clear":
		s.handleClear(request)
	case "forget":
		s.handleForget(request)
	case "cycle":
		s.handleCycle(request)
	case "config":
		s.handleConfig(request)
	case "health":
		s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Cmd), 400)
	}
}

// requireDoc validates the document id before it reaches the model, which
// treats an empty id as a programming error.
func (s *Server) requireDoc(request Request) (model.DocumentID, bool) {
	if request.Doc == "" {
		s.sendError(request.ID, "Missing 'doc' parameter", 400)
		log.Debug("Document id is empty in request")
		return "", false
	}
	return model.DocumentID(request.Doc), true
}

// validPrefix applies the server-side prefix bounds and input filter.
func (s *Server) validPrefix(request Request) bool {
	prefix := request.Prefix

	if prefix == "" {
		s.sendError(request.ID, "Missing 'p' parameter", 400)
		log.Debug("Prefix is empty in request")
		return false
	}
	if len(prefix) > s.cfg.Server.MaxPrefix {
		s.sendError(request.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", s.cfg.Server.MaxPrefix), 400)
		log.Debug("Prefix is too long in request")
		return false
	}
	if s.cfg.Server.EnableFilter && !utils.IsValidInput(prefix) {
		s.sendResponse(CompletionResponse{ID: request.ID, Candidates: []ResponseCandidate{}, Count: 0})
		log.Debugf("Prefix %q rejected by input filter", prefix)
		return false
	}
	return true
}

func (s *Server) handleUpdate(request Request) {
	doc, ok := s.requireDoc(request)
	if !ok {
		return
	}
	s.engine.Model().Update(doc, request.Text, request.Marker)
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
}

func (s *Server) handleComplete(request Request) {
	doc, ok := s.requireDoc(request)
	if !ok {
		return
	}
	if !s.validPrefix(request) {
		return
	}

	limit := request.Limit
	if limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	candidates := s.engine.Candidates(doc, request.Prefix, request.Prev, limit)
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(candidates))
	result := make([]ResponseCandidate, len(candidates))
	for i, c := range candidates {
		result[i] = ResponseCandidate{
			Word:   c.Word,
			Freq:   c.Frequency,
			Source: c.Source.String(),
			Rank:   ranks[i],
		}
	}

	s.sendResponse(CompletionResponse{
		ID:         request.ID,
		Candidates: result,
		Count:      len(result),
		TimeTaken:  elapsed.Microseconds(),
	})
}

func (s *Server) handlePredict(request Request) {
	doc, ok := s.requireDoc(request)
	if !ok {
		return
	}
	if !s.validPrefix(request) {
		return
	}

	start := time.Now()
	word := s.engine.Predict(doc, request.Prefix, request.Prev)
	elapsed := time.Since(start)

	s.sendResponse(PredictResponse{
		ID:        request.ID,
		Word:      word,
		TimeTaken: elapsed.Microseconds(),
	})
}

// handleFreq answers a unigram lookup, or a bigram lookup when w2 is set.
func (s *Server) handleFreq(request Request) {
	doc, ok := s.requireDoc(request)
	if !ok {
		return
	}
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' parameter", 400)
		return
	}

	var freq int
	if request.Second != "" {
		freq = s.engine.Model().BigramFrequency(doc, request.Word, request.Second)
	} else {
		freq = s.engine.Model().WordFrequency(doc, request.Word)
	}
	s.sendResponse(FreqResponse{ID: request.ID, Freq: freq})
}

func (s *Server) handleStats(request Request) {
	doc, ok := s.requireDoc(request)
	if !ok {
		return
	}
	stats := s.engine.Model().Stats(doc)
	s.sendResponse(StatsResponse{
		ID:            request.ID,
		UniqueWords:   stats.UniqueWords,
		UniqueBigrams: stats.UniqueBigrams,
		Version:       stats.Version,
		Documents:     s.engine.Model().Documents(),
	})
}

func (s *Server) handleClear(request Request) {
	doc, ok := s.requireDoc(request)
	if !ok {
		return
	}
	s.engine.Model().Clear(doc)
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
}

func (s *Server) handleForget(request Request) {
	doc, ok := s.requireDoc(request)
	if !ok {
		return
	}
	s.engine.Model().Forget(doc)
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
}

// handleCycle drives the candidate selection machine. The renderer on the
// editor side only ever needs the current word and cursor position back.
func (s *Server) handleCycle(request Request) {
	switch request.Action {
	case "query":
		doc, ok := s.requireDoc(request)
		if !ok {
			return
		}
		if !s.validPrefix(request) {
			return
		}
		s.cycler.Query(doc, request.Prefix, request.Prev)
	case "next":
		s.cycler.Next()
	case "prev":
		s.cycler.Prev()
	case "current":
		// fall through to the shared state response
	case "reset":
		s.cycler.Reset()
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown cycle action: %s", request.Action), 400)
		return
	}

	response := CycleResponse{ID: request.ID}
	if current, ok := s.cycler.Current(); ok {
		session := s.cycler.Session()
		response.Active = true
		response.Word = current.Word
		response.Source = current.Source.String()
		response.Cursor = session.Cursor
		response.Count = len(session.Candidates)
	}
	s.sendResponse(response)
}

// handleConfig reads or mutates the live prediction config. Mutations are
// persisted so the next session starts with the same values.
func (s *Server) handleConfig(request Request) {
	switch request.Action {
	case "get":
		// nothing to change
	case "set":
		if err := s.cfg.Update(s.configPath, request.MinPrefix, request.BigramWeight, request.MaxCandidates); err != nil {
			log.Errorf("Persisting config update: %v", err)
			s.sendError(request.ID, "Failed to save config", 500)
			return
		}
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown config action: %s", request.Action), 400)
		return
	}

	s.sendResponse(ConfigResponse{
		ID:            request.ID,
		Status:        "ok",
		MinPrefix:     s.cfg.Predict.MinPrefix,
		BigramWeight:  s.cfg.Predict.BigramWeight,
		MaxCandidates: s.cfg.Predict.MaxCandidates,
	})
}

// sendResponse encodes the given response as msgpack onto stdout.
func (s *Server) sendResponse(response interface{}) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(RequestError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
