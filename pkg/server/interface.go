/*
Package server implements msgpack IPC for next-word prediction services.

The server package provides a minimal interface for per-buffer prediction
using msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports model updates,
prediction requests, cycling ops, and config updates. Messages are processed
synchronously with timing info included in responses.

# IPC

The server operates on a request response model where clients send structured
messages via stdin and receive responses through stdout.
Each message contains an ID field, a cmd field, and other fields based on the
operation type.

Feeding buffer text into the model:

	{"id": "u_001", "cmd": "update", "doc": "buf:7", "text": "...", "marker": 42}

Prediction requests use mainly this structure:

	{"id": "req_001", "cmd": "complete", "doc": "buf:7", "p": "th", "prev": "with", "l": 5}

The server responds with candidates ranked by score:

	{"id": "req_001", "s": [{"w": "these", "f": 4, "src": "bigram", "r": 1}], "c": 1, "t": 38}

Cycle ops drive the selection state machine shared with the editor renderer:

	{"id": "cy_001", "cmd": "cycle", "action": "query", "doc": "buf:7", "p": "th", "prev": "with"}
	{"id": "cy_002", "cmd": "cycle", "action": "next"}

config messages allow adjustment of prediction parameters without restart;
changes are persisted to the TOML file and apply to the next query.

# Message Types

Request carries every operation; unused fields stay at their zero value and
are omitted on the wire. CompletionResponse and CycleResponse are the two
richer response shapes; the remaining ops answer with StatusResponse,
FreqResponse, StatsResponse or ConfigResponse.

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and
reducing latency in the per-keystroke request path.
*/
package server

// Request is an incoming IPC message. Cmd selects the operation:
// "update", "complete", "predict", "freq", "stats", "clear", "forget",
// "cycle", "config", "health".
type Request struct {
	ID     string `msgpack:"id"`
	Cmd    string `msgpack:"cmd"`
	Doc    string `msgpack:"doc,omitempty"`
	Text   string `msgpack:"text,omitempty"`
	Marker int64  `msgpack:"marker,omitempty"`
	Prefix string `msgpack:"p,omitempty"`
	Prev   string `msgpack:"prev,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Word   string `msgpack:"w,omitempty"`
	Second string `msgpack:"w2,omitempty"`

	// Action selects the sub-operation for "cycle" (query, next, prev,
	// current, reset) and "config" (get, set).
	Action string `msgpack:"action,omitempty"`

	// config "set" fields; nil means leave unchanged.
	MinPrefix     *int     `msgpack:"min_prefix,omitempty"`
	BigramWeight  *float64 `msgpack:"bigram_weight,omitempty"`
	MaxCandidates *int     `msgpack:"max_candidates,omitempty"`
}

// ResponseCandidate - minimal candidate in a completion response
type ResponseCandidate struct {
	Word   string `msgpack:"w"`
	Freq   int    `msgpack:"f"`
	Source string `msgpack:"src"`
	Rank   uint16 `msgpack:"r"`
}

// CompletionResponse - ranked candidate list response
type CompletionResponse struct {
	ID         string              `msgpack:"id"`
	Candidates []ResponseCandidate `msgpack:"s"`
	Count      int                 `msgpack:"c"`
	TimeTaken  int64               `msgpack:"t"`
}

// PredictResponse - single best word response
type PredictResponse struct {
	ID        string `msgpack:"id"`
	Word      string `msgpack:"w"`
	TimeTaken int64  `msgpack:"t"`
}

// FreqResponse - unigram or bigram frequency lookup response
type FreqResponse struct {
	ID   string `msgpack:"id"`
	Freq int    `msgpack:"f"`
}

// StatsResponse - model size response
type StatsResponse struct {
	ID            string `msgpack:"id"`
	UniqueWords   int    `msgpack:"words"`
	UniqueBigrams int    `msgpack:"bigrams"`
	Version       uint64 `msgpack:"version"`
	Documents     int    `msgpack:"docs"`
}

// CycleResponse - state of the selection machine after a cycle op
type CycleResponse struct {
	ID     string `msgpack:"id"`
	Active bool   `msgpack:"active"`
	Word   string `msgpack:"w,omitempty"`
	Source string `msgpack:"src,omitempty"`
	Cursor int    `msgpack:"cursor,omitempty"`
	Count  int    `msgpack:"count,omitempty"`
}

// ConfigResponse - config operation response with the live values
type ConfigResponse struct {
	ID            string  `msgpack:"id"`
	Status        string  `msgpack:"status"`
	MinPrefix     int     `msgpack:"min_prefix"`
	BigramWeight  float64 `msgpack:"bigram_weight"`
	MaxCandidates int     `msgpack:"max_candidates"`
}

// StatusResponse - generic ack for update/clear/forget/health
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// RequestError holds basic error information for failed requests
type RequestError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
