package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/HarryLiGameTech/StateQ/vm"
)

// ExecuteRequest is the /v1/execute request body. Bytecode travels
// base64-encoded inside the JSON payload.
type ExecuteRequest struct {
	Bytecode []byte `json:"bytecode"`
	Shots    uint32 `json:"shots"`
}

// ExecuteResponse is the /v1/execute response body.
type ExecuteResponse struct {
	ID          string          `json:"id"`
	Error       uint8           `json:"error"`
	Measurement *vm.Measurement `json:"measurement,omitempty"`
}

// CapacityResponse is the /v1/capacity response body.
type CapacityResponse struct {
	AvailableQubits uint32 `json:"available_qubits"`
}

// GateResponse is the /v1/gates/{name} response body.
type GateResponse struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// RunResponse is one entry of the /v1/runs response body.
type RunResponse struct {
	ID        string          `json:"id"`
	CreatedAt int64           `json:"created_at"`
	Digest    string          `json:"digest"`
	Shots     uint32          `json:"shots"`
	Error     uint8           `json:"error"`
	Result    *vm.Measurement `json:"result,omitempty"`
}

// execMu serialises driver calls: a Driver processes one request at a time,
// while net/http serves requests concurrently.
var execMu sync.Mutex

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Shots == 0 {
		http.Error(w, "shots must be positive", http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	log.Infof("execute %s: %d bytecode bytes, %d shots", id, len(req.Bytecode), req.Shots)

	execMu.Lock()
	res := s.driver.ExecBytecode(req.Bytecode, req.Shots)
	execMu.Unlock()

	if s.history != nil {
		if _, err := s.history.Record(req.Bytecode, req.Shots, res); err != nil {
			log.Errorf("recording run %s: %v", id, err)
		}
	}

	writeJSON(w, ExecuteResponse{ID: id, Error: res.Error, Measurement: res.Measurement})
}

func (s *Server) handleCapacity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, CapacityResponse{AvailableQubits: vm.AvailableQubits})
}

func (s *Server) handleGate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/v1/gates/")
	if name == "" || strings.Contains(name, "/") {
		http.Error(w, "gate name required", http.StatusBadRequest)
		return
	}
	writeJSON(w, GateResponse{Name: name, Available: vm.IsGateAvailable(name)})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.history == nil {
		http.Error(w, "history is not enabled", http.StatusNotFound)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := s.history.Recent(limit)
	if err != nil {
		log.Errorf("listing runs: %v", err)
		http.Error(w, "listing runs failed", http.StatusInternalServerError)
		return
	}

	out := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunResponse{
			ID:        run.ID,
			CreatedAt: run.CreatedAt.Unix(),
			Digest:    run.Digest,
			Shots:     run.Shots,
			Error:     run.Error,
			Result:    run.Result,
		})
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encoding response: %v", err)
	}
}
