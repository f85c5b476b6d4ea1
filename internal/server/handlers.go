package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/opd-ai/go-jf-snapshot/internal/snapshot"
)

// noMatchDetail is the fixed 404 detail for a filter that matched nothing.
// "No match" and "fetch failed" both surface this way; the two cases are
// distinguishable only via server-side logs.
const noMatchDetail = "No matching playback snapshot found"

// messageResponse is the body of successful snapshot and ping responses.
type messageResponse struct {
	Message string `json:"message"`
}

// detailResponse is the body of error responses.
type detailResponse struct {
	Detail string `json:"detail"`
}

// handlePing answers liveness probes.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "pong"})
}

// handleHealth reports server health including store reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Load(); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "snapshot store unavailable", err)
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Server is healthy"})
}

// handleSaveSnapshot evaluates the posted filter against the live sessions
// and persists the first match. ?dry_run=true evaluates without persisting.
func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var filter snapshot.SnapshotFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid filter body", err)
		return
	}

	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

	snap, err := s.service.FindAndRecordMatchingSession(r.Context(), filter, dryRun)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal server error", err)
		return
	}
	if snap == nil {
		s.writeJSON(w, http.StatusNotFound, detailResponse{Detail: noMatchDetail})
		return
	}

	message := fmt.Sprintf("Snapshot saved at %s", snap.CurrentPlaybackTimeStamp)
	if dryRun {
		message = fmt.Sprintf("Snapshot matched at %s (dry run, not saved)", snap.CurrentPlaybackTimeStamp)
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

// handlePlaybackSessions lists summaries of the sessions currently playing.
func (s *Server) handlePlaybackSessions(w http.ResponseWriter, r *http.Request) {
	summaries := s.service.ListPlaybackSessions(r.Context())
	s.writeJSON(w, http.StatusOK, summaries)
}

// handleSnapshots lists summaries of the persisted snapshots.
func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.Summaries()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal server error", err)
		return
	}

	s.writeJSON(w, http.StatusOK, summaries)
}

// writeJSON writes a JSON response with the specified status code.
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}

// writeError logs the underlying error and reports a generic detail message
// without leaking internals to the client.
func (s *Server) writeError(w http.ResponseWriter, statusCode int, detail string, err error) {
	s.logger.Error("HTTP error response",
		"status", statusCode,
		"detail", detail,
		"error", err)

	s.writeJSON(w, statusCode, detailResponse{Detail: detail})
}
