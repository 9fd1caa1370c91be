package server

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

type askRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}
	s.logger.Debug("upload request", zap.String("filename", header.Filename), zap.Int("bytes", len(content)))

	passages, err := s.ingestor.IngestDocument(r.Context(), header.Filename, content)
	if err != nil {
		s.logger.Error("ingestion failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to process the document")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ingested",
		"filename": header.Filename,
		"passages": passages,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" || req.Question == "" {
		s.respondError(w, http.StatusBadRequest, "session_id and question are required")
		return
	}

	answer, err := s.engine.Answer(r.Context(), req.SessionID, req.Question)
	if err != nil {
		s.logger.Error("answer failed", zap.String("session_id", req.SessionID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, askResponse{Answer: answer})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		var body struct {
			SessionID string `json:"session_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			sessionID = body.SessionID
		}
	}
	if sessionID == "" {
		s.respondError(w, http.StatusBadRequest, "session_id is required (query or body)")
		return
	}
	if err := s.engine.Reset(sessionID); err != nil {
		s.logger.Error("reset failed", zap.String("session_id", sessionID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "reset", "session_id": sessionID})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"passages": s.index.Size(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
