package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"codeberg.org/snonux/polyglot/internal/languages"
	"codeberg.org/snonux/polyglot/internal/photo"
	"codeberg.org/snonux/polyglot/internal/session"
)

// photoField is the multipart field of an uploaded photo
const photoField = "photo"

// multipartOverhead is the room left for boundaries and part headers on top
// of the photo size limit
const multipartOverhead = 64 * 1024

type createSessionRequest struct {
	Language  string `json:"language"`
	WordCount int    `json:"word_count"`
}

type languageRequest struct {
	Language string `json:"language"`
}

type translateRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON tolerates an empty body
func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Controller, bool) {
	id := mux.Vars(r)["id"]
	c, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found: "+id)
		return nil, false
	}
	return c, true
}

// writeRequestError maps precondition errors to status codes
func writeRequestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrEmptyInput), errors.Is(err, session.ErrNoPhoto):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrUnsupported):
		writeError(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, session.ErrClosed):
		writeError(w, http.StatusGone, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	all := languages.All()
	result := make([]languageDTO, len(all))
	for i, l := range all {
		result[i] = newLanguageDTO(l)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	config := &session.Config{WordCount: req.WordCount}
	if req.Language != "" {
		lang, err := languages.Lookup(req.Language)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		config.Language = lang
	}

	c := s.sessions.Create(config)
	s.logger.Info("Session created", zap.String("session", c.ID()))
	w.Header().Set("Location", "/sessions/"+c.ID())
	writeJSON(w, http.StatusCreated, newSessionDTO(c))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	c, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSessionDTO(c))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.sessions.Delete(id) {
		writeError(w, http.StatusNotFound, "session not found: "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectLanguage(w http.ResponseWriter, r *http.Request) {
	c, ok := s.session(w, r)
	if !ok {
		return
	}

	var req languageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lang, err := languages.Lookup(req.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := c.SelectLanguage(r.Context(), lang)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultDTO{
		Value:   res.Value,
		Failure: newFailureDTO(res.Failure),
		Session: newSessionDTO(c),
	})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	c, ok := s.session(w, r)
	if !ok {
		return
	}
	c.Next()
	writeJSON(w, http.StatusOK, newSessionDTO(c))
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	c, ok := s.session(w, r)
	if !ok {
		return
	}

	var req translateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c.SetInput(req.Text)
	res, err := c.TranslateInput(r.Context())
	if err != nil {
		writeRequestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultDTO{
		Value:   res.Value,
		Failure: newFailureDTO(res.Failure),
		Session: newSessionDTO(c),
	})
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	c, ok := s.session(w, r)
	if !ok {
		return
	}

	if maxBytes := s.photos.MaxBytes(); maxBytes > 0 {
		limit := maxBytes + multipartOverhead
		if r.ContentLength > limit {
			writeError(w, http.StatusRequestEntityTooLarge, photo.ErrTooLarge.Error())
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	file, header, err := r.FormFile(photoField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, photo.ErrTooLarge.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "missing multipart field \""+photoField+"\"")
		return
	}
	defer func() { _ = file.Close() }()

	ref, err := s.photos.Save(file, header.Filename)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, photo.ErrTooLarge):
			status = http.StatusRequestEntityTooLarge
		case !errors.Is(err, photo.ErrNotImage):
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	if err := c.SetPhoto(ref); err != nil {
		s.releasePhoto(ref)
		writeRequestError(w, err)
		return
	}
	res, err := c.TranslatePhoto(r.Context())
	if err != nil {
		writeRequestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultDTO{
		Value:   res.Value,
		Failure: newFailureDTO(res.Failure),
		Session: newSessionDTO(c),
	})
}
