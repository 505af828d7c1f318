package server

import (
	"codeberg.org/snonux/polyglot/internal/languages"
	"codeberg.org/snonux/polyglot/internal/session"
)

type languageDTO struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}

type failureDTO struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
	Marker string `json:"marker"`
	Error  string `json:"error"`
}

type statusDTO struct {
	Vocabulary  string `json:"vocabulary"`
	Translation string `json:"translation"`
	Photo       string `json:"photo"`
}

type capabilitiesDTO struct {
	Speak          bool `json:"speak"`
	PhotoTranslate bool `json:"photo_translate"`
	FreeTranslate  bool `json:"free_translate"`
}

type sessionDTO struct {
	ID               string          `json:"id"`
	Version          uint64          `json:"version"`
	Language         languageDTO     `json:"language"`
	Words            []string        `json:"words"`
	Index            int             `json:"index"`
	CurrentWord      string          `json:"current_word,omitempty"`
	HasNext          bool            `json:"has_next"`
	Loading          bool            `json:"loading"`
	Translation      string          `json:"translation,omitempty"`
	Photo            string          `json:"photo,omitempty"`
	PhotoText        string          `json:"photo_text,omitempty"`
	PhotoTranslation string          `json:"photo_translation,omitempty"`
	Status           statusDTO       `json:"status"`
	LastFailure      *failureDTO     `json:"last_failure,omitempty"`
	Capabilities     capabilitiesDTO `json:"capabilities"`
}

// resultDTO answers a single request
type resultDTO struct {
	Value   interface{} `json:"value,omitempty"`
	Failure *failureDTO `json:"failure,omitempty"`
	Session sessionDTO  `json:"session"`
}

func newLanguageDTO(l languages.Language) languageDTO {
	return languageDTO{Label: l.Label, Code: l.Code}
}

func newFailureDTO(f *session.RequestFailure) *failureDTO {
	if f == nil {
		return nil
	}
	dto := &failureDTO{
		Kind:   f.Kind.String(),
		Reason: f.Reason.String(),
		Marker: f.Marker(),
	}
	if f.Err != nil {
		dto.Error = f.Err.Error()
	}
	return dto
}

func newSessionDTO(c *session.Controller) sessionDTO {
	s := c.State()
	caps := c.Capabilities()
	current, _ := s.CurrentWord()

	words := s.Words
	if words == nil {
		words = []string{}
	}

	return sessionDTO{
		ID:               c.ID(),
		Version:          s.Version,
		Language:         newLanguageDTO(s.Language),
		Words:            words,
		Index:            s.Index,
		CurrentWord:      current,
		HasNext:          s.HasNext(),
		Loading:          s.Loading,
		Translation:      s.Translation,
		Photo:            s.Photo.Name(),
		PhotoText:        s.PhotoText,
		PhotoTranslation: s.PhotoTranslation,
		Status: statusDTO{
			Vocabulary:  s.VocabularyStatus.String(),
			Translation: s.TranslationStatus.String(),
			Photo:       s.PhotoStatus.String(),
		},
		LastFailure: newFailureDTO(s.LastFailure),
		Capabilities: capabilitiesDTO{
			Speak:          caps.Speak,
			PhotoTranslate: caps.PhotoTranslate,
			FreeTranslate:  caps.FreeTranslate,
		},
	}
}
