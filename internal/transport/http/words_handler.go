package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/xavlacey/katakana-game/internal/app"
	"github.com/xavlacey/katakana-game/internal/domain"
)

// WordsHandler serves word lists as JSON arrays.
type WordsHandler struct {
	words app.WordRepository
	log   zerolog.Logger
}

func NewWordsHandler(words app.WordRepository, log zerolog.Logger) *WordsHandler {
	return &WordsHandler{words: words, log: log}
}

type errorBody struct {
	Error string `json:"error"`
}

// ServeList handles GET /api/words/{difficulty}/.
func (h *WordsHandler) ServeList(w http.ResponseWriter, r *http.Request) {
	difficulty, err := domain.LookupDifficulty(chi.URLParam(r, "difficulty"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid difficulty level"})
		return
	}

	words, err := h.words.FetchWords(r.Context(), difficulty)
	if err != nil {
		h.log.Error().Err(err).Str("difficulty", difficulty.String()).Msg("list words")
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrRetrieval) {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorBody{Error: "Failed to fetch words"})
		return
	}
	if words == nil {
		words = []domain.WordRecord{}
	}
	writeJSON(w, http.StatusOK, words)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
