package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/xavlacey/katakana-game/internal/app"
	"github.com/xavlacey/katakana-game/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Difficulty string `json:"difficulty"`
}

type answerPayload struct {
	Text string `json:"text"`
}

type answerResult struct {
	Outcome  string `json:"outcome"`
	Attempts int    `json:"attempts"`
}

type connectedPayload struct {
	PlayerID string              `json:"playerId"`
	Levels   []domain.Difficulty `json:"levels"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one player's quiz.
// Session events are forwarded as {type: <event type>, payload: <event>}.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		playerID = uuid.NewString()
	}
	log := h.log.With().Str("player", playerID).Logger()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	h.service.Connect(playerID)

	send := make(chan outboundMessage[any], 32)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		broken := false
		for {
			select {
			case msg := <-send:
				// keep draining so producers never block on a dead connection
				if broken {
					continue
				}
				if err := conn.WriteJSON(msg); err != nil {
					log.Debug().Err(err).Msg("ws write error")
					broken = true
				}
			case <-closeSignals:
				return
			}
		}
	}()

	// Events may arrive from the deferred advance, outside the read loop.
	sink := domain.SinkFunc(func(ev domain.Event) {
		select {
		case send <- outboundMessage[any]{Type: string(ev.EventType()), Payload: ev}:
		case <-closeSignals:
		}
	})
	reply := func(typ string, payload any) {
		sink.Notify(rawEvent{typ: typ, payload: payload})
	}
	replyError := func(msg string) {
		reply("error", errorPayload{Message: msg})
	}

	reply("connected", connectedPayload{PlayerID: playerID, Levels: domain.Levels})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				replyError("invalid start payload")
				continue
			}
			difficulty, err := domain.ParseDifficulty(payload.Difficulty)
			if err != nil {
				replyError("Invalid difficulty level")
				continue
			}
			if err := h.service.StartLevel(r.Context(), playerID, difficulty, sink); err != nil {
				log.Info().Err(err).Str("difficulty", difficulty.String()).Msg("start level")
				// Retrieval and empty-set failures already reached the sink.
				if !errors.Is(err, domain.ErrRetrieval) && !errors.Is(err, domain.ErrEmptyWordSet) {
					replyError(err.Error())
				}
			}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				replyError("invalid answer payload")
				continue
			}
			out, err := h.service.SubmitAnswer(r.Context(), playerID, payload.Text)
			if err != nil {
				replyError(err.Error())
				continue
			}
			reply("answerResult", answerResult{Outcome: out.Kind.String(), Attempts: out.Attempts})
		case "reveal":
			if err := h.service.RevealAnswer(r.Context(), playerID); err != nil {
				replyError(err.Error())
			}
		default:
			replyError("unsupported message type")
		}
	}

	// Another connection may keep the player alive, so late session events
	// can still reach sink; closeSignals turns them into no-ops.
	close(closeSignals)
	h.service.Disconnect(playerID)
	<-writerDone
}

// rawEvent lets protocol replies share the event path with session events.
type rawEvent struct {
	typ     string
	payload any
}

func (e rawEvent) EventType() domain.EventType { return domain.EventType(e.typ) }

func (e rawEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.payload)
}
