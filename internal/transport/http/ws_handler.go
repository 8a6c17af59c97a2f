package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"ham-quiz-trainer/internal/app"
	"ham-quiz-trainer/internal/domain"
)

// WSHandler exposes the trainer over a WebSocket event protocol. Each inbound
// event maps to one service call and the resulting state snapshot is written
// back; failed events produce an error payload and leave the state untouched.
type WSHandler struct {
	service  *app.TrainerService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.TrainerService) *WSHandler {
	return &WSHandler{
		service: service,
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

type letterPayload struct {
	Letter domain.Letter `json:"letter"`
}

type sectionPayload struct {
	SectionID string `json:"sectionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the trainer use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	defer h.service.Leave(r.Context(), userID)

	snapshot, err := h.service.Connect(r.Context(), userID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	if err := conn.WriteJSON(outboundMessage[app.Snapshot]{Type: "state", Payload: snapshot}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		snapshot, err := h.dispatch(r, userID, inbound)
		if err != nil {
			if writeErr := conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}); writeErr != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(outboundMessage[app.Snapshot]{Type: "state", Payload: snapshot}); err != nil {
			return
		}
	}
}

var errUnknownEvent = errors.New("unsupported message type")

func (h *WSHandler) dispatch(r *http.Request, userID string, inbound inboundMessage) (app.Snapshot, error) {
	ctx := r.Context()
	switch inbound.Type {
	case "start":
		return h.service.Start(ctx, userID)
	case "propose":
		var payload letterPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return app.Snapshot{}, errors.New("invalid propose payload")
		}
		return h.service.Propose(ctx, userID, payload.Letter)
	case "confirm":
		return h.service.Confirm(ctx, userID)
	case "cancel":
		return h.service.Cancel(ctx, userID)
	case "answer":
		var payload letterPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return app.Snapshot{}, errors.New("invalid answer payload")
		}
		return h.service.Answer(ctx, userID, payload.Letter)
	case "next":
		return h.service.Next(ctx, userID)
	case "reset":
		return h.service.Reset(ctx, userID)
	case "reviewWrong":
		return h.service.ReviewWrong(ctx, userID)
	case "toggleSection":
		var payload sectionPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return app.Snapshot{}, errors.New("invalid toggleSection payload")
		}
		return h.service.ToggleSection(ctx, userID, payload.SectionID)
	case "selectAll":
		return h.service.SelectAll(ctx, userID)
	default:
		return app.Snapshot{}, errUnknownEvent
	}
}
