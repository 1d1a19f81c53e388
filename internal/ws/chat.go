package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/ramadanhub/backend/internal/domain"
	"github.com/ramadanhub/backend/internal/service"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled at the HTTP level
	},
}

// Streamer is the slice of the LLM client the chat handler needs.
type Streamer interface {
	StreamChat(ctx context.Context, system, user string, onDelta func(string)) (string, error)
}

const assistantSystemPrompt = `You are a friendly Ramadan companion assistant.
Answer questions about fasting schedules, meal ideas, traditions and family
activities. Keep answers concise and warm.`

// ChatHandler streams assistant replies over WebSocket. Each user message
// passes through the entitlement gate before the provider is invoked, so a
// long-lived socket can still hit the paywall mid-conversation.
type ChatHandler struct {
	auth     *service.AuthService
	gate     *service.EntitlementService
	streamer Streamer
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(auth *service.AuthService, gate *service.EntitlementService, streamer Streamer) *ChatHandler {
	return &ChatHandler{
		auth:     auth,
		gate:     gate,
		streamer: streamer,
	}
}

type chatIncoming struct {
	Message string `json:"message"`
}

type chatOutgoing struct {
	Type             string `json:"type"` // delta | done | paywall | error
	Content          string `json:"content,omitempty"`
	Reason           string `json:"reason,omitempty"`
	UpgradeURL       string `json:"upgrade_url,omitempty"`
	IsPro            bool   `json:"is_pro,omitempty"`
	RemainingCredits int    `json:"remaining_credits,omitempty"`
}

// Handle upgrades HTTP to WebSocket and runs the chat loop.
// URL: /api/chat/stream?token=JWT_TOKEN
func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Browsers can't set headers on WebSocket requests, so the token rides
	// in the query string.
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token required", http.StatusUnauthorized)
		return
	}

	claims, err := h.auth.VerifyToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("🔌 Assistant chat connected (user: %s)", claims.Email)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var in chatIncoming
		if err := json.Unmarshal(msg, &in); err != nil || in.Message == "" {
			h.send(conn, chatOutgoing{Type: "error", Content: "invalid message"})
			continue
		}

		h.respond(conn, claims.Sub, in.Message)
	}
}

// respond gates one user message and streams the reply.
func (h *ChatHandler) respond(conn *websocket.Conn, userID, message string) {
	ctx := context.Background()

	res, err := h.gate.Require(ctx, userID, domain.FeatureAssistant)
	if err != nil {
		log.Printf("assistant gate error for %s: %v", userID, err)
		h.send(conn, chatOutgoing{Type: "error", Content: "service temporarily unavailable, try again later"})
		return
	}
	if !res.Allowed {
		h.send(conn, chatOutgoing{
			Type:       "paywall",
			Reason:     res.Reason,
			UpgradeURL: res.UpgradeURL,
		})
		return
	}

	_, err = h.streamer.StreamChat(ctx, assistantSystemPrompt, message, func(delta string) {
		h.send(conn, chatOutgoing{Type: "delta", Content: delta})
	})
	if err != nil {
		if res.Debited {
			if rerr := h.gate.Refund(ctx, userID, domain.FeatureAssistant); rerr != nil {
				log.Printf("failed to refund credit for %s: %v", userID, rerr)
			} else {
				res.RemainingCredits++
			}
		}
		log.Printf("assistant stream error for %s: %v", userID, err)
		h.send(conn, chatOutgoing{Type: "error", Content: "generation failed, please try again"})
		return
	}

	h.send(conn, chatOutgoing{
		Type:             "done",
		IsPro:            res.IsPro,
		RemainingCredits: res.RemainingCredits,
	})
}

func (h *ChatHandler) send(conn *websocket.Conn, out chatOutgoing) {
	payload, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("assistant write failed: %v", err)
	}
}
