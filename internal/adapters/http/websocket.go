package http

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/kerrokantasi/hearinggeo/internal/adapters/nats"
	"github.com/kerrokantasi/hearinggeo/internal/core/mapview"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to a hearing.
type wsMessage struct {
	Action    string `json:"action"` // "subscribe" | "unsubscribe"
	HearingID string `json:"hearing_id"`
}

// wsInvalidate tells a client to refetch the listed hearings.
type wsInvalidate struct {
	Type       string   `json:"type"`
	HearingIDs []string `json:"hearing_ids"`
}

// validHearingID reports whether id is a canonical hearing UUID. Anything
// else could carry NATS wildcards or separators into the subject.
func validHearingID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}

// WebSocketHandler returns a handler that relays geometry events of the
// hearings a client subscribed to. Every event is forwarded as it arrives,
// and bursts are followed by one "invalidate" message once no event has
// arrived for delay.
// Clients send JSON: {"action":"subscribe","hearing_id":"..."}
func WebSocketHandler(nc *nats.Conn, delay time.Duration) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		if nc == nil {
			_ = writeJSON(map[string]string{"error": "live updates unavailable"})
			return
		}

		var pendingMu sync.Mutex
		pending := map[string]struct{}{}
		inv := mapview.NewInvalidator(delay, func() {
			pendingMu.Lock()
			ids := make([]string, 0, len(pending))
			for id := range pending {
				ids = append(ids, id)
			}
			pending = map[string]struct{}{}
			pendingMu.Unlock()

			sort.Strings(ids)
			_ = writeJSON(wsInvalidate{Type: "invalidate", HearingIDs: ids})
		})
		defer inv.Stop()

		subs := make(map[string]*nats.Subscription) // hearing ID -> subscription
		defer func() {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
		}()

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			if m.HearingID == "" {
				_ = writeJSON(map[string]string{"error": "hearing_id is required"})
				continue
			}
			if !validHearingID(m.HearingID) {
				_ = writeJSON(map[string]string{"error": "hearing_id must be a UUID"})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[m.HearingID]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "hearing_id": m.HearingID})
					continue
				}
				hearingID := m.HearingID
				s, err := nc.Subscribe(natsadapter.HearingSubjects(hearingID), func(msg *nats.Msg) {
					_ = writeJSON(json.RawMessage(msg.Data))
					pendingMu.Lock()
					pending[hearingID] = struct{}{}
					pendingMu.Unlock()
					inv.Trigger()
				})
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				subs[hearingID] = s
				_ = writeJSON(map[string]string{"status": "subscribed", "hearing_id": hearingID})

			case "unsubscribe":
				if s, exists := subs[m.HearingID]; exists {
					_ = s.Unsubscribe()
					delete(subs, m.HearingID)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "hearing_id": m.HearingID})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + m.HearingID})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}
