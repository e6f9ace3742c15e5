package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/gyaneshwarpardhi/dialoguegraph/internal/message"
)

// GET /v1/ws: the worker protocol over a websocket.
//
// Each inbound text frame is one request envelope. Requests are served
// concurrently, so responses may arrive in any order; callers correlate by id.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var (
		writeMu sync.Mutex
		wg      sync.WaitGroup
	)
	send := func(resp message.Response) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(resp); err != nil {
			slog.Debug("websocket write failed", "id", resp.ID, "err", err)
		}
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket read ended", "err", err)
			}
			break
		}

		var env message.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			send(message.Failure("", "", fmt.Errorf("invalid envelope: %w", err), ""))
			continue
		}

		wg.Add(1)
		go func(env message.Envelope) {
			defer wg.Done()
			send(h.client.Send(ctx, env))
		}(env)
	}

	cancel()
	wg.Wait()
}
