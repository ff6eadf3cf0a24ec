package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/auth"
	"github.com/shashiranjanraj/canteen/pkg/authz"
	"github.com/shashiranjanraj/canteen/pkg/event"
	"github.com/shashiranjanraj/canteen/pkg/response"
	"github.com/shashiranjanraj/canteen/pkg/ws"
)

// FeedController pushes order lifecycle events to connected sellers over a
// WebSocket, so the seller dashboard updates without polling.
type FeedController struct {
	hub *ws.Hub
}

// NewFeedController starts the hub and subscribes it to the order events
// the ledger fires.
func NewFeedController() *FeedController {
	hub := ws.NewHub()
	go hub.Run()

	for _, name := range []string{event.OrderCreated, event.OrderCompleted, event.OrderCancelled} {
		name := name
		event.Listen(name, func(payload interface{}) {
			order, ok := payload.(models.Order)
			if !ok {
				return
			}
			msg, err := json.Marshal(map[string]interface{}{
				"event": name,
				"order": order,
			})
			if err != nil {
				return
			}
			hub.Broadcast <- msg
		})
	}

	return &FeedController{hub: hub}
}

// Feed handles GET /api/orders/feed. Browsers cannot set headers on a
// WebSocket handshake, so the token rides in the query string.
func (c *FeedController) Feed(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	claims, err := auth.ValidateToken(token)
	if err != nil {
		response.Unauthorized(w)
		return
	}
	if claims.Role != authz.RoleSeller {
		response.Forbidden(w)
		return
	}

	ws.Upgrade(w, r, c.hub)
}
