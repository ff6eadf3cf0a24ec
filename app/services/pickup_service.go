package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/auth"
	"github.com/shashiranjanraj/canteen/pkg/authz"
	"github.com/shashiranjanraj/canteen/pkg/metrics"
)

// Pickup outcomes.
const (
	OutcomeServed        = "served"         // order found pending, now completed
	OutcomeAlreadyServed = "already_served" // previously completed (or re-scanned)
	OutcomeRejected      = "rejected"       // order was cancelled
)

// PickupResult is the answer to one scan.
type PickupResult struct {
	Outcome string       `json:"outcome"`
	Message string       `json:"message"`
	Order   models.Order `json:"order"`
}

// scanCache remembers which orders a seller already scanned in the current
// process. It is an in-session guard against accidental double scans, not a
// durable dedup: it resets on restart, which is fine because the ledger's
// conditional status update is the real guarantee against double completion.
type scanCache struct {
	mu    sync.Mutex
	seen  map[string]time.Time
	ttl   time.Duration
	clock func() time.Time
}

func newScanCache(ttl time.Duration) *scanCache {
	return &scanCache{
		seen:  map[string]time.Time{},
		ttl:   ttl,
		clock: time.Now,
	}
}

func (c *scanCache) key(sellerID, orderID string) string {
	return sellerID + ":" + orderID
}

func (c *scanCache) hit(sellerID, orderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	at, ok := c.seen[c.key(sellerID, orderID)]
	if !ok {
		return false
	}
	if c.clock().Sub(at) > c.ttl {
		delete(c.seen, c.key(sellerID, orderID))
		return false
	}
	return true
}

func (c *scanCache) mark(sellerID, orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[c.key(sellerID, orderID)] = c.clock()
}

// PickupService resolves scanned QR payloads into order completions.
//
// The payload is the order's own identifier — possession of the ID is the
// capability to complete the order. This mirrors the physical flow (the
// buyer shows the QR at the counter) but means anyone who can read or guess
// an order ID can trigger completion; minting a separate unguessable pickup
// capability is a pending product decision, deliberately not done here.
//
// Decoding the QR image into its payload string happens on the client (the
// scanner device); the server consumes the decoded string.
type PickupService struct {
	orders  *OrderService
	scans   *scanCache
	validID func(string) bool
}

// NewPickupService builds the pickup flow on top of the order ledger.
// validID is the store's identifier syntax check, used to reject malformed
// payloads before touching the ledger.
func NewPickupService(orders *OrderService, validID func(string) bool) *PickupService {
	return &PickupService{
		orders:  orders,
		scans:   newScanCache(12 * time.Hour),
		validID: validID,
	}
}

// Resolve handles one scanned payload for the calling seller.
//
// Exactly-once serving is guaranteed by the ledger, not by this method: when
// N sellers scan the same pending order concurrently, the store's
// conditional update lets exactly one transition succeed; every other call
// observes the already-terminal order and reports it as already served.
func (s *PickupService) Resolve(ctx context.Context, claims *auth.Claims, payload string) (PickupResult, error) {
	if claims == nil {
		return PickupResult{}, apperr.ErrUnauthenticated
	}
	if !authz.Allow(claims, authz.Resource{Kind: authz.KindOrder}, authz.ActionTransition) {
		return PickupResult{}, apperr.ErrForbidden
	}

	orderID := strings.TrimSpace(payload)
	if orderID == "" || !s.validID(orderID) {
		metrics.PickupScans.WithLabelValues("error").Inc()
		return PickupResult{}, apperr.ErrInvalidPayload
	}

	// Session-local double-scan guard: skip the ledger round-trip entirely.
	if s.scans.hit(claims.UserID, orderID) {
		order, err := s.orders.Get(ctx, claims, orderID)
		if err != nil {
			return PickupResult{}, err
		}
		metrics.PickupScans.WithLabelValues(OutcomeAlreadyServed).Inc()
		return PickupResult{
			Outcome: OutcomeAlreadyServed,
			Message: "This order has already been served",
			Order:   order,
		}, nil
	}

	order, err := s.orders.Transition(ctx, claims, orderID, string(models.StatusCompleted))
	switch {
	case err == nil:
		s.scans.mark(claims.UserID, orderID)
		metrics.PickupScans.WithLabelValues(OutcomeServed).Inc()
		return PickupResult{
			Outcome: OutcomeServed,
			Message: "Order found and marked as completed",
			Order:   order,
		}, nil

	case errors.Is(err, apperr.ErrInvalidTransition):
		// The ledger already holds a terminal state for this order.
		if order.Status == models.StatusCancelled {
			metrics.PickupScans.WithLabelValues(OutcomeRejected).Inc()
			return PickupResult{
				Outcome: OutcomeRejected,
				Message: "This order was cancelled",
				Order:   order,
			}, nil
		}
		s.scans.mark(claims.UserID, orderID)
		metrics.PickupScans.WithLabelValues(OutcomeAlreadyServed).Inc()
		return PickupResult{
			Outcome: OutcomeAlreadyServed,
			Message: "This order has already been served",
			Order:   order,
		}, nil

	default:
		metrics.PickupScans.WithLabelValues("error").Inc()
		return PickupResult{}, err
	}
}
