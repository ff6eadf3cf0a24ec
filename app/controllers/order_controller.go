package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/middleware"
	"github.com/shashiranjanraj/canteen/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Create handles POST /api/orders. Buyer only; the order binds to the
// token's subject, never to a client-supplied user.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []services.ItemInput `json:"items"`
		Total float64              `json:"total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Fail(w, apperr.ErrInvalidInput)
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	order, err := c.service.Create(r.Context(), claims, body.Items, body.Total)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, order)
}

// List handles GET /api/orders: buyers get their own orders, sellers all.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	orders, err := c.service.ListFor(r.Context(), claims)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

// Get handles GET /api/orders/{id}.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	order, err := c.service.Get(r.Context(), claims, chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, order)
}

// UpdateStatus handles PATCH /api/orders/{id}. Seller only.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Fail(w, apperr.ErrInvalidInput)
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	order, err := c.service.Transition(r.Context(), claims, chi.URLParam(r, "id"), body.Status)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, order)
}
