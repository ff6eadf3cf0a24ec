package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/middleware"
	"github.com/shashiranjanraj/canteen/pkg/response"
)

type PickupController struct {
	service *services.PickupService
}

func NewPickupController(service *services.PickupService) *PickupController {
	return &PickupController{service: service}
}

// Scan handles POST /api/pickup/scan. Seller only. The body carries the
// string payload the scanner decoded from the buyer's QR code.
func (c *PickupController) Scan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Payload string `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Fail(w, apperr.ErrInvalidInput)
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	result, err := c.service.Resolve(r.Context(), claims, body.Payload)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, result)
}
