package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/middleware"
	"github.com/shashiranjanraj/canteen/pkg/response"
	"github.com/shashiranjanraj/canteen/pkg/validate"
)

type ProductController struct {
	service *services.CatalogService
}

func NewProductController(service *services.CatalogService) *ProductController {
	return &ProductController{service: service}
}

// List handles GET /api/products. Public; sellers with a token get their
// own full catalog instead of the filtered public view.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	products, err := c.service.List(r.Context(), claims)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, products)
}

// Create handles POST /api/products. Seller only.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var input services.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Fail(w, apperr.ErrInvalidInput)
		return
	}
	if errs := validate.Struct(input); len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	product, err := c.service.Create(r.Context(), claims, input)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, product)
}

// Update handles PUT /api/products/{id}. Seller and owner only.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var input services.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Fail(w, apperr.ErrInvalidInput)
		return
	}
	if errs := validate.Struct(input); len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	product, err := c.service.Update(r.Context(), claims, chi.URLParam(r, "id"), input)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}

// Delete handles DELETE /api/products/{id}. Seller and owner only.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if err := c.service.Delete(r.Context(), claims, chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Product deleted"})
}
