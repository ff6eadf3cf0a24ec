package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/response"
	"github.com/shashiranjanraj/canteen/pkg/validate"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type credentialsBody struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"nullable,in=buyer,seller"`
}

// Register handles POST /api/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Fail(w, apperr.ErrInvalidInput)
		return
	}
	if errs := validate.Struct(body); len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	result, err := c.service.Register(r.Context(), body.Username, body.Password, body.Role)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"token": result.Token,
		"user":  result.User.Public(),
	})
}

// Login handles POST /api/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Fail(w, apperr.ErrInvalidInput)
		return
	}

	result, err := c.service.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"token": result.Token,
		"user":  result.User.Public(),
	})
}
