// Package controllers is the HTTP boundary: decode the request, call the
// service, translate the result (or the domain error) into the JSON
// envelope. No business rules live here.
package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/response"
)

// fail logs unexpected failures once (with the request ID attached) and
// writes the client-safe error response. Domain errors pass through quietly;
// store failures and panics-adjacent internals are worth a log line.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.Status(err) >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	response.Fail(w, err)
}
