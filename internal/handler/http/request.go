package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/qhamayedwa/altron-wfm-backend/internal/handler/http/middleware"
	"github.com/qhamayedwa/altron-wfm-backend/internal/handler/http/response"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/validator"
)

// requireActor writes 401 and returns false when the request carries no caller
func requireActor(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return user.Actor{}, false
	}
	return actor, true
}

// decodeJSON writes 400 and returns false on a malformed body
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// pathID reads a UUID path parameter, writing 400 when it is missing or malformed
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	id := chi.URLParam(r, name)
	if id == "" {
		response.BadRequest(w, label+" ID is required", nil)
		return "", false
	}
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid "+label+" ID", nil)
		return "", false
	}
	return id, true
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}

func getStringQueryParam(r *http.Request, key string) *string {
	if val := r.URL.Query().Get(key); val != "" {
		return &val
	}
	return nil
}

// getDateQueryParam parses a YYYY-MM-DD query parameter. A malformed value
// becomes a validation error for the field.
func getDateQueryParam(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	date, ok := validator.IsValidDate(val)
	if !ok {
		return nil, validator.ValidationErrors{{Field: key, Message: "must be a date in YYYY-MM-DD format"}}
	}
	return &date, nil
}
