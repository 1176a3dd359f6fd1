package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/sirh-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/sirh-backend-go/internal/handler/http/response"
)

// decodeJSON writes a 400 and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func actorFromRequest(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrActorRequired)
		return user.Actor{}, false
	}
	return actor, true
}

// yearParam reads ?year=, defaulting to the year of now.
func yearParam(r *http.Request, now time.Time) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	if raw == "" {
		return now.Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, leave.ErrInvalidYear
	}
	return year, nil
}

func optionalQuery(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}
