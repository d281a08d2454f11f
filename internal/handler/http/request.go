package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/auth"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/middleware"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
)

const maxJSONBody = 1 << 20

// decodeJSON reads a single JSON object and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			response.BadRequest(w, "Request body is required", nil)
		} else {
			response.BadRequest(w, "Invalid request format", map[string]string{"body": err.Error()})
		}
		return false
	}
	return true
}

// currentActor writes a 401 when the request carries no authenticated caller.
func currentActor(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
	}
	return actor, ok
}

type listParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func parseListParams(r *http.Request) listParams {
	q := r.URL.Query()
	p := listParams{Page: 1, Limit: 20, SortBy: q.Get("sortBy"), SortOrder: q.Get("sortOrder")}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.Limit = min(v, 100)
	}
	return p
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func queryBool(r *http.Request, key string) *bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return nil
	}
	return &v
}
