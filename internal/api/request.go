package api

import (
	"encoding/json"
	"net/http"

	"github.com/cyclopex/Performia-sub001/internal/auth"
)

// validator is implemented by request payloads that check their own shape.
type validator interface {
	Validate() error
}

// requireScope extracts claims from the request and enforces that at least one
// of the scopes is present. It writes the error response itself on failure.
func requireScope(w http.ResponseWriter, r *http.Request, scopes ...string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return nil, false
	}
	for _, scope := range scopes {
		if claims.HasScope(scope) {
			return claims, true
		}
	}
	writeError(w, http.StatusForbidden, "insufficient scope")
	return nil, false
}

// decodeBody parses and validates a JSON request body. It writes the error
// response itself on failure.
func decodeBody[T validator](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return req, false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}
