package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/critiqueapp/critique-server/internal/http/response"
)

// decodeJSON reads the request body into dst using json/v2. On failure it
// writes the 400 itself and reports false so handlers can just return.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.UnmarshalRead(r.Body, dst); err != nil {
		response.BadRequest(w, "Invalid JSON body", s.logger)
		return false
	}
	return true
}
