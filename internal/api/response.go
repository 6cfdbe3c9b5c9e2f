package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// Machine-checkable error codes. Clients branch on these instead of parsing
// the human-readable message.
const (
	codeNotFound         = "not_found"
	codeVersionConflict  = "version_conflict"
	codeDuplicateCatalog = "duplicate_catalog_number"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("error encoding response: %v", err)
		}
	}
}

// jsonError writes a JSON error response without a machine code.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorResponse{Error: message})
}

// jsonErrorCode writes a JSON error response carrying a machine-checkable code.
func jsonErrorCode(w http.ResponseWriter, status int, message, code string) {
	jsonResponse(w, status, errorResponse{Error: message, Code: code})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
