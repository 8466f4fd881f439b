package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pkordes/bootcamp-api/internal/domain"
)

type listResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Data    []domain.Bootcamp `json:"data"`
}

type itemResponse struct {
	Success bool            `json:"success"`
	Data    domain.Bootcamp `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeList(w http.ResponseWriter, data []domain.Bootcamp) {
	if data == nil {
		data = []domain.Bootcamp{}
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(data), Data: data})
}

func writeItem(w http.ResponseWriter, status int, b domain.Bootcamp) {
	writeJSON(w, status, itemResponse{Success: true, Data: b})
}

// readJSON decodes a single JSON document from the request body into dst.
// Unknown fields are ignored; anything after the document is rejected.
func readJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return domain.NewError("Request body is required", http.StatusBadRequest)
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return bodyError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) *domain.Error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.NewError("Request body too large", http.StatusRequestEntityTooLarge)
	}
	return domain.NewError("Malformed JSON body", http.StatusBadRequest)
}
