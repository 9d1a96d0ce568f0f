package console

import (
	"encoding/json"
	"net/http"
)

type statusResponse struct {
	Pages  int64    `json:"pages"`
	Routes []string `json:"routes"`
}

func (c *Console) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Pages: c.Pages(), Routes: c.routes})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
