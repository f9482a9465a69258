// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"boxoffice/internal/accounts"
)

type Handler struct {
	service  Service
	accounts accounts.Service
}

func NewHandler(service Service, accountsSvc accounts.Service) *Handler {
	return &Handler{service: service, accounts: accountsSvc}
}

func (h *Handler) HandleRegisterEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login       string    `json:"login"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Date        time.Time `json:"date"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actor, err := h.accounts.Get(r.Context(), req.Login)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	event, err := h.service.RegisterEvent(r.Context(), actor, req.Name, req.Description, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, ErrPermissionDenied):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, ErrEventExists):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(eventResponse(event))
}

func (h *Handler) HandleAddSeat(w http.ResponseWriter, r *http.Request) {
	eventName := chi.URLParam(r, "name")

	var req struct {
		SeatID string `json:"seat_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.AddSeat(r.Context(), eventName, req.SeatID); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.GetEvent(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(eventResponse(event))
}

func (h *Handler) HandleListAvailableEvents(w http.ResponseWriter, r *http.Request) {
	events := h.service.ListAvailableEvents(r.Context())

	out := make([]any, 0, len(events))
	for _, event := range events {
		out = append(out, eventResponse(event))
	}
	json.NewEncoder(w).Encode(out)
}

// eventResponse flattens an event and its seat pool for the wire.
func eventResponse(e *Event) any {
	return struct {
		Name           string    `json:"name"`
		Description    string    `json:"description"`
		Date           time.Time `json:"date"`
		Active         bool      `json:"active"`
		AvailableSeats []string  `json:"available_seats"`
	}{
		Name:           e.Name,
		Description:    e.Description,
		Date:           e.Date,
		Active:         e.Active,
		AvailableSeats: e.AvailableSeats(),
	}
}
