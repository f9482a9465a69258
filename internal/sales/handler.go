// internal/sales/handler.go
package sales

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"boxoffice/internal/accounts"
	"boxoffice/internal/catalog"
	"boxoffice/internal/clock"
	"boxoffice/internal/payment"
)

type Handler struct {
	service Service
	clock   clock.Clock
}

func NewHandler(service Service, clk clock.Clock) *Handler {
	return &Handler{service: service, clock: clk}
}

// paymentRequest carries optional payment details on a purchase. When
// present, the chosen method is verified before the ticket is issued and the
// response includes a receipt.
type paymentRequest struct {
	Method      string    `json:"method"` // card, cash, voucher
	Secret      string    `json:"secret"`
	CardNumber  string    `json:"card_number,omitempty"`
	CardCVV     string    `json:"card_cvv,omitempty"`
	CardExpiry  time.Time `json:"card_expiry,omitempty"`
	Credit      bool      `json:"credit,omitempty"`
	VoucherCode string    `json:"voucher_code,omitempty"`
}

func (p *paymentRequest) method() (payment.Method, error) {
	switch p.Method {
	case "card":
		return payment.NewCard(p.CardNumber, p.CardCVV, p.CardExpiry, p.Credit), nil
	case "cash":
		return payment.NewCash(), nil
	case "voucher":
		return payment.NewVoucher(p.VoucherCode), nil
	default:
		return nil, fmt.Errorf("unknown payment method %q", p.Method)
	}
}

func (h *Handler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login   string          `json:"login"`
		Event   string          `json:"event"`
		Seat    string          `json:"seat"`
		Payment *paymentRequest `json:"payment,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var method payment.Method
	if req.Payment != nil {
		m, err := req.Payment.method()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !m.Verify(req.Payment.Secret, h.clock.Now()) {
			http.Error(w, ErrPaymentDeclined.Error(), http.StatusPaymentRequired)
			return
		}
		method = m
	}

	ticket, err := h.service.PurchaseTicket(r.Context(), req.Login, req.Event, req.Seat)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := struct {
		Ticket    any    `json:"ticket"`
		ReceiptID string `json:"receipt_id,omitempty"`
		PaidWith  string `json:"paid_with,omitempty"`
	}{Ticket: ticketResponse(ticket)}

	if method != nil {
		receipt := NewPurchase(req.Login, ticket, method)
		resp.ReceiptID = receipt.ID.String()
		resp.PaidWith = method.Label()
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login    string    `json:"login"`
		TicketID uuid.UUID `json:"ticket_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cancelled, err := h.service.CancelPurchase(r.Context(), req.Login, req.TicketID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	json.NewEncoder(w).Encode(struct {
		Cancelled bool `json:"cancelled"`
	}{Cancelled: cancelled})
}

func (h *Handler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	tickets, err := h.service.ListPurchasedTickets(r.Context(), login)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]any, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ticketResponse(t))
	}
	json.NewEncoder(w).Encode(out)
}

func (h *Handler) HandleReinstate(w http.ResponseWriter, r *http.Request) {
	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid ticket ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Login string `json:"login"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.ReinstateTicket(r.Context(), req.Login, ticketID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ticketResponse includes the active flag, which lives behind a method on
// the domain type.
func ticketResponse(t *Ticket) any {
	return struct {
		*Ticket
		Active bool `json:"active"`
	}{Ticket: t, Active: t.Active()}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounts.ErrAccountNotFound),
		errors.Is(err, catalog.ErrEventNotFound),
		errors.Is(err, ErrTicketNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, catalog.ErrSeatUnavailable),
		errors.Is(err, ErrTicketActive):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotTicketHolder):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrEventPassed):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
