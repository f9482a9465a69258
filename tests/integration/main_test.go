// tests/integration/main_test.go
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"boxoffice/internal/accounts"
	"boxoffice/internal/catalog"
	"boxoffice/internal/clock"
	"boxoffice/internal/sales"
)

type TestSuite struct {
	server *httptest.Server
}

// setupTestSuite wires the real services behind the full route table, the
// same shape cmd/boxoffice serves.
func setupTestSuite(t *testing.T) *TestSuite {
	t.Helper()

	clk := clock.NewSystem()
	logger := zap.NewNop()
	tracer := noop.NewTracerProvider().Tracer("integration")

	accountsSvc := accounts.NewService(clk, logger, &accounts.Options{RegisterBurst: 1000})
	catalogSvc := catalog.NewService(clk, logger)
	salesSvc := sales.NewService(accountsSvc, catalogSvc, clk, logger, tracer)

	accountsHandler := accounts.NewHandler(accountsSvc)
	catalogHandler := catalog.NewHandler(catalogSvc, accountsSvc)
	salesHandler := sales.NewHandler(salesSvc, clk)

	r := chi.NewRouter()
	r.Post("/accounts", accountsHandler.HandleRegister)
	r.Post("/login", accountsHandler.HandleLogin)
	r.Get("/accounts/{login}/tickets", salesHandler.HandleListTickets)
	r.Post("/events", catalogHandler.HandleRegisterEvent)
	r.Get("/events", catalogHandler.HandleListAvailableEvents)
	r.Get("/events/{name}", catalogHandler.HandleGetEvent)
	r.Post("/events/{name}/seats", catalogHandler.HandleAddSeat)
	r.Post("/purchases", salesHandler.HandlePurchase)
	r.Post("/purchases/cancel", salesHandler.HandleCancel)
	r.Post("/tickets/{id}/reinstate", salesHandler.HandleReinstate)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &TestSuite{server: server}
}

func (ts *TestSuite) post(t *testing.T, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(ts.server.URL+path, "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (ts *TestSuite) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPurchaseFlow(t *testing.T) {
	ts := setupTestSuite(t)
	nextYear := time.Now().AddDate(1, 0, 0).Format(time.RFC3339)

	// Register an admin and a regular user.
	resp := ts.post(t, "/accounts", map[string]any{
		"login": "admin", "password": "pw", "name": "Admin",
		"national_id": "0", "email": "admin@example.com", "admin": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.post(t, "/accounts", map[string]any{
		"login": "jo", "password": "pw", "name": "Jo",
		"national_id": "1", "email": "jo@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// A regular user may not register events.
	resp = ts.post(t, "/events", map[string]any{
		"login": "jo", "name": "Concert", "date": nextYear,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The admin registers the event and stocks a seat.
	resp = ts.post(t, "/events", map[string]any{
		"login": "admin", "name": "Concert", "description": "open air", "date": nextYear,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.post(t, "/events/Concert/seats", map[string]any{"seat_id": "A1"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The event shows up as available.
	resp = ts.get(t, "/events")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var events []struct {
		Name           string   `json:"name"`
		Active         bool     `json:"active"`
		AvailableSeats []string `json:"available_seats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.True(t, events[0].Active)
	assert.Equal(t, []string{"A1"}, events[0].AvailableSeats)

	// Jo buys the seat paying cash.
	resp = ts.post(t, "/purchases", map[string]any{
		"login": "jo", "event": "Concert", "seat": "A1",
		"payment": map[string]any{"method": "cash"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var purchase struct {
		ReceiptID string `json:"receipt_id"`
		PaidWith  string `json:"paid_with"`
		Ticket    struct {
			ID    string `json:"id"`
			Price string `json:"price"`
		} `json:"ticket"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&purchase))
	assert.NotEmpty(t, purchase.ReceiptID)
	assert.Equal(t, "cash", purchase.PaidWith)
	assert.Equal(t, "100", purchase.Ticket.Price)

	// The seat is gone and the ticket is on Jo's list.
	resp = ts.get(t, "/events/Concert")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var event struct {
		AvailableSeats []string `json:"available_seats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&event))
	assert.Empty(t, event.AvailableSeats)

	resp = ts.get(t, "/accounts/jo/tickets")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tickets []struct {
		Seat string `json:"seat"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tickets))
	require.Len(t, tickets, 1)
	assert.Equal(t, "A1", tickets[0].Seat)

	// Cancelling returns the seat.
	resp = ts.post(t, "/purchases/cancel", map[string]any{
		"login": "jo", "ticket_id": purchase.Ticket.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cancel struct {
		Cancelled bool `json:"cancelled"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cancel))
	assert.True(t, cancel.Cancelled)

	resp = ts.get(t, "/events/Concert")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&event))
	assert.Equal(t, []string{"A1"}, event.AvailableSeats)
}

func TestConcurrentPurchasePreventsDoubleSale(t *testing.T) {
	ts := setupTestSuite(t)
	nextYear := time.Now().AddDate(1, 0, 0).Format(time.RFC3339)

	resp := ts.post(t, "/accounts", map[string]any{
		"login": "admin", "password": "pw", "national_id": "0",
		"email": "admin@example.com", "admin": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.post(t, "/events", map[string]any{
		"login": "admin", "name": "Finale", "date": nextYear,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = ts.post(t, "/events/Finale/seats", map[string]any{"seat_id": "A1"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	logins := make([]string, 10)
	for i := range logins {
		logins[i] = fmt.Sprintf("user%d", i)
		resp := ts.post(t, "/accounts", map[string]any{
			"login": logins[i], "password": "pw",
			"national_id": fmt.Sprint(i + 1), "email": logins[i] + "@example.com",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0

	for _, login := range logins {
		wg.Add(1)
		go func(login string) {
			defer wg.Done()
			body, _ := json.Marshal(map[string]any{
				"login": login, "event": "Finale", "seat": "A1",
			})
			resp, err := http.Post(ts.server.URL+"/purchases", "application/json", bytes.NewBuffer(body))
			if err == nil {
				defer resp.Body.Close()
				if resp.StatusCode == http.StatusCreated {
					mu.Lock()
					successCount++
					mu.Unlock()
				}
			}
		}(login)
	}
	wg.Wait()

	assert.Equal(t, 1, successCount, "only one concurrent purchase of the same seat should succeed")

	resp = ts.get(t, "/events/Finale")
	var event struct {
		AvailableSeats []string `json:"available_seats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&event))
	assert.Empty(t, event.AvailableSeats)
}
