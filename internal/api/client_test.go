package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barberq/internal/api"
	"barberq/internal/queue"
)

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(api.QueueResponse{Data: []api.Barber{}})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, "secret-token")
	if _, err := client.Queue(context.Background()); err != nil {
		t.Fatalf("Queue: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestClientDecodesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(api.ErrorBody{Error: "invalid_order", Reason: "empty id list"})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, "")
	err := client.Reorder(context.Background(), nil)
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *api.APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "invalid_order" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestClientSetStatusRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/barbers/status" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req api.StatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(api.EntryResponse{Data: api.Barber{
			ID: req.BarberID, Status: req.Status, Position: 3,
		}})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, "tok")
	entry, err := client.SetStatus(context.Background(), 7, "busy_walkin")
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if entry.ID != 7 || entry.Status != "busy_walkin" || entry.Position != 3 {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestBarberFromEntryFormatsTimes(t *testing.T) {
	busy := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	entry := &queue.Entry{
		ID:        1,
		Name:      "Alice",
		Status:    queue.StatusBusyWalkin,
		Position:  2,
		BusySince: &busy,
		CreatedAt: busy.Add(-time.Hour),
		UpdatedAt: busy,
	}

	wire := api.BarberFromEntry(entry)
	if wire.BusySince != "2026-03-04T10:30:00Z" {
		t.Fatalf("busy_since = %q", wire.BusySince)
	}
	if wire.CreatedAt == "" || wire.UpdatedAt == "" {
		t.Fatal("timestamps should be populated")
	}
}

func TestBarbersFromEntriesNeverNil(t *testing.T) {
	encoded, err := json.Marshal(api.QueueResponse{Data: api.BarbersFromEntries(nil)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) == "" || !json.Valid(encoded) {
		t.Fatal("invalid encoding")
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(decoded["data"]) != "[]" {
		t.Fatalf("data = %s, want []", decoded["data"])
	}
}
