package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"barberq/internal/api"
)

func runCommand(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server", serverURL, "--token", "test-token"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestQueueCommandRendersTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/barbers" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(api.QueueResponse{
			Data: []api.Barber{
				{ID: 1, Name: "Alice", Status: "available", Position: 1},
				{ID: 2, Name: "Bob", Status: "busy_walkin", Position: 2, BusySince: "2026-03-04T10:00:00Z"},
			},
			ServerTime:     "2026-03-04T10:30:00Z",
			PollIntervalMS: 3000,
			Access:         "full",
			Settings:       api.ShopSettings{ShopName: "Fade Factory", Theme: "light", PollIntervalMS: 3000},
		})
	}))
	defer srv.Close()

	out, err := runCommand(t, srv.URL, "queue")
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	for _, want := range []string{"Fade Factory", "Alice", "Bob", "busy walkin", "30m"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQueueCommandJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.QueueResponse{Data: []api.Barber{{ID: 5, Name: "Eve"}}})
	}))
	defer srv.Close()

	out, err := runCommand(t, srv.URL, "queue", "--json")
	if err != nil {
		t.Fatalf("queue --json: %v", err)
	}
	var decoded api.QueueResponse
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(decoded.Data) != 1 || decoded.Data[0].Name != "Eve" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestStatusCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.StatusRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(api.EntryResponse{Data: api.Barber{
			ID: req.BarberID, Name: "Alice", Status: req.Status, Position: 3,
		}})
	}))
	defer srv.Close()

	out, err := runCommand(t, srv.URL, "status", "1", "busy_walkin")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Alice is now busy walkin (position 3)") {
		t.Fatalf("output = %q", out)
	}
}

func TestStatusCommandRejectsBadID(t *testing.T) {
	if _, err := runCommand(t, "http://127.0.0.1:0", "status", "zero", "available"); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestOrderCommandSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(api.ErrorBody{Error: "invalid_payload", Reason: "invalid order"})
	}))
	defer srv.Close()

	_, err := runCommand(t, srv.URL, "order", "4", "2")
	if err == nil || !strings.Contains(err.Error(), "invalid order") {
		t.Fatalf("err = %v, want invalid order", err)
	}
}
