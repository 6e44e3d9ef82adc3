package webhookutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

type payload struct {
	Success int `json:"success"`
}

func TestInvoke(t *testing.T) {
	var received payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewDecoder(r.Body).Decode(&received)
	}))
	defer server.Close()

	if err := Invoke(context.Background(), server.URL, payload{Success: 3}); err != nil {
		t.Fatal(err)
	}
	if received.Success != 3 {
		t.Errorf("received = %+v", received)
	}
}

func TestInvokeNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if err := Invoke(context.Background(), server.URL, payload{}); err == nil {
		t.Error("expected an error for a 502 response")
	}
}

func TestInvokeWithRetriesStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := InvokeWithRetries(ctx, server.URL, payload{}, 5)
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls.Load() > 1 {
		t.Errorf("calls = %d, want at most 1", calls.Load())
	}
}
