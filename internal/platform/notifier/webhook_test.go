package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookChannel_Send(t *testing.T) {
	t.Parallel()

	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	ch := NewWebhookChannel(server.Client())

	err := ch.Send(context.Background(), server.URL, "這是一則測試訊息")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received["content"] != "這是一則測試訊息" {
		t.Errorf("unexpected content %q", received["content"])
	}
}

func TestWebhookChannel_Send_HTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	ch := NewWebhookChannel(server.Client())

	if err := ch.Send(context.Background(), server.URL, "msg"); err == nil {
		t.Fatal("expected error on http 404")
	}
}
