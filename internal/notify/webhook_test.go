package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookSend(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	ch := NewWebhook(WebhookConfig{Enabled: true, URL: server.URL, Username: "detector"})
	if err := ch.Send(context.Background(), testEvent()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(received["content"], "bjorn.home") {
		t.Fatalf("expected host in message, got %q", received["content"])
	}
	if !strings.Contains(received["content"], "192.168.1.10") {
		t.Fatalf("expected address in message, got %q", received["content"])
	}
	if received["username"] != "detector" {
		t.Fatalf("expected username passthrough, got %q", received["username"])
	}
}

func TestWebhookSend_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid webhook token", http.StatusUnauthorized)
	}))
	defer server.Close()

	ch := NewWebhook(WebhookConfig{Enabled: true, URL: server.URL})
	err := ch.Send(context.Background(), testEvent())
	if err == nil {
		t.Fatal("expected delivery error")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestWebhookValidate(t *testing.T) {
	cases := []struct {
		url string
		ok  bool
	}{
		{"https://discord.com/api/webhooks/1/abc", true},
		{"http://hooks.internal/notify", true},
		{"", false},
		{"not a url", false},
		{"ftp://hooks.internal", false},
	}
	for _, tc := range cases {
		err := NewWebhook(WebhookConfig{Enabled: true, URL: tc.url}).Validate()
		if tc.ok && err != nil {
			t.Fatalf("url %q: unexpected error %v", tc.url, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("url %q: expected validation error", tc.url)
		}
	}
}
