package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTelegramSend(t *testing.T) {
	var path string
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	ch := NewTelegram(TelegramConfig{
		Enabled: true,
		Token:   "123:abc",
		ChatID:  "-100200300",
		BaseURL: server.URL,
	})
	if err := ch.Send(context.Background(), testEvent()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if path != "/bot123:abc/sendMessage" {
		t.Fatalf("unexpected endpoint path %q", path)
	}
	if received["chat_id"] != "-100200300" {
		t.Fatalf("expected chat_id passthrough, got %q", received["chat_id"])
	}
	if !strings.Contains(received["text"], "bjorn.home") {
		t.Fatalf("expected host in message, got %q", received["text"])
	}
}

func TestTelegramSend_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false,"description":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	ch := NewTelegram(TelegramConfig{Enabled: true, Token: "bad", ChatID: "1", BaseURL: server.URL})
	if err := ch.Send(context.Background(), testEvent()); err == nil {
		t.Fatal("expected delivery error")
	}
}

func TestTelegramValidate(t *testing.T) {
	if err := NewTelegram(TelegramConfig{Enabled: true, Token: "123:abc", ChatID: "42"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NewTelegram(TelegramConfig{Enabled: true, ChatID: "42"}).Validate(); err == nil {
		t.Fatal("expected error for missing token")
	}
	if err := NewTelegram(TelegramConfig{Enabled: true, Token: "123:abc"}).Validate(); err == nil {
		t.Fatal("expected error for missing chat_id")
	}
}
