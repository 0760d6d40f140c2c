package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leabeefollowme/chat-widget-backend/internal/telegram"
)

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload) //nolint:errcheck
		w.Write([]byte(`{"ok":true}`))              //nolint:errcheck
	}))
	defer srv.Close()

	c := telegram.NewClientWithBaseURL("123:abc", srv.URL)
	if err := c.SendMessage(context.Background(), 42, "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if gotPath != "/bot123:abc/sendMessage" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotPayload["chat_id"].(float64) != 42 || gotPayload["text"] != "hello" {
		t.Fatalf("payload = %v", gotPayload)
	}
}

func TestSendMessageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := telegram.NewClientWithBaseURL("123:abc", srv.URL)
	if err := c.SendMessage(context.Background(), 42, "hello"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestUpdateDecoding(t *testing.T) {
	raw := `{"update_id":10,"message":{"message_id":5,"from":{"id":77,"is_bot":false,"first_name":"Ann"},"chat":{"id":77},"text":"hi"}}`
	var upd telegram.Update
	if err := json.Unmarshal([]byte(raw), &upd); err != nil {
		t.Fatal(err)
	}
	if upd.Message == nil || upd.Message.Chat.ID != 77 || upd.Message.Text != "hi" {
		t.Fatalf("update = %+v", upd)
	}
	if upd.Message.From.Name != "Ann" {
		t.Fatalf("from = %+v", upd.Message.From)
	}
}
