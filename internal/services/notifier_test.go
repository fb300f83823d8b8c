package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWebhookSenderDelivers(t *testing.T) {
	var gotBody []byte
	var gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Afdian-Bridge-Signature")
	}))
	defer srv.Close()

	sender := NewWebhookSender("s3cret")
	if err := sender.Send(context.Background(), srv.URL, "hello"); err != nil {
		t.Fatal(err)
	}

	h := hmac.New(sha256.New, []byte("s3cret"))
	h.Write(gotBody)
	if want := hex.EncodeToString(h.Sum(nil)); gotSig != want {
		t.Errorf("signature = %s, want %s", gotSig, want)
	}
}

func TestWebhookSenderRetriesThenFails(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sender := NewWebhookSender("")
	sender.retryDelays = []time.Duration{time.Millisecond, time.Millisecond}

	if err := sender.Send(context.Background(), srv.URL, "hello"); err == nil {
		t.Fatal("expected delivery failure")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWebhookSenderRecoversOnRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	sender := NewWebhookSender("")
	sender.retryDelays = []time.Duration{time.Millisecond}

	if err := sender.Send(context.Background(), srv.URL, "hello"); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
}

func TestDestinationRouter(t *testing.T) {
	web := newFakeSender()
	mail := newFakeSender()
	r := &DestinationRouter{Webhook: web, Email: mail}
	ctx := context.Background()

	if err := r.Send(ctx, "https://a.example/hook", "m"); err != nil {
		t.Fatal(err)
	}
	if err := r.Send(ctx, "ops@example.com", "m"); err != nil {
		t.Fatal(err)
	}
	if err := r.Send(ctx, "something-else", "m"); err == nil {
		t.Error("expected error for unrecognized destination")
	}

	if len(web.messages("https://a.example/hook")) != 1 {
		t.Error("webhook destination not routed")
	}
	if len(mail.messages("ops@example.com")) != 1 {
		t.Error("email destination not routed")
	}
}
