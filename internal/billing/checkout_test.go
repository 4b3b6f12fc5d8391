package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateSessionSendsFormAndAuth(t *testing.T) {
	var gotAuth, gotContentType string
	var gotForm map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_1","url":"https://pay.test/cs_test_1","customer":"cus_1"}`))
	}))
	defer srv.Close()

	client, err := NewCheckoutClient(srv.URL, "sk_test", "price_1", "https://app.test/ok", "https://app.test/cancel")
	if err != nil {
		t.Fatalf("NewCheckoutClient: %v", err)
	}

	session, err := client.CreateSession(context.Background(), "google:u1", "u1@test")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.ID != "cs_test_1" || session.URL != "https://pay.test/cs_test_1" {
		t.Fatalf("unexpected session %+v", session)
	}

	if gotAuth != "Bearer sk_test" {
		t.Fatalf("unexpected authorization %q", gotAuth)
	}
	if !strings.HasPrefix(gotContentType, "application/x-www-form-urlencoded") {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	checks := map[string]string{
		"mode":                 "payment",
		"line_items[0][price]": "price_1",
		"metadata[user_id]":    "google:u1",
		"customer_email":       "u1@test",
		"success_url":          "https://app.test/ok",
		"cancel_url":           "https://app.test/cancel",
	}
	for key, want := range checks {
		if got := gotForm[key]; len(got) != 1 || got[0] != want {
			t.Fatalf("form field %q = %v, want %q", key, got, want)
		}
	}
}

func TestCreateSessionSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"no such price"}}`))
	}))
	defer srv.Close()

	client, err := NewCheckoutClient(srv.URL, "sk_test", "price_bad", "", "")
	if err != nil {
		t.Fatalf("NewCheckoutClient: %v", err)
	}

	_, err = client.CreateSession(context.Background(), "u1", "")
	if err == nil || !strings.Contains(err.Error(), "no such price") {
		t.Fatalf("expected provider message in error, got %v", err)
	}
}

func TestCreateSessionRejectsEmptySession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := NewCheckoutClient(srv.URL, "sk_test", "price_1", "", "")
	if err != nil {
		t.Fatalf("NewCheckoutClient: %v", err)
	}

	if _, err := client.CreateSession(context.Background(), "u1", ""); err == nil {
		t.Fatalf("expected error for empty session payload")
	}
}

func TestNewCheckoutClientRequiresCredentials(t *testing.T) {
	if _, err := NewCheckoutClient("http://x", "", "price_1", "", ""); err == nil {
		t.Fatalf("expected error for missing secret key")
	}
	if _, err := NewCheckoutClient("http://x", "sk_test", " ", "", ""); err == nil {
		t.Fatalf("expected error for missing price id")
	}
}
