package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func parseBody(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	r.Header.Set("Content-Type", contentType)
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return p
}

func TestRequestBodyParserGet(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		key         string
		want        string
	}{
		{"json string", "application/json", `{"label":"Fuel"}`, "label", "Fuel"},
		{"json number coerced", "application/json", `{"amount":2000}`, "amount", "2000"},
		{"json trims whitespace", "application/json", `{"label":"  Fuel  "}`, "label", "Fuel"},
		{"form fallback", "application/x-www-form-urlencoded", "label=Fuel&amount=2000", "amount", "2000"},
		{"missing key", "application/json", `{"label":"Fuel"}`, "amount", ""},
		{"control chars stripped", "application/json", `{"label":"Fu\u0001el"}`, "label", "Fuel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseBody(t, tt.contentType, tt.body)
			if got := p.Get(tt.key); got != tt.want {
				t.Fatalf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestRequestBodyParserRejectsMalformedJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(`{"label":`))
	r.Header.Set("Content-Type", "application/json")
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err == nil {
		t.Fatal("expected parse error for truncated JSON")
	}
}
