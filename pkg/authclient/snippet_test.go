package authclient

import (
	"strings"
	"testing"
)

func TestBodySnippet(t *testing.T) {
	cases := []struct {
		name        string
		body        string
		contentType string
		want        string
	}{
		{name: "empty", body: "", want: "<empty>"},
		{name: "plain", body: "  upstream timeout \n", contentType: "text/plain", want: "upstream timeout"},
		{name: "html title", body: "<html><head><title> Service Unavailable </title></head></html>", contentType: "text/html; charset=utf-8", want: "Service Unavailable"},
		{name: "html sniffed body text", body: "<!DOCTYPE html><html><body><h1>Bad</h1>\n<p>gateway</p></body></html>", want: "Bad gateway"},
	}
	for _, tc := range cases {
		if got := bodySnippet([]byte(tc.body), tc.contentType); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestBodySnippetTruncates(t *testing.T) {
	got := bodySnippet([]byte(strings.Repeat("a", 600)), "text/plain")
	if len(got) != maxSnippetLen+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation length %d", len(got))
	}
}
