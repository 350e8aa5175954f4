package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestParseCredentials(t *testing.T) {
	creds, err := parseCredentials("register", []string{"-username", "bob", "-email", "b@x.com", "-password", "secret1"}, true)
	if err != nil {
		t.Fatalf("parseCredentials: %v", err)
	}
	if creds.Username != "bob" || creds.Email != "b@x.com" || creds.Password != "secret1" {
		t.Fatalf("unexpected credentials %+v", creds)
	}

	if _, err := parseCredentials("register", []string{"-username", "bob", "-password", "x"}, true); err == nil {
		t.Fatalf("register without email should fail")
	}
	if _, err := parseCredentials("login", []string{"-username", "bob"}, false); err == nil {
		t.Fatalf("login without password should fail")
	}
	if _, err := parseCredentials("login", []string{"-email", "b@x.com"}, false); err == nil {
		t.Fatalf("login should not accept -email")
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	_, err := dispatch(context.Background(), nil, "frobnicate", nil)
	if err == nil || !strings.Contains(err.Error(), "frobnicate") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunRequiresCommand(t *testing.T) {
	var out bytes.Buffer
	if err := run(nil, &out); err == nil {
		t.Fatalf("expected missing command error")
	}
}

func TestPrintJSONIndents(t *testing.T) {
	var out bytes.Buffer
	if err := printJSON(&out, map[string]string{"status": "logged out"}); err != nil {
		t.Fatalf("printJSON: %v", err)
	}
	if out.String() != "{\n  \"status\": \"logged out\"\n}\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
