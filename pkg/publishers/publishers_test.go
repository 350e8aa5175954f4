package publishers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
  - id: audit-topic
    type: SNS
    sns:
      topic_arn: " arn:aws:sns:eu-west-1:123:audit "
      region: eu-west-1
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "http2" || enabled[1].ID != "audit-topic" {
		t.Fatalf("expected http2 and audit-topic enabled, got %#v", enabled)
	}
	sns := enabled[1]
	if sns.Type != TypeSNS || sns.SNS.TopicARN != "arn:aws:sns:eu-west-1:123:audit" {
		t.Fatalf("unexpected sns config %#v", sns)
	}
	if http2 := enabled[0]; http2.HTTP.Method != "POST" || http2.HTTP.TimeoutSeconds != 5 {
		t.Fatalf("http defaults not applied: %#v", http2.HTTP)
	}
}

func TestValidatePublisherConfigRejectsIncompleteEntries(t *testing.T) {
	cases := []PublisherConfig{
		{ID: "h1", Type: TypeHTTP},
		{ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}},
		{ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "eu-west-1"}},
		{ID: "g1", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "p"}},
		{Type: TypeHTTP},
	}
	for _, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %#v", cfg)
		}
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.json")
	raw := `{"publishers":[{"id":"a","type":"http","http":{"url":"https://x"}},{"id":"a","type":"http","http":{"url":"https://y"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLoadRegistryNormalizesAuditFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: failures
    type: http
    actions: [" Login ", "login", "", "DASHBOARD"]
    failures_only: true
    http:
      url: https://example.com/audit
      retry_count: 99
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg := reg.Enabled()[0]
	if len(cfg.Actions) != 2 || cfg.Actions[0] != "login" || cfg.Actions[1] != "dashboard" {
		t.Fatalf("unexpected actions %v", cfg.Actions)
	}
	if !cfg.FailuresOnly || cfg.HTTP.RetryCount != httpMaxRetryCount {
		t.Fatalf("unexpected filter config %#v / %#v", cfg, cfg.HTTP)
	}
}

func TestPublisherConfigAccepts(t *testing.T) {
	ok := NewEvent("login", "default", "alice")
	failed := ok.WithFailure("http_status", 401, "Login failed")
	other := NewEvent("me", "default", "alice").WithFailure("transport", 0, "Network error")

	all := PublisherConfig{}
	if !all.Accepts(ok) || !all.Accepts(failed) {
		t.Fatalf("unfiltered sink should accept everything")
	}

	loginFailures := PublisherConfig{Actions: []string{"login"}, FailuresOnly: true}
	if loginFailures.Accepts(ok) {
		t.Fatalf("failures_only sink accepted a success")
	}
	if !loginFailures.Accepts(failed) {
		t.Fatalf("expected failed login to be accepted")
	}
	if loginFailures.Accepts(other) {
		t.Fatalf("action filter should reject %q", other.Action)
	}
}

func TestBuildAllWrapsFilteredSinks(t *testing.T) {
	stub := &stubPublisher{id: "s", typ: "stub"}
	reg := NewRegistry(map[string]Builder{
		"stub": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return stub, nil },
	})

	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "s", Type: "stub", Actions: []string{"register"}},
	}, nil)
	if err != nil || len(pubs) != 1 {
		t.Fatalf("BuildAll: %v (%d publishers)", err, len(pubs))
	}

	_ = pubs[0].Publish(context.Background(), NewEvent("login", "default", "bob"))
	_ = pubs[0].Publish(context.Background(), NewEvent("register", "default", "bob"))
	if len(stub.events) != 1 || stub.events[0].Action != "register" {
		t.Fatalf("expected only the register event, got %+v", stub.events)
	}
	if pubs[0].ID() != "s" {
		t.Fatalf("wrapper should keep the sink id")
	}
}

func TestLoadRegistryRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.toml")
	if err := os.WriteFile(path, []byte("publishers = []"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestLoadRegistryExtensionlessAcceptsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers")
	raw := `{"publishers":[{"id":"hook","type":"http","http":{"url":"https://x"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := reg.Enabled(); len(got) != 1 || got[0].ID != "hook" {
		t.Fatalf("unexpected registry %#v", got)
	}
}
