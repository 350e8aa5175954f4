package authclient

import (
	"net/http"
	"sort"
	"strings"
)

const (
	// Built-in endpoint names.
	EndpointRegister      = "register"
	EndpointLogin         = "login"
	EndpointMe            = "me"
	EndpointProtectedTest = "protected_test"
	EndpointUserProfile   = "user_profile"
	EndpointDashboard     = "dashboard"

	// DefaultErrorMessage is used when neither the server nor the endpoint supplies one.
	DefaultErrorMessage = "Request failed"
)

// Endpoint describes one backend route.
type Endpoint struct {
	Name         string `json:"name" yaml:"name"`
	Path         string `json:"path" yaml:"path"`
	Method       string `json:"method" yaml:"method"`
	RequiresAuth bool   `json:"requires_auth" yaml:"requires_auth"`
	DefaultError string `json:"default_error" yaml:"default_error"`
}

// FailureMessage returns the message used when the server gives no detail.
func (e Endpoint) FailureMessage() string {
	if msg := strings.TrimSpace(e.DefaultError); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}

func builtinEndpoints() []Endpoint {
	return []Endpoint{
		{Name: EndpointRegister, Path: "/auth/register", Method: http.MethodPost, DefaultError: "Registration failed"},
		{Name: EndpointLogin, Path: "/auth/login", Method: http.MethodPost, DefaultError: "Login failed"},
		{Name: EndpointMe, Path: "/auth/me", Method: http.MethodGet, RequiresAuth: true, DefaultError: "Failed to get user info"},
		{Name: EndpointProtectedTest, Path: "/protected/test", Method: http.MethodGet, RequiresAuth: true, DefaultError: "Failed to access protected endpoint"},
		{Name: EndpointUserProfile, Path: "/protected/user-profile", Method: http.MethodGet, RequiresAuth: true, DefaultError: "Failed to get user profile"},
		{Name: EndpointDashboard, Path: "/protected/dashboard", Method: http.MethodGet, RequiresAuth: true, DefaultError: "Failed to get dashboard"},
	}
}

// Endpoints is a name-indexed set of endpoint descriptors. It is never
// modified after construction, so concurrent reads need no locking.
type Endpoints struct {
	byName map[string]Endpoint
}

// DefaultEndpoints returns the built-in endpoint table.
func DefaultEndpoints() *Endpoints {
	return newEndpoints(builtinEndpoints())
}

func newEndpoints(list []Endpoint) *Endpoints {
	e := &Endpoints{byName: make(map[string]Endpoint, len(list))}
	for _, ep := range list {
		e.byName[ep.Name] = ep
	}
	return e
}

// Get returns the endpoint registered under name.
func (e *Endpoints) Get(name string) (Endpoint, bool) {
	if e == nil {
		return Endpoint{}, false
	}
	ep, ok := e.byName[normalizeName(name)]
	return ep, ok
}

// All returns every endpoint sorted by name.
func (e *Endpoints) All() []Endpoint {
	if e == nil {
		return nil
	}

	out := make([]Endpoint, 0, len(e.byName))
	for _, ep := range e.byName {
		out = append(out, ep)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
