package authclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// endpointsFile represents the structure of the endpoints configuration file.
type endpointsFile struct {
	Endpoints []endpointEntry `json:"endpoints" yaml:"endpoints"`
}

// endpointEntry overrides or adds one endpoint. Omitted fields keep the built-in value.
type endpointEntry struct {
	Name         string `json:"name" yaml:"name"`
	Path         string `json:"path" yaml:"path"`
	Method       string `json:"method" yaml:"method"`
	RequiresAuth *bool  `json:"requires_auth" yaml:"requires_auth"`
	DefaultError string `json:"default_error" yaml:"default_error"`
}

// LoadEndpoints merges endpoint overrides from a YAML/JSON file onto the built-in table.
// An empty path yields the built-in table unchanged.
func LoadEndpoints(path string) (*Endpoints, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultEndpoints(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open endpoints file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}

	parsed, err := parseEndpointsFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return mergeEndpoints(builtinEndpoints(), parsed.Endpoints)
}

// parseEndpointsFile attempts to decode the endpoints file content.
func parseEndpointsFile(data []byte, ext string) (endpointsFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f endpointsFile
		if err := d.fn(data, &f); err == nil {
			return f, nil
		}
	}

	return endpointsFile{}, errors.New("endpoints file format not recognized (expected YAML or JSON)")
}

func mergeEndpoints(base []Endpoint, entries []endpointEntry) (*Endpoints, error) {
	idx := make(map[string]Endpoint, len(base)+len(entries))
	for _, ep := range base {
		idx[ep.Name] = ep
	}

	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		entry = sanitizeEndpointEntry(entry)
		if entry.Name == "" {
			return nil, fmt.Errorf("endpoints[%d]: name is required", i)
		}
		if _, dup := seen[entry.Name]; dup {
			return nil, fmt.Errorf("duplicate endpoint name %q", entry.Name)
		}
		seen[entry.Name] = struct{}{}

		ep := idx[entry.Name]
		ep.Name = entry.Name
		if entry.Path != "" {
			ep.Path = entry.Path
		}
		if entry.Method != "" {
			ep.Method = entry.Method
		}
		if entry.RequiresAuth != nil {
			ep.RequiresAuth = *entry.RequiresAuth
		}
		if entry.DefaultError != "" {
			ep.DefaultError = entry.DefaultError
		}
		if err := validateEndpoint(ep); err != nil {
			return nil, fmt.Errorf("endpoints[%d]: %w", i, err)
		}
		idx[ep.Name] = ep
	}

	list := make([]Endpoint, 0, len(idx))
	for _, ep := range idx {
		list = append(list, ep)
	}
	return newEndpoints(list), nil
}

// sanitizeEndpointEntry trims and normalizes the entry fields.
func sanitizeEndpointEntry(e endpointEntry) endpointEntry {
	e.Name = normalizeName(e.Name)
	e.Path = strings.TrimSpace(e.Path)
	if e.Path != "" && !strings.HasPrefix(e.Path, "/") {
		e.Path = "/" + e.Path
	}
	e.Method = strings.ToUpper(strings.TrimSpace(e.Method))
	e.DefaultError = strings.TrimSpace(e.DefaultError)
	return e
}

// validateEndpoint checks that required fields are present.
func validateEndpoint(ep Endpoint) error {
	if ep.Path == "" {
		return fmt.Errorf("path is required for endpoint %q", ep.Name)
	}
	switch ep.Method {
	case http.MethodGet, http.MethodPost:
	default:
		return fmt.Errorf("unsupported method %q for endpoint %q", ep.Method, ep.Name)
	}
	return nil
}
