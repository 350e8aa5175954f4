package domain

import (
	"bytes"
	"encoding/json"
)

// Domain contains the wire models exchanged with the auth backend.

// Credentials are supplied by the caller for register and login. They are never persisted.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// User is a best-effort projection of the backend's user response.
// Raw keeps the body exactly as received; fields that are missing or of an
// unexpected type are left at their zero value.
type User struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt string          `json:"created_at,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// UnmarshalJSON accepts any valid JSON value.
func (u *User) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	*u = User{
		ID:        intField(obj, "id"),
		Username:  stringField(obj, "username"),
		Email:     stringField(obj, "email"),
		IsActive:  boolField(obj, "is_active"),
		CreatedAt: stringField(obj, "created_at"),
		Raw:       append(json.RawMessage(nil), data...),
	}
	return nil
}

// MarshalJSON writes the received body when there is one.
func (u User) MarshalJSON() ([]byte, error) {
	if len(u.Raw) > 0 {
		return u.Raw, nil
	}
	type plain User
	return json.Marshal(plain(u))
}

// Token is the login response. AccessToken is opaque to the client.
type Token struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	Raw         json.RawMessage `json:"-"`
}

// UnmarshalJSON accepts any valid JSON value.
func (t *Token) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	*t = Token{
		AccessToken: stringField(obj, "access_token"),
		TokenType:   stringField(obj, "token_type"),
		Raw:         append(json.RawMessage(nil), data...),
	}
	return nil
}

// MarshalJSON writes the received body when there is one.
func (t Token) MarshalJSON() ([]byte, error) {
	if len(t.Raw) > 0 {
		return t.Raw, nil
	}
	type plain Token
	return json.Marshal(plain(t))
}

// Payload is a JSON object. Protected endpoints return whatever JSON value
// the server sent; objects decode to Payload.
type Payload = map[string]any

// decodeObject parses data and returns it as an object, or nil for any
// other JSON value. Invalid JSON is an error.
func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	obj, _ := v.(map[string]any)
	return obj, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func boolField(obj map[string]any, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

func intField(obj map[string]any, key string) int64 {
	n, ok := obj[key].(json.Number)
	if !ok {
		return 0
	}
	i, err := n.Int64()
	if err != nil {
		return 0
	}
	return i
}
