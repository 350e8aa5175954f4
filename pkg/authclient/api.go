package authclient

import (
	"context"

	"github.com/samvad-hq/samvad-auth-client/internal/domain"
)

// API is the typed surface over the auth backend. Client talks to a real
// server; Demo answers from static data. Protected calls return the decoded
// JSON body unchanged; objects are domain.Payload.
type API interface {
	Register(ctx context.Context, creds domain.Credentials) (domain.User, error)
	Login(ctx context.Context, creds domain.Credentials) (domain.Token, error)
	Me(ctx context.Context, token string) (domain.User, error)
	ProtectedTest(ctx context.Context, token string) (any, error)
	UserProfile(ctx context.Context, token string) (any, error)
	Dashboard(ctx context.Context, token string) (any, error)
}

var _ API = (*Client)(nil)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a user account.
func (c *Client) Register(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	var user domain.User
	err := c.callNamed(ctx, EndpointRegister, CallOptions{Body: registerRequest{
		Username: creds.Username,
		Email:    creds.Email,
		Password: creds.Password,
	}}, &user)
	return user, err
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.Token, error) {
	var tok domain.Token
	err := c.callNamed(ctx, EndpointLogin, CallOptions{Body: loginRequest{
		Username: creds.Username,
		Password: creds.Password,
	}}, &tok)
	return tok, err
}

// Me returns the user owning token.
func (c *Client) Me(ctx context.Context, token string) (domain.User, error) {
	var user domain.User
	err := c.callNamed(ctx, EndpointMe, CallOptions{Token: token}, &user)
	return user, err
}

// ProtectedTest calls the protected test endpoint.
func (c *Client) ProtectedTest(ctx context.Context, token string) (any, error) {
	return c.payload(ctx, EndpointProtectedTest, token)
}

// UserProfile returns the extended profile of the token's user.
func (c *Client) UserProfile(ctx context.Context, token string) (any, error) {
	return c.payload(ctx, EndpointUserProfile, token)
}

// Dashboard returns the dashboard stats.
func (c *Client) Dashboard(ctx context.Context, token string) (any, error) {
	return c.payload(ctx, EndpointDashboard, token)
}

func (c *Client) payload(ctx context.Context, name, token string) (any, error) {
	var out any
	if err := c.callNamed(ctx, name, CallOptions{Token: token}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) callNamed(ctx context.Context, name string, opts CallOptions, out any) error {
	ep, err := c.Endpoint(name)
	if err != nil {
		return err
	}
	return c.Call(ctx, ep, opts, out)
}
