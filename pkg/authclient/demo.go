package authclient

import (
	"context"
	"time"

	"github.com/samvad-hq/samvad-auth-client/internal/domain"
)

// DemoToken is the access token handed out by Demo.Login.
const DemoToken = "fake_token_for_demo"

// Demo implements API without network I/O, returning fixed sample data.
// It is chosen at wiring time in place of Client, for demos and UI work.
type Demo struct {
	// Now is used for timestamps; defaults to time.Now.
	Now func() time.Time
}

var _ API = (*Demo)(nil)

func (d *Demo) now() string {
	if d != nil && d.Now != nil {
		return d.Now().UTC().Format(time.RFC3339)
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// Register echoes the credentials back as a sample user.
func (d *Demo) Register(_ context.Context, creds domain.Credentials) (domain.User, error) {
	return domain.User{
		ID:        999,
		Username:  creds.Username,
		Email:     creds.Email,
		IsActive:  true,
		CreatedAt: d.now(),
	}, nil
}

// Login always succeeds with DemoToken.
func (d *Demo) Login(context.Context, domain.Credentials) (domain.Token, error) {
	return domain.Token{AccessToken: DemoToken, TokenType: "bearer"}, nil
}

// Me returns the sample user.
func (d *Demo) Me(context.Context, string) (domain.User, error) {
	return domain.User{
		ID:        999,
		Username:  "usuario",
		Email:     "usuario@example.com",
		IsActive:  true,
		CreatedAt: d.now(),
	}, nil
}

// ProtectedTest returns a canned success message.
func (d *Demo) ProtectedTest(context.Context, string) (any, error) {
	return domain.Payload{
		"message": "Hello from a mocked protected endpoint!",
		"user":    "usuario",
		"status":  "mocked_success",
	}, nil
}

// UserProfile returns the sample profile.
func (d *Demo) UserProfile(context.Context, string) (any, error) {
	return domain.Payload{
		"profile_id": "profile_999",
		"bio":        "This is a mocked profile for the demo user.",
		"preferences": map[string]any{
			"theme":         "dark",
			"notifications": true,
		},
	}, nil
}

// Dashboard returns fixed stats stamped with the current time.
func (d *Demo) Dashboard(context.Context, string) (any, error) {
	return domain.Payload{
		"stats": map[string]any{
			"visits":       1234,
			"sales":        5678,
			"active_users": 89,
		},
		"last_updated": d.now(),
	}, nil
}
