package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-auth-client/internal/config"
	"github.com/samvad-hq/samvad-auth-client/internal/domain"
	"github.com/samvad-hq/samvad-auth-client/internal/logger"
	"github.com/samvad-hq/samvad-auth-client/internal/storage"
	"github.com/samvad-hq/samvad-auth-client/pkg/authclient"
	"github.com/samvad-hq/samvad-auth-client/pkg/httpclient"
	"github.com/samvad-hq/samvad-auth-client/pkg/publishers"
)

// ErrNoSession is returned when an operation needs a stored token and none exists.
var ErrNoSession = errors.New("no active session; run login first")

// ErrNoAccessToken is returned when a successful login body carries no access_token string.
var ErrNoAccessToken = errors.New("login response has no access_token")

// AuditPublisher publishes audit events downstream.
type AuditPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
	Size() int
	Close() error
}

// Session is the CLI runtime. It wires the auth API, the token store and the
// audit fanout, and owns the token on behalf of the user.
type Session struct {
	cfg           *config.Config
	api           authclient.API
	store         storage.TokenStore
	audit         AuditPublisher
	profile       string
	watchInterval time.Duration
	log           logger.Logger
}

// NewSession builds a session runtime from config.
func NewSession(ctx context.Context, cfg *config.Config, log logger.Logger) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	api, err := buildAPI(cfg, log)
	if err != nil {
		return nil, err
	}

	audit, err := buildAudit(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		TokenTTL:        cfg.TokenTTL,
		CleanupInterval: cfg.TokenCleanupInterval,
	}
	store, err := storage.NewStore(cfg.TokenStoreType, cfg.TokenStorePath, storeOpts)
	if err != nil {
		if cerr := audit.Close(); cerr != nil {
			log.WarnObj("closing audit sinks failed", "error", cerr.Error())
		}
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("token store initialized", "storage_config", map[string]any{
		"type":                     cfg.TokenStoreType,
		"path":                     cfg.TokenStorePath,
		"token_ttl_seconds":        int(cfg.TokenTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.TokenCleanupInterval.Seconds()),
	})

	return newSession(cfg, api, store, audit, log), nil
}

func newSession(cfg *config.Config, api authclient.API, store storage.TokenStore, audit AuditPublisher, log logger.Logger) *Session {
	if audit == nil {
		audit = publishers.NewFanout(nil)
	}
	return &Session{
		cfg:           cfg,
		api:           api,
		store:         store,
		audit:         audit,
		profile:       cfg.Profile,
		watchInterval: cfg.WatchInterval,
		log:           log,
	}
}

// buildAPI selects the real client or the offline demo implementation.
func buildAPI(cfg *config.Config, log logger.Logger) (authclient.API, error) {
	if cfg.DemoMode {
		log.WarnObj("demo mode enabled; backend calls are answered locally", "api_base_url", cfg.APIBaseURL)
		return &authclient.Demo{}, nil
	}

	endpoints, err := authclient.LoadEndpoints(cfg.EndpointsFile)
	if err != nil {
		return nil, fmt.Errorf("load endpoints: %w", err)
	}

	client, err := authclient.New(authclient.Config{
		BaseURL:   cfg.APIBaseURL,
		HTTP:      httpclient.NewRestyClient(cfg.RequestTimeout),
		Endpoints: endpoints,
		Log:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("init auth client: %w", err)
	}
	log.DebugObj("auth client initialized", "auth_client", map[string]any{
		"base_url":        client.BaseURL(),
		"endpoints_count": len(endpoints.All()),
		"timeout":         cfg.RequestTimeout.String(),
	})
	return client, nil
}

// buildAudit is replaced in tests.
var buildAudit = buildFanout

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (AuditPublisher, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.DebugObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Close releases the audit sinks and the token store.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.audit != nil {
		errs = append(errs, s.audit.Close())
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	return errors.Join(errs...)
}

// Register creates an account. It does not log the user in.
func (s *Session) Register(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	user, err := s.api.Register(ctx, creds)
	s.record(ctx, "register", creds.Username, err)
	return user, err
}

// Login authenticates and stores the token under the active profile.
func (s *Session) Login(ctx context.Context, creds domain.Credentials) (domain.Token, error) {
	tok, err := s.api.Login(ctx, creds)
	if err == nil && tok.AccessToken == "" {
		err = ErrNoAccessToken
	}
	if err == nil {
		if serr := s.store.SaveToken(s.profile, tok.AccessToken); serr != nil {
			err = fmt.Errorf("save token: %w", serr)
		}
	}
	s.record(ctx, "login", creds.Username, err)
	return tok, err
}

// Logout forgets the stored token. The backend keeps no session to revoke.
func (s *Session) Logout(ctx context.Context) error {
	err := s.store.DeleteToken(s.profile)
	s.record(ctx, "logout", "", err)
	return err
}

// Me returns the user owning the stored token.
func (s *Session) Me(ctx context.Context) (domain.User, error) {
	token, err := s.token()
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.api.Me(ctx, token)
	s.record(ctx, "me", user.Username, err)
	return user, err
}

// ProtectedTest calls the protected test endpoint with the stored token.
func (s *Session) ProtectedTest(ctx context.Context) (any, error) {
	return s.payload(ctx, "protected_test", s.api.ProtectedTest)
}

// UserProfile fetches the extended profile with the stored token.
func (s *Session) UserProfile(ctx context.Context) (any, error) {
	return s.payload(ctx, "user_profile", s.api.UserProfile)
}

// Dashboard fetches dashboard stats with the stored token.
func (s *Session) Dashboard(ctx context.Context) (any, error) {
	return s.payload(ctx, "dashboard", s.api.Dashboard)
}

func (s *Session) payload(ctx context.Context, action string, call func(context.Context, string) (any, error)) (any, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	out, err := call(ctx, token)
	s.record(ctx, action, "", err)
	return out, err
}

func (s *Session) token() (string, error) {
	token, ok, err := s.store.Token(s.profile)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if !ok {
		return "", ErrNoSession
	}
	return token, nil
}

// record publishes an audit event. Delivery failures are logged, never returned.
func (s *Session) record(ctx context.Context, action, username string, err error) {
	if s.audit.Size() == 0 {
		return
	}

	evt := publishers.NewEvent(action, s.profile, username)
	if err != nil {
		evt = evt.WithFailure(string(authclient.KindOf(err)), authclient.StatusCode(err), err.Error())
	}
	if _, perr := s.audit.Publish(ctx, evt); perr != nil {
		s.log.WarnObj("audit publish failed", "audit_error", map[string]any{
			"action": action,
			"error":  perr.Error(),
		})
	}
}
