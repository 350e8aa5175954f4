package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/samvad-hq/samvad-auth-client/internal/domain"
	"github.com/samvad-hq/samvad-auth-client/internal/logger"
)

const (
	tokenLifetime     = 30 * time.Minute
	minPasswordLength = 6
	maxUsernameLength = 50
	maxEmailLength    = 100
)

// Options configures the mock backend.
type Options struct {
	JWTSecret          string
	LoginRatePerMinute int
	Log                logger.Logger
}

type account struct {
	user         domain.User
	passwordHash []byte
}

type ctxKey struct{}

// Server is an in-memory stand-in for the auth backend.
type Server struct {
	mu        sync.RWMutex
	accounts  map[string]*account
	nextID    int64
	logins    int64
	updatedAt time.Time

	secret  []byte
	limiter *rate.Limiter
	now     func() time.Time
	log     logger.Logger
}

// New builds a Server. An empty secret is replaced by a random one.
func New(opts Options) *Server {
	secret := opts.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
	}
	perMinute := opts.LoginRatePerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	log := opts.Log
	if log == nil {
		log = &logger.NopLogger{}
	}

	s := &Server{
		accounts: make(map[string]*account),
		nextID:   1,
		secret:   []byte(secret),
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		now:      time.Now,
		log:      log,
	}
	s.updatedAt = s.now().UTC()
	return s
}

// Handler returns the routed, CORS-enabled handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(s.requireAuth)
	protected.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)
	protected.HandleFunc("/protected/test", s.handleProtectedTest).Methods(http.MethodGet)
	protected.HandleFunc("/protected/user-profile", s.handleUserProfile).Methods(http.MethodGet)
	protected.HandleFunc("/protected/dashboard", s.handleDashboard).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})
	return handlers.RecoveryHandler()(c.Handler(r))
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if problems := validateRegistration(req); len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": problems})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.ErrorObj("mock register hash failed", "error", err.Error())
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Username]; exists {
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	now := s.now().UTC()
	acct := &account{
		user: domain.User{
			ID:        s.nextID,
			Username:  req.Username,
			Email:     req.Email,
			IsActive:  true,
			CreatedAt: now.Format(time.RFC3339),
		},
		passwordHash: hash,
	}
	s.accounts[req.Username] = acct
	s.nextID++
	s.updatedAt = now
	s.mu.Unlock()

	s.log.InfoObj("mock user registered", "username", req.Username)
	writeJSON(w, http.StatusOK, acct.user)
}

type validationProblem struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

func validateRegistration(req registerRequest) []validationProblem {
	var problems []validationProblem
	if req.Username == "" || len(req.Username) > maxUsernameLength {
		problems = append(problems, validationProblem{Loc: []string{"body", "username"}, Msg: fmt.Sprintf("Username must be 1-%d characters", maxUsernameLength)})
	}
	if req.Email == "" || len(req.Email) > maxEmailLength || !strings.Contains(req.Email, "@") {
		problems = append(problems, validationProblem{Loc: []string{"body", "email"}, Msg: "A valid email address is required"})
	}
	if len(req.Password) < minPasswordLength {
		problems = append(problems, validationProblem{Loc: []string{"body", "password"}, Msg: fmt.Sprintf("String should have at least %d characters", minPasswordLength)})
	}
	return problems
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeDetail(w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	s.mu.RLock()
	acct, ok := s.accounts[strings.TrimSpace(req.Username)]
	s.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	token, err := s.issueToken(acct.user.Username)
	if err != nil {
		s.log.ErrorObj("mock token signing failed", "error", err.Error())
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.mu.Lock()
	s.logins++
	s.updatedAt = s.now().UTC()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, domain.Token{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) issueToken(username string) (string, error) {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	})
	return tok.SignedString(s.secret)
}

func (s *Server) parseToken(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", errors.New("invalid token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		username, err := s.parseToken(strings.TrimSpace(raw))
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		s.mu.RLock()
		acct, exists := s.accounts[username]
		s.mu.RUnlock()
		if !exists || !acct.user.IsActive {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, acct.user)))
	})
}

func currentUser(r *http.Request) domain.User {
	u, _ := r.Context().Value(ctxKey{}).(domain.User)
	return u
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (s *Server) handleProtectedTest(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Hello %s, you have access to this protected endpoint!", u.Username),
		"user":    u.Username,
		"status":  "success",
	})
}

func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"profile_id":   fmt.Sprintf("profile_%d", u.ID),
		"username":     u.Username,
		"email":        u.Email,
		"member_since": u.CreatedAt,
		"preferences": map[string]any{
			"theme":         "light",
			"notifications": true,
		},
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	stats := map[string]any{
		"visits":       s.logins,
		"active_users": len(s.accounts),
	}
	updated := s.updatedAt.Format(time.RFC3339)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":        stats,
		"last_updated": updated,
	})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
