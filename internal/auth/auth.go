package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"voice-notes/internal/models"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthenticated    = errors.New("not authenticated")
)

const issuer = "voice-notes"

// UserStore is the part of the document store the credential service needs.
type UserStore interface {
	CreateUser(ctx context.Context, u models.User) error
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type Auth struct {
	users     UserStore
	log       *slog.Logger
	jwtSecret []byte
	ttl       time.Duration
	cost      int
	now       func() time.Time
}

type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Option func(*Auth)

// WithBcryptCost lowers the hashing cost, for tests.
func WithBcryptCost(cost int) Option {
	return func(a *Auth) { a.cost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(a *Auth) { a.now = now }
}

func New(users UserStore, log *slog.Logger, secret string, ttl time.Duration, opts ...Option) *Auth {
	a := &Auth{
		users:     users,
		log:       log,
		jwtSecret: []byte(secret),
		ttl:       ttl,
		cost:      bcrypt.DefaultCost,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and returns a token for it.
func (a *Auth) Register(ctx context.Context, name, email, password string) (string, models.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if err := models.ValidateRegistration(name, email, password); err != nil {
		return "", models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return "", models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    a.now().UTC(),
	}
	if err := a.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return "", models.User{}, ErrEmailTaken
		}
		return "", models.User{}, err
	}

	token, err := a.GenerateJWT(u)
	if err != nil {
		return "", models.User{}, err
	}
	a.log.Info("user registered", "id", u.ID)
	return token, u, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (string, models.User, error) {
	u, err := a.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := a.GenerateJWT(u)
	if err != nil {
		return "", models.User{}, err
	}
	return token, u, nil
}

func (a *Auth) GenerateJWT(u models.User) (string, error) {
	now := a.now()
	claims := &Claims{
		Name: u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *Auth) ValidateJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.jwtSecret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.Subject != "" {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Authenticate resolves a bearer header value to a live user.
func (a *Auth) Authenticate(ctx context.Context, authHeader string) (models.User, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return models.User{}, ErrUnauthenticated
	}
	claims, err := a.ValidateJWT(parts[1])
	if err != nil {
		return models.User{}, err
	}
	u, err := a.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, ErrInvalidToken
		}
		return models.User{}, err
	}
	return u, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// authenticated user in the request context.
func (a *Auth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		u, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			msg := "Not authorized, no token"
			switch {
			case errors.Is(err, ErrInvalidToken):
				msg = "Not authorized, token failed"
			case !errors.Is(err, ErrUnauthenticated):
				a.log.Error("authenticate", "error", err)
				writeJSON(w, http.StatusInternalServerError, "internal error")
				return
			}
			writeJSON(w, http.StatusUnauthorized, msg)
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), u)))
	}
}

func writeJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}

type contextKey string

const userContextKey contextKey = "user"

func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userContextKey).(models.User)
	return u, ok
}
