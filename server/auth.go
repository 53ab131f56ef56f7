package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenRateWindow  = 60 * time.Second
	maxTokenAttempts = 10
	secretSetting    = "jwt_secret"
	controlSubject   = "controller"
)

var (
	ErrNoPassword   = errors.New("no operator password configured")
	ErrBadPassword  = errors.New("invalid password")
	ErrRateLimited  = errors.New("too many attempts, try again later")
	ErrInvalidToken = errors.New("invalid token")
)

// Auth issues and checks control tokens
type Auth struct {
	passwordHash []byte
	ttl          time.Duration
	jwtSecret    []byte
	now          func() time.Time

	// Rate limiting for token requests (IP -> attempts)
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAuth creates a new Auth handler. The signing secret survives restarts
// through the settings table.
func NewAuth(db *DB, passwordHash string, ttl time.Duration, log zerolog.Logger) (*Auth, error) {
	secret, err := loadOrCreateSecret(db, log)
	if err != nil {
		return nil, err
	}
	return &Auth{
		passwordHash: []byte(passwordHash),
		ttl:          ttl,
		jwtSecret:    secret,
		now:          time.Now,
		rateMap:      make(map[string]*rateEntry),
	}, nil
}

// loadOrCreateSecret loads the JWT secret from the database, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(db *DB, log zerolog.Logger) ([]byte, error) {
	if db != nil {
		h, err := db.GetSetting(secretSetting)
		if err != nil {
			return nil, fmt.Errorf("loading jwt secret: %w", err)
		}
		if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
			return b, nil
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generating jwt secret: %w", err)
	}
	if db != nil {
		if err := db.SetSetting(secretSetting, hex.EncodeToString(secret)); err != nil {
			log.Warn().Err(err).Msg("could not persist JWT secret")
		}
	}
	return secret, nil
}

// IssueToken checks the operator password and returns a signed control token
func (a *Auth) IssueToken(password, ip string) (string, error) {
	if !a.checkRate(ip) {
		return "", ErrRateLimited
	}
	if len(a.passwordHash) == 0 {
		return "", ErrNoPassword
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", ErrBadPassword
	}
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   controlSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken reports whether tokenStr is a live control token
func (a *Auth) ValidateToken(tokenStr string) error {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject != controlSubject {
		return ErrInvalidToken
	}
	return nil
}

func (a *Auth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := a.now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(tokenRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxTokenAttempts
}
