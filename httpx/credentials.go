package httpx

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/oauth"
	"golang.org/x/crypto/bcrypt"

	"github.com/ncc-robotics/workshop-survey/config"
)

// The admin surface has exactly one account, taken from configuration.
// Refresh tokens live in memory; restarting the server just forces a new
// login.
type credentialsVerifier struct {
	email string
	hash  []byte

	mu     sync.Mutex
	tokens map[string]tokenEntry
}

type tokenEntry struct {
	username   string
	tokenID    string
	expiration time.Time
}

const refreshTokenTTL = 8760 * time.Hour

func NewBearerServer(cfg config.Config) *oauth.BearerServer {
	return oauth.NewBearerServer(cfg.TokenSecret, cfg.TokenTTL, CredentialsVerifier(cfg), nil)
}

func CredentialsVerifier(cfg config.Config) oauth.CredentialsVerifier {
	// hash once at startup so login compares hashes, not plaintext
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return &credentialsVerifier{
		email:  cfg.AdminEmail,
		hash:   hash,
		tokens: map[string]tokenEntry{},
	}
}

func (cs *credentialsVerifier) ValidateUser(username string, password string, scope string, r *http.Request) error {
	if username != cs.email {
		return errors.New("unknown user")
	}
	return bcrypt.CompareHashAndPassword(cs.hash, []byte(password))
}

func (cs *credentialsVerifier) StoreTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.tokens[refreshTokenID] = tokenEntry{
		username:   credential,
		tokenID:    tokenID,
		expiration: time.Now().Add(refreshTokenTTL),
	}
	return nil
}

func (cs *credentialsVerifier) ValidateTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	entry, ok := cs.tokens[refreshTokenID]
	delete(cs.tokens, refreshTokenID)

	if !ok || entry.username != credential || entry.tokenID != tokenID {
		return errors.New("could not refresh")
	}
	if entry.expiration.Before(time.Now()) {
		return errors.New("could not refresh")
	}
	return nil
}

func (*credentialsVerifier) AddClaims(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{"roles": "admin"}, nil
}

func (*credentialsVerifier) AddProperties(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{}, nil
}

func (*credentialsVerifier) ValidateClient(clientID string, clientSecret string, scope string, r *http.Request) error {
	return errors.New("not supported")
}
