package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fenggwsx/ChatRelay/internal/config"
)

var (
	// ErrTokenMissing signals that no token was presented at all.
	ErrTokenMissing = errors.New("token missing")
	// ErrTokenInvalid covers bad signatures, malformed tokens, and expiry.
	ErrTokenInvalid = errors.New("token invalid")
)

// Identity is the verified claim a session carries for its whole life.
// It is a value, never mutated after verification.
type Identity struct {
	UserID   string
	Username string
}

// Claims represents the JWT payload for authenticated users.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"uname"`
	jwt.RegisteredClaims
}

// NewToken generates a signed JWT for the provided identity. Production
// tokens come from the account service; this path serves the tokengen
// tool and tests, both sides sharing cfg.Secret.
func NewToken(cfg config.JWTConfig, userID, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken validates the provided token string and extracts claims.
func ParseToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

// Verify applies the single verification rule shared by the realtime
// handshake and the stateless history endpoint: an empty token is
// ErrTokenMissing, anything that fails parsing or signature or expiry
// checks is ErrTokenInvalid.
func Verify(cfg config.JWTConfig, tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrTokenMissing
	}
	claims, err := ParseToken(cfg, tokenString)
	if err != nil {
		return Identity{}, ErrTokenInvalid
	}
	return Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
