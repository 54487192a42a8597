package utils // package utils provides helper functions for token creation and verification

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// AccessToken represents a signed HS256 JWT along with its expiry.  Access
// tokens are the only credential the API issues: there is no refresh
// mechanism and no server-side session, so an expired token is simply
// rejected with no renewal path.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// ErrInvalidToken is returned for any token that is malformed, carries a
// bad signature, uses an unexpected algorithm, or has expired.  Callers
// deliberately get no finer distinction.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT.  The subject claim carries
// the username; uid carries the numeric user id for convenience.  ttlMin
// controls the token lifetime in minutes.
func NewAccessToken(secret string, userID uint64, username string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub": username,
		"uid": userID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken validates the signature and expiry of a serialized token
// and returns the subject username and user id.  The subject is not checked
// against the user store: a token stays structurally valid even if the
// account it names was deleted after issuance.
func ParseAccessToken(secret, raw string) (string, uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC; an attacker must not
		// be able to downgrade the algorithm.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", 0, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", 0, ErrInvalidToken
	}
	var uid uint64
	if f, ok := claims["uid"].(float64); ok {
		uid = uint64(f)
	}
	return sub, uid, nil
}
