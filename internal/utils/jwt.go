package utils // utils provides token minting, hashing and input normalization helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "typ" claim. The refresh endpoint only accepts
// refresh tokens and protected routes only accept access tokens, so a leaked
// access token cannot be replayed as a refresh token or vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrTokenExpired is returned by ParseToken when the token was signed by us
// but its expiry has passed.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid is returned for any other verification failure: bad
// signature, malformed claims, or wrong token type.
var ErrTokenInvalid = errors.New("token invalid")

// SignedToken is a serialized JWT together with its expiration time.
// Both access and refresh tokens are self-contained HS256 JWTs; the service
// keeps no per-token state beyond the signing secret.
type SignedToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // UTC expiration time
}

// NewAccessToken mints a short-lived access token for the given user ID.
// The TTL is expressed in minutes to match the ACCESS_TOKEN_TTL_MIN setting.
func NewAccessToken(secret, userID string, ttlMin int) (SignedToken, error) {
	return newSignedToken(secret, userID, TokenTypeAccess, time.Duration(ttlMin)*time.Minute)
}

// NewRefreshToken mints a long-lived refresh token for the given user ID.
// The TTL is expressed in days to match the REFRESH_TOKEN_TTL_DAYS setting.
func NewRefreshToken(secret, userID string, ttlDays int) (SignedToken, error) {
	return newSignedToken(secret, userID, TokenTypeRefresh, time.Duration(ttlDays)*24*time.Hour)
}

// newSignedToken builds and signs an HS256 JWT. Claims: sub (user ID),
// typ (access|refresh), jti (unique token ID), iat and exp.
func newSignedToken(secret, userID, typ string, ttl time.Duration) (SignedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": typ,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

// ParseToken verifies the signature and expiry of a serialized token and
// returns the subject (user ID). wantTyp restricts which token kind is
// accepted. Expired tokens yield ErrTokenExpired; everything else that
// fails verification yields ErrTokenInvalid.
func ParseToken(secret, raw, wantTyp string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tok, err := parser.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", ErrTokenInvalid
	}
	typ, _ := claims["typ"].(string)
	if typ != wantTyp {
		return "", ErrTokenInvalid
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrTokenInvalid
	}
	return sub, nil
}
