// Package identity verifies bearer tokens and exposes the role claims they carry.
package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken indicates the request carried no bearer credential.
var ErrNoToken = errors.New("identity: no token supplied")

// ResourceRoles holds the role list granted for a single resource client.
type ResourceRoles struct {
	Roles []string `json:"roles"`
}

// Claims is the decoded payload of an access token. Role grants are nested
// per resource client; only the roles under this application's client id are
// meaningful here, grants for other resources are ignored.
type Claims struct {
	jwt.RegisteredClaims
	PreferredUsername string                   `json:"preferred_username,omitempty"`
	ResourceAccess    map[string]ResourceRoles `json:"resource_access"`
}

// RolesFor returns the roles granted for the given resource client id.
// A missing grant yields an empty list, never nil access errors.
func (c *Claims) RolesFor(resource string) []string {
	if c == nil {
		return nil
	}
	return c.ResourceAccess[resource].Roles
}

// Decoder verifies HS256 access tokens against a shared secret.
type Decoder struct {
	secret []byte
}

// NewDecoder constructs a Decoder.
func NewDecoder(secret []byte) *Decoder {
	return &Decoder{secret: secret}
}

// Decode validates and parses an HS256 access token. It returns an error for
// a missing token, wrong algorithm, bad signature, or expired token. Callers
// treat any error as "unauthenticated", never as a fatal condition.
func (d *Decoder) Decode(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrNoToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (any, error) {
		return d.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("identity: parse token: %w", err)
	}
	return claims, nil
}
