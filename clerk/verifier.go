// Package clerk verifies Clerk-issued session tokens. Cryptographic
// verification is delegated to RS256 signature checks against Clerk's JWKS,
// fetched with the instance secret key and cached for the process lifetime.
package clerk

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/upb/storefront-platform/auth"
)

// DefaultJWKSURL is Clerk's backend API JWKS endpoint.
const DefaultJWKSURL = "https://api.clerk.com/v1/jwks"

var (
	// ErrVerification covers every verification failure. Callers must not
	// surface the wrapped sub-reason to clients.
	ErrVerification = errors.New("token verification failed")

	// ErrJWKSFetch is returned when the JWKS cannot be retrieved from Clerk.
	ErrJWKSFetch = errors.New("failed to fetch JWKS")
)

// JWKS is the JSON Web Key Set returned by Clerk.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK is a single RSA public key in JWK form.
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Config holds verifier configuration. SecretKey is required; it is held for
// the process lifetime and used to authenticate JWKS fetches.
type Config struct {
	SecretKey   string
	JWKSURL     string
	Issuer      string // expected iss; empty skips the check
	CacheTTL    time.Duration
	HTTPTimeout time.Duration
}

// Verifier verifies Clerk session tokens. Safe for concurrent use.
type Verifier struct {
	secretKey  string
	jwksURL    string
	issuer     string
	httpClient *http.Client

	jwksCacheTTL time.Duration
	cacheMu      sync.RWMutex
	jwksCache    *JWKS
	jwksCacheExp time.Time

	keyCacheMu sync.RWMutex
	keyCache   map[string]*rsa.PublicKey
}

// NewVerifier creates a verifier. The secret key must already be validated
// as non-empty by configuration loading.
func NewVerifier(cfg Config) *Verifier {
	if cfg.JWKSURL == "" {
		cfg.JWKSURL = DefaultJWKSURL
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 1 * time.Hour
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}

	return &Verifier{
		secretKey:    cfg.SecretKey,
		jwksURL:      cfg.JWKSURL,
		issuer:       cfg.Issuer,
		jwksCacheTTL: cfg.CacheTTL,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		keyCache: make(map[string]*rsa.PublicKey),
	}
}

// Verify checks the token's signature, expiry and issuer, and returns the
// verified claims. Every failure wraps ErrVerification; the sub-reason is
// for logs only.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*auth.VerifiedClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("kid header not found")
		}

		publicKey, err := v.getPublicKey(ctx, kid)
		if err != nil {
			return nil, fmt.Errorf("failed to get public key: %w", err)
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerification, err)
	}

	if !token.Valid {
		return nil, ErrVerification
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrVerification, claims.Issuer)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrVerification)
	}

	return &auth.VerifiedClaims{
		Subject: claims.Subject,
		Org:     claims.Org,
		Raw:     rawClaims(tokenString),
	}, nil
}

// FetchJWKS returns the key set, serving from cache while fresh.
func (v *Verifier) FetchJWKS(ctx context.Context) (*JWKS, error) {
	v.cacheMu.RLock()
	if v.jwksCache != nil && time.Now().Before(v.jwksCacheExp) {
		defer v.cacheMu.RUnlock()
		return v.jwksCache, nil
	}
	v.cacheMu.RUnlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+v.secretKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJWKSFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrJWKSFetch, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	v.cacheMu.Lock()
	v.jwksCache = &jwks
	v.jwksCacheExp = time.Now().Add(v.jwksCacheTTL)
	v.cacheMu.Unlock()

	return &jwks, nil
}

// getPublicKey resolves the RSA public key for a kid, caching parsed keys.
func (v *Verifier) getPublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.keyCacheMu.RLock()
	if key, exists := v.keyCache[kid]; exists {
		v.keyCacheMu.RUnlock()
		return key, nil
	}
	v.keyCacheMu.RUnlock()

	jwks, err := v.FetchJWKS(ctx)
	if err != nil {
		return nil, err
	}

	var jwk *JWK
	for i := range jwks.Keys {
		if jwks.Keys[i].Kid == kid {
			jwk = &jwks.Keys[i]
			break
		}
	}
	if jwk == nil {
		return nil, fmt.Errorf("key with kid %s not found in JWKS", kid)
	}

	publicKey, err := jwkToRSAPublicKey(jwk)
	if err != nil {
		return nil, fmt.Errorf("failed to convert JWK to RSA public key: %w", err)
	}

	v.keyCacheMu.Lock()
	v.keyCache[kid] = publicKey
	v.keyCacheMu.Unlock()

	return publicKey, nil
}

// jwkToRSAPublicKey converts a JWK to an RSA public key.
func jwkToRSAPublicKey(jwk *JWK) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)

	var e int
	for _, b := range eBytes {
		e = e*256 + int(b)
	}

	return &rsa.PublicKey{N: n, E: e}, nil
}

// InvalidateCache drops the cached JWKS and parsed keys.
func (v *Verifier) InvalidateCache() {
	v.cacheMu.Lock()
	v.jwksCache = nil
	v.jwksCacheExp = time.Time{}
	v.cacheMu.Unlock()

	v.keyCacheMu.Lock()
	v.keyCache = make(map[string]*rsa.PublicKey)
	v.keyCacheMu.Unlock()
}
