// Package auth verifies Keycloak-issued access tokens against the realm's
// JWKS endpoint.
package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

const jwksRedisKey = "auth:jwks"

// Claims are the token claims the service reads. Organization membership can
// arrive under several claim names depending on how the realm is mapped.
type Claims struct {
	jwt.RegisteredClaims
	Name              string         `json:"name"`
	PreferredUsername string         `json:"preferred_username"`
	Email             string         `json:"email"`
	Organization      map[string]any `json:"organization"`
	OrganizationName  string         `json:"organization_name"`
	Org               string         `json:"org"`
	Company           string         `json:"company"`
	RealmAccess       roleContainer  `json:"realm_access"`
	ResourceAccess    map[string]roleContainer `json:"resource_access"`
}

type roleContainer struct {
	Roles []string `json:"roles"`
}

// OrgName resolves the organization claim, preferring the Keycloak
// organizations extension map and falling back to flat claim names.
func (c *Claims) OrgName() string {
	for name := range c.Organization {
		return name
	}
	if c.OrganizationName != "" {
		return c.OrganizationName
	}
	if c.Org != "" {
		return c.Org
	}
	return c.Company
}

// Roles merges realm roles with the roles granted for clientID.
func (c *Claims) Roles(clientID string) []string {
	roles := append([]string(nil), c.RealmAccess.Roles...)
	if client, ok := c.ResourceAccess[clientID]; ok {
		roles = append(roles, client.Roles...)
	}
	return roles
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// realmInfo is the realm descriptor served at the realm root; its public_key
// field is the fallback when the JWKS endpoint is unavailable.
type realmInfo struct {
	PublicKey string `json:"public_key"`
}

// Verifier validates bearer tokens issued by one Keycloak realm. Public keys
// are cached in memory and optionally mirrored in redis so restarts do not
// hit Keycloak on the first request.
type Verifier struct {
	serverURL string
	realm     string
	clientID  string
	cacheTTL  time.Duration
	client    *http.Client
	redis     *redis.Client
	log       *logger.Logger

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewVerifier builds a Verifier. redisClient may be nil, in which case only
// the in-memory key cache is used.
func NewVerifier(serverURL, realm, clientID string, cacheTTL time.Duration, redisClient *redis.Client, log *logger.Logger) *Verifier {
	return &Verifier{
		serverURL: serverURL,
		realm:     realm,
		clientID:  clientID,
		cacheTTL:  cacheTTL,
		client:    &http.Client{Timeout: 10 * time.Second},
		redis:     redisClient,
		log:       log,
		keys:      make(map[string]*rsa.PublicKey),
	}
}

// Verify parses and validates a bearer token, returning its claims.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		kid, _ := token.Header["kid"].(string)
		return v.keyFor(ctx, kid)
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

func (v *Verifier) keyFor(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	key, ok := v.cachedKey(kid)
	v.mu.RLock()
	fresh := time.Since(v.fetchedAt) < v.cacheTTL
	v.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}

	if err := v.refresh(ctx); err != nil {
		// A stale key beats a hard failure while Keycloak is unreachable.
		if ok {
			v.log.Warn("jwks refresh failed, using cached key", zap.Error(err))
			return key, nil
		}
		return nil, err
	}

	key, ok = v.cachedKey(kid)
	if !ok {
		return nil, fmt.Errorf("no key for kid %q", kid)
	}
	return key, nil
}

// cachedKey looks a key up by kid, falling back to the kid-less realm key.
func (v *Verifier) cachedKey(kid string) (*rsa.PublicKey, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if key, ok := v.keys[kid]; ok {
		return key, true
	}
	key, ok := v.keys[""]
	return key, ok
}

func (v *Verifier) refresh(ctx context.Context) error {
	doc, err := v.fetchJWKS(ctx)
	if err != nil {
		v.log.Warn("jwks endpoint failed, trying realm descriptor", zap.Error(err))
		return v.refreshFromRealmInfo(ctx)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		pub, err := rsaKeyFromJWK(k)
		if err != nil {
			v.log.Warn("skipping unparseable jwk", zap.String("kid", k.Kid), zap.Error(err))
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return fmt.Errorf("jwks for realm %q has no usable RSA keys", v.realm)
	}

	v.mu.Lock()
	v.keys = keys
	v.fetchedAt = time.Now()
	v.mu.Unlock()
	return nil
}

func (v *Verifier) fetchJWKS(ctx context.Context) (*jwks, error) {
	if v.redis != nil {
		if raw, err := v.redis.Get(ctx, jwksRedisKey).Bytes(); err == nil {
			var doc jwks
			if json.Unmarshal(raw, &doc) == nil && len(doc.Keys) > 0 {
				return &doc, nil
			}
		}
	}

	url := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/certs", v.serverURL, v.realm)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch jwks: status %d", resp.StatusCode)
	}

	var doc jwks
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode jwks: %w", err)
	}

	if v.redis != nil {
		if raw, err := json.Marshal(doc); err == nil {
			if err := v.redis.Set(ctx, jwksRedisKey, raw, v.cacheTTL).Err(); err != nil {
				v.log.Warn("jwks redis cache write failed", zap.Error(err))
			}
		}
	}
	return &doc, nil
}

func (v *Verifier) refreshFromRealmInfo(ctx context.Context) error {
	url := fmt.Sprintf("%s/realms/%s", v.serverURL, v.realm)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch realm info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch realm info: status %d", resp.StatusCode)
	}

	var info realmInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("decode realm info: %w", err)
	}
	if info.PublicKey == "" {
		return fmt.Errorf("realm %q descriptor has no public key", v.realm)
	}

	pem := "-----BEGIN PUBLIC KEY-----\n" + info.PublicKey + "\n-----END PUBLIC KEY-----"
	pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	if err != nil {
		return fmt.Errorf("parse realm public key: %w", err)
	}

	v.mu.Lock()
	// Realm descriptors carry no kid, so the key answers every kid.
	v.keys = map[string]*rsa.PublicKey{"": pub}
	v.fetchedAt = time.Now()
	v.mu.Unlock()
	return nil
}

func rsaKeyFromJWK(k jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e == 0 {
		return nil, fmt.Errorf("zero exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
