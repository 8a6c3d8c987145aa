package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

func newJWKSServer(t *testing.T, key *rsa.PrivateKey, kid string) *httptest.Server {
	t.Helper()

	doc := jwks{Keys: []jwk{{
		Kid: kid,
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
	}}}

	mux := http.NewServeMux()
	mux.HandleFunc("/realms/hotel/protocol/openid-connect/certs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestVerifierVerify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, key, "key-1")
	v := NewVerifier(srv.URL, "hotel", "cs-service", time.Hour, nil, logger.NewNop())

	tokenString := signToken(t, key, "key-1", jwt.MapClaims{
		"sub":                "user-123",
		"preferred_username": "budi",
		"organization":       map[string]any{"grand-asia": map[string]any{}},
		"realm_access":       map[string]any{"roles": []string{"staff"}},
		"resource_access": map[string]any{
			"cs-service": map[string]any{"roles": []string{"orders:read"}},
		},
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(context.Background(), tokenString)
	require.NoError(t, err)
	sub, _ := claims.GetSubject()
	assert.Equal(t, "user-123", sub)
	assert.Equal(t, "grand-asia", claims.OrgName())
	assert.ElementsMatch(t, []string{"staff", "orders:read"}, claims.Roles("cs-service"))
}

func TestVerifierRejectsExpired(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, key, "key-1")
	v := NewVerifier(srv.URL, "hotel", "cs-service", time.Hour, nil, logger.NewNop())

	tokenString := signToken(t, key, "key-1", jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err = v.Verify(context.Background(), tokenString)
	assert.Error(t, err)
}

func TestVerifierRejectsWrongKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, key, "key-1")
	v := NewVerifier(srv.URL, "hotel", "cs-service", time.Hour, nil, logger.NewNop())

	tokenString := signToken(t, other, "key-1", jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err = v.Verify(context.Background(), tokenString)
	assert.Error(t, err)
}

func TestVerifierRejectsHMAC(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, key, "key-1")
	v := NewVerifier(srv.URL, "hotel", "cs-service", time.Hour, nil, logger.NewNop())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), signed)
	assert.Error(t, err)
}

func TestClaimsOrgNameFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
		want   string
	}{
		{
			name:   "organization map wins",
			claims: Claims{Organization: map[string]any{"acme": nil}, OrganizationName: "other"},
			want:   "acme",
		},
		{
			name:   "organization_name",
			claims: Claims{OrganizationName: "acme"},
			want:   "acme",
		},
		{
			name:   "org",
			claims: Claims{Org: "acme"},
			want:   "acme",
		},
		{
			name:   "company",
			claims: Claims{Company: "acme"},
			want:   "acme",
		},
		{
			name:   "none",
			claims: Claims{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.OrgName())
		})
	}
}
