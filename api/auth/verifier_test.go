package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newJWKSServer serves a JWKS document for the given RSA key under kid.
func newJWKSServer(t *testing.T, kid string, pub *rsa.PublicKey) *httptest.Server {
	t.Helper()
	doc := jwksDocument{Keys: []jwksKey{{
		Kty: "RSA",
		Kid: kid,
		Use: "sig",
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestVerifyToken_ReturnsSubject(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newJWKSServer(t, "key-1", &key.PublicKey)
	v := NewVerifier(srv.URL)

	tok := signToken(t, key, "key-1", jwt.RegisteredClaims{
		Subject:   "user_abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	sub, err := v.VerifyToken(tok)
	assert.NoError(t, err)
	assert.Equal(t, "user_abc", sub)
}

func TestVerifyToken_MissingSubject(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newJWKSServer(t, "key-1", &key.PublicKey)
	v := NewVerifier(srv.URL)

	tok := signToken(t, key, "key-1", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err = v.VerifyToken(tok)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyToken_Expired(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newJWKSServer(t, "key-1", &key.PublicKey)
	v := NewVerifier(srv.URL)

	tok := signToken(t, key, "key-1", jwt.RegisteredClaims{
		Subject:   "user_abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	_, err = v.VerifyToken(tok)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyToken_WrongKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newJWKSServer(t, "key-1", &key.PublicKey)
	v := NewVerifier(srv.URL)

	// Signed by a key the issuer never published, under the published kid.
	tok := signToken(t, otherKey, "key-1", jwt.RegisteredClaims{
		Subject:   "user_abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err = v.VerifyToken(tok)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyToken_Malformed(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newJWKSServer(t, "key-1", &key.PublicKey)
	v := NewVerifier(srv.URL)

	_, err = v.VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyRequest_HeaderShapes(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newJWKSServer(t, "key-1", &key.PublicKey)
	v := NewVerifier(srv.URL)

	for _, header := range []string{"", "Token abc", "bearer abc", "Bearer"} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		_, err := v.VerifyRequest(r)
		assert.ErrorIs(t, err, ErrUnauthorized, "header %q", header)
	}
}

func TestMiddleware_SetsCallerID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newJWKSServer(t, "key-1", &key.PublicKey)
	v := NewVerifier(srv.URL)

	var got string
	engine := gin.New()
	engine.GET("/me", Middleware(v), func(c *gin.Context) {
		got = CallerID(c)
		c.Status(http.StatusOK)
	})

	tok := signToken(t, key, "key-1", jwt.RegisteredClaims{
		Subject:   "user_abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	engine.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user_abc", got)
}

func TestMiddleware_RejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newJWKSServer(t, "key-1", &key.PublicKey)
	v := NewVerifier(srv.URL)

	engine := gin.New()
	engine.GET("/me", Middleware(v), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
