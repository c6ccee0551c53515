package authn

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsec-io/parsec-core/internal/wire"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(wire.AuthTypeNoAuth, NoAuth{}))

	err := r.Register(wire.AuthTypeNoAuth, NoAuth{})
	require.Error(t, err)

	_, err = r.Get(wire.AuthTypeDirect)
	require.ErrorIs(t, err, ErrAuthenticatorNotRegistered)

	a, err := r.Get(wire.AuthTypeNoAuth)
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestDirectAuthenticatorTakesBytesVerbatim(t *testing.T) {
	d := Direct{}
	name, err := d.Authenticate(t.Context(), []byte("my-app"), TransportInfo{})
	require.NoError(t, err)
	assert.Equal(t, "my-app", name)

	_, err = d.Authenticate(t.Context(), nil, TransportInfo{})
	require.Error(t, err)
}

func TestDirectAuthenticatorEnforcesMaxLen(t *testing.T) {
	d := Direct{MaxLen: 3}
	_, err := d.Authenticate(t.Context(), []byte("too-long"), TransportInfo{})
	require.Error(t, err)
}

func TestUnixPeerCredentialsDefaultsToStringifiedUID(t *testing.T) {
	u := UnixPeerCredentials{}
	name, err := u.Authenticate(t.Context(), nil, TransportInfo{PeerUID: 1000})
	require.NoError(t, err)
	assert.Equal(t, "1000", name)
}

func TestUnixPeerCredentialsUsesResolver(t *testing.T) {
	u := UnixPeerCredentials{Resolve: func(uid uint32) (string, error) {
		return "resolved-app", nil
	}}
	name, err := u.Authenticate(t.Context(), nil, TransportInfo{PeerUID: 42})
	require.NoError(t, err)
	assert.Equal(t, "resolved-app", name)
}

func TestJWTBearerValidatesSubjectClaim(t *testing.T) {
	secret := []byte("test-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "app-from-token",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)

	j := JWTBearer{KeyFunc: func(*jwt.Token) (interface{}, error) { return secret, nil }}
	name, err := j.Authenticate(t.Context(), []byte(signed), TransportInfo{})
	require.NoError(t, err)
	assert.Equal(t, "app-from-token", name)
}

func TestJWTBearerRejectsBadSignature(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"})
	signed, err := token.SignedString([]byte("secret-a"))
	require.NoError(t, err)

	j := JWTBearer{KeyFunc: func(*jwt.Token) (interface{}, error) { return []byte("secret-b"), nil }}
	_, err = j.Authenticate(t.Context(), []byte(signed), TransportInfo{})
	require.Error(t, err)
}
