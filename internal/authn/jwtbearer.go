package authn

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTBearer is the authenticator registered for wire.AuthTypeJWTBearer. The
// auth bytes are a signed JWT; on successful verification the token's `sub`
// claim becomes the ApplicationName. Off by default: a deployment opts in
// through internal/config when it sits behind a managed identity provider.
type JWTBearer struct {
	// KeyFunc resolves the verification key for a token, in the shape
	// jwt.Parse expects (keyed off the token's header, e.g. kid).
	KeyFunc jwt.Keyfunc
	// ParserOptions are forwarded to jwt.NewParser, e.g. to pin the
	// accepted signing methods or the expected issuer/audience.
	ParserOptions []jwt.ParserOption
}

// Authenticate verifies the bearer token in authBytes and returns its
// subject claim.
func (j JWTBearer) Authenticate(_ context.Context, authBytes []byte, _ TransportInfo) (string, error) {
	if len(authBytes) == 0 {
		return "", fmt.Errorf("authn/jwtbearer: empty token")
	}

	parser := jwt.NewParser(j.ParserOptions...)
	claims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(string(authBytes), claims, j.KeyFunc)
	if err != nil {
		return "", fmt.Errorf("authn/jwtbearer: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("authn/jwtbearer: token not valid")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("authn/jwtbearer: missing subject claim: %w", err)
	}
	if sub == "" {
		return "", fmt.Errorf("authn/jwtbearer: empty subject claim")
	}
	return sub, nil
}
