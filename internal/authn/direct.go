package authn

import (
	"context"
	"fmt"
)

// Direct is the trust-on-declare authenticator registered for
// wire.AuthTypeDirect: the request's auth bytes are taken verbatim as the
// ApplicationName, with no cryptographic verification. Appropriate only
// when the transport itself (a socket reachable solely by trusted local
// processes) is the actual trust boundary.
type Direct struct {
	// MaxLen bounds the accepted ApplicationName length; zero means
	// unbounded.
	MaxLen int
}

// Authenticate returns the auth bytes decoded as UTF-8, unmodified.
func (d Direct) Authenticate(_ context.Context, authBytes []byte, _ TransportInfo) (string, error) {
	if len(authBytes) == 0 {
		return "", fmt.Errorf("authn/direct: empty application name")
	}
	if d.MaxLen > 0 && len(authBytes) > d.MaxLen {
		return "", fmt.Errorf("authn/direct: application name exceeds %d bytes", d.MaxLen)
	}
	return string(authBytes), nil
}
