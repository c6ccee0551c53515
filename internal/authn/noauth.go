package authn

import "context"

// NoAuth is the authenticator registered for wire.AuthTypeNoAuth. It never
// runs in practice: the front-end dispatches NoAuth requests without
// consulting the registry at all, per spec.md's "if auth_type == NoAuth,
// dispatch with no identity" rule. It exists so ListAuthenticators can
// still describe the NoAuth tag through the same AuthenticatorInfo path as
// every other entry.
type NoAuth struct{}

// Authenticate always succeeds with an empty ApplicationName.
func (NoAuth) Authenticate(context.Context, []byte, TransportInfo) (string, error) {
	return "", nil
}
