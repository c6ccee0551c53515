package authn

import (
	"context"
	"fmt"
	"strconv"
)

// UnixPeerCredentials is the authenticator registered for
// wire.AuthTypeUnixPeerCredentials. It ignores the auth bytes entirely and
// derives the ApplicationName from the connecting process's UID, as
// reported by the front-end via TransportInfo (populated from
// SO_PEERCRED/LOCAL_PEERCRED on the accepted *net.UnixConn before
// authentication runs).
type UnixPeerCredentials struct {
	// Resolve maps a UID to an application name, e.g. via an
	// /etc/passwd-style lookup. If nil, the ApplicationName is the
	// stringified UID.
	Resolve func(uid uint32) (string, error)
}

// Authenticate returns the resolved ApplicationName for the peer's UID.
func (u UnixPeerCredentials) Authenticate(_ context.Context, _ []byte, transport TransportInfo) (string, error) {
	if u.Resolve != nil {
		name, err := u.Resolve(transport.PeerUID)
		if err != nil {
			return "", fmt.Errorf("authn/unixpeer: resolve uid %d: %w", transport.PeerUID, err)
		}
		return name, nil
	}
	return strconv.FormatUint(uint64(transport.PeerUID), 10), nil
}
