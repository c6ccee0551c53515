//go:build !linux

package server

import (
	"net"

	"github.com/parsec-io/parsec-core/internal/authn"
)

// PeerCreds is a no-op stand-in on platforms where SO_PEERCRED is
// unavailable; UnixPeerCredentials authentication degrades to uid 0 there.
func PeerCreds(net.Conn) authn.TransportInfo {
	return authn.TransportInfo{}
}
