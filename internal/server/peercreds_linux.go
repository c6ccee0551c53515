//go:build linux

package server

import (
	"net"

	"golang.org/x/sys/unix"

	"github.com/parsec-io/parsec-core/internal/authn"
)

// PeerCreds extracts SO_PEERCRED from a *net.UnixConn, for wiring into
// Pool.PeerCreds. Any other net.Conn type yields a zero TransportInfo: only
// Unix-domain listeners can report peer credentials this way.
func PeerCreds(conn net.Conn) authn.TransportInfo {
	uc, ok := conn.(*net.UnixConn)
	if !ok {
		return authn.TransportInfo{}
	}
	raw, err := uc.SyscallConn()
	if err != nil {
		return authn.TransportInfo{}
	}

	var (
		ucred *unix.Ucred
		sErr  error
	)
	err = raw.Control(func(fd uintptr) {
		ucred, sErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	})
	if err != nil || sErr != nil || ucred == nil {
		return authn.TransportInfo{}
	}
	return authn.TransportInfo{PeerUID: ucred.Uid, PeerGID: ucred.Gid}
}
