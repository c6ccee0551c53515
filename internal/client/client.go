// Package client is the thin library parsecctl (and any other local
// process) uses to speak the wire protocol to parsecd over its Unix
// socket: one connection per call, matching the front-end's "read one
// request, write one response, let the caller close" contract.
package client

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

// Client dials socketPath fresh for every call. It holds no long-lived
// connection state, so a *Client is safe for concurrent use the same way
// an *http.Client is: callers share one instance across goroutines.
type Client struct {
	socketPath string
	authType   wire.AuthType
	authBytes  []byte
	bodyLimit  uint32
	timeout    time.Duration
	version    wire.Version
}

// Option configures a Client at construction.
type Option func(*Client)

// WithAuth sets the authentication tag and payload sent on every call.
// The zero value (NoAuth, nil) matches a parsecd socket with no auth
// configured.
func WithAuth(authType wire.AuthType, authBytes []byte) Option {
	return func(c *Client) {
		c.authType = authType
		c.authBytes = authBytes
	}
}

// WithBodyLimit overrides the default response body size accepted from
// the server.
func WithBodyLimit(limit uint32) Option {
	return func(c *Client) { c.bodyLimit = limit }
}

// WithTimeout bounds the dial, write and read of a single call. Zero
// means no deadline beyond ctx's own.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// defaultBodyLimit matches internal/config's default socket.body_limit.
const defaultBodyLimit = 1 << 20

// New returns a Client that will dial socketPath on every call.
func New(socketPath string, opts ...Option) *Client {
	c := &Client{
		socketPath: socketPath,
		bodyLimit:  defaultBodyLimit,
		version:    wire.ProtocolVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Error wraps a non-success wire.ResponseStatus returned by parsecd.
type Error struct {
	Opcode wire.Opcode
	Status wire.ResponseStatus
}

func (e *Error) Error() string {
	return fmt.Sprintf("client: %s failed: %s", e.Opcode, e.Status)
}

// call dials a fresh connection, sends one (provider, opcode, op) request
// under the client's configured auth, and returns the decoded result on
// success. On a non-success wire.ResponseStatus it returns *Error.
func (c *Client) call(ctx context.Context, provider wire.ProviderID, opcode wire.Opcode, op body.Operation) (any, error) {
	var dialer net.Dialer
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	w := body.NewWriter()
	op.Encode(w)
	bodyBytes := w.Bytes()

	hdr := &wire.RequestHeader{
		VersionMaj:  c.version.Major,
		VersionMin:  c.version.Minor,
		Provider:    provider,
		ContentType: wire.BodyTypeProtobuf,
		AcceptType:  wire.BodyTypeProtobuf,
		AuthType:    c.authType,
		Opcode:      opcode,
	}
	if err := wire.WriteRequest(conn, hdr, c.authBytes, bodyBytes); err != nil {
		return nil, fmt.Errorf("client: write request: %w", err)
	}

	resp, err := wire.ReadResponse(conn, c.bodyLimit)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}
	if resp.Header.Status != wire.StatusSuccess {
		return nil, &Error{Opcode: opcode, Status: resp.Header.Status}
	}

	return decodeResult(opcode, resp.Body)
}

func decodeResult(opcode wire.Opcode, raw []byte) (any, error) {
	r := body.NewReader(raw)

	var (
		res any
		err error
	)
	switch opcode {
	case wire.OpPing:
		res, err = body.DecodePingResult(r)
	case wire.OpListProviders:
		res, err = body.DecodeListProvidersResult(r)
	case wire.OpListOpcodes:
		res, err = body.DecodeListOpcodesResult(r)
	case wire.OpListAuthenticators:
		res, err = body.DecodeListAuthenticatorsResult(r)
	case wire.OpListKeys:
		res, err = body.DecodeListKeysResult(r)
	case wire.OpListClients:
		res, err = body.DecodeListClientsResult(r)
	case wire.OpPsaGenerateKey:
		res, err = body.DecodePsaGenerateKeyResult(r)
	case wire.OpPsaImportKey:
		res, err = body.DecodePsaImportKeyResult(r)
	case wire.OpPsaExportPublicKey:
		res, err = body.DecodePsaExportPublicKeyResult(r)
	case wire.OpPsaDestroyKey:
		res, err = body.DecodePsaDestroyKeyResult(r)
	case wire.OpPsaSignHash:
		res, err = body.DecodePsaSignHashResult(r)
	case wire.OpPsaVerifyHash:
		res, err = body.DecodePsaVerifyHashResult(r)
	case wire.OpPsaAsymmetricEncrypt:
		res, err = body.DecodePsaAsymmetricEncryptResult(r)
	case wire.OpPsaAsymmetricDecrypt:
		res, err = body.DecodePsaAsymmetricDecryptResult(r)
	default:
		return nil, fmt.Errorf("client: unknown opcode %s", opcode)
	}
	if err != nil {
		return nil, fmt.Errorf("client: decode %s result: %w", opcode, err)
	}
	if !r.Done() {
		return nil, fmt.Errorf("client: trailing bytes after %s result", opcode)
	}
	return res, nil
}
