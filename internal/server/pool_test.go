package server_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parsec-io/parsec-core/internal/authn"
	"github.com/parsec-io/parsec-core/internal/backend"
	"github.com/parsec-io/parsec-core/internal/converter"
	"github.com/parsec-io/parsec-core/internal/dispatch"
	"github.com/parsec-io/parsec-core/internal/frontend"
	"github.com/parsec-io/parsec-core/internal/provider"
	"github.com/parsec-io/parsec-core/internal/provider/core"
	"github.com/parsec-io/parsec-core/internal/server"
	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"

	"github.com/google/uuid"
)

func TestPoolServesPingOverTCP(t *testing.T) {
	reg := converter.NewRegistry()
	require.NoError(t, reg.Register(wire.BodyTypeProtobuf, converter.NewProtobuf()))

	coreH := &core.Handler{
		Providers:       []provider.Info{{ID: wire.ProviderCore, UUID: uuid.New()}},
		ProviderOpcodes: map[wire.ProviderID][]wire.Opcode{wire.ProviderCore: {wire.OpPing}},
	}
	disp := dispatch.New(&backend.Handler{
		Provider:    wire.ProviderCore,
		ContentType: wire.BodyTypeProtobuf,
		AcceptType:  wire.BodyTypeProtobuf,
		MaxVersion:  wire.Version{Major: 1},
		Converters:  reg,
		Executor:    coreH,
	})

	fe := &frontend.Handler{Auth: authn.NewRegistry(), Dispatcher: disp, BodyLimit: 1 << 20}
	pool := server.New(2, fe, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pool.Serve(ctx, ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	hdr := &wire.RequestHeader{
		VersionMaj:  1,
		Provider:    wire.ProviderCore,
		ContentType: wire.BodyTypeProtobuf,
		AcceptType:  wire.BodyTypeProtobuf,
		AuthType:    wire.AuthTypeNoAuth,
		Opcode:      wire.OpPing,
	}
	require.NoError(t, wire.WriteRequest(conn, hdr, nil, nil))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	resp, err := wire.ReadResponse(conn, 1<<20)
	require.NoError(t, err)
	require.Equal(t, wire.StatusSuccess, resp.Header.Status)

	res, err := body.DecodePingResult(body.NewReader(resp.Body))
	require.NoError(t, err)
	require.Equal(t, uint8(1), res.WireProtocolVersionMaj)

	cancel()
	<-done
}
