package client_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/parsec-io/parsec-core/internal/authn"
	"github.com/parsec-io/parsec-core/internal/backend"
	"github.com/parsec-io/parsec-core/internal/client"
	"github.com/parsec-io/parsec-core/internal/converter"
	"github.com/parsec-io/parsec-core/internal/dispatch"
	"github.com/parsec-io/parsec-core/internal/frontend"
	"github.com/parsec-io/parsec-core/internal/keyinfo/memory"
	"github.com/parsec-io/parsec-core/internal/provider"
	"github.com/parsec-io/parsec-core/internal/provider/core"
	"github.com/parsec-io/parsec-core/internal/provider/mbedcrypto"
	"github.com/parsec-io/parsec-core/internal/server"
	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

func startTestServer(t *testing.T) string {
	t.Helper()

	reg := converter.NewRegistry()
	require.NoError(t, reg.Register(wire.BodyTypeProtobuf, converter.NewProtobuf()))

	mbed := mbedcrypto.New(memory.New())
	coreH := &core.Handler{
		Providers: []provider.Info{
			{ID: wire.ProviderCore, UUID: uuid.New(), Description: "core", VersionMaj: 1},
			{ID: wire.ProviderMbedCrypto, UUID: uuid.New(), Description: "mbed-crypto", VersionMaj: 1},
		},
		ProviderOpcodes: map[wire.ProviderID][]wire.Opcode{
			wire.ProviderCore: {
				wire.OpPing, wire.OpListProviders, wire.OpListOpcodes, wire.OpListAuthenticators,
			},
			wire.ProviderMbedCrypto: mbed.Opcodes(),
		},
	}

	disp := dispatch.New(
		&backend.Handler{
			Provider:    wire.ProviderCore,
			ContentType: wire.BodyTypeProtobuf,
			AcceptType:  wire.BodyTypeProtobuf,
			MaxVersion:  wire.Version{Major: 1},
			Converters:  reg,
			Executor:    coreH,
		},
		&backend.Handler{
			Provider:    wire.ProviderMbedCrypto,
			ContentType: wire.BodyTypeProtobuf,
			AcceptType:  wire.BodyTypeProtobuf,
			MaxVersion:  wire.Version{Major: 1},
			Converters:  reg,
			Executor:    provider.Adapt(mbed),
		},
	)

	authReg := authn.NewRegistry()
	require.NoError(t, authReg.Register(wire.AuthTypeDirect, authn.Direct{}))

	fe := &frontend.Handler{Auth: authReg, Dispatcher: disp, BodyLimit: 1 << 20}
	pool := server.New(4, fe, nil)

	sockPath := filepath.Join(t.TempDir(), "parsecd.sock")
	ln, err := net.Listen("unix", sockPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pool.Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		<-done
	})

	return sockPath
}

func TestClientPing(t *testing.T) {
	sockPath := startTestServer(t)
	c := client.New(sockPath, client.WithTimeout(2*time.Second))

	res, err := c.Ping(context.Background())
	require.NoError(t, err)
	require.Equal(t, wire.ProtocolVersion.Major, res.WireProtocolVersionMaj)
}

func TestClientListProviders(t *testing.T) {
	sockPath := startTestServer(t)
	c := client.New(sockPath, client.WithTimeout(2*time.Second))

	res, err := c.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Providers, 2)
}

func TestClientGenerateAndSignRoundTrip(t *testing.T) {
	sockPath := startTestServer(t)
	c := client.New(
		sockPath,
		client.WithTimeout(2*time.Second),
		client.WithAuth(wire.AuthTypeDirect, []byte("test-app")),
	)
	ctx := context.Background()

	attrs := body.KeyAttributes{
		KeyType:    body.KeyTypeECCKeyPair,
		Bits:       256,
		Algorithm:  body.AlgECDSASHA256,
		UsageFlags: body.UsageSignHash | body.UsageVerifyHash,
	}
	require.NoError(t, c.GenerateKey(ctx, wire.ProviderMbedCrypto, "sign-key", attrs))

	hash := make([]byte, 32)
	for i := range hash {
		hash[i] = byte(i)
	}

	sig, err := c.SignHash(ctx, wire.ProviderMbedCrypto, "sign-key", body.AlgECDSASHA256, hash)
	require.NoError(t, err)
	require.NotEmpty(t, sig)

	require.NoError(t, c.VerifyHash(ctx, wire.ProviderMbedCrypto, "sign-key", body.AlgECDSASHA256, hash, sig))
	require.NoError(t, c.DestroyKey(ctx, wire.ProviderMbedCrypto, "sign-key"))
}

func TestClientUnknownKeyReturnsError(t *testing.T) {
	sockPath := startTestServer(t)
	c := client.New(
		sockPath,
		client.WithTimeout(2*time.Second),
		client.WithAuth(wire.AuthTypeDirect, []byte("test-app")),
	)

	_, err := c.ExportPublicKey(context.Background(), wire.ProviderMbedCrypto, "no-such-key")
	require.Error(t, err)

	var clientErr *client.Error
	require.ErrorAs(t, err, &clientErr)
	require.Equal(t, wire.StatusKeyDoesNotExist, clientErr.Status)
}
