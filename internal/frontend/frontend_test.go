package frontend_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsec-io/parsec-core/internal/authn"
	"github.com/parsec-io/parsec-core/internal/backend"
	"github.com/parsec-io/parsec-core/internal/converter"
	"github.com/parsec-io/parsec-core/internal/dispatch"
	"github.com/parsec-io/parsec-core/internal/frontend"
	"github.com/parsec-io/parsec-core/internal/keyinfo/memory"
	"github.com/parsec-io/parsec-core/internal/provider"
	"github.com/parsec-io/parsec-core/internal/provider/core"
	"github.com/parsec-io/parsec-core/internal/provider/mbedcrypto"
	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

func newTestHandler(t *testing.T) *frontend.Handler {
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
			wire.ProviderCore:       coreHandlerOpcodes(),
			wire.ProviderMbedCrypto: mbed.Opcodes(),
		},
	}

	disp := dispatch.New(
		&backend.Handler{
			Provider:    wire.ProviderCore,
			ContentType: wire.BodyTypeProtobuf,
			AcceptType:  wire.BodyTypeProtobuf,
			MaxVersion:  wire.Version{Major: 1, Minor: 0},
			Converters:  reg,
			Executor:    coreH,
		},
		&backend.Handler{
			Provider:    wire.ProviderMbedCrypto,
			ContentType: wire.BodyTypeProtobuf,
			AcceptType:  wire.BodyTypeProtobuf,
			MaxVersion:  wire.Version{Major: 1, Minor: 0},
			Converters:  reg,
			Executor:    provider.Adapt(mbed),
		},
	)

	authReg := authn.NewRegistry()
	require.NoError(t, authReg.Register(wire.AuthTypeDirect, authn.Direct{}))

	return &frontend.Handler{
		Auth:       authReg,
		Dispatcher: disp,
		BodyLimit:  1 << 20,
	}
}

func coreHandlerOpcodes() []wire.Opcode {
	return []wire.Opcode{wire.OpPing, wire.OpListProviders, wire.OpListOpcodes, wire.OpListAuthenticators}
}

func TestPingRoundTrip(t *testing.T) {
	h := newTestHandler(t)

	var buf bytes.Buffer
	hdr := &wire.RequestHeader{
		VersionMaj:  1,
		Provider:    wire.ProviderCore,
		ContentType: wire.BodyTypeProtobuf,
		AcceptType:  wire.BodyTypeProtobuf,
		AuthType:    wire.AuthTypeNoAuth,
		Opcode:      wire.OpPing,
	}
	require.NoError(t, wire.WriteRequest(&buf, hdr, nil, nil))

	require.NoError(t, h.HandleConnection(t.Context(), &buf, authn.TransportInfo{}))

	resp, err := wire.ReadResponse(&buf, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, wire.StatusSuccess, resp.Header.Status)

	res, err := body.DecodePingResult(body.NewReader(resp.Body))
	require.NoError(t, err)
	assert.Equal(t, uint8(1), res.WireProtocolVersionMaj)
}

func TestKeyLifecycleRoundTrip(t *testing.T) {
	h := newTestHandler(t)

	doRequest := func(opcode wire.Opcode, payload []byte) *wire.Response {
		var buf bytes.Buffer
		hdr := &wire.RequestHeader{
			VersionMaj:  1,
			Provider:    wire.ProviderMbedCrypto,
			ContentType: wire.BodyTypeProtobuf,
			AcceptType:  wire.BodyTypeProtobuf,
			AuthType:    wire.AuthTypeDirect,
			Opcode:      opcode,
		}
		require.NoError(t, wire.WriteRequest(&buf, hdr, []byte("app1"), payload))
		require.NoError(t, h.HandleConnection(t.Context(), &buf, authn.TransportInfo{}))
		resp, err := wire.ReadResponse(&buf, 1<<20)
		require.NoError(t, err)
		return resp
	}

	w := body.NewWriter()
	genOp := body.PsaGenerateKeyOp{KeyName: "k1", Attributes: body.KeyAttributes{KeyType: body.KeyTypeECCKeyPair, Bits: 256}}
	genOp.Encode(w)
	resp := doRequest(wire.OpPsaGenerateKey, w.Bytes())
	assert.Equal(t, wire.StatusSuccess, resp.Header.Status)

	w = body.NewWriter()
	body.PsaExportPublicKeyOp{KeyName: "k1"}.Encode(w)
	resp = doRequest(wire.OpPsaExportPublicKey, w.Bytes())
	require.Equal(t, wire.StatusSuccess, resp.Header.Status)
	exported, err := body.DecodePsaExportPublicKeyResult(body.NewReader(resp.Body))
	require.NoError(t, err)
	assert.NotEmpty(t, exported.Data)

	w = body.NewWriter()
	body.PsaDestroyKeyOp{KeyName: "k1"}.Encode(w)
	resp = doRequest(wire.OpPsaDestroyKey, w.Bytes())
	assert.Equal(t, wire.StatusSuccess, resp.Header.Status)

	w = body.NewWriter()
	body.PsaExportPublicKeyOp{KeyName: "k1"}.Encode(w)
	resp = doRequest(wire.OpPsaExportPublicKey, w.Bytes())
	assert.Equal(t, wire.StatusKeyDoesNotExist, resp.Header.Status)
}

func TestUnknownAuthenticatorRejected(t *testing.T) {
	h := newTestHandler(t)

	var buf bytes.Buffer
	hdr := &wire.RequestHeader{
		VersionMaj:  1,
		Provider:    wire.ProviderCore,
		ContentType: wire.BodyTypeProtobuf,
		AcceptType:  wire.BodyTypeProtobuf,
		AuthType:    wire.AuthTypeJWTBearer,
		Opcode:      wire.OpPing,
	}
	require.NoError(t, wire.WriteRequest(&buf, hdr, nil, nil))
	require.NoError(t, h.HandleConnection(t.Context(), &buf, authn.TransportInfo{}))

	resp, err := wire.ReadResponse(&buf, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, wire.StatusAuthenticatorNotRegistered, resp.Header.Status)
}
