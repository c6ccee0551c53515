package core

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsec-io/parsec-core/internal/keyinfo"
	"github.com/parsec-io/parsec-core/internal/keyinfo/memory"
	"github.com/parsec-io/parsec-core/internal/provider"
	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

func newTestHandler() *Handler {
	return newTestHandlerWithStore(memory.New())
}

func newTestHandlerWithStore(store keyinfo.Manager) *Handler {
	return &Handler{
		Providers: []provider.Info{
			{ID: wire.ProviderCore, UUID: uuid.New(), Description: "core", VersionMaj: 1},
			{ID: wire.ProviderMbedCrypto, UUID: uuid.New(), Description: "mbed-crypto", VersionMaj: 1},
		},
		ProviderOpcodes: map[wire.ProviderID][]wire.Opcode{
			wire.ProviderCore:       {wire.OpPing, wire.OpListProviders, wire.OpListOpcodes, wire.OpListAuthenticators},
			wire.ProviderMbedCrypto: {wire.OpPsaGenerateKey, wire.OpPsaSignHash},
		},
		Authenticators: []AuthenticatorInfo{
			{AuthType: wire.AuthTypeNoAuth, Description: "no authentication"},
			{AuthType: wire.AuthTypeDirect, Description: "trust-on-declare"},
		},
		KeyInfo: store,
	}
}

func TestPing(t *testing.T) {
	h := newTestHandler()
	res, err := h.Execute(t.Context(), "", wire.OpPing, body.PingOp{})
	require.NoError(t, err)
	assert.Equal(t, body.PingResult{WireProtocolVersionMaj: 1, WireProtocolVersionMin: 0}, res)
}

func TestListProvidersPutsCoreFirst(t *testing.T) {
	h := newTestHandler()
	res, err := h.Execute(t.Context(), "", wire.OpListProviders, body.ListProvidersOp{})
	require.NoError(t, err)
	list := res.(body.ListProvidersResult)
	require.Len(t, list.Providers, 2)
	assert.Equal(t, uint8(wire.ProviderCore), list.Providers[0].ID)
}

func TestListOpcodesUnknownProvider(t *testing.T) {
	h := newTestHandler()
	_, err := h.Execute(t.Context(), "", wire.OpListOpcodes, body.ListOpcodesOp{Provider: 200})
	require.Error(t, err)
	var provErr *provider.Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, wire.StatusWrongProviderID, provErr.Status)
}

func TestListAuthenticators(t *testing.T) {
	h := newTestHandler()
	res, err := h.Execute(t.Context(), "", wire.OpListAuthenticators, body.ListAuthenticatorsOp{})
	require.NoError(t, err)
	list := res.(body.ListAuthenticatorsResult)
	assert.Len(t, list.Authenticators, 2)
}

func TestListKeysScopedToApplication(t *testing.T) {
	store := memory.New()
	h := newTestHandlerWithStore(store)

	triple := keyinfo.KeyTriple{Application: "app-a", Provider: uint8(wire.ProviderMbedCrypto), KeyName: "k1"}
	_, _, err := store.Insert(triple, keyinfo.KeyInfo{
		KeyID:      []byte("handle"),
		Attributes: body.KeyAttributes{KeyType: body.KeyTypeECCKeyPair, Bits: 256},
	})
	require.NoError(t, err)
	_, _, err = store.Insert(keyinfo.KeyTriple{Application: "app-b", Provider: uint8(wire.ProviderMbedCrypto), KeyName: "k2"}, keyinfo.KeyInfo{})
	require.NoError(t, err)

	res, err := h.Execute(t.Context(), "app-a", wire.OpListKeys, body.ListKeysOp{})
	require.NoError(t, err)
	list := res.(body.ListKeysResult)
	require.Len(t, list.Keys, 1)
	assert.Equal(t, "k1", list.Keys[0].Name)
	assert.Equal(t, body.KeyTypeECCKeyPair, list.Keys[0].Attributes.KeyType)
}

func TestListClientsAcrossApplications(t *testing.T) {
	store := memory.New()
	h := newTestHandlerWithStore(store)

	_, _, err := store.Insert(keyinfo.KeyTriple{Application: "app-a", Provider: uint8(wire.ProviderMbedCrypto), KeyName: "k1"}, keyinfo.KeyInfo{})
	require.NoError(t, err)
	_, _, err = store.Insert(keyinfo.KeyTriple{Application: "app-b", Provider: uint8(wire.ProviderMbedCrypto), KeyName: "k2"}, keyinfo.KeyInfo{})
	require.NoError(t, err)

	res, err := h.Execute(t.Context(), "", wire.OpListClients, body.ListClientsOp{})
	require.NoError(t, err)
	list := res.(body.ListClientsResult)
	assert.ElementsMatch(t, []string{"app-a", "app-b"}, list.Clients)
}
