// Package core implements the built-in provider that answers service-wide
// introspection opcodes (Ping, ListProviders, ListOpcodes,
// ListAuthenticators) without touching any key store, plus ListKeys and
// ListClients, which it answers from the key-info store. It holds shared
// references to every registered provider's metadata and opcode set, and
// to the registered authenticators' descriptions, both injected at build
// time by the server wiring in cmd/parsecd.
package core

import (
	"context"
	"fmt"

	"github.com/parsec-io/parsec-core/internal/keyinfo"
	"github.com/parsec-io/parsec-core/internal/provider"
	"github.com/parsec-io/parsec-core/internal/wire"
	"github.com/parsec-io/parsec-core/internal/wire/body"
)

// AuthenticatorInfo describes one registered authenticator for
// ListAuthenticators, in registration order.
type AuthenticatorInfo struct {
	AuthType    wire.AuthType
	Description string
}

// Handler is the Core provider. Providers must include Core's own Info
// first, per spec.md's "the Core provider itself must appear first".
//
// ListKeys and ListClients are dispatched to Core rather than to an
// individual cryptographic provider: spec.md models both as key-info
// manager queries (`list_keys(app)`, `list_clients()`), not as a PSA
// operation any one provider's Executor implements, so Core needs a
// reference to the key-info store to answer them. cmd/parsecd wires the
// same keyinfo.Manager instance here that it hands to every provider
// constructor, so the view is consistent regardless of which provider a
// key was created under.
type Handler struct {
	Providers       []provider.Info
	ProviderOpcodes map[wire.ProviderID][]wire.Opcode
	Authenticators  []AuthenticatorInfo
	KeyInfo         keyinfo.Manager
}

// Info returns Core's own introspection metadata.
func (h *Handler) Info() provider.Info {
	for _, p := range h.Providers {
		if p.ID == wire.ProviderCore {
			return p
		}
	}
	return provider.Info{ID: wire.ProviderCore, Description: "core provider"}
}

// Opcodes returns the opcode set Core itself advertises.
func (h *Handler) Opcodes() []wire.Opcode {
	return []wire.Opcode{
		wire.OpPing, wire.OpListProviders, wire.OpListOpcodes, wire.OpListAuthenticators,
		wire.OpListKeys, wire.OpListClients,
	}
}

// Execute implements provider.Executor for Core's six opcodes. It is
// never asked to execute a PSA opcode: the back-end handler routes those
// only to non-Core providers.
func (h *Handler) Execute(_ context.Context, app string, opcode wire.Opcode, op any) (any, error) {
	switch opcode {
	case wire.OpPing:
		return h.ping(op.(body.PingOp))
	case wire.OpListProviders:
		return h.listProviders(op.(body.ListProvidersOp))
	case wire.OpListOpcodes:
		return h.listOpcodes(op.(body.ListOpcodesOp))
	case wire.OpListAuthenticators:
		return h.listAuthenticators(op.(body.ListAuthenticatorsOp))
	case wire.OpListKeys:
		return h.listKeys(app, op.(body.ListKeysOp))
	case wire.OpListClients:
		return h.listClients(op.(body.ListClientsOp))
	default:
		panic(fmt.Sprintf("provider/core: got unroutable opcode %s", opcode))
	}
}

func (h *Handler) ping(body.PingOp) (body.PingResult, error) {
	return body.PingResult{
		WireProtocolVersionMaj: wire.ProtocolVersion.Major,
		WireProtocolVersionMin: wire.ProtocolVersion.Minor,
	}, nil
}

func (h *Handler) listProviders(body.ListProvidersOp) (body.ListProvidersResult, error) {
	out := make([]body.ProviderInfo, len(h.Providers))
	for i, p := range h.Providers {
		out[i] = body.ProviderInfo{
			ID:          uint8(p.ID),
			Name:        p.UUID.String(),
			Description: p.Description,
			VersionMaj:  p.VersionMaj,
			VersionMin:  p.VersionMin,
		}
	}
	return body.ListProvidersResult{Providers: out}, nil
}

func (h *Handler) listOpcodes(op body.ListOpcodesOp) (body.ListOpcodesResult, error) {
	opcodes, ok := h.ProviderOpcodes[wire.ProviderID(op.Provider)]
	if !ok {
		return body.ListOpcodesResult{}, provider.NewError(wire.StatusWrongProviderID,
			fmt.Sprintf("provider/core: unknown provider id %d", op.Provider))
	}
	out := make([]uint16, len(opcodes))
	for i, op := range opcodes {
		out[i] = uint16(op)
	}
	return body.ListOpcodesResult{Opcodes: out}, nil
}

func (h *Handler) listAuthenticators(body.ListAuthenticatorsOp) (body.ListAuthenticatorsResult, error) {
	out := make([]body.AuthenticatorInfo, len(h.Authenticators))
	for i, a := range h.Authenticators {
		out[i] = body.AuthenticatorInfo{AuthType: uint8(a.AuthType), Description: a.Description}
	}
	return body.ListAuthenticatorsResult{Authenticators: out}, nil
}

func (h *Handler) listKeys(app string, _ body.ListKeysOp) (body.ListKeysResult, error) {
	triples, err := h.KeyInfo.ListKeys(app)
	if err != nil {
		return body.ListKeysResult{}, provider.NewError(wire.StatusPsaErrorGenericError, err.Error())
	}

	out := make([]body.KeyListEntry, 0, len(triples))
	for _, triple := range triples {
		info, ok, err := h.KeyInfo.Get(triple)
		if err != nil {
			return body.ListKeysResult{}, provider.NewError(wire.StatusPsaErrorGenericError, err.Error())
		}
		if !ok {
			// Removed between ListKeys and Get; skip rather than fail the
			// whole enumeration.
			continue
		}
		out = append(out, body.KeyListEntry{
			ProviderID: triple.Provider,
			Name:       triple.KeyName,
			Attributes: info.Attributes,
		})
	}
	return body.ListKeysResult{Keys: out}, nil
}

func (h *Handler) listClients(body.ListClientsOp) (body.ListClientsResult, error) {
	clients, err := h.KeyInfo.ListClients()
	if err != nil {
		return body.ListClientsResult{}, provider.NewError(wire.StatusPsaErrorGenericError, err.Error())
	}
	return body.ListClientsResult{Clients: clients}, nil
}
