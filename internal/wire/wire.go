// Package wire implements the framed binary protocol spoken on the
// service's IPC socket: fixed-layout request/response headers, little-endian
// multi-byte integers, and opaque body/auth payloads whose interpretation is
// deferred to a converter (see internal/converter).
package wire

import "fmt"

// Magic is the constant that must open every header on the wire.
const Magic uint32 = 0x5EC0A710

// RequestHdrSize and ResponseHdrSize are the values carried in each header's
// hdr_size field: the number of header bytes that follow the 6-byte
// magic+hdr_size prefix. A request header is therefore 6+22=28 bytes on the
// wire; a response header is 6+20=26 bytes.
const (
	RequestHdrSize  uint16 = 22
	ResponseHdrSize uint16 = 20
)

// ProviderID identifies a cryptographic backend.
type ProviderID uint8

// Registered provider IDs. Core is always first and always present.
const (
	ProviderCore           ProviderID = 0
	ProviderMbedCrypto     ProviderID = 1
	ProviderPkcs11         ProviderID = 2
	ProviderTPM            ProviderID = 3
	ProviderTrustedService ProviderID = 4
)

func (p ProviderID) String() string {
	switch p {
	case ProviderCore:
		return "Core"
	case ProviderMbedCrypto:
		return "MbedCrypto"
	case ProviderPkcs11:
		return "Pkcs11"
	case ProviderTPM:
		return "Tpm"
	case ProviderTrustedService:
		return "TrustedService"
	default:
		return fmt.Sprintf("ProviderID(%d)", uint8(p))
	}
}

// BodyType identifies the wire encoding of a request/response body.
type BodyType uint8

// BodyTypeProtobuf is the sole initial body encoding.
const BodyTypeProtobuf BodyType = 0

func (b BodyType) String() string {
	switch b {
	case BodyTypeProtobuf:
		return "Protobuf"
	default:
		return fmt.Sprintf("BodyType(%d)", uint8(b))
	}
}

// AuthType identifies the authentication mechanism used for a request.
type AuthType uint8

const (
	AuthTypeNoAuth              AuthType = 0
	AuthTypeDirect              AuthType = 1
	AuthTypeUnixPeerCredentials AuthType = 2
	AuthTypeJWTBearer           AuthType = 3
	AuthTypeKerberos            AuthType = 4
)

func (a AuthType) String() string {
	switch a {
	case AuthTypeNoAuth:
		return "NoAuth"
	case AuthTypeDirect:
		return "Direct"
	case AuthTypeUnixPeerCredentials:
		return "UnixPeerCredentials"
	case AuthTypeJWTBearer:
		return "JWTBearer"
	case AuthTypeKerberos:
		return "Kerberos"
	default:
		return fmt.Sprintf("AuthType(%d)", uint8(a))
	}
}

// Opcode identifies the operation carried by a request/response body.
type Opcode uint16

const (
	OpPing                 Opcode = 0
	OpListProviders        Opcode = 1
	OpListOpcodes          Opcode = 2
	OpListAuthenticators   Opcode = 3
	OpListKeys             Opcode = 4
	OpListClients          Opcode = 5
	OpPsaGenerateKey       Opcode = 6
	OpPsaImportKey         Opcode = 7
	OpPsaExportPublicKey   Opcode = 8
	OpPsaDestroyKey        Opcode = 9
	OpPsaSignHash          Opcode = 10
	OpPsaVerifyHash        Opcode = 11
	OpPsaAsymmetricEncrypt Opcode = 12
	OpPsaAsymmetricDecrypt Opcode = 13
)

var opcodeNames = map[Opcode]string{
	OpPing:                 "Ping",
	OpListProviders:        "ListProviders",
	OpListOpcodes:          "ListOpcodes",
	OpListAuthenticators:   "ListAuthenticators",
	OpListKeys:             "ListKeys",
	OpListClients:          "ListClients",
	OpPsaGenerateKey:       "PsaGenerateKey",
	OpPsaImportKey:         "PsaImportKey",
	OpPsaExportPublicKey:   "PsaExportPublicKey",
	OpPsaDestroyKey:        "PsaDestroyKey",
	OpPsaSignHash:          "PsaSignHash",
	OpPsaVerifyHash:        "PsaVerifyHash",
	OpPsaAsymmetricEncrypt: "PsaAsymmetricEncrypt",
	OpPsaAsymmetricDecrypt: "PsaAsymmetricDecrypt",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", uint16(o))
}

// RequiresIdentity reports whether o is dispatched with a non-empty
// ApplicationName. Introspection opcodes are served without an identity.
func (o Opcode) RequiresIdentity() bool {
	switch o {
	case OpPing, OpListProviders, OpListOpcodes, OpListAuthenticators:
		return false
	default:
		return true
	}
}

// ResponseStatus is the single flat status enumeration returned on the wire.
type ResponseStatus uint16

const (
	StatusSuccess ResponseStatus = iota
	StatusWrongProviderID
	StatusContentTypeNotSupported
	StatusAcceptTypeNotSupported
	StatusVersionTooBig
	StatusProviderNotRegistered
	StatusDeserializingBodyFailed
	StatusSerializingBodyFailed
	StatusAuthenticatorNotRegistered
	StatusAuthenticationError
	StatusBodyLenTooLarge
	StatusKeyDoesNotExist
	StatusKeyAlreadyExists
	StatusInvalidHeader
	StatusOpcodeDoesNotExist
	StatusConnectionError
	StatusPsaErrorGenericError
	StatusPsaErrorNotSupported
	StatusPsaErrorInvalidArgument
	StatusPsaErrorBufferTooSmall
	StatusPsaErrorInsufficientMemory
	StatusPsaErrorCommunicationFailure
)

var statusNames = map[ResponseStatus]string{
	StatusSuccess:                      "Success",
	StatusWrongProviderID:              "WrongProviderID",
	StatusContentTypeNotSupported:      "ContentTypeNotSupported",
	StatusAcceptTypeNotSupported:       "AcceptTypeNotSupported",
	StatusVersionTooBig:                "VersionTooBig",
	StatusProviderNotRegistered:        "ProviderNotRegistered",
	StatusDeserializingBodyFailed:      "DeserializingBodyFailed",
	StatusSerializingBodyFailed:        "SerializingBodyFailed",
	StatusAuthenticatorNotRegistered:   "AuthenticatorNotRegistered",
	StatusAuthenticationError:          "AuthenticationError",
	StatusBodyLenTooLarge:              "BodyLenTooLarge",
	StatusKeyDoesNotExist:              "KeyDoesNotExist",
	StatusKeyAlreadyExists:             "KeyAlreadyExists",
	StatusInvalidHeader:                "InvalidHeader",
	StatusOpcodeDoesNotExist:           "OpcodeDoesNotExist",
	StatusConnectionError:              "ConnectionError",
	StatusPsaErrorGenericError:         "PsaErrorGenericError",
	StatusPsaErrorNotSupported:         "PsaErrorNotSupported",
	StatusPsaErrorInvalidArgument:      "PsaErrorInvalidArgument",
	StatusPsaErrorBufferTooSmall:       "PsaErrorBufferTooSmall",
	StatusPsaErrorInsufficientMemory:   "PsaErrorInsufficientMemory",
	StatusPsaErrorCommunicationFailure: "PsaErrorCommunicationFailure",
}

func (s ResponseStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ResponseStatus(%d)", uint16(s))
}

// Version is a (major, minor) wire protocol version pair.
type Version struct {
	Major uint8
	Minor uint8
}

// ProtocolVersion is the version this implementation speaks, returned by Ping.
var ProtocolVersion = Version{Major: 1, Minor: 0}

// ExceedsMax implements the version check from spec.md: a header strictly
// newer than max is rejected. Kept literal per spec.md's "Open Questions":
// a minor bump is rejected even when the major versions match, regardless of
// whether the new minor is backwards compatible.
func (v Version) ExceedsMax(max Version) bool {
	if v.Major > max.Major {
		return true
	}
	return v.Major == max.Major && v.Minor > max.Minor
}
