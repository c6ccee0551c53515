package body

// KeyType identifies the cryptographic key family, PSA-aligned.
type KeyType uint8

const (
	KeyTypeRawData KeyType = iota
	KeyTypeRSAKeyPair
	KeyTypeRSAPublicKey
	KeyTypeECCKeyPair
	KeyTypeECCPublicKey
)

// Algorithm identifies the signature/cipher algorithm a key may be used
// under, PSA-aligned.
type Algorithm uint16

const (
	AlgNone Algorithm = iota
	AlgRSAPkcs1v15SignRaw
	AlgRSAPkcs1v15SignSHA256
	AlgRSAOaepSHA256
	AlgECDSASHA256
)

// UsageFlags is a bitset of permitted operations for a key.
type UsageFlags uint32

const (
	UsageExport UsageFlags = 1 << iota
	UsageEncrypt
	UsageDecrypt
	UsageSignHash
	UsageVerifyHash
)

// KeyAttributes is the Go-idiomatic shrink of the PSA KeyAttributes record:
// type, size, permitted algorithm and usage policy, and lifetime.
type KeyAttributes struct {
	KeyType    KeyType
	Bits       uint32
	Algorithm  Algorithm
	UsageFlags UsageFlags
	Lifetime   uint8
}

// Encode appends the attributes to w.
func (a KeyAttributes) Encode(w *Writer) {
	w.PutUint8(uint8(a.KeyType))
	w.PutUint32(a.Bits)
	w.PutUint16(uint16(a.Algorithm))
	w.PutUint32(uint32(a.UsageFlags))
	w.PutUint8(a.Lifetime)
}

// DecodeKeyAttributes reads a KeyAttributes value from r.
func DecodeKeyAttributes(r *Reader) (KeyAttributes, error) {
	var a KeyAttributes
	kt, err := r.Uint8()
	if err != nil {
		return a, err
	}
	a.KeyType = KeyType(kt)
	bits, err := r.Uint32()
	if err != nil {
		return a, err
	}
	a.Bits = bits
	alg, err := r.Uint16()
	if err != nil {
		return a, err
	}
	a.Algorithm = Algorithm(alg)
	flags, err := r.Uint32()
	if err != nil {
		return a, err
	}
	a.UsageFlags = UsageFlags(flags)
	lifetime, err := r.Uint8()
	if err != nil {
		return a, err
	}
	a.Lifetime = lifetime
	return a, nil
}
