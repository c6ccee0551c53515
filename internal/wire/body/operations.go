package body

// Operation is implemented by every request payload type; Encode appends
// the operation's fields (but not its opcode tag, which lives in the wire
// header) to w.
type Operation interface {
	Encode(w *Writer)
}

// PingOp carries no fields; its opcode alone identifies the request.
type PingOp struct{}

func (PingOp) Encode(*Writer) {}

// DecodePingOp reads a PingOp (a no-op, kept for symmetry with the other
// decode functions the converter dispatches through).
func DecodePingOp(r *Reader) (PingOp, error) { return PingOp{}, nil }

// ListProvidersOp carries no fields.
type ListProvidersOp struct{}

func (ListProvidersOp) Encode(*Writer) {}

func DecodeListProvidersOp(r *Reader) (ListProvidersOp, error) { return ListProvidersOp{}, nil }

// ListOpcodesOp asks for the opcode set supported by a single provider.
type ListOpcodesOp struct {
	Provider uint8
}

func (o ListOpcodesOp) Encode(w *Writer) { w.PutUint8(o.Provider) }

func DecodeListOpcodesOp(r *Reader) (ListOpcodesOp, error) {
	p, err := r.Uint8()
	return ListOpcodesOp{Provider: p}, err
}

// ListAuthenticatorsOp carries no fields.
type ListAuthenticatorsOp struct{}

func (ListAuthenticatorsOp) Encode(*Writer) {}

func DecodeListAuthenticatorsOp(r *Reader) (ListAuthenticatorsOp, error) {
	return ListAuthenticatorsOp{}, nil
}

// ListKeysOp carries no fields: the caller's ApplicationName (from
// authentication) implicitly scopes the result.
type ListKeysOp struct{}

func (ListKeysOp) Encode(*Writer) {}

func DecodeListKeysOp(r *Reader) (ListKeysOp, error) { return ListKeysOp{}, nil }

// ListClientsOp carries no fields; service-wide, not scoped to a caller.
type ListClientsOp struct{}

func (ListClientsOp) Encode(*Writer) {}

func DecodeListClientsOp(r *Reader) (ListClientsOp, error) { return ListClientsOp{}, nil }

// PsaGenerateKeyOp asks a provider to create a new key under KeyName with
// the given attributes.
type PsaGenerateKeyOp struct {
	KeyName    string
	Attributes KeyAttributes
}

func (o PsaGenerateKeyOp) Encode(w *Writer) {
	w.PutString(o.KeyName)
	o.Attributes.Encode(w)
}

func DecodePsaGenerateKeyOp(r *Reader) (PsaGenerateKeyOp, error) {
	name, err := r.String()
	if err != nil {
		return PsaGenerateKeyOp{}, err
	}
	attrs, err := DecodeKeyAttributes(r)
	if err != nil {
		return PsaGenerateKeyOp{}, err
	}
	return PsaGenerateKeyOp{KeyName: name, Attributes: attrs}, nil
}

// PsaImportKeyOp asks a provider to import externally-supplied key
// material under KeyName.
type PsaImportKeyOp struct {
	KeyName    string
	Attributes KeyAttributes
	Data       []byte
}

func (o PsaImportKeyOp) Encode(w *Writer) {
	w.PutString(o.KeyName)
	o.Attributes.Encode(w)
	w.PutBytes(o.Data)
}

func DecodePsaImportKeyOp(r *Reader) (PsaImportKeyOp, error) {
	name, err := r.String()
	if err != nil {
		return PsaImportKeyOp{}, err
	}
	attrs, err := DecodeKeyAttributes(r)
	if err != nil {
		return PsaImportKeyOp{}, err
	}
	data, err := r.Bytes()
	if err != nil {
		return PsaImportKeyOp{}, err
	}
	return PsaImportKeyOp{KeyName: name, Attributes: attrs, Data: data}, nil
}

// PsaExportPublicKeyOp asks a provider for the DER-encoded public half of
// an asymmetric key.
type PsaExportPublicKeyOp struct {
	KeyName string
}

func (o PsaExportPublicKeyOp) Encode(w *Writer) { w.PutString(o.KeyName) }

func DecodePsaExportPublicKeyOp(r *Reader) (PsaExportPublicKeyOp, error) {
	name, err := r.String()
	return PsaExportPublicKeyOp{KeyName: name}, err
}

// PsaDestroyKeyOp asks a provider to permanently remove a key.
type PsaDestroyKeyOp struct {
	KeyName string
}

func (o PsaDestroyKeyOp) Encode(w *Writer) { w.PutString(o.KeyName) }

func DecodePsaDestroyKeyOp(r *Reader) (PsaDestroyKeyOp, error) {
	name, err := r.String()
	return PsaDestroyKeyOp{KeyName: name}, err
}

// PsaSignHashOp asks a provider to sign a pre-hashed digest.
type PsaSignHashOp struct {
	KeyName string
	Alg     Algorithm
	Hash    []byte
}

func (o PsaSignHashOp) Encode(w *Writer) {
	w.PutString(o.KeyName)
	w.PutUint16(uint16(o.Alg))
	w.PutBytes(o.Hash)
}

func DecodePsaSignHashOp(r *Reader) (PsaSignHashOp, error) {
	name, err := r.String()
	if err != nil {
		return PsaSignHashOp{}, err
	}
	alg, err := r.Uint16()
	if err != nil {
		return PsaSignHashOp{}, err
	}
	hash, err := r.Bytes()
	if err != nil {
		return PsaSignHashOp{}, err
	}
	return PsaSignHashOp{KeyName: name, Alg: Algorithm(alg), Hash: hash}, nil
}

// PsaVerifyHashOp asks a provider to verify a signature over a pre-hashed
// digest.
type PsaVerifyHashOp struct {
	KeyName   string
	Alg       Algorithm
	Hash      []byte
	Signature []byte
}

func (o PsaVerifyHashOp) Encode(w *Writer) {
	w.PutString(o.KeyName)
	w.PutUint16(uint16(o.Alg))
	w.PutBytes(o.Hash)
	w.PutBytes(o.Signature)
}

func DecodePsaVerifyHashOp(r *Reader) (PsaVerifyHashOp, error) {
	name, err := r.String()
	if err != nil {
		return PsaVerifyHashOp{}, err
	}
	alg, err := r.Uint16()
	if err != nil {
		return PsaVerifyHashOp{}, err
	}
	hash, err := r.Bytes()
	if err != nil {
		return PsaVerifyHashOp{}, err
	}
	sig, err := r.Bytes()
	if err != nil {
		return PsaVerifyHashOp{}, err
	}
	return PsaVerifyHashOp{KeyName: name, Alg: Algorithm(alg), Hash: hash, Signature: sig}, nil
}

// PsaAsymmetricEncryptOp asks a provider to encrypt plaintext under a
// public key.
type PsaAsymmetricEncryptOp struct {
	KeyName   string
	Alg       Algorithm
	Plaintext []byte
	Salt      []byte
}

func (o PsaAsymmetricEncryptOp) Encode(w *Writer) {
	w.PutString(o.KeyName)
	w.PutUint16(uint16(o.Alg))
	w.PutBytes(o.Plaintext)
	w.PutBytes(o.Salt)
}

func DecodePsaAsymmetricEncryptOp(r *Reader) (PsaAsymmetricEncryptOp, error) {
	name, err := r.String()
	if err != nil {
		return PsaAsymmetricEncryptOp{}, err
	}
	alg, err := r.Uint16()
	if err != nil {
		return PsaAsymmetricEncryptOp{}, err
	}
	pt, err := r.Bytes()
	if err != nil {
		return PsaAsymmetricEncryptOp{}, err
	}
	salt, err := r.Bytes()
	if err != nil {
		return PsaAsymmetricEncryptOp{}, err
	}
	return PsaAsymmetricEncryptOp{KeyName: name, Alg: Algorithm(alg), Plaintext: pt, Salt: salt}, nil
}

// PsaAsymmetricDecryptOp asks a provider to decrypt ciphertext under a
// private key.
type PsaAsymmetricDecryptOp struct {
	KeyName    string
	Alg        Algorithm
	Ciphertext []byte
	Salt       []byte
}

func (o PsaAsymmetricDecryptOp) Encode(w *Writer) {
	w.PutString(o.KeyName)
	w.PutUint16(uint16(o.Alg))
	w.PutBytes(o.Ciphertext)
	w.PutBytes(o.Salt)
}

func DecodePsaAsymmetricDecryptOp(r *Reader) (PsaAsymmetricDecryptOp, error) {
	name, err := r.String()
	if err != nil {
		return PsaAsymmetricDecryptOp{}, err
	}
	alg, err := r.Uint16()
	if err != nil {
		return PsaAsymmetricDecryptOp{}, err
	}
	ct, err := r.Bytes()
	if err != nil {
		return PsaAsymmetricDecryptOp{}, err
	}
	salt, err := r.Bytes()
	if err != nil {
		return PsaAsymmetricDecryptOp{}, err
	}
	return PsaAsymmetricDecryptOp{KeyName: name, Alg: Algorithm(alg), Ciphertext: ct, Salt: salt}, nil
}
