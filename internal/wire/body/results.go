package body

// Result is implemented by every response payload type.
type Result interface {
	Encode(w *Writer)
}

// PingResult reports the protocol version spoken by the service.
type PingResult struct {
	WireProtocolVersionMaj uint8
	WireProtocolVersionMin uint8
}

func (r PingResult) Encode(w *Writer) {
	w.PutUint8(r.WireProtocolVersionMaj)
	w.PutUint8(r.WireProtocolVersionMin)
}

func DecodePingResult(r *Reader) (PingResult, error) {
	maj, err := r.Uint8()
	if err != nil {
		return PingResult{}, err
	}
	min, err := r.Uint8()
	if err != nil {
		return PingResult{}, err
	}
	return PingResult{WireProtocolVersionMaj: maj, WireProtocolVersionMin: min}, nil
}

// ProviderInfo describes one registered provider.
type ProviderInfo struct {
	ID          uint8
	Name        string
	Description string
	VersionMaj  uint8
	VersionMin  uint8
}

func (p ProviderInfo) encode(w *Writer) {
	w.PutUint8(p.ID)
	w.PutString(p.Name)
	w.PutString(p.Description)
	w.PutUint8(p.VersionMaj)
	w.PutUint8(p.VersionMin)
}

func decodeProviderInfo(r *Reader) (ProviderInfo, error) {
	var p ProviderInfo
	var err error
	if p.ID, err = r.Uint8(); err != nil {
		return p, err
	}
	if p.Name, err = r.String(); err != nil {
		return p, err
	}
	if p.Description, err = r.String(); err != nil {
		return p, err
	}
	if p.VersionMaj, err = r.Uint8(); err != nil {
		return p, err
	}
	if p.VersionMin, err = r.Uint8(); err != nil {
		return p, err
	}
	return p, nil
}

// ListProvidersResult enumerates the providers registered with the service.
type ListProvidersResult struct {
	Providers []ProviderInfo
}

func (r ListProvidersResult) Encode(w *Writer) {
	w.PutUint32(uint32(len(r.Providers)))
	for _, p := range r.Providers {
		p.encode(w)
	}
}

func DecodeListProvidersResult(r *Reader) (ListProvidersResult, error) {
	n, err := r.Uint32()
	if err != nil {
		return ListProvidersResult{}, err
	}
	out := make([]ProviderInfo, n)
	for i := range out {
		p, err := decodeProviderInfo(r)
		if err != nil {
			return ListProvidersResult{}, err
		}
		out[i] = p
	}
	return ListProvidersResult{Providers: out}, nil
}

// ListOpcodesResult enumerates the opcodes a single provider supports.
type ListOpcodesResult struct {
	Opcodes []uint16
}

func (r ListOpcodesResult) Encode(w *Writer) {
	w.PutUint32(uint32(len(r.Opcodes)))
	for _, op := range r.Opcodes {
		w.PutUint16(op)
	}
}

func DecodeListOpcodesResult(r *Reader) (ListOpcodesResult, error) {
	n, err := r.Uint32()
	if err != nil {
		return ListOpcodesResult{}, err
	}
	out := make([]uint16, n)
	for i := range out {
		op, err := r.Uint16()
		if err != nil {
			return ListOpcodesResult{}, err
		}
		out[i] = op
	}
	return ListOpcodesResult{Opcodes: out}, nil
}

// AuthenticatorInfo describes one registered authenticator.
type AuthenticatorInfo struct {
	AuthType    uint8
	Description string
}

// ListAuthenticatorsResult enumerates the authenticators the service
// accepts.
type ListAuthenticatorsResult struct {
	Authenticators []AuthenticatorInfo
}

func (r ListAuthenticatorsResult) Encode(w *Writer) {
	w.PutUint32(uint32(len(r.Authenticators)))
	for _, a := range r.Authenticators {
		w.PutUint8(a.AuthType)
		w.PutString(a.Description)
	}
}

func DecodeListAuthenticatorsResult(r *Reader) (ListAuthenticatorsResult, error) {
	n, err := r.Uint32()
	if err != nil {
		return ListAuthenticatorsResult{}, err
	}
	out := make([]AuthenticatorInfo, n)
	for i := range out {
		at, err := r.Uint8()
		if err != nil {
			return ListAuthenticatorsResult{}, err
		}
		desc, err := r.String()
		if err != nil {
			return ListAuthenticatorsResult{}, err
		}
		out[i] = AuthenticatorInfo{AuthType: at, Description: desc}
	}
	return ListAuthenticatorsResult{Authenticators: out}, nil
}

// KeyListEntry describes one key owned by the requesting application.
type KeyListEntry struct {
	ProviderID uint8
	Name       string
	Attributes KeyAttributes
}

// ListKeysResult enumerates the keys owned by the caller's ApplicationName.
type ListKeysResult struct {
	Keys []KeyListEntry
}

func (r ListKeysResult) Encode(w *Writer) {
	w.PutUint32(uint32(len(r.Keys)))
	for _, k := range r.Keys {
		w.PutUint8(k.ProviderID)
		w.PutString(k.Name)
		k.Attributes.Encode(w)
	}
}

func DecodeListKeysResult(r *Reader) (ListKeysResult, error) {
	n, err := r.Uint32()
	if err != nil {
		return ListKeysResult{}, err
	}
	out := make([]KeyListEntry, n)
	for i := range out {
		pid, err := r.Uint8()
		if err != nil {
			return ListKeysResult{}, err
		}
		name, err := r.String()
		if err != nil {
			return ListKeysResult{}, err
		}
		attrs, err := DecodeKeyAttributes(r)
		if err != nil {
			return ListKeysResult{}, err
		}
		out[i] = KeyListEntry{ProviderID: pid, Name: name, Attributes: attrs}
	}
	return ListKeysResult{Keys: out}, nil
}

// ListClientsResult enumerates every ApplicationName with at least one key
// on record, service-wide.
type ListClientsResult struct {
	Clients []string
}

func (r ListClientsResult) Encode(w *Writer) { w.PutStringSlice(r.Clients) }

func DecodeListClientsResult(r *Reader) (ListClientsResult, error) {
	ss, err := r.StringSlice()
	return ListClientsResult{Clients: ss}, err
}

// PsaGenerateKeyResult carries no fields; success alone is meaningful.
type PsaGenerateKeyResult struct{}

func (PsaGenerateKeyResult) Encode(*Writer) {}

func DecodePsaGenerateKeyResult(r *Reader) (PsaGenerateKeyResult, error) {
	return PsaGenerateKeyResult{}, nil
}

// PsaImportKeyResult carries no fields.
type PsaImportKeyResult struct{}

func (PsaImportKeyResult) Encode(*Writer) {}

func DecodePsaImportKeyResult(r *Reader) (PsaImportKeyResult, error) {
	return PsaImportKeyResult{}, nil
}

// PsaExportPublicKeyResult carries the DER-encoded public key.
type PsaExportPublicKeyResult struct {
	Data []byte
}

func (r PsaExportPublicKeyResult) Encode(w *Writer) { w.PutBytes(r.Data) }

func DecodePsaExportPublicKeyResult(r *Reader) (PsaExportPublicKeyResult, error) {
	data, err := r.Bytes()
	return PsaExportPublicKeyResult{Data: data}, err
}

// PsaDestroyKeyResult carries no fields.
type PsaDestroyKeyResult struct{}

func (PsaDestroyKeyResult) Encode(*Writer) {}

func DecodePsaDestroyKeyResult(r *Reader) (PsaDestroyKeyResult, error) {
	return PsaDestroyKeyResult{}, nil
}

// PsaSignHashResult carries the produced signature.
type PsaSignHashResult struct {
	Signature []byte
}

func (r PsaSignHashResult) Encode(w *Writer) { w.PutBytes(r.Signature) }

func DecodePsaSignHashResult(r *Reader) (PsaSignHashResult, error) {
	sig, err := r.Bytes()
	return PsaSignHashResult{Signature: sig}, err
}

// PsaVerifyHashResult carries no fields; success means the signature
// verified.
type PsaVerifyHashResult struct{}

func (PsaVerifyHashResult) Encode(*Writer) {}

func DecodePsaVerifyHashResult(r *Reader) (PsaVerifyHashResult, error) {
	return PsaVerifyHashResult{}, nil
}

// PsaAsymmetricEncryptResult carries the produced ciphertext.
type PsaAsymmetricEncryptResult struct {
	Ciphertext []byte
}

func (r PsaAsymmetricEncryptResult) Encode(w *Writer) { w.PutBytes(r.Ciphertext) }

func DecodePsaAsymmetricEncryptResult(r *Reader) (PsaAsymmetricEncryptResult, error) {
	ct, err := r.Bytes()
	return PsaAsymmetricEncryptResult{Ciphertext: ct}, err
}

// PsaAsymmetricDecryptResult carries the recovered plaintext.
type PsaAsymmetricDecryptResult struct {
	Plaintext []byte
}

func (r PsaAsymmetricDecryptResult) Encode(w *Writer) { w.PutBytes(r.Plaintext) }

func DecodePsaAsymmetricDecryptResult(r *Reader) (PsaAsymmetricDecryptResult, error) {
	pt, err := r.Bytes()
	return PsaAsymmetricDecryptResult{Plaintext: pt}, err
}
