// Package primitives declares the narrow function-typed interfaces the
// SRD core treats as externally supplied (spec §6): DH group arithmetic,
// HMAC-SHA256, the AES/ChaCha block and stream ciphers, a CSPRNG, and a
// transport channel-binding hash. The handshake engine (package
// handshake) calls cryptographic operations only through these types;
// package cryptoimpl supplies the default Providers, which the engine
// uses to fill any nil field.
package primitives

// DHGroupFunc selects the (generator, prime) pair for a DH group of the
// given key size in bits. The responder calls this once per handshake to
// populate OFFER.
type DHGroupFunc func(keySizeBits uint16) (generator [2]byte, prime []byte, err error)

// DHGenerateFunc generates a fresh DH keypair for the group described by
// generator and prime. prime is the modulus, generator the group
// generator (2-byte field, per spec §4.1).
type DHGenerateFunc func(generator [2]byte, prime []byte) (private, public []byte, err error)

// DHAgreeFunc computes the shared secret shared = remotePublic^private
// mod prime.
type DHAgreeFunc func(private, remotePublic, prime []byte) (shared []byte, err error)

// HMACFunc computes HMAC-SHA256(key, msg), the full 32-byte output.
type HMACFunc func(key, msg []byte) [32]byte

// AESCBCFunc encrypts or decrypts under AES-256-CBC with no padding; data
// must already be a multiple of the AES block size.
type AESCBCFunc func(key [32]byte, iv [16]byte, data []byte) ([]byte, error)

// XChaCha20Func XORs data with the XChaCha20 keystream. The same
// operation serves both encryption and decryption.
type XChaCha20Func func(key [32]byte, nonce [24]byte, data []byte) ([]byte, error)

// RandomBytesFunc returns n cryptographically random bytes.
type RandomBytesFunc func(n int) ([]byte, error)

// ChannelBindingFunc returns the transport-supplied channel-binding hash,
// or nil if the transport offers none (e.g. no TLS channel, or the
// caller chose not to bind).
type ChannelBindingFunc func() (*[32]byte, error)

// Providers bundles every injected primitive a Session needs. A nil
// field is filled from cryptoimpl.Default() the way the teacher's
// link.Handshake defaults a nil *slog.Logger to slog.Default().
type Providers struct {
	DHGroup        DHGroupFunc
	DHGenerate     DHGenerateFunc
	DHAgree        DHAgreeFunc
	HMACSHA256     HMACFunc
	AESCBCEncrypt  AESCBCFunc
	AESCBCDecrypt  AESCBCFunc
	XChaCha20      XChaCha20Func
	RandomBytes    RandomBytesFunc
	ChannelBinding ChannelBindingFunc
}
