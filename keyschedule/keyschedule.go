// Package keyschedule derives the integrity, delegation, and IV key
// material from the DH shared secret and both handshake nonces (spec
// §4.4).
//
// The exact label bytes below are an Open Question in spec.md §9(a):
// the original source does not document them, so the spec requires the
// first interoperable implementation to fix them. This implementation
// fixes them to the ASCII labels below; see DESIGN.md.
package keyschedule

import "github.com/cvsouth/srd-go/primitives"

const (
	labelIntegrity  = "integrity"
	labelDelegation = "delegation"
	labelIV         = "iv"
)

// Keys holds the three 32-byte values derived from one handshake's
// shared secret and nonces.
type Keys struct {
	Integrity  [32]byte
	Delegation [32]byte
	IV         [32]byte // first 16 bytes used for AES-CBC, first 24 for XChaCha20
}

// Derive computes integrity_key, delegation_key, and iv per spec §4.4:
// HMAC-SHA256(shared, client_nonce || server_nonce || label).
func Derive(hmacFn primitives.HMACFunc, shared []byte, clientNonce, serverNonce [32]byte) Keys {
	base := make([]byte, 0, 64)
	base = append(base, clientNonce[:]...)
	base = append(base, serverNonce[:]...)

	return Keys{
		Integrity:  hmacFn(shared, append(append([]byte(nil), base...), labelIntegrity...)),
		Delegation: hmacFn(shared, append(append([]byte(nil), base...), labelDelegation...)),
		IV:         hmacFn(shared, append(append([]byte(nil), base...), labelIV...)),
	}
}
