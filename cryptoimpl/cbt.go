package cryptoimpl

import (
	"crypto/sha256"
	"crypto/tls"
	"fmt"
)

// ChannelBindingFromTLS computes a tls-server-end-point style channel
// binding: SHA-256 of the peer's leaf certificate, the same hash the
// teacher's link.Handshake computes over the peer TLS certificate while
// validating CERTS.
func ChannelBindingFromTLS(state *tls.ConnectionState) (*[32]byte, error) {
	if state == nil || len(state.PeerCertificates) == 0 {
		return nil, fmt.Errorf("channel binding: no peer certificate")
	}
	sum := sha256.Sum256(state.PeerCertificates[0].Raw)
	return &sum, nil
}
