package cryptoimpl

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
)

// GenerateGroup implements primitives.DHGroupFunc, producing a fresh
// random prime of the requested bit width via crypto/rand.Prime with a
// fixed generator of 2. Unlike curve25519's single well-known base
// point, classic modular DH needs a concrete (g, p); generating p fresh
// per handshake avoids embedding an unverifiable hardcoded constant.
func GenerateGroup(keySizeBits uint16) (generator [2]byte, prime []byte, err error) {
	n := int(keySizeBits)
	if n != 256 && n != 512 && n != 1024 {
		return generator, nil, fmt.Errorf("dh: unsupported key size %d", keySizeBits)
	}
	p, err := rand.Prime(rand.Reader, n)
	if err != nil {
		return generator, nil, fmt.Errorf("dh: generate group prime: %w", err)
	}
	// Little-endian, matching spec §6's wire-wide byte ordering.
	binary.LittleEndian.PutUint16(generator[:], 2)
	return generator, leftPad(p.Bytes(), n/8), nil
}

// DHGenerate implements primitives.DHGenerateFunc as classic modular-
// exponentiation Diffie-Hellman: private is a random exponent in
// [2, p-2], public = generator^private mod prime.
//
// No repo in the retrieval pack carries a generic finite-field DH
// library — every DH-shaped dependency there (curve25519, x3dh, noise)
// is elliptic-curve — so this primitive is grounded on stdlib math/big
// rather than a pack dependency; see DESIGN.md.
func DHGenerate(generator [2]byte, prime []byte) (private, public []byte, err error) {
	p := new(big.Int).SetBytes(prime)
	if p.Sign() <= 0 {
		return nil, nil, fmt.Errorf("dh: prime must be positive")
	}
	g := new(big.Int).SetUint64(uint64(binary.LittleEndian.Uint16(generator[:])))

	upper := new(big.Int).Sub(p, big.NewInt(3))
	if upper.Sign() <= 0 {
		return nil, nil, fmt.Errorf("dh: prime too small")
	}
	priv, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return nil, nil, fmt.Errorf("dh: generate private exponent: %w", err)
	}
	priv.Add(priv, big.NewInt(2))

	pub := new(big.Int).Exp(g, priv, p)

	width := len(prime)
	return leftPad(priv.Bytes(), width), leftPad(pub.Bytes(), width), nil
}

// DHAgree implements primitives.DHAgreeFunc: shared = remotePublic^private
// mod prime.
func DHAgree(private, remotePublic, prime []byte) ([]byte, error) {
	p := new(big.Int).SetBytes(prime)
	if p.Sign() <= 0 {
		return nil, fmt.Errorf("dh: prime must be positive")
	}
	priv := new(big.Int).SetBytes(private)
	remote := new(big.Int).SetBytes(remotePublic)
	if remote.Sign() <= 0 || remote.Cmp(p) >= 0 {
		return nil, fmt.Errorf("dh: remote public key out of range")
	}
	shared := new(big.Int).Exp(remote, priv, p)
	return leftPad(shared.Bytes(), len(prime)), nil
}

func leftPad(b []byte, width int) []byte {
	if len(b) >= width {
		return b[len(b)-width:]
	}
	out := make([]byte, width)
	copy(out[width-len(b):], b)
	return out
}
