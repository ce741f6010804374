package wire

import "testing"

// FuzzDecode exercises the generic dispatcher against arbitrary bytes the
// way cell.FuzzReadCell exercises the Tor cell reader: the codec must
// never panic, only return (Message, error).
func FuzzDecode(f *testing.F) {
	f.Add(Initiate{CipherMask: 1, KeySize: 256}.Encode())
	f.Add(Offer{CipherMask: 1, KeySize: 256, Generator: [2]byte{0, 2},
		Prime: make([]byte, 32), PublicKey: make([]byte, 32)}.Encode())
	f.Add(Accept{Cipher: 1, KeySize: 256, PublicKey: make([]byte, 32)}.Encode())
	f.Add(Confirm{}.Encode())
	f.Add(Delegate{EncryptedBlob: make([]byte, 16)}.Encode())
	f.Add(Result{}.Encode())
	f.Add([]byte{})
	f.Add([]byte{0x00})

	f.Fuzz(func(t *testing.T, buf []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Decode panicked on input %x: %v", buf, r)
			}
		}()
		_, _ = Decode(buf)
	})
}
