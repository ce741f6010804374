package handshake

import (
	"testing"

	"github.com/cvsouth/srd-go/cryptoimpl"
	"github.com/cvsouth/srd-go/srderr"
	"github.com/cvsouth/srd-go/wire"
)

func bothCiphers() uint32 { return wire.CipherAES256CBC | wire.CipherXChaCha20 }

func newPair(t *testing.T, initPolicy, respPolicy Policy) (*Session, *Session) {
	t.Helper()
	providers := cryptoimpl.Default()
	init, err := NewInitiator(initPolicy, providers, nil)
	if err != nil {
		t.Fatalf("NewInitiator: %v", err)
	}
	resp, err := NewResponder(respPolicy, providers, nil)
	if err != nil {
		t.Fatalf("NewResponder: %v", err)
	}
	return init, resp
}

// E1: happy path, matching policies, no CBT.
func TestHandshakeHappyPath(t *testing.T) {
	policy := Policy{KeySize: 256, Ciphers: bothCiphers()}
	init, resp := newPair(t, policy, policy)
	if err := init.SetCredentials("alice", "hunter2"); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}

	msg1, done, err := init.Step(nil)
	mustNotDone(t, done, err)
	msg2, done, err := resp.Step(msg1)
	mustNotDone(t, done, err)
	msg3, done, err := init.Step(msg2)
	mustNotDone(t, done, err)
	msg4, done, err := resp.Step(msg3)
	mustNotDone(t, done, err)
	msg5, done, err := init.Step(msg4)
	mustNotDone(t, done, err)
	msg6, done, err := resp.Step(msg5)
	if err != nil || !done || msg6 == nil {
		t.Fatalf("responder final step: msg=%v done=%v err=%v", msg6, done, err)
	}
	out, done, err := init.Step(msg6)
	if err != nil || !done || out != nil {
		t.Fatalf("initiator final step: out=%v done=%v err=%v", out, done, err)
	}

	oc, ok := init.Outcome()
	if !ok || !oc.OK || oc.Status != srderr.StatusOK {
		t.Fatalf("initiator outcome: %+v ok=%v", oc, ok)
	}
	roc, ok := resp.Outcome()
	if !ok || !roc.OK {
		t.Fatalf("responder outcome: %+v ok=%v", roc, ok)
	}
	u, p, ok := resp.Credentials()
	if !ok || u != "alice" || p != "hunter2" {
		t.Fatalf("responder credentials: %q %q ok=%v", u, p, ok)
	}
}

// E2: cipher negotiation. Initiator offers both suites, responder only
// accepts XChaCha20; the handshake must still complete.
func TestHandshakeCipherNegotiation(t *testing.T) {
	init, resp := newPair(t,
		Policy{KeySize: 256, Ciphers: bothCiphers()},
		Policy{KeySize: 256, Ciphers: wire.CipherXChaCha20},
	)
	if err := init.SetCredentials("bob", "swordfish"); err != nil {
		t.Fatal(err)
	}
	outcome := driveToCompletion(t, init, resp)
	if !outcome.OK {
		t.Fatalf("expected successful negotiation, got %+v", outcome)
	}
}

// E3: cipher mismatch. No suite in common; initiator fails NoCipher right
// after OFFER and never sends ACCEPT.
func TestHandshakeCipherMismatch(t *testing.T) {
	init, resp := newPair(t,
		Policy{KeySize: 256, Ciphers: wire.CipherAES256CBC},
		Policy{KeySize: 256, Ciphers: wire.CipherXChaCha20},
	)
	if err := init.SetCredentials("bob", "swordfish"); err != nil {
		t.Fatal(err)
	}
	msg1, _, err := init.Step(nil)
	if err != nil {
		t.Fatalf("INITIATE: %v", err)
	}
	offer, done, err := resp.Step(msg1)
	mustNotDone(t, done, err)

	accept, done, err := init.Step(offer)
	if accept != nil || !done || !srderr.Is(err, srderr.KindNoCipher) {
		t.Fatalf("expected silent NoCipher, got accept=%v done=%v err=%v", accept, done, err)
	}
}

// E4: channel-binding mismatch. Both sides require CBT but advertise
// different hashes; the responder detects this on ACCEPT and reports
// CbtMismatch via RESULT rather than dying silently.
func TestHandshakeCBTMismatch(t *testing.T) {
	var cbtA, cbtB [32]byte
	cbtA[0] = 0xAA
	cbtB[0] = 0xBB

	init, resp := newPair(t,
		Policy{KeySize: 256, Ciphers: bothCiphers(), RequireCBT: true, CBT: &cbtA},
		Policy{KeySize: 256, Ciphers: bothCiphers(), RequireCBT: true, CBT: &cbtB},
	)
	if err := init.SetCredentials("carol", "letmein"); err != nil {
		t.Fatal(err)
	}

	msg1, _, err := init.Step(nil)
	if err != nil {
		t.Fatal(err)
	}
	offer, done, err := resp.Step(msg1)
	mustNotDone(t, done, err)
	accept, done, err := init.Step(offer)
	mustNotDone(t, done, err)

	result, done, err := resp.Step(accept)
	if err != nil || !done || result == nil {
		t.Fatalf("responder should emit a RESULT, got result=%v done=%v err=%v", result, done, err)
	}
	r, decErr := wire.DecodeResult(result)
	if decErr != nil {
		t.Fatalf("decoding RESULT: %v", decErr)
	}
	if r.Status != srderr.StatusCbtMismatch {
		t.Fatalf("expected CbtMismatch status, got %d", r.Status)
	}

	out, done, err := init.Step(result)
	if err != nil || !done || out != nil {
		t.Fatalf("initiator final step: out=%v done=%v err=%v", out, done, err)
	}
	oc, ok := init.Outcome()
	if !ok || oc.OK || oc.Status != srderr.StatusCbtMismatch {
		t.Fatalf("initiator outcome: %+v ok=%v", oc, ok)
	}
}

// E5: a tampered DELEGATE message. The responder's MAC check fails and it
// reports MacFailure via RESULT (delegate stage errors are reportable,
// unlike the pre-DELEGATE MAC failures which are forced silent).
func TestHandshakeTamperedDelegate(t *testing.T) {
	policy := Policy{KeySize: 256, Ciphers: bothCiphers()}
	init, resp := newPair(t, policy, policy)
	if err := init.SetCredentials("dave", "opensesame"); err != nil {
		t.Fatal(err)
	}

	msg1, _, err := init.Step(nil)
	if err != nil {
		t.Fatal(err)
	}
	offer, done, err := resp.Step(msg1)
	mustNotDone(t, done, err)
	accept, done, err := init.Step(offer)
	mustNotDone(t, done, err)
	confirm, done, err := resp.Step(accept)
	mustNotDone(t, done, err)
	delegate, done, err := init.Step(confirm)
	mustNotDone(t, done, err)

	tampered := append([]byte(nil), delegate...)
	tampered[len(tampered)-1] ^= 0xFF

	result, done, err := resp.Step(tampered)
	if err != nil || !done || result == nil {
		t.Fatalf("responder should emit a RESULT, got result=%v done=%v err=%v", result, done, err)
	}
	r, decErr := wire.DecodeResult(result)
	if decErr != nil {
		t.Fatal(decErr)
	}
	if r.Status != srderr.StatusMacFailure {
		t.Fatalf("expected MacFailure status, got %d", r.Status)
	}
	_, _, ok := resp.Credentials()
	if ok {
		t.Fatal("responder should not have accepted credentials from a tampered DELEGATE")
	}
}

// E6: an out-of-sequence message. A responder waiting for INITIATE that
// instead receives an OFFER desyncs silently.
func TestHandshakeDesyncOnReplay(t *testing.T) {
	policy := Policy{KeySize: 256, Ciphers: bothCiphers()}
	_, decoy := newPair(t, policy, policy)
	offerBytes, done, err := decoy.Step(mustInitiate(t, policy))
	mustNotDone(t, done, err)

	_, resp := newPair(t, policy, policy)
	out, done, err := resp.Step(offerBytes)
	if out != nil || !done || !srderr.Is(err, srderr.KindDesync) {
		t.Fatalf("expected silent Desync, got out=%v done=%v err=%v", out, done, err)
	}
}

func mustInitiate(t *testing.T, policy Policy) []byte {
	t.Helper()
	providers := cryptoimpl.Default()
	init, err := NewInitiator(policy, providers, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := init.SetCredentials("x", "y"); err != nil {
		t.Fatal(err)
	}
	msg, _, err := init.Step(nil)
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func mustNotDone(t *testing.T, done bool, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done {
		t.Fatalf("unexpected terminal step")
	}
}

func driveToCompletion(t *testing.T, init, resp *Session) Outcome {
	t.Helper()
	msg1, done, err := init.Step(nil)
	mustNotDone(t, done, err)
	msg2, done, err := resp.Step(msg1)
	mustNotDone(t, done, err)
	msg3, done, err := init.Step(msg2)
	mustNotDone(t, done, err)
	msg4, done, err := resp.Step(msg3)
	mustNotDone(t, done, err)
	msg5, done, err := init.Step(msg4)
	mustNotDone(t, done, err)
	msg6, done, err := resp.Step(msg5)
	if err != nil || !done {
		t.Fatalf("responder final step: done=%v err=%v", done, err)
	}
	_, done, err = init.Step(msg6)
	if err != nil || !done {
		t.Fatalf("initiator final step: done=%v err=%v", done, err)
	}
	oc, ok := init.Outcome()
	if !ok {
		t.Fatal("initiator has no outcome")
	}
	return oc
}
