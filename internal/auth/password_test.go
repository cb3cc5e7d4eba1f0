package auth

import "testing"

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(4) // minimum cost keeps the test fast

	digest, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if digest == "secret1" {
		t.Fatalf("digest must not equal plaintext")
	}
	if !h.Verify("secret1", digest) {
		t.Fatalf("expected digest to verify")
	}
	if h.Verify("wrong", digest) {
		t.Fatalf("wrong password must not verify")
	}
}

func TestPasswordHasher_MalformedDigest(t *testing.T) {
	h := NewPasswordHasher(4)
	if h.Verify("secret1", "not-a-bcrypt-digest") {
		t.Fatalf("malformed digest must not verify")
	}
	if h.Verify("secret1", "") {
		t.Fatalf("empty digest must not verify")
	}
}

func TestPasswordHasher_SaltedDigests(t *testing.T) {
	h := NewPasswordHasher(4)
	a, _ := h.Hash("secret1")
	b, _ := h.Hash("secret1")
	if a == b {
		t.Fatalf("two hashes of the same password must differ (salt)")
	}
}

func TestNewPasswordHasher_CostFallback(t *testing.T) {
	if h := NewPasswordHasher(0); h.cost != DefaultHashCost {
		t.Fatalf("expected fallback to default cost, got %d", h.cost)
	}
	if h := NewPasswordHasher(99); h.cost != DefaultHashCost {
		t.Fatalf("expected fallback to default cost, got %d", h.cost)
	}
}
