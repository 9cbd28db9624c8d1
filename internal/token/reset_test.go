package token

import "testing"

func TestNewResetToken(t *testing.T) {
	t.Parallel()

	plaintext, hash, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken error: %v", err)
	}
	if len(plaintext) != resetTokenBytes*2 {
		t.Fatalf("plaintext length = %d, want %d hex chars", len(plaintext), resetTokenBytes*2)
	}
	if hash != HashResetToken(plaintext) {
		t.Fatal("returned hash does not match HashResetToken(plaintext)")
	}
	if hash == plaintext {
		t.Fatal("hash must differ from plaintext")
	}
}

func TestNewResetToken_Unique(t *testing.T) {
	t.Parallel()

	a, _, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken error: %v", err)
	}
	b, _, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken error: %v", err)
	}
	if a == b {
		t.Fatal("two generated tokens are identical")
	}
}

func TestHashResetToken_Deterministic(t *testing.T) {
	t.Parallel()

	if HashResetToken("abc") != HashResetToken("abc") {
		t.Fatal("hash is not deterministic")
	}
	if HashResetToken("abc") == HashResetToken("abd") {
		t.Fatal("distinct inputs hashed to the same value")
	}
}
