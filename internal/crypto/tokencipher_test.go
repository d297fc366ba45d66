package crypto

import (
	"strings"
	"testing"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	tc, err := DeriveTokenCipher("test-passphrase")
	if err != nil {
		t.Fatalf("DeriveTokenCipher: %v", err)
	}

	plain := "eyJhbGciOiJIUzI1NiJ9.access-token-value"
	sealed, err := tc.Seal(plain)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed == plain {
		t.Fatal("Seal returned plaintext unchanged")
	}

	opened, err := tc.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened != plain {
		t.Errorf("Open = %q, want %q", opened, plain)
	}
}

func TestSealOpen_EmptyString(t *testing.T) {
	tc, err := DeriveTokenCipher("test-passphrase")
	if err != nil {
		t.Fatalf("DeriveTokenCipher: %v", err)
	}

	sealed, err := tc.Seal("")
	if err != nil || sealed != "" {
		t.Errorf("Seal(\"\") = (%q, %v), want (\"\", nil)", sealed, err)
	}
	opened, err := tc.Open("")
	if err != nil || opened != "" {
		t.Errorf("Open(\"\") = (%q, %v), want (\"\", nil)", opened, err)
	}
}

func TestSeal_NonceUniqueness(t *testing.T) {
	tc, err := DeriveTokenCipher("test-passphrase")
	if err != nil {
		t.Fatalf("DeriveTokenCipher: %v", err)
	}

	a, _ := tc.Seal("same-token")
	b, _ := tc.Seal("same-token")
	if a == b {
		t.Error("two Seal calls produced identical ciphertext; nonce reuse suspected")
	}
}

func TestOpen_WrongKey(t *testing.T) {
	tc1, _ := DeriveTokenCipher("passphrase-one")
	tc2, _ := DeriveTokenCipher("passphrase-two")

	sealed, err := tc1.Seal("secret")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	if _, err := tc2.Open(sealed); err != ErrDecryptionFailed {
		t.Errorf("Open with wrong key error = %v, want ErrDecryptionFailed", err)
	}
}

func TestOpen_Corrupted(t *testing.T) {
	tc, _ := DeriveTokenCipher("test-passphrase")

	if _, err := tc.Open("%%%not-base64%%%"); err != ErrCiphertextCorrupted {
		t.Errorf("Open(bad base64) error = %v, want ErrCiphertextCorrupted", err)
	}

	// Valid base64 but too short to hold a nonce.
	if _, err := tc.Open("YWJj"); err != ErrCiphertextCorrupted {
		t.Errorf("Open(short ciphertext) error = %v, want ErrCiphertextCorrupted", err)
	}

	sealed, _ := tc.Seal("secret")
	tampered := strings.Replace(sealed, sealed[10:11], "A", 1)
	if tampered == sealed {
		tampered = strings.Replace(sealed, sealed[10:11], "B", 1)
	}
	if _, err := tc.Open(tampered); err == nil {
		t.Error("Open(tampered ciphertext) = nil error, want failure")
	}
}

func TestNewTokenCipher_KeyLength(t *testing.T) {
	if _, err := NewTokenCipher([]byte("short")); err != ErrKeyLengthInvalid {
		t.Errorf("NewTokenCipher(short key) error = %v, want ErrKeyLengthInvalid", err)
	}
}

func TestDeriveTokenCipher_EmptyPassphrase(t *testing.T) {
	if _, err := DeriveTokenCipher(""); err == nil {
		t.Error("DeriveTokenCipher(\"\") = nil error, want failure")
	}
}
