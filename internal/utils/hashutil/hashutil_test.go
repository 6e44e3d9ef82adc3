package hashutil

import "testing"

func TestSha3256Hash(t *testing.T) {
	// NIST test vector for the empty message
	want := "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"
	if got := Sha3256Hash(nil); got != want {
		t.Errorf("Sha3256Hash(nil) = %s, want %s", got, want)
	}
}

func TestBlake3Hash(t *testing.T) {
	want := "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	if got := Blake3Hash(nil); got != want {
		t.Errorf("Blake3Hash(nil) = %s, want %s", got, want)
	}

	if Blake3Hash([]byte("203.0.113.7")) == Blake3Hash([]byte("203.0.113.8")) {
		t.Error("distinct inputs hashed to the same value")
	}
}
