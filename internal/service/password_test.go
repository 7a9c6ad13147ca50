package service_test

import (
	"strings"
	"testing"

	"github.com/msomdec/edunews/internal/service"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := service.NewPasswordHasher(4)

	digest, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if strings.Contains(digest, "password123") {
		t.Fatal("digest contains the plaintext")
	}
	if !h.Verify("password123", digest) {
		t.Fatal("expected matching password to verify")
	}
	if h.Verify("password124", digest) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestPasswordHasher_Salted(t *testing.T) {
	h := service.NewPasswordHasher(4)

	a, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct digests for the same password")
	}
}

func TestPasswordHasher_MalformedDigest(t *testing.T) {
	h := service.NewPasswordHasher(4)

	for _, digest := range []string{"", "not-a-bcrypt-hash", "$2a$04$short"} {
		if h.Verify("password123", digest) {
			t.Fatalf("malformed digest %q verified", digest)
		}
	}
}
