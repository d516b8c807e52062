package security

import (
	"strings"
	"testing"

	"github.com/tomasvidal/fieldforge-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	encoded, err := HashPassword("hunter2-but-longer", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", encoded)
	}

	ok, err := VerifyPassword("hunter2-but-longer", encoded)
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("wrong password", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword("", testPasswordConfig()); err == nil {
		t.Fatal("empty password must be rejected")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	for _, encoded := range []string{"", "plainhash", "$bcrypt$x$y$z$w", "$argon2id$v=19$m=8,t=1,p=1$!!!$AAAA"} {
		if _, err := VerifyPassword("x", encoded); err == nil {
			t.Fatalf("malformed hash %q should error", encoded)
		}
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same-password", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := HashPassword("same-password", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ by salt")
	}
}
