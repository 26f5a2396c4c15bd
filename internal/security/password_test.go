package security

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Password1!")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "Password1!" {
		t.Fatal("Hash() returned plaintext")
	}

	if err := hasher.Verify("Password1!", hash); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestPasswordHasher_MismatchIsDistinctFromInternalError(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Password1!")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	err = hasher.Verify("WrongPassword1!", hash)
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() wrong password error = %v, want ErrPasswordMismatch", err)
	}

	err = hasher.Verify("Password1!", "not-a-bcrypt-hash")
	if err == nil {
		t.Fatal("Verify() corrupt hash succeeded")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Error("Verify() corrupt hash misreported as mismatch")
	}
}

func TestPasswordHasher_HashIsSalted(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("Password1!")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("Password1!")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if first == second {
		t.Error("Hash() produced identical hashes for the same input")
	}
	if err := hasher.Verify("Password1!", first); err != nil {
		t.Errorf("Verify() first hash error = %v", err)
	}
	if err := hasher.Verify("Password1!", second); err != nil {
		t.Errorf("Verify() second hash error = %v", err)
	}
}

func TestNewPasswordHasher_CostClamp(t *testing.T) {
	hasher := NewPasswordHasher(99)

	hash, err := hasher.Hash("Password1!")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost() error = %v", err)
	}
	if cost != DefaultCost {
		t.Errorf("cost = %d, want %d", cost, DefaultCost)
	}
}
