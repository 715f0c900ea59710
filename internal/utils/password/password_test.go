package password

import "testing"

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("Expected hash to differ from password")
	}
	if !CheckPasswordHash("hunter22", hash) {
		t.Fatal("Expected password to match hash")
	}
	if CheckPasswordHash("hunter23", hash) {
		t.Fatal("Expected wrong password to be rejected")
	}
}
