package utils

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals the password")
	}

	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	token, err := GenerateAccessToken("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	userID, err := ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want user-123", userID)
	}
}

func TestValidateAccessToken_RejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	if _, err := ValidateAccessToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestValidateAccessToken_RejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := GenerateAccessToken("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Setenv("JWT_SECRET", "second-secret")
	if _, err := ValidateAccessToken(token); err == nil {
		t.Error("token signed with a different secret accepted")
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	a, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(a))
	}
	if a == b {
		t.Error("two refresh tokens are identical")
	}
}
