package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestMintAndParse(t *testing.T) {
	pair, err := MintTokens(42, "jana@example.sk", "secret", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token in pair")
	}

	for _, token := range []string{pair.AccessToken, pair.RefreshToken} {
		claims, err := ParseClaims(token, "secret")
		if err != nil {
			t.Fatalf("ParseClaims() error = %v", err)
		}
		if claims.UserID != 42 || claims.Email != "jana@example.sk" {
			t.Errorf("claims = %+v", claims)
		}
	}
}

func TestParseClaims_Invalid(t *testing.T) {
	pair, err := MintTokens(42, "jana@example.sk", "secret", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}

	if _, err := ParseClaims(pair.AccessToken, "wrong-secret"); err == nil {
		t.Error("ParseClaims() accepted a token signed with another secret")
	}

	expired, err := MintTokens(42, "jana@example.sk", "secret", -time.Minute, -time.Minute)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}
	if _, err := ParseClaims(expired.AccessToken, "secret"); err == nil {
		t.Error("ParseClaims() accepted an expired token")
	}

	// Tokens must be HMAC-signed; an unsigned token is rejected even
	// with matching claims
	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 42})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseClaims(unsigned, "secret"); err == nil {
		t.Error("ParseClaims() accepted an unsigned token")
	}
}
