package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	userID := uuid.New()
	storeID := uuid.New()

	token, err := manager.GenerateToken(userID, &storeID, "cashier")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %s, want %s", claims.UserID, userID)
	}
	if claims.StoreID == nil || *claims.StoreID != storeID {
		t.Errorf("StoreID = %v, want %s", claims.StoreID, storeID)
	}
	if claims.Role != "cashier" {
		t.Errorf("Role = %q, want cashier", claims.Role)
	}
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)
	token, err := manager.GenerateToken(uuid.New(), nil, "cashier")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := manager.ValidateToken(token); err == nil {
		t.Fatal("expected an expired token to be rejected")
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).GenerateToken(uuid.New(), nil, "admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := NewJWTManager("secret-b", time.Hour).ValidateToken(token); err == nil {
		t.Fatal("expected a token signed with another secret to be rejected")
	}
}
