package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/delcom/marketplace/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var testSecret = []byte("test-secret")

func TestIssueAndExtractUserID(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)
	userID := uuid.NewString()

	token, err := codec.Issue(userID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	got, err := codec.ExtractUserID(token)
	if err != nil {
		t.Fatalf("ExtractUserID() error = %v", err)
	}
	if got != userID {
		t.Errorf("ExtractUserID() = %v, want %v", got, userID)
	}
}

func TestValidate(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	token, err := codec.Issue(uuid.NewString())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if !codec.Validate(token, false) {
		t.Error("Validate() = false for a freshly issued token")
	}
	if !codec.Validate(token, true) {
		t.Error("Validate(ignoreExpiration) = false for a freshly issued token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)
	other := NewCodec([]byte("another-secret"), time.Hour)

	token, err := codec.Issue(uuid.NewString())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if other.Validate(token, false) {
		t.Error("Validate() = true for token signed with a different secret")
	}
	if other.Validate(token, true) {
		t.Error("Validate(ignoreExpiration) = true for token signed with a different secret")
	}
	if _, err := other.ExtractUserID(token); !errors.Is(err, common.ErrInvalidToken) {
		t.Errorf("ExtractUserID() error = %v, want %v", err, common.ErrInvalidToken)
	}
}

func TestValidate_Malformed(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if codec.Validate(token, false) {
			t.Errorf("Validate(%q) = true, want false", token)
		}
		if codec.Validate(token, true) {
			t.Errorf("Validate(%q, ignoreExpiration) = true, want false", token)
		}
		if _, err := codec.ExtractUserID(token); !errors.Is(err, common.ErrInvalidToken) {
			t.Errorf("ExtractUserID(%q) error = %v, want %v", token, err, common.ErrInvalidToken)
		}
	}
}

func TestExpiredToken(t *testing.T) {
	codec := NewCodec(testSecret, -time.Minute)

	token, err := codec.Issue(uuid.NewString())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if codec.Validate(token, false) {
		t.Error("Validate() = true for an expired token")
	}
	if !codec.Validate(token, true) {
		t.Error("Validate(ignoreExpiration) = false for an expired but well-signed token")
	}
	if _, err := codec.ExtractUserID(token); !errors.Is(err, common.ErrTokenExpired) {
		t.Errorf("ExtractUserID() error = %v, want %v", err, common.ErrTokenExpired)
	}
}

func TestExtractUserID_NonUUIDSubject(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString(testSecret)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := codec.ExtractUserID(token); !errors.Is(err, common.ErrInvalidToken) {
		t.Errorf("ExtractUserID() error = %v, want %v", err, common.ErrInvalidToken)
	}
}

func TestValidate_RejectsUnsignedToken(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	raw := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: uuid.NewString(),
	})
	token, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if codec.Validate(token, true) {
		t.Error("Validate() = true for alg=none token")
	}
}
