package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/canteen/pkg/validate"
)

type registerInput struct {
	Username string  `json:"username" validate:"required,min=2,max=50"`
	Password string  `json:"password" validate:"required,min=4"`
	Role     string  `json:"role"     validate:"nullable,in=buyer,seller"`
	Price    float64 `json:"price"    validate:"gte=0"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username: "alice",
		Password: "secret1",
		Role:     "buyer",
		Price:    1.50,
	})
	if len(errs) > 0 {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if _, ok := errs["username"]; !ok {
		t.Error("expected username to be required")
	}
	if _, ok := errs["password"]; !ok {
		t.Error("expected password to be required")
	}
}

func TestMinLength(t *testing.T) {
	errs := validate.Struct(registerInput{Username: "a", Password: "secret1"})
	if _, ok := errs["username"]; !ok {
		t.Error("expected one-character username to fail min=2")
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Role string `json:"role" validate:"required,in=buyer,seller"`
	}
	if errs := validate.Struct(in{Role: "admin"}); len(errs) == 0 {
		t.Error("expected unknown role to fail")
	}
	if errs := validate.Struct(in{Role: "seller"}); len(errs) > 0 {
		t.Errorf("expected seller to pass: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	// Empty role is allowed; the service falls back to the default.
	errs := validate.Struct(registerInput{Username: "alice", Password: "secret1"})
	if _, ok := errs["role"]; ok {
		t.Errorf("expected empty nullable role to pass: %v", errs)
	}
}

func TestNumericGte(t *testing.T) {
	type in struct {
		Price float64 `json:"price" validate:"gte=0"`
	}
	if errs := validate.Struct(in{Price: -1}); len(errs) == 0 {
		t.Error("expected negative price to fail")
	}
	if errs := validate.Struct(in{Price: 0}); len(errs) > 0 {
		t.Errorf("expected zero price to pass: %v", errs)
	}
}

func TestPointerReceiver(t *testing.T) {
	errs := validate.Struct(&registerInput{Username: "alice", Password: "secret1"})
	if len(errs) > 0 {
		t.Errorf("expected pointer input to validate, got: %v", errs)
	}
}
