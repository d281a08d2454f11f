package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"00:00", "08:00", "12:30", "23:59"}
	invalid := []string{"24:00", "8:00", "08:60", "0800", "", "noon"}
	for _, s := range valid {
		if !IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = true, want false", s)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"))
	assert.True(t, IsValidUUID("123E4567-E89B-12D3-A456-426614174000"))
	assert.False(t, IsValidUUID("0188d0f27b8c7b4a8a2b6b8b8b8b8b8b"))
	assert.False(t, IsValidUUID(""))
}

func TestHasMaxTwoDecimals(t *testing.T) {
	assert.True(t, HasMaxTwoDecimals(decimal.RequireFromString("100")))
	assert.True(t, HasMaxTwoDecimals(decimal.RequireFromString("100.25")))
	assert.False(t, HasMaxTwoDecimals(decimal.RequireFromString("100.255")))
}

type sampleRequest struct {
	Name   string       `json:"name" validate:"required,max=10"`
	Email  string       `json:"email" validate:"omitempty,email"`
	Method string       `json:"method" validate:"required,oneof=CASH WAVE"`
	Start  string       `json:"startTime" validate:"clock"`
	Day    string       `json:"date" validate:"date"`
	Items  []sampleItem `json:"items" validate:"dive"`
	Secret string       `json:"-"`
}

type sampleItem struct {
	Qty int `json:"qty" validate:"gte=1"`
}

func TestStruct_Valid(t *testing.T) {
	req := sampleRequest{
		Name:   "ok",
		Method: "CASH",
		Start:  "08:00",
		Day:    "2025-01-31",
		Items:  []sampleItem{{Qty: 1}},
	}

	assert.Nil(t, Struct(req))
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	req := sampleRequest{
		Name:   "",
		Email:  "nope",
		Method: "CHEQUE",
		Start:  "8am",
		Day:    "31/01/2025",
		Items:  []sampleItem{{Qty: 0}},
	}

	// Act
	errs := Struct(req)

	// Assert
	require.NotEmpty(t, errs)
	m := errs.ToMap()
	assert.Equal(t, "name is required", m["name"])
	assert.Equal(t, "email must be a valid email address", m["email"])
	assert.Equal(t, "method must be one of: CASH, WAVE", m["method"])
	assert.Equal(t, "startTime must be in HH:MM format", m["startTime"])
	assert.Equal(t, "date must be a date in YYYY-MM-DD format", m["date"])
	assert.Contains(t, m, "items[0].qty")
}

func TestValidationErrors_Err(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("field", "field is required")
	err := errs.Err()
	require.Error(t, err)
	assert.Equal(t, "field: field is required", err.Error())
}
