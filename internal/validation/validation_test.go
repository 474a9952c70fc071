package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func registerRules() []Rule {
	return []Rule{
		Length("name", "name must be between 2 and 25 characters", 2, 25),
		Email("email", "enter a valid email"),
		Length("password", "password must be between 5 and 20 characters", 5, 20),
		EqualsField("cpassword", "password", "passwords do not match"),
	}
}

func TestApply_ValidForm(t *testing.T) {
	form := Form{
		"name":      "Al",
		"email":     "a@x.com",
		"password":  "abcde",
		"cpassword": "abcde",
	}
	errs := Apply(form, registerRules()...)
	assert.Empty(t, errs)
}

func TestApply_AccumulatesAllFailuresInOrder(t *testing.T) {
	form := Form{
		"name":      "A",
		"email":     "not-an-email",
		"password":  "abc",
		"cpassword": "xyz",
	}
	errs := Apply(form, registerRules()...)

	assert.Len(t, errs, 4)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "email", errs[1].Field)
	assert.Equal(t, "password", errs[2].Field)
	assert.Equal(t, "cpassword", errs[3].Field)
}

func TestRequired(t *testing.T) {
	rule := Required("password", "password cannot be blank")

	assert.Nil(t, rule(Form{"password": "x"}))

	fe := rule(Form{"password": ""})
	assert.NotNil(t, fe)
	assert.Equal(t, "password", fe.Field)
	assert.Equal(t, "password cannot be blank", fe.Message)
}

func TestLength(t *testing.T) {
	rule := Length("name", "bad length", 2, 25)

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"TooShort", "A", false},
		{"MinBoundary", "Al", true},
		{"MaxBoundary", "abcdefghijklmnopqrstuvwxy", true},
		{"TooLong", "abcdefghijklmnopqrstuvwxyz", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := rule(Form{"name": tt.value})
			if tt.valid {
				assert.Nil(t, fe)
			} else {
				assert.NotNil(t, fe)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	rule := Email("email", "enter a valid email")

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"Valid", "a@x.com", true},
		{"ValidSubdomain", "john.doe@mail.example.com", true},
		{"Empty", "", false},
		{"NoAt", "notanemail", false},
		{"NoDomain", "a@", false},
		{"DisplayName", "John <john@example.com>", false},
		{"Whitespace", "a @x.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := rule(Form{"email": tt.value})
			if tt.valid {
				assert.Nil(t, fe)
			} else {
				assert.NotNil(t, fe)
			}
		})
	}
}

func TestEqualsField(t *testing.T) {
	rule := EqualsField("cpassword", "password", "passwords do not match")

	assert.Nil(t, rule(Form{"password": "abcde", "cpassword": "abcde"}))

	fe := rule(Form{"password": "abcde", "cpassword": "abcdx"})
	assert.NotNil(t, fe)
	assert.Equal(t, "cpassword", fe.Field)
}

func TestCustom(t *testing.T) {
	rule := Custom("password", func(value string, form Form) string {
		if value == form["name"] {
			return "password must not equal name"
		}
		return ""
	})

	assert.Nil(t, rule(Form{"name": "al", "password": "abcde"}))

	fe := rule(Form{"name": "abcde", "password": "abcde"})
	assert.NotNil(t, fe)
	assert.Equal(t, "password must not equal name", fe.Message)
}
