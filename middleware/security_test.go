package middleware

import (
	"strings"
	"testing"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"  padded  ", "padded"},
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"Tom & Jerry", "Tom &amp; Jerry"},
		{"it's", "it&#x27;s"},
	}

	for _, tt := range tests {
		if got := SanitizeInput(tt.in); got != tt.want {
			t.Errorf("SanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "a.b+c@sub.domain.org"}
	invalid := []string{"", "plain", "@example.com", "user@", "user@nodot", "user@.com", "user@domain.", "two words@example.com"}

	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	if ok, problems := ValidatePasswordStrength("Str0ngEnough"); !ok {
		t.Errorf("strong password rejected: %v", problems)
	}

	weak := map[string]string{
		"Sh0rt":                   "at least 8 characters",
		"alllowercase1":           "uppercase",
		"ALLUPPERCASE1":           "lowercase",
		"NoDigitsHere":            "digit",
		strings.Repeat("Aa1", 50): "less than 128",
	}

	for password, wantFragment := range weak {
		ok, problems := ValidatePasswordStrength(password)
		if ok {
			t.Errorf("weak password %q accepted", password)
			continue
		}
		found := false
		for _, p := range problems {
			if strings.Contains(p, wantFragment) {
				found = true
			}
		}
		if !found {
			t.Errorf("problems for %q = %v, want one mentioning %q", password, problems, wantFragment)
		}
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 64 { // hex doubles the byte length
		t.Errorf("token length = %d, want 64", len(a))
	}
	if a == b {
		t.Error("two tokens should not collide")
	}
}
