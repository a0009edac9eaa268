package shared

import "testing"

func TestNormalizeEmail(t *testing.T) {
	tc := []struct {
		name  string
		email string
		want  string
	}{
		{
			name:  "basic normalization",
			email: "User@Example.COM",
			want:  "user@example.com",
		},
		{
			name:  "surrounding whitespace",
			email: "  person@example.com  ",
			want:  "person@example.com",
		},
		{
			name:  "already normalized",
			email: "a@b.co",
			want:  "a@b.co",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeEmail(tt.email)
			if got != tt.want {
				t.Errorf("NormalizeEmail() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	tc := []struct {
		name  string
		email string
		want  bool
	}{
		{name: "plain address", email: "user@example.com", want: true},
		{name: "subdomain", email: "a@mail.example.co.uk", want: true},
		{name: "plus tag", email: "user+tag@example.com", want: true},
		{name: "missing at", email: "userexample.com", want: false},
		{name: "missing domain dot", email: "user@example", want: false},
		{name: "embedded space", email: "us er@example.com", want: false},
		{name: "empty", email: "", want: false},
		{name: "double at", email: "a@b@example.com", want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidEmail(tt.email); got != tt.want {
				t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()
	if a == b {
		t.Error("expected distinct ids")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string length 36, got %d", len(a))
	}
}
