package entity

import (
	"errors"
	"strings"
	"testing"
)

func validUser() User {
	return User{
		ID:         "u-1",
		Email:      "ana@example.edu",
		Username:   "ana.petrova",
		FirstName:  "Ana",
		LastName:   "Petrova",
		University: "TU Munich",
		Hobbies:    []string{"climbing"},
	}
}

func TestNewUserDefaultsTimestamps(t *testing.T) {
	u, err := NewUser(validUser())
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	if u.CreatedAt == 0 || u.UpdatedAt == 0 {
		t.Fatalf("timestamps not defaulted: created=%d updated=%d", u.CreatedAt, u.UpdatedAt)
	}
	if u.CreatedAt != u.UpdatedAt {
		t.Fatalf("fresh user should have createdAt == updatedAt, got %d and %d", u.CreatedAt, u.UpdatedAt)
	}
}

func TestNewUserKeepsExplicitTimestamps(t *testing.T) {
	in := validUser()
	in.CreatedAt = 1000
	in.UpdatedAt = 2000
	u, err := NewUser(in)
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	if u.CreatedAt != 1000 || u.UpdatedAt != 2000 {
		t.Fatalf("timestamps changed: created=%d updated=%d", u.CreatedAt, u.UpdatedAt)
	}
}

func TestNewUserCopiesHobbies(t *testing.T) {
	in := validUser()
	u, err := NewUser(in)
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	in.Hobbies[0] = "mutated"
	if u.Hobbies[0] != "climbing" {
		t.Fatalf("hobbies slice aliased the input")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*User)
	}{
		{"empty id", func(u *User) { u.ID = "  " }},
		{"email no at", func(u *User) { u.Email = "ana.example.edu" }},
		{"email two ats", func(u *User) { u.Email = "a@b@example.edu" }},
		{"email no domain dot", func(u *User) { u.Email = "ana@example" }},
		{"email empty local", func(u *User) { u.Email = "@example.edu" }},
		{"email trailing dot", func(u *User) { u.Email = "ana@example." }},
		{"username too short", func(u *User) { u.Username = "ab" }},
		{"username too long", func(u *User) { u.Username = strings.Repeat("a", 21) }},
		{"username bad rune", func(u *User) { u.Username = "ana petrova" }},
		{"empty first name", func(u *User) { u.FirstName = "" }},
		{"first name too long", func(u *User) { u.FirstName = strings.Repeat("x", 101) }},
		{"empty last name", func(u *User) { u.LastName = "" }},
		{"last name too long", func(u *User) { u.LastName = strings.Repeat("x", 101) }},
		{"empty university", func(u *User) { u.University = "" }},
		{"university too long", func(u *User) { u.University = strings.Repeat("x", 201) }},
		{"bio too long", func(u *User) { u.Bio = strings.Repeat("x", 501) }},
		{"negative createdAt", func(u *User) { u.CreatedAt = -1; u.UpdatedAt = 1 }},
		{"updatedAt before createdAt", func(u *User) { u.CreatedAt = 10; u.UpdatedAt = 5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := validUser()
			tc.mutate(&u)
			_, err := NewUser(u)
			if !errors.Is(err, ErrInvalidUser) {
				t.Fatalf("want ErrInvalidUser, got %v", err)
			}
		})
	}
}

func TestValidateBoundaryLengths(t *testing.T) {
	u := validUser()
	u.FirstName = strings.Repeat("x", 100)
	u.LastName = strings.Repeat("x", 100)
	u.University = strings.Repeat("x", 200)
	u.Bio = strings.Repeat("x", 500)
	u.Username = strings.Repeat("a", 20)
	if _, err := NewUser(u); err != nil {
		t.Fatalf("boundary lengths should pass: %v", err)
	}
	u.Username = "a.b"
	if _, err := NewUser(u); err != nil {
		t.Fatalf("3-char username should pass: %v", err)
	}
}

func TestValidateCountsRunesNotBytes(t *testing.T) {
	u := validUser()
	u.FirstName = strings.Repeat("é", 100)
	if _, err := NewUser(u); err != nil {
		t.Fatalf("100 multibyte runes should pass: %v", err)
	}
}

func TestUsernameAllowedPunctuation(t *testing.T) {
	for _, name := range []string{"a_b-c.d", "ABC123", "user.name_20"} {
		u := validUser()
		u.Username = name
		if _, err := NewUser(u); err != nil {
			t.Fatalf("username %q should be valid: %v", name, err)
		}
	}
}

func TestOptionalFieldsMayBeEmpty(t *testing.T) {
	u := validUser()
	u.ProfilePictureURL = ""
	u.Bio = ""
	u.Hobbies = nil
	if _, err := NewUser(u); err != nil {
		t.Fatalf("optional fields empty should pass: %v", err)
	}
}
