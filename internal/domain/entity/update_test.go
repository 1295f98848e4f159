package entity

import (
	"errors"
	"testing"
)

func TestApplyUntouchedFieldsSurvive(t *testing.T) {
	u, _ := NewUser(validUser())
	next, err := u.Apply(UserUpdate{Bio: Set("hello")}, u.UpdatedAt+1)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.Bio != "hello" {
		t.Fatalf("bio not set: %q", next.Bio)
	}
	if next.Email != u.Email || next.Username != u.Username || next.FirstName != u.FirstName {
		t.Fatalf("untouched fields changed")
	}
	if next.UpdatedAt != u.UpdatedAt+1 {
		t.Fatalf("updatedAt not stamped: %d", next.UpdatedAt)
	}
}

func TestApplyClearsOptionalField(t *testing.T) {
	in := validUser()
	in.Bio = "old bio"
	in.ProfilePictureURL = "https://cdn.example.com/p.png"
	u, _ := NewUser(in)

	next, err := u.Apply(UserUpdate{Bio: Set(""), ProfilePictureURL: Set("")}, u.UpdatedAt+1)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.Bio != "" || next.ProfilePictureURL != "" {
		t.Fatalf("optional fields not cleared: bio=%q url=%q", next.Bio, next.ProfilePictureURL)
	}
}

func TestApplyEmptyUpdateStillStamps(t *testing.T) {
	u, _ := NewUser(validUser())
	next, err := u.Apply(UserUpdate{}, u.UpdatedAt+42)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if next.UpdatedAt != u.UpdatedAt+42 {
		t.Fatalf("empty update should still stamp updatedAt")
	}
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	u, _ := NewUser(validUser())
	before := u.UpdatedAt
	next, err := u.Apply(UserUpdate{Hobbies: Set([]string{"chess"})}, u.UpdatedAt+1)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if u.UpdatedAt != before || u.Hobbies[0] != "climbing" {
		t.Fatalf("receiver mutated")
	}
	next.Hobbies[0] = "mutated"
	if u.Hobbies[0] != "climbing" {
		t.Fatalf("hobbies slice shared between copies")
	}
}

func TestApplyRevalidates(t *testing.T) {
	u, _ := NewUser(validUser())
	if _, err := u.Apply(UserUpdate{Email: Set("not-an-email")}, u.UpdatedAt+1); !errors.Is(err, ErrInvalidUser) {
		t.Fatalf("want ErrInvalidUser, got %v", err)
	}
	if _, err := u.Apply(UserUpdate{FirstName: Set("")}, u.UpdatedAt+1); !errors.Is(err, ErrInvalidUser) {
		t.Fatalf("want ErrInvalidUser, got %v", err)
	}
}

func TestPatchZeroValueIsUntouched(t *testing.T) {
	var p Patch[string]
	if p.IsSet() {
		t.Fatalf("zero patch should not be set")
	}
	if Set("x").IsSet() != true {
		t.Fatalf("Set patch should be set")
	}
}
