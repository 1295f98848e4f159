package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalidUser wraps every validation failure raised by NewUser and
// (User).Apply. Callers match it with errors.Is.
var ErrInvalidUser = errors.New("invalid user")

const (
	maxNameLen       = 100
	maxUniversityLen = 200
	maxBioLen        = 500
	minUsernameLen   = 3
	maxUsernameLen   = 20
)

// User is the aggregate root for the user domain. It is treated as an
// immutable value: mutation happens through Apply, which returns a fresh
// copy. Timestamps are unix milliseconds. ProfilePictureURL and Bio are
// optional; the empty string means absent.
type User struct {
	ID                string
	Email             string
	Username          string
	FirstName         string
	LastName          string
	University        string
	Hobbies           []string
	ProfilePictureURL string
	Bio               string
	CreatedAt         int64
	UpdatedAt         int64
}

// NewUser validates u and returns it with defensive copies of reference
// fields. Construction is all-or-nothing: any violated constraint yields an
// ErrInvalidUser error and no value. Zero timestamps default to now, with
// CreatedAt == UpdatedAt at birth.
func NewUser(u User) (User, error) {
	if u.CreatedAt == 0 && u.UpdatedAt == 0 {
		now := time.Now().UnixMilli()
		u.CreatedAt, u.UpdatedAt = now, now
	} else if u.UpdatedAt == 0 {
		u.UpdatedAt = u.CreatedAt
	}
	u.Hobbies = append([]string(nil), u.Hobbies...)
	if err := u.Validate(); err != nil {
		return User{}, err
	}
	return u, nil
}

// Validate checks every field invariant and reports the first violation,
// naming the offending field.
func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return invalid("userId", "must not be empty")
	}
	if !validEmail(u.Email) {
		return invalid("email", "is not a valid address")
	}
	if err := validateUsername(u.Username); err != nil {
		return err
	}
	if u.FirstName == "" {
		return invalid("firstName", "must not be empty")
	}
	if utf8.RuneCountInString(u.FirstName) > maxNameLen {
		return invalid("firstName", fmt.Sprintf("must be at most %d characters", maxNameLen))
	}
	if u.LastName == "" {
		return invalid("lastName", "must not be empty")
	}
	if utf8.RuneCountInString(u.LastName) > maxNameLen {
		return invalid("lastName", fmt.Sprintf("must be at most %d characters", maxNameLen))
	}
	if u.University == "" {
		return invalid("university", "must not be empty")
	}
	if utf8.RuneCountInString(u.University) > maxUniversityLen {
		return invalid("university", fmt.Sprintf("must be at most %d characters", maxUniversityLen))
	}
	if utf8.RuneCountInString(u.Bio) > maxBioLen {
		return invalid("bio", fmt.Sprintf("must be at most %d characters", maxBioLen))
	}
	if u.CreatedAt < 0 {
		return invalid("createdAt", "must not be negative")
	}
	if u.UpdatedAt < 0 {
		return invalid("updatedAt", "must not be negative")
	}
	if u.UpdatedAt < u.CreatedAt {
		return invalid("updatedAt", "must not be before createdAt")
	}
	return nil
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidUser, field, reason)
}

// validEmail applies a deliberately conservative shape check: exactly one
// "@", a non-empty local part, and a domain with a dot separating two
// non-empty labels. Full RFC 5322 parsing is the mail provider's problem.
func validEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

func validateUsername(s string) error {
	n := utf8.RuneCountInString(s)
	if n < minUsernameLen || n > maxUsernameLen {
		return invalid("username", fmt.Sprintf("must be %d-%d characters", minUsernameLen, maxUsernameLen))
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return invalid("username", "may only contain letters, digits, '_', '-' and '.'")
		}
	}
	return nil
}

// InvitationStatus is the lifecycle state of an event invitation. Accepted
// invitations are deleted rather than marked, so only the two retained
// states exist here.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation is an event invitation held in the recipient's sub-collection.
// EventID is the natural key: re-inviting the same event overwrites the
// existing record.
type Invitation struct {
	EventID   string
	From      string
	Timestamp int64
	Status    InvitationStatus
}

// FavoriteEvent marks an event a user has bookmarked.
type FavoriteEvent struct {
	EventID string
	AddedAt int64
}

// OrganizationFollow marks an organization a user follows.
type OrganizationFollow struct {
	OrganizationID string
	FollowedAt     int64
}
