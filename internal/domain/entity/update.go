package entity

// Patch describes one field of a partial update. The zero value leaves the
// field untouched; Set replaces it. Setting an optional field to its empty
// value is the way to clear it explicitly, which is distinct from not
// mentioning the field at all.
type Patch[T any] struct {
	set   bool
	value T
}

// Set returns a patch that replaces the field with v.
func Set[T any](v T) Patch[T] {
	return Patch[T]{set: true, value: v}
}

// IsSet reports whether the patch carries a replacement value.
func (p Patch[T]) IsSet() bool { return p.set }

func (p Patch[T]) apply(cur T) T {
	if p.set {
		return p.value
	}
	return cur
}

// UserUpdate bundles one patch per mutable user field. ID and CreatedAt are
// never updatable; UpdatedAt is stamped by Apply itself.
type UserUpdate struct {
	Email             Patch[string]
	Username          Patch[string]
	FirstName         Patch[string]
	LastName          Patch[string]
	University        Patch[string]
	Hobbies           Patch[[]string]
	ProfilePictureURL Patch[string]
	Bio               Patch[string]
}

// Apply returns a copy of u with the patched fields replaced and UpdatedAt
// set to now, re-validated under the same rules as construction. UpdatedAt
// is refreshed even when no patch is set, so every call marks the record as
// touched. The receiver is never modified, including its hobbies slice.
func (u User) Apply(up UserUpdate, now int64) (User, error) {
	next := u
	next.Email = up.Email.apply(u.Email)
	next.Username = up.Username.apply(u.Username)
	next.FirstName = up.FirstName.apply(u.FirstName)
	next.LastName = up.LastName.apply(u.LastName)
	next.University = up.University.apply(u.University)
	next.ProfilePictureURL = up.ProfilePictureURL.apply(u.ProfilePictureURL)
	next.Bio = up.Bio.apply(u.Bio)
	if up.Hobbies.IsSet() {
		next.Hobbies = append([]string(nil), up.Hobbies.value...)
	} else {
		next.Hobbies = append([]string(nil), u.Hobbies...)
	}
	next.UpdatedAt = now
	if err := next.Validate(); err != nil {
		return User{}, err
	}
	return next, nil
}
