package entity

// Field names of the persisted user record. Every backend stores users as
// this flat string-keyed shape.
const (
	FieldUserID            = "userId"
	FieldEmail             = "email"
	FieldUsername          = "username"
	FieldFirstName         = "firstName"
	FieldLastName          = "lastName"
	FieldUniversity        = "university"
	FieldHobbies           = "hobbies"
	FieldProfilePictureURL = "profilePictureUrl"
	FieldBio               = "bio"
	FieldCreatedAt         = "createdAt"
	FieldUpdatedAt         = "updatedAt"
)

// Document encodes u as the generic record shape persisted by any backend.
// Encoding is total and deterministic; absent optional fields are omitted.
func (u User) Document() map[string]any {
	doc := map[string]any{
		FieldUserID:     u.ID,
		FieldEmail:      u.Email,
		FieldUsername:   u.Username,
		FieldFirstName:  u.FirstName,
		FieldLastName:   u.LastName,
		FieldUniversity: u.University,
		FieldHobbies:    append([]string{}, u.Hobbies...),
		FieldCreatedAt:  u.CreatedAt,
		FieldUpdatedAt:  u.UpdatedAt,
	}
	if u.ProfilePictureURL != "" {
		doc[FieldProfilePictureURL] = u.ProfilePictureURL
	}
	if u.Bio != "" {
		doc[FieldBio] = u.Bio
	}
	return doc
}

// UserFromDocument decodes a stored record back into a validated User. It
// never fails loudly: a missing or mis-shaped required field, or a record
// that no longer satisfies the entity invariants, yields ok=false so that
// corrupt and legacy rows degrade to "not found" instead of crashing the
// caller. Timestamps accept any integer representation the store hands
// back; hobbies keeps only string elements, preserving their order.
func UserFromDocument(doc map[string]any) (User, bool) {
	if doc == nil {
		return User{}, false
	}
	u := User{}
	var ok bool
	if u.ID, ok = docString(doc, FieldUserID); !ok {
		return User{}, false
	}
	if u.Email, ok = docString(doc, FieldEmail); !ok {
		return User{}, false
	}
	if u.Username, ok = docString(doc, FieldUsername); !ok {
		return User{}, false
	}
	if u.FirstName, ok = docString(doc, FieldFirstName); !ok {
		return User{}, false
	}
	if u.LastName, ok = docString(doc, FieldLastName); !ok {
		return User{}, false
	}
	if u.University, ok = docString(doc, FieldUniversity); !ok {
		return User{}, false
	}
	if u.UpdatedAt, ok = docInt64(doc, FieldUpdatedAt); !ok {
		return User{}, false
	}
	// createdAt tolerates absence in legacy records; zero keeps the
	// updatedAt >= createdAt invariant satisfiable.
	u.CreatedAt, _ = docInt64(doc, FieldCreatedAt)
	u.Hobbies = docStringList(doc, FieldHobbies)
	u.ProfilePictureURL, _ = docString(doc, FieldProfilePictureURL)
	u.Bio, _ = docString(doc, FieldBio)

	if err := u.Validate(); err != nil {
		return User{}, false
	}
	return u, true
}

// Document encodes the invitation record for its sub-collection.
func (i Invitation) Document() map[string]any {
	return map[string]any{
		"eventId":   i.EventID,
		"from":      i.From,
		"timestamp": i.Timestamp,
		"status":    string(i.Status),
	}
}

// InvitationFromDocument decodes an invitation record defensively. Status
// defaults to pending to tolerate records written before status existed.
func InvitationFromDocument(doc map[string]any) (Invitation, bool) {
	if doc == nil {
		return Invitation{}, false
	}
	inv := Invitation{Status: InvitationPending}
	var ok bool
	if inv.EventID, ok = docString(doc, "eventId"); !ok {
		return Invitation{}, false
	}
	inv.From, _ = docString(doc, "from")
	inv.Timestamp, _ = docInt64(doc, "timestamp")
	if s, ok := docString(doc, "status"); ok && s == string(InvitationDeclined) {
		inv.Status = InvitationDeclined
	}
	return inv, true
}

func docString(doc map[string]any, key string) (string, bool) {
	v, ok := doc[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// docInt64 normalizes the integer shapes a schemaless store may hand back
// (including float64 from JSON decoding) to int64.
func docInt64(doc map[string]any, key string) (int64, bool) {
	switch v := doc[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// docStringList keeps only the string elements of a stored list, silently
// dropping malformed entries rather than failing the whole record.
func docStringList(doc map[string]any, key string) []string {
	switch v := doc[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
