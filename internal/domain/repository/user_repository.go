package repository

import (
	"context"
	"errors"

	"github.com/campusmeet/campusmeet-api/internal/domain/entity"
)

// ErrNotEventOwner is returned by SendInvitation when the sender does not
// own the event being shared. It is an authorization failure, not a
// validation one, and must be surfaced to the caller.
var ErrNotEventOwner = errors.New("sender is not the event owner")

// UserPage is one page of a cursor-paginated user listing. HasMore tells
// the caller whether another page exists after the last returned user.
type UserPage struct {
	Users   []entity.User
	HasMore bool
}

// EventStore resolves event ownership. It is the only view this package has
// of the event domain. An unknown event resolves to the empty owner.
type EventStore interface {
	GetEventOwner(ctx context.Context, eventID string) (string, error)
}

// UserRepository defines every operation callers may perform on users and
// their social-graph sub-collections, independent of backend.
//
// Reads that find nothing return an absent value ((nil, nil) for single
// records, an empty slice for listings); errors are reserved for backend
// failures and propagate unchanged. Records that fail to decode are
// silently excluded from listings rather than breaking them.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetAll(ctx context.Context) ([]entity.User, error)
	GetByUniversity(ctx context.Context, university string) ([]entity.User, error)
	GetByHobby(ctx context.Context, hobby string) ([]entity.User, error)

	// Save upserts the full record by user id.
	Save(ctx context.Context, u entity.User) error
	// Update patches only the named fields and stamps a fresh updatedAt,
	// for callers that hold a bag of changed fields rather than an entity.
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete removes the user record and its joined-events records. It does
	// not touch other users' invitations referencing this id.
	Delete(ctx context.Context, id string) error

	// GetPaginated pages users in ascending userId order, starting strictly
	// after cursor (empty cursor starts at the beginning).
	GetPaginated(ctx context.Context, limit int, cursor string) (UserPage, error)

	// NewID allocates a fresh unique identifier without creating a record.
	NewID() string
	// IsUsernameAvailable reports whether no existing user owns the given
	// username, compared case-insensitively.
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)

	// JoinEvent records the event as joined and drops any pending
	// invitation for it; a user who joins directly no longer needs one.
	JoinEvent(ctx context.Context, userID, eventID string) error
	LeaveEvent(ctx context.Context, userID, eventID string) error
	AddEventToUser(ctx context.Context, userID, eventID string) error
	GetJoinedEvents(ctx context.Context, userID string) ([]string, error)

	// SendInvitation invites toUserID to an event owned by fromUserID. It
	// fails with ErrNotEventOwner when ownership cannot be confirmed.
	SendInvitation(ctx context.Context, eventID, fromUserID, toUserID string) error
	AddInvitationToUser(ctx context.Context, userID string, inv entity.Invitation) error
	GetInvitations(ctx context.Context, userID string) ([]entity.Invitation, error)
	// AcceptInvitation deletes the invitation and records the event as
	// joined. It is idempotent: a missing invitation is not an error, so a
	// retry after a partial failure still lands the joined-event record.
	AcceptInvitation(ctx context.Context, userID, eventID string) error
	// DeclineInvitation retains the record with declined status.
	DeclineInvitation(ctx context.Context, userID, eventID string) error

	AddFavoriteEvent(ctx context.Context, userID, eventID string) error
	RemoveFavoriteEvent(ctx context.Context, userID, eventID string) error
	GetFavoriteEvents(ctx context.Context, userID string) ([]entity.FavoriteEvent, error)

	FollowOrganization(ctx context.Context, userID, organizationID string) error
	UnfollowOrganization(ctx context.Context, userID, organizationID string) error
	GetFollowedOrganizations(ctx context.Context, userID string) ([]entity.OrganizationFollow, error)
}

// NoOrganizationFollows gives backends that do not support organization
// follows a contract-compliant default: follows are accepted as no-ops and
// listings come back empty, so callers never hit a runtime error.
type NoOrganizationFollows struct{}

func (NoOrganizationFollows) FollowOrganization(context.Context, string, string) error {
	return nil
}

func (NoOrganizationFollows) UnfollowOrganization(context.Context, string, string) error {
	return nil
}

func (NoOrganizationFollows) GetFollowedOrganizations(context.Context, string) ([]entity.OrganizationFollow, error) {
	return nil, nil
}
