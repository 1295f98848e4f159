package elastic

import (
	"context"
	"time"

	"github.com/campusmeet/campusmeet-api/internal/domain/entity"
	"github.com/campusmeet/campusmeet-api/internal/domain/repository"
)

func (r *UserRepository) JoinEvent(ctx context.Context, userID, eventID string) error {
	if err := r.AddEventToUser(ctx, userID, eventID); err != nil {
		return err
	}
	// a user who joins directly no longer needs a dangling pending invite
	doc, err := r.getDoc(ctx, r.idx.Invitations, subKey(userID, eventID))
	if err != nil || doc == nil {
		return err
	}
	if inv, ok := entity.InvitationFromDocument(doc); ok && inv.Status == entity.InvitationPending {
		return r.deleteDoc(ctx, r.idx.Invitations, subKey(userID, eventID))
	}
	return nil
}

func (r *UserRepository) LeaveEvent(ctx context.Context, userID, eventID string) error {
	return r.deleteDoc(ctx, r.idx.JoinedEvents, subKey(userID, eventID))
}

func (r *UserRepository) AddEventToUser(ctx context.Context, userID, eventID string) error {
	return r.indexDoc(ctx, r.idx.JoinedEvents, subKey(userID, eventID), map[string]any{
		"userId":  userID,
		"eventId": eventID,
	})
}

func (r *UserRepository) GetJoinedEvents(ctx context.Context, userID string) ([]string, error) {
	docs, err := r.searchDocs(ctx, r.idx.JoinedEvents, map[string]any{
		"size":  listCap,
		"sort":  []map[string]any{{keyword("eventId"): map[string]any{"order": "asc"}}},
		"query": termQuery("userId", userID),
	})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		if id, ok := doc["eventId"].(string); ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *UserRepository) SendInvitation(ctx context.Context, eventID, fromUserID, toUserID string) error {
	owner, err := r.events.GetEventOwner(ctx, eventID)
	if err != nil {
		return err
	}
	if owner == "" || owner != fromUserID {
		return repository.ErrNotEventOwner
	}
	return r.AddInvitationToUser(ctx, toUserID, entity.Invitation{
		EventID:   eventID,
		From:      fromUserID,
		Timestamp: time.Now().UnixMilli(),
		Status:    entity.InvitationPending,
	})
}

func (r *UserRepository) AddInvitationToUser(ctx context.Context, userID string, inv entity.Invitation) error {
	if inv.Status == "" {
		inv.Status = entity.InvitationPending
	}
	doc := inv.Document()
	doc["userId"] = userID
	return r.indexDoc(ctx, r.idx.Invitations, subKey(userID, inv.EventID), doc)
}

func (r *UserRepository) GetInvitations(ctx context.Context, userID string) ([]entity.Invitation, error) {
	docs, err := r.searchDocs(ctx, r.idx.Invitations, map[string]any{
		"size":  listCap,
		"sort":  []map[string]any{{keyword("eventId"): map[string]any{"order": "asc"}}},
		"query": termQuery("userId", userID),
	})
	if err != nil {
		return nil, err
	}
	out := make([]entity.Invitation, 0, len(docs))
	for _, doc := range docs {
		if inv, ok := entity.InvitationFromDocument(doc); ok {
			out = append(out, inv)
		}
	}
	return out, nil
}

// AcceptInvitation runs as two independent writes; a crash in between is
// recovered by retrying, since a missing invitation is not an error.
func (r *UserRepository) AcceptInvitation(ctx context.Context, userID, eventID string) error {
	if err := r.deleteDoc(ctx, r.idx.Invitations, subKey(userID, eventID)); err != nil {
		return err
	}
	return r.AddEventToUser(ctx, userID, eventID)
}

func (r *UserRepository) DeclineInvitation(ctx context.Context, userID, eventID string) error {
	doc, err := r.getDoc(ctx, r.idx.Invitations, subKey(userID, eventID))
	if err != nil || doc == nil {
		return err
	}
	doc["status"] = string(entity.InvitationDeclined)
	return r.indexDoc(ctx, r.idx.Invitations, subKey(userID, eventID), doc)
}

func (r *UserRepository) AddFavoriteEvent(ctx context.Context, userID, eventID string) error {
	return r.indexDoc(ctx, r.idx.Favorites, subKey(userID, eventID), map[string]any{
		"userId":  userID,
		"eventId": eventID,
		"addedAt": time.Now().UnixMilli(),
	})
}

func (r *UserRepository) RemoveFavoriteEvent(ctx context.Context, userID, eventID string) error {
	return r.deleteDoc(ctx, r.idx.Favorites, subKey(userID, eventID))
}

func (r *UserRepository) GetFavoriteEvents(ctx context.Context, userID string) ([]entity.FavoriteEvent, error) {
	docs, err := r.searchDocs(ctx, r.idx.Favorites, map[string]any{
		"size":  listCap,
		"sort":  []map[string]any{{keyword("eventId"): map[string]any{"order": "asc"}}},
		"query": termQuery("userId", userID),
	})
	if err != nil {
		return nil, err
	}
	out := make([]entity.FavoriteEvent, 0, len(docs))
	for _, doc := range docs {
		id, ok := doc["eventId"].(string)
		if !ok {
			continue
		}
		fav := entity.FavoriteEvent{EventID: id}
		if at, ok := doc["addedAt"].(float64); ok {
			fav.AddedAt = int64(at)
		}
		out = append(out, fav)
	}
	return out, nil
}

func (r *UserRepository) FollowOrganization(ctx context.Context, userID, organizationID string) error {
	return r.indexDoc(ctx, r.idx.Follows, subKey(userID, organizationID), map[string]any{
		"userId":         userID,
		"organizationId": organizationID,
		"followedAt":     time.Now().UnixMilli(),
	})
}

func (r *UserRepository) UnfollowOrganization(ctx context.Context, userID, organizationID string) error {
	return r.deleteDoc(ctx, r.idx.Follows, subKey(userID, organizationID))
}

func (r *UserRepository) GetFollowedOrganizations(ctx context.Context, userID string) ([]entity.OrganizationFollow, error) {
	docs, err := r.searchDocs(ctx, r.idx.Follows, map[string]any{
		"size":  listCap,
		"sort":  []map[string]any{{keyword("organizationId"): map[string]any{"order": "asc"}}},
		"query": termQuery("userId", userID),
	})
	if err != nil {
		return nil, err
	}
	out := make([]entity.OrganizationFollow, 0, len(docs))
	for _, doc := range docs {
		id, ok := doc["organizationId"].(string)
		if !ok {
			continue
		}
		follow := entity.OrganizationFollow{OrganizationID: id}
		if at, ok := doc["followedAt"].(float64); ok {
			follow.FollowedAt = int64(at)
		}
		out = append(out, follow)
	}
	return out, nil
}
