package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campusmeet/campusmeet-api/internal/domain/entity"
	"github.com/campusmeet/campusmeet-api/internal/domain/repository"
)

// UserRepository is the process-local reference implementation of the
// repository contract, used by tests and demo mode. Like the document-store
// backend it keeps users as raw string-keyed records, so decode behavior is
// identical across backends. All state is guarded by a single RWMutex;
// multi-record operations hold it for their full duration.
type UserRepository struct {
	events repository.EventStore

	mu        sync.RWMutex
	users     map[string]map[string]any
	joined    map[string]map[string]struct{}
	invites   map[string]map[string]entity.Invitation
	favorites map[string]map[string]entity.FavoriteEvent
	follows   map[string]map[string]entity.OrganizationFollow
}

func NewUserRepository(events repository.EventStore) *UserRepository {
	return &UserRepository{
		events:    events,
		users:     make(map[string]map[string]any),
		joined:    make(map[string]map[string]struct{}),
		invites:   make(map[string]map[string]entity.Invitation),
		favorites: make(map[string]map[string]entity.FavoriteEvent),
		follows:   make(map[string]map[string]entity.OrganizationFollow),
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u, ok := entity.UserFromDocument(doc)
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, doc := range r.users {
		u, ok := entity.UserFromDocument(doc)
		if ok && u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.User, 0, len(r.users))
	for _, id := range r.sortedIDs() {
		if u, ok := entity.UserFromDocument(r.users[id]); ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepository) GetByUniversity(ctx context.Context, university string) ([]entity.User, error) {
	return r.filter(func(u entity.User) bool { return u.University == university })
}

func (r *UserRepository) GetByHobby(ctx context.Context, hobby string) ([]entity.User, error) {
	return r.filter(func(u entity.User) bool {
		for _, h := range u.Hobbies {
			if h == hobby {
				return true
			}
		}
		return false
	})
}

func (r *UserRepository) filter(keep func(entity.User) bool) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.User
	for _, id := range r.sortedIDs() {
		if u, ok := entity.UserFromDocument(r.users[id]); ok && keep(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepository) Save(ctx context.Context, u entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u.Document()
	return nil
}

func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.users[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		doc[k] = v
	}
	doc[entity.FieldUpdatedAt] = time.Now().UnixMilli()
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	delete(r.joined, id)
	return nil
}

func (r *UserRepository) GetPaginated(ctx context.Context, limit int, cursor string) (repository.UserPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var fetched []entity.User
	for _, id := range r.sortedIDs() {
		if cursor != "" && id <= cursor {
			continue
		}
		if u, ok := entity.UserFromDocument(r.users[id]); ok {
			fetched = append(fetched, u)
		}
		if len(fetched) == limit+1 {
			break
		}
	}
	page := repository.UserPage{Users: fetched}
	if len(fetched) == limit+1 {
		page.Users = fetched[:limit]
		page.HasMore = true
	}
	return page, nil
}

func (r *UserRepository) NewID() string {
	return uuid.NewString()
}

func (r *UserRepository) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	want := strings.ToLower(username)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, doc := range r.users {
		if name, ok := doc[entity.FieldUsername].(string); ok && strings.ToLower(name) == want {
			return false, nil
		}
	}
	return true, nil
}

func (r *UserRepository) JoinEvent(ctx context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addJoined(userID, eventID)
	if inv, ok := r.invites[userID][eventID]; ok && inv.Status == entity.InvitationPending {
		delete(r.invites[userID], eventID)
	}
	return nil
}

func (r *UserRepository) LeaveEvent(ctx context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.joined[userID], eventID)
	return nil
}

func (r *UserRepository) AddEventToUser(ctx context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addJoined(userID, eventID)
	return nil
}

func (r *UserRepository) GetJoinedEvents(ctx context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.joined[userID]))
	for id := range r.joined[userID] {
		out = append(out, id)
	}
	sort.Strings(out)
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
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.invites[userID] == nil {
		r.invites[userID] = make(map[string]entity.Invitation)
	}
	r.invites[userID][inv.EventID] = inv
	return nil
}

func (r *UserRepository) GetInvitations(ctx context.Context, userID string) ([]entity.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Invitation, 0, len(r.invites[userID]))
	for _, inv := range r.invites[userID] {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })
	return out, nil
}

func (r *UserRepository) AcceptInvitation(ctx context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invites[userID], eventID)
	r.addJoined(userID, eventID)
	return nil
}

func (r *UserRepository) DeclineInvitation(ctx context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[userID][eventID]
	if !ok {
		return nil
	}
	inv.Status = entity.InvitationDeclined
	r.invites[userID][eventID] = inv
	return nil
}

func (r *UserRepository) AddFavoriteEvent(ctx context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.favorites[userID] == nil {
		r.favorites[userID] = make(map[string]entity.FavoriteEvent)
	}
	r.favorites[userID][eventID] = entity.FavoriteEvent{EventID: eventID, AddedAt: time.Now().UnixMilli()}
	return nil
}

func (r *UserRepository) RemoveFavoriteEvent(ctx context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.favorites[userID], eventID)
	return nil
}

func (r *UserRepository) GetFavoriteEvents(ctx context.Context, userID string) ([]entity.FavoriteEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.FavoriteEvent, 0, len(r.favorites[userID]))
	for _, f := range r.favorites[userID] {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })
	return out, nil
}

func (r *UserRepository) FollowOrganization(ctx context.Context, userID, organizationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.follows[userID] == nil {
		r.follows[userID] = make(map[string]entity.OrganizationFollow)
	}
	r.follows[userID][organizationID] = entity.OrganizationFollow{OrganizationID: organizationID, FollowedAt: time.Now().UnixMilli()}
	return nil
}

func (r *UserRepository) UnfollowOrganization(ctx context.Context, userID, organizationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.follows[userID], organizationID)
	return nil
}

func (r *UserRepository) GetFollowedOrganizations(ctx context.Context, userID string) ([]entity.OrganizationFollow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.OrganizationFollow, 0, len(r.follows[userID]))
	for _, f := range r.follows[userID] {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrganizationID < out[j].OrganizationID })
	return out, nil
}

// PutDocument stores a raw record verbatim, bypassing validation. Tests use
// it to plant corrupt or legacy-shaped rows.
func (r *UserRepository) PutDocument(id string, doc map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id] = doc
}

func (r *UserRepository) addJoined(userID, eventID string) {
	if r.joined[userID] == nil {
		r.joined[userID] = make(map[string]struct{})
	}
	r.joined[userID][eventID] = struct{}{}
}

func (r *UserRepository) sortedIDs() []string {
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var _ repository.UserRepository = (*UserRepository)(nil)
