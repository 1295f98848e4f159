package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/campusmeet/campusmeet-api/internal/domain/entity"
	repo "github.com/campusmeet/campusmeet-api/internal/domain/repository"
	"github.com/campusmeet/campusmeet-api/pkg/helpers"
	"github.com/campusmeet/campusmeet-api/pkg/mailer"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

const profileCacheTTL = 15 * time.Minute

func profileKey(userID string) string {
	return "user:profile:" + userID
}

// Service orchestrates the user repository for the HTTP layer: profile
// caching in Redis, invitation notifications over RabbitMQ, and the
// taxonomy mapping from absent reads to ErrUserNotFound. Redis and the
// publisher are optional; a nil client just skips caching or notifying.
type Service struct {
	Repo   repo.UserRepository
	Redis  *redis.Client
	Rabbit *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewService(r repo.UserRepository, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger) *Service {
	return &Service{Repo: r, Redis: rdb, Rabbit: pub, Logger: logger}
}

type RegisterInput struct {
	Email             string
	Username          string
	FirstName         string
	LastName          string
	University        string
	Hobbies           []string
	ProfilePictureURL string
	Bio               string
}

// Register creates a new user at sign-up. Uniqueness of email and username
// is checked first so callers get a conflict error rather than a raw
// backend failure.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	available, err := s.Repo.IsUsernameAvailable(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrUsernameTaken
	}
	if existing, err := s.Repo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	u, err := entity.NewUser(entity.User{
		ID:                s.Repo.NewID(),
		Email:             in.Email,
		Username:          in.Username,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		University:        in.University,
		Hobbies:           in.Hobbies,
		ProfilePictureURL: in.ProfilePictureURL,
		Bio:               in.Bio,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return nil, err
	}
	s.cacheProfile(ctx, u)
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	return &u, nil
}

// GetProfile reads through the Redis cache.
func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	if s.Redis != nil {
		var cached entity.User
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, profileKey(userID), &cached); err == nil && hit {
			return &cached, nil
		}
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	s.cacheProfile(ctx, *u)
	return u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile applies a partial update through the entity's update
// engine, so the result is re-validated and UpdatedAt always moves forward.
func (s *Service) UpdateProfile(ctx context.Context, userID string, up entity.UserUpdate) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	next, err := u.Apply(up, time.Now().UnixMilli())
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Save(ctx, next); err != nil {
		return nil, err
	}
	s.cacheProfile(ctx, next)
	return &next, nil
}

// PatchProfile forwards a bag of changed fields to the backend, which
// stamps updatedAt itself. The cache entry is dropped rather than rebuilt.
func (s *Service) PatchProfile(ctx context.Context, userID string, fields map[string]any) error {
	if err := s.Repo.Update(ctx, userID, fields); err != nil {
		return err
	}
	s.dropProfile(ctx, userID)
	return nil
}

func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.Repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.dropProfile(ctx, userID)
	s.Logger.WithField("user_id", userID).Info("user deleted")
	return nil
}

func (s *Service) ListUsers(ctx context.Context, limit int, cursor string) (repo.UserPage, error) {
	return s.Repo.GetPaginated(ctx, limit, cursor)
}

func (s *Service) UsersByUniversity(ctx context.Context, university string) ([]entity.User, error) {
	return s.Repo.GetByUniversity(ctx, university)
}

func (s *Service) UsersByHobby(ctx context.Context, hobby string) ([]entity.User, error) {
	return s.Repo.GetByHobby(ctx, hobby)
}

func (s *Service) CheckUsername(ctx context.Context, username string) (bool, error) {
	return s.Repo.IsUsernameAvailable(ctx, username)
}

func (s *Service) JoinEvent(ctx context.Context, userID, eventID string) error {
	return s.Repo.JoinEvent(ctx, userID, eventID)
}

func (s *Service) LeaveEvent(ctx context.Context, userID, eventID string) error {
	return s.Repo.LeaveEvent(ctx, userID, eventID)
}

func (s *Service) JoinedEvents(ctx context.Context, userID string) ([]string, error) {
	return s.Repo.GetJoinedEvents(ctx, userID)
}

// SendInvitation performs the guarded write and then notifies the recipient
// by email, best-effort: a notification failure is logged, never surfaced.
func (s *Service) SendInvitation(ctx context.Context, eventID, fromUserID, toUserID string) error {
	if err := s.Repo.SendInvitation(ctx, eventID, fromUserID, toUserID); err != nil {
		return err
	}
	s.notifyInvitation(ctx, eventID, fromUserID, toUserID)
	return nil
}

func (s *Service) Invitations(ctx context.Context, userID string) ([]entity.Invitation, error) {
	return s.Repo.GetInvitations(ctx, userID)
}

func (s *Service) AcceptInvitation(ctx context.Context, userID, eventID string) error {
	return s.Repo.AcceptInvitation(ctx, userID, eventID)
}

func (s *Service) DeclineInvitation(ctx context.Context, userID, eventID string) error {
	return s.Repo.DeclineInvitation(ctx, userID, eventID)
}

func (s *Service) AddFavorite(ctx context.Context, userID, eventID string) error {
	return s.Repo.AddFavoriteEvent(ctx, userID, eventID)
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, eventID string) error {
	return s.Repo.RemoveFavoriteEvent(ctx, userID, eventID)
}

func (s *Service) Favorites(ctx context.Context, userID string) ([]entity.FavoriteEvent, error) {
	return s.Repo.GetFavoriteEvents(ctx, userID)
}

func (s *Service) FollowOrganization(ctx context.Context, userID, organizationID string) error {
	return s.Repo.FollowOrganization(ctx, userID, organizationID)
}

func (s *Service) UnfollowOrganization(ctx context.Context, userID, organizationID string) error {
	return s.Repo.UnfollowOrganization(ctx, userID, organizationID)
}

func (s *Service) FollowedOrganizations(ctx context.Context, userID string) ([]entity.OrganizationFollow, error) {
	return s.Repo.GetFollowedOrganizations(ctx, userID)
}

func (s *Service) notifyInvitation(ctx context.Context, eventID, fromUserID, toUserID string) {
	if s.Rabbit == nil {
		return
	}
	to, err := s.Repo.GetByID(ctx, toUserID)
	if err != nil || to == nil {
		return
	}
	job := mailer.InvitationJob{To: to.Email, EventID: eventID, FromUserID: fromUserID}
	if from, err := s.Repo.GetByID(ctx, fromUserID); err == nil && from != nil {
		job.FromName = from.FirstName + " " + from.LastName
	}
	if err := s.Rabbit.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"event_id": eventID,
			"to":       toUserID,
		}).Warn("invitation notification publish failed")
	}
}

func (s *Service) cacheProfile(ctx context.Context, u entity.User) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, profileKey(u.ID), u, profileCacheTTL); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("profile cache write failed")
	}
}

func (s *Service) dropProfile(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, profileKey(userID)); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("profile cache delete failed")
	}
}
