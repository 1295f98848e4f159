package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/campusmeet/campusmeet-api/config"
	"github.com/campusmeet/campusmeet-api/internal/domain/entity"
	"github.com/campusmeet/campusmeet-api/internal/infrastructure/elastic"
	"github.com/campusmeet/campusmeet-api/pkg/helpers"
)

// Seeds a handful of demo users into Elasticsearch and prints a dev access
// token for the first one.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("failed to init elasticsearch client: %v", err)
	}
	events := elastic.NewEventStore(es, cfg.ESEventsIndex)
	repo := elastic.NewUserRepository(es, events, logger, elastic.Indices{
		Users:        cfg.ESUsersIndex,
		JoinedEvents: cfg.ESJoinedIndex,
		Invitations:  cfg.ESInvitationsIndex,
		Favorites:    cfg.ESFavoritesIndex,
		Follows:      cfg.ESFollowsIndex,
	})

	ctx := context.Background()
	seeds := []entity.User{
		{
			Email:      "ana.petrova@example.edu",
			Username:   "ana.petrova",
			FirstName:  "Ana",
			LastName:   "Petrova",
			University: "Technical University of Munich",
			Hobbies:    []string{"climbing", "photography"},
		},
		{
			Email:      "marco.rossi@example.edu",
			Username:   "marco_rossi",
			FirstName:  "Marco",
			LastName:   "Rossi",
			University: "Technical University of Munich",
			Hobbies:    []string{"football", "chess"},
		},
		{
			Email:      "lea.schmidt@example.edu",
			Username:   "lea-schmidt",
			FirstName:  "Lea",
			LastName:   "Schmidt",
			University: "LMU Munich",
			Hobbies:    []string{"photography"},
		},
	}

	var firstID string
	for _, s := range seeds {
		s.ID = repo.NewID()
		u, err := entity.NewUser(s)
		if err != nil {
			log.Fatalf("invalid seed user %s: %v", s.Username, err)
		}
		if err := repo.Save(ctx, u); err != nil {
			log.Fatalf("failed to seed user %s: %v", u.Username, err)
		}
		if firstID == "" {
			firstID = u.ID
		}
		fmt.Printf("seeded user: id=%s username=%s email=%s\n", u.ID, u.Username, u.Email)
	}

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL)
	token, exp, err := jwtManager.GenerateAccessToken(firstID)
	if err != nil {
		log.Fatalf("failed to mint dev token: %v", err)
	}
	fmt.Printf("dev access token (expires %s):\n%s\n", exp.Format("2006-01-02 15:04:05"), token)
}
