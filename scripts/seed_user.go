package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/scolardf/devconnector/adapters/persistence"
	"github.com/scolardf/devconnector/internal/config"
	"github.com/scolardf/devconnector/internal/domain/user"
	"github.com/scolardf/devconnector/pkg/auth"
	"github.com/scolardf/devconnector/pkg/logger"
)

// Inserts a user and prints a token for it, for trying the API locally.
func main() {
	name := flag.String("name", "Dev User", "display name")
	email := flag.String("email", "dev@example.com", "email address")
	avatar := flag.String("avatar", "", "avatar url")
	flag.Parse()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)

	pool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	u := &user.User{
		ID:        uuid.New(),
		Name:      *name,
		Email:     *email,
		Avatar:    *avatar,
		CreatedAt: time.Now().UTC(),
	}
	if err := persistence.NewPostgresUserRepo(pool).Save(context.Background(), u); err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	token, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan).GenerateToken(u.ID)
	if err != nil {
		log.Fatalf("cannot sign token: %v", err)
	}

	fmt.Printf("added user '%s' (%s)\n", u.Email, u.ID)
	fmt.Printf("x-auth-token: %s\n", token)
}
