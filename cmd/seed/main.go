package main

import (
	"context"
	"errors"

	"github.com/contentkit/publishing-api/internal/auth"
	"github.com/contentkit/publishing-api/internal/core/domain"
	"github.com/contentkit/publishing-api/internal/infrastructure/config"
	mongodb "github.com/contentkit/publishing-api/internal/infrastructure/db/mongo"
	"github.com/contentkit/publishing-api/pkg/logger"
)

// Seeds the default roles and the initial admin account. Safe to re-run:
// existing roles and users are left untouched.
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection")
	}
	defer client.Disconnect(ctx)

	roles := mongodb.NewRoleRepository(db)
	users := mongodb.NewUserRepository(db)

	if err := roles.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("role indexes")
	}
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes")
	}

	for _, role := range defaultRoles() {
		_, err := roles.Create(ctx, role)
		switch {
		case err == nil:
			log.Info().Str("role", role.Name).Msg("role created")
		case errors.Is(err, domain.ErrRoleExists):
			log.Info().Str("role", role.Name).Msg("role already exists")
		default:
			log.Fatal().Err(err).Str("role", role.Name).Msg("create role")
		}
	}

	adminRole, err := roles.FindByName(ctx, "admin")
	if err != nil {
		log.Fatal().Err(err).Msg("find admin role")
	}

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	hash, err := hasher.Hash("admin123")
	if err != nil {
		log.Fatal().Err(err).Msg("hash admin password")
	}

	_, err = users.Create(ctx, &domain.User{
		Email:        "admin@example.com",
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "User",
		RoleID:       &adminRole.ID,
		IsActive:     true,
	})
	switch {
	case err == nil:
		log.Info().Str("email", "admin@example.com").Msg("admin user created")
	case errors.Is(err, domain.ErrUserExists):
		log.Info().Str("email", "admin@example.com").Msg("admin user already exists")
	default:
		log.Fatal().Err(err).Msg("create admin user")
	}

	log.Info().Msg("seed completed")
}

func defaultRoles() []*domain.Role {
	return []*domain.Role{
		{
			Name:        "admin",
			Description: "Administrator with full access",
			Permissions: []string{
				"users.create", "users.read", "users.update", "users.delete",
				"roles.create", "roles.read", "roles.update", "roles.delete",
				"posts.create", "posts.read", "posts.update", "posts.delete",
				"posts.publish", "posts.unpublish",
			},
		},
		{
			Name:        "editor",
			Description: "Editor with content management access",
			Permissions: []string{
				"users.read",
				"posts.create", "posts.read", "posts.update", "posts.delete",
				"posts.publish", "posts.unpublish",
			},
		},
		{
			Name:        "author",
			Description: "Author with limited content access",
			Permissions: []string{"posts.create", "posts.read", "posts.update"},
		},
		{
			Name:        domain.DefaultRoleName,
			Description: "Regular user with read access",
			Permissions: []string{"posts.read"},
		},
	}
}
