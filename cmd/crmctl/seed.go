package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/travel-crm/internal/auth"
	"github.com/spec-kit/travel-crm/internal/bootstrap"
	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/repository"
)

// seedFile is the YAML layout accepted by `crmctl seed users`.
type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Role       string `yaml:"role"`
	Department string `yaml:"department"`
}

type seedResult struct {
	Created []string
	Skipped []string
}

func newSeedCmd(app *cli) *cobra.Command {
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Load initial records",
	}

	var file string
	users := &cobra.Command{
		Use:   "users",
		Short: "Create accounts from a YAML file, skipping emails that already exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			entries, err := parseSeedFile(f)
			if err != nil {
				return err
			}

			backend, err := bootstrap.OpenStore(cmd.Context(), *app.cfg, app.logger)
			if err != nil {
				return err
			}
			defer backend.Close(context.Background())

			res, err := seedUsers(cmd.Context(), backend.Store.Users, entries, app.cfg.Auth.BcryptCost, app.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", len(res.Created), len(res.Skipped))
			return nil
		},
	}
	users.Flags().StringVarP(&file, "file", "f", "", "YAML file with a users list")
	_ = users.MarkFlagRequired("file")

	seed.AddCommand(users)
	return seed
}

func parseSeedFile(r io.Reader) ([]seedUser, error) {
	var doc seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("seed file is empty")
		}
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, u := range doc.Users {
		if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" {
			return nil, fmt.Errorf("users[%d]: name and email are required", i)
		}
		if u.Role != "" && !domain.Role(u.Role).Valid() {
			return nil, fmt.Errorf("users[%d]: invalid role %q", i, u.Role)
		}
	}
	return doc.Users, nil
}

// seedUsers creates every entry whose email is not taken yet. It writes
// through the repository directly so that the very first administrator can
// be created before anyone is able to log in.
func seedUsers(ctx context.Context, users repository.UserRepository, entries []seedUser, cost int, logger *zap.Logger) (seedResult, error) {
	var res seedResult
	for _, e := range entries {
		email := strings.ToLower(strings.TrimSpace(e.Email))
		_, err := users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			res.Skipped = append(res.Skipped, email)
			logger.Info("seed: user exists, skipping", zap.String("email", email))
			continue
		case !errors.Is(err, repository.ErrNotFound):
			return res, err
		}

		hash, err := auth.HashPassword(e.Password, cost)
		if err != nil {
			return res, fmt.Errorf("%s: %w", email, err)
		}
		role := domain.Role(e.Role)
		if role == "" {
			role = domain.RoleEmployee
		}
		u := &domain.User{
			Name:         strings.TrimSpace(e.Name),
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			Department:   e.Department,
			IsActive:     true,
		}
		if err := users.Create(ctx, u); err != nil {
			return res, fmt.Errorf("%s: %w", email, err)
		}
		res.Created = append(res.Created, email)
		logger.Info("seed: user created", zap.String("email", email), zap.String("role", string(role)))
	}
	return res, nil
}
