package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maajidpp/linkza/internal/auth"
	"github.com/maajidpp/linkza/internal/config"
	"github.com/maajidpp/linkza/internal/mongo"
	"github.com/maajidpp/linkza/pkg/errors"
)

// seedAdminCommand creates an admin account, or promotes an existing one.
func (c *CLI) seedAdminCommand() *cobra.Command {
	var (
		configPath string
		email      string
		password   string
		name       string
		username   string
	)

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create or promote an admin account",
		Long: `Create an admin account directly in the database, or promote the
account to admin if the email is already registered. Intended for
bootstrapping a fresh deployment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSeedAdmin(cmd.Context(), configPath, name, username, email, password)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (required for new accounts)")
	cmd.Flags().StringVar(&name, "name", "Admin", "admin display name")
	cmd.Flags().StringVar(&username, "username", "admin", "admin profile username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *CLI) runSeedAdmin(ctx context.Context, configPath, name, username, email, password string) error {
	logger := c.Logger

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	db, err := mongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())
	logger.Info("connected to mongodb", "database", cfg.Mongo.Database)

	existing, err := db.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			logger.Info("account is already an admin", "email", email)
			return nil
		}
		if err := db.Users.SetRole(ctx, existing.ID, auth.RoleAdmin); err != nil {
			return err
		}
		logger.Info("promoted existing account to admin", "email", email)
		return nil
	case errors.Is(err, errors.ErrCodeUserNotFound):
		// Fall through to creation.
	default:
		return err
	}

	if password == "" {
		return errors.New(errors.ErrCodeInvalidInput, "--password is required when creating a new admin")
	}
	if err := errors.ValidateUsername(username); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin, err := db.Users.Create(ctx, &auth.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
		Status:       auth.StatusActive,
	})
	if err != nil {
		return err
	}

	logger.Info("admin account created", "email", email, "id", admin.ID)
	fmt.Printf("Admin created. Sign in with %s\n", email)
	return nil
}
