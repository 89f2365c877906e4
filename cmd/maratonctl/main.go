package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/maraton/maraton-api/cmd/maratonctl/ui"
	"github.com/maraton/maraton-api/internal/auth"
	"github.com/maraton/maraton-api/internal/config"
	"github.com/maraton/maraton-api/internal/database"
	"github.com/maraton/maraton-api/internal/logging"
	"github.com/maraton/maraton-api/internal/movie"
	"github.com/maraton/maraton-api/internal/user"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "maratonctl",
		Short:        "Administrative tasks for the Maraton API",
		SilenceUsage: true,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables if they do not exist",
		RunE:  runMigrate,
	}

	seedCmd := &cobra.Command{
		Use:   "seed-genres [name...]",
		Short: "Insert the reference genres (Terror, Romance, Acción, Aventura by default)",
		RunE:  runSeedGenres,
	}

	createUserCmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user; prompts for any field not given as a flag",
		RunE:  runCreateUser,
	}
	createUserCmd.Flags().String("email", "", "Email address")
	createUserCmd.Flags().String("username", "", "Username")
	createUserCmd.Flags().String("password", "", "Password")
	createUserCmd.Flags().String("birth-date", "", "Birth date (YYYY-MM-DD)")

	rootCmd.AddCommand(migrateCmd, seedCmd, createUserCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

// withDB loads config and hands fn an open database for the command's lifetime
func withDB(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, db *bun.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, cfg, db)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	return withDB(cmd, func(ctx context.Context, cfg *config.Config, db *bun.DB) error {
		if err := database.CreateSchema(ctx, db); err != nil {
			return err
		}
		ui.PrintSuccess("Schema ready")
		ui.PrintDetail("driver", cfg.Database.Driver)
		ui.PrintDetail("database", cfg.Database.DBName)
		return nil
	})
}

func runSeedGenres(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = database.DefaultGenres
	}

	return withDB(cmd, func(ctx context.Context, cfg *config.Config, db *bun.DB) error {
		inserted, err := database.SeedGenres(ctx, db, names)
		if err != nil {
			return err
		}

		// cached genre lists would otherwise hide the new rows until they expire
		redisClient, err := database.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			ui.PrintError("cache not invalidated: " + err.Error())
		} else if redisClient != nil {
			defer redisClient.Close()
			logger := logging.NewLogger(cfg.Server.IsDevelopment())
			if err := movie.NewCache(redisClient, cfg.Cache.MovieTTL, logger).Invalidate(ctx); err != nil {
				ui.PrintError("cache not invalidated: " + err.Error())
			}
		}

		ui.PrintSuccess("Genres seeded")
		ui.PrintDetail("requested", strconv.Itoa(len(names)))
		ui.PrintDetail("inserted", strconv.Itoa(inserted))
		return nil
	})
}

func runCreateUser(cmd *cobra.Command, _ []string) error {
	var in ui.NewUser
	in.Email, _ = cmd.Flags().GetString("email")
	in.Username, _ = cmd.Flags().GetString("username")
	in.Password, _ = cmd.Flags().GetString("password")
	in.BirthDate, _ = cmd.Flags().GetString("birth-date")

	if in.Missing() {
		ui.PrintTitle("New user")
		var err error
		if in, err = ui.RunUserForm(in); err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}
	}

	return withDB(cmd, func(ctx context.Context, cfg *config.Config, db *bun.DB) error {
		logger := logging.NewLogger(cfg.Server.IsDevelopment())
		// registration only touches the user store, so no tokens or mailer
		svc := auth.NewService(user.NewRepository(db), nil, nil, logger, cfg.Auth.SessionDuration, cfg.Auth.ResetDuration)

		u, err := svc.Register(ctx, auth.RegisterInput{
			Email:     in.Email,
			Password:  in.Password,
			Username:  in.Username,
			BirthDate: in.BirthDate,
		})
		if err != nil {
			return err
		}

		ui.PrintSuccess("User created")
		ui.PrintDetail("id", strconv.FormatInt(u.ID, 10))
		ui.PrintDetail("email", u.Email)
		ui.PrintDetail("username", u.Username)
		return nil
	})
}
