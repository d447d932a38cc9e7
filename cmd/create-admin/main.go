// Command create-admin provisions an account in the configured database. Registration
// is disabled in the API, so this is the only way users are created.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"printstudio/internal/apperrors"
	"printstudio/internal/config"
	"printstudio/internal/database"
	"printstudio/internal/logging"
	"printstudio/internal/models"
	"printstudio/internal/services"

	"github.com/spf13/pflag"
)

type options struct {
	Username string
	Email    string
	Password string
	Role     string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("create-admin", pflag.ContinueOnError)
	flagSet.StringVar(&opts.Username, "username", "admin", "login name of the new account")
	flagSet.StringVar(&opts.Email, "email", "", "contact email of the new account")
	flagSet.StringVar(&opts.Password, "password", "", "initial password (required)")
	flagSet.StringVar(&opts.Role, "role", models.RoleAdmin, "role of the new account: admin or user")

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", extra[0])
	}
	if opts.Password == "" {
		return opts, errors.New("--password is required")
	}
	if opts.Role != models.RoleAdmin && opts.Role != models.RoleUser {
		return opts, fmt.Errorf("--role must be %q or %q", models.RoleAdmin, models.RoleUser)
	}
	return opts, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadStorage()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repos, closeDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeDB(context.Background())

	auth := services.NewAuthService(repos.Users, cfg.SecretKey)
	user, err := auth.ProvisionUser(ctx, opts.Email, opts.Username, opts.Password, opts.Role)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("user %q already exists", opts.Username)
		}
		return err
	}

	fmt.Printf("Created %s user %q (id %s)\n", user.Role, user.Username, user.ID)
	fmt.Println("Change the password after first login.")
	return nil
}
