// Command createsuperuser provisions an active, verified superuser account.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/validators"
	"github.com/spf13/pflag"
)

var (
	email     = pflag.StringP("email", "e", "", "Email address of the superuser")
	firstName = pflag.String("first-name", "Admin", "First name")
	lastName  = pflag.String("last-name", "User", "Last name")
	password  = pflag.StringP("password", "p", "", "Password; falls back to $SUPERUSER_PASSWORD")
)

func main() {
	pflag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.SlogLevel())

	pw := *password
	if pw == "" {
		pw = os.Getenv("SUPERUSER_PASSWORD")
	}

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tokens := services.NewTokenService(database.DB, cfg, nil)
	auth := services.NewAuthService(database.DB, tokens)
	user, err := auth.CreateSuperuser(ctx, &dto.SignUpRequest{
		Email:     *email,
		FirstName: *firstName,
		LastName:  *lastName,
		Password:  pw,
	})
	if err != nil {
		var verr *validators.ValidationError
		if errors.As(err, &verr) {
			for field, msgs := range verr.Fields {
				fmt.Fprintf(os.Stderr, "%s: %v\n", field, msgs)
			}
			os.Exit(2)
		}
		slog.Error("failed to create superuser", "error", err)
		os.Exit(1)
	}

	slog.Info("superuser created", "id", user.ID, "email", user.Email)
}
