package firebase

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

type Config struct {
	ProjectID       string
	DatabaseURL     string
	CredentialsFile string
	CredentialsJSON string
}

// App bundles the Firebase clients the service uses. Clients share one
// credential set and are safe for concurrent use.
type App struct {
	app      *firebase.App
	Database *db.Client
	Auth     *auth.Client
}

func NewApp(ctx context.Context, cfg *Config) (*App, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("firebase database URL is required")
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:   cfg.ProjectID,
		DatabaseURL: cfg.DatabaseURL,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	database, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get realtime database client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}

	return &App{
		app:      app,
		Database: database,
		Auth:     authClient,
	}, nil
}

// Underlying exposes the SDK app for clients created on demand, such as
// messaging.
func (a *App) Underlying() *firebase.App {
	return a.app
}
