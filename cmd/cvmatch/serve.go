package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-matcher/internal/completion"
	"github.com/jonathan/cv-matcher/internal/config"
	"github.com/jonathan/cv-matcher/internal/db"
	"github.com/jonathan/cv-matcher/internal/ingest"
	"github.com/jonathan/cv-matcher/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start an HTTP server exposing signup, login, the paid matching features, job posting ingestion and document export.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	serverConfig, err := config.NewServerConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		serverConfig.Port = servePort
	}

	completionConfig, err := config.NewCompletionConfig()
	if err != nil {
		return err
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, serverConfig.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	client, err := completion.NewClient(context.Background(), completionConfig.ClientConfig())
	if err != nil {
		return fmt.Errorf("failed to create completion client: %w", err)
	}
	defer func() { _ = client.Close() }()

	srv := server.New(server.Options{
		Port:            serverConfig.Port,
		Store:           database,
		Completion:      client,
		Ingester:        ingest.NewService(ingest.Options{EnableBrowser: serverConfig.EnableBrowserIngest}),
		PasswordConfig:  passwordConfig,
		JWTConfig:       jwtConfig,
		StartingBalance: serverConfig.StartingTokenBalance,
	})
	return srv.Start()
}
