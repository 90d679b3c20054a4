package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"clipscraper/internal/adapters/downloader"
	"clipscraper/internal/adapters/localstorage"
	"clipscraper/internal/adapters/progress"
	"clipscraper/internal/adapters/twitch"
	"clipscraper/internal/core/domain"
	"clipscraper/internal/service"
)

const (
	exitFailure     = 1
	exitUsage       = 2
	exitClipsFailed = 3
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.RedirectStdLog(logger)
	sugar := logger.Sugar()

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Environment variables might be set manually
		sugar.Debug("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:      "clip-scraper",
		Usage:     "download every clip of a Twitch channel",
		ArgsUsage: "CHANNEL",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				_ = cli.ShowAppHelp(c)
				return cli.Exit("Username required!", exitUsage)
			}
			return run(c.Context, sugar, c.Args().First())
		},
		HideHelpCommand: true,
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		sugar.Error(err.Error())
		os.Exit(exitFailure)
	}
}

func run(ctx context.Context, logger *zap.SugaredLogger, channel string) error {
	creds, token, err := twitch.CredentialsFromEnv()
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	tokens := twitch.NewTokenProvider(creds, token)
	source := twitch.NewClient(creds.ClientID, tokens)
	storage := localstorage.NewLocalStorage(localstorage.DefaultDir)
	clips := service.NewClipDownloader(downloader.NewHTTPDownloader(), storage, progress.NewBars(os.Stderr), logger)
	orchestrator := service.NewOrchestrator(source, clips, storage, logger)

	result, err := orchestrator.Run(ctx, channel)
	if err != nil {
		var authErr *domain.AuthError
		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &authErr):
			return cli.Exit(fmt.Sprintf("Authentication failed: %v", err), exitFailure)
		case errors.As(err, &validationErr):
			return cli.Exit(fmt.Sprintf("Unexpected clip data: %v", err), exitFailure)
		default:
			return cli.Exit(fmt.Sprintf("Run failed: %v", err), exitFailure)
		}
	}

	// Print summary
	fmt.Println("\n=== Run Summary ===")
	fmt.Printf("Run ID:       %s\n", result.Run.ID)
	fmt.Printf("Channel:      %s\n", result.Run.Channel)
	if result.NotFound {
		fmt.Println("Status:       user not found")
		return nil
	}
	fmt.Printf("Broadcaster:  %s\n", result.BroadcasterID)
	fmt.Printf("Pages:        %d\n", result.Pages)
	fmt.Printf("Downloaded:   %d\n", result.Completed)
	fmt.Printf("Skipped:      %d\n", result.Skipped)
	fmt.Printf("Failed:       %d\n", result.Failed)
	fmt.Printf("Completed At: %s\n", result.CompletedAt.Format(time.RFC3339))

	if err := result.Err.ErrorOrNil(); err != nil {
		return cli.Exit(err.Error(), exitClipsFailed)
	}
	return nil
}
