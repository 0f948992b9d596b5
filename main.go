package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/studio-site-backend/api"
	"github.com/rpupo63/studio-site-backend/config"
	"github.com/rpupo63/studio-site-backend/database"
	"github.com/rpupo63/studio-site-backend/models"
	"github.com/rpupo63/studio-site-backend/services"
	"github.com/rpupo63/studio-site-backend/storage"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg := config.New()
	setupLogger(cfg)
	log.Info().Msg("Initializing app...")

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := config.LoadSSM(startupCtx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Error loading SSM parameters")
	}
	// SSM may have changed LOG_LEVEL or APP_ENV
	setupLogger(cfg)

	dsn, err := databaseURL(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building database connection string")
	}

	db, err := database.Open(database.Options{
		DSN:           dsn,
		ReplicaDSN:    config.GetString(cfg, "DATABASE_REPLICA_URL", ""),
		SlowThreshold: time.Duration(config.GetInt(cfg, "DB_SLOW_QUERY_MS", 200)) * time.Millisecond,
		Logger:        log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	currentDB := database.New(db)
	defer currentDB.Close()

	if err := currentDB.Ping(startupCtx); err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	// If generating models, run generation and exit
	if config.GetBool(cfg, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(cfg, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		if err := models.GenerateColumnMismatchReport(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		return
	}

	if err := currentDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	if config.GetBool(cfg, "SEED_ADMIN", false) {
		if err := seedAdmin(startupCtx, cfg, currentDB); err != nil {
			log.Fatal().Err(err).Msg("Error seeding admin")
		}
		return
	}

	deps, err := buildDependencies(startupCtx, cfg, currentDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing services")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(cfg, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogger configures the global zerolog logger: console output in
// development, JSON otherwise.
func setupLogger(cfg map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(cfg, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if config.IsDevelopment(cfg) {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// databaseURL prefers DATABASE_URL and falls back to the Supabase parts
// when DB_TYPE=supa.
func databaseURL(cfg map[string]string) (string, error) {
	if dsn := config.GetString(cfg, "DATABASE_URL", ""); dsn != "" {
		return dsn, nil
	}

	dbType := config.GetString(cfg, "DB_TYPE", "")
	switch dbType {
	case "supa":
		log.Info().Msg("Connecting to Supabase database...")
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(cfg, "SUPABASE_DB_HOST", ""),
			config.GetString(cfg, "SUPABASE_DB_USER", ""),
			config.GetString(cfg, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(cfg, "SUPABASE_DB_NAME", ""),
			config.GetString(cfg, "SUPABASE_DB_PORT", "5432"),
		), nil
	default:
		return "", fmt.Errorf("DATABASE_URL is not set and DB_TYPE %q is unsupported", dbType)
	}
}

func seedAdmin(ctx context.Context, cfg map[string]string, db database.Database) error {
	email := strings.ToLower(strings.TrimSpace(config.GetString(cfg, "ADMIN_EMAIL", "")))
	password := config.GetString(cfg, "ADMIN_PASSWORD", "")
	if email == "" {
		return fmt.Errorf("ADMIN_EMAIL is required")
	}
	if len(password) < 6 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 6 characters")
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.Admin{
		Email:        email,
		Name:         config.GetString(cfg, "ADMIN_NAME", "Admin"),
		PasswordHash: hash,
	}
	if err := db.AdminRepo().Upsert(ctx, admin); err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("Admin seeded")
	return nil
}

func buildDependencies(ctx context.Context, cfg map[string]string, db database.Database) (api.Dependencies, error) {
	deps := api.DependenciesFromDatabase(db)

	store, err := storage.NewS3(ctx, storage.Options{
		Endpoint:        config.GetString(cfg, "STORAGE_ENDPOINT", ""),
		Region:          config.GetString(cfg, "STORAGE_REGION", "us-east-1"),
		Bucket:          config.GetString(cfg, "STORAGE_BUCKET", storage.DefaultBucket),
		AccessKeyID:     config.GetString(cfg, "STORAGE_ACCESS_KEY_ID", ""),
		SecretAccessKey: config.GetString(cfg, "STORAGE_SECRET_ACCESS_KEY", ""),
		PublicURL:       config.GetString(cfg, "STORAGE_PUBLIC_URL", ""),
	})
	if err != nil {
		return deps, err
	}
	deps.Storage = store

	sessions, err := services.NewSessionManager(
		config.GetString(cfg, "SESSION_SECRET", ""),
		time.Duration(config.GetInt(cfg, "SESSION_TTL_HOURS", 24))*time.Hour,
	)
	if err != nil {
		return deps, err
	}
	deps.Sessions = sessions
	deps.Auth = services.NewAuthenticator(db.AdminRepo(), sessions)

	notifier := services.NewLeadNotifier(
		db.SettingsRepo(),
		services.NewEmailSender(config.GetString(cfg, "RESEND_API_KEY", ""), config.GetString(cfg, "RESEND_FROM_EMAIL", "")),
		services.NewSMSSender(
			config.GetString(cfg, "TWILIO_ACCOUNT_SID", ""),
			config.GetString(cfg, "TWILIO_AUTH_TOKEN", ""),
			config.GetString(cfg, "TWILIO_FROM_NUMBER", ""),
			config.GetString(cfg, "LEAD_SMS_TO", ""),
		),
		config.GetString(cfg, "SITE_URL", ""),
	)
	if channels := notifier.Channels(); len(channels) > 0 {
		deps.Notifier = notifier
		log.Info().Strs("channels", channels).Msg("Lead notifications enabled")
	} else {
		log.Warn().Msg("No lead notification channel configured")
	}

	return deps, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
