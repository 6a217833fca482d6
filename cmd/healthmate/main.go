package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/healthhack/healthmate/internal/api"
	"github.com/healthhack/healthmate/internal/assistant"
	"github.com/healthhack/healthmate/internal/identity"
	"github.com/healthhack/healthmate/internal/lockfile"
	"github.com/healthhack/healthmate/internal/predict"
	"github.com/healthhack/healthmate/internal/store"
	"github.com/healthhack/healthmate/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for HealthMate state data
	DefaultStateDir = "/var/lib/healthmate"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "healthmate.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	// Serialize instances sharing a state directory.
	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		slog.Error("Failed to acquire state directory lock", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	st, err := openStore(flags)
	if err != nil {
		slog.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	provider := identity.NewLocalProvider(st, buildIdentityOptions(flags)...)
	server := api.NewServer(provider, buildAPIOptions(flags)...)

	slog.Info("Bootstrapping HealthMate with configured modules")
	slog.Debug("Final configuration",
		"state_dir", *flags.stateDir,
		"dsn_set", *flags.dbDSN != "",
		"api_addr", *flags.apiAddr,
		"upstream_set", *flags.diabetesUpstream != "",
		"openai_key_set", *flags.openaiKey != "")
	if err := server.Run(); err != nil {
		slog.Error("HealthMate failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("HealthMate exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL      string
	StateDir         string
	TokenSecret      string
	OpenAIKey        string
	APIAddr          string
	DiabetesUpstream string
}

// Flags holds command line flag values
type Flags struct {
	stateDir         *string
	dbDSN            *string
	tokenSecret      *string
	openaiKey        *string
	apiAddr          *string
	diabetesUpstream *string
}

// initializeLogger sets up structured logging. Debug tracing is on by
// default and can be silenced with HEALTHMATE_DEBUG=false.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("HEALTHMATE_DEBUG", true) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		StateDir:         util.GetenvDefault("HEALTHMATE_STATE_DIR", DefaultStateDir),
		TokenSecret:      os.Getenv("HEALTHMATE_TOKEN_SECRET"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		APIAddr:          os.Getenv("API_ADDR"),
		DiabetesUpstream: os.Getenv("DIABETES_UPSTREAM_URL"),
	}

	// Without a database URL, default to SQLite in the state directory.
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"HEALTHMATE_STATE_DIR", config.StateDir,
		"HEALTHMATE_TOKEN_SECRET_SET", config.TokenSecret != "",
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr,
		"DIABETES_UPSTREAM_URL", config.DiabetesUpstream)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:         flag.String("state-dir", config.StateDir, "state directory for HealthMate data (overrides $HEALTHMATE_STATE_DIR)"),
		dbDSN:            flag.String("db-dsn", config.DatabaseURL, "database DSN for the account store (overrides $DATABASE_URL)"),
		tokenSecret:      flag.String("token-secret", config.TokenSecret, "secret for signing access tokens (overrides $HEALTHMATE_TOKEN_SECRET)"),
		openaiKey:        flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key for the chat assistant (overrides $OPENAI_API_KEY)"),
		apiAddr:          flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		diabetesUpstream: flag.String("diabetes-upstream", config.DiabetesUpstream, "base URL of the diabetes inference service (overrides $DIABETES_UPSTREAM_URL)"),
	}

	flag.Parse()

	// Follow a moved state directory when the DSN was derived from it.
	if *flags.dbDSN == config.DatabaseURL && config.DatabaseURL == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "old_state_dir", config.StateDir, "new_state_dir", *flags.stateDir)
	}

	if *flags.tokenSecret == "" {
		// Tokens signed with an ephemeral secret do not survive restarts.
		*flags.tokenSecret = uuid.NewString()
		slog.Warn("No token secret configured, generated an ephemeral one; set HEALTHMATE_TOKEN_SECRET to keep sessions across restarts")
	}

	return flags
}

// openStore opens the account store matching the configured DSN.
func openStore(flags Flags) (store.Store, error) {
	if *flags.dbDSN == "" {
		slog.Debug("No database DSN provided, using in-memory store")
		return store.NewInMemoryStore(), nil
	}
	if store.DetectDSNType(*flags.dbDSN) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store", "dsn_set", true)
		return store.NewPostgresStore(store.WithPostgresDSN(*flags.dbDSN))
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", *flags.dbDSN)
	return store.NewSQLiteStore(store.WithSQLiteDSN(*flags.dbDSN))
}

// buildIdentityOptions constructs identity provider configuration options
func buildIdentityOptions(flags Flags) []identity.Option {
	var opts []identity.Option
	if *flags.tokenSecret != "" {
		opts = append(opts, identity.WithSecret(*flags.tokenSecret))
	}
	return opts
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var opts []api.Option
	if *flags.apiAddr != "" {
		opts = append(opts, api.WithAddr(*flags.apiAddr))
	}
	if *flags.diabetesUpstream != "" {
		opts = append(opts, api.WithDiabetesUpstream(predict.NewClient(predict.WithBaseURL(*flags.diabetesUpstream))))
	}
	if *flags.openaiKey != "" {
		responder, err := assistant.NewOpenAIResponder(assistant.WithAPIKey(*flags.openaiKey))
		if err != nil {
			slog.Warn("Failed to configure OpenAI responder, falling back to placeholder", "error", err)
		} else {
			opts = append(opts, api.WithResponder(responder))
		}
	}
	return opts
}
