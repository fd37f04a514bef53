package cli

import (
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ironhall/kiosk/internal/action"
	"github.com/ironhall/kiosk/internal/dependencies/clock"
	"github.com/ironhall/kiosk/internal/rest"
	"github.com/ironhall/kiosk/internal/sound"
	"github.com/ironhall/kiosk/internal/state"
)

var (
	cfg     *Config
	api     *rest.Client
	store   *state.Store
	actions *action.Actions
	logger  *slog.Logger
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	// Environment from .env when present; real env always wins
	_ = godotenv.Load()

	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "kiosk",
		Short: "Terminal front-end for the gym check-in kiosk",
		Long: `kiosk is a terminal front-end for the gym check-in server.

It supports staff login, member search, registration, sheet selection,
and a live watch mode that follows RFID scans as members badge in.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			api = rest.NewClient(cfg.ServerURL)
			if cfg.Token != "" {
				seedSession(api, cfg.Token)
			}

			store = state.NewStore()
			actions = action.New(store, api, newPlayer(), clock.New(), logger)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: KIOSK_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Session token (env: KIOSK_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: KIOSK_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newSheetCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newPlayer() sound.Player {
	if cfg.SoundPlayer == "" {
		return sound.Nop{}
	}
	return sound.NewCommandPlayer(cfg.SoundPlayer, cfg.SoundOK, cfg.SoundErr, logger)
}

// seedSession restores a saved session cookie into the client's jar so
// subsequent requests are authenticated without logging in again.
func seedSession(c *rest.Client, token string) {
	u, err := url.Parse(c.BaseURL())
	if err != nil {
		return
	}
	c.Jar().SetCookies(u, []*http.Cookie{{
		Name:  "session",
		Value: token,
		Path:  "/",
	}})
}

// sessionToken reads the session cookie the server set during login.
func sessionToken(c *rest.Client) string {
	u, err := url.Parse(c.BaseURL())
	if err != nil {
		return ""
	}
	for _, ck := range c.Jar().Cookies(u) {
		if ck.Name == "session" {
			return ck.Value
		}
	}
	return ""
}
