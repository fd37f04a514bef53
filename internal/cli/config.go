package cli

import (
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool

	// Audio cue configuration. When SoundPlayer is empty the CLI stays
	// silent.
	SoundPlayer string
	SoundOK     string
	SoundErr    string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("KIOSK_SERVER", "http://localhost:8080"),
		Token:       os.Getenv("KIOSK_TOKEN"),
		TokenFile:   getEnvOrDefault("KIOSK_TOKEN_FILE", defaultTokenFile()),
		Output:      "text",
		Verbose:     false,
		SoundPlayer: os.Getenv("KIOSK_SOUND_PLAYER"),
		SoundOK:     os.Getenv("KIOSK_SOUND_OK"),
		SoundErr:    os.Getenv("KIOSK_SOUND_ERR"),
	}
}

// LoadToken loads the session token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No token file is fine
		}
		return err
	}

	c.Token = string(data)
	return nil
}

// SaveToken saves the session token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token

	dir := filepath.Dir(c.TokenFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.TokenFile, []byte(token), 0600)
}

// ClearToken removes the stored session token
func (c *Config) ClearToken() error {
	c.Token = ""
	err := os.Remove(c.TokenFile)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kiosk/token"
	}
	return filepath.Join(home, ".kiosk", "token")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
