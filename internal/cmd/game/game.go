// Package game parses game command flags and starts the HTTP runtime.
package game

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/kingdoms-of-fate/internal/platform/cmd"

	server "github.com/louisbranch/kingdoms-of-fate/internal/game/app"
)

// Config holds game command configuration.
type Config struct {
	Port          int    `env:"KINGDOMS_FATE_GAME_PORT" envDefault:"8082"`
	Addr          string `env:"KINGDOMS_FATE_GAME_ADDR"`
	DataDir       string `env:"KINGDOMS_FATE_DATA_DIR" envDefault:"data"`
	TokenKey      string `env:"KINGDOMS_FATE_TOKEN_KEY"`
	OpenAIBaseURL string `env:"KINGDOMS_FATE_OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIAPIKey  string `env:"KINGDOMS_FATE_OPENAI_API_KEY"`
	OpenAIModel   string `env:"KINGDOMS_FATE_OPENAI_MODEL" envDefault:"gpt-4.1-nano"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server listen address (overrides -port)")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for session and telemetry databases")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(context.Context) error {
		addr := cfg.Addr
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.Port)
		}
		return server.Run(ctx, server.Config{
			Addr:          addr,
			DataDir:       cfg.DataDir,
			TokenKey:      cfg.TokenKey,
			OpenAIBaseURL: cfg.OpenAIBaseURL,
			OpenAIAPIKey:  cfg.OpenAIAPIKey,
			OpenAIModel:   cfg.OpenAIModel,
		})
	})
}
