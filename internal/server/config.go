package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings contains room and round behaviour configuration
type GameSettings struct {
	MinPlayers      int `hcl:"min_players,optional"`
	StartingBalance int `hcl:"starting_balance,optional"`
	MinBet          int `hcl:"min_bet,optional"`
	DealerDelayMs   int `hcl:"dealer_delay_ms,optional"`
	AutoSkipDelayMs int `hcl:"auto_skip_delay_ms,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			MinPlayers:      2,
			StartingBalance: 1000,
			MinBet:          1,
			DealerDelayMs:   1000,
			AutoSkipDelayMs: 1000,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A
// missing file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultServerConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Game.MinPlayers == 0 {
		config.Game.MinPlayers = defaults.Game.MinPlayers
	}
	if config.Game.StartingBalance == 0 {
		config.Game.StartingBalance = defaults.Game.StartingBalance
	}
	if config.Game.MinBet == 0 {
		config.Game.MinBet = defaults.Game.MinBet
	}
	if config.Game.DealerDelayMs == 0 {
		config.Game.DealerDelayMs = defaults.Game.DealerDelayMs
	}
	if config.Game.AutoSkipDelayMs == 0 {
		config.Game.AutoSkipDelayMs = defaults.Game.AutoSkipDelayMs
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.MinPlayers < 2 {
		return fmt.Errorf("min players must be at least 2, got %d", c.Game.MinPlayers)
	}
	if c.Game.StartingBalance <= 0 {
		return fmt.Errorf("starting balance must be positive, got %d", c.Game.StartingBalance)
	}
	if c.Game.MinBet <= 0 || c.Game.MinBet > c.Game.StartingBalance {
		return fmt.Errorf("min bet must be between 1 and the starting balance, got %d", c.Game.MinBet)
	}
	if c.Game.DealerDelayMs < 0 || c.Game.AutoSkipDelayMs < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// DealerDelay returns the pause between the last player turn and the
// dealer playing out
func (c *ServerConfig) DealerDelay() time.Duration {
	return time.Duration(c.Game.DealerDelayMs) * time.Millisecond
}

// AutoSkipDelay returns the pause after announcing a dealt blackjack
// before the turn moves on
func (c *ServerConfig) AutoSkipDelay() time.Duration {
	return time.Duration(c.Game.AutoSkipDelayMs) * time.Millisecond
}
