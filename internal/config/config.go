// Package config loads blackjack settings from an HCL file and the
// environment.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Environment variables that override the file
const (
	EnvSeed     = "BLACKJACK_SEED"
	EnvAddr     = "BLACKJACK_ADDR"
	EnvLogLevel = "BLACKJACK_LOG_LEVEL"
)

// Config is the complete configuration
type Config struct {
	Table  TableSettings
	Shoe   ShoeSettings
	Server ServerSettings
	Log    LogSettings
	Bots   []BotConfig
}

// TableSettings holds the house rules
type TableSettings struct {
	Stake           int      `hcl:"stake,optional"`
	StandOn         int      `hcl:"stand_on,optional"`
	BlackjackPayout string   `hcl:"blackjack_payout,optional"`
	Bank            int      `hcl:"bank,optional"`
	Players         []string `hcl:"players,optional"`
}

// ShoeSettings controls shuffling. A zero seed seeds from the clock.
type ShoeSettings struct {
	Seed    int64  `hcl:"seed,optional"`
	OnEmpty string `hcl:"on_empty,optional"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address       string `hcl:"address,optional"`
	Port          int    `hcl:"port,optional"`
	ActionTimeout string `hcl:"action_timeout,optional"`
	MaxPlayers    int    `hcl:"max_players,optional"`
}

// LogSettings controls logging
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// BotConfig seats an automated player at the server's table
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
	Bank     int    `hcl:"bank,optional"`
}

// file mirrors Config with optional blocks
type file struct {
	Table  *TableSettings  `hcl:"table,block"`
	Shoe   *ShoeSettings   `hcl:"shoe,block"`
	Server *ServerSettings `hcl:"server,block"`
	Log    *LogSettings    `hcl:"log,block"`
	Bots   []BotConfig     `hcl:"bot,block"`
}

// Default returns the default configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c := &Config{Bots: raw.Bots}
	if raw.Table != nil {
		c.Table = *raw.Table
	}
	if raw.Shoe != nil {
		c.Shoe = *raw.Shoe
	}
	if raw.Server != nil {
		c.Server = *raw.Server
	}
	if raw.Log != nil {
		c.Log = *raw.Log
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Table.Stake == 0 {
		c.Table.Stake = game.DefaultStake
	}
	if c.Table.StandOn == 0 {
		c.Table.StandOn = game.DefaultStandOn
	}
	if c.Table.BlackjackPayout == "" {
		c.Table.BlackjackPayout = game.DefaultPayout.String()
	}
	if c.Table.Bank == 0 {
		c.Table.Bank = 1000
	}
	if len(c.Table.Players) == 0 {
		c.Table.Players = []string{"You"}
	}
	if c.Shoe.OnEmpty == "" {
		c.Shoe.OnEmpty = deck.Reshuffle.String()
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ActionTimeout == "" {
		c.Server.ActionTimeout = "30s"
	}
	if c.Server.MaxPlayers == 0 {
		c.Server.MaxPlayers = 5
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = "blackjack.log"
	}
	for i := range c.Bots {
		if c.Bots[i].Strategy == "" {
			c.Bots[i].Strategy = "chart"
		}
		if c.Bots[i].Bank == 0 {
			c.Bots[i].Bank = c.Table.Bank
		}
	}
}

// ApplyEnv overrides settings from environment variables. getenv is
// usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Shoe.Seed = seed
	}
	if v := getenv(EnvAddr); v != "" {
		host, port, err := net.SplitHostPort(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAddr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("%s: invalid port: %w", EnvAddr, err)
		}
		if host != "" {
			c.Server.Address = host
		}
		c.Server.Port = p
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table.Stake <= 0 {
		return fmt.Errorf("table: stake must be positive")
	}
	if c.Table.StandOn < game.DefaultStandOn || c.Table.StandOn > game.Blackjack21 {
		return fmt.Errorf("table: stand_on must be between %d and %d, got %d", game.DefaultStandOn, game.Blackjack21, c.Table.StandOn)
	}
	if _, err := game.ParsePayout(c.Table.BlackjackPayout); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if c.Table.Bank < 0 {
		return fmt.Errorf("table: bank cannot be negative")
	}
	if _, err := deck.ParsePolicy(c.Shoe.OnEmpty); err != nil {
		return fmt.Errorf("shoe: %w", err)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port: %d", c.Server.Port)
	}
	if d, err := time.ParseDuration(c.Server.ActionTimeout); err != nil || d < 0 {
		return fmt.Errorf("server: invalid action_timeout %q", c.Server.ActionTimeout)
	}
	if c.Server.MaxPlayers < 1 {
		return fmt.Errorf("server: max_players must be at least 1")
	}
	if len(c.Bots) >= c.Server.MaxPlayers {
		return fmt.Errorf("server: %d bots leave no seat for players (max_players %d)", len(c.Bots), c.Server.MaxPlayers)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	for _, b := range c.Bots {
		if b.Strategy != "chart" && b.Strategy != "rand" {
			return fmt.Errorf("bot %s: invalid strategy %s", b.Name, b.Strategy)
		}
		if b.Bank <= 0 {
			return fmt.Errorf("bot %s: bank must be positive", b.Name)
		}
	}
	return nil
}

// Payout returns the parsed blackjack payout. Call Validate first.
func (c *Config) Payout() game.PayoutTable {
	p, err := game.ParsePayout(c.Table.BlackjackPayout)
	if err != nil {
		return game.DefaultPayout
	}
	return p
}

// Policy returns the parsed shoe exhaustion policy
func (c *Config) Policy() deck.ExhaustionPolicy {
	p, _ := deck.ParsePolicy(c.Shoe.OnEmpty)
	return p
}

// ActionTimeout returns how long a seat may think before it is stood
func (c *Config) ActionTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ActionTimeout)
	return d
}

// LogLevel returns the parsed log level, info if unparseable
func (c *Config) LogLevel() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// ServerAddress returns the full listen address
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// TableConfig returns the game rules for a table
func (c *Config) TableConfig(logger *log.Logger) game.TableConfig {
	return game.TableConfig{
		DefaultStake: c.Table.Stake,
		StandOn:      c.Table.StandOn,
		Payout:       c.Payout(),
		Logger:       logger,
	}
}
