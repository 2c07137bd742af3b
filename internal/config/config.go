package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete application configuration
type Config struct {
	// Log is optional; a nil pointer after decoding means the block was
	// omitted and defaults apply.
	Log    *LogSettings  `hcl:"log,block"`
	Tables []TableConfig `hcl:"table,block"`
	Bots   []BotConfig   `hcl:"bot,block"`
}

// LogSettings contains logging configuration
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// TableConfig defines one table's stakes and seating
type TableConfig struct {
	Name        string `hcl:"name,label"`
	SmallBlind  int    `hcl:"small_blind"`
	MaxPlayers  int    `hcl:"max_players,optional"`
	TurnTimeout int    `hcl:"turn_timeout_seconds,optional"`
}

// BotConfig defines bots seated automatically at startup
type BotConfig struct {
	Name     string   `hcl:"name,label"`
	Strategy string   `hcl:"strategy"`
	Tables   []string `hcl:"tables,optional"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Log: &LogSettings{
			Level: "info",
		},
		Tables: []TableConfig{
			{
				Name:        "main",
				SmallBlind:  5,
				MaxPlayers:  6,
				TurnTimeout: 30,
			},
		},
	}
}

// Load reads configuration from an HCL file, falling back to defaults when
// the file does not exist.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Log == nil {
		config.Log = &LogSettings{}
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	for i := range config.Tables {
		if config.Tables[i].MaxPlayers == 0 {
			config.Tables[i].MaxPlayers = 6
		}
		if config.Tables[i].TurnTimeout == 0 {
			config.Tables[i].TurnTimeout = 30
		}
	}
	for i := range config.Bots {
		if len(config.Bots[i].Tables) == 0 {
			for _, table := range config.Tables {
				config.Bots[i].Tables = append(config.Bots[i].Tables, table.Name)
			}
		}
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := map[string]bool{}
	for _, table := range c.Tables {
		if seen[table.Name] {
			return fmt.Errorf("table %s: duplicate name", table.Name)
		}
		seen[table.Name] = true
		if table.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", table.Name)
		}
		if table.MaxPlayers < 2 || table.MaxPlayers > 12 {
			return fmt.Errorf("table %s: max players must be between 2 and 12", table.Name)
		}
		if table.TurnTimeout < 0 {
			return fmt.Errorf("table %s: turn timeout cannot be negative", table.Name)
		}
	}

	validStrategies := map[string]bool{
		"call": true,
		"rand": true,
		"fold": true,
	}
	for _, bot := range c.Bots {
		if !validStrategies[bot.Strategy] {
			return fmt.Errorf("bot %s: invalid strategy %s", bot.Name, bot.Strategy)
		}
		for _, name := range bot.Tables {
			if !seen[name] {
				return fmt.Errorf("bot %s: unknown table %s", bot.Name, name)
			}
		}
	}

	return nil
}

// TableByName returns a table configuration by name
func (c *Config) TableByName(name string) *TableConfig {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}

// BotsForTable returns all bots configured for a specific table
func (c *Config) BotsForTable(tableName string) []BotConfig {
	var bots []BotConfig
	for _, bot := range c.Bots {
		for _, table := range bot.Tables {
			if table == tableName {
				bots = append(bots, bot)
				break
			}
		}
	}
	return bots
}
