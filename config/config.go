// Package config handles wallet configuration.
//
// All settings here are client-side runtime configuration: which node
// to talk to, where local wallet state lives, and logging. Ledger rules
// are enforced by the node, not by this client.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Config holds wallet runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Node RPC endpoint
	Node NodeConfig

	// Wallet defaults
	Wallet WalletConfig

	// Logging
	Log LogConfig
}

// NodeConfig holds the RPC endpoint settings for the backing node.
type NodeConfig struct {
	URL            string `conf:"node.url"`
	TimeoutSeconds int    `conf:"node.timeout"`
}

// WalletConfig holds transfer defaults.
type WalletConfig struct {
	DefaultToken string `conf:"wallet.token"`
	FeeAddr      string `conf:"wallet.feeaddr"`      // Network fee collector address, empty disables the fee output.
	NetworkFee   string `conf:"wallet.networkfee"`   // Default network fee amount.
	ValidatorFee string `conf:"wallet.validatorfee"` // Default validator fee amount, empty disables the fee item.
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.qwallet
//	macOS:   ~/Library/Application Support/Qwallet
//	Windows: %APPDATA%\Qwallet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".qwallet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Qwallet")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Qwallet")
		}
		return filepath.Join(home, "AppData", "Roaming", "Qwallet")
	default:
		return filepath.Join(home, ".qwallet")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// HistoryDir returns the submission history database directory.
func (c *Config) HistoryDir() string {
	return filepath.Join(c.NetworkDataDir(), "history")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "qwallet.conf")
}
