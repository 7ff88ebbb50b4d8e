package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads wallet configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(value)
	case "datadir":
		cfg.DataDir = value

	// Node RPC
	case "node.url", "rpc":
		cfg.Node.URL = value
	case "node.timeout":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Node.TimeoutSeconds = n

	// Wallet defaults
	case "wallet.token", "token":
		cfg.Wallet.DefaultToken = value
	case "wallet.feeaddr":
		cfg.Wallet.FeeAddr = value
	case "wallet.networkfee":
		cfg.Wallet.NetworkFee = value
	case "wallet.validatorfee":
		cfg.Wallet.ValidatorFee = value

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default wallet configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	content := `# Qwallet Configuration
#
# Client-side settings only. Ledger rules are enforced by the node.

# Network: mainnet or testnet
network = ` + string(network) + `

# Data directory (default: ~/.qwallet)
# datadir = ~/.qwallet

# ============================================================================
# Node RPC
# ============================================================================

node.url = ` + defaultNodeURL(network) + `

# Request timeout in seconds
node.timeout = 10

# ============================================================================
# Wallet
# ============================================================================

# Default token for transfers and balance queries
wallet.token = CELL

# Network fee collector address (empty disables the network fee output)
# wallet.feeaddr =

# Default network fee amount
# wallet.networkfee = 0.01

# Default validator fee amount (empty disables the validator fee item)
# wallet.validatorfee =

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}

func defaultNodeURL(network NetworkType) string {
	if network == Testnet {
		return "http://127.0.0.1:8179"
	}
	return "http://127.0.0.1:8079"
}
