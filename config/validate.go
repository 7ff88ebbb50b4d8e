package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks runtime wallet config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}

	if strings.TrimSpace(cfg.Node.URL) == "" {
		return fmt.Errorf("node.url is required")
	}
	u, err := url.Parse(cfg.Node.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("node.url must be an http(s) URL")
	}
	if cfg.Node.TimeoutSeconds <= 0 {
		return fmt.Errorf("node.timeout must be positive")
	}

	if cfg.Wallet.DefaultToken == "" {
		return fmt.Errorf("wallet.token is required")
	}
	// A fee amount without a collector address cannot be paid anywhere.
	if cfg.Wallet.NetworkFee != "" && cfg.Wallet.FeeAddr == "" {
		return fmt.Errorf("wallet.networkfee set without wallet.feeaddr")
	}

	return nil
}
