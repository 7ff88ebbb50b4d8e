package config

// DefaultMainnet returns the default wallet configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Node: NodeConfig{
			URL:            "http://127.0.0.1:8079",
			TimeoutSeconds: 10,
		},
		Wallet: WalletConfig{
			DefaultToken: "CELL",
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default wallet configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.Node.URL = "http://127.0.0.1:8179"
	return cfg
}

// Default returns the default wallet configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}
