package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qwallet.conf")
	content := `# comment
network = testnet

node.url = "http://node.example:8179"
node.timeout = 30
wallet.token = CELL
log.json = true
unknown.key = ignored
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if values["network"] != "testnet" {
		t.Errorf("network = %q, want testnet", values["network"])
	}
	// Quotes are stripped.
	if values["node.url"] != "http://node.example:8179" {
		t.Errorf("node.url = %q, quotes should be stripped", values["node.url"])
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	if err != nil {
		t.Fatalf("LoadFile() on missing file error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("values = %v, want empty map", values)
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.conf")
	os.WriteFile(path, []byte("no equals sign here\n"), 0644)

	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() should fail on malformed line")
	}
}

func TestApplyFileConfig(t *testing.T) {
	cfg := DefaultMainnet()
	err := ApplyFileConfig(cfg, map[string]string{
		"network":             "testnet",
		"node.url":            "http://10.0.0.5:8179",
		"node.timeout":        "25",
		"wallet.token":        "QCELL",
		"wallet.feeaddr":      "Tfee",
		"wallet.networkfee":   "0.01",
		"wallet.validatorfee": "0.002",
		"log.level":           "debug",
		"log.json":            "yes",
	})
	if err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}

	if cfg.Network != Testnet {
		t.Errorf("Network = %q, want testnet", cfg.Network)
	}
	if cfg.Node.URL != "http://10.0.0.5:8179" || cfg.Node.TimeoutSeconds != 25 {
		t.Errorf("Node = %+v, want applied values", cfg.Node)
	}
	if cfg.Wallet.DefaultToken != "QCELL" || cfg.Wallet.FeeAddr != "Tfee" {
		t.Errorf("Wallet = %+v, want applied values", cfg.Wallet)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
}

func TestApplyFileConfig_BadTimeout(t *testing.T) {
	cfg := DefaultMainnet()
	err := ApplyFileConfig(cfg, map[string]string{"node.timeout": "soon"})
	if err == nil {
		t.Error("ApplyFileConfig() should fail on non-numeric timeout")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"testnet defaults", func(c *Config) { *c = *DefaultTestnet() }, false},
		{"bad network", func(c *Config) { c.Network = "devnet" }, true},
		{"empty node url", func(c *Config) { c.Node.URL = "" }, true},
		{"non-http url", func(c *Config) { c.Node.URL = "ftp://node:21" }, true},
		{"zero timeout", func(c *Config) { c.Node.TimeoutSeconds = 0 }, true},
		{"empty token", func(c *Config) { c.Wallet.DefaultToken = "" }, true},
		{"fee without collector", func(c *Config) { c.Wallet.NetworkFee = "0.01" }, true},
		{"fee with collector", func(c *Config) {
			c.Wallet.NetworkFee = "0.01"
			c.Wallet.FeeAddr = "Tfee"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMainnet()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qwallet.conf")
	if err := WriteDefaultConfig(path, Testnet); err != nil {
		t.Fatalf("WriteDefaultConfig() error: %v", err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() on written config error: %v", err)
	}

	cfg := Default(NetworkType(values["network"]))
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("written default config does not validate: %v", err)
	}
	if cfg.Network != Testnet {
		t.Errorf("Network = %q, want testnet", cfg.Network)
	}
	if cfg.Node.URL != "http://127.0.0.1:8179" {
		t.Errorf("Node.URL = %q, want testnet default", cfg.Node.URL)
	}
}
