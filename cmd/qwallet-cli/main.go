// qwallet-cli is a command-line wallet client for a qmesh ledger node.
//
// Signing is detached: "prepare" produces the exact payload an external
// signer must cover, "submit" attaches the signature and sends the
// finished document to the node.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/qmesh-im/qwallet/config"
	"github.com/qmesh-im/qwallet/internal/history"
	"github.com/qmesh-im/qwallet/internal/log"
	"github.com/qmesh-im/qwallet/internal/node"
	"github.com/qmesh-im/qwallet/internal/storage"
	"github.com/qmesh-im/qwallet/internal/wallet"
	"github.com/qmesh-im/qwallet/pkg/tx"
	"github.com/qmesh-im/qwallet/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	rpcURL := ""
	dataDir := ""
	network := "mainnet"

	// Scan for --rpc, --datadir and --network before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg := loadConfig(network, dataDir, rpcURL)
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("init logging: %v", err)
	}

	client := node.NewWithTimeout(cfg.Node.URL, time.Duration(cfg.Node.TimeoutSeconds)*time.Second)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "init":
		cmdInit(cfg)
	case "prepare":
		cmdPrepare(cfg, cmdArgs)
	case "submit":
		cmdSubmit(cfg, client, cmdArgs)
	case "balance":
		cmdBalance(cfg, client, cmdArgs)
	case "tx":
		cmdTx(client, cmdArgs)
	case "block":
		cmdBlock(client, cmdArgs)
	case "history":
		cmdHistory(cfg)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: qwallet-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         Node RPC endpoint (overrides config)
  --datadir <path>    Data directory (default: ~/.qwallet)
  --network <net>     mainnet (default) or testnet

Commands:
  init                            Write a default config file
  prepare --utxos <file.json> --to <addr> --amount <amt> [flags]
                                  Assemble a transfer and emit the signing payload
  submit --prepared <file.json> --pubkey <file> --sig <file>
                                  Attach a signature and submit to the node
  balance <address> [--token <t>] Show address balance
  tx <hash>                       Show transaction details
  block <hash>                    Show block details
  history                         Show locally recorded submissions

Prepare flags:
  --utxos <file>      JSON array of spendable UTXOs ({prev_hash, out_prev_idx, value})
  --to <address>      Recipient address
  --amount <amt>      Amount to send (decimal string, sent verbatim)
  --token <t>         Token (default from config)
  --change <address>  Change address; enables coin selection over the UTXO file
  --out <file>        Prepared transfer output (default: prepared.json)
  --payload <file>    Signing payload output (default: payload.bin)
`)
}

// loadConfig builds the effective config: network defaults, then the
// config file in the data directory, then command-line overrides.
func loadConfig(network, dataDir, rpcURL string) *config.Config {
	cfg := config.Default(config.NetworkType(network))
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	values, err := config.LoadFile(cfg.ConfigFile())
	if err != nil {
		fatal("load config: %v", err)
	}
	if err := config.ApplyFileConfig(cfg, values); err != nil {
		fatal("apply config: %v", err)
	}

	// Command line wins over the file.
	cfg.Network = config.NetworkType(network)
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if rpcURL != "" {
		cfg.Node.URL = rpcURL
	}

	if err := config.Validate(cfg); err != nil {
		fatal("invalid config: %v", err)
	}
	return cfg
}

// ── init ────────────────────────────────────────────────────────────────

func cmdInit(cfg *config.Config) {
	path := cfg.ConfigFile()
	if _, err := os.Stat(path); err == nil {
		fatal("config file already exists: %s", path)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		fatal("create data directory: %v", err)
	}
	if err := config.WriteDefaultConfig(path, cfg.Network); err != nil {
		fatal("write config: %v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

// ── prepare ─────────────────────────────────────────────────────────────

func cmdPrepare(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("prepare", flag.ExitOnError)
	utxosFile := fs.String("utxos", "", "JSON file with spendable UTXOs")
	toAddr := fs.String("to", "", "Recipient address")
	amountStr := fs.String("amount", "", "Amount to send (decimal string)")
	token := fs.String("token", cfg.Wallet.DefaultToken, "Token")
	changeAddr := fs.String("change", "", "Change address (enables coin selection)")
	outFile := fs.String("out", "prepared.json", "Prepared transfer output file")
	payloadFile := fs.String("payload", "payload.bin", "Signing payload output file")
	fs.Parse(args)

	if *utxosFile == "" || *toAddr == "" || *amountStr == "" {
		fatal("Usage: qwallet-cli prepare --utxos <file.json> --to <addr> --amount <amt> [--change <addr>]")
	}

	amount, err := types.ParseAmount(*amountStr)
	if err != nil {
		fatal("invalid amount: %v", err)
	}

	data, err := os.ReadFile(*utxosFile)
	if err != nil {
		fatal("read utxos file: %v", err)
	}
	var utxos []wallet.UTXO
	if err := json.Unmarshal(data, &utxos); err != nil {
		fatal("parse utxos JSON: %v", err)
	}

	params := tx.TransferParams{
		To:     *toAddr,
		Amount: amount,
		Token:  *token,
	}
	if cfg.Wallet.NetworkFee != "" && cfg.Wallet.FeeAddr != "" {
		params.NetworkFee = types.Amount(cfg.Wallet.NetworkFee)
		params.NetworkFeeAddr = cfg.Wallet.FeeAddr
	}
	if cfg.Wallet.ValidatorFee != "" {
		params.ValidatorFee = types.Amount(cfg.Wallet.ValidatorFee)
	}

	if *changeAddr != "" {
		// Coin selection: fund amount + fees, pay the remainder back.
		sel := selectFunding(utxos, params)
		params.UTXOs = sel.Refs()
		if sel.Change.IsPositive() {
			params.ChangeAddr = *changeAddr
			params.ChangeAmount = types.Amount(sel.Change.String())
		}
	} else {
		// Spend the file verbatim; the caller owns the arithmetic.
		refs := make([]types.UtxoRef, len(utxos))
		for i, u := range utxos {
			refs[i] = u.Ref()
		}
		params.UTXOs = refs
	}

	// Assemble once to produce the signing payload. Submit re-assembles
	// from the saved params and gets byte-identical items back.
	a := tx.NewAssembler()
	if err := a.Assemble(params); err != nil {
		fatal("assemble: %v", err)
	}

	prepared, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		fatal("encode prepared transfer: %v", err)
	}
	if err := os.WriteFile(*outFile, prepared, 0644); err != nil {
		fatal("write %s: %v", *outFile, err)
	}
	if err := os.WriteFile(*payloadFile, a.Unsigned(), 0644); err != nil {
		fatal("write %s: %v", *payloadFile, err)
	}

	fmt.Printf("Prepared: %s (%d items)\n", *outFile, a.Items())
	fmt.Printf("Signing payload: %s\n", *payloadFile)
	fmt.Println("\nSign the payload, then run:")
	fmt.Printf("  qwallet-cli submit --prepared %s --pubkey <pub.bin> --sig <sig.bin>\n", *outFile)
}

// selectFunding runs coin selection for amount + configured fees.
func selectFunding(utxos []wallet.UTXO, params tx.TransferParams) *wallet.CoinSelection {
	amount, err := params.Amount.Decimal()
	if err != nil {
		fatal("invalid amount: %v", err)
	}
	target := amount
	for _, fee := range []types.Amount{params.NetworkFee, params.ValidatorFee} {
		if fee == "" {
			continue
		}
		d, err := fee.Decimal()
		if err != nil {
			fatal("invalid fee amount %q: %v", fee, err)
		}
		target = target.Add(d)
	}

	sel, err := wallet.SelectCoins(utxos, target)
	if err != nil {
		fatal("coin selection: %v", err)
	}
	return sel
}

// ── submit ──────────────────────────────────────────────────────────────

func cmdSubmit(cfg *config.Config, client *node.Client, args []string) {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	preparedFile := fs.String("prepared", "", "Prepared transfer file from 'prepare'")
	pubKeyFile := fs.String("pubkey", "", "Raw public key file")
	sigFile := fs.String("sig", "", "Raw signature file")
	fs.Parse(args)

	if *preparedFile == "" || *pubKeyFile == "" || *sigFile == "" {
		fatal("Usage: qwallet-cli submit --prepared <file.json> --pubkey <file> --sig <file>")
	}

	data, err := os.ReadFile(*preparedFile)
	if err != nil {
		fatal("read prepared transfer: %v", err)
	}
	var params tx.TransferParams
	if err := json.Unmarshal(data, &params); err != nil {
		fatal("parse prepared transfer: %v", err)
	}

	pubKey, err := os.ReadFile(*pubKeyFile)
	if err != nil {
		fatal("read public key: %v", err)
	}
	sig, err := os.ReadFile(*sigFile)
	if err != nil {
		fatal("read signature: %v", err)
	}

	a := tx.NewAssembler()
	if err := a.Assemble(params); err != nil {
		fatal("assemble: %v", err)
	}
	if err := a.AddSignature(pubKey, sig); err != nil {
		fatal("attach signature: %v", err)
	}
	doc, err := a.Finalize(time.Now().Unix())
	if err != nil {
		fatal("finalize: %v", err)
	}
	log.Tx.Debug().Int("items", a.Items()).Int("bytes", len(doc)).Msg("Finalized transaction document")

	resp, err := client.SubmitTx(doc)
	if err != nil {
		fatal("submit: %v", err)
	}

	hash := recordSubmission(cfg, doc, params, resp)
	fmt.Printf("Submitted: %s\n", hash)
	fmt.Printf("Reply type %d, id %d\n", resp.Type, resp.ID)
	if len(resp.Result) > 0 {
		fmt.Printf("Result: %s\n", resp.Result)
	}
}

// recordSubmission journals a submitted document. Journal trouble must
// not mask a successful submission, so failures only warn.
func recordSubmission(cfg *config.Config, doc []byte, params tx.TransferParams, resp *node.Response) types.Hash {
	db, err := storage.NewBadger(cfg.HistoryDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
		return types.Hash{}
	}
	defer db.Close()

	hash, err := history.New(db).Add(doc, history.Record{
		To:        params.To,
		Amount:    params.Amount,
		Token:     params.Token,
		TsCreated: time.Now().Unix(),
		ReplyType: resp.Type,
		ReplyID:   resp.ID,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: record submission: %v\n", err)
	}
	return hash
}

// ── balance ─────────────────────────────────────────────────────────────

func cmdBalance(cfg *config.Config, client *node.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: qwallet-cli balance <address> [--token <t>]")
	}
	addr := args[0]

	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	token := fs.String("token", cfg.Wallet.DefaultToken, "Token")
	fs.Parse(args[1:])

	resp, err := client.GetBalance(addr, *token)
	if err != nil {
		fatal("balance: %v", err)
	}

	fmt.Printf("Address: %s\n", addr)
	fmt.Printf("Token:   %s\n", *token)
	printResult(resp.Result)
}

// ── tx / block ──────────────────────────────────────────────────────────

func cmdTx(client *node.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: qwallet-cli tx <hash>")
	}
	hash, err := types.HexToHash(args[0])
	if err != nil {
		fatal("invalid hash: %v", err)
	}

	resp, err := client.GetTx(hash)
	if err != nil {
		fatal("tx: %v", err)
	}
	printResult(resp.Result)
}

func cmdBlock(client *node.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: qwallet-cli block <hash>")
	}
	hash, err := types.HexToHash(args[0])
	if err != nil {
		fatal("invalid hash: %v", err)
	}

	resp, err := client.GetBlock(hash)
	if err != nil {
		fatal("block: %v", err)
	}
	printResult(resp.Result)
}

// ── history ─────────────────────────────────────────────────────────────

func cmdHistory(cfg *config.Config) {
	db, err := storage.NewBadger(cfg.HistoryDir())
	if err != nil {
		fatal("open history: %v", err)
	}
	defer db.Close()

	records, err := history.New(db).List()
	if err != nil {
		fatal("list history: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No recorded submissions.")
		return
	}

	for _, r := range records {
		ts := time.Unix(r.TsCreated, 0).UTC()
		fmt.Printf("%s  %s\n", ts.Format("2006-01-02 15:04:05"), r.Hash)
		fmt.Printf("  To:     %s\n", r.To)
		fmt.Printf("  Amount: %s %s\n", r.Amount, r.Token)
		fmt.Println()
	}
}

// ── helpers ─────────────────────────────────────────────────────────────

// printResult pretty-prints a raw result payload, falling back to the
// raw bytes when it is not valid JSON.
func printResult(raw json.RawMessage) {
	if len(raw) == 0 {
		fmt.Println("(empty result)")
		return
	}
	var buf map[string]interface{}
	if err := json.Unmarshal(raw, &buf); err != nil {
		fmt.Printf("%s\n", raw)
		return
	}
	pretty, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		fmt.Printf("%s\n", raw)
		return
	}
	fmt.Printf("%s\n", pretty)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
