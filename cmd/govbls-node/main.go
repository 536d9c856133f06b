// govbls-node hosts a governance wallet instance plus the monitoring
// endpoint under one lifecycle manager. The wallet config is the public
// JSON file written by govbls-keygen.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/zmlAEQ/govbls/internal/bls/sig"
	"github.com/zmlAEQ/govbls/internal/monitoring"
	"github.com/zmlAEQ/govbls/internal/wallet"
	"github.com/zmlAEQ/govbls/pkg/bus"
	"github.com/zmlAEQ/govbls/pkg/lifecycle"
	"github.com/zmlAEQ/govbls/pkg/logger"
)

type walletFile struct {
	Mode      string `json:"mode"`
	DST       string `json:"dst"`
	Threshold int    `json:"threshold"`
	Members   []struct {
		PublicKey string `json:"public_key"`
		IDPoint   string `json:"id_point"`
	} `json:"members"`
	MinGasLimit uint64 `json:"min_gas_limit,omitempty"`
}

// logExecutor records the outbound call; hosts embedding the wallet replace
// it with a real dispatcher.
type logExecutor struct{}

func (logExecutor) Call(target wallet.Address, value *big.Int, gasLimit uint64, payload []byte) error {
	logger.InfoJ("executor_call", map[string]any{
		"target": target.Hex(), "gas_limit": gasLimit, "payload_len": len(payload),
	})
	return nil
}

func main() {
	var (
		monAddr     string
		cfgPath     string
		journalPath string
	)
	flag.StringVar(&monAddr, "monitoring", "127.0.0.1:4620", "Monitoring listen address")
	flag.StringVar(&cfgPath, "config", "govbls-keys/govbls-wallet.json", "Wallet config path")
	flag.StringVar(&journalPath, "journal", "", "Status transition journal path (empty disables)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	cfg.Executor = logExecutor{}
	cfg.Bus = bus.New(256)
	cfg.JournalPath = journalPath

	w, err := wallet.New(*cfg)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	m := lifecycle.New()
	m.Add(monitoring.New(monAddr))
	m.Add(w)

	if err := m.StartAll(ctx); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	<-ctx.Done()
	_ = m.StopAll(context.Background())
}

func loadConfig(path string) (*wallet.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wf walletFile
	if err := json.Unmarshal(b, &wf); err != nil {
		return nil, err
	}
	var mode sig.Mode
	switch wf.Mode {
	case "pk-on-g1":
		mode = sig.ModePKOnG1
	case "pk-on-g2":
		mode = sig.ModePKOnG2
	default:
		return nil, errors.New("unknown mode: " + wf.Mode)
	}
	cfg := &wallet.Config{
		Mode:        mode,
		DST:         wf.DST,
		Threshold:   wf.Threshold,
		MinGasLimit: wf.MinGasLimit,
	}
	for i, m := range wf.Members {
		pk, err := hex.DecodeString(m.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("member %d public key: %w", i, err)
		}
		id, err := hex.DecodeString(m.IDPoint)
		if err != nil {
			return nil, fmt.Errorf("member %d id point: %w", i, err)
		}
		cfg.Members = append(cfg.Members, wallet.MemberKey{PublicKey: pk, IDPoint: id})
	}
	return cfg, nil
}
