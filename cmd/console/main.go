package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/defistate/swap-engine-go/cmd/console/config"
	"github.com/defistate/swap-engine-go/engine"
	"github.com/defistate/swap-engine-go/protocols/swapregistry"
	"github.com/defistate/swap-engine-go/stateops"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultEventBufferSize = 100

	genesisVersion = 0
)

func main() {
	// create the log handler
	rootLogHandler := slog.NewJSONHandler(os.Stderr, nil)
	close := func() {
		os.Exit(1)
	}

	rootLogger := slog.New(rootLogHandler)
	prometheusRegistry := prometheus.DefaultRegisterer
	cfg, err := loadConfig()
	if err != nil {
		rootLogger.Error("Failed to load configuration", "error", err)
		close()
	}

	// Create a context that cancels when the OS sends an interrupt (Ctrl+C) or termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := engine.NewChannelSink(rootLogger.With("component", "event-sink"), DefaultEventBufferSize)
	system, err := swapregistry.NewSystem(&swapregistry.SystemConfig{
		Logger:   rootLogger.With("component", "swap-registry"),
		Events:   engine.MultiSink(engine.NewLogSink(rootLogger), events),
		Registry: prometheusRegistry,
	})
	if err != nil {
		rootLogger.Error("Failed to initialize swap registry system", "error", err)
		close()
	}

	ops, err := stateops.NewStateOps(rootLogger.With("component", "stateops"), prometheusRegistry)
	if err != nil {
		rootLogger.Error("Failed to initialize State Ops", "error", err)
		close()
	}

	// Populate the directory, then snapshot genesis before the scripted ops run.
	for _, token := range cfg.Tokens {
		if err := system.AddToken(token.Name); err != nil {
			rootLogger.Error("Failed to add token", "token", token.Name, "error", err)
			close()
		}
		if token.Balance > 0 {
			if err := system.Credit(token.Name, token.Balance); err != nil {
				rootLogger.Error("Failed to seed token balance", "token", token.Name, "error", err)
				close()
			}
		}
	}
	for _, pool := range cfg.Pools {
		if err := system.AddPool(pool.TokenA, pool.TokenB, pool.ReserveA, pool.ReserveB); err != nil {
			rootLogger.Error("Failed to add pool",
				"poolKey", swapregistry.PoolKey(pool.TokenA, pool.TokenB), "error", err)
			close()
		}
	}

	genesis, err := stateops.BuildState(cfg.EngineID, genesisVersion, system.View())
	if err != nil {
		rootLogger.Error("Failed to build genesis state", "error", err)
		close()
	}

	runOps(ctx, rootLogger, system, cfg.Ops)

	final, err := stateops.BuildState(cfg.EngineID, genesisVersion+1, system.View())
	if err != nil {
		rootLogger.Error("Failed to build final state", "error", err)
		close()
	}

	diff, err := ops.Diff(genesis, final)
	if err != nil {
		rootLogger.Error("Failed to diff states", "error", err)
		close()
	}

	// Drain whatever the swaps emitted.
	var emitted []engine.SwapEvent
	for {
		select {
		case event := <-events.Events():
			emitted = append(emitted, event)
			continue
		default:
		}
		break
	}

	printJSON(rootLogger, map[string]any{
		"state":  final,
		"diff":   diff,
		"events": emitted,
	})
}

func runOps(ctx context.Context, logger *slog.Logger, system *swapregistry.System, ops []config.OpConfig) {
	for i, op := range ops {
		select {
		case <-ctx.Done():
			logger.Warn("Interrupted, stopping scenario", "completed", i)
			return
		default:
		}

		switch op.Op {
		case "addLiquidity":
			if err := system.AddLiquidity(op.PoolA, op.PoolB, op.AmountA, op.AmountB); err != nil {
				logger.Warn("addLiquidity refused", "op", i, "error", err)
			}
		case "swap":
			amountOut, err := system.Swap(op.PoolA, op.PoolB, op.From, op.To, op.Amount)
			if err != nil {
				logger.Warn("swap refused", "op", i, "error", err)
			} else {
				logger.Info("swap executed", "op", i, "amountOut", amountOut)
			}
		case "price":
			price, err := system.Price(op.PoolA, op.PoolB)
			if err != nil {
				logger.Warn("price unavailable", "op", i, "error", err)
			} else {
				logger.Info("price", "op", i,
					"poolKey", swapregistry.PoolKey(op.PoolA, op.PoolB), "price", price)
			}
		case "balance":
			balance, err := system.TokenBalance(op.From)
			if err != nil {
				logger.Warn("balance unavailable", "op", i, "error", err)
			} else {
				logger.Info("balance", "op", i, "token", op.From, "balance", balance)
			}
		}
	}
}

func printJSON(logger *slog.Logger, payload any) {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		logger.Error("Failed to encode output", "error", err)
		return
	}
	fmt.Println(string(encoded))
}

func loadConfig() (*config.ConsoleConfig, error) {
	configPath := flag.String("config", "scenario.yaml", "Path to the scenario file.")
	flag.Parse()
	log.Printf("Loading scenario from: %s", *configPath)
	return config.LoadConfig(*configPath)
}
