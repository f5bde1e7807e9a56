package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tokenRelay/internal/chain"
	"tokenRelay/internal/config"
	"tokenRelay/internal/explorer"
	"tokenRelay/internal/logs"
)

func runExplorer(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadExplorer(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}
	contract, err := chain.ParseAddress(cfg.Contract)
	if err != nil {
		return fmt.Errorf("contract address %q: %w", cfg.Contract, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	decoder, err := logs.NewDecoder(contract, logger)
	if err != nil {
		return err
	}

	logger.Info("explorer start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("contract", contract.Hex()),
		zap.String("network", cfg.Network),
		zap.String("listen", cfg.Listen),
	)

	return serve(ctx, cfg.Listen, explorer.New(chainClient, decoder, cfg.Network, logger).Handler(), logger)
}
