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
	"tokenRelay/internal/server"
	"tokenRelay/internal/signer"
	"tokenRelay/internal/storage"
	"tokenRelay/internal/storage/postgres"
	"tokenRelay/internal/token"
)

func runServer(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServer(cfgFile, cmd.Flags())
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

	credA, err := signer.NewCredential(cfg.WalletA.Address, cfg.WalletA.PrivateKey)
	if err != nil {
		return fmt.Errorf("wallet A: %w", err)
	}
	credB, err := signer.NewCredential(cfg.WalletB.Address, cfg.WalletB.PrivateKey)
	if err != nil {
		return fmt.Errorf("wallet B: %w", err)
	}
	router, err := signer.NewRouter(credA, credB)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	chainID, err := chainClient.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("chain id: %w", err)
	}

	tokenBinding, err := token.New(contract, chainClient.Backend(), chainID)
	if err != nil {
		return err
	}

	journal, closeJournal, err := openJournal(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeJournal()

	logger.Info("server start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("chain_id", chainID.String()),
		zap.String("contract", contract.Hex()),
		zap.String("wallet_a", credA.Address.Hex()),
		zap.String("wallet_b", credB.Address.Hex()),
		zap.String("journal", cfg.JournalPath),
		zap.Bool("pg_journal", cfg.PGDSN != ""),
		zap.String("listen", cfg.Listen),
	)

	srv := server.New(server.Options{
		Token:    tokenBinding,
		Receipts: chainClient,
		Router:   router,
		Journal:  journal,
		Network:  cfg.Network,
		Logger:   logger,
	})

	return serve(ctx, cfg.Listen, srv.Handler(), logger)
}

func openJournal(ctx context.Context, cfg config.ServerConfig) (storage.Journal, func(), error) {
	switch {
	case cfg.PGDSN != "":
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	case cfg.JournalPath != "":
		return storage.NewJsonlJournal(cfg.JournalPath), func() {}, nil
	default:
		return storage.NopJournal{}, func() {}, nil
	}
}
