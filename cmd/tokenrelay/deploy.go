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
	"tokenRelay/internal/deploy"
	"tokenRelay/internal/signer"
	"tokenRelay/internal/token"
)

func runDeploy(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDeploy(cfgFile, cmd.Flags())
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

	cred, err := signer.NewCredential(cfg.Deployer.Address, cfg.Deployer.PrivateKey)
	if err != nil {
		return fmt.Errorf("deployer wallet: %w", err)
	}

	artifact, err := deploy.LoadArtifact(cfg.Artifact)
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

	logger.Info("deploy start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("chain_id", chainID.String()),
		zap.String("artifact", cfg.Artifact),
	)

	deployer := deploy.NewDeployer(chainClient.Backend(), chainID, cred.Key, cfg.ConfirmDelay, logger)
	result, err := deployer.Deploy(ctx, artifact, deploy.Params{
		Name:          cfg.Name,
		Symbol:        cfg.Symbol,
		Decimals:      cfg.Decimals,
		InitialSupply: cfg.InitialSupply,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Token deployed to: %s\n", result.Address.Hex())
	fmt.Fprintf(out, "Token Name: %s\n", cfg.Name)
	fmt.Fprintf(out, "Token Symbol: %s\n", cfg.Symbol)
	fmt.Fprintf(out, "Decimals: %d\n", cfg.Decimals)
	fmt.Fprintf(out, "Initial Supply: %d\n", cfg.InitialSupply)
	fmt.Fprintf(out, "Deployed by: %s\n", result.Deployer.Hex())
	if result.Balance != nil {
		fmt.Fprintf(out, "Deployer Balance: %s\n", token.FormatUnits(result.Balance, cfg.Decimals))
	} else {
		fmt.Fprintln(out, "Balance check skipped (contract still initializing)")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Add this to your .env file:")
	fmt.Fprintf(out, "CONTRACT_ADDRESS=%s\n", result.Address.Hex())

	return nil
}
