package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	gin.SetMode(gin.ReleaseMode)

	root := &cobra.Command{
		Use:          "tokenrelay",
		Short:        "ERC-20 explorer and signing server",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	explorerCmd := &cobra.Command{
		Use:   "explorer",
		Short: "Run the read-only explorer API",
		RunE:  runExplorer,
	}

	explorerCmd.Flags().String("rpc", "", "chain RPC URL")
	explorerCmd.Flags().String("contract", "", "tracked token contract address")
	explorerCmd.Flags().String("port", "4000", "listen port")
	explorerCmd.Flags().String("listen", "", "listen address (overrides port)")
	explorerCmd.Flags().String("network", "Giwa Sepolia", "network name reported by /health")
	explorerCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(explorerCmd)

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Run the signing server API",
		RunE:  runServer,
	}

	serverCmd.Flags().String("rpc", "", "chain RPC URL")
	serverCmd.Flags().String("contract", "", "token contract address")
	serverCmd.Flags().String("port", "3000", "listen port")
	serverCmd.Flags().String("listen", "", "listen address (overrides port)")
	serverCmd.Flags().String("network", "Giwa Sepolia", "network name reported by /health")
	serverCmd.Flags().String("journal", "", "optional JSONL submission journal path")
	serverCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for the submission journal")
	serverCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serverCmd)

	deployCmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the token contract from a compiled artifact",
		RunE:  runDeploy,
	}

	deployCmd.Flags().String("rpc", "", "chain RPC URL")
	deployCmd.Flags().String("artifact", "", "Hardhat artifact JSON path")
	deployCmd.Flags().String("name", "MyToken", "token name")
	deployCmd.Flags().String("symbol", "MTK", "token symbol")
	deployCmd.Flags().Uint("decimals", 18, "token decimals")
	deployCmd.Flags().Uint64("initial-supply", 1000000, "initial supply in whole tokens")
	deployCmd.Flags().Duration("confirm-delay", 3*time.Second, "wait after deployment before reading state")
	deployCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(deployCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// serve runs handler on addr until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("http shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
