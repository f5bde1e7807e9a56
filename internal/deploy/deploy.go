package deploy

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"tokenRelay/internal/token"
)

// Params are the token constructor arguments.
type Params struct {
	Name          string
	Symbol        string
	Decimals      uint8
	InitialSupply uint64
}

// Result describes a finished deployment.
type Result struct {
	Address  common.Address
	TxHash   common.Hash
	Deployer common.Address
	// Balance is the deployer's token balance in base units; nil when the read failed.
	Balance *big.Int
}

// Deployer deploys token artifacts signed by one key.
type Deployer struct {
	backend      token.Backend
	chainID      *big.Int
	key          *ecdsa.PrivateKey
	confirmDelay time.Duration
	logger       *zap.Logger
}

func NewDeployer(backend token.Backend, chainID *big.Int, key *ecdsa.PrivateKey, confirmDelay time.Duration, logger *zap.Logger) *Deployer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deployer{
		backend:      backend,
		chainID:      chainID,
		key:          key,
		confirmDelay: confirmDelay,
		logger:       logger,
	}
}

// Deploy sends the creation transaction, waits for the code to land and reads back the
// deployer balance. The balance read is best effort.
func (d *Deployer) Deploy(ctx context.Context, artifact Artifact, params Params) (Result, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(d.key, d.chainID)
	if err != nil {
		return Result{}, fmt.Errorf("build transactor: %w", err)
	}
	opts.Context = ctx
	deployer := crypto.PubkeyToAddress(d.key.PublicKey)

	d.logger.Info("deploying contract",
		zap.String("contract", artifact.ContractName),
		zap.String("name", params.Name),
		zap.String("symbol", params.Symbol),
		zap.Uint8("decimals", params.Decimals),
		zap.Uint64("initial_supply", params.InitialSupply),
		zap.String("deployer", deployer.Hex()),
	)

	address, tx, _, err := bind.DeployContract(opts, artifact.ABI, artifact.Bytecode, d.backend,
		params.Name, params.Symbol, params.Decimals, new(big.Int).SetUint64(params.InitialSupply))
	if err != nil {
		return Result{}, fmt.Errorf("deploy contract: %w", err)
	}
	d.logger.Info("deployment sent", zap.String("tx", tx.Hash().Hex()), zap.String("address", address.Hex()))

	if _, err := bind.WaitDeployed(ctx, d.backend, tx); err != nil {
		return Result{}, fmt.Errorf("wait deployed: %w", err)
	}
	d.logger.Info("contract deployed", zap.String("address", address.Hex()))

	if d.confirmDelay > 0 {
		d.logger.Info("waiting for block confirmation", zap.Duration("delay", d.confirmDelay))
		timer := time.NewTimer(d.confirmDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	result := Result{Address: address, TxHash: tx.Hash(), Deployer: deployer}

	bound, err := token.New(address, d.backend, d.chainID)
	if err != nil {
		return result, err
	}
	balance, err := bound.BalanceOf(ctx, deployer)
	if err != nil {
		d.logger.Warn("balance check skipped", zap.Error(err))
		return result, nil
	}
	result.Balance = balance
	return result, nil
}
