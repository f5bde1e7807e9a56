package token

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"tokenRelay/internal/model"
)

// Backend is the chain surface needed to call, transact and wait on the token contract.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Writer submits state-changing calls signed by one key and waits for their receipts.
type Writer interface {
	Address() common.Address
	Mint(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error)
	Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error)
	Approve(ctx context.Context, spender common.Address, amount *big.Int) (*types.Receipt, error)
	TransferFrom(ctx context.Context, from, to common.Address, amount *big.Int) (*types.Receipt, error)
	Burn(ctx context.Context, amount *big.Int) (*types.Receipt, error)
}

// Token is a binding to the deployed token contract.
type Token struct {
	address  common.Address
	abi      abi.ABI
	backend  Backend
	chainID  *big.Int
	contract *bind.BoundContract
}

// New binds the token at address. chainID is used to sign transactions.
func New(address common.Address, backend Backend, chainID *big.Int) (*Token, error) {
	parsed, err := ABI()
	if err != nil {
		return nil, fmt.Errorf("parse token abi: %w", err)
	}
	if chainID == nil {
		return nil, fmt.Errorf("chain id is required")
	}

	return &Token{
		address:  address,
		abi:      parsed,
		backend:  backend,
		chainID:  chainID,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

// Address returns the contract address.
func (t *Token) Address() common.Address {
	return t.address
}

func (t *Token) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, model.WrapError(model.ErrChainCallFailure, fmt.Errorf("call %s: %w", method, err))
	}
	if len(out) == 0 {
		return nil, model.Errorf(model.ErrChainCallFailure, "call %s: empty result", method)
	}
	return out, nil
}

// Name returns the token name.
func (t *Token) Name(ctx context.Context) (string, error) {
	out, err := t.call(ctx, "name")
	if err != nil {
		return "", err
	}
	name, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected name type %T", out[0])
	}
	return name, nil
}

// Symbol returns the token symbol.
func (t *Token) Symbol(ctx context.Context) (string, error) {
	out, err := t.call(ctx, "symbol")
	if err != nil {
		return "", err
	}
	symbol, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected symbol type %T", out[0])
	}
	return symbol, nil
}

// Decimals returns the token decimals.
func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals type %T", out[0])
	}
	return decimals, nil
}

// TotalSupply returns the total supply in base units.
func (t *Token) TotalSupply(ctx context.Context) (*big.Int, error) {
	out, err := t.call(ctx, "totalSupply")
	if err != nil {
		return nil, err
	}
	return asBigInt(out[0])
}

// BalanceOf returns the balance of account in base units.
func (t *Token) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	out, err := t.call(ctx, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return asBigInt(out[0])
}

// Allowance returns how much spender may move from owner, in base units.
func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	out, err := t.call(ctx, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return asBigInt(out[0])
}

// Info loads name, symbol, decimals and total supply.
func (t *Token) Info(ctx context.Context) (model.TokenInfo, error) {
	info := model.TokenInfo{ContractAddress: t.address.Hex()}

	name, err := t.Name(ctx)
	if err != nil {
		return info, err
	}
	symbol, err := t.Symbol(ctx)
	if err != nil {
		return info, err
	}
	decimals, err := t.Decimals(ctx)
	if err != nil {
		return info, err
	}
	supply, err := t.TotalSupply(ctx)
	if err != nil {
		return info, err
	}

	info.Name = name
	info.Symbol = symbol
	info.Decimals = decimals
	info.TotalSupply = FormatUnits(supply, decimals)
	return info, nil
}

// As returns a Writer that signs with key.
func (t *Token) As(key *ecdsa.PrivateKey) (Writer, error) {
	if key == nil {
		return nil, fmt.Errorf("signing key is nil")
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, t.chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	return &Session{token: t, opts: *opts}, nil
}

// Session is a Writer bound to one signing key.
type Session struct {
	token *Token
	opts  bind.TransactOpts
}

// Address returns the signer address.
func (s *Session) Address() common.Address {
	return s.opts.From
}

func (s *Session) transact(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error) {
	opts := s.opts
	opts.Context = ctx

	tx, err := s.token.contract.Transact(&opts, method, args...)
	if err != nil {
		return nil, model.WrapError(model.ErrChainCallFailure, err)
	}

	receipt, err := bind.WaitMined(ctx, s.token.backend, tx)
	if err != nil {
		return nil, model.WrapError(model.ErrChainCallFailure, fmt.Errorf("wait %s: %w", tx.Hash().Hex(), err))
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, model.Errorf(model.ErrChainCallFailure, "transaction reverted: %s", tx.Hash().Hex())
	}
	return receipt, nil
}

func (s *Session) Mint(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return s.transact(ctx, "mint", to, amount)
}

func (s *Session) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return s.transact(ctx, "transfer", to, amount)
}

func (s *Session) Approve(ctx context.Context, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	return s.transact(ctx, "approve", spender, amount)
}

func (s *Session) TransferFrom(ctx context.Context, from, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return s.transact(ctx, "transferFrom", from, to, amount)
}

func (s *Session) Burn(ctx context.Context, amount *big.Int) (*types.Receipt, error) {
	return s.transact(ctx, "burn", amount)
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}
