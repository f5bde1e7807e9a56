package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"tokenRelay/internal/model"
)

// Client wraps go-ethereum RPC and provides helper methods.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// Transaction is the node's view of a transaction. It is read field by field so that
// chain-specific types such as OP-stack deposits are served as well.
type Transaction struct {
	Hash        common.Hash
	Type        uint64
	From        common.Address
	To          *common.Address
	Value       *big.Int
	Gas         uint64
	GasPrice    *big.Int
	Nonce       uint64
	Input       []byte
	BlockHash   *common.Hash
	BlockNumber *uint64
}

// Receipt is a receipt together with the sender/recipient reported by the node.
type Receipt struct {
	*types.Receipt
	From common.Address
	To   *common.Address
}

// Block is the header-level view of a block.
type Block struct {
	Number       uint64
	Hash         common.Hash
	Timestamp    uint64
	Transactions []common.Hash
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// Backend exposes the ethclient for contract bindings.
func (c *Client) Backend() *ethclient.Client {
	return c.ethClient
}

// ChainID returns the chain ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.ethClient.ChainID(ctx)
}

// TransactionByHash fetches a transaction. Unknown hashes return model.ErrNotFound.
func (c *Client) TransactionByHash(ctx context.Context, hash common.Hash) (*Transaction, error) {
	var raw json.RawMessage
	if err := c.rpcClient.CallContext(ctx, &raw, "eth_getTransactionByHash", hash); err != nil {
		return nil, err
	}
	if isNull(raw) {
		return nil, model.ErrNotFound
	}

	return decodeTransaction(raw)
}

type rpcTransaction struct {
	Hash         common.Hash     `json:"hash"`
	Type         hexutil.Uint64  `json:"type"`
	From         common.Address  `json:"from"`
	To           *common.Address `json:"to"`
	Value        *hexutil.Big    `json:"value"`
	Gas          hexutil.Uint64  `json:"gas"`
	GasPrice     *hexutil.Big    `json:"gasPrice"`
	MaxFeePerGas *hexutil.Big    `json:"maxFeePerGas"`
	Nonce        hexutil.Uint64  `json:"nonce"`
	Input        hexutil.Bytes   `json:"input"`
	BlockHash    *common.Hash    `json:"blockHash"`
	BlockNumber  *hexutil.Uint64 `json:"blockNumber"`
}

func decodeTransaction(raw json.RawMessage) (*Transaction, error) {
	var rpcTx rpcTransaction
	if err := json.Unmarshal(raw, &rpcTx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}

	tx := &Transaction{
		Hash:      rpcTx.Hash,
		Type:      uint64(rpcTx.Type),
		From:      rpcTx.From,
		To:        rpcTx.To,
		Value:     new(big.Int),
		Gas:       uint64(rpcTx.Gas),
		GasPrice:  new(big.Int),
		Nonce:     uint64(rpcTx.Nonce),
		Input:     rpcTx.Input,
		BlockHash: rpcTx.BlockHash,
	}
	if rpcTx.Value != nil {
		tx.Value = rpcTx.Value.ToInt()
	}
	switch {
	case rpcTx.GasPrice != nil:
		tx.GasPrice = rpcTx.GasPrice.ToInt()
	case rpcTx.MaxFeePerGas != nil:
		tx.GasPrice = rpcTx.MaxFeePerGas.ToInt()
	}
	if rpcTx.BlockNumber != nil {
		number := uint64(*rpcTx.BlockNumber)
		tx.BlockNumber = &number
	}
	return tx, nil
}

// TransactionReceipt fetches a receipt. Unknown or pending hashes return model.ErrNotFound.
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*Receipt, error) {
	var raw json.RawMessage
	if err := c.rpcClient.CallContext(ctx, &raw, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	if isNull(raw) {
		return nil, model.ErrNotFound
	}

	receipt := new(types.Receipt)
	if err := receipt.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}

	var extra struct {
		From common.Address  `json:"from"`
		To   *common.Address `json:"to"`
	}
	if err := json.Unmarshal(raw, &extra); err != nil {
		return nil, fmt.Errorf("decode receipt extras: %w", err)
	}

	return &Receipt{Receipt: receipt, From: extra.From, To: extra.To}, nil
}

// BlockByNumber returns the header-level view of a block. A nil number means latest.
func (c *Client) BlockByNumber(ctx context.Context, number *big.Int) (*Block, error) {
	var raw json.RawMessage
	if err := c.rpcClient.CallContext(ctx, &raw, "eth_getBlockByNumber", toBlockNumArg(number), false); err != nil {
		return nil, err
	}
	if isNull(raw) {
		return nil, model.ErrNotFound
	}

	var head struct {
		Number       hexutil.Uint64 `json:"number"`
		Hash         common.Hash    `json:"hash"`
		Timestamp    hexutil.Uint64 `json:"timestamp"`
		Transactions []common.Hash  `json:"transactions"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode block: %w", err)
	}

	return &Block{
		Number:       uint64(head.Number),
		Hash:         head.Hash,
		Timestamp:    uint64(head.Timestamp),
		Transactions: head.Transactions,
	}, nil
}

// IsNotFound reports whether err means the requested object does not exist on chain.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound) || errors.Is(err, ethereum.NotFound)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func toBlockNumArg(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	return hexutil.EncodeBig(number)
}
