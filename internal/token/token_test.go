package token

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"tokenRelay/internal/model"
)

type fakeBackend struct {
	Backend

	mu            sync.Mutex
	responses     map[string][]interface{}
	sent          []*types.Transaction
	receiptStatus uint64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		responses:     make(map[string][]interface{}),
		receiptStatus: types.ReceiptStatusSuccessful,
	}
}

func (f *fakeBackend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	parsed, err := ABI()
	if err != nil {
		return nil, err
	}
	method, err := parsed.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	values, ok := f.responses[method.Name]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return method.Outputs.Pack(values...)
}

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x01}, nil
}

func (f *fakeBackend) PendingCodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x01}, nil
}

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(100)}, nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.sent)), nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 60000, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{
		TxHash:      hash,
		Status:      f.receiptStatus,
		BlockNumber: big.NewInt(101),
		GasUsed:     51000,
	}, nil
}

func TestTokenReads(t *testing.T) {
	backend := newFakeBackend()
	supply := new(big.Int).Mul(big.NewInt(1_000_000), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	backend.responses["name"] = []interface{}{"MyToken"}
	backend.responses["symbol"] = []interface{}{"MTK"}
	backend.responses["decimals"] = []interface{}{uint8(18)}
	backend.responses["totalSupply"] = []interface{}{supply}

	contract := common.HexToAddress("0x1111111111111111111111111111111111111111")
	tok, err := New(contract, backend, big.NewInt(91342))
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	info, err := tok.Info(context.Background())
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Name != "MyToken" || info.Symbol != "MTK" || info.Decimals != 18 {
		t.Fatalf("info mismatch: %+v", info)
	}
	if info.TotalSupply != "1000000.0" {
		t.Fatalf("total supply mismatch: %s", info.TotalSupply)
	}
	if info.ContractAddress != contract.Hex() {
		t.Fatalf("contract address mismatch: %s", info.ContractAddress)
	}
}

func TestTokenCallFailure(t *testing.T) {
	backend := newFakeBackend()
	tok, err := New(common.HexToAddress("0x1111111111111111111111111111111111111111"), backend, big.NewInt(1))
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	_, err = tok.Decimals(context.Background())
	if !errors.Is(err, model.ErrChainCallFailure) {
		t.Fatalf("expected chain call failure, got %v", err)
	}
}

func TestSessionTransfer(t *testing.T) {
	backend := newFakeBackend()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	tok, err := New(common.HexToAddress("0x1111111111111111111111111111111111111111"), backend, big.NewInt(91342))
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	writer, err := tok.As(key)
	if err != nil {
		t.Fatalf("as: %v", err)
	}
	if writer.Address() != crypto.PubkeyToAddress(key.PublicKey) {
		t.Fatalf("writer address mismatch")
	}

	to := common.HexToAddress("0x2222222222222222222222222222222222222222")
	receipt, err := writer.Transfer(context.Background(), to, big.NewInt(5))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if receipt.BlockNumber.Uint64() != 101 {
		t.Fatalf("block number mismatch: %s", receipt.BlockNumber)
	}

	if len(backend.sent) != 1 {
		t.Fatalf("expected one sent transaction, got %d", len(backend.sent))
	}
	tx := backend.sent[0]
	if receipt.TxHash != tx.Hash() {
		t.Fatalf("receipt hash mismatch")
	}

	parsed, _ := ABI()
	method, err := parsed.MethodById(tx.Data()[:4])
	if err != nil {
		t.Fatalf("method by id: %v", err)
	}
	if method.Name != "transfer" {
		t.Fatalf("unexpected method %s", method.Name)
	}
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if args[0].(common.Address) != to || args[1].(*big.Int).Int64() != 5 {
		t.Fatalf("args mismatch: %v", args)
	}

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(91342)), tx)
	if err != nil {
		t.Fatalf("sender: %v", err)
	}
	if sender != writer.Address() {
		t.Fatalf("transaction not signed by writer key")
	}
}

func TestSessionReverted(t *testing.T) {
	backend := newFakeBackend()
	backend.receiptStatus = types.ReceiptStatusFailed

	key, _ := crypto.GenerateKey()
	tok, err := New(common.HexToAddress("0x1111111111111111111111111111111111111111"), backend, big.NewInt(1))
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	writer, err := tok.As(key)
	if err != nil {
		t.Fatalf("as: %v", err)
	}

	_, err = writer.Burn(context.Background(), big.NewInt(1))
	if !errors.Is(err, model.ErrChainCallFailure) {
		t.Fatalf("expected chain call failure, got %v", err)
	}
}
