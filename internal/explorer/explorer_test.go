package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tokenRelay/internal/chain"
	"tokenRelay/internal/logs"
	"tokenRelay/internal/model"
	"tokenRelay/internal/token"
)

var (
	trackedContract = common.HexToAddress("0x1111111111111111111111111111111111111111")
	foreignContract = common.HexToAddress("0x9999999999999999999999999999999999999999")
	sender          = common.HexToAddress("0x2222222222222222222222222222222222222222")
	recipient       = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

type fakeChain struct {
	txs      map[common.Hash]*chain.Transaction
	receipts map[common.Hash]*chain.Receipt
	blocks   map[uint64]*chain.Block
	latest   *chain.Block
	err      error
	calls    int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		txs:      make(map[common.Hash]*chain.Transaction),
		receipts: make(map[common.Hash]*chain.Receipt),
		blocks:   make(map[uint64]*chain.Block),
	}
}

func (f *fakeChain) TransactionByHash(_ context.Context, hash common.Hash) (*chain.Transaction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	tx, ok := f.txs[hash]
	if !ok {
		return nil, model.ErrNotFound
	}
	return tx, nil
}

func (f *fakeChain) TransactionReceipt(_ context.Context, hash common.Hash) (*chain.Receipt, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	receipt, ok := f.receipts[hash]
	if !ok {
		return nil, model.ErrNotFound
	}
	return receipt, nil
}

func (f *fakeChain) BlockByNumber(_ context.Context, number *big.Int) (*chain.Block, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if number == nil {
		if f.latest == nil {
			return nil, model.ErrNotFound
		}
		return f.latest, nil
	}
	block, ok := f.blocks[number.Uint64()]
	if !ok {
		return nil, model.ErrNotFound
	}
	return block, nil
}

func newTestExplorer(t *testing.T, fc *fakeChain) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	decoder, err := logs.NewDecoder(trackedContract, zap.NewNop())
	require.NoError(t, err)
	return New(fc, decoder, "Giwa Sepolia", zap.NewNop()).Handler()
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func transferLog(t *testing.T, address common.Address, value int64) *types.Log {
	t.Helper()
	parsed, err := token.ABI()
	require.NoError(t, err)
	event := parsed.Events["Transfer"]
	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(value))
	require.NoError(t, err)
	return &types.Log{
		Address: address,
		Topics: []common.Hash{
			event.ID,
			common.BytesToHash(sender.Bytes()),
			common.BytesToHash(recipient.Bytes()),
		},
		Data: data,
	}
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestExplorer(t, newFakeChain()), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","network":"Giwa Sepolia"}`, rec.Body.String())
}

func TestTransactionNotFound(t *testing.T) {
	fc := newFakeChain()
	handler := newTestExplorer(t, fc)

	rec := get(t, handler, "/api/tx/0xUNKNOWN")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"TX not found"}`, rec.Body.String())
	assert.Equal(t, 0, fc.calls)

	rec = get(t, handler, "/api/tx/0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"TX not found"}`, rec.Body.String())
}

func TestTransactionFound(t *testing.T) {
	fc := newFakeChain()
	to := recipient
	block := uint64(42)
	hash := common.HexToHash("0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b")
	fc.txs[hash] = &chain.Transaction{
		Hash:        hash,
		From:        sender,
		To:          &to,
		Value:       big.NewInt(1_500_000_000_000_000_000),
		Gas:         21000,
		GasPrice:    big.NewInt(1_000_000_000),
		Nonce:       7,
		Input:       []byte{0xca, 0xfe},
		BlockNumber: &block,
	}

	rec := get(t, newTestExplorer(t, fc), "/api/tx/"+hash.Hex())
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, hash.Hex(), body["hash"])
	assert.Equal(t, sender.Hex(), body["from"])
	assert.Equal(t, recipient.Hex(), body["to"])
	assert.Equal(t, "1.5", body["value"])
	assert.Equal(t, "21000", body["gasLimit"])
	assert.Equal(t, "1000000000", body["gasPrice"])
	assert.Equal(t, float64(7), body["nonce"])
	assert.Equal(t, "0xcafe", body["data"])
	assert.Equal(t, float64(42), body["blockNumber"])
}

func TestReceipt(t *testing.T) {
	fc := newFakeChain()
	hash := common.HexToHash("0xabc")
	fc.receipts[hash] = &chain.Receipt{Receipt: &types.Receipt{
		TxHash:            hash,
		BlockNumber:       big.NewInt(99),
		Status:            types.ReceiptStatusSuccessful,
		GasUsed:           51000,
		CumulativeGasUsed: 120000,
		Logs:              []*types.Log{transferLog(t, trackedContract, 1)},
	}}
	handler := newTestExplorer(t, fc)

	rec := get(t, handler, "/api/tx/"+hash.Hex()+"/receipt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"transactionHash": "`+hash.Hex()+`",
		"blockNumber": 99,
		"status": 1,
		"gasUsed": "51000",
		"cumulativeGasUsed": "120000",
		"logsCount": 1
	}`, rec.Body.String())

	rec = get(t, handler, "/api/tx/"+common.HexToHash("0xdead").Hex()+"/receipt")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Receipt not found"}`, rec.Body.String())
}

func TestParsedLogsKeepOnlyTrackedContract(t *testing.T) {
	fc := newFakeChain()
	hash := common.HexToHash("0xabc")
	fc.receipts[hash] = &chain.Receipt{Receipt: &types.Receipt{
		TxHash:      hash,
		BlockNumber: big.NewInt(1),
		Logs: []*types.Log{
			transferLog(t, trackedContract, 5),
			transferLog(t, foreignContract, 9),
		},
	}}
	handler := newTestExplorer(t, fc)

	rec := get(t, handler, "/api/tx/"+hash.Hex()+"/logs/parsed")
	require.Equal(t, http.StatusOK, rec.Code)

	var events []model.DecodedEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Transfer", events[0].Event)
	assert.Equal(t, "5", events[0].Args["value"])
	assert.Equal(t, sender.Hex(), events[0].Args["from"])
	assert.Equal(t, recipient.Hex(), events[0].Args["to"])

	rec = get(t, handler, "/api/tx/"+hash.Hex()+"/logs/raw")
	require.Equal(t, http.StatusOK, rec.Code)
	var raw []model.LogRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, foreignContract.Hex(), raw[1].Address)
}

func TestBlock(t *testing.T) {
	fc := newFakeChain()
	fc.blocks[100] = &chain.Block{
		Number:       100,
		Hash:         common.HexToHash("0xb10c"),
		Timestamp:    1700000000,
		Transactions: []common.Hash{common.HexToHash("0x1"), common.HexToHash("0x2")},
	}
	fc.latest = fc.blocks[100]
	handler := newTestExplorer(t, fc)

	rec := get(t, handler, "/api/block/100")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"number": 100,
		"hash": "`+common.HexToHash("0xb10c").Hex()+`",
		"timestamp": 1700000000,
		"date": "2023-11-14T22:13:20.000Z",
		"txCount": 2
	}`, rec.Body.String())

	rec = get(t, handler, "/api/block/latest")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, handler, "/api/block/7")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Block not found"}`, rec.Body.String())

	rec = get(t, handler, "/api/block/abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid block number"}`, rec.Body.String())
}

func TestChainFailureSurfacesMessage(t *testing.T) {
	fc := newFakeChain()
	fc.err = errors.New("dial tcp: connection refused")

	rec := get(t, newTestExplorer(t, fc), "/api/tx/"+common.HexToHash("0x1").Hex()+"/logs/parsed")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"dial tcp: connection refused"}`, rec.Body.String())
}
