package explorer

import (
	"context"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tokenRelay/internal/chain"
	"tokenRelay/internal/httpapi"
	"tokenRelay/internal/logs"
	"tokenRelay/internal/model"
	"tokenRelay/internal/token"
)

// ChainReader is the read-only chain surface used by the explorer.
type ChainReader interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (*chain.Transaction, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*chain.Receipt, error)
	BlockByNumber(ctx context.Context, number *big.Int) (*chain.Block, error)
}

// Explorer serves transaction, block and log lookups.
type Explorer struct {
	chain   ChainReader
	decoder *logs.Decoder
	network string
	logger  *zap.Logger
}

func New(chainReader ChainReader, decoder *logs.Decoder, network string, logger *zap.Logger) *Explorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Explorer{
		chain:   chainReader,
		decoder: decoder,
		network: network,
		logger:  logger,
	}
}

// Handler builds the HTTP routes.
func (e *Explorer) Handler() http.Handler {
	engine := httpapi.NewEngine(e.logger)
	engine.GET("/health", e.health)

	api := engine.Group("/api")
	api.GET("/tx/:hash", e.transaction)
	api.GET("/tx/:hash/receipt", e.receipt)
	api.GET("/tx/:hash/logs/raw", e.rawLogs)
	api.GET("/tx/:hash/logs/parsed", e.parsedLogs)
	api.GET("/block/:number", e.block)

	return engine
}

type transactionResponse struct {
	Hash        string  `json:"hash"`
	From        string  `json:"from"`
	To          *string `json:"to"`
	Value       string  `json:"value"`
	GasLimit    string  `json:"gasLimit"`
	GasPrice    string  `json:"gasPrice"`
	Nonce       uint64  `json:"nonce"`
	Data        string  `json:"data"`
	BlockNumber *uint64 `json:"blockNumber"`
}

type receiptResponse struct {
	TransactionHash   string `json:"transactionHash"`
	BlockNumber       uint64 `json:"blockNumber"`
	Status            uint64 `json:"status"`
	GasUsed           string `json:"gasUsed"`
	CumulativeGasUsed string `json:"cumulativeGasUsed"`
	LogsCount         int    `json:"logsCount"`
}

type blockResponse struct {
	Number    uint64 `json:"number"`
	Hash      string `json:"hash"`
	Timestamp uint64 `json:"timestamp"`
	Date      string `json:"date"`
	TxCount   int    `json:"txCount"`
}

func (e *Explorer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "network": e.network})
}

func (e *Explorer) transaction(c *gin.Context) {
	hash, err := chain.ParseTxHash(c.Param("hash"))
	if err != nil {
		httpapi.Fail(c, http.StatusNotFound, "TX not found")
		return
	}

	tx, err := e.chain.TransactionByHash(c.Request.Context(), hash)
	if err != nil {
		e.fail(c, err, "TX not found")
		return
	}

	e.logger.Debug("tx", zap.String("hash", hash.Hex()))

	resp := transactionResponse{
		Hash:        tx.Hash.Hex(),
		From:        tx.From.Hex(),
		Value:       token.FormatEther(tx.Value),
		GasLimit:    strconv.FormatUint(tx.Gas, 10),
		GasPrice:    tx.GasPrice.String(),
		Nonce:       tx.Nonce,
		Data:        hexutil.Encode(tx.Input),
		BlockNumber: tx.BlockNumber,
	}
	if to := tx.To; to != nil {
		hex := to.Hex()
		resp.To = &hex
	}
	c.JSON(http.StatusOK, resp)
}

func (e *Explorer) receipt(c *gin.Context) {
	receipt, ok := e.loadReceipt(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, receiptResponse{
		TransactionHash:   receipt.TxHash.Hex(),
		BlockNumber:       blockNumber(receipt.BlockNumber),
		Status:            receipt.Status,
		GasUsed:           strconv.FormatUint(receipt.GasUsed, 10),
		CumulativeGasUsed: strconv.FormatUint(receipt.CumulativeGasUsed, 10),
		LogsCount:         len(receipt.Logs),
	})
}

func (e *Explorer) rawLogs(c *gin.Context) {
	receipt, ok := e.loadReceipt(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, model.NewLogRecords(receipt.Logs))
}

func (e *Explorer) parsedLogs(c *gin.Context) {
	receipt, ok := e.loadReceipt(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, e.decoder.Decode(receipt.Logs))
}

func (e *Explorer) block(c *gin.Context) {
	number, err := parseBlockNumber(c.Param("number"))
	if err != nil {
		httpapi.FailError(c, err)
		return
	}

	block, err := e.chain.BlockByNumber(c.Request.Context(), number)
	if err != nil {
		e.fail(c, err, "Block not found")
		return
	}

	c.JSON(http.StatusOK, blockResponse{
		Number:    block.Number,
		Hash:      block.Hash.Hex(),
		Timestamp: block.Timestamp,
		Date:      time.Unix(int64(block.Timestamp), 0).UTC().Format("2006-01-02T15:04:05.000Z"),
		TxCount:   len(block.Transactions),
	})
}

func (e *Explorer) loadReceipt(c *gin.Context) (*chain.Receipt, bool) {
	hash, err := chain.ParseTxHash(c.Param("hash"))
	if err != nil {
		httpapi.Fail(c, http.StatusNotFound, "Receipt not found")
		return nil, false
	}

	receipt, err := e.chain.TransactionReceipt(c.Request.Context(), hash)
	if err != nil {
		e.fail(c, err, "Receipt not found")
		return nil, false
	}
	return receipt, true
}

// fail reports a chain lookup error, using notFound as the message for missing objects.
func (e *Explorer) fail(c *gin.Context, err error, notFound string) {
	if chain.IsNotFound(err) {
		httpapi.Fail(c, http.StatusNotFound, notFound)
		return
	}
	e.logger.Error("chain lookup failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	httpapi.Fail(c, http.StatusInternalServerError, err.Error())
}

func parseBlockNumber(input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if strings.EqualFold(input, "latest") {
		return nil, nil
	}
	number, ok := new(big.Int).SetString(input, 10)
	if !ok || number.Sign() < 0 {
		return nil, model.NewError(model.ErrInvalidParam, "Invalid block number")
	}
	return number, nil
}

func blockNumber(number *big.Int) uint64 {
	if number == nil {
		return 0
	}
	return number.Uint64()
}
