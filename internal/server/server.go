package server

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tokenRelay/internal/chain"
	"tokenRelay/internal/httpapi"
	"tokenRelay/internal/model"
	"tokenRelay/internal/signer"
	"tokenRelay/internal/storage"
	"tokenRelay/internal/token"
)

// TokenService is the token contract surface used by the server.
type TokenService interface {
	Info(ctx context.Context) (model.TokenInfo, error)
	Decimals(ctx context.Context) (uint8, error)
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	As(key *ecdsa.PrivateKey) (token.Writer, error)
}

// ReceiptReader looks up transaction receipts.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*chain.Receipt, error)
}

// Options configures a Server.
type Options struct {
	Token    TokenService
	Receipts ReceiptReader
	Router   *signer.Router
	Journal  storage.Journal
	Network  string
	Logger   *zap.Logger
}

// Server signs token writes with server-held credentials and serves token reads.
type Server struct {
	token    TokenService
	receipts ReceiptReader
	router   *signer.Router
	journal  storage.Journal
	network  string
	logger   *zap.Logger
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Journal == nil {
		opts.Journal = storage.NopJournal{}
	}
	return &Server{
		token:    opts.Token,
		receipts: opts.Receipts,
		router:   opts.Router,
		journal:  opts.Journal,
		network:  opts.Network,
		logger:   opts.Logger,
	}
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	engine := httpapi.NewEngine(s.logger)

	engine.GET("/health", s.health)
	engine.GET("/token/info", s.tokenInfo)
	engine.GET("/balance/:address", s.balance)
	engine.GET("/allowance/:owner/:spender", s.allowance)
	engine.GET("/transaction/:hash", s.transaction)

	engine.POST("/mint", s.mint)
	engine.POST("/transfer", s.transfer)
	engine.POST("/approve", s.approve)
	engine.POST("/transfer-from", s.transferFrom)
	engine.POST("/burn", s.burn)

	return engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "network": s.network})
}

func (s *Server) tokenInfo(c *gin.Context) {
	info, err := s.token.Info(c.Request.Context())
	if err != nil {
		s.fail(c, "token info", err)
		return
	}
	httpapi.OK(c, info)
}

type balanceResponse struct {
	Address    string `json:"address"`
	Balance    string `json:"balance"`
	BalanceRaw string `json:"balanceRaw"`
}

func (s *Server) balance(c *gin.Context) {
	raw := c.Param("address")
	account, err := chain.ParseAddress(raw)
	if err != nil {
		httpapi.FailError(c, err)
		return
	}

	ctx := c.Request.Context()
	balance, err := s.token.BalanceOf(ctx, account)
	if err != nil {
		s.fail(c, "balance", err)
		return
	}
	decimals, err := s.token.Decimals(ctx)
	if err != nil {
		s.fail(c, "balance", err)
		return
	}

	httpapi.OK(c, balanceResponse{
		Address:    raw,
		Balance:    token.FormatUnits(balance, decimals),
		BalanceRaw: balance.String(),
	})
}

type allowanceResponse struct {
	Owner        string `json:"owner"`
	Spender      string `json:"spender"`
	Allowance    string `json:"allowance"`
	AllowanceRaw string `json:"allowanceRaw"`
}

func (s *Server) allowance(c *gin.Context) {
	rawOwner, rawSpender := c.Param("owner"), c.Param("spender")
	owner, err := chain.ParseAddress(rawOwner)
	if err != nil {
		httpapi.FailError(c, err)
		return
	}
	spender, err := chain.ParseAddress(rawSpender)
	if err != nil {
		httpapi.FailError(c, err)
		return
	}

	ctx := c.Request.Context()
	allowance, err := s.token.Allowance(ctx, owner, spender)
	if err != nil {
		s.fail(c, "allowance", err)
		return
	}
	decimals, err := s.token.Decimals(ctx)
	if err != nil {
		s.fail(c, "allowance", err)
		return
	}

	httpapi.OK(c, allowanceResponse{
		Owner:        rawOwner,
		Spender:      rawSpender,
		Allowance:    token.FormatUnits(allowance, decimals),
		AllowanceRaw: allowance.String(),
	})
}

type transactionResponse struct {
	TransactionHash string  `json:"transactionHash"`
	BlockNumber     uint64  `json:"blockNumber"`
	From            string  `json:"from"`
	To              *string `json:"to"`
	Status          string  `json:"status"`
	GasUsed         string  `json:"gasUsed"`
}

func (s *Server) transaction(c *gin.Context) {
	hash, err := chain.ParseTxHash(c.Param("hash"))
	if err != nil {
		httpapi.Fail(c, http.StatusNotFound, "Transaction not found")
		return
	}

	receipt, err := s.receipts.TransactionReceipt(c.Request.Context(), hash)
	if err != nil {
		if chain.IsNotFound(err) {
			httpapi.Fail(c, http.StatusNotFound, "Transaction not found")
			return
		}
		s.fail(c, "transaction", err)
		return
	}

	resp := transactionResponse{
		TransactionHash: receipt.TxHash.Hex(),
		From:            receipt.From.Hex(),
		Status:          "failed",
		GasUsed:         strconv.FormatUint(receipt.GasUsed, 10),
	}
	if receipt.BlockNumber != nil {
		resp.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if receipt.To != nil {
		to := receipt.To.Hex()
		resp.To = &to
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		resp.Status = "success"
	}
	httpapi.OK(c, resp)
}

func (s *Server) fail(c *gin.Context, op string, err error) {
	status := httpapi.StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", zap.Error(err))
	}
	httpapi.Fail(c, status, err.Error())
}
