package server

import (
	"context"
	"errors"
	"io"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tokenRelay/internal/chain"
	"tokenRelay/internal/httpapi"
	"tokenRelay/internal/model"
	"tokenRelay/internal/signer"
	"tokenRelay/internal/token"
)

// sendFunc submits one write through w and waits for its receipt.
type sendFunc func(ctx context.Context, w token.Writer, amount *big.Int) (*types.Receipt, error)

type mintResponse struct {
	TransactionHash string `json:"transactionHash"`
	ToAddress       string `json:"toAddress"`
	Amount          Amount `json:"amount"`
	BlockNumber     uint64 `json:"blockNumber"`
}

func (s *Server) mint(c *gin.Context) {
	var req mintRequest
	if !bindBody(c, &req) {
		return
	}
	if blank(req.ToAddress, req.Amount.String()) {
		httpapi.FailError(c, model.NewError(model.ErrMissingField, "toAddress and amount are required"))
		return
	}
	to, err := chain.ParseAddress(req.ToAddress)
	if err != nil {
		httpapi.FailError(c, err)
		return
	}
	cred, err := s.router.Route("", signer.OpMint)
	if err != nil {
		httpapi.FailError(c, err)
		return
	}

	receipt, ok := s.submit(c, cred, req.Amount, model.Submission{
		Operation: string(signer.OpMint),
		To:        to.Hex(),
	}, func(ctx context.Context, w token.Writer, amount *big.Int) (*types.Receipt, error) {
		return w.Mint(ctx, to, amount)
	})
	if !ok {
		return
	}

	httpapi.OK(c, mintResponse{
		TransactionHash: receipt.TxHash.Hex(),
		ToAddress:       req.ToAddress,
		Amount:          req.Amount,
		BlockNumber:     receiptBlock(receipt),
	})
}

type transferResponse struct {
	TransactionHash string `json:"transactionHash"`
	FromAddress     string `json:"fromAddress"`
	ToAddress       string `json:"toAddress"`
	Amount          Amount `json:"amount"`
	BlockNumber     uint64 `json:"blockNumber"`
}

func (s *Server) transfer(c *gin.Context) {
	var req transferRequest
	if !bindBody(c, &req) {
		return
	}
	if blank(req.FromAddress, req.ToAddress, req.Amount.String()) {
		httpapi.FailError(c, model.NewError(model.ErrMissingField, "fromAddress, toAddress and amount are required"))
		return
	}
	to, err := chain.ParseAddress(req.ToAddress)
	if err != nil {
		httpapi.FailError(c, err)
		return
	}
	cred, err := s.router.Route(req.FromAddress, signer.OpTransfer)
	if err != nil {
		httpapi.FailError(c, err)
		return
	}

	receipt, ok := s.submit(c, cred, req.Amount, model.Submission{
		Operation: string(signer.OpTransfer),
		From:      cred.Address.Hex(),
		To:        to.Hex(),
	}, func(ctx context.Context, w token.Writer, amount *big.Int) (*types.Receipt, error) {
		return w.Transfer(ctx, to, amount)
	})
	if !ok {
		return
	}

	httpapi.OK(c, transferResponse{
		TransactionHash: receipt.TxHash.Hex(),
		FromAddress:     cred.Address.Hex(),
		ToAddress:       req.ToAddress,
		Amount:          req.Amount,
		BlockNumber:     receiptBlock(receipt),
	})
}

type approveResponse struct {
	TransactionHash string `json:"transactionHash"`
	SpenderAddress  string `json:"spenderAddress"`
	Amount          Amount `json:"amount"`
	BlockNumber     uint64 `json:"blockNumber"`
}

func (s *Server) approve(c *gin.Context) {
	var req approveRequest
	if !bindBody(c, &req) {
		return
	}
	if blank(req.MsgSenderAddress, req.SpenderAddress, req.Amount.String()) {
		httpapi.FailError(c, model.NewError(model.ErrMissingField, "msgSenderAddress, spenderAddress and amount are required"))
		return
	}
	spender, err := chain.ParseAddress(req.SpenderAddress)
	if err != nil {
		httpapi.FailError(c, err)
		return
	}
	cred, err := s.router.Route(req.MsgSenderAddress, signer.OpApprove)
	if err != nil {
		httpapi.FailError(c, err)
		return
	}

	receipt, ok := s.submit(c, cred, req.Amount, model.Submission{
		Operation: string(signer.OpApprove),
		From:      cred.Address.Hex(),
		Spender:   spender.Hex(),
	}, func(ctx context.Context, w token.Writer, amount *big.Int) (*types.Receipt, error) {
		return w.Approve(ctx, spender, amount)
	})
	if !ok {
		return
	}

	httpapi.OK(c, approveResponse{
		TransactionHash: receipt.TxHash.Hex(),
		SpenderAddress:  req.SpenderAddress,
		Amount:          req.Amount,
		BlockNumber:     receiptBlock(receipt),
	})
}

func (s *Server) transferFrom(c *gin.Context) {
	var req transferFromRequest
	if !bindBody(c, &req) {
		return
	}
	if blank(req.FromAddress, req.ToAddress, req.Amount.String()) {
		httpapi.FailError(c, model.NewError(model.ErrMissingField, "fromAddress, toAddress and amount are required"))
		return
	}
	from, err := chain.ParseAddress(req.FromAddress)
	if err != nil {
		httpapi.FailError(c, err)
		return
	}
	to, err := chain.ParseAddress(req.ToAddress)
	if err != nil {
		httpapi.FailError(c, err)
		return
	}
	cred, err := s.router.RouteTransferFrom(from.Hex(), to.Hex())
	if err != nil {
		httpapi.FailError(c, err)
		return
	}

	receipt, ok := s.submit(c, cred, req.Amount, model.Submission{
		Operation: string(signer.OpTransferFrom),
		From:      from.Hex(),
		To:        to.Hex(),
		Spender:   cred.Address.Hex(),
	}, func(ctx context.Context, w token.Writer, amount *big.Int) (*types.Receipt, error) {
		return w.TransferFrom(ctx, from, to, amount)
	})
	if !ok {
		return
	}

	httpapi.OK(c, transferResponse{
		TransactionHash: receipt.TxHash.Hex(),
		FromAddress:     req.FromAddress,
		ToAddress:       req.ToAddress,
		Amount:          req.Amount,
		BlockNumber:     receiptBlock(receipt),
	})
}

type burnResponse struct {
	TxHash       string `json:"txHash"`
	BurnedAmount Amount `json:"burnedAmount"`
	BlockNumber  uint64 `json:"blockNumber"`
}

func (s *Server) burn(c *gin.Context) {
	var req burnRequest
	if !bindBody(c, &req) {
		return
	}
	if err := token.ValidateAmount(req.Amount.String()); err != nil {
		httpapi.FailError(c, err)
		return
	}
	if blank(req.MsgSenderAddress) {
		httpapi.FailError(c, model.NewError(model.ErrMissingField, "msgSenderAddress is required"))
		return
	}
	cred, err := s.router.Route(req.MsgSenderAddress, signer.OpBurn)
	if err != nil {
		httpapi.FailError(c, err)
		return
	}

	receipt, ok := s.submit(c, cred, req.Amount, model.Submission{
		Operation: string(signer.OpBurn),
		From:      cred.Address.Hex(),
	}, func(ctx context.Context, w token.Writer, amount *big.Int) (*types.Receipt, error) {
		return w.Burn(ctx, amount)
	})
	if !ok {
		return
	}

	httpapi.OK(c, burnResponse{
		TxHash:       receipt.TxHash.Hex(),
		BurnedAmount: req.Amount,
		BlockNumber:  receiptBlock(receipt),
	})
}

// submit converts amount through the token decimals, sends the write signed by cred and
// journals the confirmed receipt. On failure the response has already been written.
func (s *Server) submit(c *gin.Context, cred signer.Credential, amount Amount, sub model.Submission, send sendFunc) (*types.Receipt, bool) {
	if err := token.ValidateAmount(amount.String()); err != nil {
		httpapi.FailError(c, err)
		return nil, false
	}

	ctx := c.Request.Context()
	decimals, err := s.token.Decimals(ctx)
	if err != nil {
		s.fail(c, sub.Operation, err)
		return nil, false
	}
	raw, err := token.ParseUnits(amount.String(), decimals)
	if err != nil {
		httpapi.FailError(c, err)
		return nil, false
	}

	writer, err := s.token.As(cred.Key)
	if err != nil {
		s.fail(c, sub.Operation, err)
		return nil, false
	}

	logger := s.logger.With(
		zap.String("op", sub.Operation),
		zap.String("signer", cred.Address.Hex()),
		zap.String("amount", amount.String()),
	)
	logger.Info("sending transaction", zap.String("to", sub.To), zap.String("spender", sub.Spender))

	receipt, err := send(ctx, writer, raw)
	if err != nil {
		s.fail(c, sub.Operation, err)
		return nil, false
	}
	logger.Info("transaction confirmed",
		zap.String("tx", receipt.TxHash.Hex()),
		zap.Uint64("block", receiptBlock(receipt)),
	)

	sub.Signer = cred.Address.Hex()
	sub.Amount = amount.String()
	sub.AmountRaw = raw.String()
	sub.TxHash = receipt.TxHash.Hex()
	sub.BlockNumber = receiptBlock(receipt)
	sub.Status = receipt.Status
	sub.SubmittedAt = time.Now().UTC()
	if err := s.journal.PutSubmission(context.WithoutCancel(ctx), sub); err != nil {
		logger.Warn("journal submission", zap.String("tx", sub.TxHash), zap.Error(err))
	}

	return receipt, true
}

// bindBody decodes the JSON body into dst. An empty body leaves dst zeroed so the
// handler reports its missing fields.
func bindBody(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		httpapi.FailError(c, model.Errorf(model.ErrInvalidParam, "invalid request body: %v", err))
		return false
	}
	return true
}

func receiptBlock(receipt *types.Receipt) uint64 {
	if receipt == nil || receipt.BlockNumber == nil {
		return 0
	}
	return receipt.BlockNumber.Uint64()
}
