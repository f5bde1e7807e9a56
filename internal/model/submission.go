package model

import "time"

// Submission records a confirmed state-changing contract call.
type Submission struct {
	Operation   string    `json:"operation"`
	Signer      string    `json:"signer"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	Spender     string    `json:"spender,omitempty"`
	Amount      string    `json:"amount"`
	AmountRaw   string    `json:"amount_raw"`
	TxHash      string    `json:"tx_hash"`
	BlockNumber uint64    `json:"block_number"`
	Status      uint64    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}
