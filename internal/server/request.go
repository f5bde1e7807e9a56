package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Amount is a human-readable token amount. Clients send it as a JSON string or number.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*a = Amount(strings.TrimSpace(text))
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("amount must be a string or number")
	}
	*a = Amount(number.String())
	return nil
}

func (a Amount) String() string {
	return string(a)
}

type mintRequest struct {
	ToAddress string `json:"toAddress"`
	Amount    Amount `json:"amount"`
}

type transferRequest struct {
	FromAddress string `json:"fromAddress"`
	ToAddress   string `json:"toAddress"`
	Amount      Amount `json:"amount"`
}

type approveRequest struct {
	MsgSenderAddress string `json:"msgSenderAddress"`
	SpenderAddress   string `json:"spenderAddress"`
	Amount           Amount `json:"amount"`
}

type transferFromRequest struct {
	FromAddress string `json:"fromAddress"`
	ToAddress   string `json:"toAddress"`
	Amount      Amount `json:"amount"`
}

type burnRequest struct {
	MsgSenderAddress string `json:"msgSenderAddress"`
	Amount           Amount `json:"amount"`
}

func blank(values ...string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			return true
		}
	}
	return false
}
