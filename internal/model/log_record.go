package model

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// LogRecord is the JSON shape of a raw chain log as served by the explorer.
type LogRecord struct {
	TransactionHash  string   `json:"transactionHash"`
	BlockHash        string   `json:"blockHash"`
	BlockNumber      uint64   `json:"blockNumber"`
	TransactionIndex uint64   `json:"transactionIndex"`
	Index            uint64   `json:"index"`
	Address          string   `json:"address"`
	Topics           []string `json:"topics"`
	Data             string   `json:"data"`
	Removed          bool     `json:"removed"`
}

// NewLogRecord converts a go-ethereum log into a LogRecord.
func NewLogRecord(log *types.Log) LogRecord {
	topics := make([]string, 0, len(log.Topics))
	for _, topic := range log.Topics {
		topics = append(topics, topic.Hex())
	}

	return LogRecord{
		TransactionHash:  log.TxHash.Hex(),
		BlockHash:        log.BlockHash.Hex(),
		BlockNumber:      log.BlockNumber,
		TransactionIndex: uint64(log.TxIndex),
		Index:            uint64(log.Index),
		Address:          log.Address.Hex(),
		Topics:           topics,
		Data:             hexutil.Encode(log.Data),
		Removed:          log.Removed,
	}
}

// NewLogRecords converts logs preserving their order.
func NewLogRecords(logs []*types.Log) []LogRecord {
	out := make([]LogRecord, 0, len(logs))
	for _, log := range logs {
		if log == nil {
			continue
		}
		out = append(out, NewLogRecord(log))
	}
	return out
}
