package logs

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"tokenRelay/internal/chain"
	"tokenRelay/internal/model"
	"tokenRelay/internal/token"
)

var trackedEvents = []string{"Transfer", "Approval", "Mint"}

// Decoder reduces raw logs to decoded events of one tracked contract.
type Decoder struct {
	contract    string
	tokenABI    abi.ABI
	topicToName map[common.Hash]string
	logger      *zap.Logger
}

// NewDecoder builds a decoder for logs emitted by contract.
func NewDecoder(contract common.Address, logger *zap.Logger) (*Decoder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	parsed, err := token.ABI()
	if err != nil {
		return nil, fmt.Errorf("parse token abi: %w", err)
	}

	topicToName := make(map[common.Hash]string, len(trackedEvents))
	for _, name := range trackedEvents {
		event, ok := parsed.Events[name]
		if !ok {
			return nil, fmt.Errorf("event %s missing from token abi", name)
		}
		topicToName[event.ID] = name
	}

	return &Decoder{
		contract:    contract.Hex(),
		tokenABI:    parsed,
		topicToName: topicToName,
		logger:      logger,
	}, nil
}

// CanDecode checks if topic0 belongs to a tracked event.
func (d *Decoder) CanDecode(topic0 common.Hash) bool {
	_, ok := d.topicToName[topic0]
	return ok
}

// Decode keeps the logs of the tracked contract, in order, and decodes each one.
// Logs that fail to decode are skipped.
func (d *Decoder) Decode(entries []*types.Log) []model.DecodedEvent {
	out := make([]model.DecodedEvent, 0, len(entries))
	for _, entry := range entries {
		if entry == nil || !chain.SameAddress(entry.Address.Hex(), d.contract) {
			continue
		}
		if len(entry.Topics) == 0 || !d.CanDecode(entry.Topics[0]) {
			d.logger.Debug("skip log with untracked topic0",
				zap.String("tx_hash", entry.TxHash.Hex()),
				zap.Uint("log_index", entry.Index),
			)
			continue
		}

		event, err := d.DecodeOne(entry)
		if err != nil {
			d.logger.Debug("skip undecodable log",
				zap.String("address", entry.Address.Hex()),
				zap.String("tx_hash", entry.TxHash.Hex()),
				zap.Uint("log_index", entry.Index),
				zap.Error(err),
			)
			continue
		}
		out = append(out, event)
	}
	return out
}

// DecodeOne decodes a single log against the tracked events without filtering on address.
func (d *Decoder) DecodeOne(entry *types.Log) (model.DecodedEvent, error) {
	if len(entry.Topics) == 0 {
		return model.DecodedEvent{}, fmt.Errorf("missing topics")
	}
	name, ok := d.topicToName[entry.Topics[0]]
	if !ok {
		return model.DecodedEvent{}, fmt.Errorf("unsupported topic0: %s", entry.Topics[0].Hex())
	}
	event := d.tokenABI.Events[name]

	indexed := indexedArguments(event.Inputs)
	if len(entry.Topics) != len(indexed)+1 {
		return model.DecodedEvent{}, fmt.Errorf("expected %d topics, got %d", len(indexed)+1, len(entry.Topics))
	}

	values := make(map[string]interface{}, len(event.Inputs))
	if err := abi.ParseTopicsIntoMap(values, indexed, entry.Topics[1:]); err != nil {
		return model.DecodedEvent{}, fmt.Errorf("parse topics: %w", err)
	}
	if err := event.Inputs.NonIndexed().UnpackIntoMap(values, entry.Data); err != nil {
		return model.DecodedEvent{}, fmt.Errorf("unpack %s: %w", name, err)
	}

	args := make(map[string]interface{}, len(event.Inputs))
	for _, input := range event.Inputs {
		value, ok := values[input.Name]
		if !ok {
			return model.DecodedEvent{}, fmt.Errorf("missing argument %s", input.Name)
		}
		args[input.Name] = normalizeValue(value)
	}

	return model.DecodedEvent{Event: name, Args: args}, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

// normalizeValue renders integers as decimal strings so they survive JSON intact.
func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return "0"
		}
		return v.String()
	case big.Int:
		return v.String()
	case uint8, uint16, uint32, uint64, int8, int16, int32, int64, uint, int:
		return fmt.Sprintf("%d", v)
	case common.Address:
		return v.Hex()
	case common.Hash:
		return v.Hex()
	case []byte:
		return hexutil.Encode(v)
	case [32]byte:
		return hexutil.Encode(v[:])
	case string:
		return v
	default:
		return value
	}
}
