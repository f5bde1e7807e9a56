package deploy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Artifact is a compiled contract: its ABI and creation bytecode.
type Artifact struct {
	ContractName string
	ABI          abi.ABI
	Bytecode     []byte
}

type artifactFile struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// LoadArtifact reads a Hardhat-style artifact JSON file.
func LoadArtifact(path string) (Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("read artifact: %w", err)
	}
	return ParseArtifact(data)
}

// ParseArtifact decodes artifact JSON with "abi" and "bytecode" fields.
func ParseArtifact(data []byte) (Artifact, error) {
	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return Artifact{}, fmt.Errorf("decode artifact: %w", err)
	}
	if len(file.ABI) == 0 {
		return Artifact{}, fmt.Errorf("artifact has no abi")
	}

	parsed, err := abi.JSON(bytes.NewReader(file.ABI))
	if err != nil {
		return Artifact{}, fmt.Errorf("parse artifact abi: %w", err)
	}

	bytecode, err := hexutil.Decode(file.Bytecode)
	if err != nil {
		return Artifact{}, fmt.Errorf("decode bytecode: %w", err)
	}
	if len(bytecode) == 0 {
		return Artifact{}, fmt.Errorf("artifact has empty bytecode")
	}

	return Artifact{
		ContractName: file.ContractName,
		ABI:          parsed,
		Bytecode:     bytecode,
	}, nil
}
