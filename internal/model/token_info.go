package model

// TokenInfo captures ERC20 metadata of the tracked contract.
type TokenInfo struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Decimals        uint8  `json:"decimals"`
	TotalSupply     string `json:"totalSupply"`
	ContractAddress string `json:"contractAddress"`
}
