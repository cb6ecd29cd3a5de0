package entity

import jsoniter "github.com/json-iterator/go"

// ExplorerResponse is the envelope of every Etherscan-family account API reply.
// Result is a string for balance calls and an array for txlist, or an error string
// when Status is "0".
type ExplorerResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Result  jsoniter.RawMessage `json:"result"`
}

// ExplorerTx is one entry of a txlist reply. All numeric fields arrive as decimal strings.
type ExplorerTx struct {
	BlockNumber       string `json:"blockNumber"`
	TimeStamp         string `json:"timeStamp"`
	Hash              string `json:"hash"`
	From              string `json:"from"`
	To                string `json:"to"`
	Value             string `json:"value"`
	Gas               string `json:"gas"`
	GasPrice          string `json:"gasPrice"`
	GasUsed           string `json:"gasUsed"`
	IsError           string `json:"isError"`
	TxReceiptStatus   string `json:"txreceipt_status"`
	ContractAddress   string `json:"contractAddress"`
	Input             string `json:"input"`
	Confirmations     string `json:"confirmations"`
	FunctionName      string `json:"functionName,omitempty"`
	MethodID          string `json:"methodId,omitempty"`
	TransactionIndex  string `json:"transactionIndex,omitempty"`
	CumulativeGasUsed string `json:"cumulativeGasUsed,omitempty"`
}
