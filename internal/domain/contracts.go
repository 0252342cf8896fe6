package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ContractID is a fully qualified contract identifier (path:name)
type ContractID struct {
	Path string
	Name string
}

// String returns the "<path>:<name>" form used by compilers and explorers
func (c ContractID) String() string {
	return fmt.Sprintf("%s:%s", c.Path, c.Name)
}

// ParseContractID parses a "<path>:<name>" identifier
func ParseContractID(s string) (ContractID, error) {
	idx := strings.LastIndex(s, ":")
	if idx <= 0 || idx == len(s)-1 {
		return ContractID{}, fmt.Errorf("invalid contract identifier %q: expected <path>:<name>", s)
	}
	return ContractID{Path: s[:idx], Name: s[idx+1:]}, nil
}

var (
	// FactoryContract is the token factory, constructed with the fee recipient
	FactoryContract = ContractID{Path: "contracts/src/PumpFunFactory.sol", Name: "PumpFunFactory"}

	// MainContract is the user entry point, constructed with the factory address
	MainContract = ContractID{Path: "contracts/src/PumpFun.sol", Name: "PumpFun"}
)

// DeployedContract is a transient handle on a contract deployed during a run
type DeployedContract struct {
	ID              ContractID
	Address         common.Address
	TxHash          common.Hash
	BlockNumber     uint64
	GasUsed         uint64
	ConstructorArgs []any
}

// Signer is the deploying identity
type Signer struct {
	Address common.Address
}
