package domain

import "github.com/ethereum/go-ethereum/common"

// VerificationRequest is submitted to the explorer for one contract
type VerificationRequest struct {
	Address              common.Address
	ConstructorArguments []any
	Contract             ContractID
}

// VerificationReceipt describes an accepted verification
type VerificationReceipt struct {
	GUID            string
	AlreadyVerified bool
	ExplorerURL     string
	Message         string
}

// VerificationOutcome is the per-contract result of a verification attempt
type VerificationOutcome struct {
	Contract ContractID
	Address  common.Address
	Receipt  *VerificationReceipt
	Err      error
}

// Succeeded reports whether the contract was verified
func (o VerificationOutcome) Succeeded() bool {
	return o.Err == nil && o.Receipt != nil
}
