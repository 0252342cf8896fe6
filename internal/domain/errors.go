package domain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for domain operations
var (
	// ErrSignerResolution matches any SignerResolutionError
	ErrSignerResolution = errors.New("signer resolution failed")

	// ErrDeployment matches any DeploymentError
	ErrDeployment = errors.New("deployment failed")

	// ErrOwnershipTransfer matches any OwnershipTransferError
	ErrOwnershipTransfer = errors.New("ownership transfer failed")

	// ErrPersistence matches any PersistenceError
	ErrPersistence = errors.New("persisting deployment record failed")

	// ErrVerification matches any VerificationError
	ErrVerification = errors.New("verification failed")

	// ErrNoSigner is returned when no signing credential is configured
	ErrNoSigner = errors.New("no signer available: set PRIVATE_KEY")

	// ErrRecordNotFound is returned when no deployment record exists for a network
	ErrRecordNotFound = errors.New("deployment record not found")

	// ErrTransactionReverted is returned when a mined transaction has a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrVerificationNotConfigured is returned when verification is requested without an API key
	ErrVerificationNotConfigured = errors.New("verification not configured: set BSCSCAN_API_KEY")

	// ErrUnknownNetwork is returned when a network name is not configured
	ErrUnknownNetwork = errors.New("unknown network")
)

// SignerResolutionError means no usable signing identity could be obtained.
type SignerResolutionError struct {
	Err error
}

func (e *SignerResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve signer: %v", e.Err)
}

func (e *SignerResolutionError) Unwrap() []error { return []error{ErrSignerResolution, e.Err} }

// DeploymentError means a contract creation transaction was rejected or reverted.
type DeploymentError struct {
	Contract ContractID
	Err      error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("failed to deploy %s: %v", e.Contract.Name, e.Err)
}

func (e *DeploymentError) Unwrap() []error { return []error{ErrDeployment, e.Err} }

// OwnershipTransferError leaves the factory owned by the deployer.
type OwnershipTransferError struct {
	Factory  common.Address
	NewOwner common.Address
	Err      error
}

func (e *OwnershipTransferError) Error() string {
	return fmt.Sprintf("failed to transfer ownership of %s to %s: %v", e.Factory.Hex(), e.NewOwner.Hex(), e.Err)
}

func (e *OwnershipTransferError) Unwrap() []error { return []error{ErrOwnershipTransfer, e.Err} }

// PersistenceError is returned when the record could not be written even though
// the contracts are already deployed on-chain.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to save deployment record: %v", e.Err)
	}
	return fmt.Sprintf("failed to save deployment record to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// VerificationError is isolated per contract and never aborts a run.
type VerificationError struct {
	Contract ContractID
	Address  common.Address
	Err      error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("failed to verify %s at %s: %v", e.Contract.Name, e.Address.Hex(), e.Err)
}

func (e *VerificationError) Unwrap() []error { return []error{ErrVerification, e.Err} }

// UnknownNetworkError carries the closest configured names.
type UnknownNetworkError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownNetworkError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("network '%s' is not configured", e.Name)
	}
	return fmt.Sprintf("network '%s' is not configured (did you mean '%s'?)", e.Name, e.Suggestions[0])
}

func (e *UnknownNetworkError) Unwrap() error { return ErrUnknownNetwork }
