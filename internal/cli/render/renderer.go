package render

import "github.com/trebuchet-org/pumpdeploy/internal/usecase"

// Renderer writes a use case result for humans
type Renderer[T any] interface {
	Render(result T) error
}

var (
	_ Renderer[*usecase.DeployProtocolResult]    = (*DeployRenderer)(nil)
	_ Renderer[*usecase.ShowRecordResult]        = (*RecordRenderer)(nil)
	_ Renderer[*usecase.VerifyRecordResult]      = (*VerifyRenderer)(nil)
	_ Renderer[*usecase.ListNetworksResult]      = (*NetworksRenderer)(nil)
	_ Renderer[*usecase.TransferOwnershipResult] = (*TransferRenderer)(nil)
	_ Renderer[*usecase.AdoptDeploymentResult]   = (*AdoptRenderer)(nil)
)
