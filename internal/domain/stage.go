package domain

// Stage is a state of the deployment run; transitions only move forward
type Stage string

const (
	StageInit                 Stage = "INIT"
	StageFactoryDeployed      Stage = "FACTORY_DEPLOYED"
	StageMainDeployed         Stage = "MAIN_DEPLOYED"
	StageOwnershipTransferred Stage = "OWNERSHIP_TRANSFERRED"
	StageRecorded             Stage = "RECORDED"
	StageVerifying            Stage = "VERIFYING"
	StageDone                 Stage = "DONE"
)

var stageOrder = map[Stage]int{
	StageInit:                 0,
	StageFactoryDeployed:      1,
	StageMainDeployed:         2,
	StageOwnershipTransferred: 3,
	StageRecorded:             4,
	StageVerifying:            5,
	StageDone:                 6,
}

// Reached reports whether s is at or past other
func (s Stage) Reached(other Stage) bool {
	return stageOrder[s] >= stageOrder[other]
}

// CanAdvanceTo reports whether next is a forward transition from s
func (s Stage) CanAdvanceTo(next Stage) bool {
	return stageOrder[next] > stageOrder[s]
}
