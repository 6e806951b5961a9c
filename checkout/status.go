package checkout

// Stage tracks progress through the checkout pipeline. The pipeline is
// linear: each stage is entered only from the success of the previous
// one, and StageFailed absorbs a failure at any point.
type Stage string

const (
	StageIdle           Stage = "IDLE"
	StageOrderCreating  Stage = "ORDER_CREATING"
	StageOrderCreated   Stage = "ORDER_CREATED"
	StageIntentCreating Stage = "INTENT_CREATING"
	StageIntentCreated  Stage = "INTENT_CREATED"
	StageCapturing      Stage = "CAPTURING"
	StageCaptured       Stage = "CAPTURED"
	StageFinalizing     Stage = "FINALIZING"
	StageDone           Stage = "DONE"
	StageFailed         Stage = "FAILED"
)

func (s Stage) IsTerminal() bool {
	return s == StageDone || s == StageFailed
}

// String representation (for logging)
func (s Stage) String() string {
	return string(s)
}
