package domain

// AuditState tracks a subject through the two-phase audit.
type AuditState string

const (
	StateRequested   AuditState = "REQUESTED"
	StateFastPreview AuditState = "FAST_PREVIEW"
	StateQueued      AuditState = "DEEP_AUDIT_QUEUED"
	StateRunning     AuditState = "DEEP_AUDIT_RUNNING"
	StateComplete    AuditState = "COMPLETE"
)

var transitions = map[AuditState][]AuditState{
	"":               {StateRequested},
	StateRequested:   {StateFastPreview},
	StateFastPreview: {StateQueued, StateRunning, StateRequested},
	StateQueued:      {StateRunning, StateRequested},
	StateRunning:     {StateComplete},
	StateComplete:    {StateRequested},
}

// CanTransition reports whether from -> to is a legal step. COMPLETE is
// terminal but re-enterable through a new REQUESTED. A queued audit whose
// worker vanished may also be re-requested once its pending entry expires.
func CanTransition(from, to AuditState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Pending is true while a deep audit is owed or in flight.
func (s AuditState) Pending() bool {
	return s == StateQueued || s == StateRunning
}
