package pipeline

// Reason says which validation check rejected a candidate.
type Reason int

const (
	// EnergyTooHigh marks a total energy score above zero.
	EnergyTooHigh Reason = iota + 1
	// HelixIntegrityFailed marks a helical fraction below the threshold
	// inside the reference window.
	HelixIntegrityFailed
	// ClashDetected marks a mutated alpha carbon too close to an
	// unmutated one.
	ClashDetected
	// EngineFailure marks an external engine call that failed while
	// producing or checking the candidate. The candidate is treated as
	// invalid rather than aborting the batch.
	EngineFailure
)

func (r Reason) String() string {
	switch r {
	case EnergyTooHigh:
		return "energy too high"
	case HelixIntegrityFailed:
		return "helix integrity failed"
	case ClashDetected:
		return "clash detected"
	case EngineFailure:
		return "engine failure"
	}
	return "unknown"
}

// Rejection explains why a candidate was filtered out. A nil *Rejection
// means the candidate was accepted.
type Rejection struct {
	Reason Reason
	Detail string
}

func (r *Rejection) String() string {
	if r.Detail == "" {
		return r.Reason.String()
	}
	return r.Reason.String() + ": " + r.Detail
}
