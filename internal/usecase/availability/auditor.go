package availability

import "github.com/parqio/spot-booking/internal/audit"

// Auditor is the slice of the audit dispatcher these use cases need.
type Auditor interface {
	Dispatch(ev audit.Event)
}
