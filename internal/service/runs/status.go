package runs

// Status is the execution state of a run-case or one of its steps.
type Status string

const (
	StatusUntested Status = "untested"
	StatusPass     Status = "pass"
	StatusFail     Status = "fail"
	StatusBlocked  Status = "blocked"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUntested, StatusPass, StatusFail, StatusBlocked:
		return true
	}
	return false
}

// DeriveOverall reduces a set of step statuses to the overall status of the
// run-case. The rule is deterministic and order-independent:
//
//  1. any fail               -> fail
//  2. else any blocked       -> blocked
//  3. else all pass          -> pass
//  4. else all untested      -> untested
//  5. anything else (partial completion) -> blocked
//
// An empty set yields untested. Partial completion maps to blocked on
// purpose: a half-executed case is not yet trustworthy.
func DeriveOverall(steps []Status) Status {
	if len(steps) == 0 {
		return StatusUntested
	}
	var fail, blocked, pass, untested int
	for _, st := range steps {
		switch st {
		case StatusFail:
			fail++
		case StatusBlocked:
			blocked++
		case StatusPass:
			pass++
		default:
			untested++
		}
	}
	switch {
	case fail > 0:
		return StatusFail
	case blocked > 0:
		return StatusBlocked
	case pass == len(steps):
		return StatusPass
	case untested == len(steps):
		return StatusUntested
	default:
		return StatusBlocked
	}
}
