// Package capability abstracts the permission policy the surrounding system
// enforces. The core evaluates an injected predicate once per attempted
// action and attaches no trust semantics to it.
package capability

// Action names something an operator can attempt.
type Action string

const (
	ActionRecordEntry           Action = "record_entry"
	ActionViewLogs              Action = "view_logs"
	ActionTransferEntries       Action = "transfer_entries"
	ActionManageAllocations     Action = "manage_allocations"
	ActionManageSessions        Action = "manage_sessions"
	ActionManageClassifications Action = "manage_classifications"
)

// Checker decides whether an action may proceed.
type Checker interface {
	Can(action Action) bool
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(Action) bool

// Can calls f.
func (f CheckerFunc) Can(action Action) bool { return f(action) }

// AllowAll permits every action. Used when no policy is wired in.
var AllowAll Checker = CheckerFunc(func(Action) bool { return true })
