package transition

// Action is what an operator asks to do with a pending request.
type Action string

const (
	ActionActivate Action = "active"
	ActionReject   Action = "rejected"
	ActionDelete   Action = "delete"
)

func (a Action) String() string { return string(a) }

// ParseAction matches the raw string exactly; "Active" or " active" is not an action.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionActivate:
		return ActionActivate, true
	case ActionReject:
		return ActionReject, true
	case ActionDelete:
		return ActionDelete, true
	default:
		return "", false
	}
}
