package workspace

// Notifier is the user-facing side channel of the workspace.
type Notifier interface {
	// Alert shows a blocking message (manual save result, write failures).
	Alert(message string)
	// Confirm asks the user to approve a destructive action.
	Confirm(message string) bool
}
