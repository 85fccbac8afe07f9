package service

// RemoteTask is a task read from a Remote.
type RemoteTask struct {
	ID     string
	Title  string
	Status string // "needsAction" or "completed"
}
