package deskscene

const (
	// StateLoading prepares the scene, then moves to StateRunning.
	StateLoading State = iota
	StateRunning
	// StateShutdown releases the scene, the backend and the window.
	StateShutdown
)
