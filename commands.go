package deskscene

type Commands struct {
	app *App
}

// ChangeState takes effect at the end of the current frame.
func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Quit stops the frame loop of a stateless app. Stateful apps should move to
// their final state instead so exit systems run.
func (cmd *Commands) Quit() {
	cmd.app.quit = true
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
