package deskscene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type MockModule struct {
	installed int
	order     *[]string
	name      string
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed++
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
}

func TestAppBuilder_Stateless(t *testing.T) {
	app := NewAppBuilder().Build()

	assert.False(t, app.stateful)
	assert.Equal(t, State(0), app.initialState)
	assert.Equal(t, State(0), app.finalState)
	assert.Len(t, app.stages, len(DefaultStages))
}

func TestAppBuilder_UseStates(t *testing.T) {
	app := NewAppBuilder().UseStates(1, 10).Build()

	assert.True(t, app.stateful)
	assert.Equal(t, State(1), app.initialState)
	assert.Equal(t, State(10), app.finalState)
	assert.Len(t, app.systems[Update.Name], 10)
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	builder.UseModule(&MockModule{})

	assert.Len(t, builder.modules, 1)
}

func TestAppBuilder_Build_InstallsInOrder(t *testing.T) {
	var order []string
	module1 := &MockModule{order: &order, name: "one"}
	module2 := &MockModule{order: &order, name: "two"}

	NewAppBuilder().UseModule(module1).UseModule(module2).Build()

	assert.Equal(t, 1, module1.installed)
	assert.Equal(t, 1, module2.installed)
	assert.Equal(t, []string{"one", "two"}, order)
}
