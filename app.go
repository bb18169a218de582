package roam

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module adds resources and systems to an app while it is being built.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stateful           bool
	stateTransitioning bool
	initialState       State
	finalState         State
	nextState          State
	state              State
	stages             []Stage
	systems            map[string]map[State]map[statePhase][]systemFn
	systemsStateless   map[string][]systemFn
	resources          map[reflect.Type]any

	started  bool
	finished bool
	frame    uint64
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

func (app *App) State() State {
	return app.state
}

// Frame counts completed Ticks.
func (app *App) Frame() uint64 {
	return app.frame
}

func (app *App) Finished() bool {
	return app.finished
}

// Run ticks until the final state has been reached.
func (app *App) Run() {
	for app.Tick() {
	}
}

// Tick runs one frame: the execute systems of every stage, then any state change
// requested during the frame. It reports false once the app has finished.
func (app *App) Tick() bool {
	if app.finished {
		return false
	}
	if !app.started {
		app.start()
	}

	app.callSystems(app.state, execute)
	app.frame++

	if !app.stateful {
		return true
	}
	if app.stateTransitioning {
		app.stateTransitioning = false
		app.executeChangeState(app.nextState)
	}
	if app.state == app.finalState {
		app.callSystems(app.state, exit)
		app.finished = true
		app.Logger().Infof("finished after %d frames", app.frame)
		return false
	}
	return true
}

func (app *App) start() {
	app.started = true
	if !app.stateful {
		app.Logger().Debugf("running in stateless mode")
		return
	}
	app.Logger().Debugf("running in stateful mode, entering %v", app.initialState)
	app.state = app.initialState
	app.callSystems(app.state, enter)
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		// stateless systems only take part in execute
		if phase == execute {
			for _, system := range app.systemsStateless[stage.Name] {
				app.callSystem(system)
			}
		}
		if !app.stateful {
			continue
		}
		for _, system := range app.systems[stage.Name][state][phase] {
			app.callSystem(system)
		}
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	if newState == app.state {
		return
	}
	app.Logger().Debugf("state %v -> %v", app.state, newState)
	app.callSystems(app.state, exit)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("%s is not a pointer and cannot be a resource", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type *T, if one was added.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfLogger   = reflect.TypeOf((*Logger)(nil)).Elem()
)

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())
	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)

		arg, ok := app.resolveArgument(argType)
		if !ok {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			panic(msg)
		}
		args[i] = arg
	}
	systemValue.Call(args)
}

// resolveArgument maps a system parameter onto *Commands, a resource pointer, or
// the first resource implementing an interface parameter. A Logger parameter
// falls back to a no-op logger.
func (app *App) resolveArgument(argType reflect.Type) (reflect.Value, bool) {
	switch argType.Kind() {
	case reflect.Pointer:
		if argType.Elem() == typeOfCommands {
			return reflect.ValueOf(&Commands{app: app}), true
		}
		if resource, ok := app.resources[argType.Elem()]; ok {
			return reflect.ValueOf(resource), true
		}
	case reflect.Interface:
		for _, resource := range app.resources {
			if reflect.TypeOf(resource).Implements(argType) {
				v := reflect.New(argType).Elem()
				v.Set(reflect.ValueOf(resource))
				return v, true
			}
		}
		if argType == typeOfLogger {
			return reflect.ValueOf(&nopLogger{}), true
		}
	}
	return reflect.Value{}, false
}
