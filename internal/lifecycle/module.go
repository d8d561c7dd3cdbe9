package lifecycle

import "go.uber.org/fx"

// Module provides the lifecycle engine with the default policy to Fx.
var Module = fx.Provide(func() *Engine {
	return NewEngine(DefaultAuthorize)
})
