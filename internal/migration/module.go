package migration

import "go.uber.org/fx"

// Module provides the goose migrator to Fx.
var Module = fx.Provide(New)
