package http

import (
	"go.uber.org/fx"

	"github.com/clipdesk/clipdesk/internal/transport/http/middleware"
	ordertransport "github.com/clipdesk/clipdesk/internal/transport/http/order"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	fx.Provide(middleware.NewActorResolver),
	ordertransport.Module,
)
