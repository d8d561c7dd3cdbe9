package app

import (
	"go.uber.org/fx"

	"github.com/clipdesk/clipdesk/internal/cache"
	"github.com/clipdesk/clipdesk/internal/config"
	"github.com/clipdesk/clipdesk/internal/database"
	"github.com/clipdesk/clipdesk/internal/lifecycle"
	"github.com/clipdesk/clipdesk/internal/logger"
	"github.com/clipdesk/clipdesk/internal/messaging"
	"github.com/clipdesk/clipdesk/internal/observability"
	repositoryorder "github.com/clipdesk/clipdesk/internal/repository/order"
	grpcserver "github.com/clipdesk/clipdesk/internal/server/grpc"
	httpserver "github.com/clipdesk/clipdesk/internal/server/http"
	serviceorder "github.com/clipdesk/clipdesk/internal/service/order"
	transporthttp "github.com/clipdesk/clipdesk/internal/transport/http"
	"github.com/clipdesk/clipdesk/internal/worker"
	workerorder "github.com/clipdesk/clipdesk/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	lifecycle.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	repositoryorder.Module,
	serviceorder.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Full serves the gRPC listener alongside the HTTP transport.
var Full = fx.Options(
	HTTP,
	grpcserver.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
