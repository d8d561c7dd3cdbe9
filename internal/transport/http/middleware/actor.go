package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clipdesk/clipdesk/internal/config"
	"github.com/clipdesk/clipdesk/internal/lifecycle"
	"github.com/clipdesk/clipdesk/internal/presentation/http/response"
	service "github.com/clipdesk/clipdesk/internal/service/order"
	"github.com/clipdesk/clipdesk/pkg/errorbank"
)

const identityKey = "clipdesk.identity"

// ActorResolver maps request credentials onto a lifecycle actor. Admin
// authority comes from the injected Auth config, never from a global.
type ActorResolver struct {
	adminToken  string
	adminEmails map[string]struct{}
}

// NewActorResolver builds the resolver from application configuration.
func NewActorResolver(cfg config.Config) *ActorResolver {
	emails := make(map[string]struct{}, len(cfg.Auth.AdminEmails))
	for _, email := range cfg.Auth.AdminEmails {
		emails[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return &ActorResolver{
		adminToken:  cfg.Auth.AdminToken,
		adminEmails: emails,
	}
}

// Resolve attaches the caller identity to the request context.
func (r *ActorResolver) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(identityKey, r.identify(c))
		return next(c)
	}
}

// RequireAdmin rejects requests whose resolved identity lacks admin or
// system authority.
func (r *ActorResolver) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IdentityFrom(c).IsStaff() {
			return response.New(c).WithError(errorbank.Forbidden("administrator access required")).Build()
		}
		return next(c)
	}
}

func (r *ActorResolver) identify(c echo.Context) service.Identity {
	email := strings.ToLower(strings.TrimSpace(c.Request().Header.Get("X-Client-Email")))

	if token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
		if r.adminToken != "" && token == r.adminToken {
			return service.Identity{Actor: lifecycle.ActorSystem, Email: email}
		}
	}
	if _, ok := r.adminEmails[email]; ok && email != "" {
		return service.Identity{Actor: lifecycle.ActorAdmin, Email: email}
	}
	return service.Identity{Actor: lifecycle.ActorClient, Email: email}
}

// IdentityFrom extracts the resolved identity; absent middleware it
// degrades to an anonymous client.
func IdentityFrom(c echo.Context) service.Identity {
	if ident, ok := c.Get(identityKey).(service.Identity); ok {
		return ident
	}
	return service.Identity{Actor: lifecycle.ActorClient}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
