package inventoryledger

import (
	"log/slog"

	httpadapter "medledger/contexts/pharmacy-supply/inventory-ledger/adapters/http"
	"medledger/contexts/pharmacy-supply/inventory-ledger/adapters/memory"
	"medledger/contexts/pharmacy-supply/inventory-ledger/application"
	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/identity"
	"medledger/contexts/pharmacy-supply/inventory-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository  ports.Repository
	Audit       ports.AuditLog
	Identity    identity.Resolver
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:     deps.Repository,
		Audit:    deps.Audit,
		Identity: deps.Identity,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(adminIdentity string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Audit:       store,
		Identity:    identity.NewResolver(adminIdentity),
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
