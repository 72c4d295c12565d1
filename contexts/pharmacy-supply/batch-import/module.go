package batchimport

import (
	"log/slog"

	httpadapter "medledger/contexts/pharmacy-supply/batch-import/adapters/http"
	"medledger/contexts/pharmacy-supply/batch-import/application"
	"medledger/contexts/pharmacy-supply/batch-import/ports"
)

type Module struct {
	Handler httpadapter.Handler
}

type Dependencies struct {
	Ledger ports.LedgerGateway
	Clock  ports.Clock
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.ImportService{
		Ledger: deps.Ledger,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}
