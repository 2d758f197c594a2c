package train

import (
	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railway/internal/identity"
	"github.com/mateusmacedo/go-railway/internal/train/application"
	"github.com/mateusmacedo/go-railway/internal/train/domain"
	"github.com/mateusmacedo/go-railway/internal/train/infrastructure"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-railway/pkg/infrastructure"
	"github.com/mateusmacedo/go-railway/pkg/infrastructure/httpapi"
)

type TrainSlice struct {
	httpHandler *infrastructure.TrainHTTPHandler
	ledger      *application.InventoryLedger
}

// NewTrainSlice registra os manipuladores de trem nos barramentos do slice.
// repository atende às leituras e à administração; store é a autoridade
// atômica sobre os contadores de assentos.
func NewTrainSlice(
	repository domain.TrainRepository,
	store domain.Ledger,
	idGenerator pkgDomain.IDGenerator[string],
	clock pkgDomain.Clock,
	logger pkgApp.AppLogger,
	auth *identity.Middleware,
	responder *httpapi.Responder,
) *TrainSlice {
	createBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CreateTrainData], application.CreateTrainData, domain.Train](logger)
	updateBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.UpdateTrainData], application.UpdateTrainData, domain.Train](logger)
	deleteBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.DeleteTrainData], application.DeleteTrainData, domain.Train](logger)
	listBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListTrainsData], application.ListTrainsData, []domain.Train](logger)
	getBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.GetTrainData], application.GetTrainData, domain.Train](logger)

	createBus.RegisterHandler(application.CreateTrainCommand, application.NewCreateTrainHandler(repository, idGenerator, clock, logger))
	updateBus.RegisterHandler(application.UpdateTrainCommand, application.NewUpdateTrainHandler(repository, clock, logger))
	deleteBus.RegisterHandler(application.DeleteTrainCommand, application.NewDeleteTrainHandler(repository, logger))
	listBus.RegisterHandler(application.ListTrainsQuery, application.NewListTrainsHandler(repository, logger))
	getBus.RegisterHandler(application.GetTrainQuery, application.NewGetTrainHandler(repository, logger))

	return &TrainSlice{
		httpHandler: infrastructure.NewTrainHTTPHandler(createBus, updateBus, deleteBus, listBus, getBus, auth, responder),
		ledger:      application.NewInventoryLedger(store, logger),
	}
}

func (s *TrainSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}

// Ledger é a autoridade de assentos consumida pelo slice de reservas.
func (s *TrainSlice) Ledger() domain.Ledger {
	return s.ledger
}
