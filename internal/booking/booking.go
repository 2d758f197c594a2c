package booking

import (
	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railway/internal/booking/application"
	"github.com/mateusmacedo/go-railway/internal/booking/domain"
	"github.com/mateusmacedo/go-railway/internal/booking/infrastructure"
	"github.com/mateusmacedo/go-railway/internal/identity"
	trainDomain "github.com/mateusmacedo/go-railway/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-railway/pkg/infrastructure"
	"github.com/mateusmacedo/go-railway/pkg/infrastructure/httpapi"
)

// Dependencies agrupa o que o slice de reservas consome dos demais slices e
// da infraestrutura.
type Dependencies struct {
	Repository    domain.BookingRepository
	Catalog       domain.TrainCatalog
	Ledger        trainDomain.Ledger
	EventBus      application.BookingEventBus
	ReleasePolicy application.ReleasePolicy
	IDGenerator   pkgDomain.IDGenerator[string]
	Clock         pkgDomain.Clock
	Logger        pkgApp.AppLogger
	Auth          *identity.Middleware
	Responder     *httpapi.Responder
}

type BookingSlice struct {
	httpHandler *infrastructure.BookingHTTPHandler
}

func NewBookingSlice(deps Dependencies) (*BookingSlice, error) {
	logger := deps.Logger

	createBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CreateBookingData], application.CreateBookingData, domain.Booking](logger)
	cancelBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData, domain.Booking](logger)
	getBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.GetBookingData], application.GetBookingData, domain.Booking](logger)
	listBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListBookingsData], application.ListBookingsData, []domain.Booking](logger)

	createBus.RegisterHandler(application.CreateBookingCommand, application.NewCreateBookingHandler(
		deps.Repository, deps.Catalog, deps.Ledger, deps.ReleasePolicy, deps.EventBus, deps.IDGenerator, deps.Clock, logger,
	))
	cancelBus.RegisterHandler(application.CancelBookingCommand, application.NewCancelBookingHandler(
		deps.Repository, deps.Ledger, deps.ReleasePolicy, deps.EventBus, deps.Clock, logger,
	))
	getBus.RegisterHandler(application.GetBookingQuery, application.NewGetBookingHandler(deps.Repository, logger))
	listBus.RegisterHandler(application.ListUserBookingsQuery, application.NewListUserBookingsHandler(deps.Repository, logger))
	listBus.RegisterHandler(application.ListAllBookingsQuery, application.NewListAllBookingsHandler(deps.Repository, logger))

	audit := application.NewBookingAuditHandler(logger)
	for _, name := range []string{application.BookingConfirmedEvent, application.BookingCancelledEvent} {
		if err := deps.EventBus.RegisterHandler(name, audit); err != nil {
			return nil, err
		}
	}

	return &BookingSlice{
		httpHandler: infrastructure.NewBookingHTTPHandler(
			createBus, cancelBus, getBus, listBus, application.NewBookingViewer(deps.Catalog, logger), deps.Auth, deps.Responder,
		),
	}, nil
}

func (s *BookingSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
