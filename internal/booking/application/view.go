package application

import (
	"context"
	"errors"

	"github.com/mateusmacedo/go-railway/internal/booking/domain"
	trainDomain "github.com/mateusmacedo/go-railway/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

// BookingView é a reserva acompanhada do registro atual do trem. Train fica
// nil quando o trem foi removido depois da reserva.
type BookingView struct {
	domain.Booking
	Train *trainDomain.Train `json:"train"`
}

// BookingViewer resolve o trem de cada reserva pelo TrainCatalog.
type BookingViewer struct {
	catalog domain.TrainCatalog
	logger  pkgApp.AppLogger
}

func NewBookingViewer(catalog domain.TrainCatalog, logger pkgApp.AppLogger) *BookingViewer {
	return &BookingViewer{catalog: catalog, logger: logger}
}

func (v *BookingViewer) View(ctx context.Context, booking domain.Booking) (BookingView, error) {
	views, err := v.ViewAll(ctx, []domain.Booking{booking})
	if err != nil {
		return BookingView{}, err
	}
	return views[0], nil
}

// ViewAll consulta cada trem uma única vez, mesmo com várias reservas nele.
func (v *BookingViewer) ViewAll(ctx context.Context, bookings []domain.Booking) ([]BookingView, error) {
	trains := make(map[string]*trainDomain.Train)
	views := make([]BookingView, 0, len(bookings))

	for _, booking := range bookings {
		train, seen := trains[booking.TrainID]
		if !seen {
			found, err := v.catalog.FindByID(ctx, booking.TrainID)
			switch {
			case err == nil:
				train = &found
			case errors.Is(err, pkgDomain.ErrNotFound):
				pkgApp.LogDebug(ctx, v.logger, "Trem da reserva não existe mais", map[string]interface{}{
					"booking_id": booking.ID,
					"train_id":   booking.TrainID,
				})
			default:
				pkgApp.LogError(ctx, v.logger, "Erro ao buscar trem da reserva", err, map[string]interface{}{
					"train_id": booking.TrainID,
				})
				return nil, err
			}
			trains[booking.TrainID] = train
		}
		views = append(views, BookingView{Booking: booking, Train: train})
	}
	return views, nil
}
