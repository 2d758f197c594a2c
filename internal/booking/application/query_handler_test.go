package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railway/internal/booking/application"
	"github.com/mateusmacedo/go-railway/internal/booking/domain"
	"github.com/mateusmacedo/go-railway/internal/identity"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
	zapAdapter "github.com/mateusmacedo/go-railway/pkg/infrastructure/zaplogger/adapter"
)

func ids(bookings []domain.Booking) []string {
	out := make([]string, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.ID)
	}
	return out
}

func TestBookingQueries(t *testing.T) {
	h := newHarness(t, nil)
	h.addTrain(t, "t-1", 10, 10, 100)
	logger := zapAdapter.NewNopAppLogger()
	ctx := context.Background()

	first, err := h.book(alice, "t-1", 1)
	require.NoError(t, err)
	second, err := h.book(bob, "t-1", 1)
	require.NoError(t, err)
	third, err := h.book(alice, "t-1", 2)
	require.NoError(t, err)

	get := application.NewGetBookingHandler(h.bookings, logger)
	listMine := application.NewListUserBookingsHandler(h.bookings, logger)
	listAll := application.NewListAllBookingsHandler(h.bookings, logger)

	got, err := get.Handle(ctx, application.NewGetBookingQuery(application.GetBookingData{Requester: alice, BookingID: first.ID}))
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = get.Handle(ctx, application.NewGetBookingQuery(application.GetBookingData{Requester: bob, BookingID: first.ID}))
	assert.ErrorIs(t, err, pkgDomain.ErrForbidden)

	_, err = get.Handle(ctx, application.NewGetBookingQuery(application.GetBookingData{Requester: root, BookingID: first.ID}))
	assert.NoError(t, err)

	_, err = get.Handle(ctx, application.NewGetBookingQuery(application.GetBookingData{Requester: alice, BookingID: "nope"}))
	assert.ErrorIs(t, err, pkgDomain.ErrNotFound)

	mine, err := listMine.Handle(ctx, application.NewListUserBookingsQuery(application.ListBookingsData{Requester: alice}))
	require.NoError(t, err)
	assert.Equal(t, []string{third.ID, first.ID}, ids(mine))

	_, err = listAll.Handle(ctx, application.NewListAllBookingsQuery(application.ListBookingsData{Requester: alice}))
	assert.ErrorIs(t, err, pkgDomain.ErrForbidden)

	_, err = listMine.Handle(ctx, application.NewListUserBookingsQuery(application.ListBookingsData{Requester: identity.Identity{}}))
	assert.ErrorIs(t, err, pkgDomain.ErrUnauthenticated)

	all, err := listAll.Handle(ctx, application.NewListAllBookingsQuery(application.ListBookingsData{Requester: root}))
	require.NoError(t, err)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, ids(all))
}
