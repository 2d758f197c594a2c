package infrastructure

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railway/internal/booking/application"
	"github.com/mateusmacedo/go-railway/internal/booking/domain"
	"github.com/mateusmacedo/go-railway/internal/identity"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
	"github.com/mateusmacedo/go-railway/pkg/infrastructure/httpapi"
)

type bookingEnvelope struct {
	Message string      `json:"message"`
	Booking interface{} `json:"booking"`
}

// createBookingRequest aceita o totalAmount que clientes enviam junto da
// reserva. O valor é descartado; o total é sempre calculado pelo servidor.
type createBookingRequest struct {
	application.CreateBookingData
	TotalAmount *float64 `json:"totalAmount,omitempty"`
}

type BookingHTTPHandler struct {
	createBus application.CreateBookingBus
	cancelBus application.CancelBookingBus
	getBus    application.GetBookingBus
	listBus   application.ListBookingsBus
	viewer    *application.BookingViewer
	auth      *identity.Middleware
	responder *httpapi.Responder
}

func NewBookingHTTPHandler(
	createBus application.CreateBookingBus,
	cancelBus application.CancelBookingBus,
	getBus application.GetBookingBus,
	listBus application.ListBookingsBus,
	viewer *application.BookingViewer,
	auth *identity.Middleware,
	responder *httpapi.Responder,
) *BookingHTTPHandler {
	return &BookingHTTPHandler{
		createBus: createBus,
		cancelBus: cancelBus,
		getBus:    getBus,
		listBus:   listBus,
		viewer:    viewer,
		auth:      auth,
		responder: responder,
	}
}

func (h *BookingHTTPHandler) HandleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var request createBookingRequest
	if err := httpapi.DecodeJSON(r, &request); err != nil {
		h.responder.BadRequest(w, r, "invalid request body: "+err.Error())
		return
	}
	data := request.CreateBookingData
	data.Requester, _ = identity.FromContext(r.Context())

	booking, err := h.createBus.Dispatch(r.Context(), application.NewCreateBookingCommand(data))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.JSON(w, r, http.StatusCreated, bookingEnvelope{Message: "Booking confirmed successfully", Booking: booking})
}

func (h *BookingHTTPHandler) HandleCancelBooking(w http.ResponseWriter, r *http.Request) {
	requester, _ := identity.FromContext(r.Context())
	booking, err := h.cancelBus.Dispatch(r.Context(), application.NewCancelBookingCommand(application.CancelBookingData{
		Requester: requester,
		BookingID: chi.URLParam(r, "bookingID"),
	}))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	view, err := h.viewer.View(r.Context(), booking)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, bookingEnvelope{Message: "Booking cancelled successfully", Booking: view})
}

func (h *BookingHTTPHandler) HandleGetBooking(w http.ResponseWriter, r *http.Request) {
	requester, _ := identity.FromContext(r.Context())
	booking, err := h.getBus.Dispatch(r.Context(), application.NewGetBookingQuery(application.GetBookingData{
		Requester: requester,
		BookingID: chi.URLParam(r, "bookingID"),
	}))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	view, err := h.viewer.View(r.Context(), booking)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, view)
}

func (h *BookingHTTPHandler) HandleListUserBookings(w http.ResponseWriter, r *http.Request) {
	requester, _ := identity.FromContext(r.Context())
	h.list(w, r, application.NewListUserBookingsQuery(application.ListBookingsData{Requester: requester}))
}

func (h *BookingHTTPHandler) HandleListAllBookings(w http.ResponseWriter, r *http.Request) {
	requester, _ := identity.FromContext(r.Context())
	h.list(w, r, application.NewListAllBookingsQuery(application.ListBookingsData{Requester: requester}))
}

func (h *BookingHTTPHandler) list(w http.ResponseWriter, r *http.Request, query pkgDomain.Query[application.ListBookingsData]) {
	bookings, err := h.listBus.Dispatch(r.Context(), query)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	views, err := h.viewer.ViewAll(r.Context(), bookings)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, views)
}

func (h *BookingHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Route("/bookings", func(r chi.Router) {
		r.Use(h.auth.Authenticate)

		r.Post("/", h.HandleCreateBooking)
		r.Get("/user", h.HandleListUserBookings)
		r.With(h.auth.RequireAdmin).Get("/all", h.HandleListAllBookings)
		r.Get("/{bookingID}", h.HandleGetBooking)
		r.Patch("/{bookingID}/cancel", h.HandleCancelBooking)
	})
}

// ErrorClassifier mapeia o cancelamento repetido para 409.
func ErrorClassifier(err error) (int, string, bool) {
	if errors.Is(err, domain.ErrAlreadyCancelled) {
		return http.StatusConflict, "already_cancelled", true
	}
	return 0, "", false
}
