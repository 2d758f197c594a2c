package infrastructure

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railway/internal/identity"
	"github.com/mateusmacedo/go-railway/internal/train/application"
	"github.com/mateusmacedo/go-railway/internal/train/domain"
	"github.com/mateusmacedo/go-railway/pkg/infrastructure/httpapi"
)

type trainEnvelope struct {
	Message string        `json:"message"`
	Train   *domain.Train `json:"train,omitempty"`
}

// createTrainRequest aceita o availableSeats enviado por clientes no cadastro.
// O valor é descartado: um trem novo sempre começa com todos os assentos livres.
type createTrainRequest struct {
	application.CreateTrainData
	AvailableSeats *int `json:"availableSeats,omitempty"`
}

type TrainHTTPHandler struct {
	createBus application.CreateTrainBus
	updateBus application.UpdateTrainBus
	deleteBus application.DeleteTrainBus
	listBus   application.ListTrainsBus
	getBus    application.GetTrainBus
	auth      *identity.Middleware
	responder *httpapi.Responder
}

func NewTrainHTTPHandler(
	createBus application.CreateTrainBus,
	updateBus application.UpdateTrainBus,
	deleteBus application.DeleteTrainBus,
	listBus application.ListTrainsBus,
	getBus application.GetTrainBus,
	auth *identity.Middleware,
	responder *httpapi.Responder,
) *TrainHTTPHandler {
	return &TrainHTTPHandler{
		createBus: createBus,
		updateBus: updateBus,
		deleteBus: deleteBus,
		listBus:   listBus,
		getBus:    getBus,
		auth:      auth,
		responder: responder,
	}
}

func (h *TrainHTTPHandler) HandleListTrains(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.TrainFilter{})
}

func (h *TrainHTTPHandler) HandleSearchTrains(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.TrainFilter{
		Source:      r.URL.Query().Get("source"),
		Destination: r.URL.Query().Get("destination"),
	})
}

func (h *TrainHTTPHandler) list(w http.ResponseWriter, r *http.Request, filter domain.TrainFilter) {
	trains, err := h.listBus.Dispatch(r.Context(), application.NewListTrainsQuery(application.ListTrainsData{Filter: filter}))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	if trains == nil {
		trains = []domain.Train{}
	}
	h.responder.JSON(w, r, http.StatusOK, trains)
}

func (h *TrainHTTPHandler) HandleGetTrain(w http.ResponseWriter, r *http.Request) {
	train, err := h.getBus.Dispatch(r.Context(), application.NewGetTrainQuery(application.GetTrainData{
		ID: chi.URLParam(r, "trainID"),
	}))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, train)
}

func (h *TrainHTTPHandler) HandleCreateTrain(w http.ResponseWriter, r *http.Request) {
	var request createTrainRequest
	if err := httpapi.DecodeJSON(r, &request); err != nil {
		h.responder.BadRequest(w, r, "invalid request body: "+err.Error())
		return
	}
	data := request.CreateTrainData
	data.Requester, _ = identity.FromContext(r.Context())

	train, err := h.createBus.Dispatch(r.Context(), application.NewCreateTrainCommand(data))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.JSON(w, r, http.StatusCreated, trainEnvelope{Message: "Train added successfully", Train: &train})
}

func (h *TrainHTTPHandler) HandleUpdateTrain(w http.ResponseWriter, r *http.Request) {
	var data application.UpdateTrainData
	if err := httpapi.DecodeJSON(r, &data); err != nil {
		h.responder.BadRequest(w, r, "invalid request body: "+err.Error())
		return
	}
	data.ID = chi.URLParam(r, "trainID")
	data.Requester, _ = identity.FromContext(r.Context())

	train, err := h.updateBus.Dispatch(r.Context(), application.NewUpdateTrainCommand(data))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, trainEnvelope{Message: "Train updated successfully", Train: &train})
}

func (h *TrainHTTPHandler) HandleDeleteTrain(w http.ResponseWriter, r *http.Request) {
	requester, _ := identity.FromContext(r.Context())
	_, err := h.deleteBus.Dispatch(r.Context(), application.NewDeleteTrainCommand(application.DeleteTrainData{
		Requester: requester,
		ID:        chi.URLParam(r, "trainID"),
	}))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.JSON(w, r, http.StatusOK, trainEnvelope{Message: "Train deleted successfully"})
}

func (h *TrainHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Route("/trains", func(r chi.Router) {
		r.Get("/", h.HandleListTrains)
		r.Get("/search", h.HandleSearchTrains)
		r.Get("/{trainID}", h.HandleGetTrain)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Authenticate, h.auth.RequireAdmin)
			r.Post("/", h.HandleCreateTrain)
			r.Put("/{trainID}", h.HandleUpdateTrain)
			r.Delete("/{trainID}", h.HandleDeleteTrain)
		})
	})
}

// ErrorClassifier mapeia a falta de assentos para 409.
func ErrorClassifier(err error) (int, string, bool) {
	if errors.Is(err, domain.ErrInsufficientInventory) {
		return http.StatusConflict, "insufficient_inventory", true
	}
	return 0, "", false
}
