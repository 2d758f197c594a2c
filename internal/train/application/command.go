package application

import (
	"github.com/mateusmacedo/go-railway/internal/identity"
	"github.com/mateusmacedo/go-railway/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

const (
	CreateTrainCommand = "CreateTrain"
	UpdateTrainCommand = "UpdateTrain"
	DeleteTrainCommand = "DeleteTrain"
)

// CreateTrainData contém os dados de um novo trem. AvailableSeats começa igual a TotalSeats.
type CreateTrainData struct {
	Requester     identity.Identity `json:"-"`
	Name          string            `json:"name"`
	Number        string            `json:"number"`
	Source        string            `json:"source"`
	Destination   string            `json:"destination"`
	DepartureTime string            `json:"departureTime"`
	ArrivalTime   string            `json:"arrivalTime"`
	TotalSeats    int               `json:"totalSeats"`
	Price         float64           `json:"price"`
}

// UpdateTrainData é uma alteração parcial; campos nil ficam como estão.
// Os contadores de assentos não fazem parte dela.
type UpdateTrainData struct {
	Requester     identity.Identity `json:"-"`
	ID            string            `json:"-"`
	Name          *string           `json:"name,omitempty"`
	Number        *string           `json:"number,omitempty"`
	Source        *string           `json:"source,omitempty"`
	Destination   *string           `json:"destination,omitempty"`
	DepartureTime *string           `json:"departureTime,omitempty"`
	ArrivalTime   *string           `json:"arrivalTime,omitempty"`
	Price         *float64          `json:"price,omitempty"`
}

type DeleteTrainData struct {
	Requester identity.Identity
	ID        string
}

type (
	CreateTrainBus = pkgApp.CommandBus[pkgDomain.Command[CreateTrainData], CreateTrainData, domain.Train]
	UpdateTrainBus = pkgApp.CommandBus[pkgDomain.Command[UpdateTrainData], UpdateTrainData, domain.Train]
	DeleteTrainBus = pkgApp.CommandBus[pkgDomain.Command[DeleteTrainData], DeleteTrainData, domain.Train]
)

func NewCreateTrainCommand(data CreateTrainData) pkgDomain.Command[CreateTrainData] {
	return pkgDomain.NewCommand(CreateTrainCommand, data)
}

func NewUpdateTrainCommand(data UpdateTrainData) pkgDomain.Command[UpdateTrainData] {
	return pkgDomain.NewCommand(UpdateTrainCommand, data)
}

func NewDeleteTrainCommand(data DeleteTrainData) pkgDomain.Command[DeleteTrainData] {
	return pkgDomain.NewCommand(DeleteTrainCommand, data)
}
