package application

import (
	"github.com/mateusmacedo/go-railway/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

const (
	ListTrainsQuery = "ListTrains"
	GetTrainQuery   = "GetTrain"
)

type ListTrainsData struct {
	Filter domain.TrainFilter
}

type GetTrainData struct {
	ID string
}

type (
	ListTrainsBus = pkgApp.QueryBus[pkgDomain.Query[ListTrainsData], ListTrainsData, []domain.Train]
	GetTrainBus   = pkgApp.QueryBus[pkgDomain.Query[GetTrainData], GetTrainData, domain.Train]
)

func NewListTrainsQuery(data ListTrainsData) pkgDomain.Query[ListTrainsData] {
	return pkgDomain.NewQuery(ListTrainsQuery, data)
}

func NewGetTrainQuery(data GetTrainData) pkgDomain.Query[GetTrainData] {
	return pkgDomain.NewQuery(GetTrainQuery, data)
}
