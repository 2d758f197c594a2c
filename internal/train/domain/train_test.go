package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

func validTrain() Train {
	return Train{
		ID:             "t-1",
		Name:           "Rajdhani Express",
		Number:         "12001",
		Source:         "Mumbai",
		Destination:    "Delhi",
		DepartureTime:  "16:35",
		ArrivalTime:    "08:10",
		TotalSeats:     100,
		AvailableSeats: 100,
		Price:          2500,
	}
}

func TestTrain_Validate(t *testing.T) {
	assert.NoError(t, validTrain().Validate())

	tests := map[string]func(*Train){
		"blank name":           func(tr *Train) { tr.Name = "  " },
		"blank number":         func(tr *Train) { tr.Number = "" },
		"blank source":         func(tr *Train) { tr.Source = "" },
		"blank destination":    func(tr *Train) { tr.Destination = "" },
		"bad departure":        func(tr *Train) { tr.DepartureTime = "25:00" },
		"short arrival":        func(tr *Train) { tr.ArrivalTime = "8:10" },
		"no seats":             func(tr *Train) { tr.TotalSeats, tr.AvailableSeats = 0, 0 },
		"negative available":   func(tr *Train) { tr.AvailableSeats = -1 },
		"available over total": func(tr *Train) { tr.AvailableSeats = 101 },
		"negative price":       func(tr *Train) { tr.Price = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			train := validTrain()
			mutate(&train)
			assert.ErrorIs(t, train.Validate(), pkgDomain.ErrValidation)
		})
	}
}

func TestTrainFilter_Matches(t *testing.T) {
	train := validTrain()

	assert.True(t, TrainFilter{}.Matches(train))
	assert.True(t, TrainFilter{Source: "mum"}.Matches(train))
	assert.True(t, TrainFilter{Destination: "DEL"}.Matches(train))
	assert.True(t, TrainFilter{Source: "bai", Destination: "elh"}.Matches(train))
	assert.False(t, TrainFilter{Source: "delhi"}.Matches(train))
	assert.False(t, TrainFilter{Source: "mumbai", Destination: "chennai"}.Matches(train))
}

func TestTrainFilter_Normalize(t *testing.T) {
	filter := TrainFilter{Source: "  ", Destination: " Delhi "}.Normalize()
	assert.Equal(t, TrainFilter{Destination: "Delhi"}, filter)
	assert.True(t, TrainFilter{Source: " "}.Normalize().IsZero())
}
