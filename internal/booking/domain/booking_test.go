package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

func TestNormalizePassengers(t *testing.T) {
	input := []Passenger{
		{Name: "  Asha Rao ", Age: 34, Gender: GenderFemale},
		{Name: "Vikram", Age: 120, Gender: GenderMale, SeatPreference: SeatAisle},
	}

	got, err := NormalizePassengers(input)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got[0].Name)
	assert.Equal(t, SeatWindow, got[0].SeatPreference)
	assert.Equal(t, SeatAisle, got[1].SeatPreference)
	assert.Equal(t, "  Asha Rao ", input[0].Name, "input is not modified")
}

func TestNormalizePassengers_Rejects(t *testing.T) {
	valid := Passenger{Name: "Asha", Age: 30, Gender: GenderOther, SeatPreference: SeatMiddle}

	tests := []struct {
		name   string
		mutate func(*Passenger)
		empty  bool
	}{
		{name: "empty list", empty: true},
		{name: "blank name", mutate: func(p *Passenger) { p.Name = "   " }},
		{name: "age zero", mutate: func(p *Passenger) { p.Age = 0 }},
		{name: "age too high", mutate: func(p *Passenger) { p.Age = 121 }},
		{name: "unknown gender", mutate: func(p *Passenger) { p.Gender = "robot" }},
		{name: "unknown seat", mutate: func(p *Passenger) { p.SeatPreference = "roof" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var passengers []Passenger
			if !tt.empty {
				p := valid
				tt.mutate(&p)
				passengers = []Passenger{valid, p}
			}

			_, err := NormalizePassengers(passengers)
			assert.ErrorIs(t, err, pkgDomain.ErrValidation)
		})
	}
}

func TestPassengerUnmarshalJSON_Age(t *testing.T) {
	tests := map[string]int{
		`{"name":"Asha","age":34,"gender":"female"}`:     34,
		`{"name":"Asha","age":"34","gender":"female"}`:   34,
		`{"name":"Asha","age":" 34 ","gender":"female"}`: 34,
		`{"name":"Asha","age":"","gender":"female"}`:     0,
		`{"name":"Asha","gender":"female"}`:              0,
	}

	for body, want := range tests {
		t.Run(body, func(t *testing.T) {
			var p Passenger
			require.NoError(t, json.Unmarshal([]byte(body), &p))
			assert.Equal(t, want, p.Age)
			assert.Equal(t, "Asha", p.Name)
			assert.Equal(t, GenderFemale, p.Gender)
		})
	}
}

func TestPassengerUnmarshalJSON_Rejects(t *testing.T) {
	for _, body := range []string{
		`{"name":"Asha","age":"thirty","gender":"female"}`,
		`{"name":"Asha","age":34.5,"gender":"female"}`,
		`{"name":"Asha","age":34,"gender":"female","berth":"upper"}`,
	} {
		var p Passenger
		assert.Error(t, json.Unmarshal([]byte(body), &p), body)
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bookings := []Booking{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(time.Hour)},
		{ID: "c", CreatedAt: base},
	}

	SortNewestFirst(bookings)

	assert.Equal(t, "b", bookings[0].ID)
	assert.Equal(t, "c", bookings[1].ID)
	assert.Equal(t, "a", bookings[2].ID)
}
