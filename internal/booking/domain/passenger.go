package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type SeatPreference string

const (
	SeatWindow SeatPreference = "window"
	SeatAisle  SeatPreference = "aisle"
	SeatMiddle SeatPreference = "middle"
)

const (
	minAge = 1
	maxAge = 120
)

// Passenger é apenas um item da reserva; não tem identidade própria.
// SeatPreference é uma preferência, não um assento atribuído.
type Passenger struct {
	Name           string         `json:"name"`
	Age            int            `json:"age"`
	Gender         Gender         `json:"gender"`
	SeatPreference SeatPreference `json:"seatPreference"`
}

// UnmarshalJSON aceita a idade como número ou como texto numérico, que é como
// formulários a enviam. Idade vazia vira zero e é rejeitada na validação.
func (p *Passenger) UnmarshalJSON(data []byte) error {
	type plain Passenger
	var raw struct {
		plain
		Age json.RawMessage `json:"age"`
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}

	age, err := parseAge(raw.Age)
	if err != nil {
		return err
	}
	*p = Passenger(raw.plain)
	p.Age = age
	return nil
}

func parseAge(raw json.RawMessage) (int, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, nil
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
		if text == "" {
			return 0, nil
		}
	}
	age, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("passenger age %s is not a whole number", string(raw))
	}
	return age, nil
}

// NormalizePassengers apara nomes, aplica a preferência padrão (window) e
// valida cada passageiro. Devolve uma cópia; a entrada não é alterada.
func NormalizePassengers(passengers []Passenger) ([]Passenger, error) {
	if len(passengers) == 0 {
		return nil, validationError([]string{"at least one passenger is required"})
	}

	normalized := make([]Passenger, len(passengers))
	var problems []string
	for i, p := range passengers {
		p.Name = strings.TrimSpace(p.Name)
		if p.SeatPreference == "" {
			p.SeatPreference = SeatWindow
		}

		if p.Name == "" {
			problems = append(problems, fmt.Sprintf("passenger %d: name is required", i+1))
		}
		if p.Age < minAge || p.Age > maxAge {
			problems = append(problems, fmt.Sprintf("passenger %d: age must be between %d and %d", i+1, minAge, maxAge))
		}
		switch p.Gender {
		case GenderMale, GenderFemale, GenderOther:
		default:
			problems = append(problems, fmt.Sprintf("passenger %d: gender must be male, female or other", i+1))
		}
		switch p.SeatPreference {
		case SeatWindow, SeatAisle, SeatMiddle:
		default:
			problems = append(problems, fmt.Sprintf("passenger %d: seatPreference must be window, aisle or middle", i+1))
		}
		normalized[i] = p
	}

	if len(problems) > 0 {
		return nil, validationError(problems)
	}
	return normalized, nil
}
