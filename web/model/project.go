package model

import (
	"strings"
	"time"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/projection"
	"github.com/hachrisjordan/newroutebuilder-sub001/xtime"
)

type TimeWindow struct {
	From xtime.LocalTime `json:"from"`
	To   xtime.LocalTime `json:"to"`
}

type ProjectRequest struct {
	Key                 string             `json:"key" validate:"required"`
	Stops               *[]int             `json:"stops,omitempty"`
	IncludeCarriers     *[]string          `json:"includeCarriers,omitempty" validate:"omitempty,dive,len=2"`
	ExcludeCarriers     *[]string          `json:"excludeCarriers,omitempty" validate:"omitempty,dive,len=2"`
	MaxDurationMinutes  int                `json:"maxDurationMinutes,omitempty" validate:"omitempty,min=1"`
	MinCabinPercent     map[string]float64 `json:"minCabinPercent,omitempty"`
	DepartureWindow     *TimeWindow        `json:"departureWindow,omitempty"`
	ArrivalWindow       *TimeWindow        `json:"arrivalWindow,omitempty"`
	IncludeOrigins      *[]string          `json:"includeOrigins,omitempty"`
	ExcludeOrigins      *[]string          `json:"excludeOrigins,omitempty"`
	IncludeDestinations *[]string          `json:"includeDestinations,omitempty"`
	ExcludeDestinations *[]string          `json:"excludeDestinations,omitempty"`
	IncludeConnections  *[]string          `json:"includeConnections,omitempty"`
	ExcludeConnections  *[]string          `json:"excludeConnections,omitempty"`
	Search              string             `json:"search,omitempty"`
	Sort                string             `json:"sort,omitempty" validate:"omitempty,oneof=duration departure arrival y w j f"`
	Page                int                `json:"page,omitempty" validate:"omitempty,min=1"`
}

func (r ProjectRequest) Options() []projection.Option {
	options := make([]projection.Option, 0)

	if r.Stops != nil {
		options = append(options, projection.WithStops(*r.Stops))
	}
	if r.IncludeCarriers != nil {
		options = append(options, projection.WithIncludeCarriers(*r.IncludeCarriers))
	}
	if r.ExcludeCarriers != nil {
		options = append(options, projection.WithExcludeCarriers(*r.ExcludeCarriers))
	}
	if r.MaxDurationMinutes > 0 {
		options = append(options, projection.WithMaxDuration(time.Duration(r.MaxDurationMinutes)*time.Minute))
	}

	for cabin, pct := range r.MinCabinPercent {
		if cabin = strings.ToUpper(cabin); len(cabin) == 1 && strings.ContainsAny(cabin, "YWJF") {
			options = append(options, projection.WithMinCabinPercent{Cabin: cabin[0], Percent: pct})
		}
	}

	if r.DepartureWindow != nil {
		options = append(options, projection.WithDepartureWindow{r.DepartureWindow.From, r.DepartureWindow.To})
	}
	if r.ArrivalWindow != nil {
		options = append(options, projection.WithArrivalWindow{r.ArrivalWindow.From, r.ArrivalWindow.To})
	}

	if r.IncludeOrigins != nil {
		options = append(options, projection.WithIncludeOrigins(*r.IncludeOrigins))
	}
	if r.ExcludeOrigins != nil {
		options = append(options, projection.WithExcludeOrigins(*r.ExcludeOrigins))
	}
	if r.IncludeDestinations != nil {
		options = append(options, projection.WithIncludeDestinations(*r.IncludeDestinations))
	}
	if r.ExcludeDestinations != nil {
		options = append(options, projection.WithExcludeDestinations(*r.ExcludeDestinations))
	}
	if r.IncludeConnections != nil {
		options = append(options, projection.WithIncludeConnections(*r.IncludeConnections))
	}
	if r.ExcludeConnections != nil {
		options = append(options, projection.WithExcludeConnections(*r.ExcludeConnections))
	}

	if r.Search != "" {
		options = append(options, projection.WithSearch(r.Search))
	}
	if r.Sort != "" {
		options = append(options, projection.WithSort(r.Sort))
	}
	if r.Page > 0 {
		options = append(options, projection.WithPage(r.Page))
	}

	return options
}

type ProjectResponse struct {
	Page     projection.Page     `json:"page"`
	Metadata projection.Metadata `json:"metadata"`
}
