package model

import (
	"github.com/hachrisjordan/newroutebuilder-sub001/business/search"
	"github.com/hachrisjordan/newroutebuilder-sub001/xtime"
)

type SearchRequest struct {
	Origin                string          `json:"origin" validate:"required"`
	Destination           string          `json:"destination" validate:"required"`
	MaxStop               int             `json:"maxStop" validate:"min=0,max=4"`
	StartDate             xtime.LocalDate `json:"startDate" validate:"required"`
	EndDate               xtime.LocalDate `json:"endDate" validate:"required"`
	Cabin                 string          `json:"cabin,omitempty" validate:"omitempty,oneof=Y W J F"`
	Carriers              []string        `json:"carriers,omitempty" validate:"omitempty,dive,len=2"`
	MinReliabilityPercent float64         `json:"minReliabilityPercent,omitempty" validate:"omitempty,min=0,max=100"`
}

func (r SearchRequest) ToRequest() search.Request {
	return search.Request{
		Origin:                r.Origin,
		Destination:           r.Destination,
		MaxStop:               r.MaxStop,
		Dates:                 xtime.LocalDateRange{r.StartDate, r.EndDate},
		Cabin:                 r.Cabin,
		Carriers:              r.Carriers,
		MinReliabilityPercent: r.MinReliabilityPercent,
	}
}
