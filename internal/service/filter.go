package service

import (
	"context"

	"gsa/internal/gmp/command"
	"gsa/internal/gmp/filter"
)

// FilterView is a parsed filter string with its derived paging filters.
type FilterView struct {
	Term      string        `json:"term"`
	Criteria  string        `json:"criteria"`
	Extra     string        `json:"extra"`
	Terms     []filter.Term `json:"terms"`
	First     int           `json:"first"`
	Rows      int           `json:"rows"`
	SortBy    string        `json:"sort_by,omitempty"`
	SortOrder string        `json:"sort_order,omitempty"`
	FirstPage string        `json:"first_page"`
	Next      string        `json:"next"`
	Previous  string        `json:"previous"`
	Last      string        `json:"last,omitempty"`
}

// FilterService parses filter strings and manages saved filters.
type FilterService interface {
	// Parse normalizes term. With filtered > 0 the view also points to the last page.
	Parse(term string, filtered int) FilterView
	// Create saves a filter and returns its id.
	Create(ctx context.Context, p command.FilterParams) (string, error)
	Save(ctx context.Context, id string, p command.FilterParams) error
}

type filterService struct {
	filters   *command.FilterCommand
	validator Validator
}

// NewFilterService constructs a FilterService sending through s.
func NewFilterService(s command.Sender, v Validator) FilterService {
	return &filterService{filters: command.NewFilterCommand(s), validator: v}
}

func (s *filterService) Parse(term string, filtered int) FilterView {
	f := filter.Parse(term)
	v := FilterView{
		Term:      f.String(),
		Criteria:  f.CriteriaString(),
		Extra:     f.ExtraString(),
		Terms:     f.Terms(),
		First:     f.First(),
		Rows:      f.Rows(),
		SortBy:    f.SortBy(),
		SortOrder: f.SortOrder(),
		FirstPage: f.FirstPage().String(),
		Next:      f.Next().String(),
		Previous:  f.Previous().String(),
	}
	if filtered > 0 {
		v.Last = f.LastPage(filtered).String()
	}
	return v
}

func (s *filterService) Create(ctx context.Context, p command.FilterParams) (string, error) {
	if err := validate(s.validator, p); err != nil {
		return "", err
	}
	p.Term = filter.Parse(p.Term).String()
	return s.filters.Create(ctx, p)
}

func (s *filterService) Save(ctx context.Context, id string, p command.FilterParams) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := validate(s.validator, p); err != nil {
		return err
	}
	p.Term = filter.Parse(p.Term).String()
	return s.filters.Save(ctx, id, p)
}
