package domain

import "context"

type Breed struct {
	ID   int64
	Name string
}

type BreedRepository interface {
	ListBySpecies(ctx context.Context, species string) ([]Breed, error)
}
