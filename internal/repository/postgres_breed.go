package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/pawhome/adoption-api/internal/domain"
)

type postgresBreedRepository struct {
	conn Connection
}

func NewPostgresBreed(conn Connection) domain.BreedRepository {
	return &postgresBreedRepository{conn: conn}
}

// ListBySpecies implements domain.BreedRepository. Breeds live in one table
// per species; species without a breed table are a validation failure.
func (p *postgresBreedRepository) ListBySpecies(ctx context.Context, species string) ([]domain.Breed, error) {
	var table string
	switch species {
	case domain.SpeciesDog:
		table = "dog_breeds"
	case domain.SpeciesCat:
		table = "cat_breeds"
	default:
		return nil, domain.NewValidationError("species", "must be Dog or Cat")
	}
	breeds := make([]domain.Breed, 0)
	err := pgxscan.Select(ctx, p.conn, &breeds, "SELECT id, name FROM "+table+" ORDER BY name")
	if err != nil {
		return breeds, err
	}
	return breeds, nil
}
