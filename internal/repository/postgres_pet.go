package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/pawhome/adoption-api/internal/domain"
)

type postgresPetRepository struct {
	conn Connection
}

func NewPostgresPet(conn Connection) domain.PetRepository {
	return &postgresPetRepository{conn: conn}
}

// Create implements domain.PetRepository.
func (p *postgresPetRepository) Create(ctx context.Context, pet *domain.Pet) error {
	query := `
		INSERT INTO pets (name, species, breed_id, gender, age, description, image_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING *`
	rows, err := p.conn.Query(ctx, query,
		pet.Name, pet.Species, pet.BreedID, pet.Gender, pet.Age, pet.Description, pet.ImageURL, pet.Status)
	if err != nil {
		return err
	}
	return pgxscan.ScanOne(pet, rows)
}

// GetByID implements domain.PetRepository.
func (p *postgresPetRepository) GetByID(ctx context.Context, id int64) (domain.Pet, error) {
	var pet domain.Pet
	rows, err := p.conn.Query(ctx, "SELECT * FROM pets WHERE id = $1", id)
	if err != nil {
		return pet, err
	}
	err = pgxscan.ScanOne(&pet, rows)
	if err != nil {
		if pgxscan.NotFound(err) {
			return pet, domain.ErrNotFound
		}
		return pet, err
	}
	return pet, nil
}

// List implements domain.PetRepository.
func (p *postgresPetRepository) List(ctx context.Context) ([]domain.Pet, error) {
	pets := make([]domain.Pet, 0)
	err := pgxscan.Select(ctx, p.conn, &pets, "SELECT * FROM pets ORDER BY created_at DESC, id DESC")
	if err != nil {
		return pets, err
	}
	return pets, nil
}

// Update implements domain.PetRepository.
func (p *postgresPetRepository) Update(ctx context.Context, pet *domain.Pet) error {
	query := `
		UPDATE pets SET name = $1, species = $2, breed_id = $3, gender = $4, age = $5,
			description = $6, image_url = $7, updated_at = NOW()
		WHERE id = $8`
	tag, err := p.conn.Exec(ctx, query,
		pet.Name, pet.Species, pet.BreedID, pet.Gender, pet.Age, pet.Description, pet.ImageURL, pet.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete implements domain.PetRepository.
func (p *postgresPetRepository) Delete(ctx context.Context, id int64) error {
	tag, err := p.conn.Exec(ctx, "DELETE FROM pets WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetAvailability implements domain.PetRepository.
func (p *postgresPetRepository) SetAvailability(ctx context.Context, petID int64, code domain.PetAvailability) error {
	tag, err := p.conn.Exec(ctx, "UPDATE pets SET status = $1, updated_at = NOW() WHERE id = $2", code, petID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetAvailability implements domain.PetRepository.
func (p *postgresPetRepository) GetAvailability(ctx context.Context, petID int64) (domain.PetAvailability, error) {
	var code domain.PetAvailability
	rows, err := p.conn.Query(ctx, "SELECT status FROM pets WHERE id = $1", petID)
	if err != nil {
		return code, err
	}
	err = pgxscan.ScanOne(&code, rows)
	if err != nil {
		if pgxscan.NotFound(err) {
			return code, domain.ErrNotFound
		}
		return code, err
	}
	return code, nil
}
