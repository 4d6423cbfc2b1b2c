package domain

import (
	"context"
	"time"
)

const (
	SpeciesDog = "Dog"
	SpeciesCat = "Cat"
)

// PetAvailability codes stored in pets.status. Codes outside {1,2} (drafts,
// unlisted pets) are owned by catalog tooling and never written through the
// transition path.
type PetAvailability int

const (
	PetAvailable PetAvailability = 1
	PetReserved  PetAvailability = 2
)

type Pet struct {
	ID          int64
	Name        string
	Species     string
	BreedID     *int64
	Gender      string
	Age         int
	Description string
	ImageURL    string
	Status      PetAvailability
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type PetRepository interface {
	Create(context.Context, *Pet) error
	GetByID(context.Context, int64) (Pet, error)
	List(context.Context) ([]Pet, error)
	Update(context.Context, *Pet) error
	Delete(context.Context, int64) error
	// SetAvailability writes the given code as-is; callers own the contract
	// that only valid availability codes reach this path.
	SetAvailability(ctx context.Context, petID int64, code PetAvailability) error
	GetAvailability(ctx context.Context, petID int64) (PetAvailability, error)
}
