package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pawhome/adoption-api/internal/domain"
	"github.com/samber/lo"
)

// Memory implements the domain repositories in process memory. It mirrors the
// Postgres store's semantics, including the atomicity of Transition, and backs
// the service and handler tests.
type Memory struct {
	mu sync.Mutex

	users map[int64]domain.User
	pets  map[int64]domain.Pet
	apps  map[int64]domain.Application

	dogBreeds map[int64]domain.Breed
	catBreeds map[int64]domain.Breed

	nextID int64
}

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[int64]domain.User),
		pets:      make(map[int64]domain.Pet),
		apps:      make(map[int64]domain.Application),
		dogBreeds: make(map[int64]domain.Breed),
		catBreeds: make(map[int64]domain.Breed),
	}
}

func (m *Memory) Users() domain.UserRepository               { return &memoryUserRepository{m} }
func (m *Memory) Pets() domain.PetRepository                 { return &memoryPetRepository{m} }
func (m *Memory) Breeds() domain.BreedRepository             { return &memoryBreedRepository{m} }
func (m *Memory) Applications() domain.ApplicationRepository { return &memoryApplicationRepository{m} }

// AddBreed registers a breed under the species' table. Test seeding helper.
func (m *Memory) AddBreed(species string, name string) domain.Breed {
	m.mu.Lock()
	defer m.mu.Unlock()
	breed := domain.Breed{ID: m.id(), Name: name}
	switch species {
	case domain.SpeciesDog:
		m.dogBreeds[breed.ID] = breed
	case domain.SpeciesCat:
		m.catBreeds[breed.ID] = breed
	}
	return breed
}

// id assigns the next identifier. Callers must hold mu.
func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

type memoryUserRepository struct{ m *Memory }

func (r *memoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == user.Email {
			return domain.ErrConflict
		}
	}
	user.ID = r.m.id()
	user.CreatedAt = time.Now()
	r.m.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := lo.Find(lo.Values(r.m.users), func(u domain.User) bool { return u.Email == email })
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

type memoryPetRepository struct{ m *Memory }

func (r *memoryPetRepository) Create(ctx context.Context, pet *domain.Pet) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	pet.ID = r.m.id()
	pet.CreatedAt = time.Now()
	if pet.Status == 0 {
		pet.Status = domain.PetAvailable
	}
	r.m.pets[pet.ID] = *pet
	return nil
}

func (r *memoryPetRepository) GetByID(ctx context.Context, id int64) (domain.Pet, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	pet, ok := r.m.pets[id]
	if !ok {
		return domain.Pet{}, domain.ErrNotFound
	}
	return pet, nil
}

func (r *memoryPetRepository) List(ctx context.Context) ([]domain.Pet, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	pets := lo.Values(r.m.pets)
	sort.Slice(pets, func(i, j int) bool { return pets[i].ID > pets[j].ID })
	return pets, nil
}

func (r *memoryPetRepository) Update(ctx context.Context, pet *domain.Pet) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.pets[pet.ID]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	pet.Status = existing.Status
	pet.CreatedAt = existing.CreatedAt
	pet.UpdatedAt = &now
	r.m.pets[pet.ID] = *pet
	return nil
}

func (r *memoryPetRepository) Delete(ctx context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.pets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.pets, id)
	return nil
}

func (r *memoryPetRepository) SetAvailability(ctx context.Context, petID int64, code domain.PetAvailability) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	pet, ok := r.m.pets[petID]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	pet.Status = code
	pet.UpdatedAt = &now
	r.m.pets[petID] = pet
	return nil
}

func (r *memoryPetRepository) GetAvailability(ctx context.Context, petID int64) (domain.PetAvailability, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	pet, ok := r.m.pets[petID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return pet.Status, nil
}

type memoryBreedRepository struct{ m *Memory }

func (r *memoryBreedRepository) ListBySpecies(ctx context.Context, species string) ([]domain.Breed, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var breeds []domain.Breed
	switch species {
	case domain.SpeciesDog:
		breeds = lo.Values(r.m.dogBreeds)
	case domain.SpeciesCat:
		breeds = lo.Values(r.m.catBreeds)
	default:
		return nil, domain.NewValidationError("species", "must be Dog or Cat")
	}
	sort.Slice(breeds, func(i, j int) bool { return breeds[i].Name < breeds[j].Name })
	return breeds, nil
}

type memoryApplicationRepository struct{ m *Memory }

func (r *memoryApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[app.UserID]; !ok {
		return fmt.Errorf("applications_user_id_fkey: user %d does not exist", app.UserID)
	}
	if _, ok := r.m.pets[app.PetID]; !ok {
		return fmt.Errorf("applications_pet_id_fkey: pet %d does not exist", app.PetID)
	}
	now := time.Now()
	app.ID = r.m.id()
	app.Status = domain.StatusPending
	app.CreatedAt = now
	app.UpdatedAt = now
	r.m.apps[app.ID] = *app
	return nil
}

func (r *memoryApplicationRepository) GetByID(ctx context.Context, id int64) (domain.Application, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	app, ok := r.m.apps[id]
	if !ok {
		return domain.Application{}, domain.ErrNotFound
	}
	return app, nil
}

func (r *memoryApplicationRepository) List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.ApplicationDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	details := make([]domain.ApplicationDetail, 0)
	for _, app := range r.m.apps {
		if filter.UserID != nil && app.UserID != *filter.UserID {
			continue
		}
		user := r.m.users[app.UserID]
		pet := r.m.pets[app.PetID]
		detail := domain.ApplicationDetail{
			Application: app,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
			PetName:     pet.Name,
			Species:     pet.Species,
			Gender:      pet.Gender,
			Age:         pet.Age,
		}
		if pet.BreedID != nil {
			var breed domain.Breed
			var ok bool
			switch pet.Species {
			case domain.SpeciesDog:
				breed, ok = r.m.dogBreeds[*pet.BreedID]
			case domain.SpeciesCat:
				breed, ok = r.m.catBreeds[*pet.BreedID]
			}
			if ok {
				name := breed.Name
				detail.BreedName = &name
			}
		}
		details = append(details, detail)
	}
	sort.Slice(details, func(i, j int) bool { return details[i].ID > details[j].ID })
	return details, nil
}

// Transition mirrors the single-transaction semantics of the Postgres store:
// the whole operation happens under one lock and either fully applies or
// leaves both entities untouched.
func (r *memoryApplicationRepository) Transition(ctx context.Context, id int64, target domain.ApplicationStatus) (domain.Application, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	app, ok := r.m.apps[id]
	if !ok {
		return domain.Application{}, domain.ErrNotFound
	}
	if code, affectsPet := target.PetEffect(); affectsPet {
		pet, found := r.m.pets[app.PetID]
		if !found {
			return domain.Application{}, domain.ErrNotFound
		}
		if target == domain.StatusApproved && pet.Status == domain.PetReserved && app.Status != domain.StatusApproved {
			return domain.Application{}, domain.ErrPetReserved
		}
		now := time.Now()
		pet.Status = code
		pet.UpdatedAt = &now
		r.m.pets[app.PetID] = pet
	}
	app.Status = target
	app.UpdatedAt = time.Now()
	r.m.apps[id] = app
	return app, nil
}

func (r *memoryApplicationRepository) Delete(ctx context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.apps[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.apps, id)
	return nil
}
