package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/pawhome/adoption-api/internal/domain"
	"github.com/samber/lo"
)

type postgresApplicationRepository struct {
	conn Connection
}

func NewPostgresApplication(conn Connection) domain.ApplicationRepository {
	return &postgresApplicationRepository{conn: conn}
}

// Create implements domain.ApplicationRepository.
func (p *postgresApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (user_id, pet_id, adoption_reason, living_situation, experience,
			household_members, work_schedule, travel_frequency, time_commitment, outdoor_space,
			pet_allergies, pet_types_cared_for, pet_training, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING *`
	rows, err := p.conn.Query(ctx, query,
		app.UserID, app.PetID, app.AdoptionReason, app.LivingSituation, app.Experience,
		app.HouseholdMembers, app.WorkSchedule, app.TravelFrequency, app.TimeCommitment,
		app.OutdoorSpace, app.PetAllergies, app.PetTypesCaredFor, app.PetTraining,
		domain.StatusPending)
	if err != nil {
		return err
	}
	return pgxscan.ScanOne(app, rows)
}

// GetByID implements domain.ApplicationRepository.
func (p *postgresApplicationRepository) GetByID(ctx context.Context, id int64) (domain.Application, error) {
	var app domain.Application
	rows, err := p.conn.Query(ctx, "SELECT * FROM applications WHERE id = $1", id)
	if err != nil {
		return app, err
	}
	err = pgxscan.ScanOne(&app, rows)
	if err != nil {
		if pgxscan.NotFound(err) {
			return app, domain.ErrNotFound
		}
		return app, err
	}
	return app, nil
}

type applicationDetailDto struct {
	ID               int64
	UserID           int64
	PetID            int64
	AdoptionReason   string
	LivingSituation  string
	Experience       string
	HouseholdMembers string
	WorkSchedule     string
	TravelFrequency  string
	TimeCommitment   string
	OutdoorSpace     string
	PetAllergies     string
	PetTypesCaredFor string
	PetTraining      string
	Status           int
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined from users, pets and the per-species breed tables
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	PetName     string
	Species     string
	Gender      string
	Age         int
	BreedName   *string
}

func mapDtoDetail(dto applicationDetailDto) domain.ApplicationDetail {
	return domain.ApplicationDetail{
		Application: domain.Application{
			ID:               dto.ID,
			UserID:           dto.UserID,
			PetID:            dto.PetID,
			AdoptionReason:   dto.AdoptionReason,
			LivingSituation:  dto.LivingSituation,
			Experience:       dto.Experience,
			HouseholdMembers: dto.HouseholdMembers,
			WorkSchedule:     dto.WorkSchedule,
			TravelFrequency:  dto.TravelFrequency,
			TimeCommitment:   dto.TimeCommitment,
			OutdoorSpace:     dto.OutdoorSpace,
			PetAllergies:     dto.PetAllergies,
			PetTypesCaredFor: dto.PetTypesCaredFor,
			PetTraining:      dto.PetTraining,
			Status:           domain.ApplicationStatus(dto.Status),
			CreatedAt:        dto.CreatedAt,
			UpdatedAt:        dto.UpdatedAt,
		},
		FirstName:   dto.FirstName,
		LastName:    dto.LastName,
		Email:       dto.Email,
		PhoneNumber: dto.PhoneNumber,
		PetName:     dto.PetName,
		Species:     dto.Species,
		Gender:      dto.Gender,
		Age:         dto.Age,
		BreedName:   dto.BreedName,
	}
}

// List implements domain.ApplicationRepository. The breed name resolves via
// the species-conditional breed table and is NULL for other species.
func (p *postgresApplicationRepository) List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.ApplicationDetail, error) {
	query := `
		SELECT a.*, u.first_name, u.last_name, u.email, u.phone_number,
			pt.name AS pet_name, pt.species, pt.gender, pt.age,
			COALESCE(db.name, cb.name) AS breed_name
		FROM applications a
		JOIN users u ON u.id = a.user_id
		JOIN pets pt ON pt.id = a.pet_id
		LEFT JOIN dog_breeds db ON pt.species = 'Dog' AND db.id = pt.breed_id
		LEFT JOIN cat_breeds cb ON pt.species = 'Cat' AND cb.id = pt.breed_id`
	args := make([]any, 0, 1)
	if filter.UserID != nil {
		query += " WHERE a.user_id = $1"
		args = append(args, *filter.UserID)
	}
	query += " ORDER BY a.created_at DESC, a.id DESC"
	dtos := make([]applicationDetailDto, 0)
	err := pgxscan.Select(ctx, p.conn, &dtos, query, args...)
	if err != nil {
		return nil, err
	}
	return lo.Map(dtos, func(dto applicationDetailDto, _ int) domain.ApplicationDetail {
		return mapDtoDetail(dto)
	}), nil
}

// Transition implements domain.ApplicationRepository. The application row is
// locked first, so an unknown application id never touches a pet. Approval of
// a pet reserved by a different application fails with ErrPetReserved and
// rolls back; re-approving the already-approved application succeeds.
func (p *postgresApplicationRepository) Transition(ctx context.Context, id int64, target domain.ApplicationStatus) (domain.Application, error) {
	var app domain.Application
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return app, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, "SELECT * FROM applications WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		return app, err
	}
	err = pgxscan.ScanOne(&app, rows)
	if err != nil {
		if pgxscan.NotFound(err) {
			return app, domain.ErrNotFound
		}
		return app, err
	}

	if code, affectsPet := target.PetEffect(); affectsPet {
		var current domain.PetAvailability
		petRows, err := tx.Query(ctx, "SELECT status FROM pets WHERE id = $1 FOR UPDATE", app.PetID)
		if err != nil {
			return app, err
		}
		err = pgxscan.ScanOne(&current, petRows)
		if err != nil {
			if pgxscan.NotFound(err) {
				return app, domain.ErrNotFound
			}
			return app, err
		}
		if target == domain.StatusApproved && current == domain.PetReserved && app.Status != domain.StatusApproved {
			return app, domain.ErrPetReserved
		}
		_, err = tx.Exec(ctx, "UPDATE pets SET status = $1, updated_at = NOW() WHERE id = $2", code, app.PetID)
		if err != nil {
			return app, err
		}
	}

	rows, err = tx.Query(ctx, "UPDATE applications SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING *", target, id)
	if err != nil {
		return app, err
	}
	if err := pgxscan.ScanOne(&app, rows); err != nil {
		return app, err
	}
	if err := tx.Commit(ctx); err != nil {
		return app, fmt.Errorf("transition of application %d not committed: %w", id, err)
	}
	return app, nil
}

// Delete implements domain.ApplicationRepository. Deleting has no side effect
// on the pet.
func (p *postgresApplicationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := p.conn.Exec(ctx, "DELETE FROM applications WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
