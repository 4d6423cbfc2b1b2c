package domain

import (
	"context"
	"time"
)

// ApplicationStatus mirrors the integer codes stored in applications.status.
type ApplicationStatus int

const (
	StatusPending  ApplicationStatus = 0
	StatusApproved ApplicationStatus = 1
	StatusRejected ApplicationStatus = -1
)

// AbsentField is stored for optional intake answers the applicant skipped.
const AbsentField = "N/A"

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// PetEffect returns the availability code a decision writes to the pet, and
// whether the decision touches the pet at all. Moving back to pending leaves
// the pet alone.
func (s ApplicationStatus) PetEffect() (PetAvailability, bool) {
	switch s {
	case StatusApproved:
		return PetReserved, true
	case StatusRejected:
		return PetAvailable, true
	}
	return 0, false
}

func (s ApplicationStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	}
	return "unknown"
}

type Application struct {
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
	Status           ApplicationStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ApplicationDetail is an application enriched with the display fields the
// operator view joins in: who applied, which pet, and the breed name when the
// species has a breed table.
type ApplicationDetail struct {
	Application
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

type ApplicationFilter struct {
	UserID *int64
}

type ApplicationRepository interface {
	Create(context.Context, *Application) error
	GetByID(context.Context, int64) (Application, error)
	List(context.Context, ApplicationFilter) ([]ApplicationDetail, error)
	// Transition updates the application status together with the correlated
	// pet availability as one atomic unit. Both writes commit together or
	// neither does.
	Transition(ctx context.Context, id int64, target ApplicationStatus) (Application, error)
	Delete(context.Context, int64) error
}
