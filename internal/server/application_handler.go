package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pawhome/adoption-api/internal/domain"
	"github.com/pawhome/adoption-api/internal/metrics"
	"github.com/samber/lo"
)

type createApplicationInput struct {
	UserID           int64  `json:"user_id"`
	PetID            int64  `json:"pet_id"`
	AdoptionReason   string `json:"adoptionReason"`
	LivingSituation  string `json:"livingSituation"`
	Experience       string `json:"experience"`
	HouseholdMembers string `json:"householdMembers"`
	WorkSchedule     string `json:"workSchedule"`
	TravelFrequency  string `json:"travelFrequency"`
	TimeCommitment   string `json:"timeCommitment"`
	OutdoorSpace     string `json:"outdoorSpace"`
	PetAllergies     string `json:"petAllergies"`
	PetTypesCaredFor string `json:"petTypesCaredFor"`
	PetTraining      string `json:"petTraining"`
}

func (in createApplicationInput) validate() error {
	if in.UserID == 0 {
		return domain.NewValidationError("user_id", "is required")
	}
	if in.PetID == 0 {
		return domain.NewValidationError("pet_id", "is required")
	}
	for _, f := range []struct{ name, value string }{
		{"adoptionReason", in.AdoptionReason},
		{"livingSituation", in.LivingSituation},
		{"experience", in.Experience},
		{"householdMembers", in.HouseholdMembers},
		{"workSchedule", in.WorkSchedule},
	} {
		if f.value == "" {
			return domain.NewValidationError(f.name, "is required")
		}
	}
	return nil
}

// orAbsent replaces a skipped optional answer with the explicit marker, so an
// unanswered question is distinguishable from an empty one downstream.
func orAbsent(v string) string {
	if v == "" {
		return domain.AbsentField
	}
	return v
}

type applicationResponse struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	PetID            int64     `json:"pet_id"`
	AdoptionReason   string    `json:"adoptionReason"`
	LivingSituation  string    `json:"livingSituation"`
	Experience       string    `json:"experience"`
	HouseholdMembers string    `json:"householdMembers"`
	WorkSchedule     string    `json:"workSchedule"`
	TravelFrequency  string    `json:"travelFrequency"`
	TimeCommitment   string    `json:"timeCommitment"`
	OutdoorSpace     string    `json:"outdoorSpace"`
	PetAllergies     string    `json:"petAllergies"`
	PetTypesCaredFor string    `json:"petTypesCaredFor"`
	PetTraining      string    `json:"petTraining"`
	Status           int       `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toApplicationResponse(app domain.Application) applicationResponse {
	return applicationResponse{
		ID:               app.ID,
		UserID:           app.UserID,
		PetID:            app.PetID,
		AdoptionReason:   app.AdoptionReason,
		LivingSituation:  app.LivingSituation,
		Experience:       app.Experience,
		HouseholdMembers: app.HouseholdMembers,
		WorkSchedule:     app.WorkSchedule,
		TravelFrequency:  app.TravelFrequency,
		TimeCommitment:   app.TimeCommitment,
		OutdoorSpace:     app.OutdoorSpace,
		PetAllergies:     app.PetAllergies,
		PetTypesCaredFor: app.PetTypesCaredFor,
		PetTraining:      app.PetTraining,
		Status:           int(app.Status),
		CreatedAt:        app.CreatedAt,
		UpdatedAt:        app.UpdatedAt,
	}
}

type applicationDetailResponse struct {
	applicationResponse
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phoneNumber"`
	PetName     string  `json:"petName"`
	Species     string  `json:"species"`
	Gender      string  `json:"gender"`
	Age         int     `json:"age"`
	BreedName   *string `json:"breedName"`
}

func toApplicationDetailResponse(detail domain.ApplicationDetail) applicationDetailResponse {
	return applicationDetailResponse{
		applicationResponse: toApplicationResponse(detail.Application),
		FirstName:           detail.FirstName,
		LastName:            detail.LastName,
		Email:               detail.Email,
		PhoneNumber:         detail.PhoneNumber,
		PetName:             detail.PetName,
		Species:             detail.Species,
		Gender:              detail.Gender,
		Age:                 detail.Age,
		BreedName:           detail.BreedName,
	}
}

func (s *server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	input := createApplicationInput{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errorResponse(w, domain.NewValidationError("body", "must be valid JSON"))
		return
	}
	if err := input.validate(); err != nil {
		errorResponse(w, err)
		return
	}

	app := domain.Application{
		UserID:           input.UserID,
		PetID:            input.PetID,
		AdoptionReason:   input.AdoptionReason,
		LivingSituation:  input.LivingSituation,
		Experience:       input.Experience,
		HouseholdMembers: input.HouseholdMembers,
		WorkSchedule:     input.WorkSchedule,
		TravelFrequency:  orAbsent(input.TravelFrequency),
		TimeCommitment:   orAbsent(input.TimeCommitment),
		OutdoorSpace:     orAbsent(input.OutdoorSpace),
		PetAllergies:     orAbsent(input.PetAllergies),
		PetTypesCaredFor: orAbsent(input.PetTypesCaredFor),
		PetTraining:      orAbsent(input.PetTraining),
	}
	if err := s.applicationRepository.Create(r.Context(), &app); err != nil {
		s.logger.Error("error creating application", "error", err,
			"userId", input.UserID, "petId", input.PetID)
		errorResponse(w, err)
		return
	}

	metrics.ApplicationsCreated.Inc()
	s.events.ApplicationEvent("created", app)
	jsonResponse(w, http.StatusCreated, toApplicationResponse(app))
}

// handleListApplications returns an enriched list. An empty result is a valid
// outcome and returns 200 with an empty array, never 404.
func (s *server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	filter := domain.ApplicationFilter{}
	if v := r.URL.Query().Get("id"); v != "" {
		userID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errorResponse(w, domain.NewValidationError("id", "must be an integer user id"))
			return
		}
		filter.UserID = &userID
	}
	details, err := s.applicationRepository.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("error listing applications", "error", err)
		errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, lo.Map(details, func(d domain.ApplicationDetail, _ int) applicationDetailResponse {
		return toApplicationDetailResponse(d)
	}))
}

type setStatusInput struct {
	Status int   `json:"status"`
	PetID  int64 `json:"petId"`
}

func (s *server) handleSetApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "application-id")
	if err != nil {
		errorResponse(w, err)
		return
	}
	input := setStatusInput{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errorResponse(w, domain.NewValidationError("body", "must be valid JSON"))
		return
	}

	if claims := ClaimsFromContext(r.Context()); claims != nil {
		s.logger.Info("status change requested",
			"applicationId", id, "status", input.Status, "by", claims.Email)
	}

	app, err := s.transitions.SetStatus(r.Context(), id, domain.ApplicationStatus(input.Status), input.PetID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, toApplicationResponse(app))
}

func (s *server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "application-id")
	if err != nil {
		errorResponse(w, err)
		return
	}
	if err := s.applicationRepository.Delete(r.Context(), id); err != nil {
		errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "application deleted"})
}
