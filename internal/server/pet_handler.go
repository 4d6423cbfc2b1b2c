package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pawhome/adoption-api/internal/domain"
	"github.com/samber/lo"
)

const maxImageUploadBytes = 10 << 20

type petResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Species     string     `json:"species"`
	BreedID     *int64     `json:"breed_id"`
	Gender      string     `json:"gender"`
	Age         int        `json:"age"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Status      int        `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func toPetResponse(pet domain.Pet) petResponse {
	return petResponse{
		ID:          pet.ID,
		Name:        pet.Name,
		Species:     pet.Species,
		BreedID:     pet.BreedID,
		Gender:      pet.Gender,
		Age:         pet.Age,
		Description: pet.Description,
		ImageURL:    pet.ImageURL,
		Status:      int(pet.Status),
		CreatedAt:   pet.CreatedAt,
		UpdatedAt:   pet.UpdatedAt,
	}
}

func (s *server) handleListPets(w http.ResponseWriter, r *http.Request) {
	pets, err := s.petRepository.List(r.Context())
	if err != nil {
		s.logger.Error("error listing pets", "error", err)
		errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, lo.Map(pets, func(pet domain.Pet, _ int) petResponse {
		return toPetResponse(pet)
	}))
}

func (s *server) handleGetPet(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "pet-id")
	if err != nil {
		errorResponse(w, err)
		return
	}
	pet, err := s.petRepository.GetByID(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, toPetResponse(pet))
}

// handleCreatePet accepts a multipart form: pet fields plus an optional
// "image" part that is uploaded to blob storage before the row is written.
func (s *server) handleCreatePet(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		errorResponse(w, domain.NewValidationError("body", "must be a multipart form"))
		return
	}
	name := r.FormValue("name")
	species := r.FormValue("species")
	if name == "" || species == "" {
		errorResponse(w, domain.NewValidationError("name", "name and species are required"))
		return
	}
	age, _ := strconv.Atoi(r.FormValue("age"))
	var breedID *int64
	if v := r.FormValue("breed_id"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errorResponse(w, domain.NewValidationError("breed_id", "must be an integer id"))
			return
		}
		breedID = &parsed
	}

	imageURL := ""
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		contentType := header.Header.Get("Content-Type")
		imageURL, err = s.uploader.Upload(r.Context(), file, contentType)
		if err != nil {
			s.logger.Error("error uploading pet image", "error", err, "filename", header.Filename)
			errorResponse(w, err)
			return
		}
	}

	pet := domain.Pet{
		Name:        name,
		Species:     species,
		BreedID:     breedID,
		Gender:      r.FormValue("gender"),
		Age:         age,
		Description: r.FormValue("description"),
		ImageURL:    imageURL,
		Status:      domain.PetAvailable,
	}
	if err := s.petRepository.Create(r.Context(), &pet); err != nil {
		s.logger.Error("error creating pet", "error", err, "name", name)
		errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, toPetResponse(pet))
}

type updatePetInput struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	BreedID     *int64 `json:"breed_id"`
	Gender      string `json:"gender"`
	Age         int    `json:"age"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (s *server) handleUpdatePet(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "pet-id")
	if err != nil {
		errorResponse(w, err)
		return
	}
	input := updatePetInput{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errorResponse(w, domain.NewValidationError("body", "must be valid JSON"))
		return
	}
	if input.Name == "" || input.Species == "" {
		errorResponse(w, domain.NewValidationError("name", "name and species are required"))
		return
	}

	pet, err := s.petRepository.GetByID(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}
	pet.Name = input.Name
	pet.Species = input.Species
	pet.BreedID = input.BreedID
	pet.Gender = input.Gender
	pet.Age = input.Age
	pet.Description = input.Description
	if input.ImageURL != "" {
		pet.ImageURL = input.ImageURL
	}
	if err := s.petRepository.Update(r.Context(), &pet); err != nil {
		s.logger.Error("error updating pet", "error", err, "petId", id)
		errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, toPetResponse(pet))
}

func (s *server) handleDeletePet(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "pet-id")
	if err != nil {
		errorResponse(w, err)
		return
	}
	if err := s.petRepository.Delete(r.Context(), id); err != nil {
		errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "pet deleted"})
}
