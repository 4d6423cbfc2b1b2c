package server

import (
	"net/http"

	"github.com/pawhome/adoption-api/internal/domain"
	"github.com/samber/lo"
)

type breedResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (s *server) handleListBreeds(w http.ResponseWriter, r *http.Request) {
	species := r.URL.Query().Get("species")
	breeds, err := s.breedRepository.ListBySpecies(r.Context(), species)
	if err != nil {
		if !domain.IsValidation(err) {
			s.logger.Error("error listing breeds", "error", err, "species", species)
		}
		errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, lo.Map(breeds, func(b domain.Breed, _ int) breedResponse {
		return breedResponse{ID: b.ID, Name: b.Name}
	}))
}
