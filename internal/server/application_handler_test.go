package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/pawhome/adoption-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createApplicationBody(userID int64, petID int64) string {
	return fmt.Sprintf(`{
		"user_id": %d, "pet_id": %d,
		"adoptionReason": "space", "livingSituation": "house", "experience": "none",
		"householdMembers": "2", "workSchedule": "remote"
	}`, userID, petID)
}

func TestCreateApplication(t *testing.T) {
	s, mem := newTestServer(t)
	user := seedUser(t, mem, "ada@example.com")
	pet := seedPet(t, mem, "Luna")
	auth := bearerToken(t, s, user)

	rec := doJSON(t, s, http.MethodPost, "/application", createApplicationBody(user.ID, pet.ID), auth)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp applicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Status)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, pet.ID, resp.PetID)
	assert.Equal(t, resp.CreatedAt, resp.UpdatedAt)
	// skipped optional answers carry the explicit absent marker
	assert.Equal(t, domain.AbsentField, resp.TravelFrequency)
	assert.Equal(t, domain.AbsentField, resp.PetTraining)
}

func TestCreateApplicationMissingRequiredField(t *testing.T) {
	s, mem := newTestServer(t)
	user := seedUser(t, mem, "ada@example.com")
	pet := seedPet(t, mem, "Luna")
	auth := bearerToken(t, s, user)

	body := fmt.Sprintf(`{
		"user_id": %d, "pet_id": %d,
		"adoptionReason": "space", "livingSituation": "house", "experience": "none",
		"householdMembers": "2"
	}`, user.ID, pet.ID)
	rec := doJSON(t, s, http.MethodPost, "/application", body, auth)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "workSchedule")
}

func TestCreateApplicationUnknownReferences(t *testing.T) {
	s, mem := newTestServer(t)
	user := seedUser(t, mem, "ada@example.com")
	auth := bearerToken(t, s, user)

	rec := doJSON(t, s, http.MethodPost, "/application", createApplicationBody(user.ID, 999), auth)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListApplicationsEmptyIsOK(t *testing.T) {
	s, mem := newTestServer(t)
	user := seedUser(t, mem, "ada@example.com")
	auth := bearerToken(t, s, user)

	rec := doJSON(t, s, http.MethodGet, "/applications", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []applicationDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp)
}

func TestListApplicationsFilterAndEnrichment(t *testing.T) {
	s, mem := newTestServer(t)
	breed := mem.AddBreed(domain.SpeciesDog, "Beagle")
	user := seedUser(t, mem, "ada@example.com")
	other := seedUser(t, mem, "bob@example.com")
	pet := domain.Pet{Name: "Luna", Species: domain.SpeciesDog, BreedID: &breed.ID, Gender: "F", Age: 3, Status: domain.PetAvailable}
	require.NoError(t, mem.Pets().Create(context.Background(), &pet))
	auth := bearerToken(t, s, user)

	rec := doJSON(t, s, http.MethodPost, "/application", createApplicationBody(user.ID, pet.ID), auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, s, http.MethodPost, "/application", createApplicationBody(other.ID, pet.ID), auth)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, fmt.Sprintf("/applications?id=%d", user.ID), "", auth)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []applicationDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, user.ID, resp[0].UserID)
	assert.Equal(t, "Ada", resp[0].FirstName)
	assert.Equal(t, "Luna", resp[0].PetName)
	assert.Equal(t, domain.SpeciesDog, resp[0].Species)
	require.NotNil(t, resp[0].BreedName)
	assert.Equal(t, "Beagle", *resp[0].BreedName)
}

func TestSetApplicationStatusValidation(t *testing.T) {
	s, mem := newTestServer(t)
	user := seedUser(t, mem, "ada@example.com")
	pet := seedPet(t, mem, "Luna")
	auth := bearerToken(t, s, user)

	rec := doJSON(t, s, http.MethodPost, "/application", createApplicationBody(user.ID, pet.ID), auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created applicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// status outside {1,0,-1}
	body := fmt.Sprintf(`{"status": 2, "petId": %d}`, pet.ID)
	rec = doJSON(t, s, http.MethodPut, fmt.Sprintf("/applications/%d/status", created.ID), body, auth)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown application id
	body = fmt.Sprintf(`{"status": 1, "petId": %d}`, pet.ID)
	rec = doJSON(t, s, http.MethodPut, "/applications/999/status", body, auth)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// both entities untouched
	code, err := mem.Pets().GetAvailability(context.Background(), pet.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PetAvailable, code)
	stored, err := mem.Applications().GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestSetApplicationStatusConflict(t *testing.T) {
	s, mem := newTestServer(t)
	user := seedUser(t, mem, "ada@example.com")
	other := seedUser(t, mem, "bob@example.com")
	pet := seedPet(t, mem, "Luna")
	auth := bearerToken(t, s, user)

	rec := doJSON(t, s, http.MethodPost, "/application", createApplicationBody(user.ID, pet.ID), auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	var first applicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec = doJSON(t, s, http.MethodPost, "/application", createApplicationBody(other.ID, pet.ID), auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	var second applicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	body := fmt.Sprintf(`{"status": 1, "petId": %d}`, pet.ID)
	rec = doJSON(t, s, http.MethodPut, fmt.Sprintf("/applications/%d/status", first.ID), body, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	// approving a second application for the same pet conflicts
	rec = doJSON(t, s, http.MethodPut, fmt.Sprintf("/applications/%d/status", second.ID), body, auth)
	require.Equal(t, http.StatusConflict, rec.Code)

	stored, err := mem.Applications().GetByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestDeleteApplication(t *testing.T) {
	s, mem := newTestServer(t)
	user := seedUser(t, mem, "ada@example.com")
	pet := seedPet(t, mem, "Luna")
	auth := bearerToken(t, s, user)

	rec := doJSON(t, s, http.MethodPost, "/application", createApplicationBody(user.ID, pet.ID), auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created applicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/applications/%d", created.ID), "", auth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/applications/%d", created.ID), "", auth)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// deleting an application never touches the pet
	code, err := mem.Pets().GetAvailability(context.Background(), pet.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PetAvailable, code)
}

// TestAdoptionWorkflowScenario walks the full lifecycle: submit, approve
// (pet reserved), then reverse to rejected (pet available again).
func TestAdoptionWorkflowScenario(t *testing.T) {
	s, mem := newTestServer(t)
	user := seedUser(t, mem, "ada@example.com")
	pet := seedPet(t, mem, "Luna")
	auth := bearerToken(t, s, user)

	rec := doJSON(t, s, http.MethodPost, "/application", createApplicationBody(user.ID, pet.ID), auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created applicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 0, created.Status)

	body := fmt.Sprintf(`{"status": 1, "petId": %d}`, pet.ID)
	rec = doJSON(t, s, http.MethodPut, fmt.Sprintf("/applications/%d/status", created.ID), body, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var approved applicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &approved))
	assert.Equal(t, 1, approved.Status)
	code, err := mem.Pets().GetAvailability(context.Background(), pet.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PetReserved, code)

	body = fmt.Sprintf(`{"status": -1, "petId": %d}`, pet.ID)
	rec = doJSON(t, s, http.MethodPut, fmt.Sprintf("/applications/%d/status", created.ID), body, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var rejected applicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rejected))
	assert.Equal(t, -1, rejected.Status)
	code, err = mem.Pets().GetAvailability(context.Background(), pet.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PetAvailable, code)
}
