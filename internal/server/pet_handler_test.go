package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/pawhome/adoption-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartPetRequest(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if withImage {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="luna.jpg"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("not-really-a-jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreatePet(t *testing.T) {
	s, mem := newTestServer(t)
	user := seedUser(t, mem, "ada@example.com")
	auth := bearerToken(t, s, user)

	body, contentType := multipartPetRequest(t, map[string]string{
		"name":        "Luna",
		"species":     domain.SpeciesDog,
		"gender":      "F",
		"age":         "3",
		"description": "good dog",
	}, true)
	req := httptest.NewRequest(http.MethodPost, "/pets", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp petResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Luna", resp.Name)
	assert.Equal(t, int(domain.PetAvailable), resp.Status)
	assert.Equal(t, "https://storage.googleapis.com/test-bucket/pets/fake", resp.ImageURL)

	uploader, ok := s.uploader.(*fakeUploader)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", uploader.lastContentType)
}

func TestCreatePetMissingName(t *testing.T) {
	s, mem := newTestServer(t)
	user := seedUser(t, mem, "ada@example.com")
	auth := bearerToken(t, s, user)

	body, contentType := multipartPetRequest(t, map[string]string{"species": domain.SpeciesDog}, false)
	req := httptest.NewRequest(http.MethodPost, "/pets", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAndListPets(t *testing.T) {
	s, mem := newTestServer(t)
	pet := seedPet(t, mem, "Luna")

	rec := doJSON(t, s, http.MethodGet, fmt.Sprintf("/pets/%d", pet.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp petResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Luna", resp.Name)

	rec = doJSON(t, s, http.MethodGet, "/pets", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []petResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = doJSON(t, s, http.MethodGet, "/pets/999", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateAndDeletePet(t *testing.T) {
	s, mem := newTestServer(t)
	user := seedUser(t, mem, "ada@example.com")
	pet := seedPet(t, mem, "Luna")
	auth := bearerToken(t, s, user)

	body := `{"name": "Luna II", "species": "Dog", "gender": "F", "age": 4, "description": "still a good dog"}`
	rec := doJSON(t, s, http.MethodPut, fmt.Sprintf("/pets/%d", pet.ID), body, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp petResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Luna II", resp.Name)
	assert.Equal(t, 4, resp.Age)

	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/pets/%d", pet.ID), "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/pets/%d", pet.ID), "", auth)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBreeds(t *testing.T) {
	s, mem := newTestServer(t)
	mem.AddBreed(domain.SpeciesDog, "Beagle")
	mem.AddBreed(domain.SpeciesDog, "Akita")

	rec := doJSON(t, s, http.MethodGet, "/breeds?species=Dog", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp []breedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Akita", resp[0].Name)

	rec = doJSON(t, s, http.MethodGet, "/breeds?species=Hamster", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
