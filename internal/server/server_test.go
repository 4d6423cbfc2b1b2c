package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pawhome/adoption-api/internal/domain"
	"github.com/pawhome/adoption-api/internal/repository"
	"github.com/pawhome/adoption-api/internal/service"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	lastContentType string
}

func (f *fakeUploader) Upload(ctx context.Context, r io.Reader, contentType string) (string, error) {
	f.lastContentType = contentType
	_, _ = io.Copy(io.Discard, r)
	return "https://storage.googleapis.com/test-bucket/pets/fake", nil
}

func newTestServer(t *testing.T) (*server, *repository.Memory) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := repository.NewMemory()
	events := NewEventBroker(logger)
	s := &server{
		logger:                logger,
		jwtSecret:             []byte("test-secret"),
		uploader:              &fakeUploader{},
		userRepository:        mem.Users(),
		petRepository:         mem.Pets(),
		breedRepository:       mem.Breeds(),
		applicationRepository: mem.Applications(),
		transitions:           service.NewTransitionEngine(logger, mem.Applications(), events),
		events:                events,
	}
	return s, mem
}

func seedUser(t *testing.T, mem *repository.Memory, email string) domain.User {
	t.Helper()
	user := domain.User{FirstName: "Ada", LastName: "Jensen", Email: email, Password: "hash"}
	require.NoError(t, mem.Users().Create(context.Background(), &user))
	return user
}

func seedPet(t *testing.T, mem *repository.Memory, name string) domain.Pet {
	t.Helper()
	pet := domain.Pet{Name: name, Species: domain.SpeciesDog, Status: domain.PetAvailable}
	require.NoError(t, mem.Pets().Create(context.Background(), &pet))
	return pet
}

func bearerToken(t *testing.T, s *server, user domain.User) string {
	t.Helper()
	token, err := s.issueToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}

// doJSON issues a request against the full router so middleware and auth run.
func doJSON(t *testing.T, s *server, method string, path string, body string, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/up", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/applications", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/applications", "", "Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
