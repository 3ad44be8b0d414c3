package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sagarmiglani/accessgate/services/access"
)

func newRegistrationRouter(t *testing.T) (*chi.Mux, *access.Service, *memoryRepo) {
	t.Helper()
	svc, repo := newTestAccessService(t)
	h := NewRegistrationHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/registrations", h.HandleListRegistrations)
	r.Post("/registrations", h.HandleCreateRegistration)
	r.Get("/registrations/{id}", h.HandleGetRegistration)
	r.Patch("/registrations/{id}", h.HandleUpdateRegistration)
	r.Delete("/registrations/{id}", h.HandleDeleteRegistration)
	r.Get("/gates", h.HandleListGateTypes)
	return r, svc, repo
}

func doJSON(t *testing.T, router http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validCreateRequest() CreateRegistrationRequest {
	config, _ := json.Marshal(map[string][]string{"prefixes": {"/content/public"}})
	return CreateRegistrationRequest{
		Name:     "public-content",
		GateType: "path-prefix",
		Config:   config,
		Context:  "application",
		Ranking:  100,
	}
}

func TestRegistrationHandler_Create(t *testing.T) {
	t.Run("creates and activates", func(t *testing.T) {
		router, svc, _ := newRegistrationRouter(t)

		w := doJSON(t, router, http.MethodPost, "/registrations", validCreateRequest())
		require.Equal(t, http.StatusCreated, w.Code)

		var resp RegistrationResponse
		decodeData(t, w, &resp)
		assert.Equal(t, "public-content", resp.Name)
		assert.Equal(t, "path-prefix", resp.GateType)
		assert.True(t, resp.Enabled)
		assert.NotEqual(t, uuid.Nil, resp.ID)

		assert.Equal(t, 1, svc.LiveCount())
	})

	t.Run("disabled on request", func(t *testing.T) {
		router, svc, _ := newRegistrationRouter(t)

		req := validCreateRequest()
		disabled := false
		req.Enabled = &disabled

		w := doJSON(t, router, http.MethodPost, "/registrations", req)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 0, svc.LiveCount())
	})

	t.Run("missing name", func(t *testing.T) {
		router, _, _ := newRegistrationRouter(t)

		req := validCreateRequest()
		req.Name = ""

		w := doJSON(t, router, http.MethodPost, "/registrations", req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid context", func(t *testing.T) {
		router, _, _ := newRegistrationRouter(t)

		req := validCreateRequest()
		req.Context = "bundle"

		w := doJSON(t, router, http.MethodPost, "/registrations", req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown gate type", func(t *testing.T) {
		router, _, _ := newRegistrationRouter(t)

		req := validCreateRequest()
		req.GateType = "no-such-type"

		w := doJSON(t, router, http.MethodPost, "/registrations", req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid operation name", func(t *testing.T) {
		router, _, _ := newRegistrationRouter(t)

		req := validCreateRequest()
		req.Operations = []string{"read", "browse"}

		w := doJSON(t, router, http.MethodPost, "/registrations", req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate name", func(t *testing.T) {
		router, _, _ := newRegistrationRouter(t)

		w := doJSON(t, router, http.MethodPost, "/registrations", validCreateRequest())
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodPost, "/registrations", validCreateRequest())
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestRegistrationHandler_Get(t *testing.T) {
	router, _, _ := newRegistrationRouter(t)

	w := doJSON(t, router, http.MethodPost, "/registrations", validCreateRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	var created RegistrationResponse
	decodeData(t, w, &created)

	t.Run("found", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/registrations/"+created.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp RegistrationResponse
		decodeData(t, w, &resp)
		assert.Equal(t, created.ID, resp.ID)
	})

	t.Run("not found", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/registrations/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/registrations/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRegistrationHandler_List(t *testing.T) {
	router, _, _ := newRegistrationRouter(t)

	first := validCreateRequest()
	second := validCreateRequest()
	second.Name = "other-content"
	second.Ranking = 500

	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/registrations", first).Code)
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/registrations", second).Code)

	w := doJSON(t, router, http.MethodGet, "/registrations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []RegistrationResponse
	decodeData(t, w, &resp)
	require.Len(t, resp, 2)
	assert.Equal(t, "other-content", resp[0].Name)
	assert.Equal(t, "public-content", resp[1].Name)
}

func TestRegistrationHandler_Update(t *testing.T) {
	t.Run("ranking change", func(t *testing.T) {
		router, _, _ := newRegistrationRouter(t)

		w := doJSON(t, router, http.MethodPost, "/registrations", validCreateRequest())
		require.Equal(t, http.StatusCreated, w.Code)
		var created RegistrationResponse
		decodeData(t, w, &created)

		ranking := 999
		w = doJSON(t, router, http.MethodPatch, "/registrations/"+created.ID.String(), UpdateRegistrationRequest{
			Ranking: &ranking,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp RegistrationResponse
		decodeData(t, w, &resp)
		assert.Equal(t, 999, resp.Ranking)
		assert.Equal(t, created.Name, resp.Name)
	})

	t.Run("disable withdraws gate", func(t *testing.T) {
		router, svc, _ := newRegistrationRouter(t)

		w := doJSON(t, router, http.MethodPost, "/registrations", validCreateRequest())
		require.Equal(t, http.StatusCreated, w.Code)
		var created RegistrationResponse
		decodeData(t, w, &created)
		require.Equal(t, 1, svc.LiveCount())

		disabled := false
		w = doJSON(t, router, http.MethodPatch, "/registrations/"+created.ID.String(), UpdateRegistrationRequest{
			Enabled: &disabled,
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, svc.LiveCount())
	})

	t.Run("invalid gate config rejected without persisting", func(t *testing.T) {
		router, _, _ := newRegistrationRouter(t)

		w := doJSON(t, router, http.MethodPost, "/registrations", validCreateRequest())
		require.Equal(t, http.StatusCreated, w.Code)
		var created RegistrationResponse
		decodeData(t, w, &created)

		badPattern := "/content/["
		w = doJSON(t, router, http.MethodPatch, "/registrations/"+created.ID.String(), UpdateRegistrationRequest{
			PathPattern: &badPattern,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// The stored row keeps its old pattern.
		w = doJSON(t, router, http.MethodGet, "/registrations/"+created.ID.String(), nil)
		var resp RegistrationResponse
		decodeData(t, w, &resp)
		assert.Empty(t, resp.PathPattern)
	})

	t.Run("not found", func(t *testing.T) {
		router, _, _ := newRegistrationRouter(t)

		ranking := 1
		w := doJSON(t, router, http.MethodPatch, "/registrations/"+uuid.NewString(), UpdateRegistrationRequest{
			Ranking: &ranking,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRegistrationHandler_Delete(t *testing.T) {
	router, svc, repo := newRegistrationRouter(t)

	w := doJSON(t, router, http.MethodPost, "/registrations", validCreateRequest())
	require.Equal(t, http.StatusCreated, w.Code)
	var created RegistrationResponse
	decodeData(t, w, &created)

	w = doJSON(t, router, http.MethodDelete, "/registrations/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, svc.LiveCount())

	_, err := repo.GetByID(context.Background(), created.ID)
	assert.Error(t, err)

	w = doJSON(t, router, http.MethodDelete, "/registrations/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegistrationHandler_ListGateTypes(t *testing.T) {
	router, _, _ := newRegistrationRouter(t)

	w := doJSON(t, router, http.MethodGet, "/gates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]string
	decodeData(t, w, &resp)
	assert.Contains(t, resp["types"], "path-prefix")
	assert.Contains(t, resp["types"], "deny-pattern")
	assert.Contains(t, resp["types"], "property-filter")
	assert.Contains(t, resp["types"], "query-scope")
}
