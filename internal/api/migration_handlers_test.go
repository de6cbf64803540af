package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyaltyops/promo-migrator/internal/clone"
	"github.com/loyaltyops/promo-migrator/internal/models"
	"github.com/loyaltyops/promo-migrator/internal/store"
)

func newTestServer() *Server {
	return &Server{
		Environments: models.NewEnvironmentStore(),
		Runs:         models.NewRunStore(),
		RunLog:       store.NopLog{},
		Settings: clone.Settings{
			CallTimeout:      5 * time.Second,
			CodePollAttempts: 2,
			CodePollDelay:    time.Millisecond,
			CodePageSize:     1000,
		},
	}
}

func postMigrate(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/migrate", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	NewRouter(s).ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.Equal(t, false, env["success"])
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "error envelope missing error object: %s", rec.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

func TestMigrate_RequestValidation(t *testing.T) {
	s := newTestServer()
	s.Environments.Create(&models.Environment{Name: "staging", Kind: models.PlatformPromotions, BaseURL: "http://x"})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing sourceId", `{"destId":1,"assets":[{"type":"application","id":"1"}]}`},
		{"missing destId", `{"sourceId":1,"assets":[{"type":"application","id":"1"}]}`},
		{"empty assets", `{"sourceId":1,"destId":1,"assets":[]}`},
		{"unknown asset type", `{"sourceId":1,"destId":1,"newName":"x","assets":[{"type":"wormhole","id":"1"}]}`},
		{"boolean asset id", `{"sourceId":1,"destId":2,"assets":[{"type":"application","id":true}]}`},
		{"null asset id", `{"sourceId":1,"destId":2,"assets":[{"type":"application","id":null}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postMigrate(t, s, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, CodeValidation, errorCode(t, rec))
		})
	}
}

// A same-instance request with no name overrides must be rejected before any
// environment resolution or remote call.
func TestMigrate_SameInstanceWithoutNames(t *testing.T) {
	s := newTestServer()
	rec := postMigrate(t, s, `{"sourceId":1,"destId":1,"assets":[{"type":"application","id":"1"}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeValidation, errorCode(t, rec))
	// Environment 1 does not exist, so reaching validation before resolution
	// is observable: a resolution attempt would have produced a 500.
}

func TestMigrate_UnknownEnvironment(t *testing.T) {
	s := newTestServer()
	s.Environments.Create(&models.Environment{Name: "staging", Kind: models.PlatformPromotions, BaseURL: "http://x"})

	rec := postMigrate(t, s, `{"sourceId":1,"destId":99,"assets":[{"type":"application","id":"1"}]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeEnvResolution, errorCode(t, rec))
}

func TestMigrate_MismatchedEnvironmentKinds(t *testing.T) {
	s := newTestServer()
	s.Environments.Create(&models.Environment{Name: "promo", Kind: models.PlatformPromotions, BaseURL: "http://x"})
	s.Environments.Create(&models.Environment{Name: "cms", Kind: models.PlatformCMS, BaseURL: "http://y"})

	rec := postMigrate(t, s, `{"sourceId":1,"destId":2,"assets":[{"type":"application","id":"1"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeValidation, errorCode(t, rec))
}

// End to end through the router against a fake promotions engine: a giveaway
// pool clone succeeds, the response envelope carries the run id and per-asset
// results, and the run is retrievable afterwards.
func TestMigrate_HappyPath(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == "GET":
			fmt.Fprint(w, `{"id":4,"name":"Summer Pool"}`)
		case r.Method == "POST":
			fmt.Fprint(w, `{"id":40,"name":"Summer Pool (Copy)"}`)
		}
	}))
	defer backend.Close()

	s := newTestServer()
	s.Environments.Create(&models.Environment{Name: "staging", Kind: models.PlatformPromotions, BaseURL: backend.URL})
	s.Environments.Create(&models.Environment{Name: "prod", Kind: models.PlatformPromotions, BaseURL: backend.URL})

	rec := postMigrate(t, s, `{"sourceId":1,"destId":2,"assets":[{"type":"giveaway_pool","id":4}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	require.Equal(t, true, env["success"])
	data := env["data"].(map[string]interface{})
	assert.Equal(t, models.RunSuccess, data["status"])
	assert.NotEmpty(t, data["migrationId"])
	results := data["results"].([]interface{})
	require.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "giveaway_pool", first["type"])
	assert.Equal(t, "4", first["id"])
	// errors must be an empty array, not null, when nothing failed
	errsList, ok := data["errors"].([]interface{})
	require.True(t, ok, "errors should encode as an array: %s", rec.Body.String())
	assert.Empty(t, errsList)

	// The run must be visible through the runs endpoint.
	runID := data["migrationId"].(string)
	req := httptest.NewRequest("GET", "/api/runs/"+runID, nil)
	runRec := httptest.NewRecorder()
	NewRouter(s).ServeHTTP(runRec, req)
	assert.Equal(t, http.StatusOK, runRec.Code)
}

// A batch where one asset fails still answers 200 with a partial status.
func TestMigrate_PartialBatchStillOK(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/v1/giveaways/pools/404":
			http.Error(w, `{"message":"not here"}`, http.StatusNotFound)
		case r.Method == "GET":
			fmt.Fprint(w, `{"id":4,"name":"Pool"}`)
		case r.Method == "POST":
			fmt.Fprint(w, `{"id":40}`)
		}
	}))
	defer backend.Close()

	s := newTestServer()
	s.Environments.Create(&models.Environment{Name: "staging", Kind: models.PlatformPromotions, BaseURL: backend.URL})
	s.Environments.Create(&models.Environment{Name: "prod", Kind: models.PlatformPromotions, BaseURL: backend.URL})

	rec := postMigrate(t, s, `{"sourceId":1,"destId":2,"assets":[
		{"type":"giveaway_pool","id":4},
		{"type":"giveaway_pool","id":404}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, models.RunPartial, data["status"])
	errorsList := data["errors"].([]interface{})
	require.Len(t, errorsList, 1)
	failed := errorsList[0].(map[string]interface{})
	assert.Equal(t, "404", failed["id"])
	assert.NotEmpty(t, failed["error"])
}

func TestDecodeAssets(t *testing.T) {
	req := migrateRequest{
		Assets: []struct {
			Type string      `json:"type"`
			ID   interface{} `json:"id"`
		}{
			{Type: "applications", ID: float64(3)},
			{Type: "audience", ID: "aud-1"},
		},
		NewName:  "Renamed",
		AppNames: map[string]string{"3": "Three"},
		AssetNames: map[string]map[string]string{
			"loyalty_programs": {"9": "Gold"},
		},
	}

	assets, overrides, err := decodeAssets(req)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, models.KindApplication, assets[0].Kind)
	assert.Equal(t, "3", assets[0].ID)
	assert.Equal(t, models.KindAudience, assets[1].Kind)
	assert.Equal(t, "aud-1", assets[1].ID)
	assert.Equal(t, "Renamed", overrides.NewName)
	assert.Equal(t, "Gold", overrides.ByKindAndID[models.KindLoyaltyProgram]["9"])
}
