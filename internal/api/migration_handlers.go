package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/loyaltyops/promo-migrator/internal/clone"
	"github.com/loyaltyops/promo-migrator/internal/models"
	"github.com/loyaltyops/promo-migrator/internal/observability"
)

// migrateRequest is the wire format of POST /migrate. Asset ids and override
// keys arrive in their loose legacy shapes and are normalized here, at the
// boundary — the clone package only sees typed structures.
type migrateRequest struct {
	SourceID *int64 `json:"sourceId"`
	DestID   *int64 `json:"destId"`
	Assets   []struct {
		Type string      `json:"type"`
		ID   interface{} `json:"id"`
	} `json:"assets"`
	NewName    string                       `json:"newName"`
	AppNames   map[string]string            `json:"appNames"`
	AssetNames map[string]map[string]string `json:"assetNames"`
	CopySchema *bool                        `json:"copySchema"`
}

type migrateResponse struct {
	MigrationID string               `json:"migrationId"`
	Status      string               `json:"status"`
	Results     []models.AssetResult `json:"results"`
	Errors      []models.AssetResult `json:"errors"`
}

// Migrate validates and runs one migration batch synchronously. The HTTP
// status only reflects that the orchestration ran: a batch that ends partial
// or failed still returns 200 with the per-asset breakdown.
func (s *Server) Migrate(w http.ResponseWriter, r *http.Request) {
	var req migrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, CodeValidation, "invalid JSON: "+err.Error())
		return
	}

	if req.SourceID == nil || req.DestID == nil || len(req.Assets) == 0 {
		writeErr(w, http.StatusBadRequest, CodeValidation, "sourceId, destId and a non-empty assets array are required")
		return
	}
	if *req.SourceID == *req.DestID && req.NewName == "" && len(req.AppNames) == 0 && len(req.AssetNames) == 0 {
		writeErr(w, http.StatusBadRequest, CodeValidation, "same-instance clone requires explicit names")
		return
	}

	assets, overrides, err := decodeAssets(req)
	if err != nil {
		writeErr(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	source, err := s.Environments.Resolve(*req.SourceID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, CodeEnvResolution, "source: "+err.Error())
		return
	}
	dest, err := s.Environments.Resolve(*req.DestID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, CodeEnvResolution, "destination: "+err.Error())
		return
	}

	copySchema := true
	if req.CopySchema != nil {
		copySchema = *req.CopySchema
	}

	batch := clone.Batch{
		Source:     source,
		Dest:       dest,
		Assets:     assets,
		Overrides:  overrides,
		CopySchema: copySchema,
	}
	if err := clone.ValidateBatch(batch); err != nil {
		writeErr(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	run := models.NewMigrationRun(source.ID, dest.ID, assets)
	s.Runs.Add(run)
	if err := s.RunLog.RecordStart(r.Context(), run); err != nil {
		log.Warn().Err(err).Str("run", run.ID).Msg("recording run start")
	}

	log.Info().Str("run", run.ID).Int64("source", source.ID).Int64("dest", dest.ID).
		Int("assets", len(assets)).Msg("migration batch starting")

	cloner := clone.NewCloner(batch, s.Settings, run.AppendLog)
	results := cloner.Run(assets)
	run.Finish(results)

	// RecordFinish uses a fresh context: the batch already ran, the audit row
	// should land even if the caller went away.
	if err := s.RunLog.RecordFinish(context.Background(), run); err != nil {
		log.Warn().Err(err).Str("run", run.ID).Msg("recording run finish")
	}

	observability.RunsTotal.WithLabelValues(run.Status).Inc()
	failures := []models.AssetResult{}
	for _, res := range results {
		observability.AssetClonesTotal.WithLabelValues(string(res.Kind), res.Status).Inc()
		if res.Status == models.RunFailed {
			failures = append(failures, res)
		}
	}

	log.Info().Str("run", run.ID).Str("status", run.Status).
		Int("failed", len(failures)).Msg("migration batch finished")

	writeData(w, http.StatusOK, migrateResponse{
		MigrationID: run.ID,
		Status:      run.Status,
		Results:     results,
		Errors:      failures,
	})
}

// decodeAssets normalizes the request's asset refs and name override tables.
func decodeAssets(req migrateRequest) ([]models.AssetRef, clone.NameOverrides, error) {
	assets := make([]models.AssetRef, 0, len(req.Assets))
	for _, a := range req.Assets {
		kind, err := models.ParseAssetKind(a.Type)
		if err != nil {
			return nil, clone.NameOverrides{}, err
		}
		id, err := assetID(a.ID)
		if err != nil {
			return nil, clone.NameOverrides{}, err
		}
		assets = append(assets, models.AssetRef{Kind: kind, ID: id})
	}

	overrides := clone.NameOverrides{
		ByID:    req.AppNames,
		NewName: req.NewName,
	}
	if len(req.AssetNames) > 0 {
		overrides.ByKindAndID = make(map[models.AssetKind]map[string]string, len(req.AssetNames))
		for typeKey, names := range req.AssetNames {
			kind, err := models.ParseAssetKind(typeKey)
			if err != nil {
				return nil, clone.NameOverrides{}, err
			}
			overrides.ByKindAndID[kind] = names
		}
	}
	return assets, overrides, nil
}

// assetID renders a wire id (string or number) as a string. Anything else
// would splice an empty segment into remote paths, so it is rejected here.
func assetID(v interface{}) (string, error) {
	switch n := v.(type) {
	case string:
		return n, nil
	case float64:
		return strconv.FormatInt(int64(n), 10), nil
	}
	return "", fmt.Errorf("asset id %v must be a string or a number", v)
}
