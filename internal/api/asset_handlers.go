package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loyaltyops/promo-migrator/internal/models"
	"github.com/loyaltyops/promo-migrator/internal/remote"
)

// listPaths maps browsable asset kinds to their list endpoints.
var listPaths = map[models.AssetKind]string{
	models.KindApplication:      "/v1/applications",
	models.KindCampaignTemplate: "/v1/campaign_templates",
	models.KindLoyaltyProgram:   "/v1/loyalty_programs",
	models.KindGiveawayPool:     "/v1/giveaways/pools",
	models.KindAudience:         "/v1/audiences",
	models.KindContentType:      "/api/content_types",
}

// ListAssets returns the source objects of one kind so a caller can pick
// what to migrate.
func (s *Server) ListAssets(w http.ResponseWriter, r *http.Request) {
	id, err := envID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, CodeValidation, "invalid environment id")
		return
	}
	env, err := s.Environments.Resolve(id)
	if err != nil {
		writeErr(w, http.StatusNotFound, CodeNotFound, err.Error())
		return
	}

	kind, err := models.ParseAssetKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	if kind.PlatformFor() != env.Kind {
		writeErr(w, http.StatusBadRequest, CodeValidation, "asset kind does not exist on this environment")
		return
	}

	client := remote.NewClient(env, s.Settings.CallTimeout)
	assets, err := client.GetAll(listPaths[kind], s.Settings.CodePageSize)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	if assets == nil {
		assets = []models.Resource{}
	}
	writeData(w, http.StatusOK, assets)
}
