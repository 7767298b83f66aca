package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	app "github.com/okian/unirank/internal/app"
	"github.com/okian/unirank/internal/domain/validation"
)

// RankingsDependencies defines the interface for rankings queries.
type RankingsDependencies interface {
	Rankings(ctx context.Context, q app.RankingsQuery) (*app.RankingsPage, error)
}

// RankingsHandler handles rankings requests.
type RankingsHandler struct {
	deps RankingsDependencies
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingsDependencies) *RankingsHandler {
	return &RankingsHandler{deps: deps}
}

// HandleGetRankings handles GET /rankings?year=&region=&subject=&page=&limit=&weights=&weight_<SUBJECT>=.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	page, err := h.deps.Rankings(r.Context(), rankingsQuery(r.URL.Query()))
	if err != nil {
		status, title := statusFor(err, titleRankings)
		writeError(w, status, title, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// rankingsQuery lifts the recognised parameters out of values. Repeated
// parameters use their first value.
func rankingsQuery(values url.Values) app.RankingsQuery {
	q := app.RankingsQuery{
		Year:    values.Get("year"),
		Region:  values.Get("region"),
		Subject: values.Get("subject"),
		Page:    values.Get("page"),
		Limit:   values.Get("limit"),
		Weights: values.Get("weights"),
	}
	for key, vs := range values {
		if !strings.HasPrefix(key, validation.WeightParamPrefix) || len(vs) == 0 {
			continue
		}
		if q.WeightParams == nil {
			q.WeightParams = make(map[string]string)
		}
		q.WeightParams[key] = vs[0]
	}
	return q
}
