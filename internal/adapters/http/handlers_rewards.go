package web

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"fitflow/internal/application/orchestrators"
	"fitflow/internal/application/projections"
	"fitflow/internal/domain/errmsg"
)

const (
	msgRewardsLoadFailed = "Failed to load rewards."
	msgRewardClaimed     = "Reward redeemed."
	msgClaimFailed       = "Failed to redeem reward."
)

// rewardRow pairs a table row with the idempotency key its Redeem form submits.
type rewardRow struct {
	projections.RewardRow
	IdempotencyKey string
}

type rewardsPage struct {
	projections.GetRewardListResult
	Rows  []rewardRow
	Error string
}

// handleRewards handles GET /home/rewards
func handleRewards(w http.ResponseWriter, r *http.Request) {
	token, viewerRole := viewer(r)
	result, err := projections.QueryGetRewardList(r.Context(), projections.GetRewardListQuery{
		Token:  token,
		Viewer: viewerRole,
		Values: r.URL.Query(),
	}, projections.GetRewardListDeps{Rewards: api})
	if err != nil {
		if redirectAuthFailure(w, r, err) {
			return
		}
		renderTemplate(w, r, "rewards.html", rewardsPage{Error: errmsg.FromError(err, msgRewardsLoadFailed)})
		return
	}

	page := rewardsPage{GetRewardListResult: result, Rows: make([]rewardRow, len(result.Rows))}
	for i, row := range result.Rows {
		page.Rows[i] = rewardRow{RewardRow: row}
		if row.CanRedeem {
			page.Rows[i].IdempotencyKey = uuid.NewString()
		}
	}
	renderTemplate(w, r, "rewards.html", page)
}

// handleClaimReward handles POST /home/rewards/{id}/claim
// The form carries the key rendered with the row, so a double submit reuses it.
func handleClaimReward(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	token, viewerRole := viewer(r)
	err := orchestrators.ExecuteClaimReward(r.Context(), orchestrators.ClaimRewardInput{
		Token:          token,
		Viewer:         viewerRole,
		RewardID:       r.PathValue("id"),
		IdempotencyKey: r.FormValue("idempotencyKey"),
	}, orchestrators.RewardDeps{Backend: api})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNotPermitted) {
			http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
			return
		}
		failAndRedirect(w, r, err, msgClaimFailed, "/home/rewards")
		return
	}
	setFlash(w, FlashSuccess, msgRewardClaimed)
	http.Redirect(w, r, "/home/rewards", http.StatusSeeOther)
}
