package projections

import (
	"cmp"
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"fitflow/internal/application/listutil"
	"fitflow/internal/domain/reward"
	"fitflow/internal/domain/role"
	"fitflow/internal/domain/user"
)

// RewardSortColumns are the sortable columns of the rewards table.
var RewardSortColumns = []string{"name", "user", "gym", "received", "redeemed"}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

var rewardColumns = map[string]listutil.Compare[reward.Reward]{
	"name":     func(a, b reward.Reward) int { return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
	"user":     func(a, b reward.Reward) int { return cmp.Compare(strings.ToLower(a.UserName), strings.ToLower(b.UserName)) },
	"gym":      func(a, b reward.Reward) int { return cmp.Compare(strings.ToLower(a.GymName), strings.ToLower(b.GymName)) },
	"received": func(a, b reward.Reward) int { return compareTimePtr(a.ReceivedAt, b.ReceivedAt) },
	"redeemed": func(a, b reward.Reward) int { return compareTimePtr(a.RedeemedAt, b.RedeemedAt) },
}

// RewardRow is one rewards table row.
type RewardRow struct {
	reward.Reward
	CanRedeem bool
}

// GetRewardListQuery carries query parameters.
type GetRewardListQuery struct {
	Token  string
	Viewer role.Role
	Values url.Values
}

// GetRewardListResult is the rewards table view-model.
type GetRewardListResult struct {
	Rows   []RewardRow
	Params listutil.Params
	Page   listutil.PageInfo
}

// GetRewardListDeps holds dependencies for GetRewardList.
type GetRewardListDeps struct {
	Rewards RewardReader
}

// QueryGetRewardList reads the viewer's rewards.
// PRE: none
// POST: CanRedeem is set only for unredeemed rows seen by a normal user
func QueryGetRewardList(ctx context.Context, query GetRewardListQuery, deps GetRewardListDeps) (GetRewardListResult, error) {
	rewards, err := deps.Rewards.ListRewards(ctx, query.Token)
	if err != nil {
		return GetRewardListResult{}, err
	}
	params := listutil.Parse(query.Values, RewardSortColumns)
	page, info := listutil.Apply(rewards, params, func(r reward.Reward, q string) bool {
		return listutil.ContainsFold(q, r.Name, r.UserName, r.GymName)
	}, rewardColumns)

	rows := make([]RewardRow, len(page))
	for i, r := range page {
		rows[i] = RewardRow{Reward: r, CanRedeem: query.Viewer.CanClaimRewards() && !r.IsRedeemed()}
	}
	return GetRewardListResult{Rows: rows, Params: params, Page: info}, nil
}

// PlanRewardRow is one editable row of the reward settings page.
type PlanRewardRow struct {
	Plan user.FitnessPlan
	Name string
}

// QueryGetRewardSettings lists one row per fitness plan, in plan order.
// Plans the backend does not report get an empty name to fill in.
// PRE: the viewer is Admin; the backend enforces it
// POST: len(rows) == len(user.Plans)
func QueryGetRewardSettings(ctx context.Context, token string, rewards RewardReader) ([]PlanRewardRow, error) {
	configured, err := rewards.FitnessPlanRewards(ctx, token)
	if err != nil {
		return nil, err
	}
	names := make(map[user.FitnessPlan]string, len(configured))
	for _, c := range configured {
		if plan, ok := c.Plan(); ok {
			names[plan] = c.RewardName
		}
	}
	rows := make([]PlanRewardRow, len(user.Plans))
	for i, p := range user.Plans {
		rows[i] = PlanRewardRow{Plan: p, Name: names[p]}
	}
	return rows, nil
}

// AddRewardOptions are the select boxes of the add-reward form.
type AddRewardOptions struct {
	Users []user.Option
	Gyms  []user.Option
}

// QueryGetAddRewardOptions reads user and gym options concurrently.
// PRE: the viewer is Admin
// POST: a failed list is logged and left empty so the form still renders
func QueryGetAddRewardOptions(ctx context.Context, token string, users UserReader) AddRewardOptions {
	var opts AddRewardOptions
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := users.UserOptions(gctx, token)
		if err != nil {
			slog.Warn("reward_event", "event", "load_failed", "what", "user_options", "error", err.Error())
			return nil
		}
		opts.Users = list
		return nil
	})
	g.Go(func() error {
		list, err := users.GymOptions(gctx, token)
		if err != nil {
			slog.Warn("reward_event", "event", "load_failed", "what", "gym_options", "error", err.Error())
			return nil
		}
		opts.Gyms = list
		return nil
	})
	_ = g.Wait()
	return opts
}
