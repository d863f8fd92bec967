package backend

import (
	"context"
	"net/http"

	"fitflow/internal/domain/reward"
)

// ListRewards returns the rewards visible to the viewer.
func (c *Client) ListRewards(ctx context.Context, token string) ([]reward.Reward, error) {
	var out []reward.Reward
	err := c.cachedGet(ctx, ResourceRewards, call{
		method: http.MethodGet,
		route:  "api/Rewards/get-all",
		path:   "api/Rewards/get-all",
		token:  token,
	}, &out)
	return out, err
}

// ClaimReward redeems a reward.
// idempotencyKey is sent as Idempotency-Key so a resubmitted form
// cannot redeem twice when the backend honours the header.
func (c *Client) ClaimReward(ctx context.Context, token, id, idempotencyKey string) error {
	cl := call{
		method: http.MethodPost,
		route:  "api/Rewards/claim/{id}",
		path:   "api/Rewards/claim/" + seg(id),
		token:  token,
	}
	if idempotencyKey != "" {
		cl.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	return c.mutate(ctx, cl, nil, ResourceRewards)
}

// FitnessPlanRewards returns the reward name configured per plan.
func (c *Client) FitnessPlanRewards(ctx context.Context, token string) ([]reward.PlanReward, error) {
	var out []reward.PlanReward
	err := c.cachedGet(ctx, ResourcePlanRewards, call{
		method: http.MethodGet,
		route:  "api/Rewards/get-fitness-plan-rewards",
		path:   "api/Rewards/get-fitness-plan-rewards",
		token:  token,
	}, &out)
	return out, err
}

// ChangeFitnessReward renames the reward of one plan.
func (c *Client) ChangeFitnessReward(ctx context.Context, token string, change reward.PlanRewardChange) error {
	return c.mutate(ctx, call{
		method: http.MethodPost,
		route:  "api/Rewards/change-fitness-reward",
		path:   "api/Rewards/change-fitness-reward",
		token:  token,
		body:   change,
	}, nil, ResourcePlanRewards)
}

// AddReward grants a reward to a user at a gym.
func (c *Client) AddReward(ctx context.Context, token string, grant reward.Grant) error {
	return c.mutate(ctx, call{
		method: http.MethodPost,
		route:  "api/Rewards/add",
		path:   "api/Rewards/add",
		token:  token,
		body:   grant,
	}, nil, ResourceRewards)
}
