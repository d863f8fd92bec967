package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"fitflow/internal/domain/reward"
	"fitflow/internal/domain/role"
)

// RewardBackend is the slice of the API used for rewards.
type RewardBackend interface {
	ClaimReward(ctx context.Context, token, id, idempotencyKey string) error
	ChangeFitnessReward(ctx context.Context, token string, change reward.PlanRewardChange) error
	AddReward(ctx context.Context, token string, grant reward.Grant) error
}

// RewardDeps holds dependencies for the reward orchestrators.
type RewardDeps struct {
	Backend RewardBackend
}

// ClaimRewardInput carries input for the claim orchestrator.
// IdempotencyKey comes from the rendered form so a resubmit reuses it.
type ClaimRewardInput struct {
	Token          string
	Viewer         role.Role
	RewardID       string
	IdempotencyKey string
}

// ExecuteClaimReward redeems one reward.
// PRE: Viewer is NormalUser
// POST: one ClaimReward call carrying an idempotency key; no retry
func ExecuteClaimReward(ctx context.Context, input ClaimRewardInput, deps RewardDeps) error {
	if !input.Viewer.CanClaimRewards() || input.RewardID == "" {
		return ErrNotPermitted
	}
	key := strings.TrimSpace(input.IdempotencyKey)
	if _, err := uuid.Parse(key); err != nil {
		key = uuid.NewString()
	}
	if err := deps.Backend.ClaimReward(ctx, input.Token, input.RewardID, key); err != nil {
		slog.Warn("reward_event", "event", "claim_failed", "reward_id", input.RewardID, "error", err.Error())
		return err
	}
	slog.Info("reward_event", "event", "reward_claimed", "reward_id", input.RewardID, "idempotency_key", key)
	return nil
}

// ChangeFitnessRewardInput carries one edited plan row.
type ChangeFitnessRewardInput struct {
	Token  string
	Viewer role.Role
	Change reward.PlanRewardChange
}

// ExecuteChangeFitnessReward renames the reward of one plan.
// PRE: Viewer is Admin
// POST: empty names are rejected locally; otherwise one ChangeFitnessReward call
func ExecuteChangeFitnessReward(ctx context.Context, input ChangeFitnessRewardInput, deps RewardDeps) error {
	if !input.Viewer.IsAdmin() {
		return ErrNotPermitted
	}
	change := input.Change
	change.Name = strings.TrimSpace(change.Name)
	if err := formError(change.Validate()); err != nil {
		return err
	}
	if err := deps.Backend.ChangeFitnessReward(ctx, input.Token, change); err != nil {
		slog.Warn("reward_event", "event", "plan_reward_change_failed", "plan", change.FitnessPlan.String(), "error", err.Error())
		return err
	}
	slog.Info("reward_event", "event", "plan_reward_changed", "plan", change.FitnessPlan.String(), "name", change.Name)
	return nil
}

// AddRewardInput carries the manual grant form.
type AddRewardInput struct {
	Token  string
	Viewer role.Role
	Grant  reward.Grant
}

// ExecuteAddReward grants a reward to a user at a gym.
// PRE: Viewer is Admin
// POST: all three rules collected; one AddReward call when they pass
func ExecuteAddReward(ctx context.Context, input AddRewardInput, deps RewardDeps) error {
	if !input.Viewer.IsAdmin() {
		return ErrNotPermitted
	}
	grant := input.Grant
	grant.Name = strings.TrimSpace(grant.Name)
	if err := formError(grant.Validate()); err != nil {
		return err
	}
	if err := deps.Backend.AddReward(ctx, input.Token, grant); err != nil {
		slog.Warn("reward_event", "event", "reward_add_failed", "error", err.Error())
		return err
	}
	slog.Info("reward_event", "event", "reward_added", "user_id", grant.NormalUserID, "gym_id", grant.GymID)
	return nil
}
