package reward

import (
	"encoding/json"
	"strings"
	"time"

	"fitflow/internal/domain/timestamp"
	"fitflow/internal/domain/user"
	"fitflow/internal/domain/validation"
)

// Reward is an incentive granted to a NormalUser by a gym.
// INVARIANT: once RedeemedAt is set it is never cleared by this client
type Reward struct {
	ID         string
	Name       string
	UserName   string
	GymName    string
	ReceivedAt *time.Time
	RedeemedAt *time.Time
}

// UnmarshalJSON reads the backend reward DTO.
func (r *Reward) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID             string     `json:"id"`
		Name           string     `json:"name"`
		NormalUserName string     `json:"normalUserName"`
		GymName        string     `json:"gymName"`
		ReceivedDate   timestamp.Time `json:"receivedDate"`
		RedeemDate     timestamp.Time `json:"redeemDate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Reward{
		ID:         raw.ID,
		Name:       raw.Name,
		UserName:   raw.NormalUserName,
		GymName:    raw.GymName,
		ReceivedAt: raw.ReceivedDate.Ptr(),
		RedeemedAt: raw.RedeemDate.Ptr(),
	}
	return nil
}

// IsRedeemed reports whether the reward was already claimed.
func (r Reward) IsRedeemed() bool {
	return r.RedeemedAt != nil && !r.RedeemedAt.IsZero()
}

// PlanReward is the reward name configured for one fitness plan.
type PlanReward struct {
	FitnessPlan string `json:"fitnessPlan"`
	RewardName  string `json:"rewardName"`
}

// Plan resolves the plan name, falling back to ok=false for unknown names.
func (p PlanReward) Plan() (user.FitnessPlan, bool) {
	plan, err := user.ParsePlan(p.FitnessPlan)
	return plan, err == nil
}

// PlanRewardChange sets the reward name of a plan.
type PlanRewardChange struct {
	FitnessPlan user.FitnessPlan `json:"fitnessPlan"`
	Name        string           `json:"name"`
}

// EmptyNameMessage is shown when a plan row is saved without a name.
func EmptyNameMessage(planName string) string {
	return "Reward name for " + planName + " is empty."
}

// UpdatedMessage is shown after a plan row was saved.
func UpdatedMessage(planName string) string {
	return "Reward updated successfully for " + planName
}

// Validate rejects empty names locally.
func (c PlanRewardChange) Validate() validation.Errors {
	return validation.Collect(validation.Rule{
		Field:   "name",
		Valid:   func() bool { return strings.TrimSpace(c.Name) != "" },
		Message: EmptyNameMessage(c.FitnessPlan.String()),
	})
}

// Grant is a manually created reward.
type Grant struct {
	NormalUserID string `json:"NormalUserId"`
	GymID        string `json:"GymId"`
	Name         string `json:"Name"`
}

// Grant form messages.
const (
	MsgSelectUser = "Please select a user."
	MsgSelectGym  = "Please select a gym."
	MsgEmptyName  = "Reward name cannot be empty."
)

// Validate collects the three grant rules.
func (g Grant) Validate() validation.Errors {
	return validation.Collect(
		validation.Rule{Field: "user", Valid: func() bool { return g.NormalUserID != "" }, Message: MsgSelectUser},
		validation.Rule{Field: "gym", Valid: func() bool { return g.GymID != "" }, Message: MsgSelectGym},
		validation.Rule{Field: "name", Valid: func() bool { return strings.TrimSpace(g.Name) != "" }, Message: MsgEmptyName},
	)
}
