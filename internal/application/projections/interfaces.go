package projections

import (
	"context"

	"fitflow/internal/domain/classsession"
	"fitflow/internal/domain/reward"
	"fitflow/internal/domain/role"
	"fitflow/internal/domain/user"
)

// RoleReader resolves the viewer's role.
type RoleReader interface {
	GetRole(ctx context.Context, token string) (role.Role, error)
}

// ClassReader reads class sessions and their participants.
type ClassReader interface {
	ListClasses(ctx context.Context, token string) ([]classsession.Session, error)
	GetClass(ctx context.Context, token, id string) (classsession.Session, error)
	ListParticipants(ctx context.Context, token, classID string) ([]classsession.Participant, error)
	CheckJoined(ctx context.Context, token, classID string) (bool, error)
}

// TrainerReader lists known trainer names.
type TrainerReader interface {
	ListTrainers(ctx context.Context, token string) ([]string, error)
}

// PlanReader reads the viewer's fitness plan state.
type PlanReader interface {
	NeedsFitnessPlan(ctx context.Context, token string) (bool, error)
	WeeklyProgress(ctx context.Context, token string) (user.WeeklyProgress, error)
}

// ProfileReader reads the viewer's profile.
type ProfileReader interface {
	CurrentUser(ctx context.Context, token string) (user.Settings, error)
}

// UserReader reads the Admin views of accounts.
type UserReader interface {
	ListUsers(ctx context.Context, token string) ([]user.AdminRecord, error)
	UserOptions(ctx context.Context, token string) ([]user.Option, error)
	GymOptions(ctx context.Context, token string) ([]user.Option, error)
}

// RewardReader reads rewards and their per-plan configuration.
type RewardReader interface {
	ListRewards(ctx context.Context, token string) ([]reward.Reward, error)
	FitnessPlanRewards(ctx context.Context, token string) ([]reward.PlanReward, error)
}
