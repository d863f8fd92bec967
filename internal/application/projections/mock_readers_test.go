package projections

import (
	"context"
	"errors"
	"sync"
	"time"

	"fitflow/internal/domain/classsession"
	"fitflow/internal/domain/reward"
	"fitflow/internal/domain/role"
	"fitflow/internal/domain/user"
)

var errUnavailable = errors.New("backend unavailable")

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// mockReaders implements every reader interface for testing.
// A method listed in fail returns errUnavailable.
type mockReaders struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool

	role         role.Role
	classes      []classsession.Session
	class        classsession.Session
	participants []classsession.Participant
	joined       bool
	trainers     []string
	needsPlan    bool
	progress     user.WeeklyProgress
	profile      user.Settings
	users        []user.AdminRecord
	userOptions  []user.Option
	gymOptions   []user.Option
	rewards      []reward.Reward
	planRewards  []reward.PlanReward
}

func (m *mockReaders) record(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
	if m.fail[name] {
		return errUnavailable
	}
	return nil
}

func (m *mockReaders) called(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == name {
			return true
		}
	}
	return false
}

// GetRole implements RoleReader.
// PRE: none
// POST: returns the configured role
func (m *mockReaders) GetRole(_ context.Context, _ string) (role.Role, error) {
	if err := m.record("GetRole"); err != nil {
		return "", err
	}
	return m.role, nil
}

// ListClasses implements ClassReader.
// PRE: none
// POST: returns the configured sessions
func (m *mockReaders) ListClasses(_ context.Context, _ string) ([]classsession.Session, error) {
	if err := m.record("ListClasses"); err != nil {
		return nil, err
	}
	return m.classes, nil
}

// GetClass implements ClassReader.
// PRE: id is non-empty
// POST: returns the configured session
func (m *mockReaders) GetClass(_ context.Context, _, _ string) (classsession.Session, error) {
	if err := m.record("GetClass"); err != nil {
		return classsession.Session{}, err
	}
	return m.class, nil
}

// ListParticipants implements ClassReader.
func (m *mockReaders) ListParticipants(_ context.Context, _, _ string) ([]classsession.Participant, error) {
	if err := m.record("ListParticipants"); err != nil {
		return nil, err
	}
	return m.participants, nil
}

// CheckJoined implements ClassReader.
func (m *mockReaders) CheckJoined(_ context.Context, _, _ string) (bool, error) {
	if err := m.record("CheckJoined"); err != nil {
		return false, err
	}
	return m.joined, nil
}

// ListTrainers implements TrainerReader.
func (m *mockReaders) ListTrainers(_ context.Context, _ string) ([]string, error) {
	if err := m.record("ListTrainers"); err != nil {
		return nil, err
	}
	return m.trainers, nil
}

// NeedsFitnessPlan implements PlanReader.
func (m *mockReaders) NeedsFitnessPlan(_ context.Context, _ string) (bool, error) {
	if err := m.record("NeedsFitnessPlan"); err != nil {
		return false, err
	}
	return m.needsPlan, nil
}

// WeeklyProgress implements PlanReader.
func (m *mockReaders) WeeklyProgress(_ context.Context, _ string) (user.WeeklyProgress, error) {
	if err := m.record("WeeklyProgress"); err != nil {
		return user.WeeklyProgress{}, err
	}
	return m.progress, nil
}

// CurrentUser implements ProfileReader.
func (m *mockReaders) CurrentUser(_ context.Context, _ string) (user.Settings, error) {
	if err := m.record("CurrentUser"); err != nil {
		return user.Settings{}, err
	}
	return m.profile, nil
}

// ListUsers implements UserReader.
func (m *mockReaders) ListUsers(_ context.Context, _ string) ([]user.AdminRecord, error) {
	if err := m.record("ListUsers"); err != nil {
		return nil, err
	}
	return m.users, nil
}

// UserOptions implements UserReader.
func (m *mockReaders) UserOptions(_ context.Context, _ string) ([]user.Option, error) {
	if err := m.record("UserOptions"); err != nil {
		return nil, err
	}
	return m.userOptions, nil
}

// GymOptions implements UserReader.
func (m *mockReaders) GymOptions(_ context.Context, _ string) ([]user.Option, error) {
	if err := m.record("GymOptions"); err != nil {
		return nil, err
	}
	return m.gymOptions, nil
}

// ListRewards implements RewardReader.
func (m *mockReaders) ListRewards(_ context.Context, _ string) ([]reward.Reward, error) {
	if err := m.record("ListRewards"); err != nil {
		return nil, err
	}
	return m.rewards, nil
}

// FitnessPlanRewards implements RewardReader.
func (m *mockReaders) FitnessPlanRewards(_ context.Context, _ string) ([]reward.PlanReward, error) {
	if err := m.record("FitnessPlanRewards"); err != nil {
		return nil, err
	}
	return m.planRewards, nil
}
