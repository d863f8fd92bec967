package web

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"fitflow/internal/adapters/backend"
	"fitflow/internal/domain/classsession"
	"fitflow/internal/domain/reward"
	"fitflow/internal/domain/role"
	"fitflow/internal/domain/user"
)

// mockBackend is an in-memory FitFlow API for handler tests.
// A method listed in fail returns that error instead of its data.
type mockBackend struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error

	role         role.Role
	login        backend.LoginResult
	classes      []classsession.Session
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

	added          []classsession.NewClass
	claimKeys      []string
	updates        []user.SettingsUpdate
	planChanges    []reward.PlanRewardChange
	grants         []reward.Grant
	selectedPlans  []user.FitnessPlan
	deletedUsers   []string
	toggledUsers   []string
	removedUserIDs []string
}

func newMockBackend(r role.Role) *mockBackend {
	return &mockBackend{role: r, fail: map[string]error{}}
}

// record logs a call and returns its configured failure.
func (m *mockBackend) record(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
	return m.fail[name]
}

func (m *mockBackend) called(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.calls, name)
}

func (m *mockBackend) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func apiError(status int, codes ...string) error {
	return &backend.APIError{Method: http.MethodGet, Route: "/test", Status: status, Codes: codes}
}

// GetRole implements the role reader for testing.
// PRE: none
// POST: returns the configured role
func (m *mockBackend) GetRole(ctx context.Context, token string) (role.Role, error) {
	if err := m.record("GetRole"); err != nil {
		return "", err
	}
	return m.role, nil
}

// ListClasses implements the class reader for testing.
// PRE: none
// POST: returns every configured class
func (m *mockBackend) ListClasses(ctx context.Context, token string) ([]classsession.Session, error) {
	if err := m.record("ListClasses"); err != nil {
		return nil, err
	}
	return m.classes, nil
}

// GetClass implements the class reader for testing.
// PRE: id is non-empty
// POST: returns the class with id or a 404
func (m *mockBackend) GetClass(ctx context.Context, token, id string) (classsession.Session, error) {
	if err := m.record("GetClass"); err != nil {
		return classsession.Session{}, err
	}
	for _, c := range m.classes {
		if c.ID == id {
			return c, nil
		}
	}
	return classsession.Session{}, apiError(http.StatusNotFound, "CLASS_NOT_FOUND")
}

// ListParticipants implements the class reader for testing.
// PRE: classID is non-empty
// POST: returns the configured participants
func (m *mockBackend) ListParticipants(ctx context.Context, token, classID string) ([]classsession.Participant, error) {
	if err := m.record("ListParticipants"); err != nil {
		return nil, err
	}
	return m.participants, nil
}

// CheckJoined implements the class reader for testing.
// PRE: classID is non-empty
// POST: returns the current participation flag
func (m *mockBackend) CheckJoined(ctx context.Context, token, classID string) (bool, error) {
	if err := m.record("CheckJoined"); err != nil {
		return false, err
	}
	return m.joined, nil
}

// ToggleJoin implements the participation backend for testing.
// PRE: classID is non-empty
// POST: the participation flag is flipped
func (m *mockBackend) ToggleJoin(ctx context.Context, token, classID string) error {
	if err := m.record("ToggleJoin"); err != nil {
		return err
	}
	m.joined = !m.joined
	return nil
}

// AddClass implements the class creator for testing.
// PRE: class has been validated
// POST: class is recorded
func (m *mockBackend) AddClass(ctx context.Context, token string, class classsession.NewClass) error {
	if err := m.record("AddClass"); err != nil {
		return err
	}
	m.added = append(m.added, class)
	return nil
}

// DeleteClass implements the class remover for testing.
// PRE: classID is non-empty
// POST: the class is removed from the list
func (m *mockBackend) DeleteClass(ctx context.Context, token, classID string) error {
	if err := m.record("DeleteClass"); err != nil {
		return err
	}
	m.classes = slices.DeleteFunc(m.classes, func(c classsession.Session) bool { return c.ID == classID })
	return nil
}

// DeleteParticipant implements the class remover for testing.
// PRE: classID and userID are non-empty
// POST: userID is recorded as removed
func (m *mockBackend) DeleteParticipant(ctx context.Context, token, classID, userID string) error {
	if err := m.record("DeleteParticipant"); err != nil {
		return err
	}
	m.removedUserIDs = append(m.removedUserIDs, userID)
	return nil
}

// ListTrainers implements the trainer reader for testing.
// PRE: none
// POST: returns the configured names
func (m *mockBackend) ListTrainers(ctx context.Context, token string) ([]string, error) {
	if err := m.record("ListTrainers"); err != nil {
		return nil, err
	}
	return m.trainers, nil
}

// NeedsFitnessPlan implements the plan reader for testing.
// PRE: none
// POST: returns the configured flag
func (m *mockBackend) NeedsFitnessPlan(ctx context.Context, token string) (bool, error) {
	if err := m.record("NeedsFitnessPlan"); err != nil {
		return false, err
	}
	return m.needsPlan, nil
}

// WeeklyProgress implements the plan reader for testing.
// PRE: none
// POST: returns the configured progress
func (m *mockBackend) WeeklyProgress(ctx context.Context, token string) (user.WeeklyProgress, error) {
	if err := m.record("WeeklyProgress"); err != nil {
		return user.WeeklyProgress{}, err
	}
	return m.progress, nil
}

// CurrentUser implements the profile reader for testing.
// PRE: none
// POST: returns the configured profile
func (m *mockBackend) CurrentUser(ctx context.Context, token string) (user.Settings, error) {
	if err := m.record("CurrentUser"); err != nil {
		return user.Settings{}, err
	}
	return m.profile, nil
}

// ListUsers implements the user reader for testing.
// PRE: none
// POST: returns every configured account
func (m *mockBackend) ListUsers(ctx context.Context, token string) ([]user.AdminRecord, error) {
	if err := m.record("ListUsers"); err != nil {
		return nil, err
	}
	return m.users, nil
}

// UserOptions implements the user reader for testing.
// PRE: none
// POST: returns the configured options
func (m *mockBackend) UserOptions(ctx context.Context, token string) ([]user.Option, error) {
	if err := m.record("UserOptions"); err != nil {
		return nil, err
	}
	return m.userOptions, nil
}

// GymOptions implements the user reader for testing.
// PRE: none
// POST: returns the configured options
func (m *mockBackend) GymOptions(ctx context.Context, token string) ([]user.Option, error) {
	if err := m.record("GymOptions"); err != nil {
		return nil, err
	}
	return m.gymOptions, nil
}

// ListRewards implements the reward reader for testing.
// PRE: none
// POST: returns every configured reward
func (m *mockBackend) ListRewards(ctx context.Context, token string) ([]reward.Reward, error) {
	if err := m.record("ListRewards"); err != nil {
		return nil, err
	}
	return m.rewards, nil
}

// FitnessPlanRewards implements the reward reader for testing.
// PRE: none
// POST: returns the configured plan rewards
func (m *mockBackend) FitnessPlanRewards(ctx context.Context, token string) ([]reward.PlanReward, error) {
	if err := m.record("FitnessPlanRewards"); err != nil {
		return nil, err
	}
	return m.planRewards, nil
}

// Login implements the authenticator for testing.
// PRE: creds have been validated
// POST: returns the configured login result
func (m *mockBackend) Login(ctx context.Context, creds user.Credentials) (backend.LoginResult, error) {
	if err := m.record("Login"); err != nil {
		return backend.LoginResult{}, err
	}
	return m.login, nil
}

// RegisterUser implements the registrar for testing.
// PRE: reg has been validated
// POST: the call is recorded
func (m *mockBackend) RegisterUser(ctx context.Context, reg user.Registration) error {
	return m.record("RegisterUser")
}

// RegisterGym implements the registrar for testing.
// PRE: reg has been validated
// POST: the call is recorded
func (m *mockBackend) RegisterGym(ctx context.Context, reg user.Registration) error {
	return m.record("RegisterGym")
}

// VerifyToken implements the registrar for testing.
// PRE: v has been validated
// POST: the call is recorded
func (m *mockBackend) VerifyToken(ctx context.Context, v user.Verification) error {
	return m.record("VerifyToken")
}

// UpdateUser implements the profile updater for testing.
// PRE: update is not empty
// POST: update is recorded
func (m *mockBackend) UpdateUser(ctx context.Context, token string, update user.SettingsUpdate) error {
	if err := m.record("UpdateUser"); err != nil {
		return err
	}
	m.updates = append(m.updates, update)
	return nil
}

// UpdateFitnessPlan implements the profile updater for testing.
// PRE: plan is one of user.Plans
// POST: plan is recorded and the prompt is satisfied
func (m *mockBackend) UpdateFitnessPlan(ctx context.Context, token string, plan user.FitnessPlan) error {
	if err := m.record("UpdateFitnessPlan"); err != nil {
		return err
	}
	m.selectedPlans = append(m.selectedPlans, plan)
	m.needsPlan = false
	return nil
}

// DeleteUser implements the account admin for testing.
// PRE: id is non-empty
// POST: id is recorded
func (m *mockBackend) DeleteUser(ctx context.Context, token, id string) error {
	if err := m.record("DeleteUser"); err != nil {
		return err
	}
	m.deletedUsers = append(m.deletedUsers, id)
	return nil
}

// ToggleActivate implements the account admin for testing.
// PRE: id is non-empty
// POST: id is recorded
func (m *mockBackend) ToggleActivate(ctx context.Context, token, id string) error {
	if err := m.record("ToggleActivate"); err != nil {
		return err
	}
	m.toggledUsers = append(m.toggledUsers, id)
	return nil
}

// ClaimReward implements the reward backend for testing.
// PRE: id is non-empty
// POST: the idempotency key is recorded
func (m *mockBackend) ClaimReward(ctx context.Context, token, id, idempotencyKey string) error {
	if err := m.record("ClaimReward"); err != nil {
		return err
	}
	m.claimKeys = append(m.claimKeys, idempotencyKey)
	return nil
}

// ChangeFitnessReward implements the reward backend for testing.
// PRE: change has been validated
// POST: change is recorded
func (m *mockBackend) ChangeFitnessReward(ctx context.Context, token string, change reward.PlanRewardChange) error {
	if err := m.record("ChangeFitnessReward"); err != nil {
		return err
	}
	m.planChanges = append(m.planChanges, change)
	return nil
}

// AddReward implements the reward backend for testing.
// PRE: grant has been validated
// POST: grant is recorded
func (m *mockBackend) AddReward(ctx context.Context, token string, grant reward.Grant) error {
	if err := m.record("AddReward"); err != nil {
		return err
	}
	m.grants = append(m.grants, grant)
	return nil
}
