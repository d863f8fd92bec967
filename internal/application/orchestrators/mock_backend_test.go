package orchestrators

import (
	"context"
	"errors"
	"time"

	"fitflow/internal/adapters/backend"
	"fitflow/internal/domain/classsession"
	"fitflow/internal/domain/reward"
	"fitflow/internal/domain/session"
	"fitflow/internal/domain/user"
)

var fixedTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

var errBackend = &backend.APIError{Method: "POST", Route: "test", Status: 400, Codes: []string{"NO_ENTITY"}}

// mockBackend records every call and answers from its fields.
type mockBackend struct {
	calls []string
	fail  map[string]error

	joined       bool
	participants []classsession.Participant
	class        classsession.Session

	addedClass classsession.NewClass
	login      backend.LoginResult
	registered user.Registration
	verified   user.Verification
	update     user.SettingsUpdate
	plan       user.FitnessPlan
	claimKey   string
	planChange reward.PlanRewardChange
	grant      reward.Grant
}

func newMockBackend() *mockBackend {
	return &mockBackend{fail: map[string]error{}}
}

func (m *mockBackend) record(name string) error {
	m.calls = append(m.calls, name)
	return m.fail[name]
}

func (m *mockBackend) count(name string) int {
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

// AddClass implements ClassCreator for testing.
// PRE: none
// POST: records the class
func (m *mockBackend) AddClass(_ context.Context, _ string, class classsession.NewClass) error {
	m.addedClass = class
	return m.record("AddClass")
}

// ToggleJoin implements ParticipationBackend for testing.
// PRE: none
// POST: flips joined unless configured to fail
func (m *mockBackend) ToggleJoin(_ context.Context, _, _ string) error {
	if err := m.record("ToggleJoin"); err != nil {
		return err
	}
	m.joined = !m.joined
	return nil
}

// CheckJoined implements ParticipationBackend for testing.
// PRE: none
// POST: returns the current joined flag
func (m *mockBackend) CheckJoined(_ context.Context, _, _ string) (bool, error) {
	return m.joined, m.record("CheckJoined")
}

// ListParticipants implements ParticipationBackend for testing.
// PRE: none
// POST: returns configured participants
func (m *mockBackend) ListParticipants(_ context.Context, _, _ string) ([]classsession.Participant, error) {
	return m.participants, m.record("ListParticipants")
}

// GetClass implements ClassRemover for testing.
// PRE: none
// POST: returns the configured class
func (m *mockBackend) GetClass(_ context.Context, _, _ string) (classsession.Session, error) {
	return m.class, m.record("GetClass")
}

// DeleteClass implements ClassRemover for testing.
// PRE: none
// POST: records the call
func (m *mockBackend) DeleteClass(_ context.Context, _, _ string) error {
	return m.record("DeleteClass")
}

// DeleteParticipant implements ClassRemover for testing.
// PRE: none
// POST: records the call
func (m *mockBackend) DeleteParticipant(_ context.Context, _, _, _ string) error {
	return m.record("DeleteParticipant")
}

// Login implements Authenticator for testing.
// PRE: none
// POST: returns the configured login result
func (m *mockBackend) Login(_ context.Context, _ user.Credentials) (backend.LoginResult, error) {
	if err := m.record("Login"); err != nil {
		return backend.LoginResult{}, err
	}
	return m.login, nil
}

// RegisterUser implements Registrar for testing.
// PRE: none
// POST: records the registration
func (m *mockBackend) RegisterUser(_ context.Context, reg user.Registration) error {
	m.registered = reg
	return m.record("RegisterUser")
}

// RegisterGym implements Registrar for testing.
// PRE: none
// POST: records the registration
func (m *mockBackend) RegisterGym(_ context.Context, reg user.Registration) error {
	m.registered = reg
	return m.record("RegisterGym")
}

// VerifyToken implements Registrar for testing.
// PRE: none
// POST: records the verification
func (m *mockBackend) VerifyToken(_ context.Context, v user.Verification) error {
	m.verified = v
	return m.record("VerifyToken")
}

// UpdateUser implements ProfileUpdater for testing.
// PRE: none
// POST: records the update
func (m *mockBackend) UpdateUser(_ context.Context, _ string, u user.SettingsUpdate) error {
	m.update = u
	return m.record("UpdateUser")
}

// UpdateFitnessPlan implements ProfileUpdater for testing.
// PRE: none
// POST: records the plan
func (m *mockBackend) UpdateFitnessPlan(_ context.Context, _ string, p user.FitnessPlan) error {
	m.plan = p
	return m.record("UpdateFitnessPlan")
}

// DeleteUser implements AccountAdmin for testing.
// PRE: none
// POST: records the call
func (m *mockBackend) DeleteUser(_ context.Context, _, _ string) error {
	return m.record("DeleteUser")
}

// ToggleActivate implements AccountAdmin for testing.
// PRE: none
// POST: records the call
func (m *mockBackend) ToggleActivate(_ context.Context, _, _ string) error {
	return m.record("ToggleActivate")
}

// ClaimReward implements RewardBackend for testing.
// PRE: none
// POST: records the idempotency key
func (m *mockBackend) ClaimReward(_ context.Context, _, _, key string) error {
	m.claimKey = key
	return m.record("ClaimReward")
}

// ChangeFitnessReward implements RewardBackend for testing.
// PRE: none
// POST: records the change
func (m *mockBackend) ChangeFitnessReward(_ context.Context, _ string, c reward.PlanRewardChange) error {
	m.planChange = c
	return m.record("ChangeFitnessReward")
}

// AddReward implements RewardBackend for testing.
// PRE: none
// POST: records the grant
func (m *mockBackend) AddReward(_ context.Context, _ string, g reward.Grant) error {
	m.grant = g
	return m.record("AddReward")
}

// mockSessions is an in-memory SessionStore.
type mockSessions struct {
	saved   map[string]session.Session
	saveErr error
}

// Save implements SessionStore for testing.
// PRE: none
// POST: stores the session unless saveErr is set
func (m *mockSessions) Save(_ context.Context, s session.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[s.ID] = s
	return nil
}

// Delete implements SessionStore for testing.
// PRE: none
// POST: removes the session
func (m *mockSessions) Delete(_ context.Context, id string) error {
	if _, ok := m.saved[id]; !ok {
		return errors.New("not found")
	}
	delete(m.saved, id)
	return nil
}
