package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"fitflow/internal/domain/classsession"
)

// Cached resources. Mutations bump the generations of what they touch.
const (
	ResourceClasses      = "classes"
	ResourceParticipants = "participants"
	ResourceTrainers     = "trainers"
	ResourceUsers        = "users"
	ResourceGyms         = "gyms"
	ResourceRewards      = "rewards"
	ResourcePlanRewards  = "plan-rewards"
	ResourceProfile      = "profile"
)

// ListClasses returns every class session visible to the viewer.
func (c *Client) ListClasses(ctx context.Context, token string) ([]classsession.Session, error) {
	var out []classsession.Session
	err := c.cachedGet(ctx, ResourceClasses, call{
		method: http.MethodGet,
		route:  "api/Classes/get-all",
		path:   "api/Classes/get-all",
		token:  token,
	}, &out)
	return out, err
}

// GetClass returns one class session.
func (c *Client) GetClass(ctx context.Context, token, id string) (classsession.Session, error) {
	var out classsession.Session
	err := c.cachedGet(ctx, ResourceClasses, call{
		method: http.MethodGet,
		route:  "api/Classes/get/{id}",
		path:   "api/Classes/get/" + seg(id),
		token:  token,
	}, &out)
	return out, err
}

// ListParticipants returns the participants of a class.
func (c *Client) ListParticipants(ctx context.Context, token, classID string) ([]classsession.Participant, error) {
	var out []classsession.Participant
	err := c.cachedGet(ctx, ResourceParticipants, call{
		method: http.MethodGet,
		route:  "api/Classes/get-participants/{id}",
		path:   "api/Classes/get-participants/" + seg(classID),
		token:  token,
	}, &out)
	return out, err
}

// CheckJoined reports whether the viewer has joined a class.
func (c *Client) CheckJoined(ctx context.Context, token, classID string) (bool, error) {
	var raw []byte
	err := c.cachedGet(ctx, ResourceClasses, call{
		method: http.MethodGet,
		route:  "api/Classes/check-user/{id}",
		path:   "api/Classes/check-user/" + seg(classID),
		token:  token,
	}, (*rawBody)(&raw))
	if err != nil {
		return false, err
	}
	return parseBool("api/Classes/check-user/{id}", raw)
}

// ToggleJoin joins or leaves a class for the viewer.
func (c *Client) ToggleJoin(ctx context.Context, token, classID string) error {
	return c.mutate(ctx, call{
		method: http.MethodPost,
		route:  "api/Classes/toggle-join/{id}",
		path:   "api/Classes/toggle-join/" + seg(classID),
		token:  token,
	}, nil, ResourceClasses, ResourceParticipants, ResourceProfile)
}

// AddClass creates a class session (or a recurring series).
func (c *Client) AddClass(ctx context.Context, token string, class classsession.NewClass) error {
	return c.mutate(ctx, call{
		method: http.MethodPost,
		route:  "api/Classes/add",
		path:   "api/Classes/add",
		token:  token,
		body:   class,
	}, nil, ResourceClasses, ResourceTrainers)
}

// DeleteClass deletes a class session.
func (c *Client) DeleteClass(ctx context.Context, token, classID string) error {
	return c.mutate(ctx, call{
		method: http.MethodDelete,
		route:  "api/Classes/delete/{id}",
		path:   "api/Classes/delete/" + seg(classID),
		token:  token,
	}, nil, ResourceClasses, ResourceParticipants)
}

// DeleteParticipant removes a participant from a class.
func (c *Client) DeleteParticipant(ctx context.Context, token, classID, userID string) error {
	return c.mutate(ctx, call{
		method: http.MethodDelete,
		route:  "api/Classes/delete-participant/{classId}/{userId}",
		path:   "api/Classes/delete-participant/" + seg(classID) + "/" + seg(userID),
		token:  token,
	}, nil, ResourceClasses, ResourceParticipants)
}

// ListTrainers returns the known trainer names.
func (c *Client) ListTrainers(ctx context.Context, token string) ([]string, error) {
	var out []string
	err := c.cachedGet(ctx, ResourceTrainers, call{
		method: http.MethodGet,
		route:  "api/Trainers/get-all",
		path:   "api/Trainers/get-all",
		token:  token,
	}, &out)
	return out, err
}

// rawBody captures a response body without decoding it.
type rawBody []byte

func (r *rawBody) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// parseBool reads a JSON boolean, tolerating a quoted value.
func parseBool(route string, raw []byte) (bool, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("decode %s: %q is not a boolean", route, s)
	}
	return b, nil
}
