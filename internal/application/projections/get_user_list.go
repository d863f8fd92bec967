package projections

import (
	"cmp"
	"context"
	"net/url"
	"strings"

	"fitflow/internal/application/listutil"
	"fitflow/internal/domain/user"
)

// UserSortColumns are the sortable columns of the users table.
var UserSortColumns = []string{"createdAt", "name", "email", "location", "role", "verified"}

var userColumns = map[string]listutil.Compare[user.AdminRecord]{
	"createdAt": func(a, b user.AdminRecord) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"name":      func(a, b user.AdminRecord) int { return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
	"email":     func(a, b user.AdminRecord) int { return cmp.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email)) },
	"location":  func(a, b user.AdminRecord) int { return cmp.Compare(a.LocationOrNA(), b.LocationOrNA()) },
	"role":      func(a, b user.AdminRecord) int { return cmp.Compare(a.Role, b.Role) },
	"verified":  func(a, b user.AdminRecord) int { return cmp.Compare(a.VerifiedLabel(), b.VerifiedLabel()) },
}

func matchUser(u user.AdminRecord, q string) bool {
	return listutil.ContainsFold(q, u.Name, u.Email, u.LocationOrNA(), u.Role)
}

// GetUserListQuery carries query parameters.
type GetUserListQuery struct {
	Token  string
	Values url.Values
}

// GetUserListResult is the users table view-model.
type GetUserListResult struct {
	Users  []user.AdminRecord
	Params listutil.Params
	Page   listutil.PageInfo
}

// GetUserListDeps holds dependencies for GetUserList.
type GetUserListDeps struct {
	Users UserReader
}

// QueryGetUserList reads every account and applies the table controls.
// PRE: the viewer is Admin; the backend enforces it
// POST: rows are a fresh read; nothing is patched locally
func QueryGetUserList(ctx context.Context, query GetUserListQuery, deps GetUserListDeps) (GetUserListResult, error) {
	users, err := deps.Users.ListUsers(ctx, query.Token)
	if err != nil {
		return GetUserListResult{}, err
	}
	params := listutil.Parse(query.Values, UserSortColumns)
	rows, page := listutil.Apply(users, params, matchUser, userColumns)
	return GetUserListResult{Users: rows, Params: params, Page: page}, nil
}
