package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvesthub/member-admin/pkg/account"
	"github.com/harvesthub/member-admin/pkg/group"
	"github.com/harvesthub/member-admin/pkg/rolemgr"
)

type testServer struct {
	router   *chi.Mux
	accounts *account.AccountService
	groups   *group.GroupService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	accountRepo := account.NewInMemoryAccountRepository()
	groupRepo := group.NewInMemoryGroupRepository()
	accounts := account.NewAccountService(accountRepo)
	groups := group.NewGroupService(groupRepo)
	roleManager := rolemgr.NewService(accounts, groups)

	router := chi.NewRouter()
	Routes(router, NewHandle(roleManager, accounts, groups))

	return &testServer{router: router, accounts: accounts, groups: groups}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestPostAccounts(t *testing.T) {
	tests := []struct {
		name       string
		body       CreateAccountRequest
		wantStatus int
	}{
		{
			name: "valid account",
			body: CreateAccountRequest{
				Email:           "new@example.com",
				Password:        "secret123",
				PasswordConfirm: "secret123",
				FirstName:       "Jane",
				FamilyName:      "Doe",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "password mismatch",
			body: CreateAccountRequest{
				Email:           "mismatch@example.com",
				Password:        "secret123",
				PasswordConfirm: "secret124",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing email",
			body:       CreateAccountRequest{Password: "x", PasswordConfirm: "x"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t)
			rec := server.do(t, http.MethodPost, "/accounts", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp AccountResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.body.Email, resp.Email)
				assert.Equal(t, "Jane Doe", resp.Person)
				assert.True(t, resp.IsActive)
			}
		})
	}
}

func TestPostAccountsDuplicateEmail(t *testing.T) {
	server := newTestServer(t)
	body := CreateAccountRequest{Email: "dup@example.com"}

	rec := server.do(t, http.MethodPost, "/accounts", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = server.do(t, http.MethodPost, "/accounts", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetAccounts(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t)

	staff, err := server.accounts.CreateAccount(ctx, account.CreateAccountParams{
		Email:   "staff@example.com",
		IsStaff: true,
	})
	require.NoError(t, err)
	_, err = server.accounts.CreateAccount(ctx, account.CreateAccountParams{
		Email: "plain@example.com",
	})
	require.NoError(t, err)

	g, err := server.groups.GetOrCreateGroup(ctx, "core")
	require.NoError(t, err)
	require.NoError(t, server.groups.AddAccountToGroup(ctx, staff.ID, g.ID))

	t.Run("all accounts", func(t *testing.T) {
		rec := server.do(t, http.MethodGet, "/accounts", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var rows []AccountResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		assert.Len(t, rows, 2)
	})

	t.Run("staff filter", func(t *testing.T) {
		rec := server.do(t, http.MethodGet, "/accounts?staff=true", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var rows []AccountResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "staff@example.com", rows[0].Email)
		assert.True(t, rows[0].IsCore)
		assert.Equal(t, "core", rows[0].GroupSummary)
	})

	t.Run("search param", func(t *testing.T) {
		rec := server.do(t, http.MethodGet, "/accounts?search=plain", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var rows []AccountResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "plain@example.com", rows[0].Email)
	})

	t.Run("group filter", func(t *testing.T) {
		rec := server.do(t, http.MethodGet, "/accounts?group=core", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var rows []AccountResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "staff@example.com", rows[0].Email)
	})
}

func TestGetAccountsID(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t)

	created, err := server.accounts.CreateAccount(ctx, account.CreateAccountParams{
		Email: "detail@example.com",
	})
	require.NoError(t, err)

	t.Run("existing account", func(t *testing.T) {
		rec := server.do(t, http.MethodGet, "/accounts/"+created.ID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp AccountResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, created.ID.String(), resp.ID)
	})

	t.Run("unknown account", func(t *testing.T) {
		rec := server.do(t, http.MethodGet, "/accounts/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := server.do(t, http.MethodGet, "/accounts/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostAccountsActions(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t)

	first, err := server.accounts.CreateAccount(ctx, account.CreateAccountParams{Email: "first@example.com"})
	require.NoError(t, err)
	second, err := server.accounts.CreateAccount(ctx, account.CreateAccountParams{Email: "second@example.com"})
	require.NoError(t, err)

	t.Run("promote batch", func(t *testing.T) {
		rec := server.do(t, http.MethodPost, "/accounts/actions", BulkActionRequest{
			Operation:  "promote_to_core",
			AccountIDs: []uuid.UUID{first.ID, second.ID},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp BulkActionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "promote_to_core", resp.Operation)
		assert.Len(t, resp.Results, 2)
		assert.Equal(t, 0, resp.Failed)

		ok, err := server.groups.IsAccountInGroup(ctx, first.ID, "core")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("partial failure reported per item", func(t *testing.T) {
		rec := server.do(t, http.MethodPost, "/accounts/actions", BulkActionRequest{
			Operation:  "promote_to_volunteer",
			AccountIDs: []uuid.UUID{first.ID, uuid.New()},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp BulkActionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 2)
		assert.Empty(t, resp.Results[0].Error)
		assert.NotEmpty(t, resp.Results[1].Error)
		assert.Equal(t, 1, resp.Failed)
	})

	t.Run("unknown operation", func(t *testing.T) {
		rec := server.do(t, http.MethodPost, "/accounts/actions", BulkActionRequest{
			Operation:  "promote_to_root",
			AccountIDs: []uuid.UUID{first.ID},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty selection", func(t *testing.T) {
		rec := server.do(t, http.MethodPost, "/accounts/actions", BulkActionRequest{
			Operation: "promote_to_core",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetGroups(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t)

	for _, name := range []string{"core", "admin"} {
		_, err := server.groups.GetOrCreateGroup(ctx, name)
		require.NoError(t, err)
	}

	rec := server.do(t, http.MethodGet, "/groups", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var groups []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "admin", groups[0].Name)
	assert.Equal(t, "core", groups[1].Name)
}
