package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/harvesthub/member-admin/pkg/account"
	apperrors "github.com/harvesthub/member-admin/pkg/errors"
	"github.com/harvesthub/member-admin/pkg/group"
	"github.com/harvesthub/member-admin/pkg/rolemgr"
)

// Handle serves the admin console API
type Handle struct {
	roleManager    *rolemgr.Service
	accountService *account.AccountService
	groupService   *group.GroupService
}

// NewHandle creates a new API handle
func NewHandle(roleManager *rolemgr.Service, accountService *account.AccountService, groupService *group.GroupService) *Handle {
	return &Handle{
		roleManager:    roleManager,
		accountService: accountService,
		groupService:   groupService,
	}
}

// Routes mounts the admin API routes
func Routes(r chi.Router, h *Handle) {
	r.Get("/accounts", h.GetAccounts)
	r.Post("/accounts", h.PostAccounts)
	r.Get("/accounts/{id}", h.GetAccountsID)
	r.Post("/accounts/actions", h.PostAccountsActions)
	r.Get("/groups", h.GetGroups)
}

// CreateAccountRequest is the account creation form payload
type CreateAccountRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	IsStaff         bool   `json:"is_staff"`
	IsSuperuser     bool   `json:"is_superuser"`
	FirstName       string `json:"first_name"`
	FamilyName      string `json:"family_name"`
}

// BulkActionRequest selects an operation and the accounts to apply it to
type BulkActionRequest struct {
	Operation  string      `json:"operation"`
	AccountIDs []uuid.UUID `json:"account_ids"`
}

// AccountResponse is one row of the tabular account listing
type AccountResponse struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Person       string   `json:"person,omitempty"`
	Groups       []string `json:"groups"`
	GroupSummary string   `json:"group_summary"`
	IsStaff      bool     `json:"is_staff"`
	IsCore       bool     `json:"is_core"`
	IsAdmin      bool     `json:"is_admin"`
	IsActive     bool     `json:"is_active"`
}

// ActionItemResponse reports the outcome of one account in a bulk action
type ActionItemResponse struct {
	AccountID string `json:"account_id"`
	Error     string `json:"error,omitempty"`
}

// BulkActionResponse reports the per-item outcomes of a bulk action
type BulkActionResponse struct {
	Operation string               `json:"operation"`
	Results   []ActionItemResponse `json:"results"`
	Failed    int                  `json:"failed"`
}

func respondError(w http.ResponseWriter, r *http.Request, err *apperrors.Error) {
	render.Status(r, err.HTTPStatusCode())
	render.JSON(w, r, map[string]string{
		"code":    string(err.Code),
		"message": err.Message,
	})
}

func accountRowResponse(row rolemgr.AccountRow) AccountResponse {
	resp := AccountResponse{
		ID:           row.ID.String(),
		Email:        row.Email,
		Groups:       row.Groups,
		GroupSummary: row.GroupSummary(),
		IsStaff:      row.IsStaff,
		IsCore:       row.IsCore,
		IsAdmin:      row.IsAdmin,
		IsActive:     row.IsActive,
	}
	if row.Person != nil {
		resp.Person = row.Person.DisplayName()
	}
	if resp.Groups == nil {
		resp.Groups = []string{}
	}
	return resp
}

// parseBoolParam returns nil when the query parameter is absent or malformed
func parseBoolParam(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// GetAccounts returns the filtered tabular account listing
// (GET /accounts)
func (h *Handle) GetAccounts(w http.ResponseWriter, r *http.Request) {
	filter := rolemgr.Filter{
		Search:     r.URL.Query().Get("search"),
		Group:      r.URL.Query().Get("group"),
		HasProfile: parseBoolParam(r, "has_profile"),
		PickLeader: parseBoolParam(r, "pickleader"),
		Volunteer:  parseBoolParam(r, "volunteer"),
		Staff:      parseBoolParam(r, "staff"),
		Superuser:  parseBoolParam(r, "superuser"),
		Active:     parseBoolParam(r, "active"),
	}

	rows, err := h.roleManager.ListAccounts(r.Context(), filter)
	if err != nil {
		slog.Error("Failed listing accounts", "err", err)
		respondError(w, r, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed listing accounts"))
		return
	}

	response := make([]AccountResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, accountRowResponse(row))
	}

	render.JSON(w, r, response)
}

// PostAccounts creates a new account from the admin creation form
// (POST /accounts)
func (h *Handle) PostAccounts(w http.ResponseWriter, r *http.Request) {
	var request CreateAccountRequest
	if err := render.DecodeJSON(r.Body, &request); err != nil {
		respondError(w, r, apperrors.InvalidInput("request body", "malformed JSON"))
		return
	}

	if request.Email == "" {
		respondError(w, r, apperrors.InvalidInput("email", "required"))
		return
	}

	params := account.CreateAccountParams{}
	copier.Copy(&params, request)
	if request.FirstName != "" || request.FamilyName != "" {
		params.Person = &account.Person{
			FirstName:  request.FirstName,
			FamilyName: request.FamilyName,
		}
	}

	created, err := h.accountService.CreateAccount(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrPasswordMismatch):
			respondError(w, r, apperrors.New(apperrors.ErrCodePasswordMismatch, "passwords do not match"))
		case errors.Is(err, account.ErrEmailTaken):
			respondError(w, r, apperrors.Newf(apperrors.ErrCodeAccountAlreadyExists, "email already registered: %s", request.Email))
		default:
			slog.Error("Failed creating account", "err", err)
			respondError(w, r, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed creating account"))
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, accountRowResponse(rolemgr.AccountRow{
		Account: created,
		IsAdmin: rolemgr.IsAdmin(created),
	}))
}

// GetAccountsID returns one account with its groups
// (GET /accounts/{id})
func (h *Handle) GetAccountsID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, apperrors.InvalidInput("id", "must be a UUID"))
		return
	}

	acct, err := h.accountService.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			respondError(w, r, apperrors.NotFound("account", id.String()))
			return
		}
		slog.Error("Failed getting account", "accountId", id, "err", err)
		respondError(w, r, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed getting account"))
		return
	}

	groups, err := h.groupService.FindAccountGroups(r.Context(), id)
	if err != nil {
		slog.Error("Failed getting account groups", "accountId", id, "err", err)
		respondError(w, r, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed getting account groups"))
		return
	}

	names := make([]string, 0, len(groups))
	isCore := false
	for _, g := range groups {
		names = append(names, g.Name)
		if g.Name == "core" {
			isCore = true
		}
	}

	render.JSON(w, r, accountRowResponse(rolemgr.AccountRow{
		Account: acct,
		Groups:  names,
		IsCore:  isCore,
		IsAdmin: rolemgr.IsAdmin(acct),
	}))
}

// PostAccountsActions applies a named bulk operation to the selected accounts
// (POST /accounts/actions)
func (h *Handle) PostAccountsActions(w http.ResponseWriter, r *http.Request) {
	var request BulkActionRequest
	if err := render.DecodeJSON(r.Body, &request); err != nil {
		respondError(w, r, apperrors.InvalidInput("request body", "malformed JSON"))
		return
	}

	op, err := rolemgr.ParseOperation(request.Operation)
	if err != nil {
		respondError(w, r, apperrors.Newf(apperrors.ErrCodeUnknownOperation, "unknown operation: %s", request.Operation))
		return
	}
	if len(request.AccountIDs) == 0 {
		respondError(w, r, apperrors.InvalidInput("account_ids", "at least one account must be selected"))
		return
	}

	results, err := h.roleManager.Apply(r.Context(), op, request.AccountIDs)
	if err != nil {
		slog.Error("Failed applying bulk operation", "operation", op, "err", err)
		respondError(w, r, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed applying bulk operation"))
		return
	}

	response := BulkActionResponse{
		Operation: string(op),
		Results:   make([]ActionItemResponse, 0, len(results)),
	}
	for _, res := range results {
		item := ActionItemResponse{AccountID: res.AccountID.String()}
		if res.Err != nil {
			item.Error = res.Err.Error()
			response.Failed++
		}
		response.Results = append(response.Results, item)
	}

	render.JSON(w, r, response)
}

// GetGroups returns all groups
// (GET /groups)
func (h *Handle) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.FindGroups(r.Context())
	if err != nil {
		slog.Error("Failed listing groups", "err", err)
		respondError(w, r, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed listing groups"))
		return
	}

	type groupResponse struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	response := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		response = append(response, groupResponse{ID: g.ID.String(), Name: g.Name})
	}

	render.JSON(w, r, response)
}
