package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"acl-admin-backend/db/dbtest"
	"acl-admin-backend/db/seed"
	"acl-admin-backend/http/datatables"
	"acl-admin-backend/models"
	"acl-admin-backend/providers/acl"
	"acl-admin-backend/providers/auth"
	"acl-admin-backend/providers/datatable"
	"acl-admin-backend/providers/hooks"
	"acl-admin-backend/repositories"
)

const testSecret = "test-secret"

type harness struct {
	t       *testing.T
	db      *gorm.DB
	app     *fiber.App
	hooks   *hooks.Registry
	roles   *repositories.RoleRepository
	perms   map[string]models.Permission
	super   *models.Role
	user    *models.User
	token   string
	session *http.Cookie
}

// newHarness starts the application for a user holding the given
// permissions.
func newHarness(t *testing.T, slugs ...string) *harness {
	t.Helper()
	database := dbtest.Open(t)
	ctx := context.Background()

	catalog := append([]models.Permission(nil), seed.Permissions...)
	if err := repositories.NewPermissionRepository(database).Upsert(ctx, catalog); err != nil {
		t.Fatalf("seed permissions: %v", err)
	}
	perms := make(map[string]models.Permission, len(catalog))
	for _, p := range catalog {
		perms[p.Slug] = p
	}

	roles := repositories.NewRoleRepository(database)
	super, err := roles.Create(ctx, repositories.CreateRoleInput{Name: "Super admin", Slug: acl.SuperAdminSlug})
	if err != nil {
		t.Fatalf("create super admin: %v", err)
	}
	var ids []uint
	for _, s := range slugs {
		ids = append(ids, perms[s].ID)
	}
	testerRole, err := roles.Create(ctx, repositories.CreateRoleInput{Name: "Tester", Slug: "tester", PermissionIDs: ids})
	if err != nil {
		t.Fatalf("create tester role: %v", err)
	}

	hash, err := auth.HashPassword("tester-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := repositories.NewUserRepository(database)
	user := &models.User{Username: "tester", Password: hash}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := users.AttachRoles(ctx, user, *testerRole); err != nil {
		t.Fatalf("attach role: %v", err)
	}
	token, err := auth.GenerateToken(testSecret, user, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	registry := hooks.NewRegistry()
	return &harness{
		t:     t,
		db:    database,
		app:   New(Options{DB: database, JWTSecret: testSecret, Hooks: registry}),
		hooks: registry,
		roles: roles,
		perms: perms,
		super: super,
		user:  user,
		token: token,
	}
}

func (h *harness) do(method, target string, form url.Values, headers map[string]string) *http.Response {
	h.t.Helper()
	if form == nil {
		return h.send(method, target, nil, "", headers)
	}
	return h.send(method, target, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", headers)
}

func (h *harness) send(method, target string, body io.Reader, contentType string, headers map[string]string) *http.Response {
	h.t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if h.token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: h.token})
	}
	if h.session != nil {
		req.AddCookie(&http.Cookie{Name: h.session.Name, Value: h.session.Value})
	}

	resp, err := h.app.Test(req, -1)
	if err != nil {
		h.t.Fatalf("%s %s: %v", method, target, err)
	}
	for _, c := range resp.Cookies() {
		if c.Name == "admin_session" {
			h.session = c
		}
	}
	return resp
}

// ajaxMultipart posts form the way the grid script does, as FormData.
func (h *harness) ajaxMultipart(target string, form url.Values) *http.Response {
	h.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, values := range form {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				h.t.Fatalf("write field %s: %v", key, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		h.t.Fatalf("close multipart: %v", err)
	}
	return h.send(http.MethodPost, target, &buf, w.FormDataContentType(), map[string]string{
		"X-Requested-With": "XMLHttpRequest",
		"Accept":           "application/json",
	})
}

func (h *harness) ajax(target string, form url.Values) *http.Response {
	return h.do(http.MethodPost, target, form, map[string]string{
		"X-Requested-With": "XMLHttpRequest",
		"Accept":           "application/json",
	})
}

func (h *harness) createRole(name, slug string, permissionIDs ...uint) *models.Role {
	h.t.Helper()
	role, err := h.roles.Create(context.Background(), repositories.CreateRoleInput{
		Name: name, Slug: slug, PermissionIDs: permissionIDs,
	})
	if err != nil {
		h.t.Fatalf("create role %s: %v", slug, err)
	}
	return role
}

func (h *harness) roleExists(id uint) bool {
	h.t.Helper()
	_, err := h.roles.Find(context.Background(), id)
	return err == nil
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func idPath(prefix string, id uint) string {
	return prefix + strconv.FormatUint(uint64(id), 10)
}

type actionResult struct {
	Error        bool     `json:"error"`
	Messages     []string `json:"messages"`
	ResponseCode int      `json:"response_code"`
}

func TestUnauthenticatedRequests(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles)
	h.token = ""

	resp := h.do(http.MethodGet, "/admin/acl-roles", nil, nil)
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != "/admin/auth/login" {
		t.Fatalf("page request: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp = h.ajax("/admin/acl-roles", url.Values{})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("ajax request: status %d", resp.StatusCode)
	}
}

func TestGridScriptIsServed(t *testing.T) {
	h := newHarness(t)
	h.token = ""

	resp := h.do(http.MethodGet, "/static/js/admin.js", nil, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	for _, want := range []string{"new FormData()", "group-checkable", "page-next", "state.start += state.length"} {
		if !strings.Contains(body, want) {
			t.Fatalf("grid script lacks %q", want)
		}
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	h.token = ""

	resp := h.do(http.MethodPost, "/admin/auth/login", url.Values{
		"username": {"tester"},
		"password": {"tester-password"},
	}, nil)
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != "/admin/acl-roles" {
		t.Fatalf("status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	var token string
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			token = c.Value
		}
	}
	claims, err := auth.ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("issued token: %v", err)
	}
	if id, _ := claims.UserID(); id != h.user.ID {
		t.Fatalf("token subject %d, want %d", id, h.user.ID)
	}

	resp = h.do(http.MethodPost, "/admin/auth/login", url.Values{
		"username": {"tester"},
		"password": {"wrong-password"},
	}, nil)
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != "/admin/auth/login" {
		t.Fatalf("bad password: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	body := readBody(t, h.do(http.MethodGet, "/admin/auth/login", nil, nil))
	if !strings.Contains(body, "Invalid credentials") {
		t.Fatalf("login page should show the error, got %s", body)
	}
}

func TestPermissionGate(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles)

	resp := h.do(http.MethodGet, "/admin/acl-roles", nil, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("index: status %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	for _, want := range []string{"Delete these items", "Select...", "data-config=", "group-checkable", "page-next", `<option value="100">`} {
		if !strings.Contains(body, want) {
			t.Fatalf("index page lacks %q", want)
		}
	}

	if resp := h.do(http.MethodGet, "/admin/acl-roles/create", nil, nil); resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("create without permission: status %d", resp.StatusCode)
	}
	if resp := h.ajax(idPath("/admin/acl-roles/delete/", h.super.ID), nil); resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("delete without permission: status %d", resp.StatusCode)
	}
}

func TestDeleteSuperAdminIsRejected(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles, acl.PermDeleteRoles)

	resp := h.ajax(idPath("/admin/acl-roles/delete/", h.super.ID), nil)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var result actionResult
	decode(t, resp, &result)
	if !result.Error || result.ResponseCode != fiber.StatusForbidden || len(result.Messages) == 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if !h.roleExists(h.super.ID) {
		t.Fatalf("super admin role was deleted")
	}
}

func TestDeleteRole(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles, acl.PermDeleteRoles)
	role := h.createRole("Editor", "editor", h.perms[acl.PermViewRoles].ID)

	resp := h.ajax(idPath("/admin/acl-roles/delete/", role.ID), nil)
	var result actionResult
	decode(t, resp, &result)
	if resp.StatusCode != fiber.StatusOK || result.Error {
		t.Fatalf("status %d result %+v", resp.StatusCode, result)
	}
	if h.roleExists(role.ID) {
		t.Fatalf("role still exists")
	}

	resp = h.ajax(idPath("/admin/acl-roles/delete/", role.ID), nil)
	decode(t, resp, &result)
	if resp.StatusCode != fiber.StatusNotFound || !result.Error {
		t.Fatalf("second delete: status %d result %+v", resp.StatusCode, result)
	}

	logs, err := repositories.NewActivityLogRepository(h.db).ForScreen(context.Background(), acl.Screen)
	if err != nil {
		t.Fatalf("activity logs: %v", err)
	}
	if len(logs) != 2 || logs[0].Action != string(hooks.AfterDelete) || logs[0].Failed || !logs[1].Failed {
		t.Fatalf("unexpected activity logs %+v", logs)
	}
}

func TestBeforeDeleteListenerAborts(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles, acl.PermDeleteRoles)
	role := h.createRole("Editor", "editor")
	h.hooks.On(hooks.ListenerFunc(func(_ context.Context, ev hooks.Event) hooks.Decision {
		return hooks.Decision{Abort: true, Messages: []string{"Roles are frozen."}}
	}), hooks.BeforeDelete)

	resp := h.ajax(idPath("/admin/acl-roles/delete/", role.ID), nil)
	var result actionResult
	decode(t, resp, &result)
	if resp.StatusCode != fiber.StatusForbidden || len(result.Messages) != 1 || result.Messages[0] != "Roles are frozen." {
		t.Fatalf("status %d result %+v", resp.StatusCode, result)
	}
	if !h.roleExists(role.ID) {
		t.Fatalf("role was deleted despite the abort")
	}
}

type listing struct {
	Draw                int                  `json:"draw"`
	RecordsTotal        int64                `json:"recordsTotal"`
	RecordsFiltered     int64                `json:"recordsFiltered"`
	Data                []datatables.RoleRow `json:"data"`
	CustomActionMessage string               `json:"customActionMessage"`
	CustomActionStatus  string               `json:"customActionStatus"`
}

func TestBulkDeleteWithoutPermission(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles)
	role := h.createRole("Editor", "editor")

	resp := h.ajax("/admin/acl-roles", url.Values{
		"customActionType": {"group_action"},
		"customActionName": {datatables.GroupActionDelete},
		"id[]":             {strconv.FormatUint(uint64(role.ID), 10)},
	})
	var got listing
	decode(t, resp, &got)
	if got.CustomActionStatus != "danger" || got.CustomActionMessage == "" {
		t.Fatalf("unexpected group action result %+v", got)
	}
	if !h.roleExists(role.ID) || got.RecordsTotal != 3 {
		t.Fatalf("nothing should be removed, total %d", got.RecordsTotal)
	}
}

func TestBulkDelete(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles, acl.PermDeleteRoles)
	a := h.createRole("Editor", "editor")
	b := h.createRole("Author", "author")

	resp := h.ajax("/admin/acl-roles", url.Values{
		"customActionType": {"group_action"},
		"customActionName": {datatables.GroupActionDelete},
		"id[]":             {strconv.FormatUint(uint64(a.ID), 10), strconv.FormatUint(uint64(b.ID), 10)},
	})
	var got listing
	decode(t, resp, &got)
	if got.CustomActionStatus != "success" {
		t.Fatalf("unexpected group action result %+v", got)
	}
	if h.roleExists(a.ID) || h.roleExists(b.ID) || got.RecordsTotal != 2 {
		t.Fatalf("roles should be gone before the rows are read, total %d", got.RecordsTotal)
	}

	resp = h.ajax("/admin/acl-roles", url.Values{
		"customActionType": {"group_action"},
		"customActionName": {datatables.GroupActionDelete},
		"id[]":             {strconv.FormatUint(uint64(h.super.ID), 10)},
	})
	decode(t, resp, &got)
	if got.CustomActionStatus != "danger" || !h.roleExists(h.super.ID) {
		t.Fatalf("super admin bulk delete should fail, got %+v", got)
	}

	resp = h.ajax("/admin/acl-roles", url.Values{
		"customActionType": {"group_action"},
		"customActionName": {"activated"},
	})
	decode(t, resp, &got)
	if got.CustomActionStatus != "danger" {
		t.Fatalf("unknown group action should fail, got %+v", got)
	}
}

func TestBulkDeleteMultipart(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles, acl.PermDeleteRoles)
	a := h.createRole("Editor", "editor")
	b := h.createRole("Author", "author")
	kept := h.createRole("Reviewer", "reviewer")

	resp := h.ajaxMultipart("/admin/acl-roles", url.Values{
		"draw":             {"2"},
		"name":             {""},
		"customActionType": {"group_action"},
		"customActionName": {datatables.GroupActionDelete},
		"id[]":             {strconv.FormatUint(uint64(a.ID), 10), strconv.FormatUint(uint64(b.ID), 10)},
	})
	var got listing
	decode(t, resp, &got)
	if got.CustomActionStatus != "success" || got.Draw != 2 {
		t.Fatalf("unexpected group action result %+v", got)
	}
	if h.roleExists(a.ID) || h.roleExists(b.ID) || !h.roleExists(kept.ID) {
		t.Fatalf("only the selected roles should be deleted")
	}
	if got.RecordsTotal != 3 {
		t.Fatalf("expected 3 remaining roles, got %d", got.RecordsTotal)
	}
}

func TestListingFiltersAndOrder(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles)
	h.createRole("Editor", "editor")
	h.createRole("Author", "author")
	copyEditor := h.createRole("Copy editor", "copy-editor")

	resp := h.ajax("/admin/acl-roles", url.Values{
		"draw":             {"3"},
		"name":             {"EDIT"},
		"order[0][column]": {"0"},
		"order[0][dir]":    {"asc"},
	})
	var got listing
	decode(t, resp, &got)
	if got.Draw != 3 || got.RecordsTotal != 5 || got.RecordsFiltered != 2 || len(got.Data) != 2 {
		t.Fatalf("unexpected listing %+v", got)
	}
	// The id column is not orderable, so the default id DESC applies.
	if got.Data[0].ID != copyEditor.ID {
		t.Fatalf("expected default order, got %+v", got.Data)
	}
	row := got.Data[0]
	if len(row.Actions) != 2 || row.Actions[0].Href != idPath("/admin/acl-roles/edit/", row.ID) ||
		row.Actions[1].Href != idPath("/admin/acl-roles/delete/", row.ID) || row.Actions[1].Method != fiber.MethodPost {
		t.Fatalf("unexpected row actions %+v", row.Actions)
	}

	resp = h.ajax("/admin/acl-roles", url.Values{
		"name":             {"edit"},
		"order[0][column]": {"1"},
		"order[0][dir]":    {"asc"},
	})
	decode(t, resp, &got)
	if len(got.Data) != 2 || got.Data[0].Name != "Copy editor" || got.Data[1].Name != "Editor" {
		t.Fatalf("expected name order, got %+v", got.Data)
	}

	resp = h.ajax("/admin/acl-roles", url.Values{"columns[0][search][value]": {"1"}})
	decode(t, resp, &got)
	if got.RecordsFiltered != got.RecordsTotal {
		t.Fatalf("id column must not be searched, got %d of %d", got.RecordsFiltered, got.RecordsTotal)
	}
}

func TestCreateWithoutPermissions(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles, acl.PermCreateRoles)

	resp := h.do(http.MethodPost, "/admin/acl-roles/create", url.Values{
		"name": {"Reviewer"},
		"slug": {"reviewer"},
	}, nil)
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != "/admin/acl-roles" {
		t.Fatalf("status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	var role models.Role
	if err := h.db.Where("slug = ?", "reviewer").First(&role).Error; err != nil {
		t.Fatalf("role not created: %v", err)
	}
	ids, err := h.roles.RelatedPermissionIDs(context.Background(), &role)
	if err != nil {
		t.Fatalf("related permissions: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no permissions, got %v", ids)
	}
	if role.CreatedBy == nil || *role.CreatedBy != h.user.ID {
		t.Fatalf("created_by should be the caller")
	}

	body := readBody(t, h.do(http.MethodGet, "/admin/acl-roles", nil, nil))
	if !strings.Contains(body, "Create role successfully.") {
		t.Fatalf("index should flash the success message")
	}
}

func TestCreateListenerCannotChangePermissions(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles, acl.PermCreateRoles)
	view := h.perms[acl.PermViewRoles].ID
	h.hooks.On(hooks.ListenerFunc(func(_ context.Context, ev hooks.Event) hooks.Decision {
		if ids, ok := ev.Fields["permissions"].([]uint); ok && len(ids) > 0 {
			ids[0] = h.perms[acl.PermDeleteRoles].ID
		}
		return hooks.Decision{}
	}), hooks.BeforeCreate)

	h.do(http.MethodPost, "/admin/acl-roles/create", url.Values{
		"name":        {"Reviewer"},
		"slug":        {"reviewer"},
		"permissions": {strconv.FormatUint(uint64(view), 10)},
	}, nil)

	var role models.Role
	if err := h.db.Where("slug = ?", "reviewer").First(&role).Error; err != nil {
		t.Fatalf("role not created: %v", err)
	}
	ids, _ := h.roles.RelatedPermissionIDs(context.Background(), &role)
	if len(ids) != 1 || ids[0] != view {
		t.Fatalf("stored permissions %v, want [%d]", ids, view)
	}
}

func TestCreateContinueEdit(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles, acl.PermCreateRoles)
	view := h.perms[acl.PermViewRoles].ID

	resp := h.do(http.MethodPost, "/admin/acl-roles/create", url.Values{
		"name":           {"Reviewer"},
		"slug":           {"reviewer"},
		"permissions":    {strconv.FormatUint(uint64(view), 10)},
		"_continue_edit": {"1"},
	}, nil)

	var role models.Role
	if err := h.db.Where("slug = ?", "reviewer").First(&role).Error; err != nil {
		t.Fatalf("role not created: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != idPath("/admin/acl-roles/edit/", role.ID) {
		t.Fatalf("status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	ids, _ := h.roles.RelatedPermissionIDs(context.Background(), &role)
	if len(ids) != 1 || ids[0] != view {
		t.Fatalf("unexpected permissions %v", ids)
	}
}

func TestCreateValidationKeepsInput(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles, acl.PermCreateRoles)
	view := strconv.FormatUint(uint64(h.perms[acl.PermViewRoles].ID), 10)

	resp := h.do(http.MethodPost, "/admin/acl-roles/create", url.Values{
		"name":        {"Reviewer"},
		"slug":        {"Not A Slug"},
		"permissions": {view},
	}, nil)
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != "/admin/acl-roles/create" {
		t.Fatalf("status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	body := readBody(t, h.do(http.MethodGet, "/admin/acl-roles/create", nil, nil))
	for _, want := range []string{`value="Not A Slug"`, `value="` + view + `" checked`, "alert-danger"} {
		if !strings.Contains(body, want) {
			t.Fatalf("create form lacks %q:\n%s", want, body)
		}
	}

	resp = h.do(http.MethodPost, "/admin/acl-roles/create", url.Values{
		"name": {"Tester again"},
		"slug": {"tester"},
	}, nil)
	if resp.Header.Get("Location") != "/admin/acl-roles/create" {
		t.Fatalf("duplicate slug should go back, got %q", resp.Header.Get("Location"))
	}
}

func TestEditMissingRoleRedirects(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles, acl.PermEditRoles)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		var form url.Values
		if method == http.MethodPost {
			form = url.Values{"name": {"Ghost"}}
		}
		resp := h.do(method, "/admin/acl-roles/edit/9999", form, nil)
		if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != "/admin/acl-roles" {
			t.Fatalf("%s: status %d location %q", method, resp.StatusCode, resp.Header.Get("Location"))
		}
		body := readBody(t, h.do(http.MethodGet, "/admin/acl-roles", nil, nil))
		if !strings.Contains(body, "This role does not exist.") {
			t.Fatalf("%s: index should flash the error", method)
		}
	}
}

func TestEditRole(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles, acl.PermEditRoles)
	view, edit := h.perms[acl.PermViewRoles].ID, h.perms[acl.PermEditRoles].ID
	role := h.createRole("Editor", "editor", view)

	body := readBody(t, h.do(http.MethodGet, idPath("/admin/acl-roles/edit/", role.ID), nil, nil))
	if !strings.Contains(body, `value="`+strconv.FormatUint(uint64(view), 10)+`" checked`) {
		t.Fatalf("edit form should check assigned permissions:\n%s", body)
	}

	resp := h.do(http.MethodPost, idPath("/admin/acl-roles/edit/", role.ID), url.Values{
		"name":           {"Chief editor"},
		"permissions":    {strconv.FormatUint(uint64(edit), 10)},
		"_continue_edit": {"1"},
	}, nil)
	if resp.Header.Get("Location") != idPath("/admin/acl-roles/edit/", role.ID) {
		t.Fatalf("continue edit should stay on the form, got %q", resp.Header.Get("Location"))
	}
	updated, err := h.roles.Find(context.Background(), role.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	ids, _ := h.roles.RelatedPermissionIDs(context.Background(), updated)
	if updated.Name != "Chief editor" || len(ids) != 1 || ids[0] != edit {
		t.Fatalf("unexpected role %+v permissions %v", updated, ids)
	}
	if updated.UpdatedBy == nil || *updated.UpdatedBy != h.user.ID {
		t.Fatalf("updated_by should be the caller")
	}

	resp = h.do(http.MethodPost, idPath("/admin/acl-roles/edit/", role.ID), url.Values{"name": {""}}, nil)
	if resp.Header.Get("Location") != idPath("/admin/acl-roles/edit/", role.ID) {
		t.Fatalf("invalid input should go back to the form, got %q", resp.Header.Get("Location"))
	}
}

func TestEditSuperAdminKeepsPermissions(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles, acl.PermEditRoles)

	body := readBody(t, h.do(http.MethodGet, idPath("/admin/acl-roles/edit/", h.super.ID), nil, nil))
	if !strings.Contains(body, "cannot be changed") {
		t.Fatalf("edit page should flag the super admin role")
	}

	h.do(http.MethodPost, idPath("/admin/acl-roles/edit/", h.super.ID), url.Values{
		"name":        {"Root"},
		"permissions": {strconv.FormatUint(uint64(h.perms[acl.PermViewRoles].ID), 10)},
	}, nil)
	role, err := h.roles.Find(context.Background(), h.super.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	ids, _ := h.roles.RelatedPermissionIDs(context.Background(), role)
	if role.Name != "Root" || len(ids) != 0 {
		t.Fatalf("name should change and permissions stay empty, got %q %v", role.Name, ids)
	}
}

func TestListingPageSizeIsCapped(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles)
	for i := 0; i < datatable.MaxLength+5; i++ {
		h.createRole("Role "+strconv.Itoa(i), "role-"+strconv.Itoa(i))
	}

	for _, length := range []string{"-1", "100000"} {
		var got listing
		decode(t, h.ajax("/admin/acl-roles", url.Values{"length": {length}}), &got)
		if len(got.Data) != datatable.MaxLength || got.RecordsFiltered != int64(datatable.MaxLength+7) {
			t.Fatalf("length %s: got %d rows of %d", length, len(got.Data), got.RecordsFiltered)
		}
	}

	var got listing
	decode(t, h.ajax("/admin/acl-roles", url.Values{"start": {"100"}, "length": {"10"}}), &got)
	if len(got.Data) != 7 {
		t.Fatalf("last page should hold the remaining 7 rows, got %d", len(got.Data))
	}
}

func TestListingResponseShape(t *testing.T) {
	h := newHarness(t, acl.PermViewRoles)

	resp := h.ajax("/admin/acl-roles", url.Values{"length": {"-1"}})
	var raw map[string]json.RawMessage
	decode(t, resp, &raw)
	for _, key := range []string{"draw", "recordsTotal", "recordsFiltered", "data"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("listing lacks %q", key)
		}
	}
	if _, ok := raw["customActionStatus"]; ok {
		t.Fatalf("customActionStatus should be omitted without a group action")
	}
	var rows []datatables.RoleRow
	if err := json.Unmarshal(raw["data"], &rows); err != nil || len(rows) != 2 {
		t.Fatalf("rows %v err %v", rows, err)
	}
	if rows[0].Actions[1].Confirm == "" {
		t.Fatalf("delete action should ask for confirmation")
	}
}
