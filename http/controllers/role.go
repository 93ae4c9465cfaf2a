package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"acl-admin-backend/http/datatables"
	"acl-admin-backend/http/middleware"
	"acl-admin-backend/http/requests"
	"acl-admin-backend/http/responses"
	"acl-admin-backend/http/urls"
	"acl-admin-backend/logger"
	"acl-admin-backend/models"
	"acl-admin-backend/providers/acl"
	"acl-admin-backend/providers/datatable"
	"acl-admin-backend/providers/flash"
	"acl-admin-backend/providers/hooks"
	"acl-admin-backend/repositories"
)

const (
	msgRoleNotExists  = "This role does not exist."
	msgNoPermission   = "You do not have permission."
	msgUnexpected     = "An unexpected error occurred."
	continueEditField = "_continue_edit"
)

type RoleStore interface {
	Find(ctx context.Context, id uint) (*models.Role, error)
	RelatedPermissionIDs(ctx context.Context, role *models.Role) ([]uint, error)
	Create(ctx context.Context, in repositories.CreateRoleInput) (*models.Role, error)
	Update(ctx context.Context, role *models.Role, in repositories.UpdateRoleInput) (*models.Role, error)
	Delete(ctx context.Context, ids ...uint) (int, error)
}

type PermissionCatalog interface {
	All(ctx context.Context) ([]models.Permission, error)
}

type RoleController struct {
	roles       RoleStore
	permissions PermissionCatalog
	table       *datatables.RolesListDataTable
	flash       *flash.Store
	hooks       *hooks.Registry
}

func NewRoleController(
	roles RoleStore,
	permissions PermissionCatalog,
	table *datatables.RolesListDataTable,
	flashes *flash.Store,
	registry *hooks.Registry,
) *RoleController {
	return &RoleController{
		roles:       roles,
		permissions: permissions,
		table:       table,
		flash:       flashes,
		hooks:       registry,
	}
}

// GetIndex renders the page shell; rows are loaded by PostListing.
func (rc *RoleController) GetIndex(c *fiber.Ctx) error {
	return c.Render("roles/index", fiber.Map{
		"Title":     "Roles",
		"User":      middleware.CurrentUser(c),
		"Messages":  rc.popMessages(c),
		"DataTable": rc.table.Run(c),
		"CreateURL": urls.Route(c, urls.RolesCreate, nil),
	})
}

// PostListing answers the grid ajax call, running a group action first
// when one was requested.
func (rc *RoleController) PostListing(c *fiber.Ctx) error {
	result := rc.groupAction(c)

	resp, err := rc.table.Make(c)
	if err != nil {
		logger.Logger.WithError(err).Error("Failed to fetch roles listing")
		return c.Status(http.StatusInternalServerError).JSON(responses.ErrorResponse{
			Error:   true,
			Message: "Could not retrieve roles",
		})
	}
	return c.JSON(resp.With(result))
}

func (rc *RoleController) groupAction(c *fiber.Ctx) datatable.GroupActionResult {
	if c.FormValue("customActionType") != "group_action" {
		return datatable.GroupActionResult{}
	}

	user := middleware.CurrentUser(c)
	if !acl.HasPermission(user, acl.PermDeleteRoles) {
		logger.Logger.WithField("user_id", userID(user)).Warn("Group action denied")
		return datatable.GroupActionResult{Message: msgNoPermission, Status: flash.Danger}
	}

	if name := c.FormValue("customActionName"); name != datatables.GroupActionDelete {
		logger.Logger.WithField("action", name).Warn("Unsupported group action")
		return datatable.GroupActionResult{Message: "This action is not supported.", Status: flash.Danger}
	}

	result := rc.deleteRoles(c.UserContext(), user, formIDs(c, "id[]", "id"))
	return datatable.GroupActionResult{Message: strings.Join(result.Messages, " "), Status: result.Status()}
}

// PostDelete deletes one role and answers with the result as json, using
// its response code as HTTP status.
func (rc *RoleController) PostDelete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		result := responses.Fail(http.StatusBadRequest, "Invalid role id.")
		return c.Status(result.ResponseCode).JSON(result)
	}

	result := rc.deleteRoles(c.UserContext(), middleware.CurrentUser(c), []uint{id})
	return c.Status(result.ResponseCode).JSON(result)
}

func (rc *RoleController) deleteRoles(ctx context.Context, user *models.User, ids []uint) responses.ActionResult {
	ev := hooks.Event{
		Stage:      hooks.BeforeDelete,
		Screen:     acl.Screen,
		ActorID:    userID(user),
		SubjectIDs: ids,
	}
	if d := rc.hooks.Fire(ctx, ev); d.Abort {
		return responses.Fail(http.StatusForbidden, withDefault(d.Messages, "This action was cancelled.")...)
	}

	var result responses.ActionResult
	n, err := rc.roles.Delete(ctx, ids...)
	switch {
	case err == nil:
		result = responses.Ok(http.StatusOK, "Delete role successfully.")
		logger.Logger.WithFields(map[string]interface{}{
			"ids":     ids,
			"deleted": n,
			"user_id": ev.ActorID,
		}).Info("Roles deleted")
	case errors.Is(err, repositories.ErrNoIDs):
		result = responses.Fail(http.StatusBadRequest, "No role selected.")
	case errors.Is(err, repositories.ErrRoleNotFound):
		result = responses.Fail(http.StatusNotFound, msgRoleNotExists)
	case errors.Is(err, repositories.ErrProtectedRole):
		logger.Logger.WithError(err).WithField("ids", ids).Warn("Attempt to delete a protected role")
		result = responses.Fail(http.StatusForbidden, "The super admin role cannot be deleted.")
	default:
		logger.Logger.WithError(err).WithField("ids", ids).Error("Failed to delete roles")
		result = responses.Fail(http.StatusInternalServerError, msgUnexpected)
	}

	ev.Stage = hooks.AfterDelete
	ev.Outcome = &hooks.Outcome{Failed: result.Error, Messages: result.Messages}
	d := rc.hooks.Fire(ctx, ev)
	result.Messages = append(result.Messages, d.Messages...)
	return result
}

// GetCreate renders an empty form, restoring the permissions of a
// previously rejected submission.
func (rc *RoleController) GetCreate(c *fiber.Ctx) error {
	perms, err := rc.permissions.All(c.UserContext())
	if err != nil {
		logger.Logger.WithError(err).Error("Failed to fetch permission catalog")
		return err
	}

	old, err := rc.flash.OldInput(c)
	if err != nil {
		logger.Logger.WithError(err).Warn("Failed to read old input")
	}

	return c.Render("roles/create", fiber.Map{
		"Title":              "Create role",
		"User":               middleware.CurrentUser(c),
		"Messages":           rc.popMessages(c),
		"Object":             models.Role{Name: old.Get("name"), Slug: old.Get("slug")},
		"Permissions":        perms,
		"CheckedPermissions": idSet(old.Uints("permissions")),
		"SuperAdminRole":     false,
		"ActionURL":          urls.Route(c, urls.RolesCreatePost, nil),
		"BackURL":            urls.Route(c, urls.RolesIndex, nil),
	})
}

func (rc *RoleController) PostCreate(c *fiber.Ctx) error {
	createURL := urls.Route(c, urls.RolesCreate, nil)

	var req requests.CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Logger.WithError(err).Error("Failed to parse role create request")
		return rc.back(c, createURL, []string{"Invalid input"}, true)
	}
	if err := req.Validate(); err != nil {
		logger.Logger.WithError(err).Info("Validation failed for role create request")
		return rc.back(c, createURL, requests.Messages(err), true)
	}

	user := middleware.CurrentUser(c)
	ev := hooks.Event{
		Stage:   hooks.BeforeCreate,
		Screen:  acl.Screen,
		ActorID: userID(user),
		Fields:  map[string]any{"name": req.Name, "slug": req.Slug, "permissions": append([]uint(nil), req.Permissions...)},
	}
	if d := rc.hooks.Fire(c.UserContext(), ev); d.Abort {
		return rc.back(c, createURL, withDefault(d.Messages, "This action was cancelled."), true)
	}

	role, err := rc.roles.Create(c.UserContext(), repositories.CreateRoleInput{
		Name:          req.Name,
		Slug:          req.Slug,
		PermissionIDs: req.Permissions,
		ActorID:       userID(user),
	})

	var result responses.ActionResult
	switch {
	case err == nil:
		result = responses.Ok(http.StatusCreated, "Create role successfully.")
		ev.SubjectIDs = []uint{role.ID}
	case errors.Is(err, repositories.ErrSlugTaken):
		result = responses.Fail(http.StatusConflict, "The slug has already been taken.")
	default:
		logger.Logger.WithError(err).Error("Failed to create role")
		result = responses.Fail(http.StatusInternalServerError, msgUnexpected)
	}

	ev.Stage = hooks.AfterCreate
	ev.Outcome = &hooks.Outcome{Failed: result.Error, Messages: result.Messages}
	d := rc.hooks.Fire(c.UserContext(), ev)
	result.Messages = append(result.Messages, d.Messages...)

	if result.Error {
		return rc.back(c, createURL, result.Messages, true)
	}

	rc.addMessages(c, result.Status(), result.Messages...)
	logger.Logger.WithFields(map[string]interface{}{
		"role_id": role.ID,
		"slug":    role.Slug,
		"user_id": ev.ActorID,
	}).Info("Role created")

	if c.FormValue(continueEditField) != "" {
		return c.Redirect(urls.WithID(c, urls.RolesEdit, role.ID))
	}
	return c.Redirect(urls.Route(c, urls.RolesIndex, nil))
}

func (rc *RoleController) GetEdit(c *fiber.Ctx) error {
	role, ok := rc.findOrRedirect(c)
	if !ok {
		return c.Redirect(urls.Route(c, urls.RolesIndex, nil))
	}

	checked, err := rc.roles.RelatedPermissionIDs(c.UserContext(), role)
	if err != nil {
		logger.Logger.WithError(err).WithField("role_id", role.ID).Error("Failed to fetch role permissions")
		return err
	}
	perms, err := rc.permissions.All(c.UserContext())
	if err != nil {
		logger.Logger.WithError(err).Error("Failed to fetch permission catalog")
		return err
	}

	return c.Render("roles/edit", fiber.Map{
		"Title":              "Edit role #" + strconv.FormatUint(uint64(role.ID), 10) + " " + role.Name,
		"User":               middleware.CurrentUser(c),
		"Messages":           rc.popMessages(c),
		"Object":             role,
		"Permissions":        perms,
		"CheckedPermissions": idSet(checked),
		"SuperAdminRole":     acl.IsProtected(role),
		"ActionURL":          urls.WithID(c, urls.RolesEditPost, role.ID),
		"BackURL":            urls.Route(c, urls.RolesIndex, nil),
	})
}

func (rc *RoleController) PostEdit(c *fiber.Ctx) error {
	role, ok := rc.findOrRedirect(c)
	if !ok {
		return c.Redirect(urls.Route(c, urls.RolesIndex, nil))
	}
	editURL := urls.WithID(c, urls.RolesEdit, role.ID)

	var req requests.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Logger.WithError(err).Error("Failed to parse role update request")
		return rc.back(c, editURL, []string{"Invalid input"}, false)
	}
	if err := req.Validate(); err != nil {
		logger.Logger.WithError(err).Info("Validation failed for role update request")
		return rc.back(c, editURL, requests.Messages(err), false)
	}

	user := middleware.CurrentUser(c)
	ev := hooks.Event{
		Stage:      hooks.BeforeUpdate,
		Screen:     acl.Screen,
		ActorID:    userID(user),
		SubjectIDs: []uint{role.ID},
		Fields:     map[string]any{"name": req.Name, "permissions": append([]uint(nil), req.Permissions...)},
	}
	if d := rc.hooks.Fire(c.UserContext(), ev); d.Abort {
		return rc.back(c, editURL, withDefault(d.Messages, "This action was cancelled."), false)
	}

	result := responses.Ok(http.StatusOK, "Update role successfully.")
	if _, err := rc.roles.Update(c.UserContext(), role, repositories.UpdateRoleInput{
		Name:          req.Name,
		PermissionIDs: req.Permissions,
		ActorID:       userID(user),
	}); err != nil {
		logger.Logger.WithError(err).WithField("role_id", role.ID).Error("Failed to update role")
		result = responses.Fail(http.StatusInternalServerError, msgUnexpected)
	}

	ev.Stage = hooks.AfterUpdate
	ev.Outcome = &hooks.Outcome{Failed: result.Error, Messages: result.Messages}
	d := rc.hooks.Fire(c.UserContext(), ev)
	result.Messages = append(result.Messages, d.Messages...)

	if result.Error {
		return rc.back(c, editURL, result.Messages, false)
	}

	rc.addMessages(c, result.Status(), result.Messages...)
	if c.FormValue(continueEditField) != "" {
		return c.Redirect(editURL)
	}
	return c.Redirect(urls.Route(c, urls.RolesIndex, nil))
}

// findOrRedirect loads the role of the :id parameter. On failure it
// flashes an error and reports false.
func (rc *RoleController) findOrRedirect(c *fiber.Ctx) (*models.Role, bool) {
	id, err := paramID(c)
	if err != nil {
		rc.addMessages(c, flash.Danger, msgRoleNotExists)
		return nil, false
	}

	role, err := rc.roles.Find(c.UserContext(), id)
	if err != nil {
		if !errors.Is(err, repositories.ErrRoleNotFound) {
			logger.Logger.WithError(err).WithField("role_id", id).Error("Failed to load role")
		}
		rc.addMessages(c, flash.Danger, msgRoleNotExists)
		return nil, false
	}
	return role, true
}

// back flashes messages, optionally keeps the submitted input and returns
// to the previous page.
func (rc *RoleController) back(c *fiber.Ctx, fallback string, messages []string, keepInput bool) error {
	rc.addMessages(c, flash.Danger, messages...)
	if keepInput {
		if err := rc.flash.KeepInput(c, flash.FormInput(c)); err != nil {
			logger.Logger.WithError(err).Warn("Failed to keep input")
		}
	}
	return c.RedirectBack(fallback)
}

func (rc *RoleController) addMessages(c *fiber.Ctx, typ string, messages ...string) {
	if err := rc.flash.Add(c, typ, messages...); err != nil {
		logger.Logger.WithError(err).Warn("Failed to flash messages")
	}
}

func (rc *RoleController) popMessages(c *fiber.Ctx) []flash.Message {
	msgs, err := rc.flash.Pop(c)
	if err != nil {
		logger.Logger.WithError(err).Warn("Failed to read flash messages")
	}
	return msgs
}
