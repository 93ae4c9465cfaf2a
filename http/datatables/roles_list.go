package datatables

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"acl-admin-backend/http/urls"
	"acl-admin-backend/models"
	"acl-admin-backend/providers/datatable"
)

// GroupActionDelete is the only bulk action of the roles grid.
const GroupActionDelete = "deleted"

type RoleRow struct {
	ID      uint                   `json:"id"`
	Name    string                 `json:"name"`
	Slug    string                 `json:"slug"`
	Actions []datatable.ActionLink `json:"actions"`
}

type RolesListDataTable struct {
	query func(ctx context.Context) *gorm.DB
}

// NewRolesListDataTable builds the roles grid over the query returned by
// query, which must select at least id, name and slug.
func NewRolesListDataTable(query func(ctx context.Context) *gorm.DB) *RolesListDataTable {
	return &RolesListDataTable{query: query}
}

func (t *RolesListDataTable) Headings() []datatable.Heading {
	return []datatable.Heading{
		{Key: "name", Title: "Name", Width: "50%"},
		{Key: "slug", Title: "Alias", Width: "30%"},
		{Key: "actions", Title: "Actions", Width: "20%"},
	}
}

func (t *RolesListDataTable) Columns() []datatable.Column {
	return []datatable.Column{
		{Data: "id", Name: "id", Searchable: false, Orderable: false},
		{Data: "name", Name: "name", Searchable: true, Orderable: true},
		{Data: "slug", Name: "slug", Searchable: true, Orderable: true},
		{Data: "actions", Name: "actions", Searchable: false, Orderable: false},
	}
}

func (t *RolesListDataTable) Filters() []datatable.Filter {
	return []datatable.Filter{
		{Column: 1, Name: "name", Placeholder: "Search..."},
		{Column: 2, Name: "slug", Placeholder: "Search..."},
	}
}

func (t *RolesListDataTable) GroupActions() []datatable.GroupAction {
	return []datatable.GroupAction{
		{Value: "", Label: "Select..."},
		{Value: GroupActionDelete, Label: "Delete these items"},
	}
}

// Run describes the grid to the page shell.
func (t *RolesListDataTable) Run(r urls.Resolver) datatable.View {
	return datatable.View{
		AjaxURL:      urls.Route(r, urls.RolesListing, nil),
		Method:       fiber.MethodPost,
		Columns:      t.Columns(),
		Headings:     t.Headings(),
		Filters:      t.Filters(),
		GroupActions: t.GroupActions(),
		PageLengths:  datatable.PageLengths,
	}
}

// Make answers one ajax call of the grid.
func (t *RolesListDataTable) Make(c *fiber.Ctx) (*datatable.Response[RoleRow], error) {
	req := datatable.ParseRequest(c, t.Columns(), t.Filters())

	return datatable.Of[models.Role, RoleRow](t.query(c.UserContext()), t.Columns()).
		Map(func(role models.Role) RoleRow {
			return RoleRow{
				ID:      role.ID,
				Name:    role.Name,
				Slug:    role.Slug,
				Actions: t.actions(c, role.ID),
			}
		}).
		Make(c.UserContext(), req)
}

func (t *RolesListDataTable) actions(r urls.Resolver, id uint) []datatable.ActionLink {
	return []datatable.ActionLink{
		{
			Label:  "Edit",
			Href:   urls.WithID(r, urls.RolesEdit, id),
			Method: fiber.MethodGet,
			Class:  "btn btn-outline green btn-sm",
		},
		{
			Label:   "Delete",
			Href:    urls.WithID(r, urls.RolesDelete, id),
			Method:  fiber.MethodPost,
			Confirm: "Delete this item?",
			Class:   "btn btn-outline red-sunglo btn-sm ajax-link",
		},
	}
}
