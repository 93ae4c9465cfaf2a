// Package server assembles the fiber application of the admin back office.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	apmfiber "go.elastic.co/apm/module/apmfiber/v2"
	"gorm.io/gorm"

	"acl-admin-backend/http/controllers"
	"acl-admin-backend/http/datatables"
	"acl-admin-backend/http/middleware"
	"acl-admin-backend/http/routes"
	"acl-admin-backend/providers/flash"
	"acl-admin-backend/providers/hooks"
	"acl-admin-backend/repositories"
	"acl-admin-backend/views"
)

type Options struct {
	DB        *gorm.DB
	JWTSecret string

	// Views defaults to the embedded templates.
	Views fiber.Views
	// Sessions defaults to flash.NewSessionStore().
	Sessions *session.Store
	// Hooks receives the built-in log and audit listeners; extra
	// listeners may be registered on it before or after New.
	Hooks *hooks.Registry

	APM       bool
	AccessLog bool
}

func New(opts Options) *fiber.App {
	if opts.Views == nil {
		opts.Views = views.Engine(false, "")
	}
	if opts.Sessions == nil {
		opts.Sessions = flash.NewSessionStore()
	}
	if opts.Hooks == nil {
		opts.Hooks = hooks.NewRegistry()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		Views:        opts.Views,
		ViewsLayout:  "layouts/main",
	})

	app.Use(recover.New())
	app.Use(cors.New())
	if opts.APM {
		app.Use(apmfiber.Middleware())
	}
	if opts.AccessLog {
		app.Use(fiberLogger.New(fiberLogger.Config{
			Format:     "${ip} - - [${time}] \"${method} ${path} ${protocol}\" ${status} ${latency}\n",
			TimeFormat: "02/Jan/2006:15:04:05 -0700",
		}))
	}
	app.Use("/static", filesystem.New(filesystem.Config{Root: views.Static()}))

	roleRepo := repositories.NewRoleRepository(opts.DB)
	permissionRepo := repositories.NewPermissionRepository(opts.DB)
	userRepo := repositories.NewUserRepository(opts.DB)
	activityRepo := repositories.NewActivityLogRepository(opts.DB)

	opts.Hooks.On(hooks.LogListener(), hooks.AllStages...)
	opts.Hooks.On(activityRepo.Listener(), hooks.AfterStages...)

	flashes := flash.New(opts.Sessions)

	authCtrl := controllers.NewAuthController(userRepo, opts.JWTSecret, flashes)
	routes.AuthRoutes(app, authCtrl)

	roleCtrl := controllers.NewRoleController(
		roleRepo,
		permissionRepo,
		datatables.NewRolesListDataTable(roleRepo.Query),
		flashes,
		opts.Hooks,
	)
	loginURL := "/admin/auth/login"
	routes.RoleRoutes(app, roleCtrl, middleware.JWTMiddleware(opts.JWTSecret, userRepo, loginURL))

	app.Get("/admin", func(c *fiber.Ctx) error {
		return c.Redirect("/admin/acl-roles")
	})

	return app
}
