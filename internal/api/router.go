package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/sredstva/internal/auth"
	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/service"
)

// Options configures the router.
type Options struct {
	JWTSecret   string
	Revoker     auth.Revoker
	CSRFEnabled bool
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, opts Options) http.Handler {
	mux := http.NewServeMux()

	if opts.Revoker == nil {
		opts.Revoker = &auth.SQLRevoker{DB: db}
	}

	users := service.NewUsers(db)
	assets := service.NewAssets(db)

	authHandler := &AuthHandler{
		Users:       users,
		JWTSecret:   opts.JWTSecret,
		Revoker:     opts.Revoker,
		CSRFEnabled: opts.CSRFEnabled,
	}
	usersHandler := &UsersHandler{Users: users}
	catalogHandler := &CatalogHandler{Catalog: service.NewCatalog(db), Assets: assets}
	assetsHandler := &AssetsHandler{Assets: assets}
	checkoutsHandler := &CheckoutsHandler{Checkouts: service.NewCheckouts(db)}
	ticketsHandler := &TicketsHandler{Tickets: service.NewTickets(db)}
	dashboardHandler := &DashboardHandler{Dashboard: service.NewDashboard(db)}

	authMW := AuthMiddleware(opts.JWTSecret, db, opts.Revoker, opts.CSRFEnabled)
	requireAdmin := RequireRole(model.RoleAdmin)
	authed := func(h http.HandlerFunc) http.Handler { return authMW(h) }
	admin := func(h http.HandlerFunc) http.Handler { return authMW(requireAdmin(h)) }

	// Public.
	mux.HandleFunc("GET /healthz", healthz(db))
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)

	// Session.
	mux.Handle("POST /api/auth/logout", authed(authHandler.Logout))
	mux.Handle("GET /api/auth/me", authed(authHandler.Me))
	mux.Handle("PUT /api/auth/password", authed(authHandler.ChangePassword))

	// Users (admin only).
	mux.Handle("GET /api/users", admin(usersHandler.List))
	mux.Handle("POST /api/users", admin(usersHandler.Create))
	mux.Handle("PUT /api/users/{id}", admin(usersHandler.Update))
	mux.Handle("DELETE /api/users/{id}", admin(usersHandler.Delete))

	// Catalog: read (all), write (admin).
	mux.Handle("GET /api/categories", authed(catalogHandler.ListCategories))
	mux.Handle("POST /api/categories", admin(catalogHandler.CreateCategory))
	mux.Handle("GET /api/categories/{id}/assets", authed(catalogHandler.CategoryAssets))
	mux.Handle("GET /api/locations", authed(catalogHandler.ListLocations))
	mux.Handle("POST /api/locations", admin(catalogHandler.CreateLocation))
	mux.Handle("GET /api/locations/{id}/assets", authed(catalogHandler.LocationAssets))

	// Assets: read (all), write (admin).
	mux.Handle("GET /api/assets", authed(assetsHandler.List))
	mux.Handle("POST /api/assets", admin(assetsHandler.Create))
	mux.Handle("GET /api/assets/export.csv", authed(assetsHandler.ExportCSV))
	mux.Handle("GET /api/assets/export.pdf", authed(assetsHandler.ExportPDF))
	mux.Handle("GET /api/assets/by-tag/{tag}", authed(assetsHandler.GetByTag))
	mux.Handle("GET /api/assets/{id}", authed(assetsHandler.Get))
	mux.Handle("PUT /api/assets/{id}", admin(assetsHandler.Update))
	mux.Handle("DELETE /api/assets/{id}", admin(assetsHandler.Delete))

	// Checkouts: request (all), decide (admin).
	mux.Handle("GET /api/checkouts", authed(checkoutsHandler.List))
	mux.Handle("POST /api/checkouts", authed(checkoutsHandler.Create))
	mux.Handle("GET /api/checkouts/history", authed(checkoutsHandler.History))
	mux.Handle("GET /api/checkouts/{id}", authed(checkoutsHandler.Get))
	mux.Handle("POST /api/checkouts/{id}/approve", admin(checkoutsHandler.Approve))
	mux.Handle("POST /api/checkouts/{id}/reject", admin(checkoutsHandler.Reject))
	mux.Handle("POST /api/checkouts/{id}/return", admin(checkoutsHandler.Return))

	// Tickets: open (all), change status (admin).
	mux.Handle("GET /api/tickets", authed(ticketsHandler.List))
	mux.Handle("POST /api/tickets", authed(ticketsHandler.Create))
	mux.Handle("GET /api/tickets/{id}", authed(ticketsHandler.Get))
	mux.Handle("POST /api/tickets/{id}/status", admin(ticketsHandler.ChangeStatus))
	mux.Handle("GET /api/tickets/{id}/logs", authed(ticketsHandler.Logs))

	mux.Handle("GET /api/dashboard", authed(dashboardHandler.Summary))

	return mux
}
