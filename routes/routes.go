package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jdvalencia/lineup-showdown/handlers"
	"github.com/jdvalencia/lineup-showdown/middleware"
	"github.com/jdvalencia/lineup-showdown/models"
)

// SetupRoutes wires every handler onto the router. Viewing endpoints are
// public; anything that mutates team data sits behind the admin group.
func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	formationHandler *handlers.FormationHandler,
	lineupHandler *handlers.LineupHandler,
	backupHandler *handlers.BackupHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/auth/login", authHandler.Login)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{teamID}", teamHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Post("/", teamHandler.Create)
			r.Put("/{teamID}", teamHandler.Update)
			r.Delete("/{teamID}", teamHandler.Delete)
			r.Put("/{teamID}/coach", teamHandler.UpdateCoach)

			r.Post("/{teamID}/players", playerHandler.Add)
			r.Put("/{teamID}/players/{playerID}", playerHandler.Update)
			r.Delete("/{teamID}/players/{playerID}", playerHandler.Delete)
			r.Post("/{teamID}/players/{playerID}/move", playerHandler.Move)
			r.Post("/{teamID}/players/{playerID}/end-loan", playerHandler.EndLoan)
			r.Post("/{teamID}/players/clear-stats", playerHandler.ClearStats)
		})
	})

	router.Route("/formations", func(r chi.Router) {
		r.Get("/", formationHandler.List)
		r.Get("/{key}", formationHandler.Get)
	})

	router.Route("/lineup", func(r chi.Router) {
		r.Get("/", lineupHandler.State)
		r.Get("/eligible", lineupHandler.EligiblePlayers)
		r.Get("/counts", lineupHandler.Counts)
		r.Put("/formation", lineupHandler.SetFormation)
		r.Post("/assign", lineupHandler.Assign)
		r.Post("/clear", lineupHandler.ClearSlot)
		r.Post("/reset", lineupHandler.Reset)
		r.Post("/bench/toggle", lineupHandler.ToggleBench)
	})

	router.Route("/backup", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.Authorize(models.RoleAdmin))

		r.Get("/", backupHandler.Export)
		r.Get("/teams/{teamID}", backupHandler.ExportTeam)
		r.Post("/", backupHandler.Import)
	})

	router.Get("/ws/lineup", webSocketHandler.Subscribe)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Get("/auth/me", authHandler.Me)
	})
}
