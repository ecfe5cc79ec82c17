package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/onetoc/onetoc-backend/handlers"
	"github.com/onetoc/onetoc-backend/middleware"
	"github.com/onetoc/onetoc-backend/models"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Team      *handlers.TeamHandler
	Player    *handlers.PlayerHandler
	Action    *handlers.ActionHandler
	Match     *handlers.MatchHandler
	Event     *handlers.EventHandler
	MatchInfo *handlers.MatchInfoHandler
	Lineup    *handlers.LineupHandler
	Timer     *handlers.TimerHandler
	WebSocket *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/api", func(r chi.Router) {
		// Публичные маршруты аутентификации
		r.Post("/register", h.Auth.Register)
		r.Post("/token", h.Auth.Token)
		r.Post("/token/refresh", h.Auth.Refresh)

		// Всё остальное за access-токеном
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Get("/me", h.Auth.Me)

			r.Route("/club", func(r chi.Router) {
				r.Get("/", h.Team.ListClubs)

				// Клубы заводит только администратор
				r.With(middleware.RequireRole(string(models.RoleAdmin))).
					Post("/", h.Team.CreateClub)
			})

			r.Route("/team", func(r chi.Router) {
				r.Get("/", h.Team.ListTeams)
				r.Post("/", h.Team.CreateTeam)
				r.Get("/{teamID}", h.Team.GetTeam)
			})

			r.Route("/player", func(r chi.Router) {
				r.Get("/", h.Player.ListByTeam)
				r.Post("/", h.Player.Create)
				r.Patch("/{playerID}", h.Player.Update)
				r.Delete("/{playerID}", h.Player.Delete)
			})

			r.Route("/action", func(r chi.Router) {
				r.Get("/", h.Action.ListByTeam)
				r.Post("/", h.Action.Create)
				r.Patch("/{actionID}", h.Action.Update)
				r.Delete("/{actionID}", h.Action.Delete)
			})

			r.Route("/match", func(r chi.Router) {
				r.Get("/", h.Match.ListByTeam)
				r.Post("/", h.Match.Create)

				r.Route("/{matchID}", func(r chi.Router) {
					r.Get("/", h.Match.Get)
					r.Patch("/", h.Match.Update)
					r.Get("/overview", h.Match.Overview)
					r.Post("/video", h.Match.UploadVideo)
					r.Delete("/video", h.Match.DeleteVideo)

					r.Route("/lineup", func(r chi.Router) {
						r.Get("/", h.Lineup.Get)
						r.Put("/", h.Lineup.Set)
						r.Post("/move", h.Lineup.Move)
					})

					r.Route("/timer", func(r chi.Router) {
						r.Get("/", h.Timer.Get)
						r.Post("/toggle", h.Timer.Toggle)
						r.Post("/reset", h.Timer.Reset)
					})
				})
			})

			r.Route("/event", func(r chi.Router) {
				r.Get("/", h.Event.ListLog)
				r.Get("/feed", h.Event.ListFeed)
				r.Post("/", h.Event.Record)
				r.Patch("/", h.Event.AdjustAll)
				r.Patch("/{eventID}", h.Event.Patch)
			})

			r.Route("/matchInfo", func(r chi.Router) {
				r.Get("/", h.MatchInfo.GetByMatch)
				r.Patch("/{infoID}", h.MatchInfo.UpdateCounters)
			})
		})
	})

	// Подписка на live-обновления матча. Браузерный WebSocket не умеет
	// ставить заголовок Authorization, поэтому маршрут вне JWT-группы.
	router.Get("/ws/match/{matchID}", h.WebSocket.Subscribe)

	return router
}
