package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposals-console/internal/config"
	"github.com/ignatzorin/proposals-console/internal/http/handlers"
	"github.com/ignatzorin/proposals-console/internal/http/middleware"
	"github.com/ignatzorin/proposals-console/internal/metrics"
	"github.com/ignatzorin/proposals-console/internal/service"
	"github.com/ignatzorin/proposals-console/internal/session"
	"github.com/ignatzorin/proposals-console/internal/view"
	"github.com/ignatzorin/proposals-console/internal/ws"
)

// Deps всё, что нужно для сборки маршрутов.
type Deps struct {
	Config    *config.Config
	Metrics   *metrics.Metrics
	Sessions  *session.Manager
	Auth      *service.AuthService
	Users     *service.UserService
	Proposals *service.ProposalService
	Hub       *ws.Hub
	Renderer  *view.Renderer

	// Backend и SessionStore проверяются в /health; SessionStore может быть nil.
	Backend      handlers.Pinger
	SessionStore handlers.Pinger
}

// SetupRouter собирает gin engine консоли.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HTMLRender = d.Renderer
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Metrics))
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(d.Backend, d.SessionStore)
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	homeHandler := handlers.NewHomeHandler(d.Sessions)
	authHandler := handlers.NewAuthHandler(d.Auth, d.Users, d.Sessions, d.Hub, d.Metrics, cfg.RegisterEmailDomain)
	userHandler := handlers.NewUserHandler(d.Users, d.Auth, d.Sessions, cfg.RegisterEmailDomain)
	proposalHandler := handlers.NewProposalHandler(d.Proposals, d.Sessions)
	searcher := handlers.NewProposalSearcher(d.Proposals, d.Renderer, d.Metrics)
	searchHandler := handlers.NewSearchHandler(d.Hub, searcher, cfg.SearchDebounce, cfg.AllowedOrigins)

	// Всё ниже видит сессию
	app := r.Group("/")
	app.Use(middleware.LoadSession(d.Sessions, d.Auth))

	app.GET("/", homeHandler.Home)

	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	public := app.Group("/")
	public.Use(authRateLimit)
	{
		public.GET("/login", authHandler.LoginPage)
		public.POST("/login", authHandler.Login)
		public.GET("/register", authHandler.RegisterPage)
		public.POST("/register", authHandler.Register)
	}
	app.POST("/logout", authHandler.Logout)

	protected := app.Group("/")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/users", userHandler.List)

		protected.GET("/proposals", proposalHandler.List)
		protected.GET("/proposals/new", proposalHandler.NewPage)
		protected.POST("/proposals/new", proposalHandler.Create)
		protected.GET("/proposals/:id", middleware.IDValidator("id"), proposalHandler.Detail)
		protected.GET("/proposals/:id/edit", middleware.IDValidator("id"), proposalHandler.Edit)
		protected.POST("/proposals/:id", middleware.IDValidator("id"), proposalHandler.Save)

		protected.GET("/ws/proposals/search", searchHandler.Handle)
	}

	admin := app.Group("/users")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/new", userHandler.NewPage)
		admin.POST("/new", userHandler.Create)
		admin.POST("/:id/disable", middleware.IDValidator("id"), userHandler.Disable)
		admin.POST("/:id/enable", middleware.IDValidator("id"), userHandler.Enable)
	}

	api := app.Group("/api")
	api.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api.Use(middleware.RequireAuth())
	{
		api.GET("/proposals", proposalHandler.APIList)
		api.GET("/proposals/:id", middleware.IDValidator("id"), proposalHandler.APIGet)
		api.GET("/users", userHandler.List)
	}

	r.NoRoute(middleware.LoadSession(d.Sessions, d.Auth), handlers.NotFound)
	return r
}
