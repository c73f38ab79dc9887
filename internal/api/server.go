package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/lasoiree/venue-api/docs"
	v1 "github.com/lasoiree/venue-api/internal/api/handler/v1"
	"github.com/lasoiree/venue-api/internal/api/middleware"
	"github.com/lasoiree/venue-api/internal/cache"
	"github.com/lasoiree/venue-api/internal/config"
	"github.com/lasoiree/venue-api/internal/events"
	"github.com/lasoiree/venue-api/internal/metrics"
	"github.com/lasoiree/venue-api/internal/repository"
	"github.com/lasoiree/venue-api/internal/repository/dao"
	"github.com/lasoiree/venue-api/internal/service"
)

// Backends are the optional infrastructure the server publishes to and caches in.
// A nil Redis disables the menu cache; a nil Broker only feeds the websocket hub.
type Backends struct {
	Hub    *events.Hub
	Redis  *redis.Client
	Broker events.Publisher
}

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

type handlers struct {
	auth     *v1.AuthHandler
	user     *v1.UserHandler
	venue    *v1.VenueHandler
	booking  *v1.BookingHandler
	cart     *v1.CartHandler
	presence *v1.PresenceHandler
	events   *v1.EventHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB, backends Backends) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	h, users := s.initHandlers(db, backends)
	s.MountHandlers(h, users)

	return s
}

func (s *Server) initHandlers(db *gorm.DB, backends Backends) (handlers, *service.UserService) {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	venueRepo := repository.NewVenueRepository(dao.NewVenueDAO(db))
	bookingRepo := repository.NewBookingRepository(dao.NewBookingDAO(db))
	presenceRepo := repository.NewPresenceRepository(dao.NewPresenceDAO(db))

	publisher := events.Multi{backends.Hub}
	if backends.Broker != nil {
		publisher = append(publisher, backends.Broker)
	}

	gate := service.NewGate(userRepo)
	userSvc := service.NewUserService(userRepo)
	authSvc := service.NewAuthService(userRepo, userSvc)
	venueSvc := service.NewVenueService(venueRepo, userRepo, gate, cache.NewMenuCache(backends.Redis, s.Config.Redis.MenuTTL))
	bookingSvc := service.NewBookingService(bookingRepo, gate, publisher)
	cartSvc := service.NewCartService(bookingRepo, gate, publisher)
	presenceSvc := service.NewPresenceService(presenceRepo, venueRepo, s.Config.Presence.RadiusMeters, publisher)

	h := handlers{
		auth:     v1.NewAuthHandler(s.Config.API, authSvc),
		user:     v1.NewUserHandler(userSvc),
		venue:    v1.NewVenueHandler(venueSvc),
		booking:  v1.NewBookingHandler(bookingSvc),
		cart:     v1.NewCartHandler(cartSvc),
		presence: v1.NewPresenceHandler(presenceSvc),
		events:   v1.NewEventHandler(venueSvc, backends.Hub, s.Config.API.AllowedCORSDomains),
	}

	return h, userSvc
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(metrics.Middleware())
	s.Router.Use(middleware.Timeout(s.Config.API.RequestTimeout))
}

func (s *Server) MountHandlers(h handlers, users *service.UserService) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", h.auth.HandleSignup)
		auth.POST("/auth/login", h.auth.HandleLogin)
	}

	protected := s.Router.Group(basePath,
		middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT(),
		middleware.ResolveActor(users),
	)
	{
		protected.GET("/users/me", h.user.HandleGetMe)
		protected.GET("/users/me/roles", h.user.HandleListRoles)
		protected.POST("/users/me/owner", h.user.HandleBecomeOwner)

		protected.POST("/venues", h.venue.HandleRegisterVenue)
		protected.GET("/venues/:venueID", h.venue.HandleGetVenue)
		protected.PATCH("/venues/:venueID", h.venue.HandleUpdateVenue)
		protected.POST("/venues/:venueID/managers", h.venue.HandleAppointManager)
		protected.POST("/venues/:venueID/waiters", h.venue.HandleAssignWaiter)
		protected.GET("/venues/:venueID/tables", h.venue.HandleListTables)
		protected.POST("/venues/:venueID/tables", h.venue.HandleAddTable)
		protected.GET("/venues/:venueID/tables/stats", h.venue.HandleTableStats)
		protected.GET("/venues/:venueID/menu", h.venue.HandleListMenu)
		protected.POST("/venues/:venueID/menu", h.venue.HandleAddMenuItem)
		protected.PATCH("/venues/:venueID/menu/:menuItemID", h.venue.HandleUpdateMenuItem)
		protected.GET("/venues/:venueID/offers", h.venue.HandleListOffers)
		protected.POST("/venues/:venueID/offers", h.venue.HandleAddOffer)
		protected.PATCH("/venues/:venueID/offers/:offerID", h.venue.HandleUpdateOffer)
		protected.GET("/venues/:venueID/bookings", h.booking.HandleListVenueBookings)
		protected.GET("/venues/:venueID/events", h.events.HandleVenueEvents)

		protected.POST("/tables/:qrCode/book", h.booking.HandleBookTable)
		protected.POST("/tables/:qrCode/join", h.booking.HandleJoinTable)

		protected.GET("/bookings/:bookingID", h.booking.HandleGetBooking)
		protected.POST("/bookings/:bookingID/accept", h.booking.HandleAcceptBooking)
		protected.POST("/bookings/:bookingID/end", h.booking.HandleEndBooking)
		protected.GET("/bookings/:bookingID/cart", h.cart.HandleGetCart)
		protected.POST("/bookings/:bookingID/cart/items", h.cart.HandleAddCartItem)
		protected.DELETE("/bookings/:bookingID/cart/items/:menuItemID", h.cart.HandleRemoveCartItem)
		protected.GET("/bookings/:bookingID/bill", h.cart.HandleGetBill)

		protected.POST("/presence/check-in", h.presence.HandleCheckIn)
		protected.POST("/presence/location", h.presence.HandleLocationCheck)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "La Soiree venue API"
	docs.SwaggerInfo.Description = "Table booking, shared carts and presence for venues."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
