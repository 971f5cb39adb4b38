package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/cueclub/venue-api/docs"
	v1 "github.com/cueclub/venue-api/internal/api/handler/v1"
	"github.com/cueclub/venue-api/internal/api/middleware"
	"github.com/cueclub/venue-api/internal/config"
	"github.com/cueclub/venue-api/internal/repository"
	"github.com/cueclub/venue-api/internal/repository/dao"
	"github.com/cueclub/venue-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	sessionHandler := s.initSessionHandler(db)
	tableHandler := s.initTableHandler(db)
	memberHandler := s.initMemberHandler(db)
	shiftHandler := s.initShiftHandler(db)
	s.MountHandlers(authHandler, sessionHandler, tableHandler, memberHandler, shiftHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserService(db *gorm.DB) *service.UserService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewUserService(repo)
}

func (s *Server) initShiftService(db *gorm.DB) *service.ShiftService {
	shiftDAO := dao.NewShiftDAO(db)
	repo := repository.NewShiftRepository(shiftDAO)

	return service.NewShiftService(repo)
}

func (s *Server) initSessionHandler(db *gorm.DB) *v1.SessionHandler {
	tableRepo := repository.NewTableRepository(dao.NewTableDAO(db))
	memberRepo := repository.NewMemberRepository(dao.NewMemberDAO(db))
	productRepo := repository.NewProductRepository(dao.NewProductDAO(db))
	sessionRepo := repository.NewSessionRepository(dao.NewSessionDAO(db), dao.NewSaleDAO(db), tableRepo)
	svc := service.NewSessionService(sessionRepo, tableRepo, memberRepo, productRepo, s.initShiftService(db))
	handler := v1.NewSessionHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) initTableHandler(db *gorm.DB) *v1.TableHandler {
	repo := repository.NewTableRepository(dao.NewTableDAO(db))
	svc := service.NewTableService(repo)
	handler := v1.NewTableHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) initMemberHandler(db *gorm.DB) *v1.MemberHandler {
	repo := repository.NewMemberRepository(dao.NewMemberDAO(db))
	svc := service.NewMemberService(repo, s.initShiftService(db))
	handler := v1.NewMemberHandler(svc)

	return handler
}

func (s *Server) initShiftHandler(db *gorm.DB) *v1.ShiftHandler {
	svc := s.initShiftService(db)
	handler := v1.NewShiftHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, sessionHandler *v1.SessionHandler, tableHandler *v1.TableHandler, memberHandler *v1.MemberHandler, shiftHandler *v1.ShiftHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	protected := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		protected.GET("/tables", tableHandler.HandleListTables)
		protected.POST("/tables", tableHandler.HandleCreateTable)
		protected.PUT("/tables/:tableID", tableHandler.HandleUpdateTable)
		protected.POST("/tables/:tableID/sessions", sessionHandler.HandleOpenSession)

		protected.GET("/sessions/:sessionID", sessionHandler.HandleGetSession)
		protected.POST("/sessions/:sessionID/players", sessionHandler.HandleJoinSession)
		protected.POST("/sessions/:sessionID/players/:playerID/leave", sessionHandler.HandleLeaveSession)
		protected.POST("/sessions/:sessionID/consumptions", sessionHandler.HandleAddConsumption)
		protected.GET("/sessions/:sessionID/preview", sessionHandler.HandlePreviewCost)
		protected.POST("/sessions/:sessionID/close", sessionHandler.HandleCloseSession)
		protected.PUT("/sessions/:sessionID/game-state", sessionHandler.HandleUpdateGameState)

		protected.GET("/members", memberHandler.HandleListMembers)
		protected.GET("/members/:memberID", memberHandler.HandleGetMember)
		protected.POST("/members/:memberID/debt-payments", memberHandler.HandlePayDebt)

		protected.POST("/shifts/open", shiftHandler.HandleOpenShift)
		protected.POST("/shifts/current/close", shiftHandler.HandleCloseShift)
		protected.GET("/shifts/current", shiftHandler.HandleCurrentShift)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Venue Table-Session Billing API"
	docs.SwaggerInfo.Description = "Table sessions, two-tier billing, consumption ledger and settlement."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
