package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/festival-api/docs"
	v1 "github.com/vietanh2810/festival-api/internal/api/handler/v1"
	"github.com/vietanh2810/festival-api/internal/api/middleware"
	"github.com/vietanh2810/festival-api/internal/config"
	"github.com/vietanh2810/festival-api/internal/repository"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
	"github.com/vietanh2810/festival-api/internal/service"
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

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	tokenRepo := repository.NewTokenRepository(dao.NewTokenDAO(db))
	festivalRepo := repository.NewFestivalRepository(dao.NewFestivalDAO(db))
	performanceRepo := repository.NewPerformanceRepository(dao.NewPerformanceDAO(db))

	tokenSvc := service.NewTokenService(tokenRepo, userRepo,
		conf.API.JWTSigningKey, time.Duration(conf.API.TokenLifetimeHours)*time.Hour)
	securitySvc := service.NewSecurityService(userRepo, tokenSvc)
	userSvc := service.NewUserService(userRepo, tokenSvc)
	festivalSvc := service.NewFestivalService(festivalRepo, userRepo)
	performanceSvc := service.NewPerformanceService(performanceRepo, festivalRepo, userRepo)

	authenticator := middleware.NewAuthenticator(securitySvc)

	authHandler := v1.NewAuthHandler(userSvc)
	userHandler := v1.NewUserHandler(userSvc)
	festivalHandler := v1.NewFestivalHandler(festivalSvc)
	performanceHandler := v1.NewPerformanceHandler(performanceSvc)
	s.MountHandlers(authenticator, authHandler, userHandler, festivalHandler, performanceHandler)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authenticator *middleware.Authenticator,
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	festivalHandler *v1.FestivalHandler,
	performanceHandler *v1.PerformanceHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/register", authHandler.HandleRegister)
		public.POST("/auth/login", authHandler.HandleLogin)
	}

	// Views accept anonymous callers and degrade to coarse fields.
	views := s.Router.Group(basePath, authenticator.OptionalSession())
	{
		views.GET("/festivals", festivalHandler.HandleSearchFestivals)
		views.GET("/festivals/:festivalID", festivalHandler.HandleGetFestival)
		views.GET("/performances", performanceHandler.HandleSearchPerformances)
		views.GET("/performances/:performanceID", performanceHandler.HandleGetPerformance)
	}

	protected := s.Router.Group(basePath, authenticator.RequireSession())
	{
		protected.POST("/auth/logout", authHandler.HandleLogout)
		protected.PUT("/auth/password", authHandler.HandleUpdatePassword)

		protected.PUT("/users/:username", userHandler.HandleUpdateInfo)
		protected.PUT("/users/:username/status", userHandler.HandleUpdateStatus)
		protected.DELETE("/users/:username", userHandler.HandleDeleteUser)

		protected.POST("/festivals", festivalHandler.HandleCreateFestival)
		protected.PUT("/festivals/:festivalID", festivalHandler.HandleUpdateFestival)
		protected.DELETE("/festivals/:festivalID", festivalHandler.HandleDeleteFestival)
		protected.POST("/festivals/:festivalID/organizers", festivalHandler.HandleAddOrganizers)
		protected.POST("/festivals/:festivalID/staff", festivalHandler.HandleAddStaff)
		protected.POST("/festivals/:festivalID/start-submission", festivalHandler.HandleStartSubmission)
		protected.POST("/festivals/:festivalID/start-assignment", festivalHandler.HandleStartAssignment)
		protected.POST("/festivals/:festivalID/start-review", festivalHandler.HandleStartReview)
		protected.POST("/festivals/:festivalID/start-scheduling", festivalHandler.HandleStartScheduling)
		protected.POST("/festivals/:festivalID/start-final-submission", festivalHandler.HandleStartFinalSubmission)
		protected.POST("/festivals/:festivalID/start-decision", festivalHandler.HandleStartDecision)
		protected.POST("/festivals/:festivalID/announce", festivalHandler.HandleAnnounce)

		protected.POST("/festivals/:festivalID/performances", performanceHandler.HandleCreatePerformance)
		protected.PUT("/performances/:performanceID", performanceHandler.HandleUpdatePerformance)
		protected.DELETE("/performances/:performanceID", performanceHandler.HandleWithdrawPerformance)
		protected.POST("/performances/:performanceID/band-members", performanceHandler.HandleAddBandMember)
		protected.POST("/performances/:performanceID/submit", performanceHandler.HandleSubmitPerformance)
		protected.POST("/performances/:performanceID/stage-manager", performanceHandler.HandleAssignStageManager)
		protected.POST("/performances/:performanceID/review", performanceHandler.HandleReviewPerformance)
		protected.POST("/performances/:performanceID/approve", performanceHandler.HandleApprovePerformance)
		protected.POST("/performances/:performanceID/reject", performanceHandler.HandleRejectPerformance)
		protected.POST("/performances/:performanceID/final-submit", performanceHandler.HandleFinalSubmit)
		protected.POST("/performances/:performanceID/accept", performanceHandler.HandleAcceptPerformance)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Festival Manager API"
	docs.SwaggerInfo.Description = "Festival workflow and authorization service."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
