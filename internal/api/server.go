package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/Anthon002/NYSCAttendance/internal/api/handler/v1"
	"github.com/Anthon002/NYSCAttendance/internal/api/middleware"
	"github.com/Anthon002/NYSCAttendance/internal/config"
	"github.com/Anthon002/NYSCAttendance/internal/export"
	"github.com/Anthon002/NYSCAttendance/internal/mailer"
	"github.com/Anthon002/NYSCAttendance/internal/repository"
	"github.com/Anthon002/NYSCAttendance/internal/repository/dao"
	"github.com/Anthon002/NYSCAttendance/internal/service"
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

	notifier := s.initNotifier()
	attendanceHandler := s.initAttendanceHandler(db)
	authHandler := s.initAuthHandler(db, notifier)
	locationHandler := s.initLocationHandler(db)
	teamHandler := s.initTeamHandler(db, notifier)
	s.MountHandlers(attendanceHandler, authHandler, locationHandler, teamHandler)

	return s
}

func (s *Server) initNotifier() *service.NotificationService {
	brevo := mailer.NewBrevo(s.Config.Brevo)

	return service.NewNotificationService(brevo, s.Config.API.AppName, s.Config.API.AdminURL)
}

func (s *Server) initAttendanceHandler(db *gorm.DB) *v1.AttendanceHandler {
	attendanceDAO := dao.NewAttendanceDAO(db)
	repo := repository.NewAttendanceRepository(attendanceDAO)
	locRepo := repository.NewLocationRepository(dao.NewLocationDAO(db))
	svc := service.NewAttendanceService(repo, locRepo, export.NewCSVExporter())
	handler := v1.NewAttendanceHandler(svc)

	return handler
}

func (s *Server) initAuthHandler(db *gorm.DB, notifier *service.NotificationService) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo, notifier)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initLocationHandler(db *gorm.DB) *v1.LocationHandler {
	locationDAO := dao.NewLocationDAO(db)
	repo := repository.NewLocationRepository(locationDAO)
	svc := service.NewLocationService(repo)
	handler := v1.NewLocationHandler(svc)

	return handler
}

func (s *Server) initTeamHandler(db *gorm.DB, notifier *service.NotificationService) *v1.TeamHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewTeamService(repo, notifier)
	handler := v1.NewTeamHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(attendanceHandler *v1.AttendanceHandler, authHandler *v1.AuthHandler, locationHandler *v1.LocationHandler, teamHandler *v1.TeamHandler) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/attend/:token", attendanceHandler.HandleCheckIn)
		public.GET("/attend/records/:identifier", attendanceHandler.HandleGetRecord)

		public.POST("/auth/login", authHandler.HandleLogin)
		public.POST("/auth/login/confirm", authHandler.HandleConfirmLogin)
		public.POST("/auth/password-reset", authHandler.HandleInitiatePasswordReset)
		public.POST("/auth/password-reset/complete", authHandler.HandleCompletePasswordReset)
	}

	admin := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		admin.POST("/locations", locationHandler.HandleCreateLocation)
		admin.GET("/locations", locationHandler.HandleListLocations)
		admin.GET("/locations/:locationID", locationHandler.HandleGetLocation)
		admin.PUT("/locations/:locationID", locationHandler.HandleUpdateLocation)

		admin.GET("/locations/:locationID/attendances", attendanceHandler.HandleListAttendances)
		admin.GET("/locations/:locationID/attendances/export", attendanceHandler.HandleExportAttendances)
		admin.POST("/locations/:locationID/attendances/reserve", attendanceHandler.HandleReserveSpot)

		admin.POST("/team", teamHandler.HandleAddTeamMember)
		admin.GET("/team", teamHandler.HandleListTeamMembers)
		admin.PUT("/team/:userID/permissions", teamHandler.HandleUpdatePermissions)
		admin.DELETE("/team/:userID", teamHandler.HandleRemoveTeamMember)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
}
