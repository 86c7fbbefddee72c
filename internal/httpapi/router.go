package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classtrack/internal/auth"
	"classtrack/internal/config"
	"classtrack/internal/httpmiddleware"
)

// Deps wires the router to the domain services and health probes.
type Deps struct {
	Users        UserService
	Registry     SessionRegistry
	Ledger       AttendanceLedger
	Reports      ReportEngine
	DBHealthy    func(context.Context) bool
	RedisHealthy func(context.Context) bool
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(cfg config.App, deps Deps) *gin.Engine {
	s := &Server{
		users:       deps.Users,
		registry:    deps.Registry,
		ledger:      deps.Ledger,
		reports:     deps.Reports,
		signingKey:  cfg.JWTSigningKey,
		issuer:      cfg.JWTIssuer,
		accessTTL:   cfg.AccessTTL,
		debugErrors: cfg.DebugErrors,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware("/healthz", "/metrics"))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		ctx := c.Request.Context()
		dbHealthy := deps.DBHealthy == nil || deps.DBHealthy(ctx)
		redisHealthy := deps.RedisHealthy == nil || deps.RedisHealthy(ctx)
		status := http.StatusOK
		if !dbHealthy || !redisHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", s.signup)
		authGroup.POST("/login", s.login)
		authGroup.GET("/profile", auth.RequireAuth(cfg.JWTSigningKey, cfg.JWTIssuer), s.profile)
	}

	teacher := r.Group("/teacher",
		auth.RequireAuth(cfg.JWTSigningKey, cfg.JWTIssuer),
		auth.RequireRole(auth.RoleTeacher))
	{
		teacher.POST("/generate-qr", s.generateQR)
		teacher.GET("/classes", s.teacherClasses)
		teacher.GET("/attendance/:classId", s.classAttendance)
		teacher.POST("/attendance/:classId/add-student", s.addStudent)
		teacher.GET("/realtime-attendance", s.realtimeAttendance)
	}

	student := r.Group("/student",
		auth.RequireAuth(cfg.JWTSigningKey, cfg.JWTIssuer),
		auth.RequireRole(auth.RoleStudent))
	{
		student.POST("/mark-attendance", s.markAttendance)
		student.GET("/attendance", s.studentAttendance)
		student.GET("/recent-classes", s.recentClasses)
	}

	admin := r.Group("/admin",
		auth.RequireAuth(cfg.JWTSigningKey, cfg.JWTIssuer),
		auth.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/users", s.listUsers)
		admin.POST("/users", s.createUser)
		admin.PUT("/users/:id", s.updateUser)
		admin.DELETE("/users/:id", s.deleteUser)
		admin.GET("/reports", s.adminReports)
		admin.GET("/dashboard-stats", s.dashboardStats)
	}

	r.NoRoute(func(c *gin.Context) {
		respondFail(c, http.StatusNotFound, "route not found")
	})

	return r
}

// securityHeaders sets baseline browser protections on every response.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// NewHTTPServer wraps the router in an http.Server with the timeouts the
// API runs with in every environment.
func NewHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
