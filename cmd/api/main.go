package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "github.com/brandonreed984/safeguard-deal-sheet/internal/adapter/http"
	"github.com/brandonreed984/safeguard-deal-sheet/internal/adapter/middleware"
	"github.com/brandonreed984/safeguard-deal-sheet/internal/adapter/repository/gormdb"
	"github.com/brandonreed984/safeguard-deal-sheet/internal/config"
	dealDomain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/deal"
	portfolioDomain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/portfolio"
	"github.com/brandonreed984/safeguard-deal-sheet/internal/infrastructure/cache"
	"github.com/brandonreed984/safeguard-deal-sheet/internal/infrastructure/db"
	"github.com/brandonreed984/safeguard-deal-sheet/internal/infrastructure/storage"
	"github.com/brandonreed984/safeguard-deal-sheet/internal/render"
	dealUC "github.com/brandonreed984/safeguard-deal-sheet/internal/usecase/deal"
	portfolioUC "github.com/brandonreed984/safeguard-deal-sheet/internal/usecase/portfolio"
)

func main() {
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("open database")
	}
	if err := gdb.AutoMigrate(&dealDomain.Deal{}, &portfolioDomain.PortfolioReview{}); err != nil {
		logrus.WithError(err).Fatal("migrate schema")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logrus.WithError(err).Fatal("open redis")
	}

	files, err := storage.NewFileStore(cfg.StorageDir)
	if err != nil {
		logrus.WithError(err).Fatal("open storage dir")
	}

	deals := dealUC.NewUsecase(gormdb.NewDealRepository(gdb))
	portfolios := portfolioUC.NewUsecase(gormdb.NewPortfolioRepository(gdb))
	renderer := render.New(render.NewChromeEngine())
	sessions := middleware.NewRedisSessions(rdb)
	sessionTTL := time.Duration(cfg.SessionTTLSecs) * time.Second

	h := httpadp.NewHandler()
	dealH := httpadp.NewDealHandler(deals)
	portfolioH := httpadp.NewPortfolioHandler(portfolios)
	docH := httpadp.NewDocumentHandler(deals, portfolios, renderer, files)
	authH := httpadp.NewAuthHandler(sessions, cfg.AdminUser, cfg.AdminPass, sessionTTL)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)
	e.POST("/login", authH.Login)

	auth := e.Group("", middleware.RequireSession(sessions))
	auth.POST("/logout", authH.Logout)
	auth.GET("/check-auth", authH.CheckAuth)

	auth.POST("/api/deals", dealH.Create)
	auth.GET("/api/deals", dealH.List)
	auth.GET("/api/deals/:id", dealH.Get)
	auth.PUT("/api/deals/:id", dealH.Update)
	auth.DELETE("/api/deals/:id", dealH.Delete)
	auth.PATCH("/api/deals/:id/archive", dealH.Archive)

	auth.POST("/api/portfolios", portfolioH.Create)
	auth.GET("/api/portfolios", portfolioH.List)
	auth.GET("/api/portfolios/:id", portfolioH.Get)
	auth.PUT("/api/portfolios/:id", portfolioH.Update)
	auth.DELETE("/api/portfolios/:id", portfolioH.Delete)
	auth.PATCH("/api/portfolios/:id/archive", portfolioH.Archive)
	auth.POST("/api/portfolios/import", portfolioH.Import)

	auth.POST("/api/generate-pdf/:id", docH.GenerateDealPDF)
	auth.POST("/api/generate-portfolio-pdf/:id", docH.GeneratePortfolioPDF)
	auth.GET("/api/deals/:id/engagement-agreement", docH.EngagementAgreement)
	auth.POST("/api/pdfs", docH.UploadPDF)
	auth.GET("/api/pdfs", docH.ListPDFs)

	addr := ":" + cfg.AppPort
	logrus.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
