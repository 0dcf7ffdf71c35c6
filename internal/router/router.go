package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/meurdo/meurdo-api/docs"
	"github.com/meurdo/meurdo-api/internal/config"
	"github.com/meurdo/meurdo-api/internal/middleware"
	"github.com/meurdo/meurdo-api/internal/modules/handler"
	"github.com/meurdo/meurdo-api/internal/modules/serializer"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config           *config.Config
	Log              *zap.Logger
	Sessions         middleware.SessionResolver
	RdoHandler       *handler.RdoHandler
	ApprovalHandler  *handler.ApprovalHandler
	SignatureHandler *handler.SignatureHandler
	CatalogHandler   *handler.CatalogHandler
	AccountHandler   *handler.AccountHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	// Initialize logger for serializer package
	serializer.SetLogger(d.Log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Cache-Control"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// share-token routes, opened by the client from WhatsApp without an account
	public := r.Group("/api/v1/public")
	public.Use(middleware.BodyLimit(d.Config.App.MaxBodyBytes))
	{
		rdo := public.Group("/rdo/:token")
		{
			rdo.GET("", d.ApprovalHandler.GetApproval)
			rdo.POST("/approve", d.ApprovalHandler.Approve)
			rdo.POST("/reject", d.ApprovalHandler.Reject)
			rdo.GET("/events", d.ApprovalHandler.Events)
		}
	}

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.UserAuth(d.Config, d.Sessions))

		// ping endpoint
		v1.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "pong"}) })

		v1.GET("/me", d.AccountHandler.GetMe)

		billing := v1.Group("/billing")
		{
			billing.POST("/checkout", d.AccountHandler.Checkout)
			billing.POST("/portal", d.AccountHandler.Portal)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/roles", d.CatalogHandler.ListRoles)
			catalog.GET("/machines", d.CatalogHandler.ListMachines)
		}

		obra := v1.Group("/obras/:obra_id")
		{
			obra.GET("/schedule", d.CatalogHandler.ListSchedule)
			obra.GET("/rdos", d.RdoHandler.ListRdos)

			day := obra.Group("/rdos/:date")
			{
				day.PUT("", d.RdoHandler.SubmitRdo)

				day.GET("/form", d.RdoHandler.GetForm)
				day.POST("/form/copy-previous", d.RdoHandler.CopyPreviousDay)
				day.POST("/form/prefill", d.RdoHandler.Prefill)
				day.POST("/form/attachments", d.RdoHandler.AttachPhoto)
			}
		}

		v1.POST("/signatures", middleware.BodyLimit(d.Config.App.MaxBodyBytes), d.SignatureHandler.SaveSignature)

		rdo := v1.Group("/rdos/:rdo_id")
		{
			rdo.POST("/share", d.RdoHandler.ShareRdo)
			rdo.POST("/resubmit", d.RdoHandler.ResubmitRdo)
			rdo.GET("/history", d.RdoHandler.GetHistory)
		}
	}
	return r
}
