package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "invoicefin/docs" // registers the swagger spec
	"invoicefin/internal/handler"
	"invoicefin/internal/middleware"
	"invoicefin/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Ledger     *handler.LedgerHandler
	Settlement *handler.SettlementHandler
	Async      *handler.AsyncHandler
	Hub        *handler.HubHandler
	Health     *handler.HealthHandler
}

// Services groups the services the middleware chain calls.
type Services struct {
	Signatures  service.SignatureService
	RequestLogs service.RequestLogService
	HubLogs     service.RequestLogService
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(svc Services, h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Merchant routes - signed body, logged under the merchant requestId
	merchant := v1.Group("")
	merchant.Use(middleware.MerchantSignature(svc.Signatures))
	merchant.Use(middleware.RequestLog(svc.RequestLogs))

	ledgers := merchant.Group("/ledgers")
	ledgers.POST("", h.Ledger.Register)
	ledgers.POST("/status", h.Ledger.Status)
	ledgers.POST("/finance", h.Ledger.Finance)
	ledgers.POST("/cancel", h.Ledger.Cancel)

	invoices := merchant.Group("/invoices")
	invoices.POST("/disburse", h.Settlement.Disburse)
	invoices.POST("/repay", h.Settlement.Repay)

	async := merchant.Group("/async")
	async.POST("/registration", h.Async.Registration)
	async.POST("/ledger-status", h.Async.LedgerStatus)
	async.POST("/financing", h.Async.Financing)
	async.POST("/disbursement", h.Async.Disbursement)
	async.POST("/repayment", h.Async.Repayment)
	async.POST("/gsp-verification", h.Async.GSPVerification)

	// Hub callbacks - hub signature, logged under the hub requestId
	hub := v1.Group("/hub")
	hub.Use(middleware.HubSignature(svc.Signatures, svc.HubLogs))
	hub.POST("/financing", h.Hub.Financing)
	hub.POST("/disbursement", h.Hub.Disbursement)
	hub.POST("/repayment", h.Hub.Repayment)

	return r
}
