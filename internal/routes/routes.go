package routes

import (
	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"treasury-clearing-backend/internal/events"
	handler "treasury-clearing-backend/internal/handlers"
	"treasury-clearing-backend/internal/repository"
	"treasury-clearing-backend/internal/services/matching"
	"treasury-clearing-backend/internal/services/reconciliation"
	"treasury-clearing-backend/internal/services/treasury"
	"treasury-clearing-backend/internal/services/voucher"
)

type Deps struct {
	DB           *gorm.DB
	Log          *logrus.Logger
	Publisher    events.Publisher
	Locker       *redislock.Client
	EnforceFloor bool
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	store := repository.NewGormStore(deps.DB)

	treasuryService := treasury.NewService(store, deps.Log, deps.EnforceFloor)
	voucherService := voucher.NewService(store, treasuryService, deps.Publisher, deps.Log)
	reconService := reconciliation.NewService(store, matching.GreedyExact{}, deps.Publisher, deps.Locker, deps.Log)

	treasuryHandler := handler.NewTreasuryHandler(treasuryService)
	voucherHandler := handler.NewVoucherHandler(voucherService)
	reconHandler := handler.NewReconciliationHandler(reconService)

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	treasuries := api.Group("/treasuries")
	treasuries.POST("", treasuryHandler.Create)
	treasuries.GET("", treasuryHandler.List)
	treasuries.GET("/:id", treasuryHandler.Get)
	treasuries.POST("/:id/adjust-balance", treasuryHandler.AdjustBalance)

	payments := api.Group("/payment-vouchers")
	payments.POST("", voucherHandler.CreatePayment)
	payments.GET("", voucherHandler.ListPayments)
	payments.GET("/:id", voucherHandler.GetPayment)
	payments.PUT("/:id", voucherHandler.UpdatePayment)
	payments.POST("/:id/confirm", voucherHandler.ConfirmPayment)
	payments.DELETE("/:id", voucherHandler.DeletePayment)

	receipts := api.Group("/receipt-vouchers")
	receipts.POST("", voucherHandler.CreateReceipt)
	receipts.GET("", voucherHandler.ListReceipts)
	receipts.GET("/:id", voucherHandler.GetReceipt)
	receipts.PUT("/:id", voucherHandler.UpdateReceipt)
	receipts.POST("/:id/confirm", voucherHandler.ConfirmReceipt)
	receipts.DELETE("/:id", voucherHandler.DeleteReceipt)

	api.POST("/transfers", voucherHandler.CreateTransfer)

	intermediaries := api.Group("/intermediaries")
	intermediaries.POST("", voucherHandler.CreateIntermediary)
	intermediaries.GET("", voucherHandler.ListIntermediaries)
	intermediaries.GET("/:id", voucherHandler.GetIntermediary)

	recon := api.Group("/reconciliations")
	recon.POST("/auto-match", reconHandler.AutoMatch)
	recon.GET("", reconHandler.List)
	recon.GET("/:id", reconHandler.Get)
	recon.POST("/:id/confirm", reconHandler.Confirm)
	recon.POST("/:id/reject", reconHandler.Reject)
}
