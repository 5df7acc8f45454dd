// internal/app/router.go
package app

import (
	authHandler "gymease-service/internal/handlers/auth"
	healthHandler "gymease-service/internal/handlers/health"
	memberHandler "gymease-service/internal/handlers/member"
	productHandler "gymease-service/internal/handlers/product"
	promoHandler "gymease-service/internal/handlers/promo"
	scheduleHandler "gymease-service/internal/handlers/schedule"
	trainerHandler "gymease-service/internal/handlers/trainer"
	transactionHandler "gymease-service/internal/handlers/transaction"
	wsHandler "gymease-service/internal/handlers/websocket"
	"gymease-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler        *authHandler.AuthHandler
	MemberHandler      *memberHandler.MemberHandler
	ProductHandler     *productHandler.ProductHandler
	PromoHandler       *promoHandler.PromoHandler
	TrainerHandler     *trainerHandler.TrainerHandler
	ScheduleHandler    *scheduleHandler.ScheduleHandler
	TransactionHandler *transactionHandler.TransactionHandler
	WSHandler          *wsHandler.WebSocketHandler
	HealthHandler      *healthHandler.HealthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	PublicLimiter      *middleware.IPRateLimiter
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")
	auth := h.AuthMiddleware
	staff := auth.StaffOnly()
	throttle := h.PublicLimiter.Middleware()

	// ==================== Health Check ====================
	api.GET("/health", h.HealthHandler.Health)

	// ==================== WebSocket ====================
	r.GET("/ws/transaksi/:id_transaksi", h.WSHandler.WatchTransaction)

	// ==================== Auth ====================
	api.POST("/auth/token", throttle, h.AuthHandler.Login)
	api.POST("/user", throttle, auth.OptionalAuth(), h.AuthHandler.Register)

	authProtected := api.Group("/auth")
	authProtected.Use(auth.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.POST("/logout_all", h.AuthHandler.LogoutAll)
		authProtected.GET("/me", h.AuthHandler.GetMe)
	}

	// ==================== Members (staff) ====================
	members := api.Group("/members")
	members.Use(staff...)
	{
		members.GET("", h.MemberHandler.ListMembers)
		members.POST("", h.MemberHandler.CreateMember)
		members.GET("/statistics", h.MemberHandler.Statistics)
		members.GET("/:id", h.MemberHandler.GetMember)
		members.PUT("/:id", h.MemberHandler.UpdateMember)
		members.PATCH("/:id", h.MemberHandler.UpdateMember)
		members.DELETE("/:id", h.MemberHandler.DeleteMember)
		members.GET("/:id/membership_status", h.MemberHandler.MembershipStatus)
		members.GET("/:id/history", h.MemberHandler.MembershipHistory)
	}

	// ==================== Packages ====================
	produk := api.Group("/produk")
	{
		produk.GET("", auth.OptionalAuth(), h.ProductHandler.ListPackages)
		produk.GET("/:id", h.ProductHandler.GetPackage)

		produkStaff := produk.Group("")
		produkStaff.Use(staff...)
		{
			produkStaff.POST("", h.ProductHandler.CreatePackage)
			produkStaff.PUT("/:id", h.ProductHandler.UpdatePackage)
			produkStaff.PATCH("/:id", h.ProductHandler.UpdatePackage)
			produkStaff.DELETE("/:id", h.ProductHandler.DeletePackage)
		}
	}

	// ==================== Promos ====================
	promos := api.Group("/promos")
	{
		promos.GET("", h.PromoHandler.ListPromos)
		promos.GET("/active_promos", h.PromoHandler.ActivePromos)
		promos.GET("/statistics", h.PromoHandler.Statistics)
		promos.GET("/:id", h.PromoHandler.GetPromo)
		promos.GET("/:id/preview", h.PromoHandler.Preview)

		promosStaff := promos.Group("")
		promosStaff.Use(staff...)
		{
			promosStaff.POST("", h.PromoHandler.CreatePromo)
			promosStaff.PUT("/:id", h.PromoHandler.UpdatePromo)
			promosStaff.PATCH("/:id", h.PromoHandler.UpdatePromo)
			promosStaff.PATCH("/:id/toggle", h.PromoHandler.TogglePromo)
			promosStaff.DELETE("/:id", h.PromoHandler.DeletePromo)
		}
	}

	// ==================== Personal Trainers ====================
	trainers := api.Group("/personal-trainers")
	{
		trainers.GET("", auth.OptionalAuth(), h.TrainerHandler.ListTrainers)
		trainers.GET("/:id", h.TrainerHandler.GetTrainer)

		trainersStaff := trainers.Group("")
		trainersStaff.Use(staff...)
		{
			trainersStaff.POST("", h.TrainerHandler.CreateTrainer)
			trainersStaff.PUT("/:id", h.TrainerHandler.UpdateTrainer)
			trainersStaff.PATCH("/:id", h.TrainerHandler.UpdateTrainer)
			trainersStaff.DELETE("/:id", h.TrainerHandler.DeleteTrainer)
		}
	}

	// ==================== Trainer Slots ====================
	slots := api.Group("/jadwal-pt")
	{
		slots.GET("", h.ScheduleHandler.ListSlots)
		slots.GET("/available_slots", h.ScheduleHandler.AvailableSlots)
		slots.GET("/:id", h.ScheduleHandler.GetSlot)

		slotsStaff := slots.Group("")
		slotsStaff.Use(staff...)
		{
			slotsStaff.POST("", h.ScheduleHandler.CreateSlot)
			slotsStaff.PUT("/:id", h.ScheduleHandler.UpdateSlot)
			slotsStaff.PATCH("/:id", h.ScheduleHandler.UpdateSlot)
			slotsStaff.DELETE("/:id", h.ScheduleHandler.DeleteSlot)
		}
	}

	// ==================== PT Sessions ====================
	sessions := api.Group("/pt-sessions")
	sessions.Use(auth.Auth())
	{
		sessions.GET("", h.ScheduleHandler.ListSessions)
		sessions.POST("", h.ScheduleHandler.BookSession)
		sessions.GET("/today", h.ScheduleHandler.TodaySessions)
		sessions.GET("/:id", h.ScheduleHandler.GetSession)
		sessions.POST("/:id/cancel", h.ScheduleHandler.CancelSession)
		sessions.POST("/:id/complete", auth.RequireStaff(), h.ScheduleHandler.CompleteSession)
	}

	// ==================== Transactions ====================
	transaksi := api.Group("/transaksi")
	transaksi.Use(auth.Auth())
	{
		transaksi.POST("", throttle, h.TransactionHandler.Checkout)
		transaksi.GET("", h.TransactionHandler.ListTransactions)
		transaksi.GET("/statistics", auth.RequireStaff(), h.TransactionHandler.Statistics)
		transaksi.POST("/:id_transaksi/confirm_payment", auth.RequireStaff(), h.TransactionHandler.ConfirmPayment)
		transaksi.POST("/:id_transaksi/check_payment", h.TransactionHandler.CheckPayment)
		transaksi.POST("/:id_transaksi/cancel", h.TransactionHandler.CancelTransaction)
	}
	api.GET("/transaksi-detail/:id_transaksi", auth.Auth(), h.TransactionHandler.GetTransaction)

	// ==================== Payment Gateway ====================
	api.POST("/payments/qr/callback", throttle, h.TransactionHandler.PaymentCallback)
}
