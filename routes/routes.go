package routes

import (
	"net/http"

	"orvia/admin"
	"orvia/auth"
	"orvia/cart"
	"orvia/catalog"
	"orvia/middleware"
	"orvia/notify"
	"orvia/orders"
	"orvia/pay"
	"orvia/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
}

func AddCatalogRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/products", rl.Limit(catalog.GetProducts))
	router.GET("/api/products/:productid", rl.Limit(catalog.GetProduct))
}

func AddCartRoutes(router *httprouter.Router, svc *cart.CartService) {
	router.GET("/api/cart", middleware.Authenticate(svc.GetCart))
	router.POST("/api/cart", middleware.Authenticate(svc.AddToCart))
	router.DELETE("/api/cart", middleware.Authenticate(svc.ClearCart))
	router.DELETE("/api/cart/:itemid", middleware.Authenticate(svc.RemoveItem))
	router.POST("/api/cart/:itemid/increase", middleware.Authenticate(svc.IncreaseQuantity))
	router.POST("/api/cart/:itemid/decrease", middleware.Authenticate(svc.DecreaseQuantity))
	router.PUT("/api/cart/:itemid/recipient", middleware.Authenticate(svc.UpdateRecipient))

	router.POST("/api/coupons/validate", middleware.Authenticate(cart.ValidateCouponHandler))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, svc *orders.OrderService) {
	router.POST("/api/checkout", rl.Limit(middleware.Authenticate(svc.Checkout)))
	router.POST("/api/payments/:sessionid/confirm", rl.Limit(middleware.Authenticate(pay.Idempotent(svc.ConfirmPayment))))
	router.POST("/api/payments/:sessionid/cancel", rl.Limit(middleware.Authenticate(pay.Idempotent(svc.CancelPayment))))

	router.GET("/api/orders", middleware.Authenticate(svc.ListOrders))
	router.GET("/api/orders/:orderid", middleware.Authenticate(svc.GetOrder))
	router.GET("/api/orders/:orderid/voucher", middleware.Authenticate(svc.PrintVoucher))
}

func AddAdminRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, svc *admin.AdminService) {
	guard := middleware.Chain(rl.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))

	router.POST("/api/admin/products", guard(admin.CreateProduct))
	router.PUT("/api/admin/products/:productid", guard(admin.UpdateProduct))
	router.DELETE("/api/admin/products/:productid", guard(admin.DeleteProduct))
	router.POST("/api/admin/products/:productid/image", guard(admin.UploadProductImage))

	router.POST("/api/admin/stock/:productid/:variantid", guard(admin.UploadCodes))
	router.GET("/api/admin/stock/:productid", guard(admin.GetStock))

	router.GET("/api/admin/orders", guard(svc.ListOrders))
	router.POST("/api/admin/orders/:orderid/refund", guard(svc.RefundOrder))

	router.POST("/api/admin/coupons", guard(svc.CreateCoupon))
}

func AddNotifyRoutes(router *httprouter.Router, hub *notify.Hub) {
	router.GET("/ws/notices", notify.WebSocketHandler(hub))
}
