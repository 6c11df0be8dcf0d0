package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	customerrepo "storefront/internal/repository/customer"
	shoprepo "storefront/internal/repository/shop"
	"storefront/internal/service/account"
	"storefront/internal/service/address"
	cartsvc "storefront/internal/service/cart"
	"storefront/internal/service/checkout"
	customersvc "storefront/internal/service/customer"
	"storefront/internal/service/session"
)

// Deps carries the wired services the handlers need.
type Deps struct {
	Sessions  *session.Service
	Checkout  *checkout.Service
	Account   *account.Service
	Carts     *cartsvc.Service
	Customers *customersvc.Service
	Addresses *address.Service

	Shops        shoprepo.Repository
	CustomerRepo customerrepo.Repository
}

// buildRouter wires routes for the storefront.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "X-Requested-With"},
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	withSession := sessionMiddleware(deps.Sessions)

	co := checkoutHandlers{deps: deps}
	router.GET("/checkout/dispatch", withSession, co.dispatch)
	router.GET("/checkout/login", withSession, co.loginPage)
	router.POST("/checkout/login", withSession, co.login)
	router.GET("/checkout", withSession, co.view)
	router.POST("/checkout", withSession, co.submit)
	router.GET("/checkout/empty", withSession, co.empty)
	router.GET("/checkout/thank-you", withSession, co.thankYou)
	router.POST("/checkout/voucher", withSession, co.voucher)
	router.POST("/checkout/changed", withSession, co.changed)
	router.POST("/checkout/country/invoice", withSession, co.invoiceCountry)
	router.POST("/checkout/country/shipping", withSession, co.shippingCountry)

	ac := accountHandlers{deps: deps}
	router.GET("/login", withSession, ac.loginPage)
	router.POST("/login", withSession, ac.login)
	router.POST("/logout", withSession, ac.logout)

	authed := router.Group("/account", withSession, requireUser())
	authed.GET("", ac.home)
	authed.GET("/orders", ac.orders)
	authed.GET("/orders/:id", ac.order)
	authed.GET("/addresses", ac.addressesPage)
	authed.POST("/addresses", ac.saveAddresses)
	authed.GET("/email", ac.emailPage)
	authed.POST("/email", ac.saveEmail)
	authed.GET("/password", ac.passwordPage)
	authed.POST("/password", ac.savePassword)

	ch := cartHandlers{deps: deps}
	router.GET("/cart", withSession, ch.get)
	router.POST("/cart/items", withSession, ch.addItem)

	return router
}
