package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/payment"
	cartrepo "storefront/internal/repository/cart"
	customerrepo "storefront/internal/repository/customer"
	methodrepo "storefront/internal/repository/method"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	shoprepo "storefront/internal/repository/shop"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	voucherrepo "storefront/internal/repository/voucher"
	accountsvc "storefront/internal/service/account"
	addresssvc "storefront/internal/service/address"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	customersvc "storefront/internal/service/customer"
	methodssvc "storefront/internal/service/methods"
	pricingsvc "storefront/internal/service/pricing"
	sessionsvc "storefront/internal/service/session"
	vouchersvc "storefront/internal/service/voucher"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	shopRepo := shoprepo.NewPostgres(dbpool)
	userRepo := userrepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	customerRepo := customerrepo.NewPostgres(dbpool)
	methodRepo := methodrepo.NewPostgres(dbpool)
	voucherRepo := voucherrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)

	sessionService := sessionsvc.New(tokenRepo, userRepo)
	customerService := customersvc.New(customerRepo)
	cartService := cartsvc.New(cartRepo, productRepo)
	voucherService := vouchersvc.New(voucherRepo)
	methodsService := methodssvc.New(methodRepo)
	pricingService := pricingsvc.New(methodsService, voucherService)
	addressService := addresssvc.New(customerRepo)
	accountService := accountsvc.New(userRepo, orderRepo, sessionService, customerService, cartService, accountsvc.LogNotifier{Log: logger})
	checkoutService := checkoutsvc.New(
		shopRepo, customerRepo, customerService, cartService, orderRepo,
		addressService, methodsService, pricingService,
		payment.NewRegistry(), cfg.BaseURL,
	)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Sessions:     sessionService,
		Checkout:     checkoutService,
		Account:      accountService,
		Carts:        cartService,
		Customers:    customerService,
		Addresses:    addressService,
		Shops:        shopRepo,
		CustomerRepo: customerRepo,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
