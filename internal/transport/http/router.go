package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	accountapp "github.com/lumabank/api/internal/application/account"
	budgetapp "github.com/lumabank/api/internal/application/budget"
	cardapp "github.com/lumabank/api/internal/application/card"
	kycapp "github.com/lumabank/api/internal/application/kyc"
	notifapp "github.com/lumabank/api/internal/application/notification"
	sessionapp "github.com/lumabank/api/internal/application/session"
	transferapp "github.com/lumabank/api/internal/application/transfer"
	userapp "github.com/lumabank/api/internal/application/user"
	verificationapp "github.com/lumabank/api/internal/application/verification"
	"github.com/lumabank/api/internal/config"
	"github.com/lumabank/api/internal/domain"
	"github.com/lumabank/api/internal/transport/http/handler"
	appmiddleware "github.com/lumabank/api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Edge routing runs in exactly one of two modes: maintenance rewrites
	// everything to the maintenance page, otherwise unprefixed page paths
	// are redirected to the default locale. API prefixes bypass both.
	if cfg.MaintenanceMode {
		r.Use(appmiddleware.Maintenance(cfg.MaintenancePage, cfg.BypassPrefixes))
	} else {
		r.Use(appmiddleware.Localize(appmiddleware.Locales{
			Supported: cfg.SupportedLocales,
			Default:   cfg.DefaultLocale,
			Bypass:    cfg.BypassPrefixes,
		}))
	}

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	notifSvc := notifapp.NewService(deps.NotificationRepo)
	accountSvc := accountapp.NewService(accountapp.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		BankCountry: cfg.BankCountry,
		BankCode:    cfg.BankCode,
	})
	userSvc := userapp.NewService(userapp.ServiceDeps{
		UserRepo:    deps.UserRepo,
		Accounts:    accountSvc,
		SessionRepo: deps.SessionRepo,
		Locales:     cfg.SupportedLocales,
	})
	sessionSvc := sessionapp.NewService(sessionapp.ServiceDeps{
		SessionRepo:   deps.SessionRepo,
		UserRepo:      deps.UserRepo,
		Signer:        deps.JWTProvider,
		RefreshExpiry: cfg.RefreshTokenExpiry,
	})
	verificationSvc := verificationapp.NewService(verificationapp.ServiceDeps{
		UserRepo: deps.UserRepo,
		Mailer:   deps.Mailer,
		CodeTTL:  cfg.VerificationCodeTTL,
	})
	transferSvc := transferapp.NewService(transferapp.ServiceDeps{
		TransferRepo: deps.TransferRepo,
		AccountRepo:  deps.AccountRepo,
		BudgetRepo:   deps.BudgetRepo,
		Notifier:     notifSvc,
		SMS:          deps.SMSSender,
		UserRepo:     deps.UserRepo,
	})
	cardSvc := cardapp.NewService(cardapp.ServiceDeps{
		CardRepo:    deps.CardRepo,
		AccountRepo: deps.AccountRepo,
		UserRepo:    deps.UserRepo,
	})
	budgetSvc := budgetapp.NewService(deps.BudgetRepo)
	kycSvc := kycapp.NewService(kycapp.ServiceDeps{
		DocumentRepo: deps.KYCDocumentRepo,
		UserRepo:     deps.UserRepo,
		ObjectStore:  deps.S3Store,
		Notifier:     notifSvc,
	})

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(sessionSvc)
	userH := handler.NewUserHandler(userSvc)
	verificationH := handler.NewVerificationHandler(verificationSvc)
	accountH := handler.NewAccountHandler(accountSvc)
	transferH := handler.NewTransferHandler(transferSvc)
	cardH := handler.NewCardHandler(cardSvc)
	budgetH := handler.NewBudgetHandler(budgetSvc)
	kycH := handler.NewKYCHandler(kycSvc)
	notifH := handler.NewNotificationHandler(notifSvc)

	// Target of the maintenance rewrite. Served in both modes so the page
	// stays reachable while the flag is being toggled.
	r.Get(cfg.MaintenancePage, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"service under maintenance"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.Post("/sessions/refresh", sessionH.Refresh)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/users/{id}", userH.Get)
			r.Put("/users/{id}", userH.Update)
			r.Post("/users/me/password", userH.ChangePassword)

			r.With(sensitiveRL.Limit).Post("/verification", verificationH.Issue)
			r.With(sensitiveRL.Limit).Post("/verification/verify", verificationH.Verify)

			r.Post("/accounts", accountH.Open)
			r.Get("/accounts", accountH.List)
			r.Get("/accounts/{id}", accountH.Get)
			r.Delete("/accounts/{id}", accountH.Close)

			r.Post("/transfers", transferH.Create)
			r.Get("/transfers", transferH.List)
			r.Get("/transfers/{id}", transferH.Get)

			r.Post("/cards", cardH.Issue)
			r.Get("/cards", cardH.List)
			r.Put("/cards/{id}", cardH.Update)

			r.Put("/budgets", budgetH.Upsert)
			r.Get("/budgets", budgetH.List)
			r.Delete("/budgets/{category}", budgetH.Delete)

			r.Post("/kyc/documents", kycH.Submit)
			r.Get("/kyc/documents", kycH.ListMine)

			r.Get("/notifications", notifH.ListUnread)
			r.Put("/notifications/{id}", notifH.MarkAsRead)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Delete("/users/{id}", userH.Delete)

				r.Get("/kyc/review", kycH.ListPending)
				r.Get("/kyc/review/{id}/document", kycH.DocumentURL)
				r.Post("/kyc/review/{id}/approve", kycH.Approve)
				r.Post("/kyc/review/{id}/reject", kycH.Reject)
			})
		})
	})

	return r
}
