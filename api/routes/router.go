package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rentledger/rentledger-backend/api/controllers"
	"github.com/rentledger/rentledger-backend/api/middleware"
	"github.com/rentledger/rentledger-backend/internal/fees"
	"github.com/rentledger/rentledger-backend/internal/finance"
	"github.com/rentledger/rentledger-backend/internal/leases"
	"github.com/rentledger/rentledger-backend/internal/meters"
	"github.com/rentledger/rentledger-backend/internal/payments"
	"github.com/rentledger/rentledger-backend/internal/settlements"
	"github.com/rentledger/rentledger-backend/pkg/config"
	"github.com/rentledger/rentledger-backend/pkg/db"
	"github.com/rentledger/rentledger-backend/pkg/logger"
	"github.com/rentledger/rentledger-backend/pkg/redis"
)

// Services bundles the wired domain services the router exposes.
type Services struct {
	Fees        *fees.Service
	Leases      *leases.Service
	Meters      *meters.Service
	Settlements *settlements.Service
	Payments    *payments.Service
	Finance     *finance.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})
	r.Get("/healthz", controllers.HealthLive(cfg))

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/properties/{propertyID}", func(r chi.Router) {
			r.Route("/fees", func(r chi.Router) {
				r.Get("/", controllers.FeeList(svcs.Fees, logg))
				r.Post("/", controllers.FeeCreate(svcs.Fees, logg))
				r.Patch("/{feeID}", controllers.FeeUpdate(svcs.Fees, logg))
				r.Post("/{feeID}/deactivate", controllers.FeeDeactivate(svcs.Fees, logg))
			})
			r.Route("/leases", func(r chi.Router) {
				r.Get("/", controllers.LeaseList(svcs.Leases, logg))
				r.Post("/", controllers.LeaseCreate(svcs.Leases, logg))
			})
			r.Route("/meters", func(r chi.Router) {
				r.Get("/", controllers.MeterList(svcs.Meters, logg))
				r.Post("/", controllers.MeterCreate(svcs.Meters, logg))
				r.Patch("/{meterID}", controllers.MeterUpdate(svcs.Meters, logg))
			})
			r.Route("/required-payments", func(r chi.Router) {
				r.Get("/", controllers.RequiredPayments(svcs.Payments, logg))
				r.Post("/generate", controllers.RequiredPaymentsGenerate(svcs.Payments, logg))
			})
			r.Route("/payments", func(r chi.Router) {
				r.Get("/", controllers.PaymentList(svcs.Payments, logg))
				r.Post("/", controllers.PaymentCreate(svcs.Payments, logg))
			})
		})

		r.Patch("/meters/{meterID}/reading", controllers.MeterRollReading(svcs.Meters, logg))
		r.Patch("/payments/{paymentID}/status", controllers.PaymentUpdateStatus(svcs.Payments, logg))

		r.Route("/leases/{leaseID}", func(r chi.Router) {
			r.Post("/settlements", controllers.SettlementCreate(svcs.Settlements, logg))
			r.Get("/settlements", controllers.SettlementList(svcs.Settlements, logg))
			r.Post("/end", controllers.LeaseEnd(svcs.Leases, logg))
			r.Get("/financial-summary", controllers.FinancialSummary(svcs.Finance, logg))
		})

		r.Route("/settlements/{settlementID}", func(r chi.Router) {
			r.Get("/", controllers.SettlementGet(svcs.Settlements, logg))
			r.Delete("/", controllers.SettlementDelete(svcs.Settlements, logg))
			r.Post("/components", controllers.SettlementAddComponent(svcs.Settlements, logg))
			r.Put("/components/{index}", controllers.SettlementUpdateComponent(svcs.Settlements, logg))
			r.Delete("/components/{index}", controllers.SettlementRemoveComponent(svcs.Settlements, logg))
			r.Post("/pay", controllers.SettlementMarkPaid(svcs.Settlements, logg))
			r.Post("/unpay", controllers.SettlementMarkUnpaid(svcs.Settlements, logg))
		})
	})

	return r
}
