//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/MaxCernyAlbert/supdopece-cz/internal/auth"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/cache"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/catalog"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/config"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/notify"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/schedule"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/storage"
)

type Storage interface {
	AddOrder(ctx context.Context, order storage.Order) (storage.Order, error)
	GetOrder(ctx context.Context, orderID string) (*storage.Order, error)
	ListOrders(ctx context.Context) ([]storage.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]storage.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status storage.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, orderID string, status storage.PaymentStatus) error
	GetOrderHistory(ctx context.Context, orderID string) ([]storage.HistoryEntry, error)
	AddCustomer(ctx context.Context, customer storage.Customer) error
	GetCustomerByToken(ctx context.Context, token string) (*storage.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*storage.Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (*storage.Customer, error)
	ListCustomers(ctx context.Context) ([]storage.Customer, error)
	SaveSMSCode(ctx context.Context, code storage.SMSCode) error
	ConsumeSMSCode(ctx context.Context, phone, code string) error
}

type Options struct {
	Storage  Storage
	Catalog  *catalog.Catalog
	Schedule *schedule.Schedule
	Cache    *cache.OrderCache
	SMS      notify.SMSSender
	Email    notify.EmailSender
	Admin    auth.Admin
	Payment  config.Payment
	Audit    *AuditManager
	Logger   *zap.Logger

	BaseURL       string
	ShopName      string
	MinOrderValue int

	// Now is the injected clock; every availability decision reads
	// it exactly once per request.
	Now func() time.Time
}

type Server struct {
	opts   Options
	server *http.Server
}

func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{opts: opts}
}

func (s *Server) Run(ctx context.Context, port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	if s.opts.Audit != nil {
		s.opts.Audit.Start(ctx)
	}

	s.opts.Logger.Info("server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.opts.Logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	if s.opts.Audit != nil {
		s.opts.Audit.Shutdown(ctx)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.auditMiddleware)
	api.HandleFunc("/availability/dates", s.handleAvailableDates).Methods(http.MethodGet)
	api.HandleFunc("/availability/slots", s.handleTimeSlots).Methods(http.MethodGet)
	api.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	api.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/customers", s.handleRegisterCustomer).Methods(http.MethodPost)
	api.HandleFunc("/customers/{token}", s.handleGetCustomer).Methods(http.MethodGet)
	api.HandleFunc("/auth/sms", s.handleSMSLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/sms/verify", s.handleSMSVerify).Methods(http.MethodPost)
	api.HandleFunc("/auth/magic-link", s.handleMagicLink).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(s.adminAuthMiddleware, s.auditMiddleware)
	admin.HandleFunc("/orders", s.handleAdminListOrders).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{id}/status", s.handleUpdateOrderStatus).Methods(http.MethodPut)
	admin.HandleFunc("/orders/{id}/payment", s.handleUpdatePaymentStatus).Methods(http.MethodPut)
	admin.HandleFunc("/orders/{id}/history", s.handleOrderHistory).Methods(http.MethodGet)
	admin.HandleFunc("/customers", s.handleAdminListCustomers).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
