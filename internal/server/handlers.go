package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/MaxCernyAlbert/supdopece-cz/internal/auth"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/catalog"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/metrics"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/payment"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/schedule"
	"github.com/MaxCernyAlbert/supdopece-cz/internal/storage"
)

const dateLayout = "2006-01-02"

func (s *Server) handleAvailableDates(w http.ResponseWriter, r *http.Request) {
	metrics.AvailabilityRequestsTotal.WithLabelValues("dates").Inc()

	dates := s.opts.Schedule.AvailableDates(s.opts.Now())
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	respondJSON(w, http.StatusOK, map[string][]string{"dates": out})
}

func (s *Server) handleTimeSlots(w http.ResponseWriter, r *http.Request) {
	metrics.AvailabilityRequestsTotal.WithLabelValues("slots").Inc()

	raw := r.URL.Query().Get("date")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "Missing 'date' parameter")
		return
	}
	date, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	slots := s.opts.Schedule.TimeSlots(s.opts.Now(), date)
	if slots == nil {
		slots = []schedule.TimeRange{}
	}
	respondJSON(w, http.StatusOK, map[string][]schedule.TimeRange{"slots": slots})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	var products []catalog.Product
	if category := r.URL.Query().Get("category"); category != "" {
		products = s.opts.Catalog.ByCategory(catalog.Category(category))
	} else {
		products = s.opts.Catalog.All()
	}

	if r.URL.Query().Get("all") != "true" {
		available := products[:0]
		for _, p := range products {
			if p.Available {
				available = append(available, p)
			}
		}
		products = available
	}
	if products == nil {
		products = []catalog.Product{}
	}
	respondJSON(w, http.StatusOK, map[string][]catalog.Product{"products": products})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
		PickupDate    string                `json:"pickup_date"`
		PickupSlot    string                `json:"pickup_slot"`
		Name          string                `json:"name"`
		Email         string                `json:"email"`
		Phone         string                `json:"phone"`
		Note          string                `json:"note"`
		PaymentMethod storage.PaymentMethod `json:"payment_method"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "Order has no items")
		return
	}
	if req.Name == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Missing customer name or email")
		return
	}
	if !storage.ValidPaymentMethod(req.PaymentMethod) {
		respondError(w, http.StatusBadRequest, "Unknown payment method")
		return
	}

	items := make([]storage.OrderItem, 0, len(req.Items))
	total := 0
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			respondError(w, http.StatusBadRequest, "Item quantity must be positive")
			return
		}
		product, ok := s.opts.Catalog.Get(it.ProductID)
		if !ok {
			respondError(w, http.StatusBadRequest, "Unknown product: "+it.ProductID)
			return
		}
		if !product.Available {
			respondError(w, http.StatusBadRequest, "Product not available: "+it.ProductID)
			return
		}
		items = append(items, storage.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  it.Quantity,
		})
		total += product.Price * it.Quantity
	}
	if total < s.opts.MinOrderValue {
		respondError(w, http.StatusBadRequest, "Order below minimum value")
		return
	}

	date, err := time.ParseInLocation(dateLayout, req.PickupDate, time.Local)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pickup date. Use YYYY-MM-DD")
		return
	}

	now := s.opts.Now()
	if !s.opts.Schedule.CanOrderForDate(now, date) {
		respondError(w, http.StatusBadRequest, "Ordering for this date is closed")
		return
	}
	if !slotOffered(s.opts.Schedule.TimeSlots(now, date), req.PickupSlot) {
		respondError(w, http.StatusBadRequest, "Pickup slot not available")
		return
	}

	order := storage.Order{
		ID:            uuid.NewString(),
		Items:         items,
		TotalPrice:    total,
		PickupDate:    req.PickupDate,
		PickupSlot:    req.PickupSlot,
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
		CustomerPhone: req.Phone,
		Note:          req.Note,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: storage.PaymentPending,
		Status:        storage.StatusNew,
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}

	created, err := s.opts.Storage.AddOrder(r.Context(), order)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_order").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}
	if s.opts.Cache != nil {
		s.opts.Cache.Set(created)
	}
	metrics.OrdersCreatedTotal.Inc()

	resp := struct {
		Order     storage.Order `json:"order"`
		QRPayment string        `json:"qr_payment,omitempty"`
	}{Order: created}

	if created.PaymentMethod == storage.PayQR {
		resp.QRPayment = payment.QRPayment{
			IBAN:           s.opts.Payment.IBAN,
			AmountCZK:      created.TotalPrice,
			VariableSymbol: created.Number,
			Message:        s.opts.Payment.Message,
		}.String()
	}

	respondJSON(w, http.StatusCreated, resp)
}

func slotOffered(slots []schedule.TimeRange, want string) bool {
	for _, slot := range slots {
		if slot.String() == want {
			return true
		}
	}
	return false
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	if s.opts.Cache != nil {
		if order, found := s.opts.Cache.Get(orderID); found {
			respondJSON(w, http.StatusOK, order)
			return
		}
	}

	order, err := s.opts.Storage.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		metrics.OperationErrorsTotal.WithLabelValues("get_order").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to load order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (s *Server) handleRegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Missing name or email")
		return
	}

	customer := storage.Customer{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Token:     auth.NewToken(),
		CreatedAt: s.opts.Now().UTC(),
	}

	if err := s.opts.Storage.AddCustomer(r.Context(), customer); err != nil {
		if errors.Is(err, storage.ErrCustomerExists) {
			respondError(w, http.StatusConflict, "Customer already registered")
			return
		}
		metrics.OperationErrorsTotal.WithLabelValues("register_customer").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to register customer")
		return
	}

	// Welcome email is best effort; the account exists either way.
	link := auth.MagicLink(s.opts.BaseURL, customer.Token)
	if err := s.opts.Email.Send(r.Context(), customer.Email,
		"Vítejte v "+s.opts.ShopName, "Váš přihlašovací odkaz: "+link); err != nil {
		s.opts.Logger.Warn("welcome email failed", zap.String("email", customer.Email), zap.Error(err))
	}

	respondJSON(w, http.StatusCreated, map[string]string{"token": customer.Token})
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	customer, err := s.opts.Storage.GetCustomerByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, storage.ErrCustomerNotFound) {
			respondError(w, http.StatusNotFound, "Customer not found")
			return
		}
		metrics.OperationErrorsTotal.WithLabelValues("get_customer").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to load customer")
		return
	}

	orders, err := s.opts.Storage.ListOrdersByEmail(r.Context(), customer.Email)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("get_customer").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	if orders == nil {
		orders = []storage.Order{}
	}

	respondJSON(w, http.StatusOK, struct {
		Customer storage.Customer `json:"customer"`
		Orders   []storage.Order  `json:"orders"`
	}{Customer: *customer, Orders: orders})
}

func (s *Server) handleSMSLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		respondError(w, http.StatusBadRequest, "Missing phone number")
		return
	}

	if _, err := s.opts.Storage.GetCustomerByPhone(r.Context(), req.Phone); err != nil {
		if errors.Is(err, storage.ErrCustomerNotFound) {
			respondError(w, http.StatusNotFound, "No customer with this phone number")
			return
		}
		metrics.OperationErrorsTotal.WithLabelValues("sms_login").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to look up customer")
		return
	}

	code, err := auth.NewSMSCode()
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("sms_login").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to generate code")
		return
	}

	if err := s.opts.Storage.SaveSMSCode(r.Context(), storage.SMSCode{
		Phone:     req.Phone,
		Code:      code,
		ExpiresAt: s.opts.Now().Add(auth.CodeTTL),
	}); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("sms_login").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to store code")
		return
	}

	if err := s.opts.SMS.Send(r.Context(), req.Phone, "Váš přihlašovací kód: "+code); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("sms_login").Inc()
		respondError(w, http.StatusBadGateway, "Failed to send SMS")
		return
	}
	metrics.LoginCodesIssuedTotal.Inc()

	respondJSON(w, http.StatusOK, map[string]string{"message": "Code sent"})
}

func (s *Server) handleSMSVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Missing phone or code")
		return
	}

	if err := s.opts.Storage.ConsumeSMSCode(r.Context(), req.Phone, req.Code); err != nil {
		switch {
		case errors.Is(err, storage.ErrCodeExpired):
			respondError(w, http.StatusUnauthorized, "Code expired")
		case errors.Is(err, storage.ErrCodeInvalid):
			respondError(w, http.StatusUnauthorized, "Invalid code")
		default:
			metrics.OperationErrorsTotal.WithLabelValues("sms_verify").Inc()
			respondError(w, http.StatusInternalServerError, "Failed to verify code")
		}
		return
	}

	customer, err := s.opts.Storage.GetCustomerByPhone(r.Context(), req.Phone)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("sms_verify").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to look up customer")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": customer.Token})
}

func (s *Server) handleMagicLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Missing email")
		return
	}

	customer, err := s.opts.Storage.GetCustomerByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrCustomerNotFound) {
			respondError(w, http.StatusNotFound, "No customer with this email")
			return
		}
		metrics.OperationErrorsTotal.WithLabelValues("magic_link").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to look up customer")
		return
	}

	link := auth.MagicLink(s.opts.BaseURL, customer.Token)
	if err := s.opts.Email.Send(r.Context(), customer.Email,
		"Přihlášení do "+s.opts.ShopName, "Váš přihlašovací odkaz: "+link); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("magic_link").Inc()
		respondError(w, http.StatusBadGateway, "Failed to send email")
		return
	}
	metrics.MagicLinksIssuedTotal.Inc()

	respondJSON(w, http.StatusOK, map[string]string{"message": "Link sent"})
}

func (s *Server) handleAdminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.opts.Storage.ListOrders(r.Context())
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("admin_list_orders").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filtered := orders[:0]
		for _, o := range orders {
			if o.Status == storage.OrderStatus(status) {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}
	if orders == nil {
		orders = []storage.Order{}
	}
	respondJSON(w, http.StatusOK, map[string][]storage.Order{"orders": orders})
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	var req struct {
		Status storage.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		respondError(w, http.StatusBadRequest, "Missing status")
		return
	}

	if err := s.opts.Storage.UpdateOrderStatus(r.Context(), orderID, req.Status); err != nil {
		switch {
		case errors.Is(err, storage.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, storage.ErrInvalidStatus):
			respondError(w, http.StatusBadRequest, "Invalid status transition")
		default:
			metrics.OperationErrorsTotal.WithLabelValues("update_status").Inc()
			respondError(w, http.StatusInternalServerError, "Failed to update order")
		}
		return
	}

	if req.Status == storage.StatusCancelled {
		metrics.OrdersCancelledTotal.Inc()
	}
	s.refreshCache(r, orderID)

	respondJSON(w, http.StatusOK, map[string]string{"message": "Order status updated"})
}

func (s *Server) handleUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	var req struct {
		PaymentStatus storage.PaymentStatus `json:"payment_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentStatus == "" {
		respondError(w, http.StatusBadRequest, "Missing payment status")
		return
	}
	if !storage.ValidPaymentStatus(req.PaymentStatus) {
		respondError(w, http.StatusBadRequest, "Unknown payment status")
		return
	}

	if err := s.opts.Storage.UpdatePaymentStatus(r.Context(), orderID, req.PaymentStatus); err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		metrics.OperationErrorsTotal.WithLabelValues("update_payment").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to update payment")
		return
	}
	s.refreshCache(r, orderID)

	respondJSON(w, http.StatusOK, map[string]string{"message": "Payment status updated"})
}

func (s *Server) refreshCache(r *http.Request, orderID string) {
	if s.opts.Cache == nil {
		return
	}
	if order, err := s.opts.Storage.GetOrder(r.Context(), orderID); err == nil {
		s.opts.Cache.Set(*order)
	}
}

func (s *Server) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	history, err := s.opts.Storage.GetOrderHistory(r.Context(), orderID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("order_history").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if history == nil {
		history = []storage.HistoryEntry{}
	}
	respondJSON(w, http.StatusOK, map[string][]storage.HistoryEntry{"history": history})
}

func (s *Server) handleAdminListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.opts.Storage.ListCustomers(r.Context())
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("admin_list_customers").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to list customers")
		return
	}
	if customers == nil {
		customers = []storage.Customer{}
	}
	respondJSON(w, http.StatusOK, map[string][]storage.Customer{"customers": customers})
}
