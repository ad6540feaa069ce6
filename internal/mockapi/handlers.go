package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"seller-cli/internal/model"
)

type ctxKey struct{}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func readJSON(r *http.Request, v any) error {
	b, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(b, v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Dur("took", time.Since(start)).
			Msg("mock.request")
	})
}

func bearer(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie("jwt"); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearer(r)
		s.mu.Lock()
		id, ok := s.tokens[tok]
		s.mu.Unlock()
		if tok == "" || !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func caller(r *http.Request) *identity {
	id, _ := r.Context().Value(ctxKey{}).(*identity)
	return id
}

func (s *Server) handleOTPRequest(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Phone string `json:"phone"`
	}
	if err := readJSON(r, &in); err != nil || strings.TrimSpace(in.Phone) == "" {
		writeMessage(w, http.StatusBadRequest, "phone is required")
		return
	}
	phone := strings.TrimSpace(in.Phone)
	s.mu.Lock()
	code := s.issueOTP(phone)
	s.otps[phone] = code
	s.identityFor(phone)
	s.mu.Unlock()
	s.log.Info().Str("phone", phone).Str("otp", code).Msg("mock.otp_issued")
	writeJSON(w, http.StatusOK, map[string]string{"Message": "OTP sent"})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if err := readJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}
	phone := strings.TrimSpace(in.Phone)

	s.mu.Lock()
	want, ok := s.otps[phone]
	if !ok || want != strings.TrimSpace(in.OTP) {
		s.mu.Unlock()
		writeMessage(w, http.StatusBadRequest, "Invalid OTP")
		return
	}
	delete(s.otps, phone)
	id := s.identityFor(phone)
	tok, err := s.issueToken(id)
	if err == nil {
		s.tokens[tok] = id
	}
	s.mu.Unlock()
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{Name: "jwt", Value: tok, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]string{"Message": "Success", "jwtToken": tok})
}

func (s *Server) handleOrderPage(status model.OrderStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 {
			limit = 10
		}
		s.mu.Lock()
		all := s.ordersFor(caller(r).MerchantID, status)
		s.mu.Unlock()

		page := model.OrderPage{
			Orders:    []model.Order{},
			TotalPage: int(math.Ceil(float64(len(all)) / float64(limit))),
		}
		if offset < len(all) {
			end := min(offset+limit, len(all))
			page.Orders = all[offset:end]
		}
		writeJSON(w, http.StatusOK, page)
	}
}

// handleCook answers like the real backend: an empty queue is a 500 "no data".
func (s *Server) handleCook(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	orders := s.ordersFor(caller(r).MerchantID, model.OrderStatusCook)
	shape := s.opts.CookShape
	s.mu.Unlock()

	if len(orders) == 0 {
		writeMessage(w, http.StatusInternalServerError, "no data")
		return
	}
	switch shape {
	case CookShapeOrdersLower:
		writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
	case CookShapeBareArray:
		writeJSON(w, http.StatusOK, orders)
	case CookShapeWrapped:
		wrapped := make([]map[string]model.Order, 0, len(orders))
		for _, o := range orders {
			wrapped = append(wrapped, map[string]model.Order{"order": o})
		}
		writeJSON(w, http.StatusOK, wrapped)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"Orders": orders})
	}
}

func (s *Server) handleTransition(from, to model.OrderStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			OrderID string `json:"order_id"`
		}
		if err := readJSON(r, &in); err != nil || in.OrderID == "" {
			writeMessage(w, http.StatusBadRequest, "order_id is required")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		o, ok := s.orders[in.OrderID]
		if !ok || s.owner[in.OrderID] != caller(r).MerchantID {
			writeMessage(w, http.StatusNotFound, "order not found")
			return
		}
		if o.Status != from {
			writeMessage(w, http.StatusConflict, "order is "+string(o.Status))
			return
		}
		o.Status = to
		s.touch(o)
		// The real backend answers these with an empty 200.
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	var in model.CreateStorePayload
	if err := readJSON(r, &in); err != nil || strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		writeMessage(w, http.StatusBadRequest, "name and phone are required")
		return
	}
	s.mu.Lock()
	s.stores = append(s.stores, in)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"Message": "Success", "id": uuid.NewString()})
}

func (s *Server) handleCreateMerchant(w http.ResponseWriter, r *http.Request) {
	var in model.CreateMerchantPayload
	if err := readJSON(r, &in); err != nil || strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		writeMessage(w, http.StatusBadRequest, "name and phone are required")
		return
	}
	if _, err := model.ParseBranchType(string(in.BranchType)); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(in.MerchantType) == 0 {
		writeMessage(w, http.StatusBadRequest, "merchant_type is required")
		return
	}
	s.mu.Lock()
	s.merchants = append(s.merchants, in)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"Message": "Success", "merchant_id": caller(r).MerchantID})
}

func (s *Server) handleMenus(w http.ResponseWriter, r *http.Request) {
	merchantID := mux.Vars(r)["merchantId"]
	s.mu.Lock()
	menus := append([]model.MenuRecord{}, s.menus[merchantID]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": menus})
}

var categories = []model.MenuCategory{
	{ID: 1, Name: "Main dishes", SubID: 0, IsActive: true},
	{ID: 2, Name: "Drinks", SubID: 0, IsActive: true},
	{ID: 3, Name: "Desserts", SubID: 0, IsActive: true},
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateMenu(w http.ResponseWriter, r *http.Request) {
	var in model.CreateMenuPayload
	if err := readJSON(r, &in); err != nil || strings.TrimSpace(in.Name) == "" {
		writeMessage(w, http.StatusBadRequest, "menu name is required")
		return
	}
	rec := model.MenuRecord{
		ID:         uuid.NewString(),
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Detail:     in.Detail,
		Image:      in.Image,
		Price:      in.Price,
		IsActive:   true,
		Options:    []model.MenuOption{},
	}
	for _, op := range in.Options {
		mo := model.MenuOption{
			ID:         uuid.NewString(),
			Name:       op.Name,
			Type:       op.Type,
			IsRequired: op.IsRequired,
			Min:        op.Min,
			Max:        op.Max,
			Display:    op.Display,
			IsActive:   op.IsActive,
			SubOptions: []model.SubOption{},
		}
		for _, sub := range op.Subs {
			mo.SubOptions = append(mo.SubOptions, model.SubOption{
				ID:        uuid.NewString(),
				Name:      sub.Name,
				Price:     sub.Price,
				IsDefault: sub.IsDefault,
				Display:   sub.Display,
				IsActive:  sub.IsActive,
			})
		}
		rec.Options = append(rec.Options, mo)
	}
	merchantID := caller(r).MerchantID
	s.mu.Lock()
	s.menus[merchantID] = append(s.menus[merchantID], rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"Message": "Success", "id": rec.ID})
}

func (s *Server) handleUpdateMenu(w http.ResponseWriter, r *http.Request) {
	var in model.UpdateMenuPayload
	if err := readJSON(r, &in); err != nil || in.ID == "" {
		writeMessage(w, http.StatusBadRequest, "menu id is required")
		return
	}
	merchantID := caller(r).MerchantID
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.menus[merchantID] {
		if m.ID != in.ID {
			continue
		}
		m.CategoryID = in.CategoryID
		m.Name = in.Name
		m.Detail = in.Detail
		m.Image = in.Image
		m.Price = in.Price
		m.Options = in.Options
		for oi := range m.Options {
			if m.Options[oi].ID == "" {
				m.Options[oi].ID = uuid.NewString()
			}
			for si := range m.Options[oi].SubOptions {
				if m.Options[oi].SubOptions[si].ID == "" {
					m.Options[oi].SubOptions[si].ID = uuid.NewString()
				}
			}
		}
		s.menus[merchantID][i] = m
		writeJSON(w, http.StatusOK, map[string]string{"Message": "Success"})
		return
	}
	writeMessage(w, http.StatusNotFound, "menu not found")
}

func (s *Server) handleTimeSlots(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]
	s.mu.Lock()
	slots := append([]model.TimeSlot{}, s.slots[branchID]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": slots})
}

func (s *Server) handleSaveTimeSlot(w http.ResponseWriter, r *http.Request) {
	var in model.TimeSlot
	if err := readJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := in.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	in.ID = uuid.NewString()
	branchID := caller(r).BranchID
	s.mu.Lock()
	// One configuration per branch; saving replaces it.
	s.slots[branchID] = []model.TimeSlot{in}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"Message": "Success", "id": in.ID})
}
