// Package mockapi is an in-memory stand-in for the seller backend. It serves
// the same paths and payload shapes the client consumes, issues OTP codes and
// JWT-shaped tokens, and moves orders through new → cook → complete → close.
package mockapi

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"seller-cli/internal/model"
)

const DefaultPrefix = "/api/v1"

// Cook queue wire shapes the server can be told to emit.
const (
	CookShapeOrdersUpper = "Orders"
	CookShapeOrdersLower = "orders"
	CookShapeBareArray   = "array"
	CookShapeWrapped     = "wrapped"
)

type Options struct {
	Prefix string
	Logger zerolog.Logger
	// FixedOTP, when set, is issued for every phone instead of a random code.
	FixedOTP string
	// CookShape picks the cook queue envelope; empty means CookShapeOrdersUpper.
	CookShape string
	// Seed adds a handful of demo orders for every new merchant.
	Seed bool
	Now  func() time.Time
}

type identity struct {
	UserID     string
	MerchantID string
	BranchID   string
	Phone      string
}

type Server struct {
	mu   sync.Mutex
	opts Options
	log  zerolog.Logger

	otps       map[string]string    // phone → code
	identities map[string]*identity // phone → identity
	tokens     map[string]*identity // token → identity
	orders     map[string]*model.Order
	owner      map[string]string // order id → merchant id
	seq        int
	created    map[string]int // order id → insertion order
	menus      map[string][]model.MenuRecord
	slots      map[string][]model.TimeSlot
	stores     []model.CreateStorePayload
	merchants  []model.CreateMerchantPayload
}

func New(opts Options) *Server {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.CookShape == "" {
		opts.CookShape = CookShapeOrdersUpper
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		opts:       opts,
		log:        opts.Logger,
		otps:       map[string]string{},
		identities: map[string]*identity{},
		tokens:     map[string]*identity{},
		orders:     map[string]*model.Order{},
		owner:      map[string]string{},
		created:    map[string]int{},
		menus:      map[string][]model.MenuRecord{},
		slots:      map[string][]model.TimeSlot{},
	}
}

// Handler returns the router. Everything except the OTP endpoints requires a
// token issued by this server, as a bearer header or a jwt cookie.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	api := r.PathPrefix(s.opts.Prefix).Subrouter()

	api.HandleFunc("/Otp/Request", s.handleOTPRequest).Methods(http.MethodPost)
	api.HandleFunc("/Auth/Seller/Verify", s.handleVerify).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireAuth)
	authed.HandleFunc("/Order/Pos/All/New/Pagination", s.handleOrderPage(model.OrderStatusNew)).Methods(http.MethodGet)
	authed.HandleFunc("/Order/Pos/All/Complete/Pagination", s.handleOrderPage(model.OrderStatusComplete)).Methods(http.MethodGet)
	authed.HandleFunc("/Order/Pos/Cook", s.handleCook).Methods(http.MethodGet)
	authed.HandleFunc("/Order/Pos/Complete", s.handleTransition(model.OrderStatusCook, model.OrderStatusComplete)).Methods(http.MethodPost)
	authed.HandleFunc("/Order/Pos/Close", s.handleTransition(model.OrderStatusComplete, model.OrderStatusClose)).Methods(http.MethodPost)
	authed.HandleFunc("/Store/Create", s.handleCreateStore).Methods(http.MethodPost)
	authed.HandleFunc("/Merchant", s.handleCreateMerchant).Methods(http.MethodPost)
	authed.HandleFunc("/Menu/All/{merchantId}", s.handleMenus).Methods(http.MethodGet)
	authed.HandleFunc("/Menu/Category", s.handleCategories).Methods(http.MethodGet)
	authed.HandleFunc("/Menu", s.handleCreateMenu).Methods(http.MethodPost)
	authed.HandleFunc("/Menu", s.handleUpdateMenu).Methods(http.MethodPut)
	authed.HandleFunc("/Branch/Config/TimeSlot/All/{branchId}", s.handleTimeSlots).Methods(http.MethodGet)
	authed.HandleFunc("/Branch/Config/TimeSlot", s.handleSaveTimeSlot).Methods(http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	return r
}

// IssuedOTP returns the last code issued for phone.
func (s *Server) IssuedOTP(phone string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.otps[phone]
	return code, ok
}

// AddOrder stores o for the merchant that phone logs in as and returns its id.
// Empty ids get a fresh uuid; empty statuses become new.
func (s *Server) AddOrder(phone string, o model.Order) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.identityFor(phone)
	return s.addOrderLocked(id.MerchantID, o)
}

// Advance moves an order one step along new → cook → complete → close, the way
// the kitchen side of the real system would.
func (s *Server) Advance(orderID string) (model.OrderStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return "", fmt.Errorf("order %s not found", orderID)
	}
	switch o.Status {
	case model.OrderStatusNew:
		o.Status = model.OrderStatusCook
	case model.OrderStatusCook:
		o.Status = model.OrderStatusComplete
	case model.OrderStatusComplete:
		o.Status = model.OrderStatusClose
	default:
		return o.Status, fmt.Errorf("order %s is already %s", orderID, o.Status)
	}
	s.touch(o)
	return o.Status, nil
}

// Order returns a copy of a stored order.
func (s *Server) Order(orderID string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return model.Order{}, false
	}
	return o.Clone(), true
}

func (s *Server) identityFor(phone string) *identity {
	if id, ok := s.identities[phone]; ok {
		return id
	}
	id := &identity{
		UserID:     uuid.NewString(),
		MerchantID: uuid.NewString(),
		BranchID:   uuid.NewString(),
		Phone:      phone,
	}
	s.identities[phone] = id
	if s.opts.Seed {
		for _, o := range demoOrders() {
			s.addOrderLocked(id.MerchantID, o)
		}
	}
	return id
}

func (s *Server) addOrderLocked(merchantID string, o model.Order) string {
	o = o.Clone()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = model.OrderStatusNew
	}
	if o.FastLanePrice == "" {
		o.FastLanePrice = "0"
	}
	now := s.opts.Now().UTC()
	if o.CreatedAt == "" {
		o.CreatedAt = now.Format(time.RFC3339)
	}
	if o.PickupAt == "" {
		o.PickupAt = now.Add(20 * time.Minute).Format(time.RFC3339)
	}
	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.NewString()
		}
	}
	s.seq++
	s.created[o.ID] = s.seq
	s.owner[o.ID] = merchantID
	s.orders[o.ID] = &o
	return o.ID
}

func (s *Server) touch(o *model.Order) {
	ts := s.opts.Now().UTC().Format(time.RFC3339)
	o.UpdatedAt = &ts
}

// ordersFor returns the merchant's orders in the given status, oldest first.
func (s *Server) ordersFor(merchantID string, status model.OrderStatus) []model.Order {
	var out []model.Order
	for id, o := range s.orders {
		if s.owner[id] == merchantID && o.Status == status {
			out = append(out, o.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.created[out[i].ID] < s.created[out[j].ID] })
	return out
}

func (s *Server) issueOTP(phone string) string {
	if s.opts.FixedOTP != "" {
		return s.opts.FixedOTP
	}
	return fmt.Sprintf("%06d", rand.IntN(1_000_000))
}

// issueToken builds an unsigned three-segment token carrying the identity claims.
func (s *Server) issueToken(id *identity) (string, error) {
	header, err := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(map[string]any{
		"id":          id.UserID,
		"userId":      id.UserID,
		"role":        "seller",
		"merchant_id": id.MerchantID,
		"branch_id":   id.BranchID,
		"phone":       id.Phone,
		"iss":         "seller-mock",
		"exp":         s.opts.Now().Add(24 * time.Hour).Unix(),
	})
	if err != nil {
		return "", err
	}
	enc := base64.RawURLEncoding
	sig := strings.ReplaceAll(uuid.NewString(), "-", "")
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + sig, nil
}

func demoOrders() []model.Order {
	item := func(name string, price float64, qty int, opts ...model.ItemOption) model.OrderItem {
		return model.OrderItem{Menu: model.Menu{Name: name, Price: price}, Quantity: qty, Options: opts}
	}
	size := model.ItemOption{Kind: model.ItemOptionSelection, Version: 2, Name: "Size", Choice: "Large", Price: 10}
	spicy := model.ItemOption{Kind: model.ItemOptionSelection, Version: 1, Name: "Spicy", Choice: "Medium"}
	return []model.Order{
		{Items: []model.OrderItem{item("Pad Thai", 60, 2, size), item("Thai Iced Tea", 25, 1)}, FastLanePrice: "15"},
		{Items: []model.OrderItem{item("Som Tam", 50, 1, spicy)}, WaitEdit: true},
		{Items: []model.OrderItem{item("Khao Man Gai", 55, 1)}},
		{Status: model.OrderStatusCook, Items: []model.OrderItem{item("Tom Yum", 80, 1, spicy)}},
		{Status: model.OrderStatusComplete, Items: []model.OrderItem{item("Mango Sticky Rice", 70, 2)}},
	}
}
