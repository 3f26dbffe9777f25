package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AlfonsoGalocha/PetStore/internal/cart"
	"github.com/AlfonsoGalocha/PetStore/internal/inventory"
	ord "github.com/AlfonsoGalocha/PetStore/internal/order"
	"github.com/AlfonsoGalocha/PetStore/internal/user"
)

//
// ---------- STUBS & FAKES ----------
//

// stubStore implements ord.Store in memory.
type stubStore struct {
	mu     sync.Mutex
	orders map[string]*ord.Order
	items  map[string][]ord.Item
}

func newStubStore() *stubStore {
	return &stubStore{orders: make(map[string]*ord.Order), items: make(map[string][]ord.Item)}
}

func (s *stubStore) Create(ctx context.Context, o *ord.Order, items []ord.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *o
	s.orders[o.ID] = &cp
	s.items[o.ID] = append([]ord.Item(nil), items...)
	return nil
}

func (s *stubStore) GetByID(ctx context.Context, id string) (*ord.Order, []ord.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil, ord.ErrNotFound
	}
	cp := *o
	return &cp, append([]ord.Item(nil), s.items[id]...), nil
}

func (s *stubStore) List(ctx context.Context, limit, offset int) ([]ord.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []ord.Order{}
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]ord.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []ord.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubStore) UpdateStatus(ctx context.Context, id string, next ord.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return ord.ErrNotFound
	}
	if !o.Status.CanTransitionTo(next) {
		return ord.ErrInvalidTransition
	}
	o.Status = next
	return nil
}

func (s *stubStore) GetItems(ctx context.Context, orderID string) ([]ord.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ord.Item(nil), s.items[orderID]...), nil
}

type stubValidator struct{ stored map[string]user.Address }

func (s *stubValidator) Validate(ctx context.Context, userID string, submitted user.Address) error {
	a, ok := s.stored[userID]
	if !ok {
		return user.ErrNoAddressOnFile
	}
	if a != submitted {
		return user.ErrAddressMismatch
	}
	return nil
}

type stubCarts struct{ carts map[string][]cart.Line }

func (s *stubCarts) Snapshot(ctx context.Context, userID string) ([]cart.Line, error) {
	lines, ok := s.carts[userID]
	if !ok {
		return nil, cart.ErrNotFound
	}
	return append([]cart.Line(nil), lines...), nil
}

var testAddr = user.Address{Street: "Calle Mayor 1", City: "Madrid", State: "MD", Country: "ES"}

func newTestWorkflow(userID, productID string, stock int, price string, qty int) (*ord.Workflow, *inventory.MemLedger, *stubStore) {
	ledger := inventory.NewMemLedger()
	ledger.Put(productID, stock, price)
	store := newStubStore()
	wf := &ord.Workflow{
		Addresses:      &stubValidator{stored: map[string]user.Address{userID: testAddr}},
		Carts:          &stubCarts{carts: map[string][]cart.Line{userID: {{ProductID: productID, Quantity: qty}}}},
		Ledger:         ledger,
		Store:          store,
		PersistTimeout: 2 * time.Second,
	}
	return wf, ledger, store
}

func createOrderBody(userID, paymentMethod string, a user.Address) *bytes.Buffer {
	body, _ := json.Marshal(ord.CreateOrderRequest{UserID: userID, PaymentMethod: paymentMethod, ShippingAddress: a})
	return bytes.NewBuffer(body)
}

//
// ---------- TESTS ----------
//

func TestCreateOrder_HappyPath(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	prodID := uuid.NewString()
	wf, ledger, store := newTestWorkflow(userID, prodID, 5, "15.00", 2)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders", createOrderHandler(wf))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", createOrderBody(userID, "card", testAddr))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var resp ord.OrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Total != "30.00" {
		t.Fatalf("total=%s, esperaba 30.00", resp.Total)
	}
	if resp.Status != ord.StatusPending {
		t.Fatalf("status=%s, esperaba pending", resp.Status)
	}
	if len(resp.Items) != 1 || resp.Items[0].Price != "15.00" {
		t.Fatalf("items inesperados: %+v", resp.Items)
	}
	if got := ledger.Stock(prodID); got != 3 {
		t.Fatalf("stock esperado=3, real=%d", got)
	}
	if len(store.orders) != 1 {
		t.Fatalf("no se persistió la orden")
	}
}

func TestCreateOrder_OutOfStock(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	prodID := uuid.NewString()
	wf, ledger, _ := newTestWorkflow(userID, prodID, 1, "10.00", 2)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders", createOrderHandler(wf))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", createOrderBody(userID, "card", testAddr))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s (esperaba 409)", w.Code, w.Body.String())
	}
	var f ord.Failure
	if err := json.Unmarshal(w.Body.Bytes(), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Kind != ord.KindOutOfStock || f.ProductID != prodID || f.Available != 1 {
		t.Fatalf("failure inesperado: %+v", f)
	}
	if got := ledger.Stock(prodID); got != 1 {
		t.Fatalf("stock esperado=1, real=%d", got)
	}
}

func TestCreateOrder_AddressMismatch(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	prodID := uuid.NewString()
	wf, ledger, store := newTestWorkflow(userID, prodID, 5, "10.00", 1)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders", createOrderHandler(wf))

	wrong := testAddr
	wrong.Street = "Otra Calle 2"
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", createOrderBody(userID, "card", wrong))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (esperaba 400)", w.Code, w.Body.String())
	}
	if got := ledger.Stock(prodID); got != 5 {
		t.Fatalf("stock esperado=5, real=%d", got)
	}
	if len(store.orders) != 0 {
		t.Fatalf("no debía persistirse orden alguna")
	}
}

func TestCreateOrder_MissingFields(t *testing.T) {
	t.Parallel()

	wf, _, _ := newTestWorkflow(uuid.NewString(), uuid.NewString(), 5, "10.00", 1)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders", createOrderHandler(wf))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(`{"user_id":""}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d (esperaba 400)", w.Code)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/orders/:id", getOrderHandler(store))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (esperaba 404)", w.Code, w.Body.String())
	}
}

func TestGetOrderItems_OK(t *testing.T) {
	t.Parallel()

	oid := uuid.NewString()
	store := newStubStore()
	store.orders[oid] = &ord.Order{ID: oid, UserID: uuid.NewString(), Status: ord.StatusPending, Total: "20.00"}
	store.items[oid] = []ord.Item{{
		ID:        uuid.NewString(),
		OrderID:   oid,
		ProductID: uuid.NewString(),
		Quantity:  2,
		Price:     "10.00",
	}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/orders/:id/items", getOrderItemsHandler(store))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+oid+"/items", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s (esperaba 200)", w.Code, w.Body.String())
	}
	var arr []ord.Item
	if err := json.Unmarshal(w.Body.Bytes(), &arr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(arr) != 1 || arr[0].Quantity != 2 {
		t.Fatalf("items inesperados: %+v", arr)
	}
}

func TestCancelOrder_FlowAndSecondCancelRejected(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	prodID := uuid.NewString()
	wf, ledger, _ := newTestWorkflow(userID, prodID, 5, "10.00", 2)

	o, _, err := wf.Create(context.Background(), userID, "card", testAddr)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders/:id/cancel", cancelOrderHandler(wf))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/orders/%s/cancel", o.ID), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s (esperaba 200)", w.Code, w.Body.String())
	}
	if got := ledger.Stock(prodID); got != 5 {
		t.Fatalf("cancel debe devolver stock: esperado=5, real=%d", got)
	}

	// segundo cancel: transición ilegal
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/orders/%s/cancel", o.ID), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s (esperaba 409)", w.Code, w.Body.String())
	}
	var f ord.Failure
	if err := json.Unmarshal(w.Body.Bytes(), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Kind != ord.KindInvalidTransition {
		t.Fatalf("kind=%s, esperaba invalid_transition", f.Kind)
	}
}

func TestListOrders_FiltersByUser(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	u1, u2 := uuid.NewString(), uuid.NewString()
	for i, uid := range []string{u1, u1, u2} {
		id := uuid.NewString()
		store.orders[id] = &ord.Order{ID: id, UserID: uid, Status: ord.StatusPending, Total: fmt.Sprintf("%d.00", i)}
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/orders", listOrdersHandler(store))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders?user_id="+u1, nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var orders []ord.Order
	if err := json.Unmarshal(w.Body.Bytes(), &orders); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("len=%d, esperaba 2", len(orders))
	}
}
