package orders

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seller-cli/internal/api"
	"seller-cli/internal/model"
)

type fakeSource struct {
	mu sync.Mutex

	newPage   model.OrderPage
	newErr    error
	donePage  model.OrderPage
	doneErr   error
	cook      api.CookQueue
	cookErr   error
	mutateErr error

	calls     []string
	completed []string
	closed    []string
}

func (f *fakeSource) record(s string) {
	f.mu.Lock()
	f.calls = append(f.calls, s)
	f.mu.Unlock()
}

func (f *fakeSource) NewOrders(_ context.Context, offset, limit int) (model.OrderPage, error) {
	f.record("new")
	return f.newPage, f.newErr
}

func (f *fakeSource) CompletedOrders(_ context.Context, offset, limit int) (model.OrderPage, error) {
	f.record("completed")
	return f.donePage, f.doneErr
}

func (f *fakeSource) CookOrders(context.Context) (api.CookQueue, error) {
	f.record("cook")
	return f.cook, f.cookErr
}

func (f *fakeSource) CompleteOrder(_ context.Context, id string) (api.Result, error) {
	f.record("complete")
	if f.mutateErr != nil {
		return api.Result{}, f.mutateErr
	}
	f.completed = append(f.completed, id)
	return api.Result{Status: 200, Empty: true}, nil
}

func (f *fakeSource) CloseOrder(_ context.Context, id string) (api.Result, error) {
	f.record("close")
	if f.mutateErr != nil {
		return api.Result{}, f.mutateErr
	}
	f.closed = append(f.closed, id)
	return api.Result{Status: 200, Empty: true}, nil
}

type alertLog struct {
	mu     sync.Mutex
	alerts []Alert
}

func (l *alertLog) Notify(a Alert) {
	l.mu.Lock()
	l.alerts = append(l.alerts, a)
	l.mu.Unlock()
}

func (l *alertLog) last() Alert {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.alerts) == 0 {
		return Alert{}
	}
	return l.alerts[len(l.alerts)-1]
}

func order(id string, waitEdit bool, items ...model.OrderItem) model.Order {
	return model.Order{ID: id, Status: model.OrderStatusNew, WaitEdit: waitEdit, Items: items}
}

func item(name string, qty int, price float64) model.OrderItem {
	return model.OrderItem{Menu: model.Menu{Name: name, Price: price}, Quantity: qty}
}

func TestNewOrders_FetchStoresPagination(t *testing.T) {
	src := &fakeSource{newPage: model.OrderPage{
		Orders:    []model.Order{order("o1", false), order("o2", false)},
		TotalPage: 4,
	}}
	v := NewNewOrders(src, Options{})
	assert.Equal(t, PhaseLoading, v.State().Phase)

	require.NoError(t, v.Fetch(context.Background(), 20, 10))
	s := v.State()
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Len(t, s.Orders, 2)
	assert.Equal(t, 4, s.TotalPages)
	assert.Equal(t, 20, s.CurrentPage)
	assert.Empty(t, s.Err)
	assert.True(t, s.HasNext())
	assert.True(t, s.HasPrev())
}

func TestNewOrders_EmptyListIsReady(t *testing.T) {
	v := NewNewOrders(&fakeSource{newPage: model.OrderPage{}}, Options{})
	require.NoError(t, v.Fetch(context.Background(), 0, 10))
	s := v.State()
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Empty(t, s.Orders)
	assert.Empty(t, s.Err)
}

func TestNewOrders_FetchErrorStoresText(t *testing.T) {
	src := &fakeSource{newErr: &api.HTTPError{Op: "NewOrders", Status: 502, Body: "bad gateway"}}
	v := NewNewOrders(src, Options{})
	require.Error(t, v.Fetch(context.Background(), 0, 10))
	s := v.State()
	assert.Equal(t, PhaseError, s.Phase)
	assert.Contains(t, s.Err, "502")

	src.newErr = nil
	src.newPage = model.OrderPage{Orders: []model.Order{order("o1", false)}, TotalPage: 1}
	require.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, PhaseReady, v.State().Phase)
	assert.Empty(t, v.State().Err)
}

func TestFirstEditable(t *testing.T) {
	tests := []struct {
		name string
		in   []model.Order
		want int
	}{
		{"empty", nil, -1},
		{"first free", []model.Order{order("a", false), order("b", false)}, 0},
		{"skips held", []model.Order{order("a", true), order("b", true), order("c", false), order("d", false)}, 2},
		{"all held", []model.Order{order("a", true)}, -1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FirstEditable(tc.in), tc.name)
	}
}

func TestNewOrders_OnlyFirstEditableIsActionable(t *testing.T) {
	src := &fakeSource{newPage: model.OrderPage{Orders: []model.Order{
		order("held", true, item("A", 1, 10)),
		order("next", false, item("B", 2, 20)),
		order("later", false),
	}}}
	v := NewNewOrders(src, Options{})
	require.NoError(t, v.Fetch(context.Background(), 0, 10))

	assert.Equal(t, 1, v.FirstEditable())
	assert.True(t, v.Actionable("next"))
	assert.False(t, v.Actionable("held"))
	assert.False(t, v.Actionable("later"))
	assert.ErrorIs(t, v.BeginEdit("later"), ErrNotEditable)
	assert.ErrorIs(t, v.BeginEdit("held"), ErrNotEditable)
	require.NoError(t, v.BeginEdit("next"))
}

func TestNewOrders_DraftIsIsolatedUntilSent(t *testing.T) {
	src := &fakeSource{newPage: model.OrderPage{Orders: []model.Order{
		order("o1", false, item("A", 1, 10), item("B", 2, 20), item("C", 1, 5)),
	}}}
	alerts := &alertLog{}
	v := NewNewOrders(src, Options{Notifier: alerts})
	require.NoError(t, v.Fetch(context.Background(), 0, 10))
	require.NoError(t, v.BeginEdit("o1"))

	require.NoError(t, v.RemoveDraftItem(1))
	require.Error(t, v.RemoveDraftItem(5))
	d, ok := v.Draft()
	require.True(t, ok)
	assert.Len(t, d.Items, 2)
	assert.Len(t, v.State().Orders[0].Items, 3, "list must not change before send")

	require.NoError(t, v.SendDraft())
	assert.False(t, v.Editing())
	items := v.State().Orders[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Menu.Name)
	assert.Equal(t, "C", items[1].Menu.Name)
	assert.Equal(t, []string{"new"}, src.calls, "send is local")
	assert.Equal(t, AlertInfo, alerts.last().Kind)

	assert.ErrorIs(t, v.SendDraft(), ErrNoDraft)
}

func TestNewOrders_CancelDraftDiscards(t *testing.T) {
	src := &fakeSource{newPage: model.OrderPage{Orders: []model.Order{order("o1", false, item("A", 1, 10))}}}
	v := NewNewOrders(src, Options{})
	require.NoError(t, v.Fetch(context.Background(), 0, 10))
	require.NoError(t, v.BeginEdit("o1"))
	require.NoError(t, v.RemoveDraftItem(0))
	v.CancelDraft()

	_, ok := v.Draft()
	assert.False(t, ok)
	assert.Len(t, v.State().Orders[0].Items, 1)
	assert.ErrorIs(t, v.RemoveDraftItem(0), ErrNoDraft)
}

func TestCook_ServerErrorIsEmptyWhenLenient(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"500", &api.HTTPError{Op: "CookOrders", Status: http.StatusInternalServerError}},
		{"404", &api.HTTPError{Op: "CookOrders", Status: http.StatusNotFound}},
		{"no data text", errors.New("No data found")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := NewCook(&fakeSource{cookErr: tc.err}, CookOptions{EmptyOnServerError: true})
			require.NoError(t, v.Fetch(context.Background()))
			s := v.State()
			assert.Equal(t, PhaseReady, s.Phase)
			assert.Empty(t, s.Orders)
			assert.Empty(t, s.Err)
		})
	}
}

func TestCook_ServerErrorSurfacesWhenStrict(t *testing.T) {
	v := NewCook(&fakeSource{cookErr: &api.HTTPError{Op: "CookOrders", Status: 500, Body: "boom"}}, CookOptions{})
	require.Error(t, v.Fetch(context.Background()))
	assert.Equal(t, PhaseError, v.State().Phase)
	assert.Contains(t, v.State().Err, "boom")
}

func TestCook_OtherErrorsAlwaysSurface(t *testing.T) {
	v := NewCook(&fakeSource{cookErr: &api.HTTPError{Op: "CookOrders", Status: 401, Body: "unauthorized"}}, CookOptions{EmptyOnServerError: true})
	require.Error(t, v.Fetch(context.Background()))
	assert.Equal(t, PhaseError, v.State().Phase)
}

func TestCook_CompleteUsesFullIDAndRefetches(t *testing.T) {
	full := "0f3c2a1e-9b7d-4c55-8e21-6a1b2c3d4e5f"
	src := &fakeSource{cook: api.CookQueue{Shape: api.ShapeOrdersUpper, Orders: []model.Order{
		{ID: full, Status: model.OrderStatusCook, Items: []model.OrderItem{item("A", 2, 30)}},
	}}}
	alerts := &alertLog{}
	v := NewCook(src, CookOptions{Options: Options{Notifier: alerts}, EmptyOnServerError: true})
	require.NoError(t, v.Fetch(context.Background()))

	views := v.Views()
	require.Len(t, views, 1)
	assert.Equal(t, "0f3c2a1e", views[0].ID)
	assert.Equal(t, model.ViewInProgress, views[0].Status)

	require.NoError(t, v.Complete(context.Background(), views[0].OrderID))
	assert.Equal(t, []string{full}, src.completed)
	assert.Equal(t, []string{"cook", "complete", "cook"}, src.calls)
	assert.Equal(t, AlertSuccess, alerts.last().Kind)
	assert.Equal(t, api.ShapeOrdersUpper, v.Shape())
}

func TestCook_CompleteFailureAlertsWithoutRefetch(t *testing.T) {
	src := &fakeSource{mutateErr: &api.HTTPError{Op: "CompleteOrder", Status: 409, Body: "already complete"}}
	alerts := &alertLog{}
	v := NewCook(src, CookOptions{Options: Options{Notifier: alerts}})

	require.Error(t, v.Complete(context.Background(), "abc"))
	assert.Equal(t, AlertError, alerts.last().Kind)
	assert.Equal(t, []string{"complete"}, src.calls)
}

func TestToSend_CloseRefetchesAndAlerts(t *testing.T) {
	src := &fakeSource{donePage: model.OrderPage{Orders: []model.Order{{ID: "c1", Status: model.OrderStatusComplete}}, TotalPage: 1}}
	alerts := &alertLog{}
	v := NewToSend(src, Options{Notifier: alerts, PageSize: 5})
	require.NoError(t, v.Fetch(context.Background(), 0, 0))
	assert.Equal(t, 5, v.State().Limit)

	require.NoError(t, v.Close(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, src.closed)
	assert.Equal(t, []string{"completed", "close", "completed"}, src.calls)
	assert.Equal(t, AlertSuccess, alerts.last().Kind)
}

type slowSource struct {
	fakeSource
	delays map[int]time.Duration
}

func (s *slowSource) NewOrders(ctx context.Context, offset, limit int) (model.OrderPage, error) {
	time.Sleep(s.delays[offset])
	return model.OrderPage{Orders: []model.Order{order("at-"+string(rune('0'+offset)), false)}, TotalPage: 9}, nil
}

func TestNewOrders_LastFetchToSettleWins(t *testing.T) {
	src := &slowSource{delays: map[int]time.Duration{1: 60 * time.Millisecond, 2: 0}}
	v := NewNewOrders(src, Options{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _ = v.Fetch(context.Background(), 1, 10) }()
	time.Sleep(10 * time.Millisecond)
	go func() { defer wg.Done(); _ = v.Fetch(context.Background(), 2, 10) }()
	wg.Wait()

	s := v.State()
	assert.Equal(t, 1, s.CurrentPage, "slower fetch settles last")
	assert.Equal(t, "at-1", s.Orders[0].ID)
}

func TestSummarize(t *testing.T) {
	cook := []model.Order{
		{ID: "a", Status: model.OrderStatusCook},
		{ID: "b", Status: model.OrderStatusNew},
		{ID: "c", Status: model.OrderStatusComplete},
	}
	done := []model.Order{{ID: "c"}, {ID: "d"}}
	assert.Equal(t, Summary{Done: 2, Remaining: 2, Total: 4}, Summarize(cook, done))
	assert.Equal(t, Summary{}, Summarize(nil, nil))
}
