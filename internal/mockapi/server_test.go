package mockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seller-cli/internal/api"
	"seller-cli/internal/model"
	"seller-cli/internal/session"
)

type creds struct{ token, cookies string }

func (c *creds) Token() string   { return c.token }
func (c *creds) Cookies() string { return c.cookies }

const phone = "+66812345678"

func login(t *testing.T, opts Options) (*Server, *api.Client, *creds) {
	t.Helper()
	opts.FixedOTP = "123456"
	srv := New(opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c := &creds{}
	client, err := api.New(api.Options{BaseURL: ts.URL + DefaultPrefix, Credentials: c})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = client.RequestOTP(ctx, phone)
	require.NoError(t, err)
	res, err := client.VerifyOTP(ctx, phone, "123456")
	require.NoError(t, err)
	require.NotEmpty(t, res.BearerToken())
	c.token = res.BearerToken()
	return srv, client, c
}

func TestVerify_IssuesDecodableTokenAndCookie(t *testing.T) {
	t.Parallel()

	srv := New(Options{FixedOTP: "654321"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	client, err := api.New(api.Options{BaseURL: ts.URL + DefaultPrefix})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = client.RequestOTP(ctx, phone)
	require.NoError(t, err)
	code, ok := srv.IssuedOTP(phone)
	require.True(t, ok)
	assert.Equal(t, "654321", code)

	_, err = client.VerifyOTP(ctx, phone, "000000")
	assert.Equal(t, http.StatusBadRequest, api.StatusOf(err))

	res, err := client.VerifyOTP(ctx, phone, code)
	require.NoError(t, err)
	assert.Equal(t, "Success", res.Message)
	assert.Contains(t, res.Cookies, "jwt=")

	claims, err := session.DecodeClaims(res.BearerToken())
	require.NoError(t, err)
	assert.Equal(t, phone, string(claims.Phone))
	assert.Equal(t, "seller", string(claims.Role))
	assert.NotEmpty(t, claims.MerchantID)
	assert.NotEmpty(t, claims.BranchID)

	// The code is single use.
	_, err = client.VerifyOTP(ctx, phone, code)
	assert.Equal(t, http.StatusBadRequest, api.StatusOf(err))
}

func TestRandomOTPIsSixDigits(t *testing.T) {
	t.Parallel()

	srv := New(Options{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	resp, err := http.Post(ts.URL+DefaultPrefix+"/Otp/Request", "application/json", strings.NewReader(`{"phone":"0800000000"}`))
	require.NoError(t, err)
	resp.Body.Close()

	code, ok := srv.IssuedOTP("0800000000")
	require.True(t, ok)
	assert.Len(t, code, 6)
}

func TestOrdersRequireAuth(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(New(Options{}).Handler())
	defer ts.Close()
	client, err := api.New(api.Options{BaseURL: ts.URL + DefaultPrefix})
	require.NoError(t, err)

	_, err = client.NewOrders(context.Background(), 0, 10)
	assert.Equal(t, http.StatusUnauthorized, api.StatusOf(err))
}

func TestOrderLifecycle(t *testing.T) {
	t.Parallel()

	srv, client, _ := login(t, Options{})
	ctx := context.Background()

	ids := make([]string, 0, 3)
	for _, name := range []string{"Pad Thai", "Som Tam", "Tom Yum"} {
		ids = append(ids, srv.AddOrder(phone, model.Order{
			Items: []model.OrderItem{{Menu: model.Menu{Name: name, Price: 50}, Quantity: 1}},
		}))
	}

	page, err := client.NewOrders(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPage)
	require.Len(t, page.Orders, 2)
	assert.Equal(t, ids[0], page.Orders[0].ID)

	page, err = client.NewOrders(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, ids[2], page.Orders[0].ID)

	// Empty cook queue is the backend's 500 "no data".
	_, err = client.CookOrders(ctx)
	assert.Equal(t, http.StatusInternalServerError, api.StatusOf(err))
	assert.True(t, api.IsNoData(err))

	st, err := srv.Advance(ids[0])
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCook, st)

	q, err := client.CookOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.ShapeOrdersUpper, q.Shape)
	require.Len(t, q.Orders, 1)

	_, err = client.CloseOrder(ctx, ids[0])
	assert.Equal(t, http.StatusConflict, api.StatusOf(err))

	res, err := client.CompleteOrder(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, res.Empty)

	done, err := client.CompletedOrders(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, done.Orders, 1)
	assert.Equal(t, model.OrderStatusComplete, done.Orders[0].Status)

	_, err = client.CloseOrder(ctx, ids[0])
	require.NoError(t, err)
	o, ok := srv.Order(ids[0])
	require.True(t, ok)
	assert.Equal(t, model.OrderStatusClose, o.Status)
	assert.NotNil(t, o.UpdatedAt)

	_, err = client.CompleteOrder(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, api.StatusOf(err))
}

func TestCookShapes(t *testing.T) {
	t.Parallel()

	for shape, want := range map[string]string{
		CookShapeOrdersLower: api.ShapeOrdersLower,
		CookShapeBareArray:   api.ShapeBareArray,
		CookShapeWrapped:     api.ShapeBareArray,
	} {
		t.Run(shape, func(t *testing.T) {
			t.Parallel()
			srv, client, _ := login(t, Options{CookShape: shape})
			id := srv.AddOrder(phone, model.Order{Status: model.OrderStatusCook})

			q, err := client.CookOrders(context.Background())
			require.NoError(t, err)
			assert.Equal(t, want, q.Shape)
			require.Len(t, q.Orders, 1)
			assert.Equal(t, id, q.Orders[0].ID)
		})
	}
}

func TestSeededOrdersKeepOptionShapes(t *testing.T) {
	t.Parallel()

	_, client, _ := login(t, Options{Seed: true})
	page, err := client.NewOrders(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Orders, 3)
	assert.True(t, page.Orders[1].WaitEdit)
	assert.Zero(t, page.Orders[0].UnknownOptions())
	require.Len(t, page.Orders[0].Items[0].Options, 1)
	assert.Equal(t, "Large", page.Orders[0].Items[0].Options[0].Choice)
}

func TestMenusAndTimeSlots(t *testing.T) {
	t.Parallel()

	_, client, c := login(t, Options{})
	ctx := context.Background()
	claims, err := session.DecodeClaims(c.token)
	require.NoError(t, err)

	_, err = client.CreateMenu(ctx, model.CreateMenuPayload{
		CategoryID: 1,
		Name:       "Pad Thai",
		Price:      60,
		Options: []model.CreateMenuOption{{
			Name: "Size", Type: "single", Max: 1, Display: 1, IsActive: true,
			Subs: []model.CreateSubOption{{Name: "Large", Price: 10, Display: 1, IsActive: true}},
		}},
	})
	require.NoError(t, err)

	menus, err := client.Menus(ctx, string(claims.MerchantID))
	require.NoError(t, err)
	require.Len(t, menus, 1)
	require.Len(t, menus[0].Options, 1)
	assert.Equal(t, "Large", menus[0].Options[0].SubOptions[0].Name)

	upd := model.UpdateFromRecord(menus[0])
	upd.Price = 65
	upd.Options[0].Display = 0
	_, err = client.UpdateMenu(ctx, upd)
	require.NoError(t, err)
	menus, err = client.Menus(ctx, string(claims.MerchantID))
	require.NoError(t, err)
	assert.Equal(t, 65.0, menus[0].Price)
	assert.False(t, menus[0].Options[0].Display.Visible())

	cats, err := client.MenuCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 3)

	ts, err := model.QueueSettings{MaxQueue: 5, RoundsPerHour: 4, StartAt: "09:00:00", EndAt: "17:00:00"}.TimeSlot()
	require.NoError(t, err)
	_, err = client.SaveTimeSlot(ctx, ts)
	require.NoError(t, err)
	slots, err := client.TimeSlots(ctx, string(claims.BranchID))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 15, slots[0].IntervalMinutes)
	assert.Equal(t, 5, slots[0].Capacity)
}

func TestCreateMerchantValidates(t *testing.T) {
	t.Parallel()

	_, client, _ := login(t, Options{})
	ctx := context.Background()

	_, err := client.CreateMerchant(ctx, model.CreateMerchantPayload{BranchType: model.BranchFixed, Name: "Som Tam", Phone: phone})
	require.NoError(t, err)

	_, err = client.CreateMerchant(ctx, model.CreateMerchantPayload{BranchType: "truck", Name: "x", Phone: phone})
	assert.Equal(t, http.StatusBadRequest, api.StatusOf(err))

	_, err = client.CreateStore(ctx, model.CreateStorePayload{Name: "", Phone: phone})
	assert.Equal(t, http.StatusBadRequest, api.StatusOf(err))
}
