package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCookQueue_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		shape string
		ids   []string
	}{
		{name: "single order object", body: `{"order":{"order_id":"a"}}`, shape: ShapeSingleOrder, ids: []string{"a"}},
		{name: "lower orders", body: `{"orders":[{"order_id":"a"},{"order_id":"b"}]}`, shape: ShapeOrdersLower, ids: []string{"a", "b"}},
		{name: "upper Orders", body: `{"Orders":[{"order_id":"a"}],"TotalPage":1}`, shape: ShapeOrdersUpper, ids: []string{"a"}},
		{name: "bare array", body: `[{"order_id":"a"},{"order_id":"b"}]`, shape: ShapeBareArray, ids: []string{"a", "b"}},
		{name: "bare array of wrappers", body: `[{"order":{"order_id":"a"}},{"order":{"order_id":"b"}}]`, shape: ShapeBareArray, ids: []string{"a", "b"}},
		{name: "order array", body: `{"order":[{"order_id":"a"}]}`, shape: ShapeOrderArray, ids: []string{"a"}},
		{name: "drops entries without id", body: `[{"order_id":"a"},{"order_status":"cook"},{"order":{}}]`, shape: ShapeBareArray, ids: []string{"a"}},
		{name: "null", body: `null`, shape: ShapeEmpty},
		{name: "empty", body: ``, shape: ShapeEmpty},
		{name: "empty array", body: `[]`, shape: ShapeBareArray},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := NormalizeCookQueue([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.shape, q.Shape)
			ids := []string{}
			for _, o := range q.Orders {
				ids = append(ids, o.ID)
			}
			want := tc.ids
			if want == nil {
				want = []string{}
			}
			assert.Equal(t, want, ids)
			assert.NotNil(t, q.Orders)
		})
	}
}

func TestNormalizeCookQueue_ObjectWithoutOrdersIsEmpty(t *testing.T) {
	for _, body := range []string{
		`{"Orders":null}`,
		`{"orders":null}`,
		`{"order":null}`,
		`{}`,
		`{"Message":"no orders"}`,
		`{"order":"a"}`,
	} {
		q, err := NormalizeCookQueue([]byte(body))
		require.NoErrorf(t, err, "body %s", body)
		assert.Equalf(t, ShapeEmpty, q.Shape, "body %s", body)
		assert.NotNilf(t, q.Orders, "body %s", body)
		assert.Emptyf(t, q.Orders, "body %s", body)
	}
}

func TestNormalizeCookQueue_Unrecognized(t *testing.T) {
	for _, body := range []string{`"text"`, `42`, `true`, `{"Orders":[`, `[1,`} {
		_, err := NormalizeCookQueue([]byte(body))
		assert.ErrorIsf(t, err, ErrUnrecognizedShape, "body %s", body)
	}
}

func TestNormalizeCookQueue_CountsUndecodableEntries(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		ids     []string
		dropped int
	}{
		{name: "bad price in array", body: `{"Orders":[{"order_id":"a"},{"order_id":"b","order_item":[{"menu":{"menu_price":"12"}}]}]}`, ids: []string{"a"}, dropped: 1},
		{name: "scalar elements", body: `[{"order_id":"a"},7,"x"]`, ids: []string{"a"}, dropped: 2},
		{name: "bad single order", body: `{"order":{"order_id":"a","order_item":[{"menu":{"menu_price":"12"}}]}}`, ids: []string{}, dropped: 1},
		{name: "clean", body: `[{"order_id":"a"}]`, ids: []string{"a"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := NormalizeCookQueue([]byte(tc.body))
			require.NoError(t, err)
			ids := []string{}
			for _, o := range q.Orders {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tc.ids, ids)
			assert.Equal(t, tc.dropped, q.Dropped)
		})
	}
}
