package forpus

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterPrices(t *testing.T) {
	ctx := context.Background()

	t.Run("only given criteria are sent", func(t *testing.T) {
		api := newFakeAPI(t)
		api.reply = `[]`
		c := newTestClient(t, api)

		_, err := c.FilterPrices(ctx, PriceFilter{SecurityID: 1, PriceTypeID: 2, Limit: 10})
		require.NoError(t, err)

		call := api.lastCall()
		assert.Equal(t, http.MethodGet, call.Method)
		assert.Equal(t, "/api/v1/filter_price", call.Path)
		assert.Equal(t, url.Values{
			"security_id":   {"1"},
			"price_type_id": {"2"},
			"limit":         {"10"},
		}, call.Query)
	})

	t.Run("dates and order", func(t *testing.T) {
		api := newFakeAPI(t)
		c := newTestClient(t, api)

		_, err := c.FilterPrices(ctx, PriceFilter{
			SecurityID:  1,
			PriceTypeID: 2,
			StartDate:   time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2017, 3, 31, 0, 0, 0, 0, time.UTC),
			Order:       OrderAsc,
		})
		require.NoError(t, err)

		q := api.lastCall().Query
		assert.Equal(t, "2017-01-02", q.Get("start_date"))
		assert.Equal(t, "2017-03-31", q.Get("end_date"))
		assert.Equal(t, "asc", q.Get("order"))
		assert.NotContains(t, q, "limit")
	})

	t.Run("raw criteria pass through", func(t *testing.T) {
		api := newFakeAPI(t)
		c := newTestClient(t, api)

		_, err := c.FilterPricesParams(ctx, Params{"security_id": 1, "price_type_id": "2", "limit": 5000, "order": "sideways"})
		require.NoError(t, err)

		assert.Equal(t, url.Values{
			"security_id":   {"1"},
			"price_type_id": {"2"},
			"limit":         {"5000"},
			"order":         {"sideways"},
		}, api.lastCall().Query)
	})
}

func TestParamsValues(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   url.Values
	}{
		{name: "empty", params: Params{}, want: nil},
		{name: "nil values are dropped", params: Params{"a": 1, "b": nil}, want: url.Values{"a": {"1"}}},
		{name: "slice repeats the key", params: Params{"security_id": []int{1, 2}}, want: url.Values{"security_id": {"1", "2"}}},
		{name: "array repeats the key", params: Params{"order": [2]string{"asc", "desc"}}, want: url.Values{"order": {"asc", "desc"}}},
		{name: "empty slice", params: Params{"security_id": []int64{}}, want: url.Values{}},
		{name: "bytes are a single value", params: Params{"name": []byte("PETR4")}, want: url.Values{"name": {"PETR4"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Values())
		})
	}

	t.Run("repeated keys reach the server", func(t *testing.T) {
		api := newFakeAPI(t)
		c := newTestClient(t, api)

		_, err := c.FilterPricesParams(context.Background(), Params{"security_id": []int{1, 2}})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, api.lastCall().Query["security_id"])
	})
}
