package cli

import (
	"bytes"
	"testing"

	"github.com/forpus/forpus/pkg/forpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestResourceTitle(t *testing.T) {
	assert.Equal(t, "Securities", resourceTitle(forpus.Securities))
	assert.Equal(t, "Security Types", resourceTitle(forpus.SecurityTypes))
	assert.Equal(t, "Time Volumes", resourceTitle(forpus.TimeVolumes))
}

func TestPrintResourceListHumanReadable(t *testing.T) {
	tests := []struct {
		name     string
		resource forpus.Resource
		body     string
		expected string
	}{
		{
			name:     "list of named items",
			resource: forpus.Securities,
			body:     `[{"id":1,"name":"PETR4"},{"id":2,"name":"VALE3"}]`,
			expected: "Securities:\n- 1: PETR4\n- 2: VALE3\n",
		},
		{
			name:     "list wrapped in the resource path",
			resource: forpus.PriceTypes,
			body:     `{"price_types":[{"id":3,"name":"close"}]}`,
			expected: "Price Types:\n- 3: close\n",
		},
		{
			name:     "prices summarized by date",
			resource: forpus.Prices,
			body:     `[{"id":7,"date":"2017-01-02","value":15.5}]`,
			expected: "Prices:\n- 7: 2017-01-02\n",
		},
		{
			name:     "empty list",
			resource: forpus.Frequencies,
			body:     `[]`,
			expected: "Frequencies:\n",
		},
		{
			name:     "unexpected shape",
			resource: forpus.TimeWeights,
			body:     `{"status":"ok"}`,
			expected: "Time Weights:\nRaw response: {\"status\":\"ok\"}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &forpus.Response{StatusCode: 200, Raw: []byte(tt.body)}
			require.NoError(t, resp.Decode(&resp.Value))

			var buf bytes.Buffer
			require.NoError(t, printResourceListHumanReadable(&buf, tt.resource, resp))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestSummarizeItem(t *testing.T) {
	assert.Equal(t, "4: ITUB4", summarizeItem(gjson.Parse(`{"id":4,"symbol":"ITUB4"}`)))
	assert.Equal(t, "daily", summarizeItem(gjson.Parse(`{"name":"daily"}`)))
	assert.Equal(t, "9", summarizeItem(gjson.Parse(`{"id":9,"other":true}`)))
	assert.Equal(t, `{"other":true}`, summarizeItem(gjson.Parse(`{"other":true}`)))
}

func TestAPIError(t *testing.T) {
	assert.NoError(t, apiError(nil))
	assert.NoError(t, apiError(&forpus.Response{Value: []any{}}))
	err := apiError(&forpus.Response{Value: map[string]any{"error": "Security not found"}})
	assert.EqualError(t, err, "api error: Security not found")
}
