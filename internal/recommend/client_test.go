package recommend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/preferences"
)

func newTestClient(t *testing.T, h http.HandlerFunc, attempts int) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		BaseURL:       srv.URL + "/",
		Timeout:       time.Second,
		RetryAttempts: attempts,
		RetryInitial:  time.Millisecond,
		RetryMax:      2 * time.Millisecond,
	})
}

func intPtr(v int) *int { return &v }

func TestRecommendSendsOnlyProvidedFields(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/recommendations", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"recommendations":[{"rank":1,"name":"Logitech G Pro X Superlight","brand":"Logitech","price":1899000,"specs":{"dpi":"25,600","weight":63,"battery_life":null},"similarity_score":0.9876}]}`)
	}, 1)

	resp, err := client.Recommend(context.Background(), preferences.Preferences{Brand: "Logitech", DPIMin: intPtr(800)})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"brand": "Logitech", "dpi_min": float64(800)}, got)
	require.Len(t, resp.Recommendations, 1)
	rec := resp.Recommendations[0]
	assert.Equal(t, 1, rec.Rank)
	assert.True(t, rec.Price.IsNumber())
	assert.Equal(t, "1899000", rec.Price.String())
	assert.Equal(t, "25,600", rec.Specs.DPI.String())
	assert.Equal(t, "63", rec.Specs.Weight.String())
	assert.True(t, rec.Specs.BatteryLife.IsNull())
	assert.True(t, rec.Specs.Shape.IsNull(), "absent spec is null")
	f, ok := rec.SimilarityScore.Float()
	require.True(t, ok)
	assert.InDelta(t, 0.9876, f, 1e-9)
}

func TestRecommendDecodesStringFormattedRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"recommendations":[{
			"rank":1,
			"name":"Logitech G Pro X Superlight",
			"brand":"Logitech",
			"price":"Rp 1,899,000",
			"similarity_score":"0.988",
			"image":"logitech-g-pro-x-superlight.jpeg",
			"image_url":"/static/images/logitech-g-pro-x-superlight.jpeg",
			"specs":{
				"connection":"Wireless",
				"dpi":"25,600",
				"weight":"63g",
				"buttons":5,
				"size":"Medium",
				"shape":"Symmetrical",
				"battery_life":"70 hours",
				"polling_rate":"1000",
				"button_type":"Optical"
			},
			"category":"Gaming",
			"link":null
		}]}`)
	}, 1)

	resp, err := client.Recommend(context.Background(), preferences.Preferences{})
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 1)
	rec := resp.Recommendations[0]
	assert.Equal(t, "Rp 1,899,000", rec.Price.String())
	assert.False(t, rec.Price.IsNumber())
	assert.Equal(t, "0.988", rec.SimilarityScore.String())
	assert.Equal(t, "63g", rec.Specs.Weight.String())
	assert.True(t, rec.Specs.Buttons.IsNumber())
	assert.Equal(t, "5", rec.Specs.Buttons.String())
	assert.Equal(t, "logitech-g-pro-x-superlight.jpeg", rec.Image)
	assert.Empty(t, rec.Link)
}

func TestNumbersAreNormalized(t *testing.T) {
	var specs Specs
	require.NoError(t, json.Unmarshal([]byte(`{"dpi":12000.0,"polling_rate":1e3,"weight":63.5}`), &specs))
	assert.Equal(t, "12000", specs.DPI.String())
	assert.Equal(t, "1000", specs.PollingRate.String())
	assert.Equal(t, "63.5", specs.Weight.String())
}

func TestRecommendRetriesServerErrors(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"recommendations":[]}`)
	}, 3)

	resp, err := client.Recommend(context.Background(), preferences.Preferences{})
	require.NoError(t, err)
	assert.Empty(t, resp.Recommendations)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRecommendStopsAfterConfiguredAttempts(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "down", http.StatusBadGateway)
	}, 2)

	_, err := client.Recommend(context.Background(), preferences.Preferences{})
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindStatus, rerr.Kind)
	assert.Equal(t, http.StatusBadGateway, rerr.Status)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":"bad"}`, http.StatusBadRequest)
	}, 3)

	_, err := client.Recommend(context.Background(), preferences.Preferences{})
	require.Error(t, err)
	assert.Equal(t, KindStatus, KindOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMalformedResponseIsClassified(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.WriteString(w, `{"recommendations": [ {"rank": 1,`)
	}, 3)

	_, err := client.Recommend(context.Background(), preferences.Preferences{})
	require.Error(t, err)
	assert.Equal(t, KindMalformed, KindOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "malformed bodies are permanent")
}

func TestTransportErrorIsClassified(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewClient(ClientConfig{BaseURL: base, RetryAttempts: 2, RetryInitial: time.Millisecond})
	_, err := client.Options(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestFixtureModeWithoutBaseURL(t *testing.T) {
	client := NewClient(ClientConfig{})
	require.True(t, client.UsesFixtures())

	opts, err := client.Options(context.Background())
	require.NoError(t, err)
	assert.Contains(t, opts.Brands, "Logitech")

	resp, err := client.Recommend(context.Background(), preferences.Preferences{Brand: "razer"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Recommendations)
	for i, rec := range resp.Recommendations {
		assert.Equal(t, "Razer", rec.Brand)
		assert.Equal(t, i+1, rec.Rank)
	}

	resp, err = client.Recommend(context.Background(), preferences.Preferences{Brand: "Nobody"})
	require.NoError(t, err)
	assert.Empty(t, resp.Recommendations)
	assert.NotEmpty(t, resp.Message)
}

func TestValueRejectsObjects(t *testing.T) {
	var v Value
	require.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v))
	require.NoError(t, json.Unmarshal([]byte(`"Wireless"`), &v))
	assert.Equal(t, "Wireless", v.String())

	out, err := json.Marshal(Specs{DPI: NumberValue(12000)})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"dpi":12000`)
	assert.Contains(t, string(out), `"shape":null`)
}
