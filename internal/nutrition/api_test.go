package nutrition_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/nutribot/internal/nutrition"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appleResponse = `{"items": [{"name": "apple", "calories": 53.0, "serving_size_g": 100.0, "fat_total_g": 0.2, "fat_saturated_g": 0.0, "protein_g": 0.3, "sodium_mg": 1, "potassium_mg": 11, "cholesterol_mg": 0, "carbohydrates_total_g": 14.1, "fiber_g": 2.4, "sugar_g": 10.3}]}`

func newTestServer(t *testing.T, status int, body string, calls *int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/nutrition", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestApi_Lookup_NoCache(t *testing.T) {
	calls := 0
	server := newTestServer(t, http.StatusOK, appleResponse, &calls)
	api := nutrition.NewApi(server.URL+"/v1/", "test-key", server.Client(), nil)

	facts, err := api.Lookup(context.Background(), "Apple")
	require.NoError(t, err)
	assert.Equal(t, &nutrition.Facts{
		Name:            "apple",
		CaloriesPer100g: 53,
		FatPer100g:      0.2,
		ProteinPer100g:  0.3,
		CarbsPer100g:    14.1,
	}, facts)

	_, err = api.Lookup(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestApi_Lookup_QueryEscaped(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(appleResponse))
	}))
	defer server.Close()

	api := nutrition.NewApi(server.URL, "test-key", server.Client(), nil)
	_, err := api.Lookup(context.Background(), "green apple & honey")
	require.NoError(t, err)
	assert.Equal(t, "green apple & honey", query)
}

func TestApi_Lookup_RedisCache(t *testing.T) {
	calls := 0
	server := newTestServer(t, http.StatusOK, appleResponse, &calls)

	db, mock := redismock.NewClientMock()
	api := nutrition.NewApi(server.URL+"/v1", "test-key", server.Client(), db)

	// cache miss, api called and response cached
	mock.ExpectGet("nutrition::apple").RedisNil()
	mock.ExpectSet("nutrition::apple", appleResponse, 24*time.Hour).SetVal("OK")
	facts, err := api.Lookup(context.Background(), " Apple ")
	require.NoError(t, err)
	assert.Equal(t, 53.0, facts.CaloriesPer100g)
	assert.Equal(t, 1, calls)

	// cache hit
	mock.ExpectGet("nutrition::apple").SetVal(appleResponse)
	facts, err = api.Lookup(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, 14.1, facts.CarbsPer100g)
	assert.Equal(t, 1, calls)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApi_Lookup_RedisFailureIgnored(t *testing.T) {
	calls := 0
	server := newTestServer(t, http.StatusOK, appleResponse, &calls)

	db, mock := redismock.NewClientMock()
	api := nutrition.NewApi(server.URL+"/v1", "test-key", server.Client(), db)

	mock.ExpectGet("nutrition::apple").SetErr(errors.New("connection refused"))
	mock.ExpectSet("nutrition::apple", appleResponse, 24*time.Hour).SetErr(errors.New("connection refused"))

	facts, err := api.Lookup(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, "apple", facts.Name)
	assert.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApi_Lookup_NotFound(t *testing.T) {
	calls := 0
	server := newTestServer(t, http.StatusOK, `{"items": []}`, &calls)

	db, mock := redismock.NewClientMock()
	api := nutrition.NewApi(server.URL+"/v1", "test-key", server.Client(), db)

	// empty results are not cached
	mock.ExpectGet("nutrition::qwerty").RedisNil()
	_, err := api.Lookup(context.Background(), "qwerty")
	assert.ErrorIs(t, err, nutrition.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = api.Lookup(context.Background(), "  ")
	assert.ErrorIs(t, err, nutrition.ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestApi_Lookup_BadStatus(t *testing.T) {
	calls := 0
	server := newTestServer(t, http.StatusBadRequest, `{"error": "bad key"}`, &calls)
	api := nutrition.NewApi(server.URL+"/v1", "test-key", server.Client(), nil)

	_, err := api.Lookup(context.Background(), "apple")
	assert.ErrorIs(t, err, nutrition.ErrNotFound)
}

func TestApi_Lookup_BrokenBody(t *testing.T) {
	calls := 0
	server := newTestServer(t, http.StatusOK, `{"items": [`, &calls)
	api := nutrition.NewApi(server.URL+"/v1", "test-key", server.Client(), nil)

	_, err := api.Lookup(context.Background(), "apple")
	require.Error(t, err)
	assert.NotErrorIs(t, err, nutrition.ErrNotFound)
}

func TestFacts_Portion(t *testing.T) {
	facts := nutrition.Facts{
		CaloriesPer100g: 250,
		FatPer100g:      0.2,
		ProteinPer100g:  0.3,
		CarbsPer100g:    14.1,
	}

	assert.Equal(t, nutrition.Portion{Calories: 75, Fat: 0, Protein: 0, Carbs: 4}, facts.Portion(30))
	assert.Equal(t, nutrition.Portion{Calories: 375, Fat: 0, Protein: 0, Carbs: 21}, facts.Portion(150))
	assert.Equal(t, nutrition.Portion{}, facts.Portion(0))
}
