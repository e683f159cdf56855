package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/nutribot/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// example API call
// curl -H 'X-Api-Key: $NUTRIBOT_CALORIES_API_KEY' 'https://api.calorieninjas.com/v1/nutrition?query=apple'

const (
	DefaultApiUrl = "https://api.calorieninjas.com/v1"

	cacheKeyPrefix = "nutrition::"
	cacheTTL       = 24 * time.Hour
)

var ErrNotFound = errors.New("nutrition data not found")

type Api struct {
	apiUrl      string
	apiKey      string
	httpClient  *http.Client
	redisClient *redis.Client
}

// NewApi returns a CalorieNinjas client. With a nil redisClient responses
// are not cached.
func NewApi(apiUrl, apiKey string, httpClient *http.Client, redisClient *redis.Client) *Api {
	return &Api{
		apiUrl:      strings.TrimSuffix(apiUrl, "/"),
		apiKey:      apiKey,
		httpClient:  httpClient,
		redisClient: redisClient,
	}
}

func CacheKey(food string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(food))
}

// Lookup returns the per 100 g nutrition facts of the first item the API
// matched for food.
func (n *Api) Lookup(ctx context.Context, food string) (facts *Facts, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "nutritionApi.lookup", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, fmt.Sprintf("found nutrition facts for: %s", food))
		}
	}()
	span.SetAttributes(attribute.String("food", food))

	food = strings.TrimSpace(food)
	if food == "" {
		return nil, ErrNotFound
	}

	cacheKey := CacheKey(food)
	if cached, ok := n.fromCache(ctx, cacheKey); ok {
		span.SetAttributes(attribute.Bool("food.from-cache", true))
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("food.from-cache", false))

	nutritionUrl := fmt.Sprintf("%s/nutrition?query=%s", n.apiUrl, url.QueryEscape(food))
	log.Debugf("nutrition-api: calling: %s", nutritionUrl)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nutritionUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", n.apiKey)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read nutrition api response bytes: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Errorf("nutrition-api: status %d for [%s]: %s", resp.StatusCode, food, respBytes)
		return nil, fmt.Errorf("%w: api responded with status %d", ErrNotFound, resp.StatusCode)
	}

	apiResp := &ApiResponse{}
	if err := json.Unmarshal(respBytes, apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal nutrition api response bytes: %w", err)
	}
	if len(apiResp.Items) == 0 {
		return nil, ErrNotFound
	}

	n.toCache(ctx, cacheKey, respBytes)

	return apiResp.Items[0].Facts(), nil
}

func (n *Api) fromCache(ctx context.Context, cacheKey string) (*Facts, bool) {
	if n.redisClient == nil {
		return nil, false
	}

	cmd := n.redisClient.Get(ctx, cacheKey)
	if err := cmd.Err(); err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("nutrition-api: failed to get [%s] from redis: %s", cacheKey, err)
		}
		return nil, false
	}

	apiResp := &ApiResponse{}
	if err := json.Unmarshal([]byte(cmd.Val()), apiResp); err != nil {
		log.Errorf("nutrition-api: failed to unmarshal cached [%s]: %s", cacheKey, err)
		return nil, false
	}
	if len(apiResp.Items) == 0 {
		return nil, false
	}

	log.Tracef("nutrition-api: found [%s] in redis cache", cacheKey)

	return apiResp.Items[0].Facts(), true
}

func (n *Api) toCache(ctx context.Context, cacheKey string, respBytes []byte) {
	if n.redisClient == nil {
		return
	}

	if err := n.redisClient.Set(ctx, cacheKey, string(respBytes), cacheTTL).Err(); err != nil {
		log.Errorf("nutrition-api: failed to cache [%s] in redis: %s", cacheKey, err)
	} else {
		log.Debugf("nutrition-api: cache set in redis for [%s]", cacheKey)
	}
}
