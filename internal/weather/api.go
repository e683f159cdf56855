package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/2beens/nutribot/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// example API calls
// https://geocoding-api.open-meteo.com/v1/search?name=Belgrade&count=1&language=en&format=json
// https://api.open-meteo.com/v1/forecast?latitude=44.8&longitude=20.46&hourly=temperature_2m&forecast_days=1

const (
	DefaultGeocodingApiUrl = "https://geocoding-api.open-meteo.com/v1"
	DefaultForecastApiUrl  = "https://api.open-meteo.com/v1"

	oneHour              = 60 * 60
	geocodingCacheExpire = oneHour * 24
	forecastCacheExpire  = oneHour * 1
)

var ErrNotFound = errors.New("not found")

type Api struct {
	cache           *freecache.Cache
	geocodingApiUrl string
	forecastApiUrl  string
	httpClient      *http.Client
}

func NewApi(geocodingApiUrl, forecastApiUrl string, httpClient *http.Client) *Api {
	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte

	return &Api{
		cache:           freecache.NewCache(cacheSize),
		geocodingApiUrl: strings.TrimSuffix(geocodingApiUrl, "/"),
		forecastApiUrl:  strings.TrimSuffix(forecastApiUrl, "/"),
		httpClient:      httpClient,
	}
}

// MaxTemperatureToday returns the highest hourly temperature forecast for
// today in the given city, in degrees Celsius.
func (w *Api) MaxTemperatureToday(ctx context.Context, city string) (maxTemp float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "weatherApi.maxTemperatureToday", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, fmt.Sprintf("found max temperature for: %s", city))
		}
	}()
	span.SetAttributes(attribute.String("city", city))

	location, err := w.GeocodeCity(ctx, city)
	if err != nil {
		return 0, fmt.Errorf("geocode city: %w", err)
	}

	temperatures, err := w.HourlyTemperatures(ctx, location.Latitude, location.Longitude)
	if err != nil {
		return 0, fmt.Errorf("hourly temperatures: %w", err)
	}

	found := false
	for _, t := range temperatures {
		if !found || t > maxTemp {
			maxTemp = t
			found = true
		}
	}
	if !found {
		return 0, ErrNotFound
	}

	log.Debugf("weather-api: max temperature today for %s: %.1f", city, maxTemp)

	return maxTemp, nil
}

// GeocodeCity resolves a city name to its first geocoding match.
func (w *Api) GeocodeCity(ctx context.Context, city string) (*Location, error) {
	cityName := strings.ToLower(strings.TrimSpace(city))
	if cityName == "" {
		return nil, ErrNotFound
	}

	query := url.Values{}
	query.Set("name", cityName)
	query.Set("count", "1")
	query.Set("language", "en")
	query.Set("format", "json")
	geocodingUrl := fmt.Sprintf("%s/search?%s", w.geocodingApiUrl, query.Encode())

	geocodingResp := &GeocodingResponse{}
	cacheKey := fmt.Sprintf("geocode::%s", cityName)
	if err := w.getJSON(ctx, cacheKey, geocodingUrl, geocodingCacheExpire, geocodingResp); err != nil {
		return nil, err
	}

	if len(geocodingResp.Results) == 0 {
		return nil, ErrNotFound
	}

	return &geocodingResp.Results[0], nil
}

// HourlyTemperatures returns today's hourly temperature series, skipping
// hours without a value.
func (w *Api) HourlyTemperatures(ctx context.Context, latitude, longitude float64) ([]float64, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', 4, 64))
	query.Set("hourly", "temperature_2m")
	query.Set("forecast_days", "1")
	forecastUrl := fmt.Sprintf("%s/forecast?%s", w.forecastApiUrl, query.Encode())

	forecastResp := &ForecastResponse{}
	cacheKey := fmt.Sprintf("forecast::%.4f,%.4f", latitude, longitude)
	if err := w.getJSON(ctx, cacheKey, forecastUrl, forecastCacheExpire, forecastResp); err != nil {
		return nil, err
	}

	temperatures := make([]float64, 0, len(forecastResp.Hourly.Temperature2m))
	for _, t := range forecastResp.Hourly.Temperature2m {
		if t != nil {
			temperatures = append(temperatures, *t)
		}
	}

	return temperatures, nil
}

// getJSON decodes the cached body for cacheKey into dst, or calls apiUrl and
// caches the body once it decoded fine.
func (w *Api) getJSON(ctx context.Context, cacheKey, apiUrl string, expire int, dst any) error {
	if cachedBytes, err := w.cache.Get([]byte(cacheKey)); err == nil {
		log.Tracef("weather-api: found [%s] in cache", cacheKey)
		if err = json.Unmarshal(cachedBytes, dst); err == nil {
			return nil
		} else {
			log.Errorf("weather-api: failed to unmarshal cached [%s]: %s", cacheKey, err)
		}
	} else {
		log.Debugf("weather-api: get [%s] from cache: %s; will call the api", cacheKey, err)
	}

	log.Debugf("weather-api: calling: %s", apiUrl)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiUrl, nil)
	if err != nil {
		return err
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read weather api response bytes: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather api responded with status %d: %s", resp.StatusCode, respBytes)
	}

	if err := json.Unmarshal(respBytes, dst); err != nil {
		return fmt.Errorf("unmarshal weather api response bytes: %w", err)
	}

	if err = w.cache.Set([]byte(cacheKey), respBytes, expire); err != nil {
		log.Errorf("weather-api: failed to write cache for [%s]: %s", cacheKey, err)
	} else {
		log.Tracef("weather-api: cache set for [%s]", cacheKey)
	}

	return nil
}
