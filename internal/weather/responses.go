package weather

type GeocodingResponse struct {
	Results          []Location `json:"results"`
	GenerationTimeMs float64    `json:"generationtime_ms"`
}

type Location struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Elevation   float64 `json:"elevation"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country"`
	Timezone    string  `json:"timezone"`
}

type ForecastResponse struct {
	Latitude    float64      `json:"latitude"`
	Longitude   float64      `json:"longitude"`
	Timezone    string       `json:"timezone"`
	HourlyUnits HourlyUnits  `json:"hourly_units"`
	Hourly      HourlySeries `json:"hourly"`
}

type HourlyUnits struct {
	Time          string `json:"time"`
	Temperature2m string `json:"temperature_2m"`
}

// HourlySeries holds parallel arrays; missing readings come as null.
type HourlySeries struct {
	Time          []string   `json:"time"`
	Temperature2m []*float64 `json:"temperature_2m"`
}
