// Package config defines the process configuration for the voyage planning
// engine. Configuration is loaded once at startup and is immutable
// thereafter, following 12-Factor principles: values come from the OS
// environment, optionally seeded from a .env file in development.
package config

import "fmt"

// WeatherSourceActual and WeatherSourcePredicted select which grid query
// surface a run plans or simulates against.
const (
	WeatherSourceActual    = "actual"
	WeatherSourcePredicted = "predicted"
)

// Config is the top-level configuration struct. Sub-components receive only
// the subsets they require.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Voyage VoyageConfig
	Ship   ShipConfig
	Store  StoreConfig
}

// VoyageConfig holds the planning parameters recognized by the engine.
type VoyageConfig struct {
	EngineSpeedMinKn    float64 `envconfig:"ENGINE_SPEED_MIN_KN" default:"10" validate:"gt=0"`
	EngineSpeedMaxKn    float64 `envconfig:"ENGINE_SPEED_MAX_KN" default:"14" validate:"gtfield=EngineSpeedMinKn"`
	SpeedCount          int     `envconfig:"SPEED_DISCRETIZATION_COUNT" default:"9" validate:"min=2"`
	SlotHours           float64 `envconfig:"TIME_SLOT_STEP_HOURS" default:"0.1" validate:"gt=0"`
	BudgetHours         float64 `envconfig:"ARRIVAL_TIME_BUDGET_HOURS" validate:"required,gt=0"`
	ReplanIntervalHours float64 `envconfig:"REPLAN_INTERVAL_HOURS" default:"24" validate:"gt=0"`
	ForecastIssueHour   int     `envconfig:"FORECAST_ISSUE_HOUR" default:"0" validate:"min=0"`
	WeatherSource       string  `envconfig:"WEATHER_SOURCE" default:"actual" validate:"oneof=actual predicted"`
}

// ShipConfig calibrates the vessel performance model.
type ShipConfig struct {
	DesignSpeedKn float64 `envconfig:"SHIP_DESIGN_SPEED_KN" default:"14" validate:"gt=0"`
	WaterlineM    float64 `envconfig:"SHIP_WATERLINE_M" default:"180" validate:"gt=0"`
	FuelCoeffT    float64 `envconfig:"SHIP_FUEL_COEFF_T" default:"0.00055" validate:"gt=0"`
	FuelExponent  float64 `envconfig:"SHIP_FUEL_EXPONENT" default:"3.0" validate:"min=2.7,max=3.3"`
}

// StoreConfig selects the weather store backend. When DatabaseURL is set the
// PostgreSQL repository is used; otherwise SnapshotPath must point at a
// zstd-compressed snapshot file.
type StoreConfig struct {
	SnapshotPath string `envconfig:"WEATHER_SNAPSHOT_PATH"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`
}

// Validate applies the cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	if c.Store.SnapshotPath == "" && c.Store.DatabaseURL == "" {
		return fmt.Errorf("either WEATHER_SNAPSHOT_PATH or DATABASE_URL must be set")
	}
	return nil
}
