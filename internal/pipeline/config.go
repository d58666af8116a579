package pipeline

import (
	"encoding/json"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/version"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigVersion is the config format version written by this library.
const ConfigVersion = "1.0.0"

type PipelineConfig struct {
	Version           string                     `yaml:"version" json:"version" jsonschema:"title=Version,description=Config format version (semver),default=1.0.0" validate:"required"`
	SMAShortWindow    int                        `yaml:"sma_short_window" json:"sma_short_window" jsonschema:"title=SMA Short Window,description=Rows in the short simple moving average (output column sma10),minimum=1,default=10" validate:"gt=0"`
	SMALongWindow     int                        `yaml:"sma_long_window" json:"sma_long_window" jsonschema:"title=SMA Long Window,description=Rows in the long simple moving average (output column sma30),minimum=1,default=30" validate:"gt=0"`
	EMAShortSpan      int                        `yaml:"ema_short_span" json:"ema_short_span" jsonschema:"title=EMA Short Span,description=Span of the short exponential moving average (output column ema12),minimum=1,default=12" validate:"gt=0"`
	EMALongSpan       int                        `yaml:"ema_long_span" json:"ema_long_span" jsonschema:"title=EMA Long Span,description=Span of the long exponential moving average (output column ema26),minimum=1,default=26" validate:"gt=0"`
	RSIWindow         int                        `yaml:"rsi_window" json:"rsi_window" jsonschema:"title=RSI Window,description=Rows in the RSI gain/loss means,minimum=1,default=14" validate:"gt=0"`
	BBandWindow       int                        `yaml:"bband_window" json:"bband_window" jsonschema:"title=Bollinger Window,description=Rows in the Bollinger Band mean and sample standard deviation,minimum=2,default=30" validate:"gte=2"`
	BBandK            float64                    `yaml:"bband_k" json:"bband_k" jsonschema:"title=Bollinger K,description=Standard deviation multiplier of the Bollinger Bands,exclusiveMinimum=0,default=2" validate:"gt=0"`
	ROCPeriods        int                        `yaml:"roc_periods" json:"roc_periods" jsonschema:"title=ROC Periods,description=Lag of the rate of change,minimum=1,default=10" validate:"gt=0"`
	SpreadMAWindow    int                        `yaml:"spread_ma_window" json:"spread_ma_window" jsonschema:"title=Spread MA Window,description=Rows in the NAV-price spread moving average (output column nav_price_spread_ma10),minimum=1,default=10" validate:"gt=0"`
	SpreadThreshold   float64                    `yaml:"spread_threshold" json:"spread_threshold" jsonschema:"title=Spread Threshold,description=Spread percentage beyond which a Buy or Sell signal is emitted,exclusiveMinimum=0,default=0.5" validate:"gt=0"`
	StrengthThreshold float64                    `yaml:"strength_threshold" json:"strength_threshold" jsonschema:"title=Strength Threshold,description=Divisor turning the absolute spread percentage into signal strength,exclusiveMinimum=0,default=0.2" validate:"gt=0"`
	Workers           int                        `yaml:"workers" json:"workers" jsonschema:"title=Workers,description=Instruments computed concurrently,minimum=1,default=1" validate:"gt=0"`
	DecimalPrecision  int                        `yaml:"decimal_precision" json:"decimal_precision" jsonschema:"title=Decimal Precision,description=Decimal places kept when exporting features,minimum=0,maximum=15,default=6" validate:"gte=0,lte=15"`
	StartTime         optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional inclusive lower bound on observation dates"`
	EndTime           optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional inclusive upper bound on observation dates"`
}

// UnmarshalYAML implements custom unmarshaling for PipelineConfig.
// Keys missing from the document keep their default values.
func (c *PipelineConfig) UnmarshalYAML(value *yaml.Node) error {
	type Config struct {
		Version           *string    `yaml:"version"`
		SMAShortWindow    *int       `yaml:"sma_short_window"`
		SMALongWindow     *int       `yaml:"sma_long_window"`
		EMAShortSpan      *int       `yaml:"ema_short_span"`
		EMALongSpan       *int       `yaml:"ema_long_span"`
		RSIWindow         *int       `yaml:"rsi_window"`
		BBandWindow       *int       `yaml:"bband_window"`
		BBandK            *float64   `yaml:"bband_k"`
		ROCPeriods        *int       `yaml:"roc_periods"`
		SpreadMAWindow    *int       `yaml:"spread_ma_window"`
		SpreadThreshold   *float64   `yaml:"spread_threshold"`
		StrengthThreshold *float64   `yaml:"strength_threshold"`
		Workers           *int       `yaml:"workers"`
		DecimalPrecision  *int       `yaml:"decimal_precision"`
		StartTime         *time.Time `yaml:"start_time"`
		EndTime           *time.Time `yaml:"end_time"`
	}

	var config Config
	if err := value.Decode(&config); err != nil {
		return err
	}

	*c = EmptyConfig()

	setIfPresent(&c.Version, config.Version)
	setIfPresent(&c.SMAShortWindow, config.SMAShortWindow)
	setIfPresent(&c.SMALongWindow, config.SMALongWindow)
	setIfPresent(&c.EMAShortSpan, config.EMAShortSpan)
	setIfPresent(&c.EMALongSpan, config.EMALongSpan)
	setIfPresent(&c.RSIWindow, config.RSIWindow)
	setIfPresent(&c.BBandWindow, config.BBandWindow)
	setIfPresent(&c.BBandK, config.BBandK)
	setIfPresent(&c.ROCPeriods, config.ROCPeriods)
	setIfPresent(&c.SpreadMAWindow, config.SpreadMAWindow)
	setIfPresent(&c.SpreadThreshold, config.SpreadThreshold)
	setIfPresent(&c.StrengthThreshold, config.StrengthThreshold)
	setIfPresent(&c.Workers, config.Workers)
	setIfPresent(&c.DecimalPrecision, config.DecimalPrecision)

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// MarshalYAML writes the time bounds as timestamps and leaves them out when unset.
func (c PipelineConfig) MarshalYAML() (any, error) {
	type Config struct {
		Version           string     `yaml:"version"`
		SMAShortWindow    int        `yaml:"sma_short_window"`
		SMALongWindow     int        `yaml:"sma_long_window"`
		EMAShortSpan      int        `yaml:"ema_short_span"`
		EMALongSpan       int        `yaml:"ema_long_span"`
		RSIWindow         int        `yaml:"rsi_window"`
		BBandWindow       int        `yaml:"bband_window"`
		BBandK            float64    `yaml:"bband_k"`
		ROCPeriods        int        `yaml:"roc_periods"`
		SpreadMAWindow    int        `yaml:"spread_ma_window"`
		SpreadThreshold   float64    `yaml:"spread_threshold"`
		StrengthThreshold float64    `yaml:"strength_threshold"`
		Workers           int        `yaml:"workers"`
		DecimalPrecision  int        `yaml:"decimal_precision"`
		StartTime         *time.Time `yaml:"start_time,omitempty"`
		EndTime           *time.Time `yaml:"end_time,omitempty"`
	}

	config := Config{
		Version:           c.Version,
		SMAShortWindow:    c.SMAShortWindow,
		SMALongWindow:     c.SMALongWindow,
		EMAShortSpan:      c.EMAShortSpan,
		EMALongSpan:       c.EMALongSpan,
		RSIWindow:         c.RSIWindow,
		BBandWindow:       c.BBandWindow,
		BBandK:            c.BBandK,
		ROCPeriods:        c.ROCPeriods,
		SpreadMAWindow:    c.SpreadMAWindow,
		SpreadThreshold:   c.SpreadThreshold,
		StrengthThreshold: c.StrengthThreshold,
		Workers:           c.Workers,
		DecimalPrecision:  c.DecimalPrecision,
		StartTime:         nil,
		EndTime:           nil,
	}

	if c.StartTime.IsSome() {
		start := c.StartTime.Unwrap()
		config.StartTime = &start
	}

	if c.EndTime.IsSome() {
		end := c.EndTime.Unwrap()
		config.EndTime = &end
	}

	return config, nil
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Validate checks field ranges, the time bounds and the config version.
func (c *PipelineConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid pipeline config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "end_time %s is before start_time %s",
			c.EndTime.Unwrap().Format(time.RFC3339), c.StartTime.Unwrap().Format(time.RFC3339))
	}

	return version.CheckConfigCompatibility(version.GetVersion(), c.Version)
}

// GenerateSchema generates a JSON schema for the PipelineConfig
func (c *PipelineConfig) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "feature-pipeline-config"
	schema.Description = "Configuration schema for the ETF feature pipeline"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the PipelineConfig
func (c *PipelineConfig) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// ParseConfig decodes a YAML document into a validated PipelineConfig.
func ParseConfig(data []byte) (PipelineConfig, error) {
	config := EmptyConfig()

	if err := yaml.Unmarshal(data, &config); err != nil {
		return PipelineConfig{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse pipeline config", err)
	}

	if err := config.Validate(); err != nil {
		return PipelineConfig{}, err
	}

	return config, nil
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PipelineConfig{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return ParseConfig(data)
}

// EmptyConfig returns a PipelineConfig with default values
func EmptyConfig() PipelineConfig {
	return PipelineConfig{
		Version:           ConfigVersion,
		SMAShortWindow:    10,
		SMALongWindow:     30,
		EMAShortSpan:      12,
		EMALongSpan:       26,
		RSIWindow:         14,
		BBandWindow:       30,
		BBandK:            2.0,
		ROCPeriods:        10,
		SpreadMAWindow:    10,
		SpreadThreshold:   0.5,
		StrengthThreshold: 0.2,
		Workers:           1,
		DecimalPrecision:  6,
		StartTime:         optional.None[time.Time](),
		EndTime:           optional.None[time.Time](),
	}
}
