package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data        DataConfig        `yaml:"data" mapstructure:"data"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Walkability WalkabilityConfig `yaml:"walkability" mapstructure:"walkability"`
	Locality    LocalityConfig    `yaml:"locality" mapstructure:"locality"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the input datasets.
type DataConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	Roads    string `yaml:"roads" mapstructure:"roads"`
	Cadastre string `yaml:"cadastre" mapstructure:"cadastre"`
	GNAF     string `yaml:"gnaf" mapstructure:"gnaf"`
	// SRID declares the coordinate system of shapefile inputs, which carry no
	// usable CRS metadata of their own. Geographic SRIDs are reprojected to
	// web mercator at load.
	SRID int `yaml:"srid" mapstructure:"srid"`
}

// OutputConfig configures where aggregated CSVs are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// MetricConfig is the weight and saturation scale for one density metric.
// Densities at or above the scale contribute the full weight.
type MetricConfig struct {
	Weight float64 `yaml:"weight" mapstructure:"weight"`
	Scale  float64 `yaml:"scale" mapstructure:"scale"`
}

// WalkabilityConfig holds the weights and scales of the combined score.
type WalkabilityConfig struct {
	Road         MetricConfig `yaml:"road" mapstructure:"road"`
	Intersection MetricConfig `yaml:"intersection" mapstructure:"intersection"`
	Parcel       MetricConfig `yaml:"parcel" mapstructure:"parcel"`
}

// LocalityConfig configures the per-locality aggregation driver.
type LocalityConfig struct {
	Field        string  `yaml:"field" mapstructure:"field"`
	BufferMeters float64 `yaml:"buffer_meters" mapstructure:"buffer_meters"`
	MinPoints    int     `yaml:"min_points" mapstructure:"min_points"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("WALK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.roads", "roads.shp")
	v.SetDefault("data.cadastre", "cadastre.shp")
	v.SetDefault("data.gnaf", "gnaf_prop.parquet")
	v.SetDefault("data.srid", 3857)
	v.SetDefault("output.dir", "outputs")
	v.SetDefault("walkability.road.weight", 0.4)
	v.SetDefault("walkability.road.scale", 5.0)
	v.SetDefault("walkability.intersection.weight", 0.4)
	v.SetDefault("walkability.intersection.scale", 100.0)
	v.SetDefault("walkability.parcel.weight", 0.2)
	v.SetDefault("walkability.parcel.scale", 500.0)
	v.SetDefault("locality.field", "locality_name")
	v.SetDefault("locality.buffer_meters", 500.0)
	v.SetDefault("locality.min_points", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
