package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FeesConfig holds configuration for a single-block fee snapshot.
type FeesConfig struct {
	GraphURL     string
	RPCURL       string
	Block        uint64
	BatchSize    int
	Out          string
	PGDSN        string
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// LoadFees merges config file, environment variables, and flags into FeesConfig.
func LoadFees(cfgFile string, flags *pflag.FlagSet) (FeesConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return FeesConfig{}, err
	}

	cfg := FeesConfig{
		GraphURL:     v.GetString("graph-url"),
		RPCURL:       v.GetString("rpc"),
		Block:        v.GetUint64("block"),
		BatchSize:    v.GetInt("batch-size"),
		Out:          v.GetString("out"),
		PGDSN:        v.GetString("pg-dsn"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

// GrowthConfig holds configuration for a fee growth computation between two blocks.
type GrowthConfig struct {
	GraphURL     string
	RPCURL       string
	BlockStart   uint64
	BlockEnd     uint64
	BatchSize    int
	Out          string
	PGDSN        string
	NoTable      bool
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// LoadGrowth merges config file, environment variables, and flags into GrowthConfig.
func LoadGrowth(cfgFile string, flags *pflag.FlagSet) (GrowthConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return GrowthConfig{}, err
	}

	cfg := GrowthConfig{
		GraphURL:     v.GetString("graph-url"),
		RPCURL:       v.GetString("rpc"),
		BlockStart:   v.GetUint64("block-start"),
		BlockEnd:     v.GetUint64("block-end"),
		BatchSize:    v.GetInt("batch-size"),
		Out:          v.GetString("out"),
		PGDSN:        v.GetString("pg-dsn"),
		NoTable:      v.GetBool("no-table"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("FEESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("batch-size", 1000)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
