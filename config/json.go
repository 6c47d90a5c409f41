package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/MKhiriev/go-api-kit/postgres"
	"github.com/MKhiriev/go-api-kit/token"
)

// StructuredJSONConfig mirrors StructuredConfig with JSON-friendly field
// types (durations as "1h"-style strings).
type StructuredJSONConfig struct {
	Token struct {
		Algorithms []string `json:"algorithms"`
		Secret     string   `json:"secret"`
		KeyPath    string   `json:"key_path"`
		Issuer     string   `json:"issuer"`
		TTL        Duration `json:"ttl"`
	} `json:"token,omitempty"`

	Storage struct {
		DB struct {
			DSN             string   `json:"dsn"`
			MinConns        int32    `json:"min_conns"`
			MaxConns        int32    `json:"max_conns"`
			AcquireTimeout  Duration `json:"acquire_timeout"`
			RetryAttempts   int      `json:"retry_attempts"`
			RetryBackoff    Duration `json:"retry_backoff"`
			RetryJitter     Duration `json:"retry_jitter"`
			MaxConnLifetime Duration `json:"max_conn_lifetime"`
			MaxConnIdleTime Duration `json:"max_conn_idle_time"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Security struct {
		APIKeyHeader  string   `json:"api_key_header"`
		APIKeyAllowed []string `json:"api_key_allowed"`
	} `json:"security,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Token: token.KeyConfig{
			Algorithms: jsonCfg.Token.Algorithms,
			Secret:     jsonCfg.Token.Secret,
			KeyPath:    jsonCfg.Token.KeyPath,
			Issuer:     jsonCfg.Token.Issuer,
		},
		TokenTTL: time.Duration(jsonCfg.Token.TTL),
		DB: postgres.Config{
			DSN:             jsonCfg.Storage.DB.DSN,
			MinConns:        jsonCfg.Storage.DB.MinConns,
			MaxConns:        jsonCfg.Storage.DB.MaxConns,
			AcquireTimeout:  time.Duration(jsonCfg.Storage.DB.AcquireTimeout),
			MaxConnLifetime: time.Duration(jsonCfg.Storage.DB.MaxConnLifetime),
			MaxConnIdleTime: time.Duration(jsonCfg.Storage.DB.MaxConnIdleTime),
			Retry: postgres.RetryPolicy{
				MaxAttempts: jsonCfg.Storage.DB.RetryAttempts,
				BaseBackoff: time.Duration(jsonCfg.Storage.DB.RetryBackoff),
				Jitter:      time.Duration(jsonCfg.Storage.DB.RetryJitter),
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		JSONFilePath: "",
	}
	cfg.APIKey.Header = jsonCfg.Security.APIKeyHeader
	cfg.APIKey.AllowedKeys = jsonCfg.Security.APIKeyAllowed

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
