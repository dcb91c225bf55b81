package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for key, value := range vars {
		t.Setenv(key, value)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{TableNameEnv: "posts"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.TableName != "posts" {
					t.Errorf("Expected table posts, got %s", cfg.TableName)
				}
				if cfg.Storage.Type != "dynamodb" {
					t.Errorf("Expected default storage dynamodb, got %s", cfg.Storage.Type)
				}
				if cfg.Port != "8081" {
					t.Errorf("Expected default port 8081, got %s", cfg.Port)
				}
				if cfg.Log.Level != "info" {
					t.Errorf("Expected default log level info, got %s", cfg.Log.Level)
				}
			},
		},
		{
			name: "sqlite storage",
			envVars: map[string]string{
				TableNameEnv:  "posts",
				"STORAGE_TYPE": "sqlite",
				"SQLITE_PATH":  "/var/lib/posts.db",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Storage.SQLitePath != "/var/lib/posts.db" {
					t.Errorf("Expected sqlite path override, got %s", cfg.Storage.SQLitePath)
				}
			},
		},
		{
			name:    "missing table name",
			envVars: map[string]string{TableNameEnv: ""},
			wantErr: true,
		},
		{
			name:    "unknown storage type",
			envVars: map[string]string{TableNameEnv: "posts", "STORAGE_TYPE": "redis"},
			wantErr: true,
		},
		{
			name:    "bad endpoint",
			envVars: map[string]string{TableNameEnv: "posts", "DYNAMODB_ENDPOINT": "not a url"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.envVars)

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && cfg != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestTableNameFunc(t *testing.T) {
	cfg := &Config{TableName: "from-config"}
	tableName := cfg.TableNameFunc()

	t.Setenv(TableNameEnv, "")
	if got := tableName(); got != "from-config" {
		t.Errorf("Expected fallback table, got %s", got)
	}

	t.Setenv(TableNameEnv, "from-env")
	if got := tableName(); got != "from-env" {
		t.Errorf("Expected table from environment, got %s", got)
	}
}

func TestAdaptConfigForServerless(t *testing.T) {
	base := func() *Config {
		return &Config{
			Storage: StorageConfig{Type: "sqlite", SQLitePath: "./data/posts.db"},
			Log:     LogConfig{Level: "info", Format: "text"},
		}
	}

	t.Run("server mode is untouched", func(t *testing.T) {
		cfg := AdaptConfigForServerless(base(), &ServerlessConfig{IsLambda: false})
		if cfg.Log.Format != "text" || cfg.Storage.SQLitePath != "./data/posts.db" {
			t.Errorf("config should not change outside Lambda: %+v", cfg)
		}
	})

	t.Run("lambda mode", func(t *testing.T) {
		cfg := AdaptConfigForServerless(base(), &ServerlessConfig{IsLambda: true, Region: "eu-west-1"})
		if cfg.Log.Format != "json" {
			t.Errorf("Expected json logs, got %s", cfg.Log.Format)
		}
		if cfg.Storage.Region != "eu-west-1" {
			t.Errorf("Expected region from runtime, got %s", cfg.Storage.Region)
		}
		if want := filepath.Join(os.TempDir(), "posts.db"); cfg.Storage.SQLitePath != want {
			t.Errorf("Expected sqlite path %s, got %s", want, cfg.Storage.SQLitePath)
		}
	})
}

func TestServerlessLogFields(t *testing.T) {
	t.Run("Server", func(t *testing.T) {
		fields := (&ServerlessConfig{Stage: "dev"}).LogFields()
		if fields["deployment_mode"] != "server" || fields["stage"] != "dev" {
			t.Errorf("Unexpected fields: %v", fields)
		}
		if _, ok := fields["function_name"]; ok {
			t.Error("function_name should only be set in Lambda")
		}
	})

	t.Run("Lambda", func(t *testing.T) {
		fields := (&ServerlessConfig{IsLambda: true, FunctionName: "getpost", Stage: "prod"}).LogFields()
		if fields["deployment_mode"] != "serverless" {
			t.Errorf("Expected serverless mode, got %v", fields["deployment_mode"])
		}
		if fields["function_name"] != "getpost" || fields["stage"] != "prod" {
			t.Errorf("Unexpected fields: %v", fields)
		}
	})
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(&Config{Log: LogConfig{Level: "debug", Format: "json"}})
	if logger.GetLevel().String() != "debug" {
		t.Errorf("Expected debug level, got %s", logger.GetLevel())
	}

	logger = NewLogger(&Config{Log: LogConfig{Level: "bogus", Format: "text"}})
	if logger.GetLevel().String() != "info" {
		t.Errorf("Expected fallback info level, got %s", logger.GetLevel())
	}
}
