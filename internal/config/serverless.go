package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = &ServerlessConfig{
			IsLambda:     isRunningInLambda(),
			FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			Region:       os.Getenv("AWS_REGION"),
			Stage:        GetEnv("STAGE", "dev"),
		}
	})
	return serverlessConfig
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// LogFields describes the deployment for startup logging
func (sc *ServerlessConfig) LogFields() logrus.Fields {
	fields := logrus.Fields{
		"deployment_mode": "server",
		"stage":           sc.Stage,
	}
	if sc.IsLambda {
		fields["deployment_mode"] = "serverless"
		fields["function_name"] = sc.FunctionName
	}
	return fields
}

// AdaptConfigForServerless modifies configuration for serverless deployment
func AdaptConfigForServerless(config *Config, sc *ServerlessConfig) *Config {
	if sc == nil || !sc.IsLambda {
		return config
	}

	// CloudWatch indexes JSON log lines
	config.Log.Format = "json"

	if config.Storage.Region == "" {
		config.Storage.Region = sc.Region
	}

	// /tmp is the only writable path inside a Lambda sandbox
	if config.Storage.Type == "sqlite" {
		config.Storage.SQLitePath = filepath.Join(os.TempDir(), filepath.Base(config.Storage.SQLitePath))
	}

	return config
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	return AdaptConfigForServerless(config, GetServerlessConfig()), nil
}
