package app

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	metrics_util "github.com/x1-mining-arena/arena-go/pkg/metrics"
)

const metricsShutdownTimeout = 10 * time.Second

// App is the configured environment a command runs in.
type App struct {
	Config BaseConfig

	// Metrics is nil when no New Relic license key is configured.
	Metrics *newrelic.Application
}

// Load resolves the configuration for a command whose flags have been
// parsed into fs, then configures logging and metrics.
//
// Sources, in increasing precedence: defaults, a .env file in the working
// directory, the config file, the environment and flags set on the command
// line.
func Load(fs *pflag.FlagSet) (*App, error) {
	logger := logrus.StandardLogger().WithField("type", "app")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load .env file")
	}

	if err := bindFlags(fs); err != nil {
		return nil, errors.Wrap(err, "failed to bind flags")
	}

	// viper.ReadInConfig only returns ConfigFileNotFoundError if it has to search
	// for a default config file because one hasn't been explicitly set. That is,
	// if we explicitly set a config file, and it does not exist, viper will not
	// return a ConfigFileNotFoundError, so we do it ourselves.
	configPath, _ := fs.GetString("config")
	if len(configPath) > 0 {
		if _, err := os.Stat(configPath); err != nil {
			return nil, errors.Wrapf(err, "failed to check config file %s", configPath)
		}
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
	}

	config := defaultConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if !viper.IsSet("rpc_url") {
		for _, name := range rpcURLFallbackEnvs {
			if value := strings.TrimSpace(os.Getenv(name)); len(value) > 0 {
				config.RPCURL = value
				break
			}
		}
	}

	if len(config.AppName) == 0 {
		return nil, errors.New("must specify an application name")
	}
	if len(config.RPCURL) == 0 {
		return nil, errors.New("must specify an rpc url")
	}

	// todo: Better abstraction so we're not directly tied to NR
	var metricsProvider *newrelic.Application
	if len(config.NewRelicLicenseKey) > 0 {
		nr, err := newrelic.NewApplication(
			newrelic.ConfigFromEnvironment(),
			newrelic.ConfigAppName(config.AppName),
			newrelic.ConfigLicense(config.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			return nil, errors.Wrap(err, "error connecting to new relic")
		}

		metricsProvider = nr
	}

	configureLogger(config, metricsProvider, os.Stderr)

	logger.WithFields(logrus.Fields{
		"rpc_url":    config.RPCURL,
		"program_id": config.ProgramID,
	}).Debug("configuration loaded")

	return &App{
		Config:  config,
		Metrics: metricsProvider,
	}, nil
}

// StartTransaction returns a context carrying a metrics transaction for the
// named command, and a function ending it. Without metrics the context is
// returned unchanged.
func (a *App) StartTransaction(ctx context.Context, name string) (context.Context, func()) {
	if a.Metrics == nil {
		return ctx, func() {}
	}

	txn := a.Metrics.StartTransaction(name)
	ctx = newrelic.NewContext(metrics_util.NewContext(ctx, a.Metrics), txn)
	return ctx, txn.End
}

// Shutdown flushes pending metrics.
func (a *App) Shutdown() {
	if a.Metrics != nil {
		a.Metrics.Shutdown(metricsShutdownTimeout)
	}
}

// LoadKeypair loads the configured wallet.
func (a *App) LoadKeypair() (ed25519.PrivateKey, error) {
	return LoadKeypair(a.Config.Wallet)
}

// LoadKeypair reads a keypair in the Solana CLI format, a JSON array of the
// 64 byte private key.
func LoadKeypair(fileURL string) (ed25519.PrivateKey, error) {
	raw, err := LoadFile(fileURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load keypair %s", fileURL)
	}

	return ParseKeypair(raw)
}

// ParseKeypair parses a keypair in the Solana CLI format.
func ParseKeypair(raw []byte) (ed25519.PrivateKey, error) {
	var secret []uint8
	if err := json.Unmarshal(raw, &secret); err != nil {
		return nil, errors.Wrap(err, "invalid keypair file")
	}

	if len(secret) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("invalid keypair size: %d", len(secret))
	}

	key := ed25519.PrivateKey(secret)
	derived := ed25519.NewKeyFromSeed(key.Seed())
	if !derived.Equal(key) {
		return nil, errors.New("keypair public key does not match its seed")
	}
	return key, nil
}

func configureLogger(config BaseConfig, metricsProvider *newrelic.Application, out io.Writer) {
	var formatter logrus.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if strings.EqualFold(config.LogFormat, "json") {
		formatter = &logrus.JSONFormatter{}
	}

	if metricsProvider != nil {
		logrus.SetFormatter(metrics_util.NewCustomNewRelicLogFormatter(metricsProvider, formatter))
	} else {
		logrus.SetFormatter(formatter)
	}

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	logrus.SetOutput(out)
}
