package app

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

// Config is the application specific configuration.
type Config map[string]interface{}

// BaseConfig contains the base configuration shared by every command, as
// well as the application itself.
type BaseConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	AppName string `mapstructure:"app_name"`

	// RPCURL is the JSON-RPC endpoint of the cluster.
	RPCURL string `mapstructure:"rpc_url"`

	// RPCRequestsPerSecond limits the requests sent to RPCURL.
	RPCRequestsPerSecond float64 `mapstructure:"rpc_requests_per_second"`

	// Wallet is a file URL of the Solana CLI keypair used to sign and pay.
	// If no scheme is specified, file is used.
	Wallet string `mapstructure:"wallet"`

	ProgramID string `mapstructure:"program_id"`

	// Metrics configuration across many providers
	NewRelicLicenseKey string `mapstructure:"new_relic_license_key"`

	// Arbitrary configuration that the command can define / implement.
	//
	// Users should use mapstructure.Decode for AppConfig.
	AppConfig Config `mapstructure:"app"`
}

const (
	DefaultRPCURL    = string(solana.EnvironmentX1Testnet)
	DefaultWallet    = "~/.config/solana/id.json"
	DefaultProgramID = "9Hd5Nv7MYPeFbSntrdEg92uojcWGuGGH2Mkmyrm7eMGd"
)

var defaultConfig = BaseConfig{
	LogLevel:  "info",
	LogFormat: "text",

	AppName: "x1-mining-arena",

	RPCURL:               DefaultRPCURL,
	RPCRequestsPerSecond: 10,

	Wallet:    DefaultWallet,
	ProgramID: DefaultProgramID,
}

// Environment variables consulted when rpc_url isn't set, in order.
var rpcURLFallbackEnvs = []string{"ANCHOR_PROVIDER_URL", "SOLANA_URL"}

func init() {
	bindEnvs()
}

func bindEnvs() {
	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("log_format", "LOG_FORMAT")

	_ = viper.BindEnv("app_name", "APP_NAME")

	_ = viper.BindEnv("rpc_url", "RPC_URL")
	_ = viper.BindEnv("rpc_requests_per_second", "RPC_REQUESTS_PER_SECOND")

	_ = viper.BindEnv("wallet", "ANCHOR_WALLET")
	_ = viper.BindEnv("program_id", "ARENA_PROGRAM_ID")

	_ = viper.BindEnv("new_relic_license_key", "NEW_RELIC_LICENSE_KEY")
}

// RegisterFlags adds the base configuration flags to fs. Flags take
// precedence over the config file and environment.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "configuration file path")

	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-format", "", "log format (text, json)")

	fs.String("rpc-url", "", "cluster JSON-RPC endpoint (or set RPC_URL / ANCHOR_PROVIDER_URL / SOLANA_URL)")
	fs.String("wallet", "", "keypair file of the signer (or set ANCHOR_WALLET)")
	fs.String("program-id", "", "arena program id (or set ARENA_PROGRAM_ID)")
}

var flagKeys = map[string]string{
	"log-level":  "log_level",
	"log-format": "log_format",
	"rpc-url":    "rpc_url",
	"wallet":     "wallet",
	"program-id": "program_id",
}

// bindFlags binds the flags that were set on the command line. Unset flags
// are left unbound so their empty defaults don't mask other sources.
func bindFlags(fs *pflag.FlagSet) (err error) {
	fs.Visit(func(flag *pflag.Flag) {
		key, ok := flagKeys[flag.Name]
		if !ok || err != nil {
			return
		}
		err = viper.BindPFlag(key, flag)
	})
	return err
}
