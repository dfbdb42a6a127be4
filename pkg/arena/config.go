package arena

import (
	"time"

	"github.com/x1-mining-arena/arena-go/pkg/config"
	"github.com/x1-mining-arena/arena-go/pkg/config/env"
	"github.com/x1-mining-arena/arena-go/pkg/config/memory"
	"github.com/x1-mining-arena/arena-go/pkg/config/wrapper"
)

const (
	envConfigPrefix = "ARENA_CLIENT_"

	CommitmentConfigEnvName = envConfigPrefix + "COMMITMENT"
	defaultCommitment       = "confirmed"

	ConfirmationTimeoutConfigEnvName = envConfigPrefix + "CONFIRMATION_TIMEOUT"
	defaultConfirmationTimeout       = 60 * time.Second

	MaxPositionFetchConcurrencyConfigEnvName = envConfigPrefix + "MAX_POSITION_FETCH_CONCURRENCY"
	defaultMaxPositionFetchConcurrency       = 8
)

type conf struct {
	commitment          config.String
	confirmationTimeout config.Duration

	maxPositionFetchConcurrency config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			commitment:          env.NewStringConfig(CommitmentConfigEnvName, defaultCommitment),
			confirmationTimeout: env.NewDurationConfig(ConfirmationTimeoutConfigEnvName, defaultConfirmationTimeout),

			maxPositionFetchConcurrency: env.NewUint64Config(MaxPositionFetchConcurrencyConfigEnvName, defaultMaxPositionFetchConcurrency),
		}
	}
}

type testOverrides struct {
	commitment          string
	confirmationTimeout time.Duration
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		commitment := overrides.commitment
		if len(commitment) == 0 {
			commitment = defaultCommitment
		}
		timeout := overrides.confirmationTimeout
		if timeout == 0 {
			timeout = time.Second
		}

		return &conf{
			commitment:          wrapper.NewStringConfig(memory.NewConfig(commitment), defaultCommitment),
			confirmationTimeout: wrapper.NewDurationConfig(memory.NewConfig(timeout), defaultConfirmationTimeout),

			maxPositionFetchConcurrency: wrapper.NewUint64Config(memory.NewConfig(uint64(2)), defaultMaxPositionFetchConcurrency),
		}
	}
}
