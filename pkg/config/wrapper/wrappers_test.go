package wrapper

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x1-mining-arena/arena-go/pkg/config"
	"github.com/x1-mining-arena/arena-go/pkg/config/memory"
)

type wrapperTestCase[T any] struct {
	defaultValue   T
	overridenValue interface{}
	expected       T
	encoded        []byte
	encodedValue   T
	invalid        []byte
	unsupported    interface{}
}

func testWrapper[T any](t *testing.T, newWrapper func(config.Config, T) config.Typed[T], tc wrapperTestCase[T]) {
	ctx := context.Background()
	mock := memory.NewConfig(nil)
	wrapper := newWrapper(mock, tc.defaultValue)

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, tc.defaultValue, val)
	assert.Equal(t, tc.defaultValue, wrapper.Get(ctx))

	// The overriden value is returned when set
	mock.SetValue(tc.overridenValue)
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, tc.expected, val)

	// The last observed config value is returned on error
	mock.SetError(errors.New("unavailable"))
	val, err = wrapper.GetSafe(ctx)
	require.Error(t, err)
	assert.Equal(t, tc.expected, val)
	assert.Equal(t, tc.expected, wrapper.Get(ctx))

	// The default value is returned when the override no longer has a value
	mock.SetError(nil)
	mock.ClearValue()
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, tc.defaultValue, val)

	// Conversion from a raw byte array, as provided by env configs
	mock.SetValue(tc.encoded)
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, tc.encodedValue, val)

	if tc.invalid != nil {
		mock.SetValue(tc.invalid)
		val, err = wrapper.GetSafe(ctx)
		require.Error(t, err)
		assert.Equal(t, tc.encodedValue, val)
	}

	if tc.unsupported != nil {
		mock.SetValue(tc.unsupported)
		val, err = wrapper.GetSafe(ctx)
		assert.Equal(t, ErrUnsuportedConversion, err)
		assert.Equal(t, tc.encodedValue, val)
	}

	// Shutdown via the wrapper
	wrapper.Shutdown()
	_, err = wrapper.GetSafe(ctx)
	assert.Equal(t, config.ErrShutdown, err)
}

func TestBoolConfig(t *testing.T) {
	testWrapper(t, NewBoolConfig, wrapperTestCase[bool]{
		defaultValue:   true,
		overridenValue: false,
		expected:       false,
		encoded:        []byte("false"),
		encodedValue:   false,
		invalid:        []byte("maybe"),
		unsupported:    "not supported",
	})
}

func TestInt64Config(t *testing.T) {
	testWrapper(t, NewInt64Config, wrapperTestCase[int64]{
		defaultValue:   42,
		overridenValue: int(-7),
		expected:       -7,
		encoded:        []byte("-9223372036854775808"),
		encodedValue:   math.MinInt64,
		invalid:        []byte("1.5"),
		unsupported:    "not supported",
	})
}

func TestUint64Config(t *testing.T) {
	testWrapper(t, NewUint64Config, wrapperTestCase[uint64]{
		defaultValue:   42,
		overridenValue: uint64(math.MaxUint64),
		expected:       math.MaxUint64,
		encoded:        []byte("1000"),
		encodedValue:   1000,
		invalid:        []byte("-1"),
		unsupported:    int64(1),
	})
}

func TestFloat64Config(t *testing.T) {
	testWrapper(t, NewFloat64Config, wrapperTestCase[float64]{
		defaultValue:   10,
		overridenValue: 2.5,
		expected:       2.5,
		encoded:        []byte("0.25"),
		encodedValue:   0.25,
		invalid:        []byte("ten"),
		unsupported:    "not supported",
	})
}

func TestStringConfig(t *testing.T) {
	testWrapper(t, NewStringConfig, wrapperTestCase[string]{
		defaultValue:   "confirmed",
		overridenValue: "finalized",
		expected:       "finalized",
		encoded:        []byte("processed"),
		encodedValue:   "processed",
		unsupported:    1,
	})
}

func TestDurationConfig(t *testing.T) {
	testWrapper(t, NewDurationConfig, wrapperTestCase[time.Duration]{
		defaultValue:   30 * time.Second,
		overridenValue: -2 * time.Hour,
		expected:       -2 * time.Hour,
		encoded:        []byte("1m30s"),
		encodedValue:   90 * time.Second,
		invalid:        []byte("cannot convert"),
		unsupported:    "not supported",
	})
}
