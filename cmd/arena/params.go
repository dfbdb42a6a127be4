package main

import (
	"crypto/ed25519"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// params resolves command parameters from, in order, flags set on the command
// line, environment variables and flag defaults.
type params struct {
	v *viper.Viper
}

func newParams(fs *pflag.FlagSet, envs map[string]string) (*params, error) {
	v := viper.New()
	for name, env := range envs {
		if err := v.BindEnv(name, env); err != nil {
			return nil, errors.Wrapf(err, "failed to bind %s", env)
		}
	}

	var err error
	fs.VisitAll(func(flag *pflag.Flag) {
		if err == nil {
			err = v.BindPFlag(flag.Name, flag)
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to bind flags")
	}

	return &params{v: v}, nil
}

// IsSet reports whether the parameter was given explicitly.
func (p *params) IsSet(name string) bool {
	return p.v.IsSet(name)
}

func (p *params) String(name string) string {
	return strings.TrimSpace(p.v.GetString(name))
}

func (p *params) Bool(name string) bool {
	return p.v.GetBool(name)
}

// Uint returns an unsigned parameter that must fit in bits.
func (p *params) Uint(name string, bits int) (uint64, error) {
	value, err := parseUint(p.String(name), bits)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", name)
	}
	return value, nil
}

func (p *params) Uint8(name string) (uint8, error) {
	value, err := p.Uint(name, 8)
	return uint8(value), err
}

func (p *params) Uint16(name string) (uint16, error) {
	value, err := p.Uint(name, 16)
	return uint16(value), err
}

func (p *params) Uint32(name string) (uint32, error) {
	value, err := p.Uint(name, 32)
	return uint32(value), err
}

func (p *params) Uint64(name string) (uint64, error) {
	return p.Uint(name, 64)
}

func (p *params) Int64(name string) (int64, error) {
	value, err := parseInt(p.String(name))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", name)
	}
	return value, nil
}

// Key returns a base58 public key parameter, or nil when it isn't set.
func (p *params) Key(name string) (ed25519.PublicKey, error) {
	raw := p.String(name)
	if len(raw) == 0 {
		return nil, nil
	}
	return parseKey(name, raw)
}

// Amount returns a decimal token amount parameter in the mint's smallest
// unit.
func (p *params) Amount(name string, decimals int32) (uint64, error) {
	amount, err := parseAmount(p.String(name), decimals)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", name)
	}
	return amount, nil
}

// canonicalDecimal strips a sign and leading zeros from a base 10 integer.
// Prefixed forms such as 0x1e and 030 are read as decimal or rejected, never
// reinterpreted in another base.
func canonicalDecimal(raw string) (negative bool, digits string, err error) {
	digits = raw
	switch {
	case strings.HasPrefix(digits, "-"):
		negative, digits = true, digits[1:]
	case strings.HasPrefix(digits, "+"):
		digits = digits[1:]
	}
	if len(digits) == 0 || strings.Trim(digits, "0123456789") != "" {
		return false, "", errors.Errorf("%q is not a decimal integer", raw)
	}

	digits = strings.TrimLeft(digits, "0")
	if len(digits) == 0 {
		return false, "0", nil
	}
	return negative, digits, nil
}

func parseUint(raw string, bits int) (uint64, error) {
	negative, digits, err := canonicalDecimal(raw)
	if err != nil {
		return 0, err
	}
	if negative {
		return 0, errors.Errorf("%s must not be negative", raw)
	}

	value, err := cast.ToUint64E(digits)
	if err != nil {
		return 0, err
	}
	if bits < 64 && value >= 1<<uint(bits) {
		return 0, errors.Errorf("%d exceeds %d bits", value, bits)
	}
	return value, nil
}

func parseInt(raw string) (int64, error) {
	negative, digits, err := canonicalDecimal(raw)
	if err != nil {
		return 0, err
	}
	if negative {
		digits = "-" + digits
	}
	return cast.ToInt64E(digits)
}

// decimalFlag is a numeric flag that only accepts base 10 input. pflag's own
// integer flags parse with base prefixes.
type decimalFlag struct {
	value  string
	bits   int
	signed bool
}

func (d *decimalFlag) String() string { return d.value }

func (d *decimalFlag) Set(raw string) error {
	var err error
	if d.signed {
		var n int64
		if n, err = parseInt(raw); err == nil {
			d.value = strconv.FormatInt(n, 10)
		}
	} else {
		var n uint64
		if n, err = parseUint(raw, d.bits); err == nil {
			d.value = strconv.FormatUint(n, 10)
		}
	}
	return err
}

func (d *decimalFlag) Type() string {
	if d.signed {
		return fmt.Sprintf("int%d", d.bits)
	}
	return fmt.Sprintf("uint%d", d.bits)
}

func uintFlag(fs *pflag.FlagSet, name string, bits int, value uint64, usage string) {
	fs.Var(&decimalFlag{value: strconv.FormatUint(value, 10), bits: bits}, name, usage)
}

func int64Flag(fs *pflag.FlagSet, name string, value int64, usage string) {
	fs.Var(&decimalFlag{value: strconv.FormatInt(value, 10), bits: 64, signed: true}, name, usage)
}

func parseKey(name, raw string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", name)
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid %s: %d bytes", name, len(decoded))
	}
	return decoded, nil
}

func parseAmount(raw string, decimals int32) (uint64, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, err
	}

	units := value.Shift(decimals)
	if !units.Equal(units.Truncate(0)) {
		return 0, errors.Errorf("%s has more than %d decimal places", raw, decimals)
	}
	if units.Sign() <= 0 {
		return 0, errors.Errorf("%s must be positive", raw)
	}

	n := units.BigInt()
	if !n.IsUint64() {
		return 0, errors.Errorf("%s is too large", raw)
	}
	return n.Uint64(), nil
}

// formatAmount renders units of a mint with the given decimals.
func formatAmount(units uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -decimals).StringFixed(decimals)
}
