// Package blend models the flavor configuration space a lowered Program can
// be re-compiled under: per-pipeline compute kind, FSM concurrency, and
// prefetch distance, plus the enumeration and validity rules that drive
// package explore's sampling. Grounded throughout on
// _examples/original_source/blend_space_point.{hpp,cpp} and
// explorer_helper.{hpp,cpp}.
package blend

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	kVector = "vec"
	kScalar = "scalar"
	kAvx    = "avx512"

	defaultConcurrentFsms = 2
	defaultComputation    = kScalar
	defaultPrefetch       = 0
)

// Config is one point in the flavor space: {concurrent_fsms,
// computation_type, prefetch}. The zero value is not a valid Config — use
// NewConfig or ParseConfig.
type Config struct {
	ConcurrentFsms  int
	ComputationType string
	Prefetch        int
}

// NewConfig builds a Config directly (skipping string parsing).
func NewConfig(concurrentFsms int, computationType string, prefetch int) *Config {
	return &Config{ConcurrentFsms: concurrentFsms, ComputationType: computationType, Prefetch: prefetch}
}

// IsNull reports whether c is the null configuration (inherits the
// enclosing default).
func (c *Config) IsNull() bool {
	return c.ComputationType == ""
}

// IsVectorized reports whether c's computation type is a vector(...) kind.
func (c *Config) IsVectorized() bool {
	if c.IsNull() {
		return false
	}
	return strings.HasPrefix(c.ComputationType, kVector)
}

// Equal reports field-wise equality.
func (c *Config) Equal(other *Config) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	return c.ConcurrentFsms == other.ConcurrentFsms &&
		c.ComputationType == other.ComputationType &&
		c.Prefetch == other.Prefetch
}

// Hash combines all three fields, matching the original's bit-mixed
// combination (translated to FNV-1a over the field bytes rather than
// replicating the exact C++ std::hash mix, since no downstream behavior in
// this spec depends on the specific hash values, only on the
// equal-implies-equal-hash contract tested in SPEC_FULL.md).
func (c *Config) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%d", c.ConcurrentFsms, c.ComputationType, c.Prefetch)
	return h.Sum64()
}

// String renders c in the stable, persisted format: "NULL" for the null
// config, otherwise "concurrent_fsms=<v>,computation_type=<v>,prefetch=<v>"
// in that fixed key order.
func (c *Config) String() string {
	if c.IsNull() {
		return "NULL"
	}
	return fmt.Sprintf("concurrent_fsms=%d,computation_type=%s,prefetch=%d",
		c.ConcurrentFsms, c.ComputationType, c.Prefetch)
}

// ParseConfig parses the external string format: empty/"NULL"/"null" for
// the null config, the "hyper"/"x100" shortcuts, or comma-separated
// key=value pairs in any order. Unknown keys are fatal, matching the
// original's from_string.
func ParseConfig(s string) (*Config, error) {
	c := &Config{
		ConcurrentFsms:  defaultConcurrentFsms,
		ComputationType: defaultComputation,
		Prefetch:        defaultPrefetch,
	}

	switch s {
	case "", "NULL", "null":
		c.ComputationType = ""
		return c, nil
	case "hyper":
		c.ComputationType = kScalar
		return c, nil
	case "x100":
		c.ComputationType = kVector
		return c, nil
	}

	for _, kv := range strings.Split(s, ",") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("blend config: malformed key=value pair %q", kv)
		}
		key, val := parts[0], parts[1]
		switch key {
		case "concurrent_fsms":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, errors.Wrapf(err, "blend config: concurrent_fsms=%q", val)
			}
			c.ConcurrentFsms = n
		case "computation_type":
			c.ComputationType = val
		case "prefetch":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, errors.Wrapf(err, "blend config: prefetch=%q", val)
			}
			c.Prefetch = n
		default:
			return nil, errors.Errorf("blend config: invalid option %q", key)
		}
	}

	if c.Prefetch < 0 || c.Prefetch > 4 {
		return nil, errors.Errorf("blend config: prefetch %d out of range [0,4]", c.Prefetch)
	}
	if c.ComputationType != "" {
		if c.ComputationType != kScalar && c.ComputationType != kAvx && !strings.HasPrefix(c.ComputationType, kVector) {
			return nil, errors.Errorf("blend config: invalid computation_type %q", c.ComputationType)
		}
	}

	return c, nil
}
