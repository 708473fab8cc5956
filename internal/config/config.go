package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bjornrobertsson/coderttl/internal/util/validate"
)

const CONFIG_ENV_PREFIX = "CODER"
const CONFIG_FILE = "coderttl.toml"
const CONFIG_DIR = "coderttl"

// Token file read when no token is given by flag, environment or config file.
const DEFAULT_TOKEN_FILE = "audit-token.txt"

const (
	DefaultTTLHours               = 8
	DefaultDormancyExtensionHours = 24
	DefaultSettleTimeout          = 2 * time.Second
	DefaultSettleInterval         = 500 * time.Millisecond
	DefaultTimeout                = 10 * time.Second
)

var (
	ErrMissingURL   = errors.New("missing coder server address, set --url or " + CONFIG_ENV_PREFIX + "_URL")
	ErrMissingToken = errors.New("missing coder session token, set --token, " + CONFIG_ENV_PREFIX + "_SESSION_TOKEN or create " + DEFAULT_TOKEN_FILE)
)

// Options holds the raw values gathered from flags, environment and config file.
type Options struct {
	URL                    string
	Token                  string
	TokenFile              string
	DefaultTTLHours        int
	DryRun                 bool
	PlusOneWorkspaceTTL    bool
	PlusOneDormancyTTL     bool
	DormancyExtensionHours int
	Filter                 string
	Output                 string
	NoColor                bool
	RateLimit              int
	SettleTimeout          string
	SettleInterval         string
	Timeout                string
	TLSSkipVerify          bool
}

// RunConfig is built once at startup and never changed afterwards.
type RunConfig struct {
	BaseURL                string
	Token                  string
	DefaultTTLHours        int64
	DryRun                 bool
	PlusOneWorkspaceTTL    bool
	PlusOneDormancyTTL     bool
	DormancyExtensionHours int64
	Action                 Action
	Filter                 string
	Output                 Output
	NoColor                bool
	RateLimit              float64
	SettleTimeout          time.Duration
	SettleInterval         time.Duration
	Timeout                time.Duration
	TLSSkipVerify          bool
}

// New validates opts and returns the configuration for action.
func New(action Action, opts Options) (*RunConfig, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("unknown action %d", action)
	}

	baseURL, err := NormalizeURL(opts.URL)
	if err != nil {
		return nil, err
	}

	token, err := ResolveToken(opts.Token, opts.TokenFile)
	if err != nil {
		return nil, err
	}

	if opts.DefaultTTLHours <= 0 {
		return nil, fmt.Errorf("default TTL hours must be positive, got %d", opts.DefaultTTLHours)
	}

	if !validate.IsPositiveNumber(opts.DormancyExtensionHours) {
		return nil, fmt.Errorf("dormancy extension hours must not be negative, got %d", opts.DormancyExtensionHours)
	}

	if !validate.IsPositiveNumber(opts.RateLimit) {
		return nil, fmt.Errorf("rate limit must not be negative, got %d", opts.RateLimit)
	}

	output, err := ParseOutput(opts.Output)
	if err != nil {
		return nil, err
	}

	settleTimeout, err := parseDuration("settle-timeout", opts.SettleTimeout, DefaultSettleTimeout)
	if err != nil {
		return nil, err
	}

	settleInterval, err := parseDuration("settle-interval", opts.SettleInterval, DefaultSettleInterval)
	if err != nil {
		return nil, err
	}
	if settleInterval <= 0 {
		return nil, fmt.Errorf("settle-interval must be positive")
	}

	timeout, err := parseDuration("timeout", opts.Timeout, DefaultTimeout)
	if err != nil {
		return nil, err
	}

	return &RunConfig{
		BaseURL:                baseURL,
		Token:                  token,
		DefaultTTLHours:        int64(opts.DefaultTTLHours),
		DryRun:                 opts.DryRun,
		PlusOneWorkspaceTTL:    opts.PlusOneWorkspaceTTL,
		PlusOneDormancyTTL:     opts.PlusOneDormancyTTL,
		DormancyExtensionHours: int64(opts.DormancyExtensionHours),
		Action:                 action,
		Filter:                 strings.TrimSpace(opts.Filter),
		Output:                 output,
		NoColor:                opts.NoColor || os.Getenv("NO_COLOR") != "",
		RateLimit:              float64(opts.RateLimit),
		SettleTimeout:          settleTimeout,
		SettleInterval:         settleInterval,
		Timeout:                timeout,
		TLSSkipVerify:          opts.TLSSkipVerify,
	}, nil
}

// NormalizeURL adds https:// when no scheme is given and drops any trailing slash.
func NormalizeURL(raw string) (string, error) {
	if !validate.Required(raw) {
		return "", ErrMissingURL
	}

	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	raw = strings.TrimRight(raw, "/")
	if !validate.Uri(raw) {
		return "", fmt.Errorf("invalid coder server address %q", raw)
	}

	return raw, nil
}

// ResolveToken returns token if set, otherwise the trimmed contents of tokenFile.
func ResolveToken(token string, tokenFile string) (string, error) {
	if validate.Required(token) {
		return strings.TrimSpace(token), nil
	}

	if !validate.Required(tokenFile) {
		return "", ErrMissingToken
	}

	data, err := os.ReadFile(tokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrMissingToken
		}
		return "", fmt.Errorf("failed to read token file %s: %w", tokenFile, err)
	}

	if !validate.Required(string(data)) {
		return "", ErrMissingToken
	}

	return strings.TrimSpace(string(data)), nil
}

func parseDuration(name string, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return d, nil
}
