package snapshot

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const (
	// DefaultOutputFile is the report file written when no output is specified.
	DefaultOutputFile = "loan_balances.json"

	DefaultBatchSize = 100
)

var (
	validate = newValidator()

	// list tokens are separated by any run of non-alphanumeric characters
	tokenSeparator = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// Options holds the raw inputs of a snapshot, e.g. from command line flags or
// environment variables.
type Options struct {
	URL       string `name:"url" validate:"required,url"`
	Contract  string `name:"contract" validate:"required,eth_addr"`
	BatchSize int    `name:"batch-size" validate:"gt=0"`
	Blocks    string `name:"blocks" validate:"required"`
	Loans     string `name:"loans" validate:"required"`
	Output    string `name:"output" validate:"required"`
}

// Config is the parsed, immutable configuration of a snapshot run.
type Config struct {
	URL       string
	Contract  common.Address
	BatchSize int
	Blocks    []BlockReference
	Loans     []LoanID
	Output    string
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("name")
	})

	return v
}

// NewConfig validates and parses the specified options.
func NewConfig(opts Options) (*Config, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, convertValidationError(err)
	}

	blocks, err := ParseBlockReferences(opts.Blocks)
	if err != nil {
		return nil, err
	}

	loans, err := ParseLoanIDs(opts.Loans)
	if err != nil {
		return nil, err
	}

	return &Config{
		URL:       opts.URL,
		Contract:  common.HexToAddress(opts.Contract),
		BatchSize: opts.BatchSize,
		Blocks:    blocks,
		Loans:     loans,
		Output:    opts.Output,
	}, nil
}

// NumRequests returns the number of calls of the run.
func (config *Config) NumRequests() int {
	return len(config.Blocks) * len(config.Loans)
}

// NumBatches returns the number of batches of the run.
func (config *Config) NumBatches() int {
	if config.BatchSize <= 0 {
		return 0
	}

	return (config.NumRequests() + config.BatchSize - 1) / config.BatchSize
}

func convertValidationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return errors.WithMessage(err, "Failed to validate options")
	}

	fe := fieldErrors[0]

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "value required"
	case "url":
		reason = "not a valid URL"
	case "eth_addr":
		reason = "not a 20-byte hex address"
	case "gt":
		reason = "must be greater than " + fe.Param()
	default:
		reason = "failed on " + fe.Tag()
	}

	return &ConfigError{
		Field:  fe.Field(),
		Value:  fieldValue(fe.Value()),
		Reason: reason,
	}
}

func fieldValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	default:
		return ""
	}
}

// ParseBatchSize parses a decimal batch size, e.g. from an environment variable.
func ParseBatchSize(input string) (int, error) {
	size, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, &ConfigError{Field: "batch-size", Value: input, Reason: "not a decimal integer"}
	}

	if size <= 0 {
		return 0, &ConfigError{Field: "batch-size", Value: input, Reason: "must be greater than 0"}
	}

	return size, nil
}

// SplitTokens splits the input on runs of non-alphanumeric characters and drops
// empty tokens.
func SplitTokens(input string) []string {
	var tokens []string

	for _, v := range tokenSeparator.Split(input, -1) {
		if len(v) > 0 {
			tokens = append(tokens, v)
		}
	}

	return tokens
}

// ParseBlockReferences parses a list of block heights and tags, e.g. "100, 200 latest".
func ParseBlockReferences(input string) ([]BlockReference, error) {
	tokens := SplitTokens(input)
	if len(tokens) == 0 {
		return nil, &ConfigError{Field: "blocks", Value: input, Reason: "no block specified"}
	}

	refs := make([]BlockReference, 0, len(tokens))
	for _, v := range tokens {
		ref, err := ParseBlockReference(v)
		if err != nil {
			return nil, err
		}

		refs = append(refs, ref)
	}

	return refs, nil
}

// ParseLoanIDs parses a list of decimal loan ids, e.g. "1 2 3".
func ParseLoanIDs(input string) ([]LoanID, error) {
	tokens := SplitTokens(input)
	if len(tokens) == 0 {
		return nil, &ConfigError{Field: "loans", Value: input, Reason: "no loan specified"}
	}

	ids := make([]LoanID, 0, len(tokens))
	for _, v := range tokens {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, &ConfigError{Field: "loans", Value: v, Reason: "not a decimal loan id"}
		}

		ids = append(ids, LoanID(id))
	}

	return ids, nil
}
