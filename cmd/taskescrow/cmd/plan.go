// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/taskescrow/chain"
)

type Plan struct {
	// The name of the plan.
	Name string `json:"name" yaml:"name"`
	// A description of the plan.
	Description string `json:"description" yaml:"description"`
	// Named accounts. A caller or string param equal to a name resolves to
	// its address.
	Accounts map[string]string `json:"accounts" yaml:"accounts"`
	// Steps performed in order against the ledger.
	Steps []Step `json:"steps" yaml:"steps"`
}

type Step struct {
	// Description of the step.
	Description string `json:"description" yaml:"description"`
	// Registered action name, e.g. "sendAnswer". (required)
	Method string `json:"method" yaml:"method"`
	// Account name or hex address of the caller. (required)
	Caller string `json:"caller" yaml:"caller"`
	// Action fields keyed by their JSON name.
	Params map[string]interface{} `json:"params" yaml:"params"`
	// Define required assertions against this step.
	Require *Require `json:"require,omitempty" yaml:"require,omitempty"`
}

type Require struct {
	// Substring the step error must contain. Empty means the step must
	// succeed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// Assertion against a field of the step result.
	Result *ResultAssertion `json:"result,omitempty" yaml:"result,omitempty"`
}

type ResultAssertion struct {
	// JSON name of the result field, e.g. "reward".
	Field string `json:"field" yaml:"field"`
	// The operator to use for the assertion.
	Operator string `json:"operator" yaml:"operator"`
	// The value to compare against.
	Value string `json:"value" yaml:"value"`
}

type Operator string

const (
	Gt Operator = ">"
	Lt Operator = "<"
	Ge Operator = ">="
	Le Operator = "<="
	Eq Operator = "=="
	Ne Operator = "!="
)

func (o Operator) valid() bool {
	switch o {
	case Gt, Lt, Ge, Le, Eq, Ne:
		return true
	default:
		return false
	}
}

type Response struct {
	// The index of the step that generated this response.
	ID int `json:"id"`
	// The method the step called.
	Method string `json:"method"`
	// The result of the step.
	Result json.RawMessage `json:"result,omitempty"`
	// Transfers committed by the step.
	Transfers []*chain.TransferEvent `json:"transfers,omitempty"`
	// The error message if available.
	Error string `json:"error,omitempty"`
}

func NewResponse(id int, method string) *Response {
	return &Response{
		ID:     id,
		Method: method,
	}
}

func (r *Response) Print(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// resolveAddress maps an account name or hex string to an address.
func (p *Plan) resolveAddress(s string) (common.Address, error) {
	if addr, ok := p.Accounts[s]; ok {
		s = addr
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidCaller, s)
	}
	return common.HexToAddress(s), nil
}

// encodeParams renders [params] as the JSON an action decodes from,
// substituting account names for their addresses.
func (p *Plan) encodeParams(params map[string]interface{}) (json.RawMessage, error) {
	normalized := make(map[string]interface{}, len(params))
	for k, v := range params {
		normalized[k] = p.normalize(v)
	}
	return json.Marshal(normalized)
}

// normalize converts the map[interface{}]interface{} values yaml.v2
// produces into JSON friendly maps.
func (p *Plan) normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case string:
		if addr, ok := p.Accounts[v]; ok {
			return addr
		}
		return v
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = p.normalize(val)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[k] = p.normalize(val)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(v))
		for i, val := range v {
			s[i] = p.normalize(val)
		}
		return s
	default:
		return v
	}
}

// verify checks the outcome of a step against its requirements.
func (r *Require) verify(result json.RawMessage, stepErr error) error {
	if r == nil {
		return nil
	}
	if r.Error != "" {
		if stepErr == nil || !strings.Contains(stepErr.Error(), r.Error) {
			return fmt.Errorf("%w: expected error containing %q, got %v", ErrAssertionFailed, r.Error, stepErr)
		}
		return nil
	}
	if stepErr != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedError, stepErr)
	}
	if r.Result == nil {
		return nil
	}

	var fields map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(result))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	actual, ok := fields[r.Result.Field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingField, r.Result.Field)
	}
	ok, err := validateAssertion(actual, r.Result)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s %v %s %s", ErrAssertionFailed, r.Result.Field, actual, r.Result.Operator, r.Result.Value)
	}
	return nil
}

// validateAssertion compares decimal values numerically and everything else
// by equality.
func validateAssertion(actual interface{}, assertion *ResultAssertion) (bool, error) {
	op := Operator(assertion.Operator)
	if !op.valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidOperator, assertion.Operator)
	}

	if b, ok := actual.(bool); ok {
		expected, err := strconv.ParseBool(assertion.Value)
		if err != nil {
			return false, err
		}
		switch op {
		case Eq:
			return b == expected, nil
		case Ne:
			return b != expected, nil
		default:
			return false, fmt.Errorf("%w: %q on bool", ErrInvalidOperator, op)
		}
	}

	s := fmt.Sprint(actual)
	a, aErr := uint256.FromDecimal(s)
	e, eErr := uint256.FromDecimal(assertion.Value)
	if aErr != nil || eErr != nil {
		switch op {
		case Eq:
			return strings.EqualFold(s, assertion.Value), nil
		case Ne:
			return !strings.EqualFold(s, assertion.Value), nil
		default:
			return false, fmt.Errorf("%w: %q on non numeric value", ErrInvalidOperator, op)
		}
	}

	switch op {
	case Gt:
		return a.Gt(e), nil
	case Lt:
		return a.Lt(e), nil
	case Ge:
		return !a.Lt(e), nil
	case Le:
		return !a.Gt(e), nil
	case Eq:
		return a.Eq(e), nil
	default:
		return !a.Eq(e), nil
	}
}

func unmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	switch {
	case isJSON(b):
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, err
		}
	case isYAML(b):
		if err := yaml.Unmarshal(b, &p); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidConfigFormat
	}
	return &p, nil
}

func isJSON(b []byte) bool {
	var js map[string]interface{}
	return json.Unmarshal(b, &js) == nil
}

func isYAML(b []byte) bool {
	var y map[string]interface{}
	return yaml.Unmarshal(b, &y) == nil
}
