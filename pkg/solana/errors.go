package solana

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/ybbus/jsonrpc"
)

// TransactionErrorKey names a runtime transaction error, as it appears in the
// "err" field of RPC results. Only the keys this module acts on are listed;
// any other key is still parsed and reported verbatim.
type TransactionErrorKey string

const (
	TransactionErrorAccountNotFound         TransactionErrorKey = "AccountNotFound"
	TransactionErrorAlreadyProcessed        TransactionErrorKey = "AlreadyProcessed"
	TransactionErrorBlockhashNotFound       TransactionErrorKey = "BlockhashNotFound"
	TransactionErrorDuplicateSignature      TransactionErrorKey = "DuplicateSignature"
	TransactionErrorInstructionError        TransactionErrorKey = "InstructionError"
	TransactionErrorInsufficientFundsForFee TransactionErrorKey = "InsufficientFundsForFee"
)

// InstructionErrorKey names the error an instruction failed with.
type InstructionErrorKey string

const (
	InstructionErrorAccountAlreadyInitialized InstructionErrorKey = "AccountAlreadyInitialized"
	InstructionErrorCustom                    InstructionErrorKey = "Custom"
	InstructionErrorInsufficientFunds         InstructionErrorKey = "InsufficientFunds"
	InstructionErrorInvalidAccountData        InstructionErrorKey = "InvalidAccountData"
	InstructionErrorInvalidArgument           InstructionErrorKey = "InvalidArgument"
	InstructionErrorMissingRequiredSignature  InstructionErrorKey = "MissingRequiredSignature"
)

// CustomError is a program defined error code. Anchor programs number their
// errors from 6000.
type CustomError int

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: 0x%x", int(c))
}

// InstructionError is the failure of the instruction at Index.
type InstructionError struct {
	Index int
	Err   error
}

func (i InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %v", i.Index, i.Err)
}

func (i InstructionError) ErrorKey() InstructionErrorKey {
	switch i.Err.(type) {
	case nil:
		return ""
	case CustomError:
		return InstructionErrorCustom
	default:
		return InstructionErrorKey(i.Err.Error())
	}
}

func (i InstructionError) CustomError() *CustomError {
	if ce, ok := i.Err.(CustomError); ok {
		return &ce
	}
	return nil
}

// parseInstructionError parses the [index, error] tuple of an
// InstructionError, where error is either a bare key or {"Custom": code}.
func parseInstructionError(v interface{}) (InstructionError, error) {
	var e InstructionError

	tuple, ok := v.([]interface{})
	if !ok || len(tuple) != 2 {
		return e, errors.Errorf("unexpected InstructionError tuple: %v", v)
	}

	index, err := parseJSONNumber(tuple[0])
	if err != nil {
		return e, err
	}
	e.Index = index

	switch t := tuple[1].(type) {
	case string:
		e.Err = errors.New(t)
	case map[string]interface{}:
		key, value, err := singleEntry(t)
		if err != nil {
			e.Err = errors.New("unhandled InstructionError")
			return e, err
		}
		if InstructionErrorKey(key) != InstructionErrorCustom {
			e.Err = errors.New(key)
			break
		}

		code, err := parseJSONNumber(value)
		if err != nil {
			e.Err = errors.New("unhandled CustomError")
			break
		}
		e.Err = CustomError(code)
	default:
		return e, errors.Errorf("unexpected instruction error type %T", t)
	}

	return e, nil
}

// TransactionError is a parsed transaction failure, along with any program
// logs reported with it.
type TransactionError struct {
	transactionError error
	instructionError *InstructionError
	raw              interface{}
	logs             []string
}

// ParseTransactionError parses the "err" value of getSignatureStatuses,
// simulateTransaction and preflight failures. A nil raw value is not an
// error and yields nil.
func ParseTransactionError(raw interface{}) (*TransactionError, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return &TransactionError{transactionError: errors.New(t), raw: raw}, nil
	case map[string]interface{}:
		key, value, err := singleEntry(t)
		if err != nil {
			return &TransactionError{transactionError: errors.New("unhandled transaction error"), raw: raw}, err
		}
		if TransactionErrorKey(key) != TransactionErrorInstructionError {
			return &TransactionError{transactionError: errors.New(key), raw: raw}, nil
		}

		ixnErr, err := parseInstructionError(value)
		if err != nil {
			return &TransactionError{
				transactionError: errors.New("unhandled transaction error"),
				raw:              raw,
			}, errors.Wrap(err, "failed to parse instruction error")
		}
		return &TransactionError{
			transactionError: errors.New(key),
			instructionError: &ixnErr,
			raw:              raw,
		}, nil
	default:
		return nil, errors.Errorf("unhandled error type %T", raw)
	}
}

// ParseRPCError extracts the transaction error from a failed preflight
// simulation and attaches the simulation logs. It returns nil when the RPC
// error carries no transaction error.
func ParseRPCError(err *jsonrpc.RPCError) (*TransactionError, error) {
	if err == nil {
		return nil, nil
	}

	data, ok := err.Data.(map[string]interface{})
	if !ok {
		return nil, errors.New("expected map type")
	}

	result, parseErr := ParseTransactionError(data["err"])
	if result != nil {
		result.logs = parseLogs(data["logs"])
	}
	return result, parseErr
}

func (t TransactionError) Error() string {
	switch {
	case t.instructionError != nil:
		return t.instructionError.Error()
	case t.transactionError != nil:
		return t.transactionError.Error()
	default:
		return ""
	}
}

func (t TransactionError) ErrorKey() TransactionErrorKey {
	if t.transactionError == nil {
		return ""
	}
	return TransactionErrorKey(t.transactionError.Error())
}

func (t TransactionError) InstructionError() *InstructionError {
	return t.instructionError
}

// CustomErrorCode returns the program error code, if an instruction failed
// with one.
func (t TransactionError) CustomErrorCode() (int, bool) {
	if t.instructionError == nil {
		return 0, false
	}
	if ce := t.instructionError.CustomError(); ce != nil {
		return int(*ce), true
	}
	return 0, false
}

func (t TransactionError) Logs() []string {
	return t.logs
}

// JSONString re-encodes the error as the RPC node reported it.
func (t TransactionError) JSONString() (string, error) {
	b, err := json.Marshal(t.raw)
	return string(b), err
}

func singleEntry(m map[string]interface{}) (string, interface{}, error) {
	if len(m) != 1 {
		return "", nil, errors.Errorf("expected a single entry, got %d", len(m))
	}
	for k, v := range m {
		return k, v, nil
	}
	panic("unreachable")
}

func parseLogs(v interface{}) []string {
	values, ok := v.([]interface{})
	if !ok {
		return nil
	}

	logs := make([]string, 0, len(values))
	for _, value := range values {
		if line, ok := value.(string); ok {
			logs = append(logs, line)
		}
	}
	return logs
}

func parseJSONNumber(v interface{}) (int, error) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, errors.Errorf("non integer value: %v", v)
		}
		return int(n), nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, errors.Errorf("non numeric value: %v", v)
		}
		return int(n), nil
	case float64:
		return int(t), nil
	default:
		return 0, errors.Errorf("non numeric value: %v", v)
	}
}
