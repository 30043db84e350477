package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	stderrors "errors" // Standard errors package
	"github.com/mcncl/jsontree/internal/errors" // Custom errors package
	"github.com/mcncl/jsontree/internal/models"
	"github.com/tidwall/gjson"
)

// DefaultMaxDepth bounds how deeply arrays and objects may nest in accepted input.
const DefaultMaxDepth = 1000

// Parser converts JSON text and native Go values into models.Value.
type Parser struct {
	// MaxDepth is the deepest container nesting accepted. The root container is depth 1.
	MaxDepth int
}

// NewParser creates a Parser with the given depth bound. Non-positive values use DefaultMaxDepth.
func NewParser(maxDepth int) *Parser {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{MaxDepth: maxDepth}
}

var defaultParser = NewParser(DefaultMaxDepth)

// Parse converts JSON data from an io.Reader into a models.Value
func Parse(reader io.Reader) (models.Value, error) {
	return defaultParser.Parse(reader)
}

// ParseBytes converts a JSON document into a models.Value
func ParseBytes(data []byte) (models.Value, error) {
	return defaultParser.ParseBytes(data)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	return defaultParser.ParseString(jsonString)
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Value, error) {
	return defaultParser.ParseFile(filePath)
}

// FromAny converts a native Go value into a models.Value
func FromAny(v any) (models.Value, error) {
	return defaultParser.FromAny(v)
}

// Parse reads all of reader and parses it as a single JSON value.
func (p *Parser) Parse(reader io.Reader) (models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Value{}, errors.NewInputError("failed to read input", err)
	}
	return p.ParseBytes(data)
}

// ParseBytes parses data as a single JSON value, keeping object key order.
func (p *Parser) ParseBytes(data []byte) (models.Value, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return models.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	if !gjson.ValidBytes(data) {
		return models.Value{}, diagnose(data)
	}
	return p.convert(gjson.ParseBytes(data), 0)
}

// ParseString parses JSON from a string.
func (p *Parser) ParseString(jsonString string) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Value{}, errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
	}
	return p.ParseBytes([]byte(jsonString))
}

// ParseFile parses JSON from a file path.
func (p *Parser) ParseFile(filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Value{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Value{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return p.Parse(file)
}

// convert walks a validated gjson result. depth counts the containers above res.
func (p *Parser) convert(res gjson.Result, depth int) (models.Value, error) {
	switch res.Type {
	case gjson.Null:
		return models.NullValue(), nil
	case gjson.False:
		return models.BoolValue(false), nil
	case gjson.True:
		return models.BoolValue(true), nil
	case gjson.Number:
		return models.NumberValue(json.Number(strings.TrimSpace(res.Raw))), nil
	case gjson.String:
		return models.StringValue(res.Str), nil
	}

	if depth+1 > p.MaxDepth {
		return models.Value{}, tooDeep(p.MaxDepth)
	}

	var convErr error
	if res.IsArray() {
		items := []models.Value{}
		res.ForEach(func(_, item gjson.Result) bool {
			v, err := p.convert(item, depth+1)
			if err != nil {
				convErr = err
				return false
			}
			items = append(items, v)
			return true
		})
		if convErr != nil {
			return models.Value{}, convErr
		}
		return models.ListValue(items...), nil
	}

	var members []models.Member
	res.ForEach(func(key, item gjson.Result) bool {
		v, err := p.convert(item, depth+1)
		if err != nil {
			convErr = err
			return false
		}
		members = append(members, models.Member{Key: key.Str, Value: v})
		return true
	})
	if convErr != nil {
		return models.Value{}, convErr
	}
	return models.MapValue(members...), nil
}

// diagnose explains why data failed validation, using encoding/json for offsets.
func diagnose(data []byte) error {
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	var first any
	if err := decoder.Decode(&first); err != nil {
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return errors.NewParsingError("unexpected EOF in JSON input", errors.ErrInvalidJSON)
		}
		return errors.NewParsingError("failed to decode JSON", errors.ErrInvalidJSON)
	}

	var trailingValue any
	if err := decoder.Decode(&trailingValue); err == nil {
		return errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}
	return errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
}

func tooDeep(limit int) error {
	return errors.NewParsingError(fmt.Sprintf("nesting exceeds maximum depth of %d", limit), errors.ErrTooDeep)
}

// FromAny converts a native Go value. Maps keyed by string are emitted with
// sorted keys since Go maps have no order; other types go through
// encoding/json, which keeps struct field order.
func (p *Parser) FromAny(v any) (models.Value, error) {
	return p.fromAny(v, 0)
}

func (p *Parser) fromAny(v any, depth int) (models.Value, error) {
	switch val := v.(type) {
	case nil:
		return models.NullValue(), nil
	case models.Value:
		if depthOf(val)+depth > p.MaxDepth {
			return models.Value{}, tooDeep(p.MaxDepth)
		}
		return val, nil
	case bool:
		return models.BoolValue(val), nil
	case string:
		return models.StringValue(val), nil
	case json.Number:
		if !gjson.Valid(string(val)) || gjson.Parse(string(val)).Type != gjson.Number {
			return models.Value{}, errors.NewParsingError(fmt.Sprintf("invalid number literal %q", string(val)), errors.ErrUnsupportedValue)
		}
		return models.NumberValue(val), nil
	case json.RawMessage:
		sub := &Parser{MaxDepth: p.MaxDepth - depth}
		if sub.MaxDepth <= 0 {
			return models.Value{}, tooDeep(p.MaxDepth)
		}
		return sub.ParseBytes(val)
	case int:
		return intValue(int64(val)), nil
	case int8:
		return intValue(int64(val)), nil
	case int16:
		return intValue(int64(val)), nil
	case int32:
		return intValue(int64(val)), nil
	case int64:
		return intValue(val), nil
	case uint:
		return uintValue(uint64(val)), nil
	case uint8:
		return uintValue(uint64(val)), nil
	case uint16:
		return uintValue(uint64(val)), nil
	case uint32:
		return uintValue(uint64(val)), nil
	case uint64:
		return uintValue(val), nil
	case float32:
		return floatValue(float64(val), 32)
	case float64:
		return floatValue(val, 64)
	case []any:
		if depth+1 > p.MaxDepth {
			return models.Value{}, tooDeep(p.MaxDepth)
		}
		items := make([]models.Value, 0, len(val))
		for i, item := range val {
			converted, err := p.fromAny(item, depth+1)
			if err != nil {
				return models.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			items = append(items, converted)
		}
		return models.ListValue(items...), nil
	case map[string]any:
		if depth+1 > p.MaxDepth {
			return models.Value{}, tooDeep(p.MaxDepth)
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]models.Member, 0, len(keys))
		for _, k := range keys {
			converted, err := p.fromAny(val[k], depth+1)
			if err != nil {
				return models.Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			members = append(members, models.Member{Key: k, Value: converted})
		}
		return models.MapValue(members...), nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return models.Value{}, errors.NewParsingError(fmt.Sprintf("cannot represent %T as JSON", v), stderrors.Join(errors.ErrUnsupportedValue, err))
	}
	return p.fromAny(json.RawMessage(data), depth)
}

func intValue(n int64) models.Value {
	return models.NumberValue(json.Number(strconv.FormatInt(n, 10)))
}

func uintValue(n uint64) models.Value {
	return models.NumberValue(json.Number(strconv.FormatUint(n, 10)))
}

func floatValue(f float64, bits int) (models.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return models.Value{}, errors.NewParsingError(fmt.Sprintf("%v is not a JSON number", f), errors.ErrUnsupportedValue)
	}
	var data []byte
	var err error
	if bits == 32 {
		data, err = json.Marshal(float32(f))
	} else {
		data, err = json.Marshal(f)
	}
	if err != nil {
		return models.Value{}, errors.NewParsingError("failed to format number", err)
	}
	return models.NumberValue(json.Number(data)), nil
}

// depthOf returns the container nesting depth of v; scalars are depth 0.
func depthOf(v models.Value) int {
	deepest := 0
	switch v.Kind {
	case models.List:
		for _, item := range v.Items() {
			deepest = max(deepest, depthOf(item))
		}
	case models.Map:
		for _, m := range v.Members() {
			deepest = max(deepest, depthOf(m.Value))
		}
	default:
		return 0
	}
	return deepest + 1
}
