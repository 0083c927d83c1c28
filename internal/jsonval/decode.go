// Order-preserving JSON decoding built on buger/jsonparser.

package jsonval

import (
	"fmt"

	"github.com/buger/jsonparser"
)

// Decode parses raw JSON into a Value tree, preserving object key order.
func Decode(data []byte) (*Value, error) {
	raw, dt, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return decodeValue(raw, dt)
}

func decodeValue(raw []byte, dt jsonparser.ValueType) (*Value, error) {
	switch dt {
	case jsonparser.Null:
		return NewNull(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse boolean: %w", err)
		}
		return NewBool(b), nil
	case jsonparser.Number:
		return NewNumber(string(raw)), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse string: %w", err)
		}
		return NewString(s), nil
	case jsonparser.Array:
		return decodeArray(raw)
	case jsonparser.Object:
		return decodeObject(raw)
	default:
		return nil, fmt.Errorf("unexpected JSON value type %s", dt)
	}
}

func decodeArray(raw []byte) (*Value, error) {
	arr := NewArray()
	var cbErr error
	_, err := jsonparser.ArrayEach(raw, func(elem []byte, dt jsonparser.ValueType, _ int, err error) {
		if cbErr != nil {
			return
		}
		if err != nil {
			cbErr = err
			return
		}
		v, err := decodeValue(elem, dt)
		if err != nil {
			cbErr = err
			return
		}
		arr.Append(v)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse array: %w", err)
	}
	if cbErr != nil {
		return nil, fmt.Errorf("failed to parse array element: %w", cbErr)
	}
	return arr, nil
}

func decodeObject(raw []byte) (*Value, error) {
	obj := NewObject()
	err := jsonparser.ObjectEach(raw, func(key, elem []byte, dt jsonparser.ValueType, _ int) error {
		v, err := decodeValue(elem, dt)
		if err != nil {
			return err
		}
		obj.Set(string(key), v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse object: %w", err)
	}
	return obj, nil
}
