package multimap

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/mailru/easyjson/jwriter"
)

var (
	_ json.Marshaler   = &MultiMap[int, any]{}
	_ json.Unmarshaler = &MultiMap[int, any]{}
)

// MarshalJSON implements the json.Marshaler interface. Every stored
// pair is emitted in sequence order, so a map holding duplicate keys
// produces an object with repeated members. Most JSON decoders keep
// only the last one; decode with a MultiMap to keep them all.
func (m *MultiMap[K, V]) MarshalJSON() ([]byte, error) {
	if m == nil || m.pairs == nil {
		return []byte("null"), nil
	}

	writer := jwriter.Writer{}
	writer.RawByte('{')
	for i, pair := range m.pairs {
		if i != 0 {
			writer.RawByte(',')
		}
		if err := writeJSONKey(&writer, pair.Key); err != nil {
			return nil, err
		}
		writer.RawByte(':')
		valueData, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, err
		}
		writer.Raw(valueData, nil)
	}
	writer.RawByte('}')

	return dumpWriter(&writer)
}

func writeJSONKey(writer *jwriter.Writer, key any) error {
	switch typed := key.(type) {
	case string:
		writer.String(typed)
		return nil
	case encoding.TextMarshaler:
		text, err := typed.MarshalText()
		if err != nil {
			return err
		}
		writer.String(string(text))
		return nil
	}

	// JSON object members must be strings, so integer keys round-trip
	// through their decimal form.
	switch value := reflect.ValueOf(key); value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writer.String(strconv.FormatInt(value.Int(), 10))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		writer.String(strconv.FormatUint(value.Uint(), 10))
		return nil
	default:
		return fmt.Errorf("unsupported JSON key type: %T", key)
	}
}

func dumpWriter(writer *jwriter.Writer) ([]byte, error) {
	if writer.Error != nil {
		return nil, writer.Error
	}

	var buf bytes.Buffer
	buf.Grow(writer.Size())
	if _, err := writer.DumpTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface. Object
// members are appended in document order; repeated members become
// duplicate keys rather than overwriting each other.
func (m *MultiMap[K, V]) UnmarshalJSON(data []byte) error {
	return jsonparser.ObjectEach(data, func(keyData, valueData []byte, dataType jsonparser.ValueType, offset int) error {
		key, err := decodeJSONKey[K](keyData)
		if err != nil {
			return err
		}

		switch dataType {
		case jsonparser.String:
			// the raw value comes without its quotes and with escapes
			// unprocessed, so hand the original token to encoding/json
			valueData = data[offset-len(valueData)-2 : offset]
		case jsonparser.Null:
			valueData = []byte("null")
		}
		var value V
		if err := json.Unmarshal(valueData, &value); err != nil {
			return err
		}

		m.Append(Pair[K, V]{Key: key, Value: value})
		return nil
	})
}

func decodeJSONKey[K comparable](keyData []byte) (K, error) {
	var key K
	switch typed := any(&key).(type) {
	case *string:
		decoded, err := jsonparser.ParseString(keyData)
		if err != nil {
			return key, err
		}
		*typed = decoded
		return key, nil
	case encoding.TextUnmarshaler:
		return key, typed.UnmarshalText(keyData)
	default:
		return key, json.Unmarshal(keyData, &key)
	}
}
