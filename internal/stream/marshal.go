package stream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"

	"p4g/internal/model"
)

// ErrBadMarshal is returned when the input is not a stream of marshaled
// dictionaries, e.g. when p4 was run without -G.
var ErrBadMarshal = errors.New("bad marshal data")

// Type codes from Python's marshal format.
const (
	typeNull          = '0'
	typeNone          = 'N'
	typeFalse         = 'F'
	typeTrue          = 'T'
	typeInt           = 'i'
	typeInt64         = 'I'
	typeLong          = 'l'
	typeFloat         = 'f'
	typeBinaryFloat   = 'g'
	typeString        = 's'
	typeInterned      = 't'
	typeStringRef     = 'R'
	typeUnicode       = 'u'
	typeASCII         = 'a'
	typeASCIIInterned = 'A'
	typeShortASCII    = 'z'
	typeShortInterned = 'Z'
	typeRef           = 'r'
	typeDict          = '{'

	flagRef = 0x80
)

// endOfDict marks the typeNull terminator of a dictionary.
type endOfDict struct{}

// MarshalReader decodes the dictionaries written by `p4 -G`. Each record is
// one independently marshaled dict of scalar values.
type MarshalReader struct {
	r        *bufio.Reader
	refs     []any
	interned []string
}

// NewMarshalReader creates a MarshalReader reading from r.
func NewMarshalReader(r io.Reader) *MarshalReader {
	return &MarshalReader{r: bufio.NewReader(r)}
}

// Next decodes the next record. Integer values become decimal strings and
// None values are left out of the record.
func (m *MarshalReader) Next() (model.Record, error) {
	m.refs = m.refs[:0]
	m.interned = m.interned[:0]

	code, err := m.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if code&^flagRef != typeDict {
		return nil, fmt.Errorf("%w: expected dict, got type %q", ErrBadMarshal, code&^flagRef)
	}
	if code&flagRef != 0 {
		m.refs = append(m.refs, nil)
	}

	rec := make(model.Record)
	for {
		key, err := m.readObject()
		if err != nil {
			return nil, unexpected(err)
		}
		if _, ok := key.(endOfDict); ok {
			return rec, nil
		}
		value, err := m.readObject()
		if err != nil {
			return nil, unexpected(err)
		}
		if _, ok := value.(endOfDict); ok {
			return nil, fmt.Errorf("%w: dict ended after key %v", ErrBadMarshal, key)
		}
		k, ok := scalarString(key)
		if !ok {
			return nil, fmt.Errorf("%w: dict key of type %T", ErrBadMarshal, key)
		}
		if value == nil {
			continue
		}
		v, ok := scalarString(value)
		if !ok {
			return nil, fmt.Errorf("%w: field %q has unsupported type %T", ErrBadMarshal, k, value)
		}
		rec[k] = v
	}
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case int64:
		return strconv.FormatInt(v, 10), true
	case *big.Int:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case bool:
		if v {
			return "True", true
		}
		return "False", true
	}
	return "", false
}

func (m *MarshalReader) readObject() (any, error) {
	code, err := m.r.ReadByte()
	if err != nil {
		return nil, err
	}
	flag := code&flagRef != 0
	code &^= flagRef

	var v any
	switch code {
	case typeNull:
		return endOfDict{}, nil
	case typeNone:
		return nil, nil
	case typeTrue:
		return true, nil
	case typeFalse:
		return false, nil
	case typeRef:
		n, err := m.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 || int(n) >= len(m.refs) {
			return nil, fmt.Errorf("%w: bad reference %d", ErrBadMarshal, n)
		}
		return m.refs[n], nil
	case typeStringRef:
		n, err := m.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 || int(n) >= len(m.interned) {
			return nil, fmt.Errorf("%w: bad string reference %d", ErrBadMarshal, n)
		}
		return m.interned[n], nil
	case typeInt:
		n, err := m.readInt32()
		if err != nil {
			return nil, err
		}
		v = int64(n)
	case typeInt64:
		var n int64
		if err := binary.Read(m.r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		v = n
	case typeLong:
		n, err := m.readLong()
		if err != nil {
			return nil, err
		}
		v = n
	case typeBinaryFloat:
		var bits uint64
		if err := binary.Read(m.r, binary.LittleEndian, &bits); err != nil {
			return nil, err
		}
		v = math.Float64frombits(bits)
	case typeFloat:
		s, err := m.readShortString()
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad float %q", ErrBadMarshal, s)
		}
		v = f
	case typeString, typeUnicode, typeASCII, typeASCIIInterned, typeInterned:
		s, err := m.readString()
		if err != nil {
			return nil, err
		}
		if code == typeInterned {
			m.interned = append(m.interned, s)
		}
		v = s
	case typeShortASCII, typeShortInterned:
		s, err := m.readShortString()
		if err != nil {
			return nil, err
		}
		v = s
	default:
		return nil, fmt.Errorf("%w: unsupported type %q", ErrBadMarshal, code)
	}

	if flag {
		m.refs = append(m.refs, v)
	}
	return v, nil
}

func (m *MarshalReader) readInt32() (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(m.r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

func (m *MarshalReader) readString() (string, error) {
	n, err := m.readInt32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("%w: negative string length %d", ErrBadMarshal, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(m.r, buf); err != nil {
		return "", unexpected(err)
	}
	return string(buf), nil
}

func (m *MarshalReader) readShortString() (string, error) {
	n, err := m.r.ReadByte()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(m.r, buf); err != nil {
		return "", unexpected(err)
	}
	return string(buf), nil
}

// readLong decodes an arbitrary precision integer stored as base 2**15 digits,
// least significant first. The sign of the digit count is the sign of the value.
func (m *MarshalReader) readLong() (any, error) {
	n, err := m.readInt32()
	if err != nil {
		return nil, err
	}
	count := n
	if count < 0 {
		count = -count
	}
	digits := make([]byte, 2*int(count))
	if _, err := io.ReadFull(m.r, digits); err != nil {
		return nil, unexpected(err)
	}

	v := new(big.Int)
	for i := int(count) - 1; i >= 0; i-- {
		d := binary.LittleEndian.Uint16(digits[2*i:])
		v.Lsh(v, 15)
		v.Or(v, big.NewInt(int64(d)))
	}
	if n < 0 {
		v.Neg(v)
	}
	if v.IsInt64() {
		return v.Int64(), nil
	}
	return v, nil
}
