package model

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/datagen/pkg/codec"
)

// Kind identifies a record type when encoded records are stored side by side.
type Kind uint8

const (
	KindUser     Kind = 1
	KindCard     Kind = 2
	KindMerchant Kind = 3
)

var kindNames = map[Kind]string{
	KindUser:     "user",
	KindCard:     "card",
	KindMerchant: "merchant",
}

// Kinds lists every record kind in discriminant order
var Kinds = []Kind{KindUser, KindCard, KindMerchant}

// ErrUnknownKind is returned for a kind outside the declared set
var ErrUnknownKind = errors.New("unknown record kind")

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is a declared kind
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind parses a kind name such as "user" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownKind, "%q", s)
}

// Record is implemented by User, Card and Merchant and pointers to them.
type Record interface {
	Kind() Kind
	Size() (int, error)
	Serialize() (*codec.Buffer, error)
}

// New returns an empty record of the given kind, ready to be filled by a decoder
// such as encoding/json.
func New(kind Kind) (Record, error) {
	switch kind {
	case KindUser:
		return &User{}, nil
	case KindCard:
		return &Card{}, nil
	case KindMerchant:
		return &Merchant{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%d", uint8(kind))
	}
}

// Encode serializes rec and returns the encoded bytes.
func Encode(rec Record) ([]byte, error) {
	buf, err := rec.Serialize()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses data as a record of the given kind.
func Decode(kind Kind, data []byte) (Record, error) {
	switch kind {
	case KindUser:
		u, err := DecodeUser(data)
		if err != nil {
			return nil, err
		}
		return &u, nil
	case KindCard:
		c, err := DecodeCard(data)
		if err != nil {
			return nil, err
		}
		return &c, nil
	case KindMerchant:
		m, err := DecodeMerchant(data)
		if err != nil {
			return nil, err
		}
		return &m, nil
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%d", uint8(kind))
	}
}
