package model

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/datagen/pkg/codec"
)

// CardType is the card network. Discriminants are part of the wire format;
// CardNone is a sentinel outside the numbered range.
type CardType uint8

const (
	CardAmex       CardType = 0
	CardVisa       CardType = 1
	CardMastercard CardType = 2
	CardNone       CardType = 0xFF
)

var cardTypeNames = map[CardType]string{
	CardAmex:       "amex",
	CardVisa:       "visa",
	CardMastercard: "mastercard",
	CardNone:       "none",
}

// Valid reports whether t is a declared card type
func (t CardType) Valid() bool {
	_, ok := cardTypeNames[t]
	return ok
}

func (t CardType) String() string {
	if name, ok := cardTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("card_type(%d)", uint8(t))
}

// ParseCardType parses a card type name (case-insensitive)
func ParseCardType(s string) (CardType, error) {
	for t, name := range cardTypeNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return 0, errors.Wrapf(codec.ErrInvalidDiscriminant, "card type %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (t CardType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, errors.Wrapf(codec.ErrInvalidDiscriminant, "card type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *CardType) UnmarshalText(text []byte) error {
	parsed, err := ParseCardType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// type + expiration month + expiration year + cvv
const cardFixedSize = codec.Uint8Size*3 + codec.Uint32Size

// Card is a payment card
type Card struct {
	Type            CardType `json:"type" yaml:"type"`
	ExpirationMonth uint8    `json:"expiration_month" yaml:"expiration_month"`
	ExpirationYear  uint8    `json:"expiration_year" yaml:"expiration_year"`
	CVV             uint32   `json:"cvv" yaml:"cvv"`
	PAN             string   `json:"pan" yaml:"pan"`
}

// Kind returns KindCard
func (c Card) Kind() Kind { return KindCard }

// Size returns the encoded size in bytes
func (c Card) Size() (int, error) {
	if !c.Type.Valid() {
		return 0, errors.Wrapf(codec.ErrInvalidDiscriminant, "card.type %d", uint8(c.Type))
	}
	n, err := stringsSize(KindCard, namedString{"pan", c.PAN})
	if err != nil {
		return 0, err
	}
	return cardFixedSize + n, nil
}

// Serialize encodes the card's fixed-width fields followed by the length-prefixed PAN.
func (c Card) Serialize() (*codec.Buffer, error) {
	size, err := c.Size()
	if err != nil {
		return nil, err
	}

	w := newFieldWriter(size)
	w.uint8(uint8(c.Type))
	w.uint8(c.ExpirationMonth)
	w.uint8(c.ExpirationYear)
	w.uint32(c.CVV)
	w.string(c.PAN)
	return w.finish(KindCard)
}

// DecodeCard parses bytes produced by Card.Serialize
func DecodeCard(data []byte) (Card, error) {
	var c Card
	r := codec.NewReader(data)

	typ, err := r.ReadUint8()
	if err != nil {
		return Card{}, errors.Wrap(err, "decode card.type")
	}
	c.Type = CardType(typ)
	if !c.Type.Valid() {
		return Card{}, errors.Wrapf(codec.ErrInvalidDiscriminant, "decode card.type %d", typ)
	}
	if c.ExpirationMonth, err = r.ReadUint8(); err != nil {
		return Card{}, errors.Wrap(err, "decode card.expiration_month")
	}
	if c.ExpirationYear, err = r.ReadUint8(); err != nil {
		return Card{}, errors.Wrap(err, "decode card.expiration_year")
	}
	if c.CVV, err = r.ReadUint32(); err != nil {
		return Card{}, errors.Wrap(err, "decode card.cvv")
	}
	if c.PAN, err = r.ReadString(); err != nil {
		return Card{}, errors.Wrap(err, "decode card.pan")
	}
	if err := r.Finish(); err != nil {
		return Card{}, errors.Wrap(err, "decode card")
	}
	return c, nil
}
