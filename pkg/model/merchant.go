package model

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/datagen/pkg/codec"
)

// MerchantCategory is the broad business category of a merchant.
type MerchantCategory uint8

const (
	CategoryAgricultural MerchantCategory = iota
	CategoryContracted
	CategoryTravelAndEntertainment
	CategoryCarRental
	CategoryLodging
	CategoryTransportation
	CategoryUtility
	CategoryRetailOutlet
	CategoryClothingStore
	CategoryMiscStore
	CategoryBusiness
	CategoryProfessionalOrMembership
	CategoryGovernment
)

// Discriminants are pinned by this table, not by iota order alone.
var merchantCategoryNames = map[MerchantCategory]string{
	CategoryAgricultural:             "agricultural",
	CategoryContracted:               "contracted",
	CategoryTravelAndEntertainment:   "travel_and_entertainment",
	CategoryCarRental:                "car_rental",
	CategoryLodging:                  "lodging",
	CategoryTransportation:           "transportation",
	CategoryUtility:                  "utility",
	CategoryRetailOutlet:             "retail_outlet",
	CategoryClothingStore:            "clothing_store",
	CategoryMiscStore:                "misc_store",
	CategoryBusiness:                 "business",
	CategoryProfessionalOrMembership: "professional_or_membership",
	CategoryGovernment:               "government",
}

// MerchantCategories lists every category in discriminant order
var MerchantCategories = []MerchantCategory{
	CategoryAgricultural,
	CategoryContracted,
	CategoryTravelAndEntertainment,
	CategoryCarRental,
	CategoryLodging,
	CategoryTransportation,
	CategoryUtility,
	CategoryRetailOutlet,
	CategoryClothingStore,
	CategoryMiscStore,
	CategoryBusiness,
	CategoryProfessionalOrMembership,
	CategoryGovernment,
}

// Valid reports whether c is a declared category
func (c MerchantCategory) Valid() bool {
	_, ok := merchantCategoryNames[c]
	return ok
}

func (c MerchantCategory) String() string {
	if name, ok := merchantCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("merchant_category(%d)", uint8(c))
}

// ParseMerchantCategory parses a category name such as "retail_outlet" (case-insensitive)
func ParseMerchantCategory(s string) (MerchantCategory, error) {
	for c, name := range merchantCategoryNames {
		if strings.EqualFold(s, name) {
			return c, nil
		}
	}
	return 0, errors.Wrapf(codec.ErrInvalidDiscriminant, "merchant category %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (c MerchantCategory) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.Wrapf(codec.ErrInvalidDiscriminant, "merchant category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *MerchantCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseMerchantCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Merchant is a business that accepts card payments
type Merchant struct {
	Name     string           `json:"name" yaml:"name"`
	MCC      uint32           `json:"mcc" yaml:"mcc"`
	Category MerchantCategory `json:"category" yaml:"category"`
}

// Kind returns KindMerchant
func (m Merchant) Kind() Kind { return KindMerchant }

// Size returns the encoded size in bytes
func (m Merchant) Size() (int, error) {
	if !m.Category.Valid() {
		return 0, errors.Wrapf(codec.ErrInvalidDiscriminant, "merchant.category %d", uint8(m.Category))
	}
	n, err := stringsSize(KindMerchant, namedString{"name", m.Name})
	if err != nil {
		return 0, err
	}
	return n + codec.Uint32Size + codec.Uint8Size, nil
}

// Serialize encodes the length-prefixed name, the MCC and the category byte.
func (m Merchant) Serialize() (*codec.Buffer, error) {
	size, err := m.Size()
	if err != nil {
		return nil, err
	}

	w := newFieldWriter(size)
	w.string(m.Name)
	w.uint32(m.MCC)
	w.uint8(uint8(m.Category))
	return w.finish(KindMerchant)
}

// DecodeMerchant parses bytes produced by Merchant.Serialize
func DecodeMerchant(data []byte) (Merchant, error) {
	var m Merchant
	var err error
	r := codec.NewReader(data)

	if m.Name, err = r.ReadString(); err != nil {
		return Merchant{}, errors.Wrap(err, "decode merchant.name")
	}
	if m.MCC, err = r.ReadUint32(); err != nil {
		return Merchant{}, errors.Wrap(err, "decode merchant.mcc")
	}
	category, err := r.ReadUint8()
	if err != nil {
		return Merchant{}, errors.Wrap(err, "decode merchant.category")
	}
	m.Category = MerchantCategory(category)
	if !m.Category.Valid() {
		return Merchant{}, errors.Wrapf(codec.ErrInvalidDiscriminant, "decode merchant.category %d", category)
	}
	if err := r.Finish(); err != nil {
		return Merchant{}, errors.Wrap(err, "decode merchant")
	}
	return m, nil
}
