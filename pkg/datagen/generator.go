// Package datagen produces random but well-formed User, Card and Merchant
// records. A Generator is deterministic for a given seed.
package datagen

import (
	"math/rand/v2"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/datagen/pkg/model"
)

// Generator is not safe for concurrent use; give each goroutine its own.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator seeded with seed
func New(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate returns one random record of the given kind
func (g *Generator) Generate(kind model.Kind) (model.Record, error) {
	switch kind {
	case model.KindUser:
		u := g.User()
		return &u, nil
	case model.KindCard:
		c := g.Card()
		return &c, nil
	case model.KindMerchant:
		m := g.Merchant()
		return &m, nil
	default:
		return nil, errors.Wrapf(model.ErrUnknownKind, "%d", uint8(kind))
	}
}

// Batch returns n random records of the given kind
func (g *Generator) Batch(kind model.Kind, n int) ([]model.Record, error) {
	if n < 0 {
		return nil, errors.Newf("negative batch size %d", n)
	}
	records := make([]model.Record, 0, n)
	for i := 0; i < n; i++ {
		rec, err := g.Generate(kind)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// User returns a random user with an email derived from the name
func (g *Generator) User() model.User {
	first := pick(g.rng, firstNames)
	last := pick(g.rng, lastNames)
	local := strings.ToLower(first) + "." + strings.ToLower(strings.ReplaceAll(last, "'", ""))
	if g.rng.IntN(3) == 0 {
		local += itoa(g.rng.IntN(100))
	}
	return model.User{
		FirstName: first,
		LastName:  last,
		Email:     local + "@" + pick(g.rng, emailDomains),
	}
}

// Card returns a random card with a Luhn-valid PAN for its network
func (g *Generator) Card() model.Card {
	c := model.Card{
		ExpirationMonth: uint8(1 + g.rng.IntN(12)),
		ExpirationYear:  uint8(25 + g.rng.IntN(11)),
	}

	switch n := g.rng.IntN(100); {
	case n < 45:
		c.Type = model.CardVisa
		c.PAN = g.pan("4", 16)
		c.CVV = uint32(g.rng.IntN(1000))
	case n < 80:
		c.Type = model.CardMastercard
		c.PAN = g.pan("5"+itoa(1+g.rng.IntN(5)), 16)
		c.CVV = uint32(g.rng.IntN(1000))
	case n < 98:
		c.Type = model.CardAmex
		c.PAN = g.pan(pick(g.rng, []string{"34", "37"}), 15)
		c.CVV = uint32(g.rng.IntN(10000))
	default:
		c.Type = model.CardNone
	}
	return c
}

// pan builds a number of the given length starting with prefix and ending in a Luhn check digit
func (g *Generator) pan(prefix string, length int) string {
	var b strings.Builder
	b.Grow(length)
	b.WriteString(prefix)
	for b.Len() < length-1 {
		b.WriteByte(byte('0' + g.rng.IntN(10)))
	}
	body := b.String()
	return body + string(rune('0'+luhnCheckDigit(body)))
}

// Merchant returns a random merchant whose MCC belongs to its category
func (g *Generator) Merchant() model.Merchant {
	category := pick(g.rng, model.MerchantCategories)
	profile := merchantProfiles[category]
	return model.Merchant{
		Name:     pick(g.rng, merchantAdjectives) + " " + pick(g.rng, profile.nouns),
		MCC:      pick(g.rng, profile.mccs),
		Category: category,
	}
}

// CategoryForMCC returns the category whose MCC table contains mcc
func CategoryForMCC(mcc uint32) (model.MerchantCategory, bool) {
	for category, profile := range merchantProfiles {
		for _, m := range profile.mccs {
			if m == mcc {
				return category, true
			}
		}
	}
	return 0, false
}

// LuhnValid reports whether pan is all digits and passes the Luhn checksum
func LuhnValid(pan string) bool {
	if len(pan) < 2 {
		return false
	}
	for i := 0; i < len(pan); i++ {
		if pan[i] < '0' || pan[i] > '9' {
			return false
		}
	}
	return luhnCheckDigit(pan[:len(pan)-1]) == int(pan[len(pan)-1]-'0')
}

func luhnCheckDigit(body string) int {
	sum := 0
	double := true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10 - sum%10) % 10
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
