package satchel

import (
	"github.com/zoobzio/satchel/document"
	"github.com/zoobzio/satchel/json"
)

// Document keys.
const (
	fieldType          = "type"
	fieldAmount        = "amount"
	fieldDurability    = "durability"
	fieldDisplayName   = "display-name"
	fieldLore          = "lore"
	fieldEnchantments  = "enchantments"
	fieldCustomEffects = "custom-effects"
	fieldLevel         = "level"
	fieldDuration      = "duration"
	fieldAmplifier     = "amplifier"
)

var defaultCodec = json.New()

// Encode returns the compact JSON encoding of it.
func Encode(it *Item) string {
	data, err := defaultCodec.Marshal(EncodeDocument(it))
	if err != nil {
		// Documents built by EncodeDocument only hold strings, integers,
		// slices and nested documents.
		panic("satchel: encode: " + err.Error())
	}
	return string(data)
}

// EncodeDocument builds the ordered document for it. Keys whose value equals
// the default are left out.
func EncodeDocument(it *Item) *document.Document {
	d := document.New().Set(fieldType, it.Material.String())
	if it.Amount != 1 {
		d.Set(fieldAmount, int64(it.Amount))
	}
	if it.Durability != 0 {
		d.Set(fieldDurability, int64(it.Durability))
	}
	if !it.HasMeta() {
		return d
	}

	base := it.Meta.Base()
	if base.HasDisplayName() {
		d.Set(fieldDisplayName, EscapeColors(base.DisplayName))
	}
	if base.HasLore() {
		lore := make([]any, len(base.Lore))
		for i, line := range base.Lore {
			lore[i] = EscapeColors(line)
		}
		d.Set(fieldLore, lore)
	}
	if len(base.Enchants) > 0 {
		d.Set(fieldEnchantments, encodeEnchants(base.Enchants))
	}

	switch m := it.Meta.(type) {
	case *PotionMeta:
		if len(m.Effects) > 0 {
			d.Set(fieldCustomEffects, encodeEffects(m.Effects))
		}
	case *BookMeta:
		// Stored enchantments take the key over from the applied ones.
		d.Set(fieldEnchantments, encodeEnchants(m.Stored))
	}
	return d
}

func encodeEnchants(es Enchants) []any {
	out := make([]any, 0, len(es))
	for _, e := range es.Sorted() {
		out = append(out, document.New().
			Set(fieldType, e.Name).
			Set(fieldLevel, int64(es[e])))
	}
	return out
}

func encodeEffects(effects []PotionEffect) []any {
	out := make([]any, 0, len(effects))
	for _, e := range effects {
		out = append(out, document.New().
			Set(fieldType, e.Type.Name).
			Set(fieldDuration, int64(e.Duration)).
			Set(fieldAmplifier, int64(e.Amplifier)))
	}
	return out
}
