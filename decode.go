package satchel

import (
	"fmt"
	"math"
	"strconv"

	"github.com/zoobzio/satchel/document"
)

// Decode parses a JSON item document against the default catalog.
// Every failure is a *ParseError; no item is returned on failure.
func Decode(text string) (*Item, error) {
	d, err := defaultCodec.Unmarshal([]byte(text))
	if err != nil {
		return nil, wrapParseError(err)
	}
	return DecodeDocument(d, DefaultCatalog())
}

// DecodeDocument builds an item from d, resolving names against c.
func DecodeDocument(d *document.Document, c *Catalog) (*Item, error) {
	return decoder{catalog: c}.decode(d)
}

// decoder applies a document to a fresh item shell.
type decoder struct {
	catalog *Catalog

	// translateColors turns "&x" sequences in display text back into
	// formatting codes.
	translateColors bool
}

// recoverParseError turns a panic in the deferring function into an
// ErrMalformedDocument parse error. It must be deferred directly.
func recoverParseError(it **Item, err *error) {
	if r := recover(); r != nil {
		*it = nil
		*err = &ParseError{
			Err:     ErrMalformedDocument,
			Message: fmt.Sprint(r),
			Cause:   fmt.Errorf("panic while decoding item: %v", r),
		}
	}
}

func (dc decoder) decode(d *document.Document) (it *Item, err error) {
	defer recoverParseError(&it, &err)

	if d == nil {
		return nil, parseErrorf(ErrMalformedDocument, "Empty item document")
	}

	raw, ok := d.Get(fieldType)
	if !ok {
		return nil, parseErrorf(ErrMissingField, "Missing item type")
	}
	name, ok := raw.(string)
	if !ok {
		return nil, parseErrorf(ErrMalformedDocument, "Invalid item type: %s", describe(raw))
	}
	material, _, ok := dc.catalog.Material(name)
	if !ok {
		return nil, parseErrorf(ErrUnknownType, "Invalid item type: %s", name)
	}

	item := dc.catalog.NewItem(material)
	for _, f := range d.Fields() {
		if err := dc.apply(item, f); err != nil {
			return nil, wrapParseError(err)
		}
	}
	return item, nil
}

func (dc decoder) apply(item *Item, f document.Field) error {
	base := item.Meta.Base()

	switch f.Key {
	case fieldAmount:
		n, err := asInt(f.Key, f.Value)
		if err != nil {
			return err
		}
		item.Amount = int(int32(n))
	case fieldDurability:
		n, err := asInt(f.Key, f.Value)
		if err != nil {
			return err
		}
		item.Durability = int16(n)
	case fieldDisplayName:
		s, ok := f.Value.(string)
		if !ok {
			return parseErrorf(ErrMalformedDocument, "Invalid display-name: %s", describe(f.Value))
		}
		if dc.translateColors {
			s = TranslateColors(s)
		}
		base.DisplayName = s
	case fieldLore:
		lore, err := dc.lore(f.Value)
		if err != nil {
			return err
		}
		base.Lore = lore
	case fieldEnchantments:
		return dc.enchantments(item, f.Value)
	case fieldCustomEffects:
		return dc.customEffects(item, f.Value)
	}
	return nil
}

func (dc decoder) lore(v any) ([]string, error) {
	lines, ok := v.([]any)
	if !ok {
		return nil, parseErrorf(ErrMalformedDocument, "Invalid lore: %s", describe(v))
	}
	lore := make([]string, 0, len(lines))
	for i, line := range lines {
		s, ok := line.(string)
		if !ok {
			return nil, parseErrorf(ErrMalformedDocument, "Invalid lore line %d: %s", i, describe(line))
		}
		lore = append(lore, s)
	}
	if dc.translateColors {
		lore = translateLines(lore)
	}
	return lore, nil
}

func (dc decoder) enchantments(item *Item, v any) error {
	entries, err := objects(fieldEnchantments, v)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		rawType, ok := entry.Get(fieldType)
		if !ok {
			return parseErrorf(ErrMissingField, "Missing type or level tag for: %s", describe(entry))
		}
		name, ok := rawType.(string)
		if !ok {
			return parseErrorf(ErrMalformedDocument, "Invalid enchantment type: %s", describe(rawType))
		}
		enchant, ok := dc.catalog.Enchantment(name)
		if !ok {
			return parseErrorf(ErrUnknownEnchantment, "Unknown enchantment type: %s", name)
		}
		rawLevel, ok := entry.Get(fieldLevel)
		if !ok {
			return parseErrorf(ErrMissingField, "Missing type or level tag for: %s", describe(entry))
		}
		level, err := asInt(fieldLevel, rawLevel)
		if err != nil {
			return err
		}

		if book, ok := item.Meta.(*BookMeta); ok {
			book.Stored.Add(enchant, int(int32(level)))
		} else {
			item.Meta.Base().Enchants.Add(enchant, int(int32(level)))
		}
	}
	return nil
}

func (dc decoder) customEffects(item *Item, v any) error {
	potion, ok := item.Meta.(*PotionMeta)
	if !ok {
		return parseErrorf(ErrMalformedDocument, "Item type %s cannot carry custom-effects", item.Material)
	}
	entries, err := objects(fieldCustomEffects, v)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		rawType, ok := entry.Get(fieldType)
		if !ok {
			return parseErrorf(ErrMissingField, "Missing type tag for: %s", describe(entry))
		}
		name, ok := rawType.(string)
		if !ok {
			return parseErrorf(ErrMalformedDocument, "Invalid potion type: %s", describe(rawType))
		}
		effectType, ok := dc.catalog.Effect(name)
		if !ok {
			return parseErrorf(ErrUnknownPotionEffect, "Invalid potion type: %s", name)
		}

		rawDuration, hasDuration := entry.Get(fieldDuration)
		rawAmplifier, hasAmplifier := entry.Get(fieldAmplifier)
		if !hasDuration || !hasAmplifier {
			return parseErrorf(ErrMissingField, "Missing duration or amplifier tag for: %s", describe(entry))
		}
		duration, err := asInt(fieldDuration, rawDuration)
		if err != nil {
			return err
		}
		amplifier, err := asInt(fieldAmplifier, rawAmplifier)
		if err != nil {
			return err
		}

		potion.AddEffect(PotionEffect{
			Type:      effectType,
			Duration:  int(int32(duration)),
			Amplifier: int(int32(amplifier)),
		}, true)
	}
	return nil
}

// objects reads v as an array of objects.
func objects(key string, v any) ([]*document.Document, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, parseErrorf(ErrMalformedDocument, "Invalid %s: %s", key, describe(v))
	}
	out := make([]*document.Document, 0, len(list))
	for i, e := range list {
		obj, ok := e.(*document.Document)
		if !ok {
			return nil, parseErrorf(ErrMalformedDocument, "Invalid %s entry %d: %s", key, i, describe(e))
		}
		out = append(out, obj)
	}
	return out, nil
}

// asInt reads an integer the way loosely typed item files expect: integral
// numbers as-is, fractional numbers truncated, numeric strings parsed.
func asInt(key string, v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case float64:
		return truncate(key, x)
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return truncate(key, f)
		}
	}
	return 0, parseErrorf(ErrMalformedDocument, "Invalid %s: %s", key, describe(v))
}

func truncate(key string, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, parseErrorf(ErrMalformedDocument, "Invalid %s: %v", key, f)
	}
	return int64(f), nil
}

// describe renders a document value as compact JSON for error messages.
func describe(v any) string {
	switch x := v.(type) {
	case *document.Document:
		if data, err := defaultCodec.Marshal(x); err == nil {
			return string(data)
		}
	default:
		wrapped := document.New().Set("v", x)
		if data, err := defaultCodec.Marshal(wrapped); err == nil {
			// strip the {"v": ... } wrapper
			return string(data[len(`{"v":`) : len(data)-1])
		}
	}
	return fmt.Sprintf("%v", v)
}
