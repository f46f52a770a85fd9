package satchel

import "sort"

// Item is a stack of one material with optional metadata.
type Item struct {
	Material   Material
	Amount     int
	Durability int16

	// Meta is the material's metadata variant. Use Catalog.NewItem to get
	// an item with the right variant already attached.
	Meta Meta
}

// NewItem allocates an item shell of m using the default catalog.
func NewItem(m Material) *Item {
	return DefaultCatalog().NewItem(m)
}

// HasMeta reports whether the item carries any non-default metadata.
func (it *Item) HasMeta() bool {
	return it.Meta != nil && !it.Meta.empty()
}

// Meta is the metadata attached to an item. The concrete type is one of
// *PlainMeta, *PotionMeta or *BookMeta; switch on Kind() or use a type
// switch to reach variant specific data.
type Meta interface {
	Kind() MetaKind

	// Base returns the display data and applied enchantments shared by
	// every variant.
	Base() *BaseMeta

	empty() bool
	clone() Meta
}

// BaseMeta holds what every item meta has.
type BaseMeta struct {
	DisplayName string
	Lore        []string
	Enchants    Enchants
}

// Base implements Meta.
func (b *BaseMeta) Base() *BaseMeta { return b }

// HasDisplayName reports whether a custom name is set.
func (b *BaseMeta) HasDisplayName() bool { return b.DisplayName != "" }

// HasLore reports whether any lore lines are set.
func (b *BaseMeta) HasLore() bool { return len(b.Lore) > 0 }

func (b *BaseMeta) empty() bool {
	return !b.HasDisplayName() && !b.HasLore() && len(b.Enchants) == 0
}

// PlainMeta is the metadata of ordinary items.
type PlainMeta struct {
	BaseMeta
}

// Kind implements Meta.
func (m *PlainMeta) Kind() MetaKind { return MetaPlain }

// PotionMeta is the metadata of drinkable, splash and lingering potions and
// tipped arrows.
type PotionMeta struct {
	BaseMeta
	Effects []PotionEffect
}

// Kind implements Meta.
func (m *PotionMeta) Kind() MetaKind { return MetaPotion }

func (m *PotionMeta) empty() bool {
	return m.BaseMeta.empty() && len(m.Effects) == 0
}

// AddEffect adds a custom effect. If an effect of the same type is already
// present it is replaced in place when overwrite is set, otherwise the new
// effect is dropped. Reports whether the effect list changed.
func (m *PotionMeta) AddEffect(e PotionEffect, overwrite bool) bool {
	for i, existing := range m.Effects {
		if existing.Type.Name != e.Type.Name {
			continue
		}
		if !overwrite || existing == e {
			return false
		}
		m.Effects[i] = e
		return true
	}
	m.Effects = append(m.Effects, e)
	return true
}

// BookMeta is the metadata of enchanted books. Stored enchantments are held
// for transfer at an anvil and are not applied to the book itself.
type BookMeta struct {
	BaseMeta
	Stored Enchants
}

// Kind implements Meta.
func (m *BookMeta) Kind() MetaKind { return MetaEnchantedBook }

func (m *BookMeta) empty() bool {
	return m.BaseMeta.empty() && len(m.Stored) == 0
}

func newMeta(kind MetaKind) Meta {
	switch kind {
	case MetaPotion:
		return &PotionMeta{}
	case MetaEnchantedBook:
		return &BookMeta{}
	default:
		return &PlainMeta{}
	}
}

// Enchants maps enchantments to levels. Entries are unique by enchantment
// name; use Add to keep it that way.
type Enchants map[Enchantment]int

// Add sets the level of e, allocating the set on first use. An entry with
// the same name is replaced, whatever its other fields.
func (es *Enchants) Add(e Enchantment, level int) {
	if *es == nil {
		*es = make(Enchants)
	}
	for existing := range *es {
		if existing.Name == e.Name {
			delete(*es, existing)
		}
	}
	(*es)[e] = level
}

// Level returns the level of the enchantment called name.
func (es Enchants) Level(name string) (int, bool) {
	for e, level := range es {
		if e.Name == name {
			return level, true
		}
	}
	return 0, false
}

// Remove deletes the enchantment called name. Reports whether it was present.
func (es Enchants) Remove(name string) bool {
	for e := range es {
		if e.Name == name {
			delete(es, e)
			return true
		}
	}
	return false
}

// Sorted returns the enchantments ordered by name.
func (es Enchants) Sorted() []Enchantment {
	out := make([]Enchantment, 0, len(es))
	for e := range es {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PotionEffect is a custom effect carried by a potion.
type PotionEffect struct {
	Type      EffectType
	Duration  int // ticks
	Amplifier int
}
