package satchel

import "slices"

// Clone returns a deep copy of the item. Mutating the copy, including its
// metadata, does not affect the original.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	out := *it
	if it.Meta != nil {
		out.Meta = it.Meta.clone()
	}
	return &out
}

func (b BaseMeta) cloneBase() BaseMeta {
	return BaseMeta{
		DisplayName: b.DisplayName,
		Lore:        slices.Clone(b.Lore),
		Enchants:    b.Enchants.clone(),
	}
}

func (es Enchants) clone() Enchants {
	if es == nil {
		return nil
	}
	out := make(Enchants, len(es))
	for e, lvl := range es {
		out[e] = lvl
	}
	return out
}

func (m *PlainMeta) clone() Meta {
	return &PlainMeta{BaseMeta: m.cloneBase()}
}

func (m *PotionMeta) clone() Meta {
	return &PotionMeta{
		BaseMeta: m.cloneBase(),
		Effects:  slices.Clone(m.Effects),
	}
}

func (m *BookMeta) clone() Meta {
	return &BookMeta{
		BaseMeta: m.cloneBase(),
		Stored:   m.Stored.clone(),
	}
}
