// Package satchel converts game inventory items to and from compact
// documents for persistence or network transfer.
//
// An item is a material, a stack amount, a durability value and optional
// metadata. Metadata comes in three variants picked by the material:
//
//   - *PlainMeta: display name, lore and applied enchantments
//   - *PotionMeta: the above plus an ordered list of custom effects
//   - *BookMeta: the above plus stored enchantments (enchanted books)
//
// # Wire Format
//
// Items encode to a JSON object. Keys holding a default value are left out:
//
//	{
//	  "type": "DIAMOND_SWORD",
//	  "amount": 2,
//	  "durability": 10,
//	  "display-name": "&bExcalibur",
//	  "lore": ["&7Forged in fire"],
//	  "enchantments": [{"type": "DAMAGE_ALL", "level": 5}]
//	}
//
// Potions carry "custom-effects": [{"type": "SPEED", "duration": 100,
// "amplifier": 1}]. For enchanted books "enchantments" holds the stored
// enchantments.
//
// Formatting codes use § in item text and & in documents. Encoding
// substitutes them; decoding leaves text as written unless a Serializer is
// built WithColorTranslation(true).
//
// # Basic Usage
//
//	text := satchel.Encode(item)
//
//	item, err := satchel.Decode(text)
//	if errors.Is(err, satchel.ErrUnknownType) {
//	    // ...
//	}
//
// # Catalogs
//
// Names are resolved against a Catalog of materials, enchantments and
// effect types. DefaultCatalog holds the vanilla registries; LoadCatalog
// reads a custom one from YAML.
//
// # Serializers
//
// A Serializer pairs a document codec with a catalog:
//
//	s := satchel.NewSerializer(msgpack.New(), satchel.WithCatalog(catalog))
//	data, _ := s.Store(ctx, item)
//	item, err := s.Load(ctx, data)
//
// The following codecs are available as subpackages:
//
//   - json - JSON encoding (application/json), the default
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//   - xml - XML encoding (application/xml)
//   - nbt - Minecraft NBT, disk and network forms
//
// # Errors
//
// Decode failures are *ParseError values wrapping one of ErrUnknownType,
// ErrUnknownEnchantment, ErrUnknownPotionEffect, ErrMissingField or
// ErrMalformedDocument.
package satchel
