// Package testing provides shared fixtures for satchel tests.
package testing

import (
	"testing"

	"github.com/zoobzio/satchel"
)

// Enchantment looks up name in the default catalog.
func Enchantment(tb testing.TB, name string) satchel.Enchantment {
	tb.Helper()
	e, ok := satchel.DefaultCatalog().Enchantment(name)
	if !ok {
		tb.Fatalf("enchantment %q not in default catalog", name)
	}
	return e
}

// Effect looks up name in the default catalog.
func Effect(tb testing.TB, name string) satchel.EffectType {
	tb.Helper()
	e, ok := satchel.DefaultCatalog().Effect(name)
	if !ok {
		tb.Fatalf("effect %q not in default catalog", name)
	}
	return e
}

// Stone returns a full stack with no meta.
func Stone() *satchel.Item {
	it := satchel.NewItem("STONE")
	it.Amount = 64
	return it
}

// Sword returns a damaged, named and enchanted sword.
func Sword(tb testing.TB) *satchel.Item {
	tb.Helper()
	it := satchel.NewItem("DIAMOND_SWORD")
	it.Durability = 12
	base := it.Meta.Base()
	base.DisplayName = "§bFrostbite"
	base.Lore = []string{"§7Cold to the touch", "Forged in ice"}
	base.Enchants.Add(Enchantment(tb, "DAMAGE_ALL"), 5)
	base.Enchants.Add(Enchantment(tb, "DURABILITY"), 3)
	return it
}

// Potion returns a stack of splash potions with two custom effects.
func Potion(tb testing.TB) *satchel.Item {
	tb.Helper()
	it := satchel.NewItem("SPLASH_POTION")
	it.Amount = 3
	meta := it.Meta.(*satchel.PotionMeta)
	meta.DisplayName = "§dDraught of Haste"
	meta.AddEffect(satchel.PotionEffect{Type: Effect(tb, "SPEED"), Duration: 600, Amplifier: 1}, true)
	meta.AddEffect(satchel.PotionEffect{Type: Effect(tb, "JUMP"), Duration: 200, Amplifier: 0}, true)
	return it
}

// Book returns an enchanted book with two stored enchantments.
func Book(tb testing.TB) *satchel.Item {
	tb.Helper()
	it := satchel.NewItem("ENCHANTED_BOOK")
	meta := it.Meta.(*satchel.BookMeta)
	meta.Stored.Add(Enchantment(tb, "MENDING"), 1)
	meta.Stored.Add(Enchantment(tb, "DURABILITY"), 3)
	return it
}

// Items returns one of every fixture keyed by name.
func Items(tb testing.TB) map[string]*satchel.Item {
	tb.Helper()
	return map[string]*satchel.Item{
		"stone":  Stone(),
		"sword":  Sword(tb),
		"potion": Potion(tb),
		"book":   Book(tb),
	}
}

// Catalog returns a small catalog with one material of each meta kind.
func Catalog() *satchel.Catalog {
	return satchel.NewCatalog().
		RegisterMaterial("RUBY", satchel.MetaPlain).
		RegisterMaterial("ELIXIR", satchel.MetaPotion).
		RegisterMaterial("TOME", satchel.MetaEnchantedBook).
		RegisterEnchantment(satchel.Enchantment{Name: "SPARKLE", MaxLevel: 2}).
		RegisterEffect(satchel.EffectType{Name: "GLOW"})
}
