package satchel

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/zoobzio/satchel/document"
)

func mustDecode(t *testing.T, text string) *Item {
	t.Helper()
	it, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode(%s) error: %v", text, err)
	}
	return it
}

func TestDecode_RoundTripTypeOnly(t *testing.T) {
	it := mustDecode(t, Encode(NewItem("DIAMOND")))

	if it.Material != "DIAMOND" {
		t.Errorf("Material = %q, want DIAMOND", it.Material)
	}
	if it.Amount != 1 {
		t.Errorf("Amount = %d, want 1", it.Amount)
	}
	if it.Durability != 0 {
		t.Errorf("Durability = %d, want 0", it.Durability)
	}
	if it.HasMeta() {
		t.Error("decoded item should have no meta")
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	sword := NewItem("DIAMOND_SWORD")
	sword.Amount = 2
	sword.Durability = 17
	sword.Meta.Base().DisplayName = "&bBlade"
	sword.Meta.Base().Lore = []string{"one", "two"}
	sword.Meta.Base().Enchants.Add(enchantment(t, "DAMAGE_ALL"), 5)
	sword.Meta.Base().Enchants.Add(enchantment(t, "FIRE_ASPECT"), 2)

	potion := NewItem("LINGERING_POTION")
	potion.Meta.(*PotionMeta).AddEffect(PotionEffect{Type: effect(t, "POISON"), Duration: 400, Amplifier: 2}, true)
	potion.Meta.(*PotionMeta).AddEffect(PotionEffect{Type: effect(t, "SLOW"), Duration: 80, Amplifier: 0}, true)

	book := NewItem("ENCHANTED_BOOK")
	book.Meta.(*BookMeta).Stored.Add(enchantment(t, "MENDING"), 1)
	book.Meta.(*BookMeta).Stored.Add(enchantment(t, "THORNS"), 3)

	for _, original := range []*Item{sword, potion, book} {
		t.Run(original.Material.String(), func(t *testing.T) {
			restored := mustDecode(t, Encode(original))
			if diff := cmp.Diff(original, restored, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_Defaults(t *testing.T) {
	it := mustDecode(t, `{"type":"STONE"}`)
	if it.Amount != 1 || it.Durability != 0 {
		t.Errorf("Amount, Durability = %d, %d; want 1, 0", it.Amount, it.Durability)
	}
	if _, ok := it.Meta.(*PlainMeta); !ok {
		t.Errorf("Meta = %T, want *PlainMeta", it.Meta)
	}
}

func TestDecode_MetaVariantFromType(t *testing.T) {
	tests := []struct {
		input string
		kind  MetaKind
	}{
		{`{"type":"STONE"}`, MetaPlain},
		{`{"type":"POTION"}`, MetaPotion},
		{`{"type":"TIPPED_ARROW"}`, MetaPotion},
		{`{"type":"ENCHANTED_BOOK"}`, MetaEnchantedBook},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			it := mustDecode(t, tt.input)
			if it.Meta.Kind() != tt.kind {
				t.Errorf("Meta.Kind() = %s, want %s", it.Meta.Kind(), tt.kind)
			}
		})
	}
}

func TestDecode_Fields(t *testing.T) {
	it := mustDecode(t, `{"type":"BOW","amount":5,"durability":12,"display-name":"&aLongbow","lore":["a","b"],"unknown":{"x":1}}`)

	if it.Amount != 5 {
		t.Errorf("Amount = %d, want 5", it.Amount)
	}
	if it.Durability != 12 {
		t.Errorf("Durability = %d, want 12", it.Durability)
	}
	base := it.Meta.Base()
	if base.DisplayName != "&aLongbow" {
		t.Errorf("DisplayName = %q, want verbatim %q", base.DisplayName, "&aLongbow")
	}
	if diff := cmp.Diff([]string{"a", "b"}, base.Lore); diff != "" {
		t.Errorf("Lore mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_LooseIntegers(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		amount     int
		durability int16
	}{
		{"fraction truncated", `{"type":"STONE","amount":2.9}`, 2, 0},
		{"numeric string", `{"type":"STONE","amount":"7"}`, 7, 0},
		{"durability wraps to int16", `{"type":"STONE","durability":40000}`, 1, -25536},
		{"negative durability", `{"type":"STONE","durability":-5}`, 1, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := mustDecode(t, tt.input)
			if it.Amount != tt.amount {
				t.Errorf("Amount = %d, want %d", it.Amount, tt.amount)
			}
			if it.Durability != tt.durability {
				t.Errorf("Durability = %d, want %d", it.Durability, tt.durability)
			}
		})
	}
}

func TestDecode_AppliedEnchantment(t *testing.T) {
	it := mustDecode(t, `{"type":"DIAMOND_SWORD","enchantments":[{"type":"DAMAGE_ALL","level":3}]}`)

	want := Enchants{enchantment(t, "DAMAGE_ALL"): 3}
	if diff := cmp.Diff(want, it.Meta.Base().Enchants); diff != "" {
		t.Errorf("Enchants mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_EnchantmentLevelsNotValidated(t *testing.T) {
	it := mustDecode(t, `{"type":"DIAMOND_SWORD","enchantments":[{"type":"KNOCKBACK","level":0},{"type":"LOOT_BONUS_MOBS","level":-4},{"type":"DAMAGE_ALL","level":1000}]}`)

	got := it.Meta.Base().Enchants
	if got[enchantment(t, "KNOCKBACK")] != 0 || got[enchantment(t, "LOOT_BONUS_MOBS")] != -4 || got[enchantment(t, "DAMAGE_ALL")] != 1000 {
		t.Errorf("Enchants = %v", got)
	}
	if len(got) != 3 {
		t.Errorf("len(Enchants) = %d, want 3", len(got))
	}
}

func TestDecode_StoredEnchantments(t *testing.T) {
	it := mustDecode(t, `{"type":"ENCHANTED_BOOK","enchantments":[{"type":"MENDING","level":1}]}`)

	book, ok := it.Meta.(*BookMeta)
	if !ok {
		t.Fatalf("Meta = %T, want *BookMeta", it.Meta)
	}
	if len(book.Enchants) != 0 {
		t.Errorf("book should have no applied enchantments, got %v", book.Enchants)
	}
	if book.Stored[enchantment(t, "MENDING")] != 1 || len(book.Stored) != 1 {
		t.Errorf("Stored = %v, want MENDING:1", book.Stored)
	}
}

func TestDecode_PotionEnchantmentsAreApplied(t *testing.T) {
	it := mustDecode(t, `{"type":"POTION","enchantments":[{"type":"LUCK","level":1}]}`)
	if it.Meta.Base().Enchants[enchantment(t, "LUCK")] != 1 {
		t.Errorf("Enchants = %v, want LUCK:1", it.Meta.Base().Enchants)
	}
}

func TestDecode_CustomEffects(t *testing.T) {
	it := mustDecode(t, `{"type":"POTION","custom-effects":[{"type":"SPEED","duration":100,"amplifier":1}]}`)

	potion, ok := it.Meta.(*PotionMeta)
	if !ok {
		t.Fatalf("Meta = %T, want *PotionMeta", it.Meta)
	}
	want := []PotionEffect{{Type: effect(t, "SPEED"), Duration: 100, Amplifier: 1}}
	if diff := cmp.Diff(want, potion.Effects); diff != "" {
		t.Errorf("Effects mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_CustomEffectsCaseInsensitive(t *testing.T) {
	it := mustDecode(t, `{"type":"POTION","custom-effects":[{"type":"night_vision","duration":10,"amplifier":0}]}`)

	effects := it.Meta.(*PotionMeta).Effects
	if len(effects) != 1 || effects[0].Type.Name != "NIGHT_VISION" {
		t.Errorf("Effects = %+v, want NIGHT_VISION", effects)
	}
}

func TestDecode_DuplicateEffectTypeOverwrites(t *testing.T) {
	it := mustDecode(t, `{"type":"POTION","custom-effects":[`+
		`{"type":"SPEED","duration":100,"amplifier":1},`+
		`{"type":"JUMP","duration":50,"amplifier":0},`+
		`{"type":"SPEED","duration":200,"amplifier":2}]}`)

	want := []PotionEffect{
		{Type: effect(t, "SPEED"), Duration: 200, Amplifier: 2},
		{Type: effect(t, "JUMP"), Duration: 50, Amplifier: 0},
	}
	if diff := cmp.Diff(want, it.Meta.(*PotionMeta).Effects); diff != "" {
		t.Errorf("Effects mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_DocumentOrder(t *testing.T) {
	// type may come last; lore replaces earlier lore
	it := mustDecode(t, `{"lore":["x"],"amount":3,"type":"STONE"}`)
	if it.Amount != 3 {
		t.Errorf("Amount = %d, want 3", it.Amount)
	}
	if diff := cmp.Diff([]string{"x"}, it.Meta.Base().Lore); diff != "" {
		t.Errorf("Lore mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		message  string
	}{
		{
			name:     "unknown type",
			input:    `{"type":"NOT_A_REAL_ITEM"}`,
			sentinel: ErrUnknownType,
			message:  "Invalid item type: NOT_A_REAL_ITEM",
		},
		{
			name:     "type names are case sensitive",
			input:    `{"type":"stone"}`,
			sentinel: ErrUnknownType,
			message:  "Invalid item type: stone",
		},
		{
			name:     "missing type",
			input:    `{"amount":2}`,
			sentinel: ErrMissingField,
			message:  "Missing item type",
		},
		{
			name:     "type not a string",
			input:    `{"type":5}`,
			sentinel: ErrMalformedDocument,
			message:  "Invalid item type: 5",
		},
		{
			name:     "invalid json",
			input:    `{"type":`,
			sentinel: ErrMalformedDocument,
		},
		{
			name:     "not an object",
			input:    `["STONE"]`,
			sentinel: ErrMalformedDocument,
		},
		{
			name:     "amount not a number",
			input:    `{"type":"STONE","amount":"many"}`,
			sentinel: ErrMalformedDocument,
			message:  `Invalid amount: "many"`,
		},
		{
			name:     "display name not a string",
			input:    `{"type":"STONE","display-name":["a"]}`,
			sentinel: ErrMalformedDocument,
		},
		{
			name:     "lore line not a string",
			input:    `{"type":"STONE","lore":["ok",3]}`,
			sentinel: ErrMalformedDocument,
			message:  "Invalid lore line 1: 3",
		},
		{
			name:     "lore not an array",
			input:    `{"type":"STONE","lore":"text"}`,
			sentinel: ErrMalformedDocument,
		},
		{
			name:     "unknown enchantment",
			input:    `{"type":"DIAMOND_SWORD","enchantments":[{"type":"SUPER_SHARP","level":1}]}`,
			sentinel: ErrUnknownEnchantment,
			message:  "Unknown enchantment type: SUPER_SHARP",
		},
		{
			name:     "enchantment without level",
			input:    `{"type":"DIAMOND_SWORD","enchantments":[{"type":"DAMAGE_ALL"}]}`,
			sentinel: ErrMissingField,
			message:  `Missing type or level tag for: {"type":"DAMAGE_ALL"}`,
		},
		{
			name:     "enchantment entry not an object",
			input:    `{"type":"DIAMOND_SWORD","enchantments":["DAMAGE_ALL"]}`,
			sentinel: ErrMalformedDocument,
		},
		{
			name:     "unknown potion effect",
			input:    `{"type":"POTION","custom-effects":[{"type":"FLY","duration":1,"amplifier":1}]}`,
			sentinel: ErrUnknownPotionEffect,
			message:  "Invalid potion type: FLY",
		},
		{
			name:     "missing amplifier",
			input:    `{"type":"POTION","custom-effects":[{"type":"SPEED","duration":100}]}`,
			sentinel: ErrMissingField,
			message:  `Missing duration or amplifier tag for: {"type":"SPEED","duration":100}`,
		},
		{
			name:     "missing duration",
			input:    `{"type":"POTION","custom-effects":[{"type":"SPEED","amplifier":1}]}`,
			sentinel: ErrMissingField,
			message:  `Missing duration or amplifier tag for: {"type":"SPEED","amplifier":1}`,
		},
		{
			name:     "custom effects on a plain item",
			input:    `{"type":"DIAMOND_SWORD","custom-effects":[]}`,
			sentinel: ErrMalformedDocument,
			message:  "Item type DIAMOND_SWORD cannot carry custom-effects",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := Decode(tt.input)
			if err == nil {
				t.Fatalf("Decode(%s) should fail", tt.input)
			}
			if it != nil {
				t.Error("Decode() should not return a partial item")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Decode() error = %v, want %v", err, tt.sentinel)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Decode() error should be *ParseError, got %T", err)
			}
			if tt.message != "" && pe.Message != tt.message {
				t.Errorf("Message = %q, want %q", pe.Message, tt.message)
			}
		})
	}
}

func TestDecode_UnknownTypeMessageNamesValue(t *testing.T) {
	_, err := Decode(`{"type":"NOT_A_REAL_ITEM"}`)
	if err == nil || !strings.Contains(err.Error(), "NOT_A_REAL_ITEM") {
		t.Errorf("Decode() error = %v, want it to name NOT_A_REAL_ITEM", err)
	}
}

func TestDecode_MalformedKeepsCause(t *testing.T) {
	_, err := Decode(`{"type" "STONE"}`)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Decode() error should be *ParseError, got %T", err)
	}
	if pe.Cause == nil {
		t.Error("malformed document error should keep the parser error as Cause")
	}
	if pe.Message != pe.Cause.Error() {
		t.Errorf("Message = %q, want parser message %q", pe.Message, pe.Cause.Error())
	}
}

func TestDecodeDocument_CustomCatalog(t *testing.T) {
	catalog := NewCatalog().
		RegisterMaterial("RUBY_WAND", MetaPlain).
		RegisterEnchantment(Enchantment{Name: "ARCANE", MaxLevel: 3})

	d := document.New().
		Set("type", "RUBY_WAND").
		Set("enchantments", []any{document.New().Set("type", "ARCANE").Set("level", int64(2))})

	it, err := DecodeDocument(d, catalog)
	if err != nil {
		t.Fatalf("DecodeDocument() error: %v", err)
	}
	if it.Meta.Base().Enchants[Enchantment{Name: "ARCANE", MaxLevel: 3}] != 2 {
		t.Errorf("Enchants = %v, want ARCANE:2", it.Meta.Base().Enchants)
	}

	if _, err := DecodeDocument(document.New().Set("type", "STONE"), catalog); !errors.Is(err, ErrUnknownType) {
		t.Errorf("DecodeDocument(STONE) error = %v, want ErrUnknownType", err)
	}
}

func TestDecodeDocument_Nil(t *testing.T) {
	if _, err := DecodeDocument(nil, DefaultCatalog()); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("DecodeDocument(nil) error = %v, want ErrMalformedDocument", err)
	}
}

func TestDecode_Concurrent(t *testing.T) {
	input := `{"type":"POTION","amount":2,"custom-effects":[{"type":"SPEED","duration":100,"amplifier":1}]}`

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			it, err := Decode(input)
			if err != nil {
				errs <- err
				return
			}
			if Encode(it) != input {
				errs <- errors.New("re-encoded item differs: " + Encode(it))
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
