package satchel

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Material identifies an item kind, e.g. "DIAMOND_SWORD".
type Material string

func (m Material) String() string {
	return string(m)
}

// MetaKind selects which metadata variant an item of a material carries.
type MetaKind uint8

const (
	// MetaPlain is ordinary item metadata with applied enchantments.
	MetaPlain MetaKind = iota

	// MetaPotion adds an ordered list of custom potion effects.
	MetaPotion

	// MetaEnchantedBook adds a set of stored enchantments.
	MetaEnchantedBook
)

func (k MetaKind) String() string {
	switch k {
	case MetaPlain:
		return "plain"
	case MetaPotion:
		return "potion"
	case MetaEnchantedBook:
		return "enchanted-book"
	default:
		return fmt.Sprintf("MetaKind(%d)", uint8(k))
	}
}

// Enchantment is a registered enchantment.
type Enchantment struct {
	Name     string `yaml:"name"`
	MaxLevel int    `yaml:"max-level"`
}

// EffectType is a registered potion effect type.
type EffectType struct {
	Name    string `yaml:"name"`
	Instant bool   `yaml:"instant"`
}

// Catalog holds the item kind, enchantment and potion effect registries the
// codec resolves names against.
//
// Material and enchantment names match exactly. Effect names match without
// regard to case. Catalogs are safe for concurrent use.
type Catalog struct {
	mu           sync.RWMutex
	materials    map[Material]MetaKind
	enchantments map[string]Enchantment
	effects      map[string]EffectType
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		materials:    make(map[Material]MetaKind),
		enchantments: make(map[string]Enchantment),
		effects:      make(map[string]EffectType),
	}
}

// RegisterMaterial adds or replaces a material.
// Returns the catalog for chaining.
func (c *Catalog) RegisterMaterial(m Material, kind MetaKind) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.materials[m] = kind
	return c
}

// RegisterEnchantment adds or replaces an enchantment.
// Returns the catalog for chaining.
func (c *Catalog) RegisterEnchantment(e Enchantment) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enchantments[e.Name] = e
	return c
}

// RegisterEffect adds or replaces an effect type.
// Returns the catalog for chaining.
func (c *Catalog) RegisterEffect(e EffectType) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.effects[strings.ToLower(e.Name)] = e
	return c
}

// Material looks up a material by name.
func (c *Catalog) Material(name string) (Material, MetaKind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	kind, ok := c.materials[Material(name)]
	return Material(name), kind, ok
}

// Enchantment looks up an enchantment by name.
func (c *Catalog) Enchantment(name string) (Enchantment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.enchantments[name]
	return e, ok
}

// Effect looks up an effect type by name, ignoring case.
func (c *Catalog) Effect(name string) (EffectType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.effects[strings.ToLower(name)]
	return e, ok
}

// Len returns the number of registered materials, enchantments and effects.
func (c *Catalog) Len() (materials, enchantments, effects int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.materials), len(c.enchantments), len(c.effects)
}

// NewItem allocates an item shell of the given material: amount 1,
// durability 0 and empty metadata of the material's variant.
// Unknown materials get plain metadata.
func (c *Catalog) NewItem(m Material) *Item {
	_, kind, _ := c.Material(string(m))
	return &Item{
		Material: m,
		Amount:   1,
		Meta:     newMeta(kind),
	}
}

// catalogFile is the YAML layout read by LoadCatalog.
type catalogFile struct {
	Materials struct {
		Plain         []string `yaml:"plain"`
		Potion        []string `yaml:"potion"`
		EnchantedBook []string `yaml:"enchanted-book"`
	} `yaml:"materials"`
	Enchantments []Enchantment `yaml:"enchantments"`
	Effects      []EffectType  `yaml:"effects"`
}

// LoadCatalog reads a catalog from YAML:
//
//	materials:
//	  plain: [STONE, DIAMOND_SWORD]
//	  potion: [POTION]
//	  enchanted-book: [ENCHANTED_BOOK]
//	enchantments:
//	  - {name: DAMAGE_ALL, max-level: 5}
//	effects:
//	  - {name: SPEED}
//	  - {name: HEAL, instant: true}
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return NewCatalog(), nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	c := NewCatalog()
	groups := []struct {
		kind  MetaKind
		names []string
	}{
		{MetaPlain, file.Materials.Plain},
		{MetaPotion, file.Materials.Potion},
		{MetaEnchantedBook, file.Materials.EnchantedBook},
	}
	for _, g := range groups {
		for _, name := range g.names {
			if name == "" {
				return nil, fmt.Errorf("empty material name in %s materials", g.kind)
			}
			if _, _, dup := c.Material(name); dup {
				return nil, fmt.Errorf("material %q listed twice", name)
			}
			c.RegisterMaterial(Material(name), g.kind)
		}
	}
	for _, e := range file.Enchantments {
		if e.Name == "" {
			return nil, fmt.Errorf("enchantment with empty name")
		}
		c.RegisterEnchantment(e)
	}
	for _, e := range file.Effects {
		if e.Name == "" {
			return nil, fmt.Errorf("effect with empty name")
		}
		c.RegisterEffect(e)
	}
	return c, nil
}

//go:embed catalog.yaml
var defaultCatalogYAML []byte

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the built-in catalog of vanilla materials,
// enchantments and effects. The same instance is returned on every call;
// registering on it affects every user of the default catalog.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := LoadCatalog(bytes.NewReader(defaultCatalogYAML))
		if err != nil {
			panic(fmt.Sprintf("satchel: embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
