// Package worldstate is a small in-process game world used to exercise
// sealedgraph end to end: a tree of map regions, each holding entities
// and items, cheap to checkpoint to a byte buffer and restore later.
//
// It exercises most kinds sealedgraph understands: Region is a
// recursive tree held together by sealedgraph.Optional; Entity carries
// an owned slice of Item and a TileContent tagged union ({Tag,
// ...variants} shape); strings appear throughout as owned,
// independently-allocated byte runs. No type here has an owned-pointer
// or fixed-array field.
package worldstate

import "github.com/nsmryan/sealedgraph"

// ItemKind is a fixed-width enum; it carries no traversal action of its
// own (sealedgraph.KindScalar).
type ItemKind uint8

const (
	ItemWeapon ItemKind = iota
	ItemPotion
	ItemKey
)

// Item is an ordinary record.
type Item struct {
	Name  string
	Kind  ItemKind
	Power uint32
}

// ContentTag selects which field of TileContent is active.
type ContentTag uint8

const (
	ContentGround ContentTag = iota
	ContentItem
	ContentLink
)

// TileContent is a tagged union: Tag's value (0, 1, 2) selects exactly
// one of the fields that follow it (Ground, Item, Link respectively).
// Ground carries no real payload, but sealedgraph's schema builder
// rejects zero-sized types outright, so it holds an unused byte rather
// than struct{}.
type TileContent struct {
	Tag    ContentTag
	Ground uint8
	Item   Item
	Link   string
}

// Entity is one actor or object standing on a Region.
type Entity struct {
	ID        uint64
	Name      string
	Inventory []Item
	Content   TileContent
}

// Region is one node of the world's spatial tree. Children is absent
// for leaf regions.
type Region struct {
	Name     string
	Entities []Entity
	Children sealedgraph.Optional[[]Region]
}

// World is the root payload: callers Compact/Seal/Unseal a *World.
//
//sealedgraph:root
type World struct {
	Root Region
}

// Sample builds a small, fully-populated world used by the CLI demo and
// by this package's round-trip test.
func Sample() *World {
	leaf1 := Region{
		Name: "Cellar",
		Entities: []Entity{
			{ID: 1, Name: "Rat", Inventory: nil, Content: TileContent{Tag: ContentGround}},
		},
	}
	leaf2 := Region{
		Name: "Armory",
		Entities: []Entity{
			{
				ID:   2,
				Name: "Guard",
				Inventory: []Item{
					{Name: "Shortsword", Kind: ItemWeapon, Power: 7},
					{Name: "Healing Draught", Kind: ItemPotion, Power: 20},
				},
				Content: TileContent{Tag: ContentItem, Item: Item{Name: "Rusty Key", Kind: ItemKey, Power: 0}},
			},
		},
	}
	root := Region{
		Name: "Keep",
		Entities: []Entity{
			{ID: 0, Name: "Steward", Content: TileContent{Tag: ContentLink, Link: "Cellar"}},
		},
		Children: sealedgraph.Some([]Region{leaf1, leaf2}),
	}
	return &World{Root: root}
}
