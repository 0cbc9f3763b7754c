package mapobjects

// Specials are one-off exceptions of the stock object table, addressed by
// fixed slot, collection and record indices. A negative slot or collection
// turns the corresponding exception off.
type Specials struct {
	// ElixirSlot/ElixirRecord locate the Elixir given in Tristam's house,
	// which the game stores as a talk object. It is turned into a chest so
	// that it can take part in treasure shuffling.
	ElixirSlot     int
	ElixirRecord   int
	ElixirValue    byte
	ElixirGameflag byte

	// WormPartySlot is the area where, one time in twenty, every enemy is
	// restricted to walkability class WormPartyLayer.
	WormPartySlot  int
	WormPartyLayer byte

	// Level Forest exists as two parallel collections. The box and chest
	// span of ForestSource is copied over ForestTarget so both versions of
	// the map show the same treasures.
	ForestSource int
	ForestTarget int
	ForestFirst  int
	ForestCount  int
}

// DefaultSpecials returns the exceptions of the stock game.
func DefaultSpecials() Specials {
	return Specials{
		ElixirSlot:     0x16,
		ElixirRecord:   0x05,
		ElixirValue:    0x04,
		ElixirGameflag: 0xAD,

		WormPartySlot:  0x48,
		WormPartyLayer: 0x02,

		ForestSource: 0x0A,
		ForestTarget: 0x09,
		ForestFirst:  0x0C,
		ForestCount:  5,
	}
}

// NoSpecials returns Specials with every exception turned off.
func NoSpecials() Specials {
	return Specials{ElixirSlot: -1, WormPartySlot: -1, ForestSource: -1, ForestTarget: -1}
}

// SetSpecials replaces the table exceptions used by the passes.
func (ol *ObjectList) SetSpecials(s Specials) {
	ol.specials = s
}
