package legacy

// classicItems are the item ids that name-based saves (below version 38) can
// reference, keyed by their current display name.
var classicItems = []struct {
	ID   int32
	Name string
}{
	{1, "Iron Pickaxe"}, {2, "Dirt Block"}, {3, "Stone Block"}, {4, "Iron Broadsword"},
	{5, "Mushroom"}, {6, "Iron Shortsword"}, {7, "Iron Hammer"}, {8, "Torch"},
	{9, "Wood"}, {10, "Iron Axe"}, {11, "Iron Ore"}, {12, "Copper Ore"},
	{13, "Gold Ore"}, {14, "Silver Ore"}, {15, "Copper Watch"}, {16, "Silver Watch"},
	{17, "Gold Watch"}, {18, "Depth Meter"}, {19, "Gold Bar"}, {20, "Copper Bar"},
	{21, "Silver Bar"}, {22, "Iron Bar"}, {23, "Gel"}, {24, "Wooden Sword"},
	{25, "Wooden Door"}, {26, "Stone Wall"}, {27, "Acorn"}, {28, "Lesser Healing Potion"},
	{29, "Life Crystal"}, {30, "Dirt Wall"}, {31, "Bottle"}, {32, "Wooden Table"},
	{33, "Furnace"}, {34, "Wooden Chair"}, {35, "Iron Anvil"}, {36, "Work Bench"},
	{37, "Goggles"}, {38, "Lens"}, {39, "Wooden Bow"}, {40, "Wooden Arrow"},
	{41, "Flaming Arrow"}, {42, "Shuriken"}, {43, "Suspicious Looking Eye"}, {44, "Demon Bow"},
	{45, "War Axe of the Night"}, {46, "Light's Bane"}, {47, "Unholy Arrow"}, {48, "Chest"},
	{49, "Band of Regeneration"}, {50, "Magic Mirror"}, {51, "Jester's Arrow"}, {52, "Angel Statue"},
	{53, "Cloud in a Bottle"}, {54, "Hermes Boots"}, {55, "Enchanted Boomerang"}, {56, "Demonite Ore"},
	{57, "Demonite Bar"}, {58, "Heart"}, {59, "Corrupt Seeds"}, {60, "Vile Mushroom"},
	{61, "Ebonstone Block"}, {62, "Grass Seeds"}, {63, "Sunflower"}, {64, "Vilethorn"},
	{65, "Starfury"}, {66, "Purification Powder"}, {67, "Vile Powder"}, {68, "Rotten Chunk"},
	{69, "Worm Tooth"}, {70, "Worm Food"}, {71, "Copper Coin"}, {72, "Silver Coin"},
	{73, "Gold Coin"}, {74, "Platinum Coin"}, {75, "Fallen Star"}, {76, "Copper Greaves"},
	{77, "Iron Greaves"}, {78, "Silver Greaves"}, {79, "Gold Greaves"}, {80, "Copper Chainmail"},
	{81, "Iron Chainmail"}, {82, "Silver Chainmail"}, {83, "Gold Chainmail"}, {84, "Grappling Hook"},
	{85, "Chain"}, {86, "Shadow Scale"}, {87, "Piggy Bank"}, {88, "Mining Helmet"},
	{89, "Copper Helmet"}, {90, "Iron Helmet"}, {91, "Silver Helmet"}, {92, "Gold Helmet"},
	{93, "Wood Wall"}, {94, "Wood Platform"}, {95, "Flintlock Pistol"}, {96, "Musket"},
	{97, "Musket Ball"}, {98, "Minishark"}, {99, "Iron Bow"}, {100, "Shadow Greaves"},
	{101, "Shadow Scalemail"}, {102, "Shadow Helmet"}, {103, "Nightmare Pickaxe"}, {104, "The Breaker"},
	{105, "Candle"}, {106, "Copper Chandelier"}, {107, "Silver Chandelier"}, {108, "Gold Chandelier"},
	{109, "Mana Crystal"}, {110, "Lesser Mana Potion"}, {111, "Band of Starpower"}, {112, "Flower of Fire"},
	{113, "Magic Missile"}, {114, "Dirt Rod"}, {115, "Shadow Orb"}, {116, "Meteorite"},
	{117, "Meteorite Bar"}, {118, "Hook"}, {119, "Flamarang"}, {120, "Molten Fury"},
	{121, "Fiery Greatsword"}, {122, "Molten Pickaxe"}, {123, "Meteor Helmet"}, {124, "Meteor Suit"},
	{125, "Meteor Leggings"}, {126, "Bottled Water"}, {127, "Space Gun"}, {128, "Rocket Boots"},
	{162, "Ball O' Hurt"}, {191, "Thorn Chakram"},
	{228, "Jungle Hat"}, {229, "Jungle Shirt"}, {230, "Jungle Pants"},
	{291, "Gills Potion"}, {331, "Jungle Spores"},
	{372, "Cobalt Helmet"}, {374, "Cobalt Breastplate"}, {375, "Cobalt Leggings"},
}

// townNPCs maps town NPC type names to sprite ids. Files below version 190
// store the name.
var townNPCs = []struct {
	ID   int32
	Name string
}{
	{17, "Merchant"}, {18, "Nurse"}, {19, "Arms Dealer"}, {20, "Dryad"},
	{22, "Guide"}, {37, "Old Man"}, {38, "Demolitionist"}, {54, "Clothier"},
	{107, "Goblin Tinkerer"}, {108, "Wizard"}, {124, "Mechanic"}, {142, "Santa Claus"},
	{160, "Truffle"}, {178, "Steampunker"}, {207, "Dye Trader"}, {208, "Party Girl"},
	{209, "Cyborg"}, {227, "Painter"}, {228, "Witch Doctor"}, {229, "Pirate"},
	{353, "Stylist"}, {368, "Traveling Merchant"}, {369, "Angler"}, {441, "Tax Collector"},
	{453, "Skeleton Merchant"}, {550, "Tavernkeep"}, {588, "Golfer"}, {633, "Zoologist"},
	{663, "Princess"},
}

// roamingNPCs are the mob kinds a save keeps between sessions, named the way
// files below version 190 store them.
var roamingNPCs = []struct {
	ID   int32
	Name string
}{
	{105, "Bound Goblin"}, {106, "Bound Wizard"}, {123, "Bound Mechanic"},
	{354, "Webbed Stylist"}, {355, "Firefly"}, {356, "Butterfly"},
	{376, "Sleeping Angler"}, {579, "Unconscious Man"}, {589, "Golfer Rescue"},
}

// rename is one era boundary: files at or below MaxVersion wrote Old where
// current files write New.
type rename struct {
	MaxVersion uint32
	Old        string
	New        string
}

// renames are applied in order; later eras never rename an earlier era's
// result.
var renames = []rename{
	{4, "Cobalt Helmet", "Jungle Hat"},
	{4, "Cobalt Breastplate", "Jungle Shirt"},
	{4, "Cobalt Greaves", "Jungle Pants"},
	{13, "Jungle Rose", "Jungle Spores"},
	{20, "Gills potion", "Gills Potion"},
	{20, "Thorn Chakrum", "Thorn Chakram"},
	{20, "Ball 'O Hurt", "Ball O' Hurt"},
}
