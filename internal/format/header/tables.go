package header

import (
	"github.com/google/uuid"

	"wldkit.dev/internal/world"
)

type hdr = world.Header

var title = scalar("title", 0, cStr, func(h *hdr) *string { return &h.Title })
var worldID = i32("world_id", 0, func(h *hdr) *int32 { return &h.WorldID })

var bounds = []Field{
	i32("left", 0, func(h *hdr) *int32 { return &h.Left }),
	i32("right", 0, func(h *hdr) *int32 { return &h.Right }),
	i32("top", 0, func(h *hdr) *int32 { return &h.Top }),
	i32("bottom", 0, func(h *hdr) *int32 { return &h.Bottom }),
}

// segmentedIdentity sits between the title and the world id.
var segmentedIdentity = []Field{
	scalar("seed", 179, cStr, func(h *hdr) *string { return &h.Seed }),
	scalar("worldgen_version", 179, cU64, func(h *hdr) *uint64 { return &h.WorldGenVersion }),
	scalar("guid", 181, cUUID, func(h *hdr) *uuid.UUID { return &h.GUID }),
}

// segmentedModes follows the dimensions on segmented saves.
var segmentedModes = []Field{
	expertMode,
	i32("game_mode", 209, func(h *hdr) *int32 { return &h.GameMode }),
	flag("drunk_world", 222, func(h *hdr) *bool { return &h.DrunkWorld }),
	flag("good_world", 227, func(h *hdr) *bool { return &h.GoodWorld }),
	flag("tenth_anniversary", 238, func(h *hdr) *bool { return &h.TenthAnniversary }),
	flag("dont_starve", 239, func(h *hdr) *bool { return &h.DontStarve }),
	flag("not_the_bees", 241, func(h *hdr) *bool { return &h.NotTheBees }),
	flag("remix", 249, func(h *hdr) *bool { return &h.Remix }),
	flag("no_traps", 266, func(h *hdr) *bool { return &h.NoTraps }),
	flag("zenith", 267, func(h *hdr) *bool { return &h.Zenith }),
	scalar("creation_time", 141, cI64, func(h *hdr) *int64 { return &h.CreationTime }),
}

// body is shared by every generation from the moon type through the cloud
// and wind state. Gates above the flat era only matter to segmented saves.
var body = []Field{
	withMin(moonType, 63),
	fixed("tree_x", 44, cI32, func(h *hdr) []int32 { return h.TreeX[:] }),
	fixed("tree_style", 44, cI32, func(h *hdr) []int32 { return h.TreeStyle[:] }),
	fixed("cave_back_x", 60, cI32, func(h *hdr) []int32 { return h.CaveBackX[:] }),
	fixed("cave_back_style", 60, cI32, func(h *hdr) []int32 { return h.CaveBackStyle[:] }),
	i32("ice_back_style", 60, func(h *hdr) *int32 { return &h.IceBackStyle }),
	i32("jungle_back_style", 60, func(h *hdr) *int32 { return &h.JungleBackStyle }),
	i32("hell_back_style", 60, func(h *hdr) *int32 { return &h.HellBackStyle }),

	i32("spawn_x", 0, func(h *hdr) *int32 { return &h.SpawnX }),
	i32("spawn_y", 0, func(h *hdr) *int32 { return &h.SpawnY }),
	scalar("ground_level", 0, cF64, func(h *hdr) *float64 { return &h.GroundLevel }),
	scalar("rock_level", 0, cF64, func(h *hdr) *float64 { return &h.RockLevel }),
	scalar("time", 0, cF64, func(h *hdr) *float64 { return &h.Time }),
	flag("day_time", 0, func(h *hdr) *bool { return &h.DayTime }),
	i32("moon_phase", 0, func(h *hdr) *int32 { return &h.MoonPhase }),
	flag("blood_moon", 0, func(h *hdr) *bool { return &h.BloodMoon }),
	flag("eclipse", 70, func(h *hdr) *bool { return &h.Eclipse }),
	i32("dungeon_x", 0, func(h *hdr) *int32 { return &h.DungeonX }),
	i32("dungeon_y", 0, func(h *hdr) *int32 { return &h.DungeonY }),
	flag("crimson", 56, func(h *hdr) *bool { return &h.Crimson }),

	flag("downed_boss_1", 0, func(h *hdr) *bool { return &h.DownedBoss1 }),
	flag("downed_boss_2", 0, func(h *hdr) *bool { return &h.DownedBoss2 }),
	flag("downed_boss_3", 0, func(h *hdr) *bool { return &h.DownedBoss3 }),
	flag("downed_queen_bee", 66, func(h *hdr) *bool { return &h.DownedQueenBee }),
	flag("downed_mech_1", 44, func(h *hdr) *bool { return &h.DownedMech1 }),
	flag("downed_mech_2", 44, func(h *hdr) *bool { return &h.DownedMech2 }),
	flag("downed_mech_3", 44, func(h *hdr) *bool { return &h.DownedMech3 }),
	flag("downed_mech_any", 44, func(h *hdr) *bool { return &h.DownedMechAny }),
	flag("downed_plant_boss", 64, func(h *hdr) *bool { return &h.DownedPlantBoss }),
	flag("downed_golem", 64, func(h *hdr) *bool { return &h.DownedGolem }),
	flag("downed_slime_king", 118, func(h *hdr) *bool { return &h.DownedSlimeKing }),

	flag("saved_goblin", 29, func(h *hdr) *bool { return &h.SavedGoblin }),
	flag("saved_wizard", 29, func(h *hdr) *bool { return &h.SavedWizard }),
	flag("saved_mech", 34, func(h *hdr) *bool { return &h.SavedMech }),
	flag("downed_goblins", 29, func(h *hdr) *bool { return &h.DownedGoblins }),
	flag("downed_clown", 32, func(h *hdr) *bool { return &h.DownedClown }),
	flag("downed_frost", 37, func(h *hdr) *bool { return &h.DownedFrost }),
	flag("downed_pirates", 56, func(h *hdr) *bool { return &h.DownedPirates }),

	flag("shadow_orb_smashed", 0, func(h *hdr) *bool { return &h.ShadowOrbSmashed }),
	flag("spawn_meteor", 0, func(h *hdr) *bool { return &h.SpawnMeteor }),
	u8("shadow_orb_count", 0, func(h *hdr) *uint8 { return &h.ShadowOrbCount }),
	i32("altar_count", 23, func(h *hdr) *int32 { return &h.AltarCount }),
	flag("hard_mode", 23, func(h *hdr) *bool { return &h.HardMode }),

	i32("invasion_delay", 0, func(h *hdr) *int32 { return &h.InvasionDelay }),
	i32("invasion_size", 0, func(h *hdr) *int32 { return &h.InvasionSize }),
	i32("invasion_type", 0, func(h *hdr) *int32 { return &h.InvasionType }),
	scalar("invasion_x", 0, cF64, func(h *hdr) *float64 { return &h.InvasionX }),
	scalar("slime_rain_time", 118, cF64, func(h *hdr) *float64 { return &h.SlimeRainTime }),
	u8("sundial_cooldown", 113, func(h *hdr) *uint8 { return &h.SundialCooldown }),

	flag("temp_raining", 53, func(h *hdr) *bool { return &h.TempRaining }),
	i32("temp_rain_time", 53, func(h *hdr) *int32 { return &h.TempRainTime }),
	scalar("temp_max_rain", 53, cF32, func(h *hdr) *float32 { return &h.TempMaxRain }),
	i32("ore_tier_1", 54, func(h *hdr) *int32 { return &h.OreTier1 }),
	i32("ore_tier_2", 54, func(h *hdr) *int32 { return &h.OreTier2 }),
	i32("ore_tier_3", 54, func(h *hdr) *int32 { return &h.OreTier3 }),

	u8("bg_tree", 55, func(h *hdr) *uint8 { return &h.BgTree }),
	u8("bg_corruption", 55, func(h *hdr) *uint8 { return &h.BgCorruption }),
	u8("bg_jungle", 55, func(h *hdr) *uint8 { return &h.BgJungle }),
	u8("bg_snow", 60, func(h *hdr) *uint8 { return &h.BgSnow }),
	u8("bg_hallow", 60, func(h *hdr) *uint8 { return &h.BgHallow }),
	u8("bg_crimson", 60, func(h *hdr) *uint8 { return &h.BgCrimson }),
	u8("bg_desert", 60, func(h *hdr) *uint8 { return &h.BgDesert }),
	u8("bg_ocean", 60, func(h *hdr) *uint8 { return &h.BgOcean }),
	i32("cloud_bg_active", 60, func(h *hdr) *int32 { return &h.CloudBgActive }),
	scalar("num_clouds", 62, cI16, func(h *hdr) *int16 { return &h.NumClouds }),
	scalar("wind_speed", 62, cF32, func(h *hdr) *float32 { return &h.WindSpeed }),
}

// anglers closes the console header and opens the segmented tail.
var anglers = []Field{
	list("anglers", 95, true, cStr, func(h *hdr) *[]string { return &h.Anglers }),
	flag("saved_angler", 99, func(h *hdr) *bool { return &h.SavedAngler }),
	i32("angler_quest", 101, func(h *hdr) *int32 { return &h.AnglerQuest }),
}

var segmentedTail = []Field{
	flag("saved_stylist", 104, func(h *hdr) *bool { return &h.SavedStylist }),
	flag("saved_tax_collector", 129, func(h *hdr) *bool { return &h.SavedTaxCollector }),
	flag("saved_golfer", 201, func(h *hdr) *bool { return &h.SavedGolfer }),
	i32("invasion_size_start", 107, func(h *hdr) *int32 { return &h.InvasionSizeStart }),
	i32("cultist_delay", 108, func(h *hdr) *int32 { return &h.CultistDelay }),
	list("kill_counts", 109, false, cI32, func(h *hdr) *[]int32 { return &h.KillCounts }),
	flag("fast_forward_time", 128, func(h *hdr) *bool { return &h.FastForwardTime }),

	flag("downed_fishron", 131, func(h *hdr) *bool { return &h.DownedFishron }),
	flag("downed_martians", 131, func(h *hdr) *bool { return &h.DownedMartians }),
	flag("downed_ancient_cultist", 131, func(h *hdr) *bool { return &h.DownedAncientCultist }),
	flag("downed_moonlord", 131, func(h *hdr) *bool { return &h.DownedMoonlord }),
	flag("downed_halloween_king", 131, func(h *hdr) *bool { return &h.DownedHalloweenKing }),
	flag("downed_halloween_tree", 131, func(h *hdr) *bool { return &h.DownedHalloweenTree }),
	flag("downed_christmas_ice_queen", 131, func(h *hdr) *bool { return &h.DownedChristmasIceQueen }),
	flag("downed_christmas_santank", 131, func(h *hdr) *bool { return &h.DownedChristmasSantank }),
	flag("downed_christmas_tree", 131, func(h *hdr) *bool { return &h.DownedChristmasTree }),

	flag("downed_tower_solar", 140, func(h *hdr) *bool { return &h.DownedTowerSolar }),
	flag("downed_tower_vortex", 140, func(h *hdr) *bool { return &h.DownedTowerVortex }),
	flag("downed_tower_nebula", 140, func(h *hdr) *bool { return &h.DownedTowerNebula }),
	flag("downed_tower_stardust", 140, func(h *hdr) *bool { return &h.DownedTowerStardust }),
	flag("tower_active_solar", 140, func(h *hdr) *bool { return &h.TowerActiveSolar }),
	flag("tower_active_vortex", 140, func(h *hdr) *bool { return &h.TowerActiveVortex }),
	flag("tower_active_nebula", 140, func(h *hdr) *bool { return &h.TowerActiveNebula }),
	flag("tower_active_stardust", 140, func(h *hdr) *bool { return &h.TowerActiveStardust }),
	flag("lunar_apocalypse_is_up", 140, func(h *hdr) *bool { return &h.LunarApocalypseIsUp }),

	flag("party_manual", 170, func(h *hdr) *bool { return &h.PartyManual }),
	flag("party_genuine", 170, func(h *hdr) *bool { return &h.PartyGenuine }),
	i32("party_cooldown", 170, func(h *hdr) *int32 { return &h.PartyCooldown }),
	list("partying_npcs", 170, true, cI32, func(h *hdr) *[]int32 { return &h.PartyingNPCs }),

	flag("sandstorm_happening", 174, func(h *hdr) *bool { return &h.SandstormHappening }),
	i32("sandstorm_time_left", 174, func(h *hdr) *int32 { return &h.SandstormTimeLeft }),
	scalar("sandstorm_severity", 174, cF32, func(h *hdr) *float32 { return &h.SandstormSeverity }),
	scalar("sandstorm_intended_severity", 174, cF32, func(h *hdr) *float32 { return &h.SandstormIntendedSeverity }),

	flag("saved_bartender", 178, func(h *hdr) *bool { return &h.SavedBartender }),
	flag("downed_dd2_t1", 178, func(h *hdr) *bool { return &h.DownedDD2T1 }),
	flag("downed_dd2_t2", 178, func(h *hdr) *bool { return &h.DownedDD2T2 }),
	flag("downed_dd2_t3", 178, func(h *hdr) *bool { return &h.DownedDD2T3 }),

	u8("bg_mushroom", 194, func(h *hdr) *uint8 { return &h.BgMushroom }),
	u8("bg_underworld", 215, func(h *hdr) *uint8 { return &h.BgUnderworld }),
	u8("bg_tree_2", 195, func(h *hdr) *uint8 { return &h.BgTree2 }),
	u8("bg_tree_3", 195, func(h *hdr) *uint8 { return &h.BgTree3 }),
	u8("bg_tree_4", 195, func(h *hdr) *uint8 { return &h.BgTree4 }),
	flag("combat_book_used", 204, func(h *hdr) *bool { return &h.CombatBookUsed }),

	i32("lantern_night_cooldown", 207, func(h *hdr) *int32 { return &h.LanternNightCooldown }),
	flag("lantern_night_genuine", 207, func(h *hdr) *bool { return &h.LanternNightGenuine }),
	flag("lantern_night_manual", 207, func(h *hdr) *bool { return &h.LanternNightManual }),
	flag("lantern_night_next", 207, func(h *hdr) *bool { return &h.LanternNightNext }),
	list("tree_top_variations", 211, true, cI32, func(h *hdr) *[]int32 { return &h.TreeTopVariations }),
	flag("force_halloween", 212, func(h *hdr) *bool { return &h.ForceHalloween }),
	flag("force_xmas", 212, func(h *hdr) *bool { return &h.ForceXmas }),

	i32("saved_ore_tier_copper", 216, func(h *hdr) *int32 { return &h.SavedOreTierCopper }),
	i32("saved_ore_tier_iron", 216, func(h *hdr) *int32 { return &h.SavedOreTierIron }),
	i32("saved_ore_tier_silver", 216, func(h *hdr) *int32 { return &h.SavedOreTierSilver }),
	i32("saved_ore_tier_gold", 216, func(h *hdr) *int32 { return &h.SavedOreTierGold }),
	flag("bought_cat", 217, func(h *hdr) *bool { return &h.BoughtCat }),
	flag("bought_dog", 217, func(h *hdr) *bool { return &h.BoughtDog }),
	flag("bought_bunny", 217, func(h *hdr) *bool { return &h.BoughtBunny }),

	flag("downed_empress_of_light", 223, func(h *hdr) *bool { return &h.DownedEmpressOfLight }),
	flag("downed_queen_slime", 223, func(h *hdr) *bool { return &h.DownedQueenSlime }),
	flag("downed_deerclops", 240, func(h *hdr) *bool { return &h.DownedDeerclops }),
	fixed("unlocked_slimes", 250, cBool, func(h *hdr) []bool { return h.UnlockedSlimes[:] }),
	flag("combat_book_volume_two_used", 251, func(h *hdr) *bool { return &h.CombatBookVolumeTwoUsed }),
	flag("peddlers_satchel_used", 251, func(h *hdr) *bool { return &h.PeddlersSatchelUsed }),
	flag("fast_forward_time_to_dusk", 259, func(h *hdr) *bool { return &h.FastForwardTimeToDusk }),
	u8("moondial_cooldown", 259, func(h *hdr) *uint8 { return &h.MoondialCooldown }),
}

func withMin(f Field, min uint32) Field {
	f.Min = min
	return f
}

func concat(parts ...[]Field) []Field {
	var out []Field
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var (
	v0Fields = concat(
		[]Field{legacyMarker.until(24), title, worldID},
		bounds, dimensions, body,
	)
	v1Fields = concat(
		[]Field{title, worldID},
		bounds, dimensions, body,
	)
	v2Fields = concat(
		[]Field{title}, segmentedIdentity, []Field{worldID},
		bounds, dimensions, segmentedModes, body, anglers, segmentedTail,
	)
	consoleFields = concat(
		[]Field{title, worldID},
		bounds, dimensions, body, anglers,
	)
)
