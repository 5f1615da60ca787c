package world

import "github.com/google/uuid"

// Game modes stored from version 209; older files store an expert flag.
const (
	GameModeClassic int32 = 0
	GameModeExpert  int32 = 1
	GameModeMaster  int32 = 2
	GameModeJourney int32 = 3
)

// Header is the flat list of world-state scalars. Which of them exist on the
// wire depends on the generation and version; absent fields keep the zero
// value on load and are skipped on save.
type Header struct {
	Title           string    `json:"title"`
	Seed            string    `json:"seed,omitempty"`
	WorldGenVersion uint64    `json:"worldgen_version,omitempty"`
	GUID            uuid.UUID `json:"guid"`
	WorldID         int32     `json:"world_id"`

	Left   int32 `json:"left"`
	Right  int32 `json:"right"`
	Top    int32 `json:"top"`
	Bottom int32 `json:"bottom"`

	GameMode         int32 `json:"game_mode"`
	DrunkWorld       bool  `json:"drunk_world,omitempty"`
	GoodWorld        bool  `json:"good_world,omitempty"`
	TenthAnniversary bool  `json:"tenth_anniversary,omitempty"`
	DontStarve       bool  `json:"dont_starve,omitempty"`
	NotTheBees       bool  `json:"not_the_bees,omitempty"`
	Remix            bool  `json:"remix,omitempty"`
	NoTraps          bool  `json:"no_traps,omitempty"`
	Zenith           bool  `json:"zenith,omitempty"`
	CreationTime     int64 `json:"creation_time,omitempty"`

	MoonType        uint8    `json:"moon_type"`
	TreeX           [3]int32 `json:"tree_x"`
	TreeStyle       [4]int32 `json:"tree_style"`
	CaveBackX       [3]int32 `json:"cave_back_x"`
	CaveBackStyle   [4]int32 `json:"cave_back_style"`
	IceBackStyle    int32    `json:"ice_back_style"`
	JungleBackStyle int32    `json:"jungle_back_style"`
	HellBackStyle   int32    `json:"hell_back_style"`

	SpawnX      int32   `json:"spawn_x"`
	SpawnY      int32   `json:"spawn_y"`
	GroundLevel float64 `json:"ground_level"`
	RockLevel   float64 `json:"rock_level"`
	Time        float64 `json:"time"`
	DayTime     bool    `json:"day_time"`
	MoonPhase   int32   `json:"moon_phase"`
	BloodMoon   bool    `json:"blood_moon"`
	Eclipse     bool    `json:"eclipse"`
	DungeonX    int32   `json:"dungeon_x"`
	DungeonY    int32   `json:"dungeon_y"`
	Crimson     bool    `json:"crimson"`

	DownedBoss1     bool `json:"downed_boss_1"`
	DownedBoss2     bool `json:"downed_boss_2"`
	DownedBoss3     bool `json:"downed_boss_3"`
	DownedQueenBee  bool `json:"downed_queen_bee"`
	DownedMech1     bool `json:"downed_mech_1"`
	DownedMech2     bool `json:"downed_mech_2"`
	DownedMech3     bool `json:"downed_mech_3"`
	DownedMechAny   bool `json:"downed_mech_any"`
	DownedPlantBoss bool `json:"downed_plant_boss"`
	DownedGolem     bool `json:"downed_golem"`
	DownedSlimeKing bool `json:"downed_slime_king"`

	SavedGoblin   bool `json:"saved_goblin"`
	SavedWizard   bool `json:"saved_wizard"`
	SavedMech     bool `json:"saved_mech"`
	DownedGoblins bool `json:"downed_goblins"`
	DownedClown   bool `json:"downed_clown"`
	DownedFrost   bool `json:"downed_frost"`
	DownedPirates bool `json:"downed_pirates"`

	ShadowOrbSmashed bool  `json:"shadow_orb_smashed"`
	SpawnMeteor      bool  `json:"spawn_meteor"`
	ShadowOrbCount   uint8 `json:"shadow_orb_count"`
	AltarCount       int32 `json:"altar_count"`
	HardMode         bool  `json:"hard_mode"`

	InvasionDelay int32   `json:"invasion_delay"`
	InvasionSize  int32   `json:"invasion_size"`
	InvasionType  int32   `json:"invasion_type"`
	InvasionX     float64 `json:"invasion_x"`

	SlimeRainTime   float64 `json:"slime_rain_time"`
	SundialCooldown uint8   `json:"sundial_cooldown"`

	TempRaining  bool    `json:"temp_raining"`
	TempRainTime int32   `json:"temp_rain_time"`
	TempMaxRain  float32 `json:"temp_max_rain"`

	OreTier1 int32 `json:"ore_tier_1"`
	OreTier2 int32 `json:"ore_tier_2"`
	OreTier3 int32 `json:"ore_tier_3"`

	BgTree       uint8 `json:"bg_tree"`
	BgCorruption uint8 `json:"bg_corruption"`
	BgJungle     uint8 `json:"bg_jungle"`
	BgSnow       uint8 `json:"bg_snow"`
	BgHallow     uint8 `json:"bg_hallow"`
	BgCrimson    uint8 `json:"bg_crimson"`
	BgDesert     uint8 `json:"bg_desert"`
	BgOcean      uint8 `json:"bg_ocean"`

	CloudBgActive int32   `json:"cloud_bg_active"`
	NumClouds     int16   `json:"num_clouds"`
	WindSpeed     float32 `json:"wind_speed"`

	Anglers           []string `json:"anglers,omitempty"`
	SavedAngler       bool     `json:"saved_angler"`
	AnglerQuest       int32    `json:"angler_quest"`
	SavedStylist      bool     `json:"saved_stylist"`
	SavedTaxCollector bool     `json:"saved_tax_collector"`
	SavedGolfer       bool     `json:"saved_golfer"`

	InvasionSizeStart int32   `json:"invasion_size_start"`
	CultistDelay      int32   `json:"cultist_delay"`
	KillCounts        []int32 `json:"kill_counts,omitempty"`
	FastForwardTime   bool    `json:"fast_forward_time"`

	DownedFishron           bool `json:"downed_fishron"`
	DownedMartians          bool `json:"downed_martians"`
	DownedAncientCultist    bool `json:"downed_ancient_cultist"`
	DownedMoonlord          bool `json:"downed_moonlord"`
	DownedHalloweenKing     bool `json:"downed_halloween_king"`
	DownedHalloweenTree     bool `json:"downed_halloween_tree"`
	DownedChristmasIceQueen bool `json:"downed_christmas_ice_queen"`
	DownedChristmasSantank  bool `json:"downed_christmas_santank"`
	DownedChristmasTree     bool `json:"downed_christmas_tree"`

	DownedTowerSolar    bool `json:"downed_tower_solar"`
	DownedTowerVortex   bool `json:"downed_tower_vortex"`
	DownedTowerNebula   bool `json:"downed_tower_nebula"`
	DownedTowerStardust bool `json:"downed_tower_stardust"`
	TowerActiveSolar    bool `json:"tower_active_solar"`
	TowerActiveVortex   bool `json:"tower_active_vortex"`
	TowerActiveNebula   bool `json:"tower_active_nebula"`
	TowerActiveStardust bool `json:"tower_active_stardust"`
	LunarApocalypseIsUp bool `json:"lunar_apocalypse_is_up"`

	PartyManual   bool    `json:"party_manual"`
	PartyGenuine  bool    `json:"party_genuine"`
	PartyCooldown int32   `json:"party_cooldown"`
	PartyingNPCs  []int32 `json:"partying_npcs,omitempty"`

	SandstormHappening        bool    `json:"sandstorm_happening"`
	SandstormTimeLeft         int32   `json:"sandstorm_time_left"`
	SandstormSeverity         float32 `json:"sandstorm_severity"`
	SandstormIntendedSeverity float32 `json:"sandstorm_intended_severity"`

	SavedBartender bool `json:"saved_bartender"`
	DownedDD2T1    bool `json:"downed_dd2_t1"`
	DownedDD2T2    bool `json:"downed_dd2_t2"`
	DownedDD2T3    bool `json:"downed_dd2_t3"`

	BgMushroom   uint8 `json:"bg_mushroom"`
	BgUnderworld uint8 `json:"bg_underworld"`
	BgTree2      uint8 `json:"bg_tree_2"`
	BgTree3      uint8 `json:"bg_tree_3"`
	BgTree4      uint8 `json:"bg_tree_4"`

	CombatBookUsed bool `json:"combat_book_used"`

	LanternNightCooldown int32 `json:"lantern_night_cooldown"`
	LanternNightGenuine  bool  `json:"lantern_night_genuine"`
	LanternNightManual   bool  `json:"lantern_night_manual"`
	LanternNightNext     bool  `json:"lantern_night_next"`

	TreeTopVariations []int32 `json:"tree_top_variations,omitempty"`

	ForceHalloween bool `json:"force_halloween"`
	ForceXmas      bool `json:"force_xmas"`

	SavedOreTierCopper int32 `json:"saved_ore_tier_copper"`
	SavedOreTierIron   int32 `json:"saved_ore_tier_iron"`
	SavedOreTierSilver int32 `json:"saved_ore_tier_silver"`
	SavedOreTierGold   int32 `json:"saved_ore_tier_gold"`

	BoughtCat   bool `json:"bought_cat"`
	BoughtDog   bool `json:"bought_dog"`
	BoughtBunny bool `json:"bought_bunny"`

	DownedEmpressOfLight bool `json:"downed_empress_of_light"`
	DownedQueenSlime     bool `json:"downed_queen_slime"`
	DownedDeerclops      bool `json:"downed_deerclops"`

	UnlockedSlimes [8]bool `json:"unlocked_slimes"`

	CombatBookVolumeTwoUsed bool `json:"combat_book_volume_two_used"`
	PeddlersSatchelUsed     bool `json:"peddlers_satchel_used"`

	FastForwardTimeToDusk bool  `json:"fast_forward_time_to_dusk"`
	MoondialCooldown      uint8 `json:"moondial_cooldown"`
}
