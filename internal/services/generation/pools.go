package generation

const fallbackPoolKey = "abstract"

var styleEnhancers = map[string][]string{
	"abstract": {
		"bold color fields and organic shapes",
		"layered textures with dripping paint effects",
		"geometric fragments dissolving into chaos",
		"vibrant acrylic splashes on raw canvas",
		"meditative color gradients with subtle texture",
	},
	"geometric": {
		"precise tessellations in warm earth tones",
		"overlapping translucent polygons",
		"isometric impossible architecture",
		"sacred geometry with gold leaf accents",
		"minimalist line compositions with negative space",
	},
	"landscapes": {
		"misty mountain valley at golden hour",
		"vast desert dunes under starlight",
		"tropical coast with turquoise water",
		"snow-covered forest in soft morning light",
		"rolling hills with dramatic storm clouds",
	},
	"botanical": {
		"oversized tropical leaves in close-up detail",
		"delicate wildflower arrangement on dark background",
		"lush monstera and palm fronds",
		"dried flower still life in muted palette",
		"intricate fern patterns with dew drops",
	},
	"portraits": {
		"ethereal figure emerging from abstract color",
		"silhouette with double exposure landscape",
		"contemporary portrait with bold color blocking",
		"dreamlike face composed of natural elements",
		"fragmented figure in cubist style",
	},
	"celestial": {
		"deep space nebula in vivid ultraviolet",
		"ringed planet rising over alien terrain",
		"cosmic dust clouds in gold and teal",
		"star field with bioluminescent auroras",
		"eclipse casting light through crystalline structures",
	},
	"ocean-water": {
		"deep underwater bioluminescence",
		"crashing wave frozen in crystal detail",
		"abstract ocean currents in blue and silver",
		"coral reef teeming with color",
		"calm tide pool reflections at sunset",
	},
	"minimalist": {
		"single line drawing on textured paper",
		"two-tone composition with subtle gradient",
		"negative space study with one focal point",
		"simple circle and shadow on warm background",
		"thin horizontal bands in muted palette",
	},
	"texture": {
		"cracked earth with golden veins",
		"weathered wood grain in extreme close-up",
		"marble surface with dramatic veining",
		"rust and patina on aged metal",
		"layered paper torn to reveal colors beneath",
	},
	"surreal": {
		"melting clocks in a desert landscape",
		"floating islands connected by waterfalls",
		"rooms defying gravity with impossible stairs",
		"objects scaled absurdly large in normal settings",
		"dreamscape merging ocean floor with sky",
	},
}

var titleThemes = map[string][]string{
	"abstract":    {"Resonance", "Convergence", "Pulse", "Drift", "Fracture", "Bloom", "Threshold", "Echo", "Flux", "Veil"},
	"geometric":   {"Lattice", "Vertex", "Prism", "Tessellation", "Axis", "Meridian", "Grid", "Facet", "Vector", "Form"},
	"landscapes":  {"Horizon", "Valley", "Ridge", "Stillness", "Passage", "Clearing", "Solitude", "Expanse", "Dawn", "Dusk"},
	"botanical":   {"Petal", "Root", "Canopy", "Bloom", "Tendril", "Spore", "Frond", "Seed", "Thorn", "Moss"},
	"portraits":   {"Gaze", "Presence", "Shadow Self", "Inner Light", "Fragment", "Reverie", "Essence", "Visage", "Aura", "Mask"},
	"celestial":   {"Nova", "Orbit", "Eclipse", "Nebula", "Void", "Astral", "Corona", "Zenith", "Solstice", "Pulsar"},
	"ocean-water": {"Tide", "Depth", "Current", "Undertow", "Swell", "Reef", "Abyss", "Surface", "Shimmer", "Riptide"},
	"minimalist":  {"Silence", "Breath", "Pause", "Interval", "Space", "Line", "Rest", "Void", "Calm", "Still"},
	"texture":     {"Grain", "Patina", "Layer", "Surface", "Weave", "Erosion", "Sediment", "Fiber", "Stratum", "Crust"},
	"surreal":     {"Paradox", "Liminal", "Threshold", "Mirage", "Anomaly", "Reverie", "Alchemy", "Chimera", "Enigma", "Portal"},
}

var titleSuffixes = []string{
	"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX",
	"No. 1", "No. 2", "No. 3", "No. 4", "No. 5",
	"in Blue", "in Gold", "in Shadow", "at Dawn", "at Dusk",
	"Ascending", "Descending", "Unfurling", "Dissolving", "Emerging",
}

var styleDescriptions = map[string][]string{
	"abstract": {
		"A study in form and colour that invites contemplation.",
		"Bold gestural marks create a dialogue between chaos and order.",
		"Layers of pigment build a rich, textural surface that rewards close viewing.",
	},
	"geometric": {
		"Precise mathematical forms create a harmonious visual rhythm.",
		"Clean lines and careful proportions produce a meditative composition.",
		"An exploration of symmetry and balance through geometric abstraction.",
	},
	"landscapes": {
		"A dreamlike vista that captures the essence of untouched wilderness.",
		"Light and atmosphere converge in this sweeping natural panorama.",
		"An AI interpretation of nature's grandeur, both familiar and otherworldly.",
	},
	"botanical": {
		"Intricate organic forms reveal the hidden beauty of the natural world.",
		"A celebration of botanical elegance rendered in vivid detail.",
		"Nature's patterns and textures take centre stage in this intimate study.",
	},
	"portraits": {
		"A contemporary figure study that blurs the line between identity and abstraction.",
		"Human presence emerges from and dissolves into the surrounding composition.",
		"An exploration of the self through the lens of algorithmic creativity.",
	},
	"celestial": {
		"Cosmic phenomena rendered with otherworldly beauty and scale.",
		"The vastness of space distilled into a mesmerising visual experience.",
		"Stellar formations and celestial light create an immersive cosmic portrait.",
	},
	"ocean-water": {
		"The fluid dynamics of water captured in a single transcendent moment.",
		"Deep marine blues and aquatic light create an immersive underwater world.",
		"Ocean energy and tranquility coexist in this aquatic composition.",
	},
	"minimalist": {
		"Restrained elegance — every element exists with deliberate purpose.",
		"A meditation on negative space and the beauty of simplicity.",
		"Stripped to its essence, the composition speaks through what it leaves out.",
	},
	"texture": {
		"Surface, material, and light interact to create a tactile visual experience.",
		"Macro-scale textures reveal hidden landscapes within everyday materials.",
		"An intimate exploration of surface and substance.",
	},
	"surreal": {
		"Reality bends and transforms in this dreamlike visual narrative.",
		"Familiar elements are reimagined in impossible, captivating arrangements.",
		"A window into a world where the laws of physics are merely suggestions.",
	},
}

var baseTags = []string{"ai-art", "digital-art", "wall-art", "print"}

var styleTags = map[string][]string{
	"abstract":    {"abstract", "contemporary", "modern-art", "color-field", "expressionism"},
	"geometric":   {"geometric", "pattern", "symmetry", "mathematical", "modern"},
	"landscapes":  {"landscape", "nature", "scenic", "wilderness", "environment"},
	"botanical":   {"botanical", "plants", "nature", "floral", "organic"},
	"portraits":   {"portrait", "figure", "human", "face", "identity"},
	"celestial":   {"space", "cosmic", "stars", "universe", "astronomy"},
	"ocean-water": {"ocean", "water", "marine", "aquatic", "sea"},
	"minimalist":  {"minimal", "clean", "simple", "modern", "zen"},
	"texture":     {"texture", "material", "surface", "macro", "detail"},
	"surreal":     {"surreal", "dreamlike", "fantasy", "imagination", "otherworldly"},
}

var stylePalettes = map[string][][]string{
	"abstract": {
		{"#E63946", "#F1FAEE", "#457B9D", "#1D3557"},
		{"#FF6B6B", "#FEC89A", "#B5838D", "#6D6875"},
		{"#264653", "#2A9D8F", "#E9C46A", "#F4A261"},
	},
	"geometric": {
		{"#003049", "#D62828", "#F77F00", "#FCBF49"},
		{"#2B2D42", "#8D99AE", "#EDF2F4", "#EF233C"},
		{"#606C38", "#283618", "#FEFAE0", "#DDA15E"},
	},
	"landscapes": {
		{"#606C38", "#283618", "#FEFAE0", "#DDA15E"},
		{"#0077B6", "#00B4D8", "#90E0EF", "#CAF0F8"},
		{"#5F0F40", "#9A031E", "#FB8B24", "#E36414"},
	},
	"botanical": {
		{"#386641", "#6A994E", "#A7C957", "#F2E8CF"},
		{"#3D405B", "#E07A5F", "#F4F1DE", "#81B29A"},
		{"#2D6A4F", "#40916C", "#52B788", "#B7E4C7"},
	},
	"portraits": {
		{"#353535", "#3C6E71", "#FFFFFF", "#D9D9D9"},
		{"#6B2737", "#C97C5D", "#E8D6CB", "#B7B7A4"},
		{"#0D1B2A", "#1B263B", "#415A77", "#778DA9"},
	},
	"celestial": {
		{"#03071E", "#370617", "#6A040F", "#9D0208"},
		{"#10002B", "#240046", "#3C096C", "#7B2CBF"},
		{"#0D1B2A", "#1B263B", "#415A77", "#E0E1DD"},
	},
	"ocean-water": {
		{"#03045E", "#0077B6", "#00B4D8", "#90E0EF"},
		{"#005F73", "#0A9396", "#94D2BD", "#E9D8A6"},
		{"#184E77", "#1E6091", "#1A759F", "#76C893"},
	},
	"minimalist": {
		{"#F5F5F5", "#E0E0E0", "#333333", "#FFFFFF"},
		{"#FAF9F6", "#C4A77D", "#000000", "#F0EAD6"},
		{"#FEFEFE", "#9B9B9B", "#2C2C2C", "#F5F5F0"},
	},
	"texture": {
		{"#A68A64", "#936639", "#7F5539", "#582F0E"},
		{"#D5C6B0", "#B7B09C", "#8C8474", "#5E574D"},
		{"#DEB887", "#D2B48C", "#BC8F8F", "#8B7355"},
	},
	"surreal": {
		{"#FF006E", "#8338EC", "#3A86FF", "#FFBE0B"},
		{"#7400B8", "#6930C3", "#5390D9", "#48BFE3"},
		{"#F72585", "#B5179E", "#7209B7", "#560BAD"},
	},
}

// resolvePool returns table[key], or the abstract entry when key has no pool.
func resolvePool[T any](table map[string]T, key string) T {
	if pool, ok := table[key]; ok {
		return pool
	}
	return table[fallbackPoolKey]
}
