package rag

// Candidate pool sizes and per-source result caps.
const (
	memoryRecentLimit = 50
	memoryMaxResults  = 15

	clipboardRecentLimit  = 30
	clipboardKeywordLimit = 10
	clipboardMaxResults   = 10

	activityRecentLimit  = 50
	activityKeywordLimit = 20
	activityMaxResults   = 15

	searchRecentLimit  = 30
	searchKeywordLimit = 10
	searchMaxResults   = 10
)

// Scoring weights. The semantic component, when available, dominates and
// damps the lexical subtotal; without it the lexical subtotal is used at
// full weight so pure keyword matches can still clear the threshold.
const (
	semanticWeight      = 0.8
	lexicalDampedWeight = 0.2

	substringBonus = 0.5
	keywordWeight  = 0.1
	coverageWeight = 0.3

	// Admission thresholds. Semantic scores live on a wider scale than
	// pure lexical ones, hence the asymmetry.
	semanticThreshold = 0.3
	lexicalThreshold  = 0.1

	// pinnedBoost is the static score bonus for pinned clipboard items.
	pinnedBoost = 0.25
)

// Embedding cache defaults.
const (
	defaultCacheCapacity = 500
	cacheKeyMaxLen       = 512
)

// Context assembly defaults.
const (
	// DefaultMaxContextChars is the default character budget for the
	// assembled context block.
	DefaultMaxContextChars = 3500

	// sectionMinChars gates whether a section is started at all;
	// the final section accepts a smaller remainder.
	sectionMinChars     = 200
	lastSectionMinChars = 100

	// lineSafetyMargin is the headroom required beyond a line's own
	// length before it is appended.
	lineSafetyMargin = 50
)

// probeText is the fixed string embedded once at engine construction to
// decide whether semantic scoring is available.
const probeText = "embedding availability check"
