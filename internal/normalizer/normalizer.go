// Package normalizer flattens raw store records into fixed-width feature rows.
package normalizer

import (
	"math"
	"strconv"

	"steamdata/internal/logger"
	"steamdata/internal/models"
)

// Record is one normalized row: column name to string, int64, float64 or
// bool. Its key set is always the column schema.
type Record map[string]any

// Values returns the record's values in the given column order.
func (r Record) Values(columns []string) []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = r[c]
	}

	return out
}

// StatsLookup resolves side statistics for an item id. Missing ids or
// fields resolve to 0.
type StatsLookup interface {
	Lookup(id string, fields ...string) []float64
}

// Side statistics fields joined into every record.
const (
	StatOwners                 = "owners"
	StatOwnersVariance         = "owners_variance"
	StatPlayersForever         = "players_forever"
	StatPlayersForeverVariance = "players_forever_variance"
)

// Options configures a Normalizer.
type Options struct {
	Stats         StatsLookup
	Logger        *logger.Logger
	TextDefault   string
	NonGameGenres []string
}

// Normalizer applies the feature extraction rules to raw records.
type Normalizer struct {
	stats       StatsLookup
	coercer     *Coercer
	remap       GenreRemap
	columns     []string
	textDefault string
}

type noStats struct{}

func (noStats) Lookup(_ string, fields ...string) []float64 {
	return make([]float64, len(fields))
}

// NewNormalizer creates a normalizer. A nil Stats joins zeros; an empty
// TextDefault means DefaultText.
func NewNormalizer(opts Options) *Normalizer {
	stats := opts.Stats
	if stats == nil {
		stats = noStats{}
	}

	textDefault := opts.TextDefault
	if textDefault == "" {
		textDefault = DefaultText
	}

	return &Normalizer{
		stats:       stats,
		coercer:     NewCoercer(opts.Logger),
		remap:       NewGenreRemap(opts.NonGameGenres),
		columns:     ColumnSchema(),
		textDefault: textDefault,
	}
}

// Columns returns the column order this normalizer produces.
func (n *Normalizer) Columns() []string {
	out := make([]string, len(n.columns))
	copy(out, n.columns)

	return out
}

// CoercionFailures returns the number of numeric diagnostics so far.
func (n *Normalizer) CoercionFailures() int {
	return n.coercer.Failures()
}

// Normalize builds the feature row for raw. Every rule is total: absent or
// mis-shaped input yields the rule's default, never an error.
func (n *Normalizer) Normalize(raw *models.RawRecord) Record {
	var queryID, queryName any
	if raw != nil {
		queryID, queryName = raw.QueryID, raw.QueryName
	}

	d := raw.AppDataOrEmpty()
	c := n.coercer
	text := func(v any) string { return NormalizeText(v, n.textDefault) }

	id := c.ToInt(queryID, 0)
	stats := n.stats.Lookup(strconv.FormatInt(id, 10),
		StatOwners, StatOwnersVariance, StatPlayersForever, StatPlayersForeverVariance)

	avail := c.PackageAvailability(d.PackageGroups)
	price := c.Prices(d.PriceOverview, n.textDefault)
	cats := TagMembership(d.Categories)
	genres := n.remap.Apply(TagMembership(d.Genres))

	return Record{
		ColQueryID:      id,
		ColResponseID:   c.ToInt(d.SteamAppID, 0),
		ColQueryName:    text(queryName),
		ColResponseName: text(d.Name),
		ColReleaseDate:  text(d.ReleaseDate.Date),
		ColRequiredAge:  c.ToInt(d.RequiredAge, 0),

		ColDemoCount:           int64(len(d.Demos)),
		ColDeveloperCount:      int64(UniqueCount(d.Developers)),
		ColDLCCount:            int64(len(d.DLC)),
		ColMetacritic:          c.ToInt(d.Metacritic.Score, 0),
		ColMovieCount:          int64(len(d.Movies)),
		ColPackageCount:        int64(len(d.Packages)),
		ColRecommendationCount: c.ToInt(d.Recommendations.Total, 0),
		ColPublisherCount:      int64(UniqueCount(d.Publishers)),
		ColScreenshotCount:     int64(len(d.Screenshots)),

		ColSteamSpyOwners:          c.ToInt(math.Trunc(stats[0]), 0),
		ColSteamSpyOwnersVariance:  c.ToInt(math.Trunc(stats[1]), 0),
		ColSteamSpyPlayersEstimate: c.ToInt(math.Trunc(stats[2]), 0),
		ColSteamSpyPlayersVariance: c.ToInt(math.Trunc(stats[3]), 0),

		ColAchievementCount:            c.ToInt(d.Achievements.Total, 0),
		ColAchievementHighlightedCount: int64(len(d.Achievements.Highlighted)),

		ColControllerSupport: labelKey(d.ControllerSupport) == "full",
		ColIsFree:            Truthy(d.IsFree),
		ColFreeVerAvail:      avail.FreeVersion,
		ColPurchaseAvail:     avail.Purchase,
		ColSubscriptionAvail: avail.Subscription,

		ColPlatformWindows: Truthy(d.Platforms.Windows),
		ColPlatformLinux:   Truthy(d.Platforms.Linux),
		ColPlatformMac:     Truthy(d.Platforms.Mac),

		ColPCReqsHaveMin:    hasText(d.PCRequirements.Minimum),
		ColPCReqsHaveRec:    hasText(d.PCRequirements.Recommended),
		ColLinuxReqsHaveMin: hasText(d.LinuxRequirements.Minimum),
		ColLinuxReqsHaveRec: hasText(d.LinuxRequirements.Recommended),
		ColMacReqsHaveMin:   hasText(d.MacRequirements.Minimum),
		ColMacReqsHaveRec:   hasText(d.MacRequirements.Recommended),

		ColCategorySinglePlayer:       cats.HasAny(VocabSinglePlayer...),
		ColCategoryMultiplayer:        cats.HasAny(VocabMultiplayer...),
		ColCategoryCoop:               cats.HasAny(VocabCoop...),
		ColCategoryMMO:                cats.HasAny(VocabMMO...),
		ColCategoryInAppPurchase:      cats.HasAny(VocabInAppPurchase...),
		ColCategoryIncludeSrcSDK:      cats.HasAny(VocabIncludeSrcSDK...),
		ColCategoryIncludeLevelEditor: cats.HasAny(VocabIncludeLevelEditor...),
		ColCategoryVRSupport:          cats.HasAny(VocabVRSupport...),

		ColGenreIsNonGame:              genres.Has(NonGameTag),
		ColGenreIsIndie:                genres.Has("indie"),
		ColGenreIsAction:               genres.Has("action"),
		ColGenreIsAdventure:            genres.Has("adventure"),
		ColGenreIsCasual:               genres.Has("casual"),
		ColGenreIsStrategy:             genres.Has("strategy"),
		ColGenreIsRPG:                  genres.Has("rpg"),
		ColGenreIsSimulation:           genres.Has("simulation"),
		ColGenreIsEarlyAccess:          genres.Has("early access"),
		ColGenreIsFreeToPlay:           genres.Has("free to play"),
		ColGenreIsSports:               genres.Has("sports"),
		ColGenreIsRacing:               genres.Has("racing"),
		ColGenreIsMassivelyMultiplayer: genres.Has("massively multiplayer"),

		ColPriceCurrency: price.Currency,
		ColPriceInitial:  price.Initial,
		ColPriceFinal:    price.Final,

		ColSupportEmail: text(d.SupportInfo.Email),
		ColSupportURL:   text(d.SupportInfo.URL),

		ColAboutText:          text(d.AboutTheGame),
		ColBackground:         text(d.Background),
		ColShortDescrip:       text(d.ShortDescription),
		ColDetailedDescrip:    text(d.DetailedDescription),
		ColDRMNotice:          text(d.DRMNotice),
		ColExtUserAcctNotice:  text(d.ExtUserAccountNotice),
		ColHeaderImage:        text(d.HeaderImage),
		ColLegalNotice:        text(d.LegalNotice),
		ColReviews:            text(d.Reviews),
		ColSupportedLanguages: text(d.SupportedLanguages),
		ColWebsite:            text(d.Website),

		ColPCMinReqsText:    text(d.PCRequirements.Minimum),
		ColPCRecReqsText:    text(d.PCRequirements.Recommended),
		ColLinuxMinReqsText: text(d.LinuxRequirements.Minimum),
		ColLinuxRecReqsText: text(d.LinuxRequirements.Recommended),
		ColMacMinReqsText:   text(d.MacRequirements.Minimum),
		ColMacRecReqsText:   text(d.MacRequirements.Recommended),
	}
}

// hasText reports whether a requirement value carries any text.
func hasText(v any) bool {
	return NormalizeText(v, "") != ""
}
