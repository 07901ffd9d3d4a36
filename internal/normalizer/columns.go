package normalizer

// Output column names.
const (
	ColQueryID                     = "QueryID"
	ColResponseID                  = "ResponseID"
	ColQueryName                   = "QueryName"
	ColResponseName                = "ResponseName"
	ColReleaseDate                 = "ReleaseDate"
	ColRequiredAge                 = "RequiredAge"
	ColDemoCount                   = "DemoCount"
	ColDeveloperCount              = "DeveloperCount"
	ColDLCCount                    = "DLCCount"
	ColMetacritic                  = "Metacritic"
	ColMovieCount                  = "MovieCount"
	ColPackageCount                = "PackageCount"
	ColRecommendationCount         = "RecommendationCount"
	ColPublisherCount              = "PublisherCount"
	ColScreenshotCount             = "ScreenshotCount"
	ColSteamSpyOwners              = "SteamSpyOwners"
	ColSteamSpyOwnersVariance      = "SteamSpyOwnersVariance"
	ColSteamSpyPlayersEstimate     = "SteamSpyPlayersEstimate"
	ColSteamSpyPlayersVariance     = "SteamSpyPlayersVariance"
	ColAchievementCount            = "AchievementCount"
	ColAchievementHighlightedCount = "AchievementHighlightedCount"
	ColControllerSupport           = "ControllerSupport"
	ColIsFree                      = "IsFree"
	ColFreeVerAvail                = "FreeVerAvail"
	ColPurchaseAvail               = "PurchaseAvail"
	ColSubscriptionAvail           = "SubscriptionAvail"
	ColPlatformWindows             = "PlatformWindows"
	ColPlatformLinux               = "PlatformLinux"
	ColPlatformMac                 = "PlatformMac"
	ColPCReqsHaveMin               = "PCReqsHaveMin"
	ColPCReqsHaveRec               = "PCReqsHaveRec"
	ColLinuxReqsHaveMin            = "LinuxReqsHaveMin"
	ColLinuxReqsHaveRec            = "LinuxReqsHaveRec"
	ColMacReqsHaveMin              = "MacReqsHaveMin"
	ColMacReqsHaveRec              = "MacReqsHaveRec"
	ColCategorySinglePlayer        = "CategorySinglePlayer"
	ColCategoryMultiplayer         = "CategoryMultiplayer"
	ColCategoryCoop                = "CategoryCoop"
	ColCategoryMMO                 = "CategoryMMO"
	ColCategoryInAppPurchase       = "CategoryInAppPurchase"
	ColCategoryIncludeSrcSDK       = "CategoryIncludeSrcSDK"
	ColCategoryIncludeLevelEditor  = "CategoryIncludeLevelEditor"
	ColCategoryVRSupport           = "CategoryVRSupport"
	ColGenreIsNonGame              = "GenreIsNonGame"
	ColGenreIsIndie                = "GenreIsIndie"
	ColGenreIsAction               = "GenreIsAction"
	ColGenreIsAdventure            = "GenreIsAdventure"
	ColGenreIsCasual               = "GenreIsCasual"
	ColGenreIsStrategy             = "GenreIsStrategy"
	ColGenreIsRPG                  = "GenreIsRPG"
	ColGenreIsSimulation           = "GenreIsSimulation"
	ColGenreIsEarlyAccess          = "GenreIsEarlyAccess"
	ColGenreIsFreeToPlay           = "GenreIsFreeToPlay"
	ColGenreIsSports               = "GenreIsSports"
	ColGenreIsRacing               = "GenreIsRacing"
	ColGenreIsMassivelyMultiplayer = "GenreIsMassivelyMultiplayer"
	ColPriceCurrency               = "PriceCurrency"
	ColPriceInitial                = "PriceInitial"
	ColPriceFinal                  = "PriceFinal"
	ColSupportEmail                = "SupportEmail"
	ColSupportURL                  = "SupportURL"
	ColAboutText                   = "AboutText"
	ColBackground                  = "Background"
	ColShortDescrip                = "ShortDescrip"
	ColDetailedDescrip             = "DetailedDescrip"
	ColDRMNotice                   = "DRMNotice"
	ColExtUserAcctNotice           = "ExtUserAcctNotice"
	ColHeaderImage                 = "HeaderImage"
	ColLegalNotice                 = "LegalNotice"
	ColReviews                     = "Reviews"
	ColSupportedLanguages          = "SupportedLanguages"
	ColWebsite                     = "Website"
	ColPCMinReqsText               = "PCMinReqsText"
	ColPCRecReqsText               = "PCRecReqsText"
	ColLinuxMinReqsText            = "LinuxMinReqsText"
	ColLinuxRecReqsText            = "LinuxRecReqsText"
	ColMacMinReqsText              = "MacMinReqsText"
	ColMacRecReqsText              = "MacRecReqsText"
)

// columnSchema is the declared output order.
var columnSchema = []string{
	ColQueryID, ColResponseID, ColQueryName, ColResponseName,
	ColReleaseDate, ColRequiredAge,
	ColDemoCount, ColDeveloperCount, ColDLCCount, ColMetacritic, ColMovieCount,
	ColPackageCount, ColRecommendationCount, ColPublisherCount, ColScreenshotCount,
	ColSteamSpyOwners, ColSteamSpyOwnersVariance, ColSteamSpyPlayersEstimate, ColSteamSpyPlayersVariance,
	ColAchievementCount, ColAchievementHighlightedCount,
	ColControllerSupport, ColIsFree, ColFreeVerAvail, ColPurchaseAvail, ColSubscriptionAvail,
	ColPlatformWindows, ColPlatformLinux, ColPlatformMac,
	ColPCReqsHaveMin, ColPCReqsHaveRec, ColLinuxReqsHaveMin, ColLinuxReqsHaveRec, ColMacReqsHaveMin, ColMacReqsHaveRec,
	ColCategorySinglePlayer, ColCategoryMultiplayer, ColCategoryCoop, ColCategoryMMO,
	ColCategoryInAppPurchase, ColCategoryIncludeSrcSDK, ColCategoryIncludeLevelEditor, ColCategoryVRSupport,
	ColGenreIsNonGame, ColGenreIsIndie, ColGenreIsAction, ColGenreIsAdventure, ColGenreIsCasual,
	ColGenreIsStrategy, ColGenreIsRPG, ColGenreIsSimulation, ColGenreIsEarlyAccess, ColGenreIsFreeToPlay,
	ColGenreIsSports, ColGenreIsRacing, ColGenreIsMassivelyMultiplayer,
	ColPriceCurrency, ColPriceInitial, ColPriceFinal,
	ColSupportEmail, ColSupportURL,
	ColAboutText, ColBackground, ColShortDescrip, ColDetailedDescrip, ColDRMNotice, ColExtUserAcctNotice,
	ColHeaderImage, ColLegalNotice, ColReviews, ColSupportedLanguages, ColWebsite,
	ColPCMinReqsText, ColPCRecReqsText, ColLinuxMinReqsText, ColLinuxRecReqsText, ColMacMinReqsText, ColMacRecReqsText,
}

// ColumnSchema returns a copy of the declared column order.
func ColumnSchema() []string {
	out := make([]string, len(columnSchema))
	copy(out, columnSchema)

	return out
}
