// Package models defines the raw store records consumed by the normalizer.
//
// Store records have no enforced schema: any object may be missing, null, or
// of an unexpected JSON type. Parsing is tolerant by construction. Every
// nested object is materialised as a value (never a nil pointer), and a
// value of the wrong shape becomes the zero object. Scalar leaves are kept
// as decoded (string, json.Number, bool, nil, ...) so that the coercion rules
// downstream decide how to read them.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject is returned when a store line is valid JSON but not an object.
var ErrNotObject = errors.New("raw record is not a JSON object")

// RawRecord is one line of the raw store.
type RawRecord struct {
	Success   *bool
	Data      *AppData
	QueryID   any
	QueryName any
}

// AppData is the typed view over a record's "data" object.
type AppData struct {
	Type                 string
	Name                 any
	SteamAppID           any
	RequiredAge          any
	IsFree               any
	ControllerSupport    any
	AboutTheGame         any
	Background           any
	ShortDescription     any
	DetailedDescription  any
	DRMNotice            any
	ExtUserAccountNotice any
	HeaderImage          any
	LegalNotice          any
	Reviews              any
	SupportedLanguages   any
	Website              any
	Developers           []any
	Publishers           []any
	Demos                []any
	DLC                  []any
	Movies               []any
	Packages             []any
	Screenshots          []any
	Categories           []Tag
	Genres               []Tag
	PackageGroups        []PackageGroup
	Platforms            Platforms
	PCRequirements       Requirements
	MacRequirements      Requirements
	LinuxRequirements    Requirements
	PriceOverview        PriceOverview
	Achievements         Achievements
	Metacritic           Metacritic
	Recommendations      Recommendations
	ReleaseDate          ReleaseDate
	SupportInfo          SupportInfo
}

// Tag is one entry of a tagged-object list (categories, genres).
type Tag struct {
	ID          any
	Description any
}

// Requirements holds the minimum/recommended text of one platform.
type Requirements struct {
	Minimum     any
	Recommended any
}

// Platforms holds the per-OS availability flags.
type Platforms struct {
	Windows any
	Mac     any
	Linux   any
}

// PriceOverview is the nested pricing object; prices are in minor units.
type PriceOverview struct {
	Currency any
	Initial  any
	Final    any
}

// PackageGroup is one purchase option group.
type PackageGroup struct {
	IsRecurringSubscription any
	Subs                    []Sub
}

// Sub is one offer inside a package group.
type Sub struct {
	PackageID                any
	IsFreeLicense            any
	PriceInCentsWithDiscount any
}

// Achievements summarises the achievement list.
type Achievements struct {
	Total       any
	Highlighted []any
}

// Metacritic holds the critic score.
type Metacritic struct {
	Score any
}

// Recommendations holds the user recommendation total.
type Recommendations struct {
	Total any
}

// ReleaseDate holds the release date text.
type ReleaseDate struct {
	ComingSoon any
	Date       any
}

// SupportInfo holds the support contacts.
type SupportInfo struct {
	URL   any
	Email any
}

// ParseRawRecord decodes one store line. It fails only when the line is not
// a JSON object; shape problems inside the object are absorbed.
func ParseRawRecord(line []byte) (*RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode raw record: %w", err)
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, v)
	}

	return RawRecordFromMap(m), nil
}

// RawRecordFromMap builds a RawRecord from an already decoded object.
// The legacy query_appid/query_appname keys are accepted as fallbacks.
func RawRecordFromMap(m map[string]any) *RawRecord {
	rec := &RawRecord{
		QueryID:   firstPresent(m, "query_id", "query_appid"),
		QueryName: firstPresent(m, "query_name", "query_appname"),
	}

	if b, ok := m["success"].(bool); ok {
		rec.Success = &b
	}

	if d := asMap(m["data"]); d != nil {
		rec.Data = parseAppData(d)
	}

	return rec
}

// IsSuccess reports whether the record carries success == true.
func (r *RawRecord) IsSuccess() bool {
	return r != nil && r.Success != nil && *r.Success
}

// AppDataOrEmpty returns Data, or an empty AppData when it is absent.
func (r *RawRecord) AppDataOrEmpty() *AppData {
	if r == nil || r.Data == nil {
		return &AppData{}
	}

	return r.Data
}

func parseAppData(d map[string]any) *AppData {
	typ, _ := d["type"].(string)

	return &AppData{
		Type:                 typ,
		Name:                 d["name"],
		SteamAppID:           d["steam_appid"],
		RequiredAge:          d["required_age"],
		IsFree:               d["is_free"],
		ControllerSupport:    d["controller_support"],
		AboutTheGame:         d["about_the_game"],
		Background:           d["background"],
		ShortDescription:     d["short_description"],
		DetailedDescription:  d["detailed_description"],
		DRMNotice:            d["drm_notice"],
		ExtUserAccountNotice: d["ext_user_account_notice"],
		HeaderImage:          d["header_image"],
		LegalNotice:          d["legal_notice"],
		Reviews:              d["reviews"],
		SupportedLanguages:   d["supported_languages"],
		Website:              d["website"],
		Developers:           asSlice(d["developers"]),
		Publishers:           asSlice(d["publishers"]),
		Demos:                asSlice(d["demos"]),
		DLC:                  asSlice(d["dlc"]),
		Movies:               asSlice(d["movies"]),
		Packages:             asSlice(d["packages"]),
		Screenshots:          asSlice(d["screenshots"]),
		Categories:           parseTags(d["categories"]),
		Genres:               parseTags(d["genres"]),
		PackageGroups:        parsePackageGroups(d["package_groups"]),
		Platforms:            parsePlatforms(d["platforms"]),
		PCRequirements:       parseRequirements(d["pc_requirements"]),
		MacRequirements:      parseRequirements(d["mac_requirements"]),
		LinuxRequirements:    parseRequirements(d["linux_requirements"]),
		PriceOverview:        parsePriceOverview(d["price_overview"]),
		Achievements:         parseAchievements(d["achievements"]),
		Metacritic:           Metacritic{Score: asMap(d["metacritic"])["score"]},
		Recommendations:      Recommendations{Total: asMap(d["recommendations"])["total"]},
		ReleaseDate:          parseReleaseDate(d["release_date"]),
		SupportInfo:          parseSupportInfo(d["support_info"]),
	}
}

func parseTags(v any) []Tag {
	items := asSlice(v)
	tags := make([]Tag, 0, len(items))

	for _, item := range items {
		m := asMap(item)
		if m == nil {
			continue
		}

		tags = append(tags, Tag{ID: m["id"], Description: m["description"]})
	}

	return tags
}

func parsePackageGroups(v any) []PackageGroup {
	items := asSlice(v)
	groups := make([]PackageGroup, 0, len(items))

	for _, item := range items {
		m := asMap(item)
		if m == nil {
			continue
		}

		group := PackageGroup{IsRecurringSubscription: m["is_recurring_subscription"]}

		for _, s := range asSlice(m["subs"]) {
			sm := asMap(s)
			if sm == nil {
				continue
			}

			group.Subs = append(group.Subs, Sub{
				PackageID:                sm["packageid"],
				IsFreeLicense:            sm["is_free_license"],
				PriceInCentsWithDiscount: sm["price_in_cents_with_discount"],
			})
		}

		groups = append(groups, group)
	}

	return groups
}

func parsePlatforms(v any) Platforms {
	m := asMap(v)

	return Platforms{Windows: m["windows"], Mac: m["mac"], Linux: m["linux"]}
}

// parseRequirements accepts the object form. The store API sends an empty
// list instead of an object when a platform has no requirements.
func parseRequirements(v any) Requirements {
	m := asMap(v)

	return Requirements{Minimum: m["minimum"], Recommended: m["recommended"]}
}

func parsePriceOverview(v any) PriceOverview {
	m := asMap(v)

	return PriceOverview{Currency: m["currency"], Initial: m["initial"], Final: m["final"]}
}

func parseAchievements(v any) Achievements {
	m := asMap(v)

	return Achievements{Total: m["total"], Highlighted: asSlice(m["highlighted"])}
}

func parseReleaseDate(v any) ReleaseDate {
	m := asMap(v)

	return ReleaseDate{ComingSoon: m["coming_soon"], Date: m["date"]}
}

func parseSupportInfo(v any) SupportInfo {
	m := asMap(v)

	return SupportInfo{URL: m["url"], Email: m["email"]}
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}

	return nil
}

// asMap returns v as an object, or nil. Indexing a nil map is safe and
// yields nil, which keeps the parse helpers free of presence checks.
func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}
