package dialect

import (
	"strings"

	"golang.org/x/text/cases"
)

// Keyword is one of the fixed AQL attribute names.
type Keyword int

const (
	KeywordNone Keyword = iota
	KeywordStorage
	KeywordRepository
	KeywordLayout
	KeywordVersion
	KeywordTag
	KeywordFrom
	KeywordTo
	KeywordAge
)

// CoordinatesPrefix is the property template for non-keyword attributes.
const CoordinatesPrefix = "artifactCoordinates.coordinates."

var keywords = map[string]Keyword{
	"storage":    KeywordStorage,
	"repository": KeywordRepository,
	"layout":     KeywordLayout,
	"version":    KeywordVersion,
	"tag":        KeywordTag,
	"from":       KeywordFrom,
	"to":         KeywordTo,
	"age":        KeywordAge,
}

var properties = map[Keyword]string{
	KeywordStorage:    "storageId",
	KeywordRepository: "repositoryId",
	KeywordLayout:     "artifactCoordinates.@class",
	KeywordVersion:    "artifactCoordinates.version",
	KeywordTag:        "tagSet.name",
	KeywordFrom:       "lastUpdated",
	KeywordTo:         "lastUpdated",
	KeywordAge:        "lastUpdated",
}

// LookupKeyword matches attr against the keyword table, ignoring case.
func LookupKeyword(attr string) (Keyword, bool) {
	k, ok := keywords[cases.Fold().String(strings.TrimSpace(attr))]
	return k, ok
}

// Property returns the record property of a keyword.
func (k Keyword) Property() string {
	return properties[k]
}

func (k Keyword) String() string {
	for name, kw := range keywords {
		if kw == k {
			return name
		}
	}
	return "none"
}

// ResolveProperty maps an attribute to its record property: the keyword
// table first, the generic coordinate map otherwise.
func ResolveProperty(attr string) string {
	if k, ok := LookupKeyword(attr); ok {
		return k.Property()
	}
	return CoordinatesPrefix + strings.TrimSpace(attr)
}
