package airports

import (
	"github.com/paulmach/osm"
)

// TagFilter allows to filter OSM entities by certain tag
type TagFilter struct {
	Key    string // e.g. 'aeroway'
	Values []string
}

// AerodromeFilter matches airports and airfields: https://wiki.openstreetmap.org/wiki/Tag:aeroway%3Daerodrome
var AerodromeFilter = TagFilter{
	Key:    "aeroway",
	Values: []string{"aerodrome"},
}

// Matches checks if tag set contains filter key with exactly one of filter values
func (filter TagFilter) Matches(tags osm.Tags) bool {
	value := tags.Find(filter.Key)
	if value == "" {
		return false
	}
	return filter.CheckTag(value)
}

// CheckTag checks if incoming tag value is represented in filter
func (filter TagFilter) CheckTag(tag string) bool {
	for i := range filter.Values {
		if filter.Values[i] == tag {
			return true
		}
	}
	return false
}

func (filter TagFilter) validate() error {
	if filter.Key == "" {
		return &ArgumentError{Msg: "tag filter key is empty"}
	}
	if len(filter.Values) == 0 {
		return &ArgumentError{Msg: "tag filter has no values"}
	}
	for _, value := range filter.Values {
		if value == "" {
			return &ArgumentError{Msg: "tag filter has empty value"}
		}
	}
	return nil
}
