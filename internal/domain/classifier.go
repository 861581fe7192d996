package domain

import "strings"

// IconTag is an abstract icon classification. The display layer maps it
// to concrete visuals.
type IconTag string

const (
	IconRepository   IconTag = "repository"
	IconVideo        IconTag = "video"
	IconPlaylist     IconTag = "playlist"
	IconBook         IconTag = "book"
	IconCourse       IconTag = "course"
	IconWebsite      IconTag = "website"
	IconCircuit      IconTag = "circuit"
	IconAssistant    IconTag = "assistant"
	IconLink         IconTag = "link"
	IconUnclassified IconTag = "unclassified"
)

var iconTags = map[IconTag]struct{}{
	IconRepository:   {},
	IconVideo:        {},
	IconPlaylist:     {},
	IconBook:         {},
	IconCourse:       {},
	IconWebsite:      {},
	IconCircuit:      {},
	IconAssistant:    {},
	IconLink:         {},
	IconUnclassified: {},
}

// Valid reports whether t belongs to the known enumeration.
func (t IconTag) Valid() bool {
	_, ok := iconTags[t]
	return ok
}

type iconRule struct {
	keywords []string
	tag      IconTag
}

// iconRules are evaluated in order; the first rule with a matching keyword wins.
// "playlist" must stay ahead of "video".
var iconRules = []iconRule{
	{keywords: []string{"playlist"}, tag: IconPlaylist},
	{keywords: []string{"video"}, tag: IconVideo},
	{keywords: []string{"code", "repository", "github"}, tag: IconRepository},
	{keywords: []string{"book"}, tag: IconBook},
	{keywords: []string{"learn", "education", "course"}, tag: IconCourse},
	{keywords: []string{"tool", "utility", "web", "site"}, tag: IconWebsite},
	{keywords: []string{"circuit", "electronic"}, tag: IconCircuit},
	{keywords: []string{"ai", "assistant"}, tag: IconAssistant},
}

// Classify maps a free-text keyword hint to an IconTag.
// An empty hint yields IconUnclassified; any other hint that matches no
// rule, whitespace included, yields IconLink.
func Classify(hint string) IconTag {
	if hint == "" {
		return IconUnclassified
	}
	h := strings.ToLower(hint)
	for _, rule := range iconRules {
		for _, kw := range rule.keywords {
			if strings.Contains(h, kw) {
				return rule.tag
			}
		}
	}
	return IconLink
}
