package catalog

import "sort"

// Group is the set of endpoints sharing a tag.
type Group struct {
	Tag       string     `json:"tag"`
	Endpoints []Endpoint `json:"endpoints"`
}

// GroupByTag groups endpoints by tag. Groups are sorted by tag name using
// byte-wise comparison; members keep their input order. Every presenter
// renders through this function so navigation and export agree.
func GroupByTag(endpoints []Endpoint) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, ep := range endpoints {
		i, ok := index[ep.Tag]
		if !ok {
			i = len(groups)
			index[ep.Tag] = i
			groups = append(groups, Group{Tag: ep.Tag})
		}
		groups[i].Endpoints = append(groups[i].Endpoints, ep)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Tag < groups[b].Tag
	})
	return groups
}
