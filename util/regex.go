package util

import "regexp"

type Group struct {
	Key   string
	Value string
}

// ParseGroup returns the non-empty named groups of the first match.
func ParseGroup(regexp *regexp.Regexp, str string) []Group {
	subMatch := regexp.FindStringSubmatch(str)
	if subMatch == nil {
		return nil
	}
	return namedGroups(regexp.SubexpNames(), subMatch)
}

// ParseGroups is ParseGroup over every match in str, flattened in order.
func ParseGroups(regexp *regexp.Regexp, str string) []Group {
	names := regexp.SubexpNames()
	var res []Group
	for _, subMatch := range regexp.FindAllStringSubmatch(str, -1) {
		res = append(res, namedGroups(names, subMatch)...)
	}
	return res
}

// GroupValue looks up key; later groups win.
func GroupValue(groups []Group, key string) (string, bool) {
	value, found := "", false
	for _, g := range groups {
		if g.Key == key {
			value, found = g.Value, true
		}
	}
	return value, found
}

func namedGroups(names []string, subMatch []string) []Group {
	res := make([]Group, 0, len(names))
	for i, name := range names {
		if name != "" && subMatch[i] != "" {
			res = append(res, Group{name, subMatch[i]})
		}
	}
	return res
}
