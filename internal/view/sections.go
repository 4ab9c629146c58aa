package view

import "github.com/dbmrq/techcat/internal/catalog"

// Section is a run of search results that share one level.
type Section struct {
	Level   catalog.Level
	Heading string
	// Info is the reference entry of the level. It is zero for levels the
	// reference does not describe.
	Info    catalog.LevelInfo
	Records []catalog.Technology
}

// Sections groups records by level, highest first, and heads each run with
// the level's label. Levels outside the three known ones share one run
// headed "Other". ref may be nil.
func Sections(records []catalog.Technology, ref *catalog.Reference) []Section {
	grouped := catalog.GroupByLevel(records)

	var out []Section
	for i := 0; i < len(grouped); {
		level := grouped[i].Level
		j := i
		for j < len(grouped) && grouped[j].Level.Rank() == level.Rank() {
			j++
		}

		s := Section{Level: level, Heading: string(level), Records: grouped[i:j]}
		if !level.Known() {
			s.Heading = "Other"
		} else if ref != nil {
			if info, ok := ref.Level(level); ok {
				s.Info = info
				s.Heading = info.Label
			}
		}
		out = append(out, s)
		i = j
	}
	return out
}
