package projections

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"gymadmin/internal/domain/exercise"
	"gymadmin/internal/domain/program"
)

// SortCatalog returns a copy of the catalog ordered by muscle group, then name,
// using the collation rules of lang.
// INVARIANT: catalog is not modified
func SortCatalog(catalog []exercise.Exercise, lang language.Tag) []exercise.Exercise {
	out := make([]exercise.Exercise, len(catalog))
	copy(out, catalog)
	c := collate.New(lang, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := c.CompareString(out[i].MuscleGroup, out[j].MuscleGroup); cmp != 0 {
			return cmp < 0
		}
		return c.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// SortProgramExercises returns a copy ordered by the server-assigned order number.
func SortProgramExercises(list []program.Exercise) []program.Exercise {
	out := make([]program.Exercise, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderNo < out[j].OrderNo })
	return out
}

// FindProgram returns the program with id.
func FindProgram(programs []program.Program, id int) (program.Program, bool) {
	for _, p := range programs {
		if p.ID == id {
			return p, true
		}
	}
	return program.Program{}, false
}
