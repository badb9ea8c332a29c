package projections

import (
	"strings"

	"golang.org/x/text/cases"

	"gymadmin/internal/domain/member"
)

// RecentMemberCount is how many members the dashboard lists.
const RecentMemberCount = 5

// FilterMembers returns the members whose name or email contains query, ignoring case.
// Matching uses Unicode case folding, so "ali" matches "Ali" and "ALİ" folds consistently.
// PRE: none
// The query is matched as typed: surrounding spaces are part of the needle.
// POST: Returns members in their original order; an empty query returns all of them
// INVARIANT: members is not modified
func FilterMembers(query string, members []member.Record) []member.Record {
	if query == "" {
		return members
	}
	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]member.Record, 0, len(members))
	for _, m := range members {
		if strings.Contains(fold.String(m.Name), needle) || strings.Contains(fold.String(m.Email), needle) {
			out = append(out, m)
		}
	}
	return out
}

// RecentMembers returns the first RecentMemberCount members as listed by the API.
func RecentMembers(members []member.Record) []member.Record {
	if len(members) > RecentMemberCount {
		return members[:RecentMemberCount]
	}
	return members
}

// FindMembership returns the member row carrying membershipID.
func FindMembership(members []member.Record, membershipID int) (member.Record, bool) {
	for _, m := range members {
		if m.MembershipID == membershipID {
			return m, true
		}
	}
	return member.Record{}, false
}
