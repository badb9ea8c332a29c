// Package export writes cached collections to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"gymadmin/internal/domain/member"
)

// MembersSheet is the name of the single sheet in a members workbook.
const MembersSheet = "Members"

// MemberHeaders labels the columns of a members workbook, in order:
// name, email, type, remaining, credit total, credit used, active.
type MemberHeaders [7]string

// DefaultMemberHeaders are used when the caller has no localized labels.
var DefaultMemberHeaders = MemberHeaders{"Name", "Email", "Type", "Remaining", "Credit total", "Credit used", "Active"}

// WriteMembers writes members as an XLSX workbook to w.
// Remaining is the day count of timed memberships and the credit balance of credit ones.
// PRE: members is the (optionally filtered) cached member list
// POST: One header row plus one row per member, in input order
func WriteMembers(w io.Writer, members []member.Record, headers MemberHeaders) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", MembersSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(MembersSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(MembersSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, m := range members {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{m.Name, m.Email, m.Type, remaining(m), m.CreditTotal, m.CreditUsed, bool(m.IsActive)}
		if err := f.SetSheetRow(MembersSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(MembersSheet, "A", "B", 28); err != nil {
		return err
	}
	if err := f.SetPanes(MembersSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// remaining mirrors the members table: days for timed memberships ("-" when unknown),
// total minus used for credit ones.
func remaining(m member.Record) any {
	if m.IsTimed() {
		if m.RemainingDays == nil {
			return "-"
		}
		return *m.RemainingDays
	}
	return m.RemainingCredits()
}

// Filename returns the download name of a gym's member export.
func Filename(gymID int) string {
	return "members-gym-" + strconv.Itoa(gymID) + ".xlsx"
}
