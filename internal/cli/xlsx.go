package cli

import (
	perr "jangat/internal/platform/errors"
	"jangat/internal/services/api/analysis/domain"

	"github.com/xuri/excelize/v2"
)

const (
	sheetScores   = "Scores"
	sheetCounts   = "Counts"
	sheetEvidence = "Evidence"
)

// writeWorkbook saves the comparison as three sheets: proportions and counts as subject by
// document grids, and the quoted evidence one sentence per row
func writeWorkbook(path string, cmp domain.CompareResponse) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetScores); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "workbook")
	}
	for _, name := range []string{sheetCounts, sheetEvidence} {
		if _, err := f.NewSheet(name); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "workbook")
		}
	}
	pct, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "workbook")
	}

	if err := fillGrids(f, cmp, pct); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "workbook")
	}
	if err := fillEvidence(f, cmp); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "workbook")
	}
	if err := f.SaveAs(path); err != nil {
		return perr.WithField(perr.Wrap(err, perr.ErrorCodeUnavailable, "save workbook"), "xlsx")
	}
	return nil
}

func fillGrids(f *excelize.File, cmp domain.CompareResponse, pct int) error {
	head := []any{"Subject"}
	col := make(map[string]int, len(cmp.Documents))
	for i, d := range cmp.Documents {
		head = append(head, d.Label)
		col[d.Label] = i + 2
	}
	row := make(map[string]int, len(cmp.Subjects))
	for i, s := range cmp.Subjects {
		row[s] = i + 2
	}
	for _, sheet := range []string{sheetScores, sheetCounts} {
		if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
			return err
		}
		for s, r := range row {
			cell, _ := excelize.CoordinatesToCellName(1, r)
			if err := f.SetCellValue(sheet, cell, s); err != nil {
				return err
			}
		}
	}

	for _, c := range cmp.Cells {
		cell, err := excelize.CoordinatesToCellName(col[c.Label], row[c.Subject])
		if err != nil {
			return err
		}
		// an undefined score stays an empty cell so it never reads as zero
		if c.Score != nil {
			if err := f.SetCellValue(sheetScores, cell, *c.Score); err != nil {
				return err
			}
		}
		if err := f.SetCellValue(sheetCounts, cell, c.Count); err != nil {
			return err
		}
	}

	if len(cmp.Documents) > 0 && len(cmp.Subjects) > 0 {
		from, _ := excelize.CoordinatesToCellName(2, 2)
		to, _ := excelize.CoordinatesToCellName(len(cmp.Documents)+1, len(cmp.Subjects)+1)
		if err := f.SetCellStyle(sheetScores, from, to, pct); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetScores, "A", "A", 28)
}

func fillEvidence(f *excelize.File, cmp domain.CompareResponse) error {
	if err := f.SetSheetRow(sheetEvidence, "A1", &[]any{"Document", "Subject", "Sentence", "Term", "Text"}); err != nil {
		return err
	}
	r := 2
	for _, d := range cmp.Documents {
		for _, ev := range d.Evidence {
			for _, o := range ev.Occurrences {
				cell, _ := excelize.CoordinatesToCellName(1, r)
				if err := f.SetSheetRow(sheetEvidence, cell, &[]any{d.Label, ev.Subject, o.Sentence, o.Term, o.Text}); err != nil {
					return err
				}
				r++
			}
		}
	}
	return f.SetColWidth(sheetEvidence, "E", "E", 100)
}
