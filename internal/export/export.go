// Package export renders asset listings as CSV and PDF reports.
package export

import (
	"cmp"
	"slices"

	"github.com/erazemk/sredstva/internal/model"
)

// Attachment names and content types.
const (
	CSVFilename    = "assets.csv"
	CSVContentType = "text/csv; charset=utf-8"
	PDFFilename    = "assets.pdf"
	PDFContentType = "application/pdf"
)

// byID returns a copy of assets in ascending id order.
func byID(assets []model.Asset) []model.Asset {
	sorted := slices.Clone(assets)
	slices.SortFunc(sorted, func(a, b model.Asset) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return sorted
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
