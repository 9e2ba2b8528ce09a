package export

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/sredstva/internal/model"
)

func sampleAssets() []model.Asset {
	// Deliberately out of order: exports sort by id.
	return []model.Asset{
		{ID: 3, Tag: "NB-100", Name: "ThinkPad, \"T14\"", CategoryName: "Laptops", LocationLabel: "Bldg B/202", Status: "in_use"},
		{ID: 1, Tag: "PC-001", Name: "Dell OptiPlex", CategoryName: "IT", LocationLabel: "Bldg A/101", Status: "new"},
		{ID: 2, Tag: "PR-7", Name: "Tiskalnik čarovnik", CategoryName: "Printers", LocationLabel: "Bldg A/102", Status: "repair"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleAssets()))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}), "missing byte order mark")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "assets_csv", buf.Bytes())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "\xEF\xBB\xBFid,asset_tag,name,category,location,status\n", buf.String())
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	require.NoError(t, WritePDF(&buf, sampleAssets(), generated))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFPagination(t *testing.T) {
	generated := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	assets := func(n int) []model.Asset {
		out := make([]model.Asset, n)
		for i := range out {
			out[i] = model.Asset{ID: int64(i + 1), Tag: fmt.Sprintf("T-%03d", i+1), Name: "Item", Status: "new"}
		}
		return out
	}

	// The first page has room for 52 rows below the title and header,
	// later pages for 57.
	tests := []struct {
		rows  int
		pages int
	}{
		{0, 1},
		{52, 1},
		{53, 2},
		{52 + 57, 2},
		{52 + 57 + 1, 3},
	}
	for _, tt := range tests {
		pdf := renderPDF(assets(tt.rows), generated)
		require.NoError(t, pdf.Error())
		assert.Equal(t, tt.pages, pdf.PageCount(), "%d rows", tt.rows)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 12))
	assert.Equal(t, "čžš", truncate("čžšđ", 3))
	assert.Equal(t, "ThinkPad X1 Carbon Gen 11 14", truncate("ThinkPad X1 Carbon Gen 11 14-inch", nameWidth))
}
