package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/erazemk/sredstva/internal/model"
)

var csvHeader = []string{"id", "asset_tag", "name", "category", "location", "status"}

// WriteCSV writes assets as UTF-8 CSV with a byte order mark, ordered by id.
func WriteCSV(w io.Writer, assets []model.Asset) error {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bom)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, a := range byID(assets) {
		record := []string{
			strconv.FormatInt(a.ID, 10),
			a.Tag,
			a.Name,
			a.CategoryName,
			a.LocationLabel,
			a.Status,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", a.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	if err := bom.Close(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
