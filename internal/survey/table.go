package survey

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"soundmap/constants"
	"soundmap/internal/common"
)

// RatingVector holds one scene's eight ratings in vocabulary order.
type RatingVector [constants.NumRatings]float64

// SceneTable is the reshaped form of one upload: scene keys in first-seen
// order, a rating vector per key, and the category map needed to decode keys
// back to labels.
type SceneTable struct {
	Schema     TableSchema
	Keys       []string
	Ratings    map[string]RatingVector
	Categories CategoryMap
}

// ReadRows loads the raw cell grid from an upload. The extension picks the
// parser; anything unreadable is an input-read failure, not a malformed table.
func ReadRows(path string) ([][]string, error) {
	switch constants.NormalizeExt(filepath.Ext(path)) {
	case "xlsx":
		return readXLSX(path)
	case "csv":
		return readCSV(path)
	default:
		return nil, common.NewAppError("INPUT_READ", "unsupported file type "+path, common.ErrInputRead)
	}
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.NewAppError("INPUT_READ", "opening workbook", common.WrapError(err, path))
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, common.NewAppError("INPUT_READ", "workbook has no sheets", common.ErrInputRead)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, common.NewAppError("INPUT_READ", "reading sheet "+sheet, common.WrapError(err, path))
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewAppError("INPUT_READ", "opening csv", common.WrapError(err, path))
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, common.NewAppError("INPUT_READ", "parsing csv", common.WrapError(err, path))
	}
	return rows, nil
}

// columnLayout resolves header positions once per upload.
type columnLayout struct {
	scene      int
	ratings    [constants.NumRatings]int
	categories []int // parallel to schema.CategoryColumns
}

func resolveColumns(schema TableSchema, header []string) (columnLayout, error) {
	layout := columnLayout{scene: -1}
	for i := range layout.ratings {
		layout.ratings[i] = -1
	}
	layout.categories = make([]int, len(schema.CategoryColumns))
	for i := range layout.categories {
		layout.categories[i] = -1
	}

	sceneName := strings.ToLower(strings.TrimSpace(schema.SceneColumn))
	for idx, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == sceneName {
			layout.scene = idx
			continue
		}
		for ci, cat := range schema.CategoryColumns {
			if name == strings.ToLower(cat) {
				layout.categories[ci] = idx
			}
		}
		if ri := constants.RatingIndex(schema.ratingName(name)); ri >= 0 && layout.ratings[ri] < 0 {
			layout.ratings[ri] = idx
		}
	}

	if layout.scene < 0 {
		return layout, malformed(fmt.Sprintf("scene column %q not found", schema.SceneColumn))
	}
	for i, pos := range layout.ratings {
		if pos < 0 {
			return layout, malformed(fmt.Sprintf("rating column %q not found", constants.RatingDimensions[i]))
		}
	}
	for ci, pos := range layout.categories {
		if pos < 0 {
			return layout, malformed(fmt.Sprintf("category column %q not found", schema.CategoryColumns[ci]))
		}
	}
	return layout, nil
}

// BuildSceneTable reshapes the raw grid into per-scene rating vectors keyed by
// composite scene keys. Rows with blank scene labels or unparsable ratings are
// skipped with a warning; a duplicate key overwrites the earlier row (last
// write wins, logged). Fewer than one resulting scene is a malformed table.
func BuildSceneTable(schema TableSchema, rows [][]string, logger *slog.Logger) (*SceneTable, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(rows) < 2 {
		return nil, malformed("table needs a header row and at least one data row")
	}

	layout, err := resolveColumns(schema, rows[0])
	if err != nil {
		return nil, err
	}

	enc := newCategoryEncoder(schema.CategoryColumns)
	st := &SceneTable{
		Schema:  schema,
		Ratings: make(map[string]RatingVector),
	}

	for rowNum, row := range rows[1:] {
		base := cell(row, layout.scene)
		if base == "" {
			continue
		}

		vec, ok := parseRatings(row, layout)
		if !ok {
			logger.Warn("skipping row with unparsable ratings", "row", rowNum+2, "scene", base)
			continue
		}

		cats := make(map[string]string, len(schema.CategoryColumns))
		for ci, col := range schema.CategoryColumns {
			cats[col] = cell(row, layout.categories[ci])
		}

		key := enc.EncodeKey(base, cats)
		if _, dup := st.Ratings[key]; dup {
			logger.Warn("duplicate scene key, keeping last row", "key", key, "row", rowNum+2)
		} else {
			st.Keys = append(st.Keys, key)
		}
		st.Ratings[key] = vec
	}

	if len(st.Keys) == 0 {
		return nil, malformed("no valid scenes after reshaping")
	}
	st.Categories = enc.Map()
	if len(schema.CategoryColumns) > 0 {
		logger.Info("category codes assigned", "map", st.Categories.String())
	}
	return st, nil
}

func parseRatings(row []string, layout columnLayout) (RatingVector, bool) {
	var vec RatingVector
	for i, pos := range layout.ratings {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell(row, pos)), 64)
		if err != nil {
			return vec, false
		}
		vec[i] = v
	}
	return vec, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func malformed(msg string) error {
	return common.NewAppError("MALFORMED_INPUT", msg, common.ErrMalformedInput)
}

// Labels decodes every key against the table's own category map, preserving
// key order.
func (st *SceneTable) Labels() []string {
	return DecodeAll(st.Keys, st.Schema.CategoryColumns, st.Categories)
}
