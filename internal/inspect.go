package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

const DefaultInspectLimit = 100

type InspectRow struct {
	Key    string
	Type   string
	Detail string
}

type RowMapper func(key string, val []byte) InspectRow

// DefaultMapper names the row after its key prefix and shows the value as compact JSON.
// Index keys carry no value.
func DefaultMapper(key string, val []byte) InspectRow {
	typ, _, _ := strings.Cut(key, ":")
	row := InspectRow{Key: key, Type: strings.ToUpper(typ)}
	switch {
	case len(val) == 0:
		row.Detail = "index"
	case json.Valid(val):
		var buf bytes.Buffer
		if err := json.Compact(&buf, val); err == nil {
			row.Detail = buf.String()
			break
		}
		fallthrough
	default:
		row.Detail = "Size: " + strconv.Itoa(len(val)) + " bytes"
	}
	return row
}

// Scan reads at most limit rows under prefix.
func Scan(db *badger.DB, prefix string, limit int, mapper RowMapper) ([]InspectRow, error) {
	if mapper == nil {
		mapper = DefaultMapper
	}
	if limit <= 0 {
		limit = DefaultInspectLimit
	}
	var rows []InspectRow
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid() && len(rows) < limit; it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				rows = append(rows, mapper(string(item.Key()), val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

func RenderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.AppendBulk(rows)
	table.Render()
}

func RenderRows(w io.Writer, rows []InspectRow) {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{r.Key, r.Type, r.Detail})
	}
	RenderTable(w, []string{"Key", "Type", "Detail"}, cells)
}

// DebugHandler serves GET ?prefix=user:&limit=20 as a plain text table.
func DebugHandler(db *badger.DB, mapper RowMapper) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		rows, err := Scan(db, r.URL.Query().Get("prefix"), limit, mapper)
		if err != nil {
			http.Error(w, fmt.Sprintf("scan failed: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		RenderRows(w, rows)
	})
}
