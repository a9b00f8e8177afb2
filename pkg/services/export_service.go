package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/inflection"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/store"
)

// Export format constants.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatSQL  = "sql"
	FormatXLSX = "xlsx"
)

// Exportable collection names.
const (
	CollectionSchemas    = "schemas"
	CollectionUsers      = "users"
	CollectionRoles      = "roles"
	CollectionDashboards = "dashboards"
	CollectionCalendars  = "calendars"
	CollectionShortcuts  = "shortcuts"
	CollectionRecords    = "records"
)

// ExportResult is a ready-to-download file body.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService dumps store collections as downloadable files. The SQL
// variant is a best-effort textual dump against the ad hoc deftable /
// defdata / sys_users tables, not a faithful migration.
type ExportService interface {
	Export(ctx context.Context, collection, format string) (*ExportResult, error)
}

type exportService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(st *store.Store, logger *zap.Logger) ExportService {
	return &exportService{
		store:  st,
		logger: logger.Named("export-service"),
	}
}

var _ ExportService = (*exportService)(nil)

func (s *exportService) Export(ctx context.Context, collection, format string) (*ExportResult, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = s.jsonBody(collection)
	case FormatCSV:
		data, err = s.csvBody(collection)
	case FormatSQL:
		data, err = s.sqlBody()
	case FormatXLSX:
		data, err = s.xlsxBody(collection)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", apperrors.ErrValidation, format)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("collection exported",
		zap.String("collection", collection),
		zap.String("format", format),
		zap.Int("bytes", len(data)))

	return &ExportResult{
		Filename:    fmt.Sprintf("geonexus_%s.%s", collection, format),
		ContentType: contentTypeFor(format),
		Data:        data,
	}, nil
}

func contentTypeFor(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatSQL:
		return "application/sql"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

func (s *exportService) jsonBody(collection string) ([]byte, error) {
	var v any
	switch collection {
	case CollectionSchemas:
		v = s.store.TableSchemas()
	case CollectionUsers:
		v = s.store.Users()
	case CollectionRoles:
		v = s.store.Roles()
	case CollectionDashboards:
		v = s.store.Dashboards()
	case CollectionCalendars:
		v = s.store.Calendars()
	case CollectionShortcuts:
		v = s.store.Shortcuts()
	case CollectionRecords:
		v = s.allRecords()
	default:
		return nil, fmt.Errorf("%w: unknown collection %q", apperrors.ErrNotFound, collection)
	}
	return json.MarshalIndent(v, "", "  ")
}

// tabular renders a collection as header + rows. Object-valued cells are
// flattened via JSON stringification.
func (s *exportService) tabular(collection string) ([]string, [][]string, error) {
	switch collection {
	case CollectionSchemas:
		header := []string{"id", "name", "description", "geometry_type", "color", "fields"}
		var rows [][]string
		for _, sc := range s.store.TableSchemas() {
			rows = append(rows, []string{
				sc.ID, sc.Name, sc.Description, sc.GeometryType, sc.Color, jsonCell(sc.Fields),
			})
		}
		return header, rows, nil
	case CollectionUsers:
		header := []string{"id", "username", "email", "role_id", "created_at"}
		var rows [][]string
		for _, u := range s.store.Users() {
			rows = append(rows, []string{
				u.ID, u.Username, u.Email, u.RoleID, u.CreatedAt.Format(time.RFC3339),
			})
		}
		return header, rows, nil
	case CollectionRoles:
		header := []string{"id", "name", "description", "is_system", "permissions"}
		var rows [][]string
		for _, r := range s.store.Roles() {
			rows = append(rows, []string{
				r.ID, r.Name, r.Description, strconv.FormatBool(r.IsSystem), jsonCell(r.Permissions),
			})
		}
		return header, rows, nil
	case CollectionDashboards:
		header := []string{"id", "name", "table_id", "is_default", "filter_logic", "filters", "widgets"}
		var rows [][]string
		for _, d := range s.store.Dashboards() {
			rows = append(rows, []string{
				d.ID, d.Name, d.TableID, strconv.FormatBool(d.IsDefault),
				d.FilterLogic, jsonCell(d.Filters), jsonCell(d.Widgets),
			})
		}
		return header, rows, nil
	case CollectionCalendars:
		header := []string{"id", "name", "table_id", "title_field", "start_field", "end_field", "default_view", "time_zone", "order"}
		var rows [][]string
		for _, c := range s.store.Calendars() {
			rows = append(rows, []string{
				c.ID, c.Name, c.TableID, c.TitleField, c.StartField, c.EndField,
				c.DefaultView, c.TimeZone, strconv.Itoa(c.Order),
			})
		}
		return header, rows, nil
	case CollectionShortcuts:
		header := []string{"id", "name", "icon", "color", "type", "config"}
		var rows [][]string
		for _, sc := range s.store.Shortcuts() {
			rows = append(rows, []string{
				sc.ID, sc.Name, sc.Icon, sc.Color, sc.Type, jsonCell(sc.Config),
			})
		}
		return header, rows, nil
	case CollectionRecords:
		header := []string{"id", "table_id", "values", "created_at"}
		var rows [][]string
		for _, r := range s.allRecords() {
			rows = append(rows, []string{
				r.ID, r.TableID, jsonCell(r.Values), r.CreatedAt.Format(time.RFC3339),
			})
		}
		return header, rows, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown collection %q", apperrors.ErrNotFound, collection)
	}
}

func (s *exportService) csvBody(collection string) ([]byte, error) {
	header, rows, err := s.tabular(collection)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (s *exportService) xlsxBody(collection string) ([]byte, error) {
	header, rows, err := s.tabular(collection)
	if err != nil {
		return nil, err
	}
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(collection)
	if err != nil {
		return nil, err
	}
	headerRow := sheet.AddRow()
	for _, h := range header {
		headerRow.AddCell().Value = h
	}
	for _, row := range rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().Value = cell
		}
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sqlBody writes the whole configuration as INSERT statements against the
// ad hoc deftable / defdata / sys_users tables.
func (s *exportService) sqlBody() ([]byte, error) {
	var b strings.Builder
	b.WriteString("-- GeoNexus console dump\n\n")

	for _, sc := range s.store.TableSchemas() {
		fields, err := json.Marshal(sc.Fields)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b,
			"INSERT INTO deftable (id, name, description, geometry_type, color, definition) VALUES (%s, %s, %s, %s, %s, %s);\n",
			sqlQuote(sc.ID), sqlQuote(sc.Name), sqlQuote(sc.Description),
			sqlQuote(sc.GeometryType), sqlQuote(sc.Color), sqlQuote(string(fields)))
	}
	b.WriteString("\n")

	tableNames := make(map[string]string)
	for _, sc := range s.store.TableSchemas() {
		tableNames[sc.ID] = DataTableName(sc.Name)
	}
	for _, r := range s.allRecords() {
		values, err := json.Marshal(r.Values)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b,
			"INSERT INTO defdata (id, table_name, data, created_at) VALUES (%s, %s, %s, %s);\n",
			sqlQuote(r.ID), sqlQuote(tableNames[r.TableID]),
			sqlQuote(string(values)), sqlQuote(r.CreatedAt.Format(time.RFC3339)))
	}
	b.WriteString("\n")

	for _, u := range s.store.Users() {
		fmt.Fprintf(&b,
			"INSERT INTO sys_users (id, username, email, role_id, created_at) VALUES (%s, %s, %s, %s, %s);\n",
			sqlQuote(u.ID), sqlQuote(u.Username), sqlQuote(u.Email),
			sqlQuote(u.RoleID), sqlQuote(u.CreatedAt.Format(time.RFC3339)))
	}

	return []byte(b.String()), nil
}

func (s *exportService) allRecords() []record {
	var out []record
	for _, sc := range s.store.TableSchemas() {
		for _, r := range s.store.DataRecords(sc.ID) {
			out = append(out, record{r.ID, r.TableID, r.Values, r.CreatedAt})
		}
	}
	return out
}

// record mirrors models.DataRecord for export without the json:"-" concerns
// of the live type.
type record struct {
	ID        string         `json:"id"`
	TableID   string         `json:"table_id"`
	Values    map[string]any `json:"values"`
	CreatedAt time.Time      `json:"created_at"`
}

// DataTableName derives the SQL table name a schema's records are dumped
// under: the schema name snaked and pluralized ("Tree survey" → "tree_surveys").
func DataTableName(schemaName string) string {
	return inflection.Plural(inflection.Singular(AutoFieldName(schemaName)))
}

// jsonCell flattens an object value into a single CSV/XLSX cell.
func jsonCell(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

// sqlQuote single-quotes a string literal, doubling embedded quotes.
func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
