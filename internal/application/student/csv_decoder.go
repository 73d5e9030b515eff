package student

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	domain "github.com/mohammadpnp/student-import/internal/domain/student"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	columnName        = "name"
	columnEmail       = "email"
	columnStudentCode = "student_code"
	columnPhone       = "phone"
	columnPassword    = "password"
)

var (
	requiredColumns = []string{columnName, columnEmail, columnStudentCode}
	optionalColumns = []string{columnPhone, columnPassword}
)

type decodedCSV struct {
	Rows     []domain.Row
	Warnings []string
}

// decodeCSV turns raw upload bytes into rows. Structural problems (empty
// input, broken quoting, missing required columns, no data) are returned as
// errors wrapping ErrInvalidCSV.
func decodeCSV(data []byte) (decodedCSV, error) {
	text, err := toUTF8(data)
	if err != nil {
		return decodedCSV{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(bytes.TrimSpace(text)) == 0 {
		return decodedCSV{}, ErrEmptyFile
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return decodedCSV{}, ErrEmptyFile
		}
		return decodedCSV{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	columns, warnings := indexHeader(header)

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return decodedCSV{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	out := decodedCSV{Warnings: warnings}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return decodedCSV{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		if blankRecord(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		out.Rows = append(out.Rows, domain.Row{
			Name:        cell(record, columns, columnName),
			Email:       cell(record, columns, columnEmail),
			StudentCode: cell(record, columns, columnStudentCode),
			Phone:       cell(record, columns, columnPhone),
			Password:    cell(record, columns, columnPassword),
			LineNumber:  line,
		})
	}

	if len(out.Rows) == 0 {
		return decodedCSV{}, ErrNoDataRows
	}

	return out, nil
}

// toUTF8 strips byte order marks and decodes non-UTF-8 input as
// Windows-1252, the usual encoding of spreadsheet exports.
func toUTF8(data []byte) ([]byte, error) {
	var fallback transform.Transformer = transform.Nop
	if !utf8.Valid(data) {
		fallback = charmap.Windows1252.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	return out, err
}

func indexHeader(header []string) (map[string]int, []string) {
	known := make(map[string]bool, len(requiredColumns)+len(optionalColumns))
	for _, name := range requiredColumns {
		known[name] = true
	}
	for _, name := range optionalColumns {
		known[name] = true
	}

	columns := make(map[string]int, len(header))
	var warnings []string
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if !known[name] {
			warnings = append(warnings, fmt.Sprintf("unknown column %q ignored", strings.TrimSpace(raw)))
			continue
		}
		if _, dup := columns[name]; dup {
			warnings = append(warnings, fmt.Sprintf("repeated column %q ignored", name))
			continue
		}
		columns[name] = i
	}
	return columns, warnings
}

func cell(record []string, columns map[string]int, name string) string {
	pos, ok := columns[name]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blankRecord(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
