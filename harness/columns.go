package harness

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaMismatch reports a CSV file whose header lacks required columns.
var ErrSchemaMismatch = errors.New("schema mismatch")

// RequireColumns maps column names to their index in header and fails with
// ErrSchemaMismatch naming every required column that is absent.
// Header cells are trimmed; extra columns are allowed.
func RequireColumns(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	var missing []string
	for _, r := range required {
		if _, ok := idx[r]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return idx, nil
}
