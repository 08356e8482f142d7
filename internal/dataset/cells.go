package dataset

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// cellStrings renders database values the way a CSV export would.
// NULL becomes the empty string, which the parser reports as missing.
func cellStrings(vals []any) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		switch t := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = t
		case []byte:
			out[i] = string(t)
		case int64:
			out[i] = strconv.FormatInt(t, 10)
		case int32:
			out[i] = strconv.FormatInt(int64(t), 10)
		case int:
			out[i] = strconv.Itoa(t)
		case float64:
			out[i] = strconv.FormatFloat(t, 'g', -1, 64)
		case float32:
			out[i] = strconv.FormatFloat(float64(t), 'g', -1, 32)
		case bool:
			out[i] = strconv.FormatBool(t)
		case time.Time:
			out[i] = t.Format(time.RFC3339)
		case interface{ Float64Value() (pgtype.Float8, error) }:
			// NUMERIC columns
			if f, err := t.Float64Value(); err == nil && f.Valid {
				out[i] = strconv.FormatFloat(f.Float64, 'g', -1, 64)
			}
		default:
			out[i] = fmt.Sprint(t)
		}
	}
	return out
}
