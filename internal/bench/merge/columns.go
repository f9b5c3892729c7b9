package merge

import (
	"fmt"
	"strconv"

	"github.com/DjordjeVuckovic/vm-bench/internal/apperr"
	"github.com/DjordjeVuckovic/vm-bench/pkg/stringsutil"
)

// ParseColumns reads a comma separated list of zero-based column indices, e.g. "1,3".
func ParseColumns(s string) ([]int, error) {
	parts := stringsutil.SplitTrim(s, ",")
	if len(parts) == 0 {
		return nil, apperr.NewValidation("at least one column is required")
	}
	columns := make([]int, 0, len(parts))
	for _, p := range parts {
		c, err := strconv.Atoi(p)
		if err != nil {
			return nil, apperr.NewValidationWrap(fmt.Sprintf("invalid column %q", p), err)
		}
		if c < 0 {
			return nil, apperr.NewValidation(fmt.Sprintf("column %d must not be negative", c))
		}
		columns = append(columns, c)
	}
	return columns, nil
}
