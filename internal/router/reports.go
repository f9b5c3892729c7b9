package router

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/vm-bench/internal/apperr"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/merge"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/vm-bench/pkg/stringsutil"
	"github.com/labstack/echo/v4"
)

const csvExt = ".csv"

// ReportsRouter serves the report CSVs of one results directory.
type ReportsRouter struct {
	e   *echo.Echo
	dir string
}

func NewReportsRouter(e *echo.Echo, dir string) *ReportsRouter {
	return &ReportsRouter{
		e:   e,
		dir: dir,
	}
}

func (r *ReportsRouter) Bind() {
	r.e.GET("/reports", r.listHandler)
	r.e.GET("/reports/:name", r.getHandler)
	r.e.GET("/merge", r.mergeHandler)
}

type reportList struct {
	Reports []string `json:"reports"`
}

func (r *ReportsRouter) listHandler(c echo.Context) error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.JSON(http.StatusOK, reportList{Reports: []string{}})
		}
		return err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), csvExt) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return c.JSON(http.StatusOK, reportList{Reports: names})
}

func (r *ReportsRouter) getHandler(c echo.Context) error {
	path, err := r.resolve(c.Param("name"))
	if err != nil {
		return err
	}
	t, err := readReport(path)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (r *ReportsRouter) mergeHandler(c echo.Context) error {
	files := stringsutil.SplitTrim(c.QueryParam("files"), ",")
	if len(files) == 0 {
		return apperr.NewValidation("files parameter is required")
	}
	columns, err := merge.ParseColumns(c.QueryParam("columns"))
	if err != nil {
		return err
	}
	opts := merge.Options{}
	if p := c.QueryParam("positional"); p != "" {
		opts.Positional, err = strconv.ParseBool(p)
		if err != nil {
			return apperr.NewValidationWrap("invalid positional parameter", err)
		}
	}

	sources := make([]merge.Source, 0, len(files))
	for _, name := range files {
		path, err := r.resolve(name)
		if err != nil {
			return err
		}
		t, err := readReport(path)
		if err != nil {
			return err
		}
		sources = append(sources, merge.NewSource(path, t))
	}

	merged, err := merge.Merge(columns, sources, opts)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(merged.String()))
}

// resolve maps a report name to a file inside the results directory. Only plain base names are
// accepted; the .csv extension is optional.
func (r *ReportsRouter) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", apperr.NewValidation("invalid report name " + strconv.Quote(name))
	}
	if !strings.HasSuffix(name, csvExt) {
		name += csvExt
	}
	return filepath.Join(r.dir, name), nil
}

func readReport(path string) (*report.RawTable, error) {
	t, err := report.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "report "+filepath.Base(path)+" not found")
	}
	return t, err
}
