// # internal/ui/report/formats/tsv.go
package formats

import (
	"fmt"
	"strings"

	"wake/internal/engine/report"
)

// GenerateTSV renders one row per unused symbol and one per import path.
func GenerateTSV(r *report.Result) string {
	var buf strings.Builder

	buf.WriteString("Type\tKind\tName\tFile\tLine\n")
	for _, p := range r.ImportPaths() {
		buf.WriteString(fmt.Sprintf("import_path\t\t\t%s\t0\n", p))
	}
	for _, occ := range r.Unused() {
		buf.WriteString(fmt.Sprintf("unused\t%s\t%s\t%s\t%d\n",
			occ.Kind,
			occ.Name,
			occ.File,
			occ.Line,
		))
	}

	return buf.String()
}
