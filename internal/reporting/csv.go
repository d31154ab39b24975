package reporting

import (
	"fmt"
	"strings"

	"skillion-sdi/internal/domain"
)

// RenderCSV renders the score breakdown as CSV string.
func RenderCSV(breakdown []domain.DimensionScore) string {
	var sb strings.Builder

	// Header
	sb.WriteString("key,name,weight,raw,normalized,contribution\n")

	// Rows
	for _, d := range breakdown {
		sb.WriteString(fmt.Sprintf("%s,%s,%.2f,%.6f,%.6f,%d\n",
			d.Key,
			d.Name,
			d.Weight,
			d.Raw,
			d.Normalized,
			d.Contribution,
		))
	}

	return sb.String()
}
