package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ToHumanReadable renders expr fully parenthesized, for example
// "(2.50CHF + (1.5 * 7.00CHF))" or "10.00CHF.Distribute(1, 2)[0]".
func ToHumanReadable(expr Expression) string {
	switch node := expr.(type) {
	case Money:
		if node.Currency.IsZero() {
			return node.Amount.String()
		}
		return node.Amount.StringFixed(int32(node.Currency.MinorUnitDigits)) + node.Currency.Code
	case Sum:
		return fmt.Sprintf("(%s + %s)", ToHumanReadable(node.Left), ToHumanReadable(node.Right))
	case Product:
		return fmt.Sprintf("(%s * %s)", node.Factor, ToHumanReadable(node.Expression))
	case DistributionPart:
		if node.Distribution == nil {
			return fmt.Sprintf("<nil>[%d]", node.Index)
		}
		return fmt.Sprintf("%s.Distribute(%s)[%d]",
			ToHumanReadable(node.Distribution.Expression), formatFactors(node.Distribution.Factors), node.Index)
	default:
		return fmt.Sprintf("<%T>", expr)
	}
}

func formatFactors(factors []int) string {
	parts := make([]string, len(factors))
	for i, f := range factors {
		parts[i] = strconv.Itoa(f)
	}
	return strings.Join(parts, ", ")
}
