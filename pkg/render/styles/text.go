package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// FormatPrice formats v with the currency prefix and exactly two decimals.
func FormatPrice(currency string, v float64) string {
	return fmt.Sprintf("%s %.2f", currency, v)
}
