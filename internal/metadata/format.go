package metadata

import (
	"math"
	"strconv"
)

// sizeUnits caps at MB; uploads larger than that are rejected well before
// formatting.
var sizeUnits = []string{"Bytes", "KB", "MB"}

// FormatSize renders a byte count as a human-readable string using
// log-1024 unit selection, e.g. 1536 -> "1.5 KB".
func FormatSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := math.Round(float64(n)/math.Pow(1024, float64(i))*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
