package histogram

import (
	"fmt"
	"strings"

	hdr "github.com/HdrHistogram/hdrhistogram-go"
)

const sparks = " ▁▂▃▄▅▆▇█"

// HDR2ASCII renders h as a one line summary followed by a sparkline of nBuckets equal width
// buckets between minVal and maxVal.
func HDR2ASCII(h *hdr.Histogram, nBuckets int, minVal, maxVal int64) string {

	if h == nil || h.TotalCount() == 0 {
		return "n=0"
	}
	if nBuckets < 1 || maxVal <= minVal {
		nBuckets = 1
		maxVal = minVal + 1
	}
	counts := make([]int64, nBuckets)
	width := float64(maxVal-minVal) / float64(nBuckets)

	for _, bar := range h.Distribution() {
		if bar.Count == 0 {
			continue
		}
		i := int(float64(bar.From-minVal) / width)
		if i < 0 {
			i = 0
		}
		if i >= nBuckets {
			i = nBuckets - 1
		}
		counts[i] += bar.Count
	}
	var max int64
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	runes := []rune(sparks)
	var b strings.Builder
	for _, c := range counts {
		idx := 0
		if c > 0 {
			idx = 1 + int(float64(c)/float64(max)*float64(len(runes)-2))
		}
		b.WriteRune(runes[idx])
	}

	return fmt.Sprintf("n=% 9d, mean=% 8d, stddev=% 8d, 50%%ile=% 8d, 99%%ile=% 8d |%s|",
		h.TotalCount(),
		int64(h.Mean()),
		int64(h.StdDev()),
		h.ValueAtQuantile(50),
		h.ValueAtQuantile(99),
		b.String())
}
