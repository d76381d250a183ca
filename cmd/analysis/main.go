// Command analysis samples many transcript vectors from fresh keys and
// renders coefficient and norm distributions to an HTML report, plus a
// machine-readable stats JSON. It is the quickest way to eyeball that
// the sampler tracks its target Gaussian after a change.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"Falcon-Signature/falcon"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"
	"github.com/tuneinsight/lattigo/v4/utils"
)

type summaryStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Median float64 `json:"median"`
	IQR    float64 `json:"iqr"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func computeStats(x []float64) summaryStats {
	if len(x) == 0 {
		return summaryStats{}
	}
	mean, _ := stats.Mean(x)
	std, _ := stats.StandardDeviation(x)
	median, _ := stats.Median(x)
	q, _ := stats.Quartile(x)
	mn, _ := stats.Min(x)
	mx, _ := stats.Max(x)
	return summaryStats{
		Count:  len(x),
		Mean:   mean,
		Std:    std,
		Median: median,
		IQR:    q.Q3 - q.Q1,
		Min:    mn,
		Max:    mx,
	}
}

// freedmanDiaconisBins picks a histogram bin count from the IQR; falls
// back to Sturges when the spread degenerates.
func freedmanDiaconisBins(x []float64) int {
	n := len(x)
	if n < 2 {
		return 1
	}
	st := computeStats(x)
	width := 2 * st.IQR / math.Cbrt(float64(n))
	if width <= 0 {
		return int(math.Ceil(math.Log2(float64(n)))) + 1
	}
	bins := int(math.Ceil((st.Max - st.Min) / width))
	if bins < 1 {
		bins = 1
	}
	if bins > 512 {
		bins = 512
	}
	return bins
}

func computeHistogram(values []float64, nbins int) (edges []float64, counts []int) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		hi = lo + 1
	}
	edges = make([]float64, nbins+1)
	step := (hi - lo) / float64(nbins)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	counts = make([]int, nbins)
	for _, v := range values {
		idx := int((v - lo) / step)
		if idx >= nbins {
			idx = nbins - 1
		}
		counts[idx]++
	}
	return edges, counts
}

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newHistogramChart(title string, values []float64, st summaryStats) *charts.Bar {
	nbins := freedmanDiaconisBins(values)
	edges, counts := computeHistogram(values, nbins)
	xLabels := make([]string, nbins)
	for i := 0; i < nbins; i++ {
		center := 0.5 * (edges[i] + edges[i+1])
		xLabels[i] = fmt.Sprintf("%.2f", center)
	}
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("n=%d, mean=%.3f, std=%.3f, median=%.3f, IQR=%.3f", st.Count, st.Mean, st.Std, st.Median, st.IQR)
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func appendInt64(vals []float64, xs []int64) []float64 {
	for _, x := range xs {
		vals = append(vals, float64(x))
	}
	return vals
}

// uniformPoint draws a uniform target in Z_q^n with the same 16-bit
// rejection the message hash uses.
func uniformPoint(rng utils.PRNG, n int) []int64 {
	out := make([]int64, n)
	var b [2]byte
	for i := 0; i < n; {
		if _, err := io.ReadFull(rng, b[:]); err != nil {
			log.Fatalf("prng: %v", err)
		}
		t := uint32(b[0])<<8 | uint32(b[1])
		if t < 5*falcon.Q {
			out[i] = int64(t % falcon.Q)
			i++
		}
	}
	return out
}

func main() {
	runs := flag.Int("runs", 8, "number of key pairs")
	sigs := flag.Int("sigs", 16, "preimages sampled per key")
	logn := flag.Int("logn", 6, "ring degree exponent (4..10)")
	outDir := flag.String("out", "analysis_reports", "output directory for reports")
	seedHex := flag.String("seed", "", "hex seed; empty uses system entropy")
	flag.Parse()

	var rng utils.PRNG
	var err error
	if *seedHex == "" {
		rng, err = utils.NewPRNG()
	} else {
		var seed []byte
		if seed, err = hex.DecodeString(*seedHex); err != nil {
			log.Fatalf("invalid seed: %v", err)
		}
		rng, err = utils.NewKeyedPRNG(seed)
	}
	if err != nil {
		log.Fatalf("prng: %v", err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	p, err := falcon.NewParams(*logn)
	if err != nil {
		log.Fatal(err)
	}

	var allF, allG, allFbig, allGbig, allH []float64
	var allS0, allS1, norms []float64

	start := time.Now()
	for run := 0; run < *runs; run++ {
		sk, pk, err := falcon.Keygen(*logn, rng)
		if err != nil {
			log.Fatalf("keygen run %d: %v", run, err)
		}
		f, g, bigF, bigG := sk.Basis()
		allF = appendInt64(allF, f)
		allG = appendInt64(allG, g)
		allFbig = appendInt64(allFbig, bigF)
		allGbig = appendInt64(allGbig, bigG)
		allH = appendInt64(allH, pk.H)

		for i := 0; i < *sigs; i++ {
			point := uniformPoint(rng, p.N)
			s0, s1, err := sk.SamplePreimage(point, rng)
			if err != nil {
				log.Fatalf("sample run %d sig %d: %v", run, i, err)
			}
			allS0 = appendInt64(allS0, s0)
			allS1 = appendInt64(allS1, s1)
			var norm float64
			for j := range s0 {
				norm += float64(s0[j]*s0[j] + s1[j]*s1[j])
			}
			norms = append(norms, norm)
		}
	}
	fmt.Printf("sampled %d keys x %d preimages at logn=%d in %s\n",
		*runs, *sigs, *logn, time.Since(start).Round(time.Millisecond))

	outStats := map[string]summaryStats{
		"f":         computeStats(allF),
		"g":         computeStats(allG),
		"F":         computeStats(allFbig),
		"G":         computeStats(allGbig),
		"h":         computeStats(allH),
		"s0":        computeStats(allS0),
		"s1":        computeStats(allS1),
		"norm_sq":   computeStats(norms),
		"sig_bound": {Count: 1, Mean: float64(p.SigBound)},
	}

	ts := time.Now().Format("20060102_150405")
	jsonPath := filepath.Join(*outDir, fmt.Sprintf("coeff_stats_%s.json", ts))
	if err := saveJSON(jsonPath, outStats); err != nil {
		log.Printf("warn: save stats: %v", err)
	}

	page := components.NewPage()
	add := func(name string, vals []float64) {
		if len(vals) == 0 {
			return
		}
		page.AddCharts(newHistogramChart(name, vals, computeStats(vals)))
	}
	add("f (private small)", allF)
	add("g (private small)", allG)
	add("F (private completion)", allFbig)
	add("G (private completion)", allGbig)
	add("h (public)", allH)
	add("s0 (preimage)", allS0)
	add("s1 (preimage)", allS1)
	add("squared norm", norms)

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("coeff_histograms_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render html: %v", err)
	}
	fmt.Println("Histogram page:", htmlPath)
	fmt.Println("Stats JSON:", jsonPath)
}
