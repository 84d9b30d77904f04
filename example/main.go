// Command example builds a VAST-shaped document, gzips it to a fixture
// file next to this source (generating one on first run), then times
// repeated parse cycles the way the teacher's perf_test harness timed
// repeated streaming runs: warmup, CPU profile, N measured iterations,
// heap profile, min/avg/median/max report.
package main

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"sort"
	"strconv"
	"time"

	"github.com/nrgburner/xmldom"
	"github.com/wilkmaciej/xpath"
)

const (
	numIterations = 5
	numCreatives  = 2000
)

func main() {
	log.Println("Starting XML DOM Processor Test")

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		log.Fatalf("Failed to get source file path")
	}
	baseDir := filepath.Dir(filename)
	fixturePath := filepath.Join(baseDir, "vast.xml.gz")

	if err := ensureFixture(fixturePath); err != nil {
		log.Fatalf("Failed to build fixture: %v", err)
	}

	input, err := readFixture(fixturePath)
	if err != nil {
		log.Fatalf("Failed to read fixture: %v", err)
	}

	exprAdTitle, err := xpath.Compile("InLine/AdTitle")
	if err != nil {
		log.Fatalf("Failed to compile XPath expression: %v", err)
	}

	doc := xmldom.NewDocument(1000)

	log.Println("Warmup run...")
	runIteration(doc, input, exprAdTitle)
	runtime.GC()

	cpuProfileFile, err := os.Create(filepath.Join(baseDir, "cpu.profile"))
	if err != nil {
		log.Fatalf("Failed to create CPU profile: %v", err)
	}
	defer func() { _ = cpuProfileFile.Close() }()
	_ = pprof.StartCPUProfile(cpuProfileFile)
	defer pprof.StopCPUProfile()

	durations := make([]time.Duration, numIterations)
	var totalCount int
	chunksAfterWarmup := doc.ArenaChunks()

	for i := 0; i < numIterations; i++ {
		runtime.GC()
		elapsed, count := runIteration(doc, input, exprAdTitle)
		durations[i] = elapsed
		totalCount = count
		log.Printf("Run %d: %s (%.2f items/sec)", i+1, elapsed, float64(count)/elapsed.Seconds())
	}

	if got := doc.ArenaChunks(); got != chunksAfterWarmup {
		log.Printf("warning: arena grew from %d to %d chunks across measured reparses", chunksAfterWarmup, got)
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	avg := total / time.Duration(numIterations)
	median := durations[numIterations/2]
	min := durations[0]
	max := durations[numIterations-1]

	memProfileFile, err := os.Create(filepath.Join(baseDir, "mem.profile"))
	if err != nil {
		log.Fatalf("Failed to create memory profile: %v", err)
	}
	runtime.GC()
	_ = pprof.WriteHeapProfile(memProfileFile)
	_ = memProfileFile.Close()

	fmt.Println("\n=== Results ===")
	fmt.Printf("Creatives processed: %d\n", totalCount)
	fmt.Printf("Iterations: %d\n", numIterations)
	fmt.Printf("Min:    %s (%.2f items/sec)\n", min, float64(totalCount)/min.Seconds())
	fmt.Printf("Max:    %s (%.2f items/sec)\n", max, float64(totalCount)/max.Seconds())
	fmt.Printf("Avg:    %s (%.2f items/sec)\n", avg, float64(totalCount)/avg.Seconds())
	fmt.Printf("Median: %s (%.2f items/sec)\n", median, float64(totalCount)/median.Seconds())
	log.Println("XML DOM Processor Test Completed")
}

// runIteration resets and reparses input, then walks every Creative via
// the Path query engine and evaluates an XPath expression per InLine —
// exercising both query surfaces this module ships.
func runIteration(doc *xmldom.Document, input []byte, expr *xpath.Expr) (time.Duration, int) {
	start := time.Now()

	if err := doc.Parse(input); err != nil {
		log.Fatalf("Parse failed: %v", err)
	}

	creatives := doc.Query().Descendant("Creative")
	count := creatives.Count()

	inlines := doc.Query().Descendant("InLine")
	for _, n := range inlines.Nodes() {
		_ = xmldom.EvaluateString(n.Evaluate(expr))
	}

	return time.Since(start), count
}

func ensureFixture(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	doc := xmldom.NewDocument(1000)
	doc.Header()
	root := doc.Tree().Element("", "VAST").Attribute("", "version", "3.0")
	for i := 0; i < numCreatives; i++ {
		inline := root.Element("", "InLine")
		inline.Element("", "AdTitle", "VAST 3.0 Instream Test "+strconv.Itoa(i))
		creatives := inline.Element("", "Creatives")
		creatives.Element("", "Creative").
			Attribute("", "id", strconv.Itoa(100000+i)).
			Attribute("", "adId", strconv.Itoa(900000+i))
	}

	var buf bytes.Buffer
	if err := xmldom.Print(&buf, doc.Tree()); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	gz := gzip.NewWriter(f)
	defer func() { _ = gz.Close() }()
	_, err = gz.Write(buf.Bytes())
	return err
}

func readFixture(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer func() { _ = gz.Close() }()

	r := bufio.NewReaderSize(gz, 64*1024*1024)
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
