package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Operation   string // Benchmark name with the Benchmark prefix stripped
	Case        string // Sub-benchmark path, "" for flat benchmarks
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	// Read benchmark output
	var scanner *bufio.Scanner
	var inputF *os.File
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		inputF = f
		scanner = bufio.NewScanner(f)
	} else {
		scanner = bufio.NewScanner(os.Stdin)
	}

	// Parse benchmarks
	results := parseBenchmarks(scanner)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	// Generate markdown report
	report := generateMarkdownReport(results)

	// Write output
	if *outputFile != "" {
		err := os.WriteFile(*outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			if inputF != nil {
				inputF.Close()
			}
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}

	// Close input file if opened
	if inputF != nil {
		inputF.Close()
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	// Regex to parse benchmark output lines
	// BenchmarkAllocWalk/chain-128-8    10000    12450 ns/op    4096 B/op    8 allocs/op
	benchmarkRegex := regexp.MustCompile(
		`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+(?:B|MB)/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
	)

	for scanner.Scan() {
		line := scanner.Text()

		// Try to parse as JSON (from -json flag)
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		// Parse benchmark line
		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.Atoi(matches[2])
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)

		var bytesPerOp int64
		var allocsPerOp int64

		if matches[4] != "" {
			bytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			allocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}

		operation, subCase := splitBenchmarkName(name)

		results = append(results, BenchmarkResult{
			Name:        name,
			Operation:   operation,
			Case:        subCase,
			Iterations:  iterations,
			NsPerOp:     nsPerOp,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}

	return results
}

// splitBenchmarkName separates a benchmark line name into the top-level
// operation and the sub-benchmark case.
// Format: Benchmark<Operation>[/<case>...]-<procs>
func splitBenchmarkName(name string) (string, string) {
	parts := strings.Split(name, "/")

	// The -N GOMAXPROCS suffix attaches to the last path element.
	last := parts[len(parts)-1]
	if dashIdx := strings.LastIndex(last, "-"); dashIdx > 0 {
		if _, err := strconv.Atoi(last[dashIdx+1:]); err == nil {
			parts[len(parts)-1] = last[:dashIdx]
		}
	}

	operation := strings.TrimPrefix(parts[0], "Benchmark")
	subCase := strings.Join(parts[1:], "/")

	return operation, subCase
}

func generateMarkdownReport(results []BenchmarkResult) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	// Summary statistics
	operations := make(map[string][]BenchmarkResult)
	for _, result := range results {
		operations[result.Operation] = append(operations[result.Operation], result)
	}

	opNames := make([]string, 0, len(operations))
	for op := range operations {
		opNames = append(opNames, op)
	}
	sort.Strings(opNames)

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total benchmarks**: %d\n", len(results)))
	sb.WriteString(fmt.Sprintf("- **Operations**: %d\n", len(opNames)))
	sb.WriteString("\n")

	// Detailed results table, one section per operation. Sub-cases are
	// compared against the fastest case of their operation so scaling
	// behavior (for example across chain lengths) is visible at a glance.
	sb.WriteString("## Detailed Results\n\n")

	for _, op := range opNames {
		group := operations[op]

		sort.Slice(group, func(i, j int) bool {
			return group[i].NsPerOp < group[j].NsPerOp
		})
		fastest := group[0].NsPerOp

		sb.WriteString(fmt.Sprintf("### %s\n\n", op))
		sb.WriteString("| Case | Iterations | ns/op | Memory (B/op) | Allocs | vs fastest |\n")
		sb.WriteString("|------|------------|-------|---------------|--------|------------|\n")

		for _, result := range group {
			caseName := result.Case
			if caseName == "" {
				caseName = "*flat*"
			}

			relative := "baseline"
			if fastest > 0 && result.NsPerOp > fastest {
				relative = fmt.Sprintf("%.2fx slower", result.NsPerOp/fastest)
			}

			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s |\n",
				caseName,
				result.Iterations,
				formatNumber(result.NsPerOp),
				formatBytes(result.BytesPerOp),
				formatNumber(float64(result.AllocsPerOp)),
				relative,
			))
		}

		sb.WriteString("\n")
	}

	// Category summaries
	sb.WriteString("## Performance by Category\n\n")

	categories := categorizeOperations(results)
	catNames := make([]string, 0, len(categories))
	for category := range categories {
		catNames = append(catNames, category)
	}
	sort.Strings(catNames)

	for _, category := range catNames {
		group := categories[category]
		if len(group) == 0 {
			continue
		}

		total := 0.0
		for _, result := range group {
			total += result.NsPerOp
		}

		sb.WriteString(fmt.Sprintf("- **%s**: %d benchmarks, %s ns/op average\n",
			category, len(group), formatNumber(total/float64(len(group)))))
	}

	sb.WriteString("\n")

	// Notes
	sb.WriteString("## Notes\n\n")
	sb.WriteString("- **ns/op**: Nanoseconds per operation, lower is better\n")
	sb.WriteString("- **Memory/Allocs**: Per-operation heap cost, zero for in-place pool work\n")
	sb.WriteString("- **vs fastest**: Slowdown relative to the fastest case of the same operation\n")

	return sb.String()
}

func categorizeOperations(results []BenchmarkResult) map[string][]BenchmarkResult {
	categories := map[string][]BenchmarkResult{}

	for _, result := range results {
		op := strings.ToLower(result.Operation)

		var category string
		switch {
		case strings.Contains(op, "alloc") || strings.Contains(op, "free"):
			category = "Allocation"
		case strings.Contains(op, "walk") || strings.Contains(op, "chain"):
			category = "Chain Traversal"
		case strings.Contains(op, "snapshot") || strings.Contains(op, "segment") ||
			strings.Contains(op, "verify") || strings.Contains(op, "stats"):
			category = "Diagnostics"
		case strings.Contains(op, "flush") || strings.Contains(op, "open") ||
			strings.Contains(op, "create"):
			category = "Persistence"
		default:
			category = "Other"
		}

		categories[category] = append(categories[category], result)
	}

	return categories
}

func formatNumber(n float64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.2fM", n/1000000)
	} else if n >= 1000 {
		return fmt.Sprintf("%.1fK", n/1000)
	}
	return fmt.Sprintf("%.0f", n)
}

func formatBytes(b int64) string {
	if b >= 1024*1024 {
		return fmt.Sprintf("%.2fMB", float64(b)/(1024*1024))
	} else if b >= 1024 {
		return fmt.Sprintf("%.1fKB", float64(b)/1024)
	}
	return fmt.Sprintf("%dB", b)
}
