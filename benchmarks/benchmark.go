package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"litequery/internal/dbgen"
	"litequery/pkg/database"
)

// BenchmarkResult captures the metrics of one benchmark test: timing
// statistics, throughput, and success/error counts.
type BenchmarkResult struct {
	QueryType         string        `json:"query_type"`         // Descriptive name of the benchmark test
	Query             string        `json:"query"`              // The SQL query being benchmarked
	Iterations        int           `json:"iterations"`         // Number of times the query was executed
	TotalDuration     time.Duration `json:"total_duration_ns"`  // Time taken for all iterations
	AvgDuration       time.Duration `json:"avg_duration_ns"`    // Average time per query
	MinDuration       time.Duration `json:"min_duration_ns"`    // Fastest execution
	MaxDuration       time.Duration `json:"max_duration_ns"`    // Slowest execution
	MedianDuration    time.Duration `json:"median_duration_ns"` // Median execution time
	P95Duration       time.Duration `json:"p95_duration_ns"`    // 95th percentile
	P99Duration       time.Duration `json:"p99_duration_ns"`    // 99th percentile
	QueriesPerSecond  float64       `json:"queries_per_second"` // Throughput
	ConcurrentQueries int           `json:"concurrent_queries"` // Number of concurrent goroutines
	SuccessCount      int           `json:"success_count"`      // Successful executions
	ErrorCount        int           `json:"error_count"`        // Failed executions
	ErrorSamples      []string      `json:"error_samples"`      // Sample error messages
	Timestamp         time.Time     `json:"timestamp"`          // When this benchmark ran
}

// BenchmarkReport aggregates every test of one suite run.
type BenchmarkReport struct {
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	TotalDuration time.Duration     `json:"total_duration"`
	Results       []BenchmarkResult `json:"results"`
	DatabasePath  string            `json:"database_path"`
	Rows          int               `json:"rows"`
}

const fixtureRows = 1000

// main runs the read-path benchmark suite: every access path the planner can
// choose (sequential scan, rowid seek, index seek, filtered scan, fast
// count), each sequentially and then concurrently, against a generated
// database. Results go to the console and a JSON report.
//
// Environment variables:
//   - BENCHMARK_OUTPUT: Directory for reports and the fixture (default: ./benchmark-results)
//   - BENCHMARK_ITERATIONS: Iterations per benchmark (default: 1000)
//   - BENCHMARK_CONCURRENT_QUERIES: Concurrent queries (default: 10)
//   - BENCHMARK_DB: Existing database file to benchmark instead of the fixture
func main() {
	outputDir := filepath.Clean(os.Getenv("BENCHMARK_OUTPUT"))
	if outputDir == "." {
		outputDir = "./benchmark-results"
	}

	iterations := 1000
	if iter := os.Getenv("BENCHMARK_ITERATIONS"); iter != "" {
		_, _ = fmt.Sscanf(iter, "%d", &iterations)
	}

	concurrentQueries := 10
	if conc := os.Getenv("BENCHMARK_CONCURRENT_QUERIES"); conc != "" {
		_, _ = fmt.Sscanf(conc, "%d", &concurrentQueries)
	}

	_ = os.MkdirAll(outputDir, 0o750) // #nosec G703

	dbPath := os.Getenv("BENCHMARK_DB")
	if dbPath == "" {
		dbPath = filepath.Join(outputDir, "benchmark.db")
		log.Printf("Generating fixture database: %s", dbPath) // #nosec G706
		if err := buildFixtureDatabase(dbPath); err != nil {
			log.Fatalf("Failed to generate fixture: %v", err)
		}
	}

	log.Printf("Starting benchmark suite...")
	log.Printf("Database: %s", dbPath) // #nosec G706
	log.Printf("Iterations: %d, Concurrent Queries: %d", iterations, concurrentQueries)

	db, err := database.Open(dbPath, database.Options{})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	report := BenchmarkReport{
		StartTime:    time.Now(),
		DatabasePath: dbPath,
		Rows:         fixtureRows,
		Results:      []BenchmarkResult{},
	}

	benchmarks := []struct {
		name  string
		query string
	}{
		// Seeks first: they touch the fewest pages and fail fastest.
		{"Rowid seek", "SELECT name FROM users WHERE id = 500"},
		{"Index seek", "SELECT id FROM users WHERE email = 'user500@example.com'"},
		{"Fast COUNT", "SELECT COUNT(*) FROM users"},
		{"Filtered scan", "SELECT name FROM users WHERE age = 37"},
		{"Full scan", "SELECT * FROM users"},
	}

	for _, bench := range benchmarks {
		log.Printf("%s", "\n"+strings.Repeat("=", 80))
		log.Printf("TEST: %s", bench.name)
		log.Printf("Query: %s", bench.query)
		log.Printf("")

		log.Printf("→ Running sequential test (%d iterations)...", iterations)
		seqResult := runBenchmark(db, bench.name, bench.query, iterations, 1)
		report.Results = append(report.Results, seqResult)
		printBenchmarkResult(seqResult)

		// Every path is read-only, so all of them get a concurrent run.
		log.Printf("")
		log.Printf("→ Running concurrent test (%d parallel queries, %d iterations)...", concurrentQueries, iterations)
		concResult := runBenchmark(db, bench.name+" (Concurrent)", bench.query, iterations, concurrentQueries)
		report.Results = append(report.Results, concResult)
		printBenchmarkResult(concResult)
	}

	report.EndTime = time.Now()
	report.TotalDuration = report.EndTime.Sub(report.StartTime)

	timestamp := time.Now().Format("20060102_150405")
	jsonFile := fmt.Sprintf("%s/benchmark_report_%s.json", outputDir, timestamp)

	log.Printf("%s", "\n"+strings.Repeat("=", 80))
	log.Printf("BENCHMARK SUITE COMPLETE")
	log.Printf("  Total Duration: %s", formatDuration(report.TotalDuration))
	log.Printf("  Tests Run:      %d", len(report.Results))

	saveJSONReport(report, jsonFile)
}

// buildFixtureDatabase writes a deterministic users table with an index on
// email. The row count puts interior levels in both trees, so the seek
// benchmarks descend real multi-level paths.
func buildFixtureDatabase(path string) error {
	b := dbgen.New(4096)
	users := b.Table("users",
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER, email TEXT)")
	for i := 1; i <= fixtureRows; i++ {
		users.Row(int64(i), nil,
			fmt.Sprintf("User%d", i), int64(20+i%50), fmt.Sprintf("user%d@example.com", i))
	}
	b.Index("idx_users_email", "users",
		"CREATE INDEX idx_users_email ON users (email)", 3)

	data, err := b.Build()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// runBenchmark executes one query for the given number of iterations with a
// semaphore capping concurrency, and folds the collected timings into a
// BenchmarkResult. Durations are gathered under a mutex; the database itself
// is safe for concurrent readers.
func runBenchmark(db *database.Database, queryType, query string, iterations, concurrent int) BenchmarkResult {
	durations := make([]time.Duration, 0, iterations)
	var mu sync.Mutex
	var wg sync.WaitGroup

	successCount := 0
	errorCount := 0
	errorSamples := make([]string, 0, 5)
	startTime := time.Now()

	sem := make(chan struct{}, concurrent)

	for i := 0; i < iterations; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			queryStart := time.Now()
			_, err := db.ExecuteQuery(query)
			duration := time.Since(queryStart)

			mu.Lock()
			durations = append(durations, duration)
			if err != nil {
				errorCount++
				if len(errorSamples) < 5 {
					errorSamples = append(errorSamples, err.Error())
				}
			} else {
				successCount++
			}
			mu.Unlock()
		}()
	}

	wg.Wait()
	totalDuration := time.Since(startTime)

	slices.Sort(durations)

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return BenchmarkResult{
		QueryType:         queryType,
		Query:             query,
		Iterations:        iterations,
		TotalDuration:     totalDuration,
		AvgDuration:       sum / time.Duration(len(durations)),
		MinDuration:       durations[0],
		MaxDuration:       durations[len(durations)-1],
		MedianDuration:    durations[len(durations)/2],
		P95Duration:       durations[int(float64(len(durations))*0.95)],
		P99Duration:       durations[int(float64(len(durations))*0.99)],
		QueriesPerSecond:  float64(iterations) / totalDuration.Seconds(),
		ConcurrentQueries: concurrent,
		SuccessCount:      successCount,
		ErrorCount:        errorCount,
		ErrorSamples:      errorSamples,
		Timestamp:         time.Now(),
	}
}

// formatDuration formats a duration in a human-readable way with appropriate
// units. Examples: 1.23ms, 456.78µs, 12.34s
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.2fµs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}

// printBenchmarkResult outputs one result's statistics to the console.
func printBenchmarkResult(result BenchmarkResult) {
	successRate := float64(result.SuccessCount) / float64(result.Iterations) * 100

	log.Printf("  ┌─ Results")
	log.Printf("  │  Total Time:     %s", formatDuration(result.TotalDuration))                                        // #nosec G706
	log.Printf("  │  Avg per Query:  %s", formatDuration(result.AvgDuration))                                          // #nosec G706
	log.Printf("  │  Min / Max:      %s / %s", formatDuration(result.MinDuration), formatDuration(result.MaxDuration)) // #nosec G706
	log.Printf("  │  Median (P50):   %s", formatDuration(result.MedianDuration))                                       // #nosec G706
	log.Printf("  │  P95 / P99:      %s / %s", formatDuration(result.P95Duration), formatDuration(result.P99Duration)) // #nosec G706
	log.Printf("  │  Throughput:     %.0f queries/sec", result.QueriesPerSecond)                                       // #nosec G706
	log.Printf("  │  Success Rate:   %.1f%% (%d/%d)", successRate, result.SuccessCount, result.Iterations)             // #nosec G706

	if result.ErrorCount > 0 {
		log.Printf("  │  ⚠ Errors:       %d failures", result.ErrorCount) // #nosec G706
		for _, errMsg := range result.ErrorSamples {
			safe := strings.NewReplacer("\n", " ", "\r", " ").Replace(errMsg)
			log.Printf("  │     %s", safe) // #nosec G706
		}
	}

	log.Printf("  └─")
}

// saveJSONReport serializes the benchmark report to a JSON file.
func saveJSONReport(report BenchmarkReport, filename string) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Printf("Error marshaling report: %v", err)
		return
	}

	if err := os.WriteFile(filename, data, 0o600); err != nil { // #nosec G703
		log.Printf("Error writing JSON report: %v", err)
		return
	}

	log.Printf("JSON report saved: %s", filename) // #nosec G706
}
