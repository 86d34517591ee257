// Package batch parses many sentences in parallel while keeping the output
// aligned with the input: one result per input line, in input order, empty
// when the sentence failed.
package batch

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/ling0322/pcfg"
	"github.com/pkg/errors"
)

// Func turns one input line into one output line
type Func func(line string) (string, error)

// Result is the outcome of the line at Index
type Result struct {
	Index int
	Input string
	Line  string
	Err   error
}

// Options configures Run
type Options struct {
	// Workers is the size of the pool, <= 0 means one worker per CPU
	Workers int

	Logger *log.Logger
}

type job struct {
	index int
	line  string
}

// Run applies fn to every line with a pool of workers. Results are returned
// in input order whatever the completion order. A failing or panicking line
// yields a Result with Err set and does not stop the batch. When ctx is done
// no more lines are dispatched, and the lines left out carry ctx.Err()
func Run(ctx context.Context, lines []string, fn Func, opts Options) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	jobs := make(chan job, workers)
	results := make(chan Result, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- process(j, fn, logger)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, line := range lines {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{index: i, line: line}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	buffer := make([]Result, len(lines))
	received := make([]bool, len(lines))
	count := 0
	for r := range results {
		buffer[r.Index] = r
		received[r.Index] = true
		count++
	}

	if count == len(lines) {
		return buffer, nil
	}
	err := ctx.Err()
	if err == nil {
		err = errors.New("batch.Run: missing results")
	}
	for i, ok := range received {
		if !ok {
			buffer[i] = Result{Index: i, Input: lines[i], Err: err}
		}
	}
	return buffer, err
}

// process runs fn on a single line, failures are logged and kept in Err
func process(j job, fn Func, logger *log.Logger) (r Result) {
	r = Result{Index: j.index, Input: j.line}
	defer func() {
		if p := recover(); p != nil {
			r.Line = ""
			r.Err = errors.Errorf("panic: %v", p)
			logger.Printf("Error with sentence: %s\n%v", j.line, r.Err)
		}
	}()

	line, err := fn(j.line)
	if err != nil {
		r.Err = err
		if pcfg.IsNotInGrammar(err) {
			logger.Printf("Sentence could not be produced with grammar: %s", j.line)
		} else {
			logger.Printf("Error with sentence: %s\n%v", j.line, err)
		}
		return r
	}
	r.Line = line
	return r
}

// WriteResults writes one line per result, an empty line for failures
func WriteResults(w io.Writer, results []Result) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		line := r.Line
		if r.Err != nil {
			line = ""
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return errors.Wrap(err, "WriteResults")
		}
	}
	return errors.Wrap(bw.Flush(), "WriteResults")
}

// Failures counts the results carrying an error
func Failures(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
