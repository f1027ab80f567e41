package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/wbrown/janus-triples/triples"
	"github.com/wbrown/janus-triples/triples/dictionary"
	"github.com/wbrown/janus-triples/triples/join"
	"github.com/wbrown/janus-triples/triples/planner"
	"github.com/wbrown/janus-triples/triples/query"
	"github.com/wbrown/janus-triples/triples/result"
	"github.com/wbrown/janus-triples/triples/store"
)

func main() {
	var dbPath string
	var interactive bool
	var help bool
	var verbose bool
	var queryStr string

	flag.StringVar(&dbPath, "db", "", "database path")
	flag.BoolVar(&interactive, "i", false, "interactive mode")
	flag.BoolVar(&help, "h", false, "show help")
	flag.BoolVar(&verbose, "verbose", false, "verbose mode (show variable order and chosen indexes)")
	flag.StringVar(&queryStr, "query", "", "run a single query (one pattern per line) and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [database_path]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "A leapfrog-triejoin RDF triple store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i mydata.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -verbose -query $'?p <http://example.org/vocab/name> ?name' mydata.db\n", os.Args[0])
	}
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	if dbPath == "" && flag.NArg() > 0 {
		dbPath = flag.Arg(0)
	}
	if dbPath == "" {
		dbPath = "triplestore.db"
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log := fmt.Sprintf("failed to open store at %s: %v", dbPath, err)
		fmt.Fprintln(os.Stderr, colorize(log, color.FgRed))
		os.Exit(1)
	}
	defer st.Close()

	dict := dictionary.NewMemDictionary()

	switch {
	case queryStr != "":
		runSingleQuery(st, dict, queryStr, verbose)
	case interactive:
		runInteractive(st, dict, verbose)
	default:
		fmt.Println("Use -i for interactive mode or -query to run a single query.")
	}
}

func colorize(s string, attrs ...color.Attribute) string {
	if !isTerminal(os.Stdout) {
		return s
	}
	return color.New(attrs...).Sprint(s)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func runInteractive(st store.Store, dict dictionary.Dictionary, verbose bool) {
	fmt.Println("=== janus-triples interactive mode ===")
	fmt.Println("Commands:")
	fmt.Println("  .help    - show help")
	fmt.Println("  .exit    - exit")
	fmt.Println("  .add     - add triples (subject predicate object, one per line, blank line to finish)")
	fmt.Println("  ?x <p> ?y ... (blank line to run) - run a query")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == ".exit":
			return
		case line == ".help":
			fmt.Println("Enter triple patterns (one per line, blank line to run) or a dot-command.")
		case line == "":
			continue
		case line == ".add":
			addInteractiveData(st, dict, scanner)
		default:
			lines := []string{line}
			for {
				fmt.Print("  ")
				if !scanner.Scan() {
					break
				}
				next := strings.TrimSpace(scanner.Text())
				if next == "" {
					break
				}
				lines = append(lines, next)
			}
			runPatternLines(st, dict, lines, verbose)
		}
	}
}

func addInteractiveData(st store.Store, dict dictionary.Dictionary, scanner *bufio.Scanner) {
	fmt.Println("Adding triples (empty line to finish):")

	var encoded []store.EncodedTriple
	for {
		fmt.Print("  subject predicate object> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		s, p, o, err := parseTripleLine(line)
		if err != nil {
			fmt.Println(colorize(fmt.Sprintf("error: %v", err), color.FgRed))
			continue
		}

		t, err := encodeTriple(dict, s, p, o)
		if err != nil {
			fmt.Println(colorize(fmt.Sprintf("error: %v", err), color.FgRed))
			continue
		}
		encoded = append(encoded, t)
	}

	if len(encoded) == 0 {
		fmt.Println("No triples added")
		return
	}
	if err := st.Assert(encoded); err != nil {
		fmt.Println(colorize(fmt.Sprintf("commit failed: %v", err), color.FgRed))
		return
	}
	fmt.Printf("Added %d triples\n", len(encoded))
}

func encodeTriple(dict dictionary.Dictionary, s, p, o triples.Term) (store.EncodedTriple, error) {
	sc, err := dict.Encode(s)
	if err != nil {
		return store.EncodedTriple{}, err
	}
	pc, err := dict.Encode(p)
	if err != nil {
		return store.EncodedTriple{}, err
	}
	oc, err := dict.Encode(o)
	if err != nil {
		return store.EncodedTriple{}, err
	}
	return store.EncodedTriple{S: store.Code(sc), P: store.Code(pc), O: store.Code(oc)}, nil
}

func runSingleQuery(st store.Store, dict dictionary.Dictionary, queryStr string, verbose bool) {
	lines := strings.Split(strings.TrimSpace(queryStr), "\n")
	runPatternLines(st, dict, lines, verbose)
}

func runPatternLines(st store.Store, dict dictionary.Dictionary, lines []string, verbose bool) {
	patterns := make([]query.Pattern, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		p, err := parsePatternLine(line)
		if err != nil {
			fmt.Println(colorize(fmt.Sprintf("parse error: %v", err), color.FgRed))
			return
		}
		patterns = append(patterns, p)
	}
	if len(patterns) == 0 {
		return
	}

	start := time.Now()

	plan, err := planner.ComputeWithPlan(patterns, nil)
	if err != nil {
		fmt.Println(colorize(fmt.Sprintf("planning error: %v", err), color.FgRed))
		return
	}

	if verbose {
		fmt.Println(colorize("Variable order:", color.FgYellow), plan.Order)
		for pi, p := range patterns {
			for _, v := range p.Variables() {
				if s, ok := plan.StrategyFor(pi, v); ok {
					fmt.Printf("  pattern %d, %s -> index %s, prefix %v\n", pi, v, s.Index, s.PrefixVars)
				}
			}
		}
	}

	driver := join.NewDriver(context.Background(), st, dict, patterns, plan)
	defer driver.Close()

	assembler := result.NewAssembler(dict, plan.Order)
	rows, err := result.Collect(driver, assembler)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Println(colorize(fmt.Sprintf("execution error: %v", err), color.FgRed))
		return
	}

	columns := make([]string, len(plan.Order))
	for i, v := range plan.Order {
		columns[i] = string(v)
	}

	fmt.Print(result.FormatTable(columns, rows))
	fmt.Println(colorize(fmt.Sprintf("(%.3fms)", float64(elapsed.Microseconds())/1000.0), latencyColor(elapsed)))
}

func latencyColor(d time.Duration) color.Attribute {
	switch {
	case d < 50*time.Millisecond:
		return color.FgGreen
	case d < 200*time.Millisecond:
		return color.FgYellow
	default:
		return color.FgRed
	}
}
