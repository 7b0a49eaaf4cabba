// qivm - the StateQ command-line driver: execute, build and inspect
// quantum bytecode.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/HarryLiGameTech/StateQ/bytecode"
	"github.com/HarryLiGameTech/StateQ/compiler"
	"github.com/HarryLiGameTech/StateQ/kernel/statevec"
	"github.com/HarryLiGameTech/StateQ/manifest"
	"github.com/HarryLiGameTech/StateQ/server"
	"github.com/HarryLiGameTech/StateQ/store"
	"github.com/HarryLiGameTech/StateQ/vm"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: qivm <command> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  run     execute a bytecode file and print the measurement histogram\n")
	fmt.Fprintf(os.Stderr, "  build   compile a source file via the remote compiler\n")
	fmt.Fprintf(os.Stderr, "  disasm  print a bytecode listing\n")
	fmt.Fprintf(os.Stderr, "  serve   start the HTTP execution service\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  qivm run -i prog.qbc -s 1000\n")
	fmt.Fprintf(os.Stderr, "  qivm build -i prog.sq\n")
	fmt.Fprintf(os.Stderr, "  qivm disasm -i prog.qbc\n")
	fmt.Fprintf(os.Stderr, "  qivm serve -addr :7070\n")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = cmdRun(os.Args[2:])
	case "build":
		err = cmdBuild(os.Args[2:])
	case "disasm":
		err = cmdDisasm(os.Args[2:])
	case "serve":
		err = cmdServe(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadManifest finds the governing stateq.toml, if any.
func loadManifest() *manifest.Manifest {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	m, err := manifest.Find(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return nil
	}
	return m
}

func configureLogging(verbose bool) {
	verbosity := 0
	if verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)
}

// ---------------------------------------------------------------------------
// qivm run
// ---------------------------------------------------------------------------

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	input := fs.String("i", "", "Bytecode file to execute")
	shots := fs.Uint("s", 0, "Number of shots (default from stateq.toml, else 1024)")
	seed := fs.Int64("seed", 0, "Fixed sampling RNG seed (0 = from stateq.toml, else from the clock)")
	output := fs.String("o", "", "Write the measurement report as CBOR to this file")
	noHistory := fs.Bool("no-history", false, "Skip recording the run")
	verbose := fs.Bool("v", false, "Verbose output")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("run: -i is required")
	}
	configureLogging(*verbose)

	m := loadManifest()

	shotCount := uint32(*shots)
	if shotCount == 0 {
		if m != nil {
			shotCount = m.Execute.Shots
		} else {
			shotCount = manifest.DefaultShots
		}
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *input, err)
	}

	rngSeed := *seed
	if rngSeed == 0 && m != nil {
		rngSeed = m.Execute.Seed
	}

	var opts []vm.Option
	if rngSeed != 0 {
		opts = append(opts, vm.WithRand(rand.New(rand.NewSource(rngSeed))))
	}
	driver := vm.New(statevec.New(), opts...)

	res := driver.ExecBytecode(data, shotCount)

	if m != nil && m.HistoryPath() != "" && !*noHistory {
		if err := recordRun(m.HistoryPath(), data, shotCount, res); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: recording run: %v\n", err)
		}
	}

	if res.Error != 0 {
		return fmt.Errorf("execution failed with error code %d", res.Error)
	}

	fmt.Printf("Shots: %d\n", res.Measurement.Shots)
	for _, e := range res.Measurement.Entries {
		fmt.Printf("  %016b : %d\n", e.Value, e.Count)
	}

	if *output != "" {
		encoded, err := vm.MarshalMeasurement(res.Measurement)
		if err != nil {
			return fmt.Errorf("encoding measurement: %w", err)
		}
		if err := os.WriteFile(*output, encoded, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", *output, err)
		}
	}
	return nil
}

func recordRun(path string, data []byte, shots uint32, res vm.ExecuteResult) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	_, err = st.Record(data, shots, res)
	return err
}

// ---------------------------------------------------------------------------
// qivm build
// ---------------------------------------------------------------------------

func cmdBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	input := fs.String("i", "", "Source file to compile")
	addr := fs.String("addr", "", "Compiler address (default from stateq.toml)")
	verbose := fs.Bool("v", false, "Verbose output")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("build: -i is required")
	}
	configureLogging(*verbose)

	m := loadManifest()
	address := *addr
	options := map[string]string{}
	if m != nil {
		if address == "" {
			address = m.Compiler.Address
		}
		for k, v := range m.Compiler.Options {
			options[k] = v
		}
	}
	if address == "" {
		return fmt.Errorf("build: no compiler address (use -addr or stateq.toml)")
	}

	client, err := compiler.Dial(address)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := client.Compile(ctx, *input, options)
	if err != nil {
		return err
	}

	for _, d := range result.Diagnostics {
		fmt.Printf("[%s] %s\n", d.Severity, d.Message)
		if d.Source != "" {
			fmt.Printf(" File `%s` line %d col %d\n", d.Source, d.Line, d.Column)
		}
	}
	if result.HasErrors() {
		return fmt.Errorf("compilation failed")
	}
	for _, target := range result.Targets {
		fmt.Println(target)
	}
	return nil
}

// ---------------------------------------------------------------------------
// qivm disasm
// ---------------------------------------------------------------------------

func cmdDisasm(args []string) error {
	fs := flag.NewFlagSet("disasm", flag.ExitOnError)
	input := fs.String("i", "", "Bytecode file to disassemble")
	hex := fs.Bool("hex", false, "Also print a hex dump")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("disasm: -i is required")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *input, err)
	}

	instrs, err := bytecode.Decode(data)
	if err != nil {
		return err
	}

	if *hex {
		fmt.Println(bytecode.HexString(data))
		fmt.Println()
	}
	fmt.Print(bytecode.Disassemble(instrs))
	return nil
}

// ---------------------------------------------------------------------------
// qivm serve
// ---------------------------------------------------------------------------

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":7070", "Listen address")
	history := fs.String("history", "", "History database path (default from stateq.toml)")
	verbose := fs.Bool("v", false, "Verbose output")
	fs.Parse(args)

	configureLogging(*verbose)

	m := loadManifest()
	historyPath := *history
	if historyPath == "" && m != nil {
		historyPath = m.HistoryPath()
	}

	driver := vm.New(statevec.New())

	var opts []server.ServerOption
	if historyPath != "" {
		st, err := store.Open(historyPath)
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, server.WithHistory(st))
	}

	return server.NewServer(driver, opts...).ListenAndServe(*addr)
}
