// Package main provides the mlp command: train, check and inspect a
// multilayer perceptron on MNIST.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/klauspost/cpuid/v2"
)

const version = "v0.1.0"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// run dispatches a subcommand. Regular output goes to stdout, logs to stderr.
func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	logger := log.New(stderr, "", log.LstdFlags)
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "train":
		return runTrain(rest, stdout, logger)
	case "check":
		return runCheck(rest, stdout, logger)
	case "info":
		return runInfo(rest, stdout)
	case "import":
		return runImport(rest, stdout, logger)
	case "version":
		fmt.Fprintf(stdout, "mlp %s\n", version)
		return nil
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "mlp %s - online SGD multilayer perceptron\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  train      Train (or continue training) a network and save it")
	fmt.Fprintln(w, "  check      Report the success rate of a saved network")
	fmt.Fprintln(w, "  info       Print the layer dimensions of a saved network")
	fmt.Fprintln(w, "  import     Copy an MNIST set into a bolt example store")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mlp <command> -h' for flags.")
}

// logCPU records the host CPU.
func logCPU(logger *log.Logger) {
	logger.Printf("cpu=%q cores=%d threads=%d level=x86-64-v%d avx2=%t",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores,
		cpuid.CPU.X64Level(), cpuid.CPU.Supports(cpuid.AVX2))
}
