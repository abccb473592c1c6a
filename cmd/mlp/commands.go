package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"
	"time"

	"github.com/born-ml/mlp/internal/dataset"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/parallel"
)

func runCheck(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	var flags runFlags
	flags.register(fs)
	test := fs.Bool("test", false, "Check against the t10k test set instead of the training set")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := flags.load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	net, _, err := nn.Load(cfg.Network)
	if err != nil {
		return fmt.Errorf("failed to load network: %w", err)
	}
	src, closeSrc, err := openSource(cfg, !*test)
	if err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	defer closeSrc()

	start := time.Now()
	acc, err := optim.Evaluate(net, src, cfg.Check, parallel.DefaultConfig())
	if err != nil {
		return err
	}
	logger.Printf("checked=%d elapsed=%s", acc.Total, time.Since(start).Round(time.Millisecond))
	fmt.Fprintln(stdout, acc)
	return nil
}

func runInfo(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	path := fs.String("network", "./res/netfile.mlp", "Network file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		*path = fs.Arg(0)
	}

	net, header, err := nn.Load(*path)
	if err != nil {
		return err
	}
	net.Info(stdout)
	fmt.Fprintf(stdout, "activation: %s\n", header.Activation)
	fmt.Fprintf(stdout, "run_id:     %s\n", header.RunID)
	fmt.Fprintf(stdout, "created_at: %s\n", header.CreatedAt.Format(time.RFC3339))
	for _, k := range slices.Sorted(maps.Keys(header.Metadata)) {
		fmt.Fprintf(stdout, "%s: %s\n", k, header.Metadata[k])
	}
	return nil
}

func runImport(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	dataDir := fs.String("data", "./res", "Directory holding the MNIST IDX files")
	out := fs.String("out", "", "Bolt store to write (required)")
	test := fs.Bool("test", false, "Import the t10k test set instead of the training set")
	normalize := fs.Bool("normalize", false, "Store pixels scaled to [0, 1]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("import: -out is required")
	}

	mnist, err := dataset.LoadMNIST(*dataDir, !*test)
	if err != nil {
		return err
	}
	mnist.Normalize = *normalize

	start := time.Now()
	n, err := dataset.Import(*out, mnist)
	if err != nil {
		return fmt.Errorf("import failed after %d examples: %w", n, err)
	}
	logger.Printf("imported=%d store=%s elapsed=%s", n, *out, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(stdout, "%d examples written to %s\n", n, *out)
	return nil
}
