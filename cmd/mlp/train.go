package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strconv"

	"github.com/born-ml/mlp/internal/config"
	"github.com/born-ml/mlp/internal/dataset"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/parallel"
	"github.com/born-ml/mlp/internal/prompt"
)

// runFlags are the flags shared by train and check.
type runFlags struct {
	configPath string
	hidden     string
	overrides  config.Overrides
}

func (f *runFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "Path to YAML config (default: built-in defaults)")
	fs.StringVar(&f.overrides.DataDir, "data", "", "Directory holding the MNIST IDX files")
	fs.StringVar(&f.overrides.Network, "network", "", "Network file to load and save")
	fs.StringVar(&f.overrides.Store, "store", "", "Bolt example store to read instead of IDX files")
	fs.StringVar(&f.hidden, "hidden", "", "Hidden layer sizes, e.g. \"32 16\", or \"none\"")
	fs.IntVar(&f.overrides.Epochs, "epochs", 0, "Number of epochs")
	fs.IntVar(&f.overrides.Examples, "examples", 0, "Examples per epoch")
	fs.IntVar(&f.overrides.Check, "check", 0, "Examples classified when checking")
	fs.Float64Var(&f.overrides.Rate, "rate", 0, "Learning rate at epoch 0")
	fs.Float64Var(&f.overrides.FinalRate, "final-rate", 0, "Learning rate approached at the last epoch")
	fs.Float64Var(&f.overrides.Scale, "scale", 0, "Initial weight interval width")
	fs.Int64Var(&f.overrides.Seed, "seed", 0, "Weight initialization seed")
	fs.BoolVar(&f.overrides.Normalize, "normalize", false, "Scale pixels to [0, 1]")
}

// load builds the config: file (or defaults), then flag overrides.
// Validation is left to the caller.
func (f *runFlags) load() (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}
	if f.hidden != "" {
		hidden, err := prompt.ParseSizes(f.hidden)
		if err != nil {
			return nil, fmt.Errorf("-hidden: %w", err)
		}
		f.overrides.Hidden = hidden
	}
	cfg.ApplyOverrides(f.overrides)
	return cfg, nil
}

// sizedSource is a Source that knows its feature vector width.
type sizedSource interface {
	dataset.Source
	InputSize() int
}

// openSource returns the configured examples: the bolt store when one is
// set, otherwise the MNIST training (or test) set from the data directory.
func openSource(cfg *config.Config, train bool) (sizedSource, func() error, error) {
	if cfg.Store != "" {
		store, err := dataset.OpenStore(cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	mnist, err := dataset.LoadMNIST(cfg.DataDir, train)
	if err != nil {
		return nil, nil, err
	}
	mnist.Normalize = cfg.Normalize
	return mnist, func() error { return nil }, nil
}

func runTrain(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	var flags runFlags
	flags.register(fs)
	interactive := fs.Bool("i", false, "Ask for epochs, examples and hidden sizes before training")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := flags.load()
	if err != nil {
		return err
	}
	if *interactive {
		if err := prompt.New(os.Stdin, stdout).Configure(cfg); err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logCPU(logger)
	src, closeSrc, err := openSource(cfg, true)
	if err != nil {
		return fmt.Errorf("failed to load training data: %w", err)
	}
	defer closeSrc()
	logger.Printf("examples=%d input=%d", src.Len(), src.InputSize())

	net, err := train(cfg, src, stdout, logger)
	if err != nil {
		return err
	}

	acc, err := optim.Evaluate(net, src, cfg.Check, parallel.DefaultConfig())
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	fmt.Fprintln(stdout, acc)
	return nil
}

// train loads or creates the network, trains it and saves it back.
func train(cfg *config.Config, src sizedSource, stdout io.Writer, logger *log.Logger) (*nn.Network, error) {
	sizes := cfg.LayerSizes(src.InputSize(), dataset.MNISTClasses)
	//nolint:gosec // Weight initialization, not security-critical.
	rng := rand.New(rand.NewSource(cfg.Seed))
	net, res, err := nn.LoadOrRandom(cfg.Network, sizes, cfg.Scale, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	if res.Loaded {
		logger.Printf("network loaded from: %s", cfg.Network)
	} else {
		logger.Printf("starting from a random network: %v", res.Reason)
	}
	net.Info(stdout)

	trainer, err := optim.NewSGD(net, optim.SGDConfig{
		Schedule: optim.LinearDecay{Initial: cfg.Rate, Final: cfg.FinalRate, Epochs: cfg.Epochs},
		Source:   src,
		Count:    cfg.Examples,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	net, err = trainer.Learn(cfg.Epochs)
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}

	metadata := map[string]string{
		"epochs":   strconv.Itoa(cfg.Epochs),
		"examples": strconv.Itoa(trainer.Count()),
		"rate":     strconv.FormatFloat(cfg.Rate, 'g', -1, 64),
	}
	if err := nn.Save(net, cfg.Network, metadata); err != nil {
		return nil, fmt.Errorf("failed to save network: %w", err)
	}
	logger.Printf("network saved to: %s", cfg.Network)
	return net, nil
}
