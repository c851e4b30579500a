// cmd_load.go - Optionen und Modell laden
// Hauptfunktionen: setupLogging, loadOptions, loadModel, openSession
//
// Rangfolge der Optionen: Defaults <- Environment <- Config-Datei <- Flags
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smolchat/smolchat/api"
	"github.com/smolchat/smolchat/engine"
	"github.com/smolchat/smolchat/engine/bytegram"
	"github.com/smolchat/smolchat/envconfig"
	"github.com/smolchat/smolchat/logutil"
	"github.com/smolchat/smolchat/runner"
)

// errNoModel - kein Modellpfad per Flag, Config-Datei oder Environment
var errNoModel = errors.New("no model given: use --model or set SMOLCHAT_MODEL")

// flagOptions ordnet Flag-Namen den json-Schluesseln von api.Options zu
var flagOptions = map[string]string{
	"model":         "model",
	"ctx-size":      "num_ctx",
	"threads":       "num_thread",
	"batch-threads": "num_batch_thread",
	"mlock":         "use_mlock",
	"temperature":   "temperature",
	"min-p":         "min_p",
	"seed":          "seed",
	"template":      "template",
	"system":        "system",
}

// setupLogging - .env laden und den Default-Logger setzen
func setupLogging() {
	envconfig.LoadDotEnv()
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))
}

// loadOptions - Baut die Session-Optionen aus Environment, Config-Datei und Flags
func loadOptions(cmd *cobra.Command) (api.Options, error) {
	opts := api.DefaultOptions()

	path := envconfig.ConfigPath()
	if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
		path = f.Value.String()
	}

	file, err := envconfig.LoadFile(path)
	if err != nil {
		return opts, err
	}
	if err := opts.FromMap(file); err != nil {
		return opts, fmt.Errorf("config %s: %w", path, err)
	}

	flags, err := flagValues(cmd.Flags())
	if err != nil {
		return opts, err
	}
	if err := opts.FromMap(flags); err != nil {
		return opts, err
	}

	slog.Debug("options loaded", "config", path, "model", opts.Model, "num_ctx", opts.NumCtx, "temperature", opts.Temperature, "min_p", opts.MinP, "seed", opts.Seed)
	return opts, nil
}

// flagValues - Gibt die gesetzten Flags als Options-Map zurueck
func flagValues(flags *pflag.FlagSet) (map[string]any, error) {
	m := make(map[string]any)

	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}

		if f.Name == "no-mmap" {
			var v bool
			v, err = flags.GetBool(f.Name)
			m["use_mmap"] = !v
			return
		}

		key, ok := flagOptions[f.Name]
		if !ok {
			return
		}

		switch f.Value.Type() {
		case "int":
			m[key], err = flags.GetInt(f.Name)
		case "float32":
			var v float32
			v, err = flags.GetFloat32(f.Name)
			m[key] = float64(v)
		case "bool":
			m[key], err = flags.GetBool(f.Name)
		default:
			m[key] = f.Value.String()
		}
	})

	return m, err
}

// loadModel - Laedt das bytegram-Modell fuer opts
func loadModel(opts api.Options) (*engine.Handle, error) {
	if opts.Model == "" {
		return nil, errNoModel
	}

	m, err := bytegram.Load(opts.Model, bytegram.Params{
		NumCtx:         opts.NumCtx,
		NumThread:      opts.NumThread,
		NumBatchThread: opts.NumBatchThread,
		UseMMap:        opts.MMap(),
		UseMLock:       opts.UseMLock,
		Temperature:    opts.Temperature,
		MinP:           opts.MinP,
		Seed:           opts.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", runner.ErrLoad, err)
	}

	info := m.Info()
	slog.Info("model loaded", "model", info.Description, "params", info.Params, "context", m.ContextSize(), "backend", info.Backend)
	return engine.NewHandle(m), nil
}

// openSession - Laedt Modell und Session; der Handle muss vom Aufrufer geschlossen werden
func openSession(opts api.Options) (*engine.Handle, *runner.Session, error) {
	h, err := loadModel(opts)
	if err != nil {
		return nil, nil, err
	}

	sess, err := runner.Load(h, opts)
	if err != nil {
		h.Close()
		return nil, nil, err
	}

	return h, sess, nil
}
