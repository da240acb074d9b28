// Package pccimporter loads a PCC campaign descriptor, prints the resulting
// dictionary and optionally persists it into a SQLite content database.
package pccimporter

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/louisbranch/pccdata/internal/pcc"
	platformcmd "github.com/louisbranch/pccdata/internal/platform/cmd"
	storagesqlite "github.com/louisbranch/pccdata/internal/storage/sqlite"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// Config holds configuration for the PCC importer.
type Config struct {
	DescriptorPath string
	DataDir        string `env:"PCCDATA_DATADIR" envDefault:"."`
	DBPath         string `env:"PCCDATA_DB_PATH"`
	Format         string `env:"PCCDATA_FORMAT" envDefault:"text"`
	DryRun         bool
	Verbose        bool
	Wildcards      string
	AllowCycles    bool
}

// ParseConfig loads env defaults and then parses CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Wildcards = pcc.WildcardSkip.String()

	fs.StringVar(&cfg.DescriptorPath, "pcc", "", "campaign descriptor (.pcc) to load")
	fs.StringVar(&cfg.DataDir, "datadir", cfg.DataDir, "data directory that '@' paths are anchored at")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "content database path; empty skips persistence")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: text, json or yaml")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "load and print without writing to the database")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "log every descriptor and list file read")
	fs.StringVar(&cfg.Wildcards, "wildcards", cfg.Wildcards, "wildcard list paths: skip or datadir")
	fs.BoolVar(&cfg.AllowCycles, "allow-cycles", false, "disable include cycle detection")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	if rest := fs.Args(); len(rest) > 0 {
		if strings.TrimSpace(cfg.DescriptorPath) != "" {
			return Config{}, errors.New("descriptor given both as -pcc and as an argument")
		}
		if len(rest) > 1 {
			return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(rest[1:], " "))
		}
		cfg.DescriptorPath = rest[0]
	}

	if strings.TrimSpace(cfg.DescriptorPath) == "" {
		return Config{}, errors.New("pcc file is required")
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if cfg.Format != formatText && cfg.Format != formatJSON && cfg.Format != formatYAML {
		return Config{}, fmt.Errorf("unsupported format %q", cfg.Format)
	}
	if _, err := pcc.ParseWildcardPolicy(cfg.Wildcards); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Run executes the importer using the provided Config. Diagnostics go to
// standard error.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return run(ctx, cfg, out, os.Stderr)
}

func run(ctx context.Context, cfg Config, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	descriptor := strings.TrimSpace(cfg.DescriptorPath)
	if descriptor == "" {
		return errors.New("pcc file is required")
	}
	wildcards, err := pcc.ParseWildcardPolicy(cfg.Wildcards)
	if err != nil {
		return err
	}

	dict, err := pcc.Load(ctx, descriptor, pcc.Options{
		DataDir:     cfg.DataDir,
		Logger:      log.New(errOut, "pcc: ", 0),
		Verbose:     cfg.Verbose,
		Wildcards:   wildcards,
		AllowCycles: cfg.AllowCycles,
	})
	if err != nil {
		return err
	}

	if err := writeDictionary(out, cfg.Format, dict); err != nil {
		return err
	}

	dbPath := strings.TrimSpace(cfg.DBPath)
	if cfg.DryRun || dbPath == "" {
		return nil
	}

	store, err := storagesqlite.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	defer store.Close()

	imported, err := store.SaveImport(ctx, toImportInput(descriptor, dict))
	if err != nil {
		return fmt.Errorf("save import: %w", err)
	}
	_, err = fmt.Fprintf(errOut, "imported %d entries into %s\n", dict.Len(), dbPath)
	if err == nil && cfg.Verbose {
		_, err = fmt.Fprintf(errOut, "import %d (%s): %d text entries, %d records\n", imported.ID, imported.Key, imported.TextCount, imported.RecordCount)
	}
	return err
}

func writeDictionary(w io.Writer, format string, dict *pcc.Dictionary) error {
	switch format {
	case formatJSON:
		return pcc.WriteJSON(w, dict)
	case formatYAML:
		return pcc.WriteYAML(w, dict)
	case formatText, "":
		return pcc.WriteText(w, dict)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
