// Package pcc loads campaign descriptor files and the list files they
// reference into an in-memory data dictionary.
//
// A load is a single depth-first pass: descriptor directives either append
// text to the dictionary, include another descriptor file, or name a list
// file whose tab-separated records are merged into the record set held under
// that directive. The first error aborts the whole load.
package pcc

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/pccdata/internal/pcc/pathres"
	apperrors "github.com/louisbranch/pccdata/internal/platform/errors"
)

const tracerName = "github.com/louisbranch/pccdata/internal/pcc"

// WildcardPolicy controls list paths starting with '*'.
type WildcardPolicy int

const (
	// WildcardSkip ignores wildcard list paths and logs a warning.
	WildcardSkip WildcardPolicy = iota
	// WildcardDataDir reads wildcard list paths as if they started with '@'.
	WildcardDataDir
)

func (p WildcardPolicy) String() string {
	if p == WildcardDataDir {
		return "datadir"
	}
	return "skip"
}

// ParseWildcardPolicy maps a flag value to a policy.
func ParseWildcardPolicy(value string) (WildcardPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "skip":
		return WildcardSkip, nil
	case "datadir":
		return WildcardDataDir, nil
	default:
		return WildcardSkip, fmt.Errorf("unsupported wildcard policy %q", value)
	}
}

// Options configures a Loader.
type Options struct {
	// DataDir is the toplevel data directory that '@' paths and descriptor
	// includes are anchored at.
	DataDir string
	// Logger receives warnings and, when Verbose is set, one line per file
	// read. Nil discards output.
	Logger *log.Logger
	// Verbose logs every descriptor and list file as it is opened.
	Verbose bool
	// Wildcards selects how '*' list paths are handled.
	Wildcards WildcardPolicy
	// AllowCycles disables include-cycle detection.
	AllowCycles bool
}

// Loader owns the state of one load: the dictionary, the alias table and
// the stack of descriptor files being read. A Loader is not safe for
// concurrent use.
type Loader struct {
	dataDir     string
	logger      *log.Logger
	verbose     bool
	wildcards   WildcardPolicy
	allowCycles bool
	tracer      trace.Tracer

	dict    *Dictionary
	aliases map[string]string
	active  []string
	negated int
}

// NewLoader returns a loader with an empty dictionary and alias table.
func NewLoader(opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Loader{
		dataDir:     pathres.NormalizeDataDir(opts.DataDir),
		logger:      logger,
		verbose:     opts.Verbose,
		wildcards:   opts.Wildcards,
		allowCycles: opts.AllowCycles,
		tracer:      otel.Tracer(tracerName),
		dict:        newDictionary(),
		aliases:     make(map[string]string),
	}
}

// Load reads the descriptor at descriptorPath, anchored at opts.DataDir,
// and returns the populated dictionary.
func Load(ctx context.Context, descriptorPath string, opts Options) (*Dictionary, error) {
	loader := NewLoader(opts)
	if err := loader.Read(ctx, descriptorPath, true); err != nil {
		return nil, err
	}
	return loader.Dictionary(), nil
}

// Dictionary returns the data loaded so far.
func (l *Loader) Dictionary() *Dictionary {
	return l.dict
}

// Alias returns the canonical identifier registered for an alias.
func (l *Loader) Alias(alias string) (string, bool) {
	ident, ok := l.aliases[alias]
	return ident, ok
}

// Negated returns how many '!'-prefixed directives were read. Negation is
// accepted but has no other effect.
func (l *Loader) Negated() int {
	return l.negated
}

// DataDir returns the normalized data directory.
func (l *Loader) DataDir() string {
	return l.dataDir
}

func (l *Loader) debugf(format string, args ...any) {
	if l.verbose {
		l.logger.Printf(format, args...)
	}
}

func (l *Loader) startSpan(ctx context.Context, name, filePath string) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("pcc.path", filePath)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}

func openFile(filePath string) (*os.File, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeIO, "open "+filePath,
			map[string]string{"path": filePath}, err)
	}
	return f, nil
}

func readError(filePath string, err error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeIO, "read "+filePath,
		map[string]string{"path": filePath}, err)
}

func lineError(code apperrors.Code, filePath string, line int, directive, message string) error {
	return apperrors.WithMetadata(code,
		fmt.Sprintf("%s:%d: %s", filePath, line, message),
		map[string]string{
			"path":      filePath,
			"line":      strconv.Itoa(line),
			"directive": directive,
		})
}

func (l *Loader) enter(filePath string) error {
	key := path.Clean(filePath)
	if !l.allowCycles {
		for i, open := range l.active {
			if open == key {
				chain := append(append([]string{}, l.active[i:]...), key)
				return apperrors.WithMetadata(apperrors.CodeIncludeCycle,
					"include cycle: "+strings.Join(chain, " -> "),
					map[string]string{"path": key, "chain": strings.Join(chain, " -> ")})
			}
		}
	}
	l.active = append(l.active, key)
	return nil
}

func (l *Loader) leave() {
	l.active = l.active[:len(l.active)-1]
}
