package pcc

import (
	"context"
	"strings"

	"github.com/louisbranch/pccdata/internal/pcc/pathres"
	"github.com/louisbranch/pccdata/internal/pcc/schema"
	apperrors "github.com/louisbranch/pccdata/internal/platform/errors"
)

const negationPrefix = "!"

// Read loads one descriptor file and, recursively, everything it includes.
// When relative is true the token is resolved like a descriptor include
// (anchored at the data directory); otherwise it is used as given.
func (l *Loader) Read(ctx context.Context, token string, relative bool) (err error) {
	var filePath string
	if relative {
		filePath, err = pathres.ResolveDescriptor(token, l.dataDir)
	} else {
		filePath = strings.ReplaceAll(token, `\`, "/")
		if filePath == "" {
			err = pathres.ErrEmptyToken
		}
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeEmptyPathToken, "descriptor path", err)
	}

	ctx, span := l.startSpan(ctx, "pcc.read", filePath)
	defer func() { endSpan(span, err) }()

	if err := l.enter(filePath); err != nil {
		return err
	}
	defer l.leave()

	l.debugf("read descriptor %s", filePath)

	f, err := openFile(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	baseDir := pathres.Dir(filePath)
	sc := newLineScanner(f)
	for sc.Next() {
		if err := l.readDescriptorLine(ctx, filePath, baseDir, sc.Line(), sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return readError(filePath, err)
	}
	return nil
}

func (l *Loader) readDescriptorLine(ctx context.Context, filePath, baseDir string, lineNo int, line string) error {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return lineError(apperrors.CodeMalformedLine, filePath, lineNo, "", "missing ':' separator")
	}
	if strings.HasPrefix(name, negationPrefix) {
		name = name[len(negationPrefix):]
		l.negated++
	}

	kind, ok := schema.Lookup(name)
	if !ok {
		return lineError(apperrors.CodeUnknownDirective, filePath, lineNo, name, "unknown directive "+name)
	}

	switch {
	case kind == schema.KindDescriptorFile:
		if value == "" || value == "@" {
			return lineError(apperrors.CodeEmptyPathToken, filePath, lineNo, name, "empty descriptor path")
		}
		return l.Read(ctx, value, true)

	case kind == schema.KindListFile:
		listPath, listOptions, _ := strings.Cut(value, "|")
		if listPath == "" {
			return lineError(apperrors.CodeEmptyPathToken, filePath, lineNo, name, "empty list path")
		}
		return l.ReadList(ctx, name, baseDir, listPath, listOptions)

	case kind.IsText():
		return l.dict.appendText(name, kind, value)

	default:
		return lineError(apperrors.CodeUnknownDirective, filePath, lineNo, name, "directive "+name+" has no reader")
	}
}
