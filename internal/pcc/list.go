package pcc

import (
	"context"
	"strings"

	"github.com/louisbranch/pccdata/internal/pcc/pathres"
	"github.com/louisbranch/pccdata/internal/pcc/record"
	"github.com/louisbranch/pccdata/internal/pcc/schema"
	apperrors "github.com/louisbranch/pccdata/internal/platform/errors"
)

const (
	modSuffix = ".MOD"
	// attrAlias registers the attribute value as an alias of the record.
	attrAlias = "ABB"
	// attrKey renames the record for the rest of the line.
	attrKey = "KEY"
)

// ReadList merges the records of one list file into the record set held
// under tag. options is the text after '|' in the owning directive; it is
// not interpreted here.
func (l *Loader) ReadList(ctx context.Context, tag, baseDir, token, options string) (err error) {
	if pathres.IsWildcard(token) && l.wildcards == WildcardSkip {
		l.logger.Printf("warning: %s: wildcard list path %q is not supported, skipping", tag, token)
		return nil
	}

	filePath, err := pathres.Resolve(token, baseDir, l.dataDir)
	if err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeEmptyPathToken, tag+" list path",
			map[string]string{"directive": tag}, err)
	}

	_, span := l.startSpan(ctx, "pcc.read_list", filePath)
	defer func() { endSpan(span, err) }()

	l.debugf("read list %s %s %q", tag, filePath, options)

	set, err := l.dict.recordSet(tag, schema.KindListFile)
	if err != nil {
		return err
	}

	f, err := openFile(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := newLineScanner(f)
	for sc.Next() {
		l.readListLine(set, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return readError(filePath, err)
	}
	return nil
}

// listLine is one parsed list record line before alias and KEY handling.
type listLine struct {
	ident string
	isMod bool
	attrs []record.Attribute
}

func parseListLine(line string) listLine {
	tokens := strings.Split(line, "\t")
	ident := tokens[0]
	isMod := strings.HasSuffix(ident, modSuffix)
	if isMod {
		ident = ident[:len(ident)-len(modSuffix)]
	}

	attrs := make([]record.Attribute, 0, len(tokens)-1)
	for _, token := range tokens[1:] {
		if strings.TrimSpace(token) == "" {
			continue
		}
		key, value, _ := strings.Cut(token, ":")
		attrs = append(attrs, record.Attribute{Key: key, Value: value})
	}
	return listLine{ident: ident, isMod: isMod, attrs: attrs}
}

func (l *Loader) readListLine(set *record.Set, line string) {
	parsed := parseListLine(line)

	ident := parsed.ident
	if canonical, ok := l.aliases[ident]; ok {
		ident = canonical
	}
	// Aliases always name the identifier the line was read under, even
	// when a KEY earlier on the line renames the stored record.
	aliasTarget := ident

	for _, attr := range parsed.attrs {
		switch attr.Key {
		case attrAlias:
			l.aliases[attr.Value] = aliasTarget
		case attrKey:
			ident = attr.Value
		}
	}

	set.Merge(ident, parsed.attrs)
}
