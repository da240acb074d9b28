package pcc

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/louisbranch/pccdata/internal/pcc/record"
	"github.com/louisbranch/pccdata/internal/pcc/schema"
	apperrors "github.com/louisbranch/pccdata/internal/platform/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func loadDir(t *testing.T, dataDir, descriptor string) *Dictionary {
	t.Helper()
	dict, err := Load(context.Background(), descriptor, Options{DataDir: dataDir})
	if err != nil {
		t.Fatalf("load %s: %v", descriptor, err)
	}
	return dict
}

func assertCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := apperrors.CodeOf(err); got != code {
		t.Fatalf("expected %s, got %s (%v)", code, got, err)
	}
}

func TestLoadTextDirectivesConcatenate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "core.pcc", "CAMPAIGN:A\n# comment\n\nCAMPAIGN:B\nRANK:3\nSOURCEDATE:2001-05\n")

	dict := loadDir(t, dir, "core.pcc")

	if got, _ := dict.Text("CAMPAIGN"); got != "A\nB" {
		t.Fatalf("expected %q, got %q", "A\nB", got)
	}
	if got, _ := dict.Text("SOURCEDATE"); got != "2001-05" {
		t.Fatalf("expected raw date text, got %q", got)
	}
	datum, _ := dict.Get("RANK")
	if datum.Kind() != schema.KindNumber {
		t.Fatalf("expected number kind, got %s", datum.Kind())
	}
}

func TestLoadKeepsValueAfterFirstColon(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "core.pcc", "URL:http://example.com/a:b\nDESC:\n")

	dict := loadDir(t, dir, "core.pcc")

	if got, _ := dict.Text("URL"); got != "http://example.com/a:b" {
		t.Fatalf("unexpected url %q", got)
	}
	if got, ok := dict.Text("DESC"); !ok || got != "" {
		t.Fatalf("expected empty desc entry, got %q, %v", got, ok)
	}
}

func TestLoadUnknownDirective(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "core.pcc", "CAMPAIGN:A\nNOTATAG:x\n")

	_, err := Load(context.Background(), "core.pcc", Options{DataDir: dir})

	assertCode(t, err, apperrors.CodeUnknownDirective)
	meta := apperrors.MetadataOf(err)
	if meta["line"] != "2" || meta["directive"] != "NOTATAG" {
		t.Fatalf("unexpected metadata %v", meta)
	}
}

func TestLoadMalformedLineAborts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "core.pcc", "CAMPAIGN:A\nNOTAG_NO_COLON\nPCC:@later.pcc\n")
	writeFile(t, dir, "later.pcc", "GENRE:Fantasy\n")

	loader := NewLoader(Options{DataDir: dir})
	err := loader.Read(context.Background(), "core.pcc", true)

	assertCode(t, err, apperrors.CodeMalformedLine)
	if !errors.Is(err, apperrors.New(apperrors.CodeMalformedLine, "")) {
		t.Fatal("expected errors.Is to match malformed line")
	}
	if _, ok := loader.Dictionary().Get("GENRE"); ok {
		t.Fatal("expected no entries from files after the malformed line")
	}
	if got := loader.Dictionary().Names(); !reflect.DeepEqual(got, []string{"CAMPAIGN"}) {
		t.Fatalf("unexpected entries %v", got)
	}
}

func TestLoadNestedDescriptors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.pcc", "CAMPAIGN:Top\nPCC:@books/a.pcc\nPCC:books/b.pcc\nCAMPAIGN:End\n")
	writeFile(t, dir, "books/a.pcc", "GENRE:A\nPCC:@books/deep/c.pcc\n")
	writeFile(t, dir, "books/b.pcc", "GENRE:B\n")
	writeFile(t, dir, "books/deep/c.pcc", "GENRE:C\n")

	dict := loadDir(t, dir, "top.pcc")

	if got, _ := dict.Text("GENRE"); got != "A\nC\nB" {
		t.Fatalf("expected depth-first order, got %q", got)
	}
	if got, _ := dict.Text("CAMPAIGN"); got != "Top\nEnd" {
		t.Fatalf("unexpected campaign %q", got)
	}
}

func TestNewLoaderNormalizesDataDir(t *testing.T) {
	tests := map[string]string{
		"":           "./",
		"data":       "data/",
		`data\core`:  "data/core/",
		"/srv/pcc/":  "/srv/pcc/",
	}
	for in, want := range tests {
		if got := NewLoader(Options{DataDir: in}).DataDir(); got != want {
			t.Fatalf("DataDir(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestLoadAbsoluteDescriptorInclude(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	abs := writeFile(t, other, "abs.pcc", "GENRE:Abs\n")
	writeFile(t, dir, "top.pcc", "PCC:"+filepath.ToSlash(abs)+"\n")

	dict := loadDir(t, dir, "top.pcc")

	if got, _ := dict.Text("GENRE"); got != "Abs" {
		t.Fatalf("unexpected genre %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.pcc", "PCC:@missing.pcc\n")

	_, err := Load(context.Background(), "top.pcc", Options{DataDir: dir})

	assertCode(t, err, apperrors.CodeIO)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist cause, got %v", err)
	}
}

func TestLoadEmptyPaths(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "descriptor", content: "PCC:\n"},
		{name: "descriptor marker only", content: "PCC:@\n"},
		{name: "list", content: "SPELL:\n"},
		{name: "list with options", content: "SPELL:|INCLUDE:Fireball\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "top.pcc", tc.content)
			_, err := Load(context.Background(), "top.pcc", Options{DataDir: dir})
			assertCode(t, err, apperrors.CodeEmptyPathToken)
			if line := apperrors.MetadataOf(err)["line"]; line != "1" {
				t.Fatalf("expected line 1 metadata, got %q", line)
			}
		})
	}
}

func TestLoadIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pcc", "GENRE:A\nPCC:@b.pcc\n")
	writeFile(t, dir, "b.pcc", "PCC:@a.pcc\n")

	_, err := Load(context.Background(), "a.pcc", Options{DataDir: dir})

	assertCode(t, err, apperrors.CodeIncludeCycle)
	if !strings.Contains(apperrors.MetadataOf(err)["chain"], "b.pcc") {
		t.Fatalf("expected chain metadata, got %v", apperrors.MetadataOf(err))
	}
}

func TestLoadDiamondIncludeIsNotACycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.pcc", "PCC:@left.pcc\nPCC:@right.pcc\n")
	writeFile(t, dir, "left.pcc", "PCC:@shared.pcc\n")
	writeFile(t, dir, "right.pcc", "PCC:@shared.pcc\n")
	writeFile(t, dir, "shared.pcc", "GENRE:Shared\n")

	dict := loadDir(t, dir, "top.pcc")

	if got, _ := dict.Text("GENRE"); got != "Shared\nShared" {
		t.Fatalf("expected shared file read twice, got %q", got)
	}
}

func TestLoadNegatedDirectiveIsInert(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.pcc", "!GENRE:Horror\nGENRE:Fantasy\n")

	loader := NewLoader(Options{DataDir: dir})
	if err := loader.Read(context.Background(), "top.pcc", true); err != nil {
		t.Fatalf("read: %v", err)
	}

	if got, _ := loader.Dictionary().Text("GENRE"); got != "Horror\nFantasy" {
		t.Fatalf("unexpected genre %q", got)
	}
	if loader.Negated() != 1 {
		t.Fatalf("expected 1 negated directive, got %d", loader.Negated())
	}
}

func TestLoadNegatedUnknownDirective(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.pcc", "!NOTATAG:x\n")

	_, err := Load(context.Background(), "top.pcc", Options{DataDir: dir})

	assertCode(t, err, apperrors.CodeUnknownDirective)
}

func TestLoadHandlesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.pcc", "\ufeffCAMPAIGN:A\r\nGENRE:B\r\n")

	dict := loadDir(t, dir, "top.pcc")

	if got, _ := dict.Text("CAMPAIGN"); got != "A" {
		t.Fatalf("unexpected campaign %q", got)
	}
	if got, _ := dict.Text("GENRE"); got != "B" {
		t.Fatalf("unexpected genre %q", got)
	}
}

func TestLoadUTF16WithBOM(t *testing.T) {
	dir := t.TempDir()
	content := []byte{0xFF, 0xFE}
	for _, r := range "GENRE:X\n" {
		content = append(content, byte(r), 0)
	}
	if err := os.WriteFile(filepath.Join(dir, "top.pcc"), content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	dict := loadDir(t, dir, "top.pcc")

	if got, _ := dict.Text("GENRE"); got != "X" {
		t.Fatalf("unexpected genre %q", got)
	}
}

func TestLoadVerboseLogging(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.pcc", "SPELL:spells.lst|OPT\n")
	writeFile(t, dir, "spells.lst", "Fireball\n")

	var buf bytes.Buffer
	_, err := Load(context.Background(), "top.pcc", Options{
		DataDir: dir,
		Logger:  log.New(&buf, "", 0),
		Verbose: true,
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "read descriptor") || !strings.Contains(out, "read list SPELL") {
		t.Fatalf("expected verbose trace, got %q", out)
	}
	if !strings.Contains(out, `"OPT"`) {
		t.Fatalf("expected list options in trace, got %q", out)
	}
}

func TestParseWildcardPolicy(t *testing.T) {
	if p, err := ParseWildcardPolicy(""); err != nil || p != WildcardSkip {
		t.Fatalf("expected skip default, got %v, %v", p, err)
	}
	if p, err := ParseWildcardPolicy("DataDir"); err != nil || p != WildcardDataDir {
		t.Fatalf("expected datadir, got %v, %v", p, err)
	}
	if _, err := ParseWildcardPolicy("expand"); err == nil {
		t.Fatal("expected unsupported policy error")
	}
	for _, p := range []WildcardPolicy{WildcardSkip, WildcardDataDir} {
		if got, err := ParseWildcardPolicy(p.String()); err != nil || got != p {
			t.Fatalf("round trip %v: got %v, %v", p, got, err)
		}
	}
}

func TestDictionaryKindMismatch(t *testing.T) {
	dict := newDictionary()
	if err := dict.appendText("GENRE", schema.KindText, "A"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_, err := dict.recordSet("GENRE", schema.KindListFile)
	assertCode(t, err, apperrors.CodeKindMismatch)

	if _, err := dict.recordSet("SPELL", schema.KindListFile); err != nil {
		t.Fatalf("record set: %v", err)
	}
	err = dict.appendText("SPELL", schema.KindText, "x")
	assertCode(t, err, apperrors.CodeKindMismatch)
}

func TestDictionaryReadOnlyCopies(t *testing.T) {
	dict := newDictionary()
	set, _ := dict.recordSet("SPELL", schema.KindListFile)
	set.Merge("Fireball", []record.Attribute{{Key: "LEVEL", Value: "3"}})

	rec, ok := dict.Record("SPELL", "Fireball")
	if !ok {
		t.Fatal("expected record")
	}
	rec.Attributes[0].Value = "9"

	again, _ := dict.Record("SPELL", "Fireball")
	if again.Attributes[0].Value != "3" {
		t.Fatal("expected Record to return a copy")
	}
	if _, ok := dict.Text("SPELL"); ok {
		t.Fatal("expected list entry to have no text")
	}
}
