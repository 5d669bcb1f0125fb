package main

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/sqlite-hashes/core/digest"
	"github.com/FocuswithJustin/sqlite-hashes/core/errors"
)

// Test helper functions

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var cli CLI
	var stdout, stderr bytes.Buffer
	parser, err := newParser(&cli, &stdout, &stderr, kong.Exit(func(code int) {
		t.Fatalf("unexpected exit %d: %s", code, stderr.String())
	}))
	if err != nil {
		t.Fatalf("failed to build parser: %v", err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}
	err = cli.execute(kctx, strings.NewReader(stdin), &stderr)
	return stdout.String(), err
}

func createTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "sqlite-hashes version "+version) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestAlgorithmsCmd(t *testing.T) {
	out, err := runCLI(t, "", "algorithms")
	if err != nil {
		t.Fatalf("algorithms failed: %v", err)
	}
	for _, alg := range digest.All() {
		if !strings.Contains(out, alg.Name) {
			t.Errorf("output does not list %s", alg.Name)
		}
	}
}

func TestFunctionsCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "defaults",
			args: []string{"functions"},
			want: []string{"md5 ", "md5_hex", "md5_concat ", "md5_concat_hex", "blake3_concat_hex"},
		},
		{
			name:    "selected",
			args:    []string{"--algorithms", "sha1,md5", "--no-aggregate", "functions"},
			want:    []string{"md5 ", "md5_hex", "sha1 ", "sha1_hex"},
			notWant: []string{"_concat", "sha256"},
		},
		{
			name:    "no hex",
			args:    []string{"-a", "md5", "--no-hex", "functions"},
			want:    []string{"md5 ", "md5_concat "},
			notWant: []string{"_hex"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, "", tt.args...)
			if err != nil {
				t.Fatalf("functions failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output contains %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestQueryCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"hex", []string{"query", "SELECT md5_hex('hello')"}, "5D41402ABC4B2A76B9719D911017C592\n"},
		{"blob rendered as hex", []string{"query", "SELECT md5('hello')"}, "5D41402ABC4B2A76B9719D911017C592\n"},
		{"null", []string{"query", "SELECT md5(NULL)"}, "NULL\n"},
		{"columns", []string{"query", "SELECT 1, 'a', md5_hex('')"}, "1\ta\tD41D8CD98F00B204E9800998ECF8427E\n"},
		{"header", []string{"query", "--header", "SELECT sha1_hex('abc') AS h"}, "h\nA9993E364706816ABA3E25717850C26C9CD0D89D\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, "", tt.args...)
			if err != nil {
				t.Fatalf("query failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestQueryCmdDatabaseFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if _, err := runCLI(t, "", "query", "--db", dbPath, "CREATE TABLE t (v TEXT)"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := runCLI(t, "", "query", "--db", dbPath, "INSERT INTO t VALUES ('aaa'), ('bbb'), ('ccc')"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	out, err := runCLI(t, "", "query", "--db", dbPath, "SELECT md5_concat_hex(v) FROM (SELECT v FROM t ORDER BY v)")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if out != "D1AAF4767A3C10A473407A4E47B02DA6\n" {
		t.Errorf("output = %q", out)
	}
}

func TestQueryCmdError(t *testing.T) {
	_, err := runCLI(t, "", "query", "SELECT md5(1)")
	if err == nil {
		t.Fatal("query succeeded")
	}
	if !strings.Contains(err.Error(), "unsupported type integer") {
		t.Errorf("error %q does not describe the type error", err.Error())
	}
}

func TestDigestCmdStdin(t *testing.T) {
	out, err := runCLI(t, "hello", "digest", "--alg", "md5")
	if err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	if out != "5D41402ABC4B2A76B9719D911017C592  -\n" {
		t.Errorf("output = %q", out)
	}
}

func TestDigestCmdFiles(t *testing.T) {
	dir := t.TempDir()
	hello := createTestFile(t, dir, "hello.txt", []byte("hello"))
	empty := createTestFile(t, dir, "empty.txt", nil)

	out, err := runCLI(t, "", "digest", "-A", "md5", hello, empty)
	if err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	want := "5D41402ABC4B2A76B9719D911017C592  " + hello + "\n" +
		"D41D8CD98F00B204E9800998ECF8427E  " + empty + "\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestDigestCmdDefaultAlgorithm(t *testing.T) {
	out, err := runCLI(t, "abc", "digest")
	if err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	if !strings.HasPrefix(out, "BA7816BF8F01CFEA414140DE5DAE2223B00361A396177A9CB410FF61F20015AD") {
		t.Errorf("output = %q, want sha256 of abc", out)
	}
}

func TestDigestCmdXZ(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz.NewWriter failed: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("xz write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("xz close failed: %v", err)
	}
	compressed := buf.Bytes()
	path := createTestFile(t, dir, "hello.txt.xz", compressed)

	out, err := runCLI(t, "", "digest", "--alg", "md5", path)
	if err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	if !strings.HasPrefix(out, "5D41402ABC4B2A76B9719D911017C592") {
		t.Errorf("decompressed digest = %q", out)
	}

	out, err = runCLI(t, "", "digest", "--alg", "md5", "--raw", path)
	if err != nil {
		t.Fatalf("digest --raw failed: %v", err)
	}
	md5, _ := digest.Lookup("md5")
	if want := md5.SumHex(compressed); !strings.HasPrefix(out, want) {
		t.Errorf("raw digest = %q, want %s", out, want)
	}
}

func TestDigestCmdGzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte("abc")); err != nil {
		t.Fatalf("gzip write failed: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close failed: %v", err)
	}
	path := createTestFile(t, t.TempDir(), "abc.gz", buf.Bytes())

	out, err := runCLI(t, "", "digest", "--alg", "sha1", path)
	if err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	if !strings.HasPrefix(out, "A9993E364706816ABA3E25717850C26C9CD0D89D") {
		t.Errorf("decompressed digest = %q", out)
	}
}

func TestDigestCmdMislabelledFile(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "plain.xz", []byte("not compressed"))

	_, err := runCLI(t, "", "digest", path)
	var ve *errors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *errors.ValidationError", err)
	}

	// --raw hashes the bytes as stored
	out, err := runCLI(t, "", "digest", "--raw", "--alg", "md5", path)
	if err != nil {
		t.Fatalf("digest --raw failed: %v", err)
	}
	md5, _ := digest.Lookup("md5")
	if !strings.HasPrefix(out, md5.SumHex([]byte("not compressed"))) {
		t.Errorf("raw digest = %q", out)
	}
}

func TestQueryCmdRejectsNonDatabase(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "notes.txt", []byte("just some notes"))

	_, err := runCLI(t, "", "query", "--db", path, "SELECT 1")
	var ve *errors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *errors.ValidationError", err)
	}
}

func TestDigestCmdBinary(t *testing.T) {
	out, err := runCLI(t, "hello", "digest", "--alg", "sha1", "--binary")
	if err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	sha1, _ := digest.Lookup("sha1")
	if !bytes.Equal([]byte(out), sha1.Sum([]byte("hello"))) {
		t.Errorf("binary output = %X", out)
	}
}

func TestDigestCmdErrors(t *testing.T) {
	_, err := runCLI(t, "", "digest", "--alg", "md4")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("unknown algorithm error = %v, want ErrNotFound", err)
	}

	_, err = runCLI(t, "", "digest", filepath.Join(t.TempDir(), "missing"))
	var ioErr *errors.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("missing file error = %v, want *errors.IOError", err)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := createTestFile(t, dir, "config.toml", []byte(`
[functions]
algorithms = ["sha1"]
hex = false

[log]
level = "warn"
`))

	out, err := runCLI(t, "", "--config", cfgPath, "functions")
	if err != nil {
		t.Fatalf("functions failed: %v", err)
	}
	if !strings.Contains(out, "sha1_concat") || strings.Contains(out, "_hex") || strings.Contains(out, "md5") {
		t.Errorf("config not applied:\n%s", out)
	}

	// Flags override the file
	out, err = runCLI(t, "", "--config", cfgPath, "--algorithms", "md5", "functions")
	if err != nil {
		t.Fatalf("functions failed: %v", err)
	}
	if !strings.Contains(out, "md5_concat") || strings.Contains(out, "sha1") {
		t.Errorf("flag did not override config:\n%s", out)
	}
}

func TestInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"log level", []string{"--log-level", "loud", "version"}},
		{"log format", []string{"--log-format", "xml", "version"}},
		{"algorithm", []string{"--algorithms", "md4", "functions"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			var ve *errors.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("error = %v, want *errors.ValidationError", err)
			}
		})
	}
}

func TestFormatCell(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{[]byte{0xde, 0xad}, "DEAD"},
		{[]byte{}, ""},
		{"text", "text"},
		{int64(-7), "-7"},
		{0.5, "0.5"},
		{true, "true"},
		{ts, "2024-01-15T10:30:00Z"},
	}
	for _, tt := range tests {
		if got := formatCell(tt.in); got != tt.want {
			t.Errorf("formatCell(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
