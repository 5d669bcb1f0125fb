// Command sqlite-hashes runs SQL against SQLite with the hashing functions
// installed, lists the available functions and algorithms, and hashes
// files the same way the SQL functions do.
package main

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/sqlite-hashes/core/digest"
	"github.com/FocuswithJustin/sqlite-hashes/core/errors"
	"github.com/FocuswithJustin/sqlite-hashes/core/functions"
	"github.com/FocuswithJustin/sqlite-hashes/core/sqlite"
	"github.com/FocuswithJustin/sqlite-hashes/internal/config"
	"github.com/FocuswithJustin/sqlite-hashes/internal/logging"
	"github.com/FocuswithJustin/sqlite-hashes/internal/validation"
)

const version = "0.1.0"

// Globals are flags shared by every command. They override the
// configuration file.
type Globals struct {
	Config      string   `name:"config" short:"c" help:"TOML configuration file" type:"existingfile" env:"SQLITE_HASHES_CONFIG"`
	LogLevel    string   `name:"log-level" help:"Log level (debug, info, warn, error)" env:"SQLITE_HASHES_LOG_LEVEL"`
	LogFormat   string   `name:"log-format" help:"Log format (text, json)" env:"SQLITE_HASHES_LOG_FORMAT"`
	Algorithms  []string `name:"algorithms" short:"a" help:"Algorithms to install, comma separated (default: all)" env:"SQLITE_HASHES_ALGORITHMS"`
	NoHex       bool     `name:"no-hex" help:"Do not install the ALG_hex variants" env:"SQLITE_HASHES_NO_HEX"`
	NoAggregate bool     `name:"no-aggregate" help:"Do not install the ALG_concat aggregates" env:"SQLITE_HASHES_NO_AGGREGATE"`
}

// CLI defines the command-line interface for sqlite-hashes.
type CLI struct {
	Globals

	Query      QueryCmd      `cmd:"" help:"Run SQL with the hashing functions installed"`
	Functions  FunctionsCmd  `cmd:"" help:"List the SQL functions that would be installed"`
	Algorithms AlgorithmsCmd `cmd:"" help:"List digest algorithms"`
	Digest     DigestCmd     `cmd:"" help:"Hash files or stdin"`
	Version    VersionCmd    `cmd:"" help:"Print version information"`
}

// runContext is bound into every command's Run method.
type runContext struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	config *config.Config
}

// options returns the registry options after flag overrides.
func (rc *runContext) options() functions.Options {
	return rc.config.FunctionOptions()
}

// resolve loads the configuration file and applies flag overrides.
func (g *Globals) resolve() (*config.Config, error) {
	cfg := config.Default()
	if g.Config != "" {
		loaded, err := config.Load(g.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if len(g.Algorithms) > 0 {
		cfg.Functions.Algorithms = g.Algorithms
	}
	if g.NoHex {
		cfg.Functions.Hex = false
	}
	if g.NoAggregate {
		cfg.Functions.Aggregate = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newParser(cli *CLI, stdout, stderr io.Writer, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("sqlite-hashes"),
		kong.Description("Hashing functions for SQLite"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(stdout, stderr),
	}, options...)
	return kong.New(cli, options...)
}

// execute runs the parsed command with logs going to stderr.
func (cli *CLI) execute(kctx *kong.Context, stdin io.Reader, stderr io.Writer) error {
	cfg, err := cli.Globals.resolve()
	if err != nil {
		return err
	}
	logging.InitLoggerTo(stderr, cfg.LogLevel(), cfg.LogFormat())

	runID := uuid.NewString()
	ctx := logging.WithRunID(context.Background(), runID)
	logging.DebugContext(ctx, "command_started",
		"command", kctx.Command(),
		"driver", sqlite.DriverType(),
	)

	return kctx.Run(&runContext{
		ctx:    ctx,
		stdin:  stdin,
		stdout: kctx.Stdout,
		config: cfg,
	})
}

// QueryCmd runs one SQL statement and prints its rows.
type QueryCmd struct {
	DB     string `name:"db" help:"Database path" default:":memory:"`
	Header bool   `help:"Print column names first"`
	SQL    string `arg:"" name:"sql" help:"SQL statement"`
}

func (c *QueryCmd) Run(rc *runContext) error {
	if err := checkDatabasePath(c.DB); err != nil {
		return err
	}
	db, err := sqlite.Open(c.DB, rc.options())
	if err != nil {
		return err
	}
	defer db.Close()

	start := time.Now()
	rows, err := db.QueryContext(rc.ctx, c.SQL)
	if err != nil {
		return errors.Wrap(err, "query failed")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return errors.Wrap(err, "failed to read columns")
	}
	if c.Header && len(cols) > 0 {
		fmt.Fprintln(rc.stdout, strings.Join(cols, "\t"))
	}

	n := 0
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	cells := make([]string, len(cols))
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return errors.Wrap(err, "failed to scan row")
		}
		for i, v := range vals {
			cells[i] = formatCell(v)
		}
		fmt.Fprintln(rc.stdout, strings.Join(cells, "\t"))
		n++
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "query failed")
	}

	logging.QueryExecutedContext(rc.ctx, sqlite.DriverType(), n, time.Since(start))
	return nil
}

// checkDatabasePath refuses existing files that are not SQLite databases.
// In-memory databases and URIs are passed through to the engine.
func checkDatabasePath(path string) error {
	if path == "" || strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file:") {
		return nil
	}
	if err := validation.ValidatePath(path); err != nil {
		return errors.NewValidation("db", err.Error())
	}
	ok, err := validation.IsSQLiteFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.NewIO("read", path, err)
	}
	if !ok {
		return errors.NewValidation("db", path+" is not a SQLite database")
	}
	return nil
}

// formatCell renders one result value: blobs as uppercase hex, NULL as NULL.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return digest.EncodeHex(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

// FunctionsCmd lists the SQL functions selected by the configuration.
type FunctionsCmd struct{}

func (c *FunctionsCmd) Run(rc *runContext) error {
	reg, err := functions.NewRegistry(rc.options())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(rc.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tALGORITHM\tRESULT")
	for _, fn := range reg.Functions() {
		result := "blob"
		if fn.HexOutput() {
			result = "text"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", fn.Name(), fn.Kind(), fn.Algorithm().Name, result)
	}
	return w.Flush()
}

// AlgorithmsCmd lists every digest algorithm.
type AlgorithmsCmd struct{}

func (c *AlgorithmsCmd) Run(rc *runContext) error {
	w := tabwriter.NewWriter(rc.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE")
	for _, alg := range digest.All() {
		fmt.Fprintf(w, "%s\t%d\n", alg.Name, alg.Size)
	}
	return w.Flush()
}

// DigestCmd hashes files the way ALG_hex hashes a single blob. Files named
// .xz or .gz are hashed decompressed unless Raw is set.
type DigestCmd struct {
	Alg    string   `name:"alg" short:"A" help:"Digest algorithm" default:"sha256"`
	Binary bool     `help:"Write raw digest bytes instead of hex lines"`
	Raw    bool     `help:"Hash .xz and .gz files as stored instead of decompressing them"`
	Files  []string `arg:"" optional:"" help:"Files to hash, - for stdin (default: stdin)"`
}

func (c *DigestCmd) Run(rc *runContext) error {
	alg, err := digest.Lookup(c.Alg)
	if err != nil {
		return err
	}

	files := c.Files
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, name := range files {
		sum, err := c.hashFile(rc, alg, name)
		if err != nil {
			return err
		}
		if c.Binary {
			if _, err := rc.stdout.Write(sum); err != nil {
				return errors.NewIO("write", "stdout", err)
			}
			continue
		}
		fmt.Fprintf(rc.stdout, "%s  %s\n", digest.EncodeHex(sum), name)
	}
	return nil
}

func (c *DigestCmd) hashFile(rc *runContext, alg digest.Algorithm, name string) ([]byte, error) {
	var r io.Reader = rc.stdin
	if name != "-" {
		if err := validation.ValidatePath(name); err != nil {
			return nil, errors.NewValidation("file", err.Error())
		}
		f, err := os.Open(name)
		if err != nil {
			return nil, errors.NewIO("open", name, err)
		}
		defer f.Close()
		r = f

		if !c.Raw {
			if r, err = decompress(f, name); err != nil {
				return nil, err
			}
		}
	}

	acc := functions.NewAccumulator(alg)
	// An empty input is still a value: hash zero bytes.
	acc.AddValue(nil)
	n, err := io.Copy(acc, r)
	if err != nil {
		return nil, errors.NewIO("read", name, err)
	}
	sum, _ := acc.Finalize()
	logging.DebugContext(rc.ctx, "file_hashed", "file", name, "algorithm", alg.Name, "bytes", n)
	return sum, nil
}

// decompress unwraps .xz and .gz files. Other files are returned as-is.
func decompress(f io.Reader, name string) (io.Reader, error) {
	ft, r, err := validation.Sniff(f)
	if err != nil {
		return nil, errors.NewIO("read", name, err)
	}
	if err := validation.CheckFileType(name, ft); err != nil {
		return nil, errors.NewValidation("file", name+": "+err.Error())
	}
	switch validation.FileTypeFromExtension(name) {
	case validation.FileTypeXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, errors.NewIO("decompress", name, err)
		}
		return xr, nil
	case validation.FileTypeGzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.NewIO("decompress", name, err)
		}
		return gr, nil
	default:
		return r, nil
	}
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(rc *runContext) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(rc.stdout, "sqlite-hashes version %s (%s, %s)\n", version, info.DriverType, info.Package)
	return nil
}

func main() {
	var cli CLI
	parser, err := newParser(&cli, os.Stdout, os.Stderr)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = cli.execute(ctx, os.Stdin, os.Stderr)
	ctx.FatalIfErrorf(err)
}
