package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/campuslf/reclaim/internal/config"
	"github.com/campuslf/reclaim/internal/db"
	"github.com/campuslf/reclaim/internal/store"
)

const usage = `Usage: reclaim <command> [flags]

Public commands:
  browse      list catalog items with filters
  claim       submit an ownership claim against an item

Staff commands:
  login       start a staff session
  logout      end the staff session
  whoami      show the active session
  staff       manage staff accounts (add)
  item        manage items (add, edit, status, delete, photo)
  claims      review claims (list, approve, reject, return)
  stats       building dashboard counts

Setup:
  init        create the database and the first staff account
  seed        load demo items into an empty catalog

Common flags (every command):
  -db <path>      SQLite database path (overrides config)
  -config <path>  config file path (default: reclaim.yaml)
  -log <path>     log file path (default: no file, stdout/stderr only)
`

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "-help" || os.Args[1] == "help" {
		fmt.Fprint(os.Stdout, usage)
		if len(os.Args) < 2 {
			os.Exit(1)
		}
		return
	}

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "init":
		err = cmdInit(args)
	case "seed":
		err = cmdSeed(args)
	case "browse":
		err = cmdBrowse(args)
	case "claim":
		err = cmdClaim(args)
	case "login":
		err = cmdLogin(args)
	case "logout":
		err = cmdLogout(args)
	case "whoami":
		err = cmdWhoami(args)
	case "staff":
		err = cmdStaff(args)
	case "item":
		err = cmdItem(args)
	case "claims":
		err = cmdClaims(args)
	case "stats":
		err = cmdStats(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n%s", cmd, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR
// goes to stderr. If logPath is non-empty, all levels are also written to
// that file. Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// env is the shared command environment: loaded config, an open migrated
// database, and the session signing secret.
type env struct {
	cfg      config.Config
	database *sql.DB
	secret   string
	closeLog func()
}

func (e *env) Close() {
	if e.database != nil {
		e.database.Close()
	}
	if e.closeLog != nil {
		e.closeLog()
	}
}

// commonFlags registers the flags shared by every command.
func commonFlags(fs *flag.FlagSet) (dbPath, cfgPath, logPath *string) {
	dbPath = fs.String("db", "", "SQLite database path (overrides config)")
	cfgPath = fs.String("config", config.DefaultPath, "config file path")
	logPath = fs.String("log", "", "log file path")
	return
}

// openEnv loads the config, sets up logging, and opens the database.
func openEnv(dbPath, cfgPath, logPath string) (*env, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logPath != "" {
		cfg.LogPath = logPath
	}

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		if closeLog != nil {
			closeLog()
		}
		return nil, err
	}

	if err := db.Migrate(database); err != nil {
		database.Close()
		if closeLog != nil {
			closeLog()
		}
		return nil, err
	}

	secret, err := store.GetSigningSecret(context.Background(), database)
	if err != nil {
		database.Close()
		if closeLog != nil {
			closeLog()
		}
		return nil, err
	}

	return &env{cfg: cfg, database: database, secret: secret, closeLog: closeLog}, nil
}
