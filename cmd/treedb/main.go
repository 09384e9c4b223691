package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli"

	"treeDB/internal/applog"
	"treeDB/internal/engine"
	"treeDB/internal/repl"
	"treeDB/internal/storage/filestore"
	"treeDB/internal/storage/memstore"
)

// Configuration is everything the command line controls.
type Configuration struct {
	File       string
	Dir        string
	LogLevel   string
	ParseCache int
	NoColor    bool
	Load       bool
}

func main() {
	app := cli.NewApp()
	app.Name = "treedb"
	app.Usage = "embedded SQL engine with AVL-indexed in-memory tables"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "file, f",
			Value:  "treedb.db",
			EnvVar: "TREEDB_FILE",
			Usage:  "snapshot file used by LOAD and a bare SAVE",
		},
		cli.StringFlag{
			Name:   "dir, d",
			Value:  ".",
			EnvVar: "TREEDB_DIR",
			Usage:  "directory relative snapshot names are resolved against",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "WARNING",
			Usage: "CRITICAL, ERROR, WARNING, NOTICE, INFO or DEBUG (" + applog.EnvLogLevel + " overrides)",
		},
		cli.IntFlag{
			Name:  "parse-cache",
			Value: 128,
			Usage: "number of parsed statements to cache, 0 disables",
		},
		cli.BoolFlag{Name: "no-color", Usage: "disable colored output"},
		cli.BoolFlag{Name: "load", Usage: "load --file before reading statements"},
	}
	app.Action = replCommand
	app.Commands = []cli.Command{
		cli.Command{
			Name:   "repl",
			Usage:  "read statements interactively (default)",
			Action: replCommand,
		},
		cli.Command{
			Name:      "exec",
			Usage:     "run ';'-separated statements from the arguments or stdin",
			ArgsUsage: "[statements]",
			Action:    execCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseConfiguration(c *cli.Context) Configuration {
	return Configuration{
		File:       c.GlobalString("file"),
		Dir:        c.GlobalString("dir"),
		LogLevel:   c.GlobalString("log-level"),
		ParseCache: c.GlobalInt("parse-cache"),
		NoColor:    c.GlobalBool("no-color"),
		Load:       c.GlobalBool("load"),
	}
}

// startEngine wires the storage, persistence and engine layers together.
func startEngine(config Configuration) (*engine.DBEngine, error) {
	level, err := applog.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	applog.Setup(os.Stderr, level, !config.NoColor && isatty.IsTerminal(os.Stderr.Fd()))

	files, err := filestore.New(config.Dir)
	if err != nil {
		return nil, err
	}

	eng := engine.New(memstore.New(), engine.Config{
		Files:          files,
		DefaultFile:    config.File,
		ParseCacheSize: config.ParseCache,
	})
	if err := eng.Start(); err != nil {
		return nil, err
	}

	if config.Load {
		if err := eng.Load(config.File); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

func replCommand(c *cli.Context) error {
	config := parseConfiguration(c)
	eng, err := startEngine(config)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd())
	r := repl.New(eng, os.Stdout, repl.Options{
		Prompt: interactive,
		Color:  !config.NoColor && isatty.IsTerminal(os.Stdout.Fd()),
	})
	if err := r.Run(os.Stdin); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}

func execCommand(c *cli.Context) error {
	config := parseConfiguration(c)
	eng, err := startEngine(config)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	script := strings.Join(c.Args(), " ")
	if strings.TrimSpace(script) == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		script = string(b)
	}

	r := repl.New(eng, os.Stdout, repl.Options{
		Color: !config.NoColor && isatty.IsTerminal(os.Stdout.Fd()),
	})
	if err := r.Exec(script); err != nil {
		// already printed by the REPL
		return cli.NewExitError("", 1)
	}
	return nil
}
