package main

import (
	"context"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/porytiles/porytiles"
	"github.com/urfave/cli/v2"
)

const defaultDB = "porytiles.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newPorytiles(c *cli.Context) (*porytiles.Porytiles, error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	cfg, err := porytiles.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	var db *porytiles.CompileDB
	if c.String("db") != "" {
		db, err = porytiles.NewCompileDB(c.String("db"))
		if err != nil {
			return nil, err
		}
	}

	return porytiles.New(db, cfg, logger), nil
}

func main() {
	app := cli.NewApp()

	app.Name = "porytiles"
	app.Usage = "Layered tileset compiler for GBA fieldmap projects"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PORYTILES_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to compile cache database, empty to disable",
		},
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"PORYTILES_CONFIG"},
			Value:   filepath.Join(cwd, porytiles.ConfigFile),
			Usage:   "path to project configuration",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "compile-primary",
			Usage:       "Compile a primary tileset",
			Description: "",
			ArgsUsage:   "SRCDIR OUTDIR",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := newPorytiles(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if _, err := p.CompilePrimary(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "compile-secondary",
			Usage:       "Compile a secondary tileset against its paired primary",
			Description: "",
			ArgsUsage:   "SRCDIR PRIMARYDIR OUTDIR",
			Action: func(c *cli.Context) error {
				if c.NArg() < 3 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := newPorytiles(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if _, err := p.CompileSecondary(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "watch",
			Usage:       "Watch a primary tileset directory and recompile on change",
			Description: "",
			ArgsUsage:   "SRCDIR OUTDIR",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := newPorytiles(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()

				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				go func() {
					<-sigCh
					cancel()
				}()

				if err := p.Watch(ctx, c.Args().Get(0), c.Args().Get(1)); err != nil && err != context.Canceled {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
