// Package cmd implements the `xuc` command-line driver.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ComedicChimera/olive"

	"xuc/common"
	"xuc/report"
)

// Execute is the main entry point for the `xuc` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("xuc", "xuc checks parsed modules and lowers them to three-address code", true)
	cli.AddSelectorArg("loglevel", "ll", "the checker log level", false, report.LogLevelNames)

	checkCmd := cli.AddSubcommand("check", "check AST documents and emit their code", true)
	checkCmd.AddPrimaryArg("path", "the AST document or directory of documents to check", true)
	checkCmd.AddStringArg("emit", "e", "the output format: listing, json, cbor, or none", false)
	checkCmd.AddStringArg("outpath", "o", "the directory to write hand-off files to", false)
	checkCmd.AddStringArg("caching", "c", "whether analyses are cached: on or off", false)

	cli.AddSubcommand("version", "print the xuc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.NewReporter(os.Stdout, report.LogLevelError).ReportFatal("%s", err)
	}

	// the log level is only overridden if it was given explicitly
	logLevel, _ := result.Arguments["loglevel"].(string)

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "check":
		os.Exit(execCheckCommand(subResult, logLevel))
	case "version":
		fmt.Printf("%s %s\n", report.InfoColorFG.Sprint("xuc version"), common.XucVersion)
	}
}

// execCheckCommand executes the check subcommand and returns the exit code.
func execCheckCommand(result *olive.ArgParseResult, logLevel string) int {
	fatal := report.NewReporter(os.Stdout, report.LogLevelError)

	rootRelPath, _ := result.PrimaryArg()
	rootPath, err := filepath.Abs(rootRelPath)
	if err != nil {
		fatal.ReportFatal("%s", err)
	}

	cfg, err := loadConfig(rootPath, result, logLevel)
	if err != nil {
		fatal.ReportFatal("%s", err)
	}

	level, _ := report.ParseLogLevel(cfg.LogLevel)
	rep := report.NewReporter(os.Stdout, level)

	c := NewCompiler(rootPath, cfg, rep, os.Stdout)
	return c.Run(context.Background())
}

// loadConfig builds the configuration of a check run: the defaults, then the
// project file, then the command-line options.
func loadConfig(rootPath string, result *olive.ArgParseResult, logLevel string) (*Config, error) {
	projectDir := rootPath
	if finfo, err := os.Stat(rootPath); err != nil {
		return nil, err
	} else if !finfo.IsDir() {
		projectDir = filepath.Dir(rootPath)
	}

	cfg := defaultConfig(projectDir)
	if err := loadProjectFile(projectDir, cfg); err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if emit, ok := result.Arguments["emit"].(string); ok {
		cfg.Emit = emit
	}

	// paths given on the command line are relative to the working directory
	if outPath, ok := result.Arguments["outpath"].(string); ok {
		absOutPath, err := filepath.Abs(outPath)
		if err != nil {
			return nil, err
		}

		cfg.OutputPath = absOutPath
	}

	if caching, ok := result.Arguments["caching"].(string); ok {
		switch caching {
		case "on":
			cfg.Caching = true
		case "off":
			cfg.Caching = false
		default:
			return nil, fmt.Errorf("invalid caching setting `%s`: expected `on` or `off`", caching)
		}
	}

	if err := cfg.validate(projectDir); err != nil {
		return nil, err
	}

	return cfg, nil
}
