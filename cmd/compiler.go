package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"xuc/ast"
	"xuc/cache"
	"xuc/common"
	"xuc/report"
	"xuc/walk"
)

// The exit codes of a check run.
const (
	exitSuccess = 0
	exitFailure = 1
	exitICE     = -1
)

// Compiler represents the state of a single check run.
type Compiler struct {
	// rootAbsPath is the absolute path to the AST document or directory of
	// documents being checked.
	rootAbsPath string

	cfg *Config
	rep *report.Reporter

	// out is where listings are displayed.
	out io.Writer

	// modules is the list of AST documents to check in display order.
	modules []*moduleFile

	// cache is the analysis cache.  This is nil if caching is disabled or the
	// cache could not be opened.
	cache *cache.Cache
}

// moduleFile is a single AST document and the outcome of checking it.
type moduleFile struct {
	// The absolute path to the document.
	absPath string

	// The path to the document displayed to the user.
	reprPath string

	// The analysis of the module.  This is nil if checking failed.
	result *walk.Result
}

// NewCompiler creates a new compiler.
func NewCompiler(rootAbsPath string, cfg *Config, rep *report.Reporter, out io.Writer) *Compiler {
	return &Compiler{
		rootAbsPath: rootAbsPath,
		cfg:         cfg,
		rep:         rep,
		out:         out,
	}
}

// Run checks every module and emits the results.  It returns the process exit
// code: internal errors are caught here and reported.
func (c *Compiler) Run(ctx context.Context) (exitCode int) {
	var ice *report.InternalError
	defer func() {
		if ice != nil {
			c.rep.ReportICE(ice)
			exitCode = exitICE
		}
	}()
	defer report.CatchICE(&ice)

	if err := c.collectModules(); err != nil {
		c.rep.ReportStdError(c.rootAbsPath, err)
		return exitFailure
	}

	if c.cfg.Caching {
		cc, err := cache.Open(c.cfg.CacheDirectory)
		if err != nil {
			c.rep.ReportWarning(c.cfg.CacheDirectory, "caching disabled: %s", err)
		} else {
			c.cache = cc
			defer c.cache.Close()

			if n, err := c.cache.Len(ctx); err == nil {
				c.rep.Tracef("analysis cache holds %d entries", n)
			}
		}
	}

	c.rep.ReportBeginPhase("Checking")
	c.check(ctx)
	c.rep.ReportEndPhase()

	if !c.rep.AnyErrors() {
		c.rep.ReportBeginPhase("Emitting")
		c.emit()
		c.rep.ReportEndPhase()
	}

	codeCount := 0
	for _, mf := range c.modules {
		if mf.result != nil {
			codeCount += len(mf.result.Codes)
		}
	}

	c.rep.ReportCompilationFinished(len(c.modules), codeCount)

	if c.rep.AnyErrors() {
		return exitFailure
	}

	return exitSuccess
}

// collectModules finds the AST documents to check: either the root itself or
// every document directly inside it.
func (c *Compiler) collectModules() error {
	finfo, err := os.Stat(c.rootAbsPath)
	if err != nil {
		return err
	}

	if !finfo.IsDir() {
		c.modules = []*moduleFile{{absPath: c.rootAbsPath, reprPath: filepath.Base(c.rootAbsPath)}}
		return nil
	}

	entries, err := os.ReadDir(c.rootAbsPath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), common.ASTFileExt) {
			c.modules = append(c.modules, &moduleFile{
				absPath:  filepath.Join(c.rootAbsPath, entry.Name()),
				reprPath: entry.Name(),
			})
		}
	}

	if len(c.modules) == 0 {
		return fmt.Errorf("no `*%s` documents found", common.ASTFileExt)
	}

	sort.Slice(c.modules, func(i, j int) bool {
		return c.modules[i].reprPath < c.modules[j].reprPath
	})

	return nil
}

// check checks all the modules concurrently.  An internal error in any module
// is re-raised once every module has finished.
func (c *Compiler) check(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, mf := range c.modules {
		mf := mf
		g.Go(func() (err error) {
			var ice *report.InternalError
			defer func() {
				if ice != nil {
					err = ice
				}
			}()
			defer report.CatchICE(&ice)

			mf.result = c.checkModule(gctx, mf)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var ice *report.InternalError
		if errors.As(err, &ice) {
			panic(ice)
		}

		report.ReportICE("unexpected error checking modules: %s", err)
	}
}

// checkModule checks a single module.  All errors are reported: the returned
// result is nil if the module failed.
func (c *Compiler) checkModule(ctx context.Context, mf *moduleFile) *walk.Result {
	document, err := os.ReadFile(mf.absPath)
	if err != nil {
		c.rep.ReportStdError(mf.reprPath, err)
		return nil
	}

	var key string
	if c.cache != nil {
		key = cache.Key(document)

		res, ok, err := c.cache.Lookup(ctx, key)
		if err != nil {
			c.rep.ReportWarning(mf.reprPath, "unable to read cached analysis: %s", err)
		} else if ok {
			c.rep.Tracef("using cached analysis of `%s`", mf.reprPath)
			return res
		}
	}

	mod, err := ast.Decode(document)
	if err != nil {
		c.rep.ReportStdError(mf.reprPath, err)
		return nil
	}

	res, err := walk.NewWalker(c.rep).WalkModule(mod)
	if err != nil {
		var lce *report.LocalCompileError
		if errors.As(err, &lce) {
			// Positions refer to the source file the document was produced
			// from, which sits next to the document.
			reprPath := mod.Filename
			if reprPath == "" {
				reprPath = mf.reprPath
			}

			srcPath := resolvePath(filepath.Dir(mf.absPath), reprPath)
			c.rep.ReportCompileError(srcPath, reprPath, lce.Span, "%s", lce.Message)
		} else {
			c.rep.ReportStdError(mf.reprPath, err)
		}

		return nil
	}

	if c.cache != nil {
		if err := c.cache.Store(ctx, key, res); err != nil {
			c.rep.ReportWarning(mf.reprPath, "unable to cache analysis: %s", err)
		}
	}

	return res
}

// emit displays or writes the results of every module in order.
func (c *Compiler) emit() {
	for _, mf := range c.modules {
		switch c.cfg.Emit {
		case EmitListing:
			listing, err := renderListing(mf.result)
			if err != nil {
				c.rep.ReportStdError(mf.reprPath, err)
				continue
			}

			fmt.Fprint(c.out, listing)
		case EmitJSON, EmitCBOR:
			path, err := writeHandOff(c.cfg.OutputPath, mf.absPath, mf.result, c.cfg.Emit)
			if err != nil {
				c.rep.ReportStdError(mf.reprPath, err)
				continue
			}

			c.rep.Tracef("wrote `%s`", path)
		}
	}
}
