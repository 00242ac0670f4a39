package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/asset"
	"github.com/gogpu/shaderkit/backend"
	"github.com/gogpu/shaderkit/backend/native"
	"github.com/gogpu/shaderkit/gpucore"
	"github.com/gogpu/shaderkit/internal/config"
	"github.com/gogpu/shaderkit/shader"
	"github.com/gogpu/shaderkit/shader/managed"
	"github.com/gogpu/shaderkit/ssl"
)

// readFile reads a file from disk through an asset folder, so BOMs and
// UTF-16 are handled the same way as for managed programs.
func readFile(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	return asset.NewFolder(filepath.Dir(abs)).ReadToString(asset.NewPath("/" + filepath.Base(abs)))
}

func parseFile(name string, strict bool) (*ssl.ParsedSource, error) {
	text, err := readFile(name)
	if err != nil {
		return nil, err
	}
	opts := []ssl.ParseOption{ssl.WithDialect(ssl.DialectForPath(name))}
	if strict {
		opts = append(opts, ssl.WithStrict())
	}
	src, err := ssl.Parse(text, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return src, nil
}

func runTranspile(unitPath string, includes []string, strict bool, outPath string) error {
	unit, err := parseFile(unitPath, strict)
	if err != nil {
		return err
	}
	var topts []ssl.TranspileOption
	if strict {
		topts = append(topts, ssl.WithStrictImports())
	}
	t := ssl.NewTranspiler(unit, topts...)
	for _, inc := range includes {
		src, err := parseFile(inc, strict)
		if err != nil {
			return err
		}
		t.AddInclude(src)
	}

	out, err := t.Transpile()
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err = io.WriteString(os.Stdout, out)
		return err
	}
	return os.WriteFile(outPath, []byte(out), 0o644)
}

func openDevice(cfg *config.Config) (gpucore.Device, error) {
	if cfg.Backend.Name == "" {
		return backend.Default()
	}
	return backend.Get(cfg.Backend.Name)
}

func programOptions(cfg *config.Config) []managed.Option {
	copts := shader.DefaultCompileOptions()
	copts.CaptureSuccessLog = cfg.Shader.CaptureSuccessLog
	lopts := shader.DefaultLinkOptions()
	lopts.CaptureSuccessLog = cfg.Shader.CaptureSuccessLog

	opts := []managed.Option{managed.WithCompileOptions(copts), managed.WithLinkOptions(lopts)}
	if cfg.Shader.StrictParse {
		opts = append(opts, managed.WithStrictParse())
	}
	if cfg.Shader.StrictImports {
		opts = append(opts, managed.WithStrictImports())
	}
	return opts
}

// descriptorPath turns a command-line argument into an absolute asset path.
func descriptorPath(arg string) asset.Path {
	p := filepath.ToSlash(arg)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return asset.NewPath(p)
}

func printReport(w io.Writer, mp *managed.ManagedProgram, r managed.RecompileReport) {
	fmt.Fprintf(w, "%s\n", mp.Path())
	stages := make([]gpucore.ShaderStage, 0, len(r.Compile))
	for s := range r.Compile {
		stages = append(stages, s)
	}
	slices.Sort(stages)
	for _, s := range stages {
		c := r.Compile[s]
		fmt.Fprintf(w, "  %-15s %s\n", s, c.Status)
		printLog(w, c.Log)
	}
	fmt.Fprintf(w, "  %-15s %s\n", "link", r.Link.Status)
	printLog(w, r.Link.Log)
}

func printLog(w io.Writer, log string) {
	for _, line := range strings.Split(strings.TrimRight(log, "\n"), "\n") {
		if line != "" {
			fmt.Fprintf(w, "      %s\n", line)
		}
	}
}

func runCheck(w io.Writer, cfg *config.Config, arg string) error {
	dev, err := openDevice(cfg)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	mp := managed.New(descriptorPath(arg), asset.NewFolder(cfg.Assets.Root), dev, programOptions(cfg)...)
	defer mp.Dispose()
	if err := mp.ReloadFromAsset(); err != nil {
		return err
	}
	r := mp.DoRecompile()
	printReport(w, mp, r)
	if !r.OK() {
		return fmt.Errorf("%s failed on backend %s", mp.Path(), dev.Name())
	}
	return nil
}

func runWatch(ctx context.Context, w io.Writer, cfg *config.Config, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev, err := openDevice(cfg)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	res := asset.NewFolder(cfg.Assets.Root)
	watcher, err := managed.NewWatcher(res)
	if err != nil {
		return err
	}
	defer watcher.Close()

	programs := make([]*managed.ManagedProgram, 0, len(args))
	for _, arg := range args {
		mp := managed.New(descriptorPath(arg), res, dev, programOptions(cfg)...)
		defer mp.Dispose()
		programs = append(programs, mp)
	}
	reload(w, watcher, programs)

	log := shaderkit.Logger()
	log.Info("watching shader programs", "programs", len(programs), "root", res.Root())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-watcher.Changes():
		}
		// Editors often write a file in several steps.
		if cfg.Watch.Debounce > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(cfg.Watch.Debounce):
			}
		}
		reload(w, watcher, watcher.Pending())
	}
}

// reload rebuilds programs and re-registers their dependencies, which may
// have changed. A failed reload keeps the previous program.
func reload(w io.Writer, watcher *managed.Watcher, programs []*managed.ManagedProgram) {
	for _, mp := range programs {
		err := mp.ReloadFromAsset()
		if werr := watcher.Watch(mp); werr != nil {
			err = errors.Join(err, werr)
		}
		if err != nil {
			fmt.Fprintf(w, "%s\n  reload failed: %v\n", mp.Path(), err)
			continue
		}
		if mp.NeedsRecompile() {
			printReport(w, mp, mp.DoRecompile())
		}
	}
}

func runTranslate(w io.Writer, path, stageName, entry string) error {
	stage, err := gpucore.ParseShaderStage(stageName)
	if err != nil {
		return err
	}
	src, err := readFile(path)
	if err != nil {
		return err
	}
	code, err := native.TranslateGLSL(src, stage, entry)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, code)
	return err
}

func runBackends(w io.Writer) {
	for _, name := range backend.Available() {
		fmt.Fprintln(w, name)
	}
}
