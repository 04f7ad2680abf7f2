// Command bitwire scans Go source files for @bitwire-annotated structs and
// enumerations and generates the marshal/unmarshal routines described in
// SPEC_FULL.md. Grounded on the teacher's cmd/parse/main.go, generalized
// from a single-file printer into a multi-file generator with a bounded
// worker pool, per the ambient-CLI convention of tools like stringer and
// mockgen.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/waddleflap/bitwire/internal/analyze"
	"github.com/waddleflap/bitwire/internal/classify"
	"github.com/waddleflap/bitwire/internal/codegen"
	"github.com/waddleflap/bitwire/internal/config"
	"github.com/waddleflap/bitwire/internal/diag"
	"github.com/waddleflap/bitwire/internal/tag"
)

func main() {
	var (
		configPath = flag.String("config", "bitwire.toml", "path to generator config")
		verbose    = flag.Bool("v", false, "structured progress logging")
		dumpLayout = flag.Bool("dump-layout", false, "print each aggregate's analyzed layout as YAML instead of generating code")
		workers    = flag.Int("j", runtime.NumCPU(), "maximum number of files processed concurrently")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file.go> [file.go ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "bitwire: logger init: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bitwire: %v\n", err)
		os.Exit(1)
	}

	if err := run(flag.Args(), cfg, logger, *dumpLayout, *workers); err != nil {
		fmt.Fprintf(os.Stderr, "bitwire: %v\n", err)
		os.Exit(1)
	}
}

func run(paths []string, cfg *config.Config, logger *zap.Logger, dumpLayout bool, workers int) error {
	files := make([]*tag.File, len(paths))
	for i, path := range paths {
		f, err := tag.ParseFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, agg := range f.Aggregates {
			if agg.Anno != nil && agg.Anno.Endian == "" {
				agg.Anno.Endian = cfg.DefaultEndian
			}
		}
		files[i] = f
	}

	reg, collector := buildRegistry(files)
	if collector.HasErrors() {
		diag.Render(os.Stderr, collector.Items())
		return fmt.Errorf("%d aggregate(s) could not be placed in the registry", len(collector.Items()))
	}

	if dumpLayout {
		return dumpLayouts(files, reg)
	}

	return generateAll(paths, files, reg, cfg, logger, workers)
}

// pendingAggregate is an aggregate awaiting analysis; diagnostics are
// attributed through the aggregate's own name and position.
type pendingAggregate struct {
	agg *tag.Aggregate
}

// buildRegistry registers every enumeration (which never depends on
// another aggregate's size) and then repeatedly analyzes whichever
// aggregates it can, feeding each success's resolved size back into the
// registry, until a full pass makes no further progress. This lets
// aggregates nest other aggregates declared in any file, in any order,
// without requiring the caller to pre-sort declarations topologically.
func buildRegistry(files []*tag.File) (*classify.Registry, *diag.Collector) {
	reg := classify.NewRegistry()
	collector := &diag.Collector{}

	for _, f := range files {
		for _, enum := range f.Enumerations {
			reg.RegisterEnum(enum.Name, enum.Underlying, enum.Anno.FlagEnum)
		}
	}

	var todo []pendingAggregate
	for _, f := range files {
		for _, agg := range f.Aggregates {
			todo = append(todo, pendingAggregate{agg})
		}
	}

	for len(todo) > 0 {
		var remaining []pendingAggregate
		var remainingErrs [][]error
		progressed := false
		for _, p := range todo {
			plan, errs := analyze.Analyze(p.agg, reg)
			if len(errs) != 0 {
				remaining = append(remaining, p)
				remainingErrs = append(remainingErrs, errs)
				continue
			}
			if !plan.HasUnboundedTail {
				reg.RegisterAggregate(p.agg.Name, plan.TotalBytes())
			}
			progressed = true
		}
		if !progressed {
			for i, p := range remaining {
				for _, err := range remainingErrs[i] {
					collector.Addf(p.agg.Name, "", p.agg.Pos, "%v", err)
				}
			}
			break
		}
		todo = remaining
	}
	return reg, collector
}

func dumpLayouts(files []*tag.File, reg *classify.Registry) error {
	type fieldDump struct {
		Name      string `yaml:"name"`
		Kind      string `yaml:"kind"`
		BitOffset uint64 `yaml:"bit_offset"`
		BitWidth  uint64 `yaml:"bit_width"`
		ByteOrder string `yaml:"byte_order"`
	}
	type planDump struct {
		Type             string      `yaml:"type"`
		TotalBits        uint64      `yaml:"total_bits"`
		HasUnboundedTail bool        `yaml:"has_unbounded_tail"`
		Fields           []fieldDump `yaml:"fields"`
	}

	var dumps []planDump
	for _, f := range files {
		for _, agg := range f.Aggregates {
			plan, errs := analyze.Analyze(agg, reg)
			if len(errs) != 0 {
				return fmt.Errorf("%s: %v", agg.Name, errs[0])
			}
			pd := planDump{Type: plan.TypeName, TotalBits: plan.TotalBits, HasUnboundedTail: plan.HasUnboundedTail}
			for _, pf := range plan.Fields {
				pd.Fields = append(pd.Fields, fieldDump{
					Name:      pf.Name,
					Kind:      pf.Kind.String(),
					BitOffset: uint64(pf.BitOffset),
					BitWidth:  pf.BitWidth,
					ByteOrder: pf.ByteOrder,
				})
			}
			dumps = append(dumps, pd)
		}
	}

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(dumps)
}

func generateAll(paths []string, files []*tag.File, reg *classify.Registry, cfg *config.Config, logger *zap.Logger, workers int) error {
	if workers < 1 {
		workers = 1
	}

	type job struct {
		index int
		path  string
		file  *tag.File
	}
	jobs := make(chan job)
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				start := time.Now()
				err := generateOne(j.path, j.file, reg, cfg)
				logger.Debug("generated file",
					zap.String("path", j.path),
					zap.Duration("elapsed", time.Since(start)),
					zap.Error(err),
				)
				errs[j.index] = err
			}
		}()
	}

	go func() {
		for i, f := range files {
			jobs <- job{i, paths[i], f}
		}
		close(jobs)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func generateOne(path string, file *tag.File, reg *classify.Registry, cfg *config.Config) error {
	if len(file.Aggregates) == 0 && len(file.Enumerations) == 0 {
		return nil
	}

	if cfg.PackageOverride != "" {
		file.PackageName = cfg.PackageOverride
	}

	code, err := codegen.AssembleFile(file, reg)
	if err != nil {
		return fmt.Errorf("generating %s: %w", path, err)
	}

	outPath := outputPath(path, cfg.OutputSuffix)
	return os.WriteFile(outPath, []byte(code), 0o644)
}

func outputPath(sourcePath, suffix string) string {
	dir := filepath.Dir(sourcePath)
	base := strings.TrimSuffix(filepath.Base(sourcePath), ".go")
	return filepath.Join(dir, base+suffix)
}
