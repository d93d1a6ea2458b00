// Package extract implements the Extraction Driver: it builds the Type
// Registry, partitions syntax trees for bounded-parallel analysis, runs
// all four call-site analyzers over each tree, merges and sorts the
// results, and computes the cross-record summary views.
package extract

import (
	"context"
	"fmt"
	"go/types"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"codenerd/logprobe/internal/analyzers"
	"codenerd/logprobe/internal/registry"
	"codenerd/logprobe/internal/snapshot"
	"codenerd/logprobe/internal/template"
	logprobetypes "codenerd/logprobe/internal/types"
)

// Options mirrors the extraction core's recognized configuration record.
type Options struct {
	EnhancedErrors         bool
	LogExtractionAttempts  bool
	LogExtractionFailures  bool
	ContinueOnFailure      bool
	CollectErrorStats      bool

	// Workers bounds parallel tree dispatch. Zero selects a sane default.
	Workers int
}

// DefaultOptions matches the core's documented defaults.
func DefaultOptions() Options {
	return Options{
		LogExtractionFailures: true,
		ContinueOnFailure:     true,
	}
}

// ProgressSink receives (current, total, message) tuples as trees
// complete. A sink that panics is recovered and logged; extraction
// continues.
type ProgressSink func(current, total int, message string)

// Extract runs one extraction pass over snap. ctx carries cooperative
// cancellation: analysis checks ctx.Err() between trees and, on
// cancellation, returns whatever records completed so far with
// Partial set.
func Extract(ctx context.Context, snap snapshot.Snapshot, spec registry.Spec, opts Options, progress ProgressSink, log *zap.Logger) logprobetypes.ExtractionResult {
	if log == nil {
		log = zap.NewNop()
	}
	trees := snap.Trees()
	total := len(trees)
	if total == 0 {
		return logprobetypes.ExtractionResult{Summary: emptySummary()}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 8
	}

	var (
		mu       sync.Mutex
		records  []logprobetypes.UsageRecord
		done     int
		errStats = map[string]int{}
	)

	regCache := &registryCache{spec: spec}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, tree := range trees {
		tree := tree
		group.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			recs, failures := analyzeTreeSafely(tree, snap, regCache, opts, log)

			mu.Lock()
			records = append(records, recs...)
			done++
			current := done
			if opts.CollectErrorStats {
				for _, name := range failures {
					errStats[name]++
				}
			}
			mu.Unlock()

			reportProgress(progress, current, total, tree.Path, log)
			return nil
		})
	}
	_ = group.Wait()

	partial := ctx.Err() != nil && done < total

	sort.SliceStable(records, func(i, j int) bool {
		return lessLocation(records[i].Location, records[j].Location)
	})

	result := logprobetypes.ExtractionResult{
		Records: records,
		Summary: computeSummary(records),
		Partial: partial,
	}
	if opts.CollectErrorStats && len(errStats) > 0 {
		log.Info("extraction error stats", zap.Any("stats", errStats))
	}
	return result
}

// registryCache builds one Registry per distinct *types.Package
// encountered across trees, since a multi-package compilation may carry
// more than one resolvable package.
type registryCache struct {
	spec registry.Spec

	mu    sync.Mutex
	byPkg map[*types.Package]*registry.Registry
}

func (c *registryCache) forTree(snap snapshot.Snapshot, t snapshot.Tree) *registry.Registry {
	pkg := snap.Package(t)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byPkg == nil {
		c.byPkg = make(map[*types.Package]*registry.Registry)
	}
	if reg, ok := c.byPkg[pkg]; ok {
		return reg
	}
	reg := registry.Build(pkg, c.spec)
	c.byPkg[pkg] = reg
	return reg
}

// analyzeTreeSafely runs every analyzer over one tree, recovering from a
// panic in any single analyzer per the per-tree-exception policy: log,
// skip that analyzer's contribution, continue the others.
func analyzeTreeSafely(t snapshot.Tree, snap snapshot.Snapshot, regCache *registryCache, opts Options, log *zap.Logger) ([]logprobetypes.UsageRecord, []string) {
	info := snap.Info(t)
	if info == nil {
		return nil, nil
	}
	reg := regCache.forTree(snap, t)
	if !reg.Available {
		return nil, nil
	}

	ctx := analyzers.Context{Tree: t, Info: info, Reg: reg, Snap: snap}

	if opts.LogExtractionAttempts {
		log.Debug("analyzing tree", zap.String("path", t.Path))
	}

	var out []logprobetypes.UsageRecord
	var failures []string
	runGuarded(t, "direct", opts, log, &failures, func() {
		out = append(out, analyzers.DirectLoggerCalls(ctx)...)
	})
	runGuarded(t, "attribute", opts, log, &failures, func() {
		out = append(out, analyzers.AttributeDeclared(ctx)...)
	})
	runGuarded(t, "delegate", opts, log, &failures, func() {
		out = append(out, analyzers.DelegateFactoryCalls(ctx)...)
	})
	runGuarded(t, "scope", opts, log, &failures, func() {
		out = append(out, analyzers.ScopeBeginCalls(ctx)...)
	})
	return out, failures
}

// runGuarded recovers a panic raised by a single analyzer so the others
// still run. When opts.ContinueOnFailure is false, the panic propagates
// after logging.
func runGuarded(t snapshot.Tree, analyzer string, opts Options, log *zap.Logger, failures *[]string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			*failures = append(*failures, analyzer)
			if opts.LogExtractionFailures {
				log.Warn("analyzer panicked",
					zap.String("analyzer", analyzer),
					zap.String("path", t.Path),
					zap.Any("recovered", r),
				)
			}
			if !opts.ContinueOnFailure {
				panic(r)
			}
		}
	}()
	fn()
}

func reportProgress(sink ProgressSink, current, total int, path string, log *zap.Logger) {
	if sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn("progress sink panicked", zap.Any("recovered", r))
		}
	}()
	msg := fmt.Sprintf("analyzed %s", path)
	if current == total {
		msg = "extraction complete"
	}
	sink(current, total, msg)
}

func lessLocation(a, b logprobetypes.Location) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.StartLine != b.StartLine {
		return a.StartLine < b.StartLine
	}
	return a.StartCol < b.StartCol
}

func emptySummary() logprobetypes.Summary {
	return logprobetypes.Summary{
		CountByMethodKind: map[string]int{},
		CountByLevel:      map[string]int{},
		ParameterNameHist: map[string]int{},
	}
}

func computeSummary(records []logprobetypes.UsageRecord) logprobetypes.Summary {
	s := emptySummary()
	firstByTemplate := map[string]logprobetypes.UsageRecord{}

	for _, r := range records {
		s.CountByMethodKind[methodKindName(r.MethodKind)]++
		if r.Level != nil {
			s.CountByLevel[r.Level.String()]++
		}
		for _, p := range r.Parameters {
			s.ParameterNameHist[p.Name]++
		}
		if r.Template == nil {
			continue
		}
		canonical := template.Normalize(*r.Template)
		prior, seen := firstByTemplate[canonical]
		if !seen {
			firstByTemplate[canonical] = r
			continue
		}
		if inc, found := detectInconsistency(canonical, prior, r); found {
			s.Inconsistencies = append(s.Inconsistencies, inc)
		}
	}
	return s
}

func detectInconsistency(canonical string, a, b logprobetypes.UsageRecord) (logprobetypes.Inconsistency, bool) {
	n := len(a.Parameters)
	if len(b.Parameters) < n {
		n = len(b.Parameters)
	}
	for i := 0; i < n; i++ {
		if a.Parameters[i].Type != b.Parameters[i].Type {
			return logprobetypes.Inconsistency{
				CanonicalTemplate: canonical,
				ParameterIndex:    i,
				FirstIdentifier:   a.Identifier,
				FirstType:         a.Parameters[i].Type,
				SecondIdentifier:  b.Identifier,
				SecondType:        b.Parameters[i].Type,
			}, true
		}
	}
	return logprobetypes.Inconsistency{}, false
}

func methodKindName(k logprobetypes.MethodKind) string {
	switch k {
	case logprobetypes.DirectLogger:
		return "DirectLogger"
	case logprobetypes.AttributeDeclared:
		return "AttributeDeclared"
	case logprobetypes.DelegateFactory:
		return "DelegateFactory"
	case logprobetypes.ScopeBegin:
		return "ScopeBegin"
	default:
		return "Unknown"
	}
}
