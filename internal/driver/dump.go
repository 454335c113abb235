package driver

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"metair/internal/diag"
	"metair/internal/dump"
	"metair/internal/meta"
	"metair/internal/observ"
	"metair/internal/source"
	"metair/internal/trace"
)

// DumpResult is the outcome for one fragment file. Err is set when the
// fragment could not be dumped; Output is then nil. Bag always holds the
// fragment's diagnostics.
type DumpResult struct {
	Path   string
	FileID source.FileID
	Output []byte
	Counts Counts
	Cached bool
	Err    error
	Bag    *diag.Bag
}

// Counts is the number of top-level declarations in a fragment.
type Counts struct {
	Classes    int
	Functions  int
	Properties int
}

// DumpFiles renders every fragment named by paths. Fragments are decoded in
// parallel and fail independently: the returned error is only set for
// cancellation or when paths cannot be listed.
func (s *Session) DumpFiles(ctx context.Context, paths []string) (*source.FileSet, []DumpResult, error) {
	tr := s.tracer()
	passSpan := trace.Begin(tr, trace.ScopePass, "dump", trace.ParentID(ctx)).
		WithExtra("target", s.Target.Target.Name())
	defer passSpan.End("")
	ctx = trace.WithSpan(ctx, passSpan)

	files, err := ListFragments(paths)
	if err != nil {
		trace.Failure(tr, trace.ScopePass, "list", err)
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// FileSet не потокобезопасен: загружаем всё заранее
	loadPhase := s.begin("load")
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make([]error, len(files))
	for i, path := range files {
		fileIDs[i], loadErrors[i] = fileSet.LoadBinary(path)
	}
	s.end(loadPhase, len(files), "")

	results := make([]DumpResult, len(files))
	dumpPhase := s.begin("dump")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs(len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(s.maxDiagnostics())
			if loadErrors[i] != nil {
				err := fmt.Errorf("failed to load file: %w", loadErrors[i])
				diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError, source.Span{}, err.Error()).Emit()
				results[i] = DumpResult{Path: path, Err: err, Bag: bag}
				return nil
			}
			results[i] = s.dumpOne(gctx, fileSet.Get(fileIDs[i]), bag)
			return nil
		})
	}
	err = g.Wait()

	ok := 0
	for i := range results {
		if results[i].Err == nil && results[i].Bag != nil {
			ok++
		}
	}
	s.end(dumpPhase, ok, fmt.Sprintf("%d/%d fragments", ok, len(files)))
	passSpan.WithExtra("fragments", fmt.Sprint(len(files)))
	if err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// dumpOne reads f from the cache or decodes and prints it. f is only read.
func (s *Session) dumpOne(ctx context.Context, f *source.File, bag *diag.Bag) DumpResult {
	tr := s.tracer()
	span := trace.Begin(tr, trace.ScopeFragment, f.Path, trace.ParentID(ctx))
	res := DumpResult{Path: f.Path, FileID: f.ID, Bag: bag}
	reporter := diag.BagReporter{Bag: bag}

	if cached, hit, err := s.Cache.Get(f.Hash); err != nil {
		diag.ReportWarning(reporter, diag.IOCacheError, source.Span{File: f.ID}, "cache read: "+err.Error()).Emit()
	} else if hit {
		res.Output = cached.Output
		res.Counts = Counts{Classes: cached.Classes, Functions: cached.Functions, Properties: cached.Properties}
		res.Cached = true
		span.WithExtra("cache", "hit").End("")
		return res
	}

	var timer *observ.Timer
	if s.Timings {
		timer = observ.NewTimer()
	}
	phase := func(name string) int {
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	done := func(idx, items int) {
		if timer != nil {
			timer.EndItems(idx, items, "")
		}
	}

	fail := func(err error) DumpResult {
		trace.Failure(tr, trace.ScopeFragment, f.Path, err)
		span.End("failed")
		bag.Add(errorDiagnostic(err, f.ID))
		res.Err = fmt.Errorf("%s: %w", f.Path, err)
		return res
	}

	idx := phase("decode")
	frag, err := meta.UnmarshalFragment(f.Content)
	if err != nil {
		return fail(err)
	}
	pkg, err := meta.DecodeFragment(frag)
	if err != nil {
		return fail(err)
	}
	res.Counts = Counts{Classes: len(pkg.Classes), Functions: len(pkg.Functions), Properties: len(pkg.Properties)}
	done(idx, res.Counts.Classes+res.Counts.Functions+res.Counts.Properties)

	idx = phase("print")
	var buf bytes.Buffer
	if err := dump.NewPrinter(&buf).PrintPackage(pkg); err != nil {
		return fail(err)
	}
	res.Output = buf.Bytes()
	done(idx, buf.Len())

	if timer != nil {
		report := timer.Report()
		appendTimingDiagnostic(bag, source.Span{File: f.ID}, timingPayload{
			Kind:    "fragment",
			Path:    f.Path,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}

	if s.Cache != nil {
		err := s.Cache.Put(f.Hash, &DiskPayload{
			Path:       f.Path,
			Output:     res.Output,
			Classes:    res.Counts.Classes,
			Functions:  res.Counts.Functions,
			Properties: res.Counts.Properties,
		})
		if err != nil {
			diag.ReportWarning(reporter, diag.IOCacheError, source.Span{File: f.ID}, "cache write: "+err.Error()).
				WithNote(source.Span{File: f.ID}, "dump is still printed").
				Emit()
		}
	}
	span.WithExtra("cache", "miss").End("")
	return res
}
