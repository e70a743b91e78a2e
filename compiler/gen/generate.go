package gen

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Generator renders all sources for a resolved graph. Emitters are injected
// per target language; codec emission is optional and driven by the graph's
// effective codec settings.
type Generator struct {
	graph    *Graph
	workers  int
	emitters map[Target]Emitter
	codec    CodecEmitter
}

// NewGenerator creates a generator for the given resolved graph.
// Register emitters with WithEmitter before calling Generate.
func NewGenerator(g *Graph) *Generator {
	return &Generator{
		graph:    g,
		workers:  g.Workers,
		emitters: make(map[Target]Emitter),
	}
}

// WithEmitter registers an emitter for its target language.
func (g *Generator) WithEmitter(e Emitter) *Generator {
	if e != nil {
		g.emitters[e.Target()] = e
	}
	return g
}

// WithCodec registers the codec emitter.
func (g *Generator) WithCodec(ce CodecEmitter) *Generator {
	if ce != nil {
		g.codec = ce
	}
	return g
}

// WithWorkers overrides the number of parallel emission workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// renderTask is a single file emission.
type renderTask struct {
	path   string
	render func() (string, error)
}

// Generate renders every definition (and, when enabled, the codec sources)
// and returns the rendered text keyed by destination path. Emission of
// distinct definitions runs in parallel; any failure discards all output so
// a source tree is never left partially regenerated.
func (g *Generator) Generate(ctx context.Context) (map[string]string, error) {
	tasks, err := g.tasks()
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		files = make(map[string]string, len(tasks))
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for _, t := range tasks {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			src, err := t.render()
			if err != nil {
				return err
			}
			mu.Lock()
			files[t.path] = src
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// tasks collects all emission tasks up front. Every target must have a
// registered emitter and every destination path must be unique before any
// rendering starts.
func (g *Generator) tasks() ([]renderTask, error) {
	if len(g.emitters) == 0 {
		return nil, NewConfigError("Emitters", nil, "no emitter registered: call WithEmitter() before Generate()")
	}
	var tasks []renderTask
	seen := make(map[string]string)
	add := func(path, name string, render func() (string, error)) error {
		if prev, ok := seen[path]; ok {
			return NewEmissionError("", name, "destination path "+path+" already produced by "+prev, nil)
		}
		seen[path] = name
		tasks = append(tasks, renderTask{path: path, render: render})
		return nil
	}

	for _, n := range g.graph.Nodes {
		em, ok := g.emitters[n.Target]
		if !ok {
			return nil, NewEmissionError(string(n.Target), n.Name, "no emitter registered for target", nil)
		}
		var render func() (string, error)
		switch n.Kind {
		case KindRecord:
			render = func() (string, error) { return em.GenRecord(n) }
		case KindInterface:
			render = func() (string, error) { return em.GenInterface(n) }
		case KindEnum:
			render = func() (string, error) { return em.GenEnum(n) }
		}
		if err := add(g.graph.FileNaming(n, em.Extension()), n.QualifiedName(), render); err != nil {
			return nil, err
		}
	}

	if g.codec != nil && g.graph.CodecNamespace != "" {
		for _, n := range g.graph.Nodes {
			if err := add(g.codec.FormatPath(g.graph, n), n.QualifiedName(), func() (string, error) {
				return g.codec.GenFormat(g.graph, n)
			}); err != nil {
				return nil, err
			}
		}
		if g.graph.FullCodecName != "" {
			if err := add(g.codec.FullCodecPath(g.graph), g.graph.FullCodecName, func() (string, error) {
				return g.codec.GenFullCodec(g.graph)
			}); err != nil {
				return nil, err
			}
		}
	}
	return tasks, nil
}
