// Command autorouteinspect drives one planning pass over a catalog and
// endpoint set given on the command line, and prints the resulting layered
// proposal set and winning selection. It exists as a worked example of
// wiring package router end to end, and as a manual debugging aid for
// SPEC_FULL.md's "planning-pass snapshot for inspection" addition.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lvroute/autoroute/caps"
	"github.com/lvroute/autoroute/factory"
	"github.com/lvroute/autoroute/host"
	"github.com/lvroute/autoroute/host/memhost"
	"github.com/lvroute/autoroute/proposal"
	"github.com/lvroute/autoroute/router"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "autorouteinspect",
		Usage: "plan a route from one input to a set of outputs against a factory catalog",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "factory",
				Aliases:  []string{"f"},
				Usage:    "one factory as id:sink-caps:src-caps, repeatable",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "the input endpoint's capability token",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "an output endpoint's demanded capability token, repeatable",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log planning events to stderr",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "autorouteinspect:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	entries, elementFactories, err := parseFactories(c.StringSlice("factory"))
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if c.Bool("verbose") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	policy := host.Policy{
		GetFactories: func() []factory.CatalogEntry { return entries },
	}
	bin := router.New(elementFactories, router.WithPolicy(policy), router.WithLogger(logger))

	in := memhost.NewEndpoint("in", host.Input, tok(c.String("input")))
	in.SetCaps(tok(c.String("input")))

	outputNames := c.StringSlice("output")
	outputs := make([]host.Endpoint, len(outputNames))
	for i, name := range outputNames {
		ep := memhost.NewEndpoint(host.EndpointID(fmt.Sprintf("out-%d-%s", i, name)), host.Output, tok(name))
		ep.SetCaps(tok(name))
		outputs[i] = ep
	}

	plan, err := bin.Rebuild([]host.Endpoint{in}, outputs)
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}

	printPlan(plan)
	return nil
}

func printPlan(plan router.Plan) {
	fmt.Printf("layers: %d\n", len(plan.Layers))
	for i, layer := range plan.Layers {
		fmt.Printf("  layer %d: %d proposal(s)\n", i, len(layer))
	}
	fmt.Printf("selected cost: %d\n", plan.Selection.Cost)
	closure := proposal.Closure(plan.Store, plan.Selection.Terminals)
	for _, h := range closure {
		p := plan.Store.Get(h)
		fmt.Printf("  -> %s: %d step(s), cost %d\n", p.SrcEndpoint, len(p.Steps), p.Cost)
		for _, st := range p.Steps {
			fmt.Printf("       %s\n", st.FactoryID)
		}
	}
}

// tok builds a single-alternative caps.Set from a bare token name, the
// inspection tool's simplified stand-in for real capability structures.
func tok(name string) caps.Set {
	return caps.NewTokenSet(caps.Token{Name: name})
}

// parseFactories turns "id:sink:src" strings into factory.CatalogEntry plus
// matching memhost.Factory instances for the sandbox cache.
func parseFactories(specs []string) ([]factory.CatalogEntry, []host.ElementFactory, error) {
	entries := make([]factory.CatalogEntry, 0, len(specs))
	elementFactories := make([]host.ElementFactory, 0, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)
		if len(parts) != 3 {
			return nil, nil, fmt.Errorf("invalid --factory %q, want id:sink:src", spec)
		}
		id, sink, src := factory.ID(parts[0]), tok(parts[1]), tok(parts[2])
		entries = append(entries, factory.CatalogEntry{ID: id, SinkCaps: sink, SrcCaps: src})
		elementFactories = append(elementFactories, &memhost.Factory{FactoryID: id, Sink: sink, Src: src})
	}
	return entries, elementFactories, nil
}
