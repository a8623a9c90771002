// Package memhost is a reference, in-memory implementation of the host
// collaborator interfaces (package host): plain elements backed by
// caps.TokenSet, a splitter, a null-sink, and simple endpoints. It exists
// for tests, the CLI in cmd/autorouteinspect, and as a worked example of
// what a real media-framework binding looks like; production callers
// supply their own host.Endpoint/host.ElementFactory backed by the actual
// framework.
package memhost

import (
	"github.com/lvroute/autoroute/caps"
	"github.com/lvroute/autoroute/factory"
	"github.com/lvroute/autoroute/host"
)

// Factory is a simple single-input/single-output element factory: sink and
// src are fixed templates, and Create negotiates by intersecting the
// offered sink caps with the template and, if non-empty, fixating the src
// side to the template's own (already-fixated, in practice) src caps
// intersected with whatever the template allows.
type Factory struct {
	FactoryID    factory.ID
	Sink, Src    caps.Set
	Klass        string
	TransformSrc func(fixatedSink caps.Set) caps.Set
}

var _ host.ElementFactory = (*Factory)(nil)

func (f *Factory) ID() factory.ID          { return f.FactoryID }
func (f *Factory) SinkCaps() caps.Set      { return f.Sink }
func (f *Factory) SrcCaps() caps.Set       { return f.Src }
func (f *Factory) Classification() string  { return f.Klass }
func (f *Factory) Create() host.Element    { return &element{factory: f} }

type element struct {
	factory          *Factory
	fixatedSink      caps.Set
	fixatedSrc       caps.Set
	hasSink, hasSrc  bool
}

var _ host.Element = (*element)(nil)

func (e *element) FactoryID() factory.ID { return e.factory.ID() }

// Negotiate intersects offeredSink with the factory's sink template; if
// the result is empty, negotiation fails. Otherwise the sink side is
// fixated to that intersection and the src side is derived by
// TransformSrc (or, if nil, by taking the factory's src template as-is,
// appropriate for factories whose src does not depend on which sink
// alternative was picked).
func (e *element) Negotiate(offeredSink caps.Set) bool {
	e.hasSink, e.hasSrc = false, false
	if offeredSink == nil {
		return false
	}
	fixatedSink := e.factory.Sink.IntersectWithFilter(offeredSink)
	if caps.Empty(fixatedSink) {
		return false
	}
	e.fixatedSink = fixatedSink
	e.hasSink = true

	src := e.factory.Src
	if e.factory.TransformSrc != nil {
		src = e.factory.TransformSrc(fixatedSink)
	}
	if caps.Empty(src) {
		return false
	}
	e.fixatedSrc = src
	e.hasSrc = true
	return true
}

func (e *element) FixatedSinkCaps() (caps.Set, bool) { return e.fixatedSink, e.hasSink }
func (e *element) FixatedSrcCaps() (caps.Set, bool)  { return e.fixatedSrc, e.hasSrc }

func (e *element) Reset() {
	e.fixatedSink, e.fixatedSrc = nil, nil
	e.hasSink, e.hasSrc = false, false
}

// NewSplitterFactory returns the host.Collaborators splitter: it accepts
// anything and fans it out unchanged, so its sink and src templates are
// equal to whatever the caller's capability universe is.
func NewSplitterFactory(universe caps.Set) host.ElementFactory {
	return &Factory{FactoryID: "splitter", Sink: universe, Src: universe}
}

// NewNullSinkFactory returns the host.Collaborators null-sink: it accepts
// anything and produces nothing.
func NewNullSinkFactory(universe caps.Set) host.ElementFactory {
	return &Factory{FactoryID: "nullsink", Sink: universe, Src: caps.NewTokenSet()}
}
