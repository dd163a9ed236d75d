// Package pkg provides the core libraries for neromind mind-map editing.
//
// # Overview
//
// A map is a tree of nodes held by a state store. Every user action is a
// reversible command recorded in an undo-only history, and automatic
// layout recomputes node positions after each change while leaving manual
// and pinned positions alone. The pkg directory is organized as:
//
//  1. [mindmap] - Graph model (nodes, edges, directions)
//  2. [state] and [events] - The store, its two state partitions and the event bus
//  3. [command] and [history] - Reversible commands, transactions and undo
//  4. [layout], [direction], [schedule] and [textlayout] - Automatic placement
//  5. [editor] - The session facade that wires the pieces together
//  6. [mapfile] and [mapstore] - The .kknm format and storage backends
//  7. [render/dot] - Graphviz output
//
// # Data Flow
//
//	user action
//	     ↓
//	[editor] builds a command → [history].Execute → [state].Store.Apply
//	     ↓                                              ↓
//	[schedule] merges layout requests         [events] nodeCreated, ...
//	     ↓
//	[layout] computes positions → Store.Apply(ApplyLayout)
//
// # Quick Start
//
//	import "github.com/kknero/neromind/pkg/editor"
//
//	e := editor.New()
//	rootID, _, _ := e.Init("Trip planning")
//	flights, _, _ := e.AddChild(rootID, "Flights")
//	e.Move(flights, mindmap.Position{X: 620, Y: 240})
//	e.Undo()
//
// Load and save maps:
//
//	doc, warnings, err := mapfile.Import("trip.kknm")
//	err = mapfile.Load(doc, e.Store())
//	err = mapfile.Export(mapfile.FromSnapshot(e.Snapshot(), created, time.Now()), "trip.kknm")
//
// [mindmap]: github.com/kknero/neromind/pkg/mindmap
// [state]: github.com/kknero/neromind/pkg/state
// [events]: github.com/kknero/neromind/pkg/events
// [command]: github.com/kknero/neromind/pkg/command
// [history]: github.com/kknero/neromind/pkg/history
// [layout]: github.com/kknero/neromind/pkg/layout
// [direction]: github.com/kknero/neromind/pkg/direction
// [schedule]: github.com/kknero/neromind/pkg/schedule
// [textlayout]: github.com/kknero/neromind/pkg/textlayout
// [editor]: github.com/kknero/neromind/pkg/editor
// [mapfile]: github.com/kknero/neromind/pkg/mapfile
// [mapstore]: github.com/kknero/neromind/pkg/mapstore
// [render/dot]: github.com/kknero/neromind/pkg/render/dot
package pkg
