package history_test

import (
	"fmt"

	"github.com/kknero/neromind/pkg/command"
	"github.com/kknero/neromind/pkg/history"
	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/state"
)

func ExampleManager() {
	h := history.New(state.New())

	_, _ = h.Execute(command.NewCreateNode(mindmap.Node{ID: "root", Content: "Ideas"}))
	_, _ = h.Execute(command.NewCreateNode(mindmap.Node{ID: "a", ParentID: "root", Content: "First"}))
	fmt.Println("entries:", h.Size())

	snap, _ := h.Undo()
	fmt.Println("nodes after undo:", len(snap.Nodes))

	_, _ = h.Undo()
	if _, err := h.Undo(); err != nil {
		fmt.Println(err)
	}
	// Output:
	// entries: 2
	// nodes after undo: 1
	// EMPTY_HISTORY: no history to undo
}
