// Package explorer is an interactive tview/tcell viewer over an already
// decompiled *decompunit.Result, grounded on the teacher's debugger/tui.go
// layout. Unlike the teacher's TUI, which drives a live emulator, this
// view is read-only: the underlying Result is never mutated, only walked.
package explorer

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ethteck/mips-to-c/cfg"
	"github.com/ethteck/mips-to-c/config"
	"github.com/ethteck/mips-to-c/decompunit"
)

// Explorer is the text user interface over one decompiled Result.
type Explorer struct {
	Result *decompunit.Result
	Theme  string

	App   *tview.Application
	Pages *tview.Pages

	FunctionList *tview.List
	BlockView    *tview.TextView
	FrameView    *tview.TextView
	LiftView     *tview.TextView

	current int
}

// New builds an Explorer over result, ready to Run.
func New(result *decompunit.Result, cfg *config.Config) *Explorer {
	return newExplorer(result, cfg, nil)
}

// NewWithScreen builds an Explorer bound to an explicit tcell.Screen,
// letting tests drive it against a tcell.SimulationScreen instead of a
// real terminal.
func NewWithScreen(result *decompunit.Result, cfg *config.Config, screen tcell.Screen) *Explorer {
	return newExplorer(result, cfg, screen)
}

func newExplorer(result *decompunit.Result, cfg *config.Config, screen tcell.Screen) *Explorer {
	e := &Explorer{
		Result: result,
		Theme:  cfg.Explorer.Theme,
		App:    tview.NewApplication(),
	}
	if screen != nil {
		e.App.SetScreen(screen)
	}

	e.initializeViews()
	e.buildLayout()
	e.setupKeyBindings()

	return e
}

func (e *Explorer) initializeViews() {
	e.FunctionList = tview.NewList().ShowSecondaryText(false)
	e.FunctionList.SetBorder(true).SetTitle(" Functions ")
	for _, fn := range e.Result.Functions {
		e.FunctionList.AddItem(fn.Name, "", 0, nil)
	}
	e.FunctionList.SetChangedFunc(func(i int, _, _ string, _ rune) {
		e.current = i
		e.RefreshAll()
	})

	e.BlockView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	e.BlockView.SetBorder(true).SetTitle(" Blocks / CFG ")

	e.FrameView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	e.FrameView.SetBorder(true).SetTitle(" Stack Frame ")

	e.LiftView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	e.LiftView.SetBorder(true).SetTitle(" Lift Trace ")
}

func (e *Explorer) buildLayout() {
	rightTop := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(e.FrameView, 0, 1, false).
		AddItem(e.LiftView, 0, 2, false)

	main := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(e.FunctionList, 0, 1, true).
		AddItem(e.BlockView, 0, 2, false).
		AddItem(rightTop, 0, 2, false)

	e.Pages = tview.NewPages().AddPage("main", main, true, true)
}

func (e *Explorer) setupKeyBindings() {
	e.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			e.App.Stop()
			return nil
		}
		return event
	})
}

// RefreshAll redraws every pane for the currently selected function.
func (e *Explorer) RefreshAll() {
	if e.current >= len(e.Result.Functions) {
		return
	}
	fn := e.Result.Functions[e.current]

	e.BlockView.Clear()
	e.FrameView.Clear()
	e.LiftView.Clear()

	var blocks strings.Builder
	for _, b := range fn.Blocks {
		loop := ""
		if cfg.IsLoop(b.Node) {
			loop = " [yellow](loop edge)[white]"
		}
		fmt.Fprintf(&blocks, "%s%s\n", b.Block, loop)
	}
	e.BlockView.SetText(blocks.String())

	if fn.Frame != nil {
		fmt.Fprintf(e.FrameView, "leaf: %v\nstack size: %d\nra @ %d\nlocals >= %d\n",
			fn.Frame.IsLeaf, fn.Frame.AllocatedStackSize, fn.Frame.ReturnAddrLocation, fn.Frame.LocalVarsRegionBottom)
	}

	var lift strings.Builder
	for _, b := range fn.Blocks {
		if b.Result == nil {
			continue
		}
		for _, st := range b.Result.Stores {
			fmt.Fprintf(&lift, "%s\n", st)
		}
		for _, t := range b.Result.Terminators {
			fmt.Fprintf(&lift, "%s\n", t)
		}
	}
	e.LiftView.SetText(lift.String())

	e.App.Draw()
}

// Run starts the explorer's event loop. It returns once the user quits.
func (e *Explorer) Run() error {
	e.RefreshAll()
	return e.App.SetRoot(e.Pages, true).SetFocus(e.FunctionList).Run()
}

// Stop stops the explorer's event loop.
func (e *Explorer) Stop() { e.App.Stop() }
