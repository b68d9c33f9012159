package explorer

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ethteck/mips-to-c/config"
	"github.com/ethteck/mips-to-c/decompunit"
)

const sampleAsm = `
glabel foo
addiu $sp, $sp, -16
sw $ra, 12($sp)
b .L1
nop
.L1:
addu $v0, $a0, $a1
jr $ra
nop
`

func newTestExplorer(t *testing.T) *Explorer {
	t.Helper()

	result, err := decompunit.Decompile("sample.s", strings.NewReader(sampleAsm), config.DefaultConfig())
	if err != nil {
		t.Fatalf("Decompile: %v", err)
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("failed to init simulation screen: %v", err)
	}
	t.Cleanup(screen.Fini)

	return NewWithScreen(result, config.DefaultConfig(), screen)
}

func TestExplorerListsFunctions(t *testing.T) {
	e := newTestExplorer(t)
	if e.FunctionList.GetItemCount() != 1 {
		t.Fatalf("expected 1 function in list, got %d", e.FunctionList.GetItemCount())
	}
}

func TestExplorerRefreshShowsFrameFacts(t *testing.T) {
	e := newTestExplorer(t)
	e.RefreshAll()

	text := e.FrameView.GetText(false)
	if !strings.Contains(text, "leaf: false") {
		t.Errorf("frame view missing leaf fact: %q", text)
	}
}

func TestExplorerRefreshRendersBlocks(t *testing.T) {
	e := newTestExplorer(t)
	e.RefreshAll()

	text := e.BlockView.GetText(false)
	if text == "" {
		t.Fatal("expected block view to render something")
	}
}
