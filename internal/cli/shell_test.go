package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"phonenet/internal/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, n *network.Network, script ...string) string {
	t.Helper()
	var out bytes.Buffer
	sh := NewShell(n, strings.NewReader(strings.Join(script, "\n")+"\n"), &out)
	sh.DisablePrompt()
	require.NoError(t, sh.Run(context.Background()))
	return out.String()
}

func TestShellBuildAndCall(t *testing.T) {
	n := network.New()
	out := run(t, n,
		"switch-add 410",
		"SWITCH-ADD 510",
		"switch-add 610",
		"switch-connect 410 510",
		"switch-connect 510 610",
		"phone-add 410-123-1111",
		"phone-add 610-1233333",
		"start-call 410-1231111 610-1233333",
		"display",
	)

	assert.Contains(t, out, "Call started: 410-1231111 -> 610-1233333 via 410-510-610")
	assert.Contains(t, out, "Phone with number: 1231111 is connected to 610-1233333")
	assert.Contains(t, out, "Phone with number: 1233333 is connected to 410-1231111")
	assert.NotContains(t, out, "ERROR")
}

func TestShellErrors(t *testing.T) {
	n := network.New()
	out := run(t, n,
		"switch-add 410",
		"switch-add 410",
		"switch-add 720",
		"phone-add 999-1",
		"phone-add 410-1",
		"phone-add 410-1",
		"phone-add 720-2",
		"switch-connect 410 410",
		"start-call 410-1 720-2",
		"end-call 410-1",
		"bogus",
	)

	assert.Contains(t, out, "Switchboard 410 already exists.")
	assert.Contains(t, out, "ERROR: not found: switchboard 999")
	assert.Contains(t, out, "ERROR: already exists")
	assert.Contains(t, out, "ERROR: invalid operation")
	assert.Contains(t, out, "ERROR: no trunk route")
	assert.Contains(t, out, `ERROR: unknown command "bogus"`)
}

func TestShellUsage(t *testing.T) {
	out := run(t, network.New(), "switch-connect 410", "start-call", "display extra")
	assert.Contains(t, out, "Usage: switch-connect <area> <area>")
	assert.Contains(t, out, "Usage: start-call <area-number> <area-number>")
	assert.Contains(t, out, "Usage: display")
}

func TestShellQuitStopsReading(t *testing.T) {
	n := network.New()
	quitCalled := false

	var out bytes.Buffer
	sh := NewShell(n, strings.NewReader("switch-add 410\nQUIT\nswitch-add 510\n"), &out)
	sh.OnQuit = func(context.Context) error {
		quitCalled = true
		return nil
	}
	require.NoError(t, sh.Run(context.Background()))

	assert.True(t, quitCalled)
	assert.Len(t, n.Switchboards(), 1)
	assert.True(t, strings.HasPrefix(out.String(), Prompt))
}

func TestShellSaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "network.yaml")

	src := network.New()
	out := run(t, src, "switch-add 410", "switch-add 510", "switch-connect 410 510", "phone-add 410-1", "network-save "+file)
	assert.Contains(t, out, "Network saved to "+file+".")

	dst := network.New()
	out = run(t, dst, "network-load "+file, "route 510 410", "network-load "+file+".missing")
	assert.Contains(t, out, "Network loaded from "+file+".")
	assert.Contains(t, out, "Route: 510-410 (1 trunk)")
	assert.Contains(t, out, "ERROR: ")
	assert.Equal(t, src.Snapshot().Switchboards, dst.Snapshot().Switchboards)
}

func TestShellEndCallAndCalls(t *testing.T) {
	n := network.New()
	out := run(t, n,
		"switch-add 410",
		"phone-add 410-1",
		"phone-add 410-2",
		"calls",
		"start-call 410-1 410-2",
		"calls",
		"end-call 410-2",
	)

	assert.Contains(t, out, "No active calls")
	assert.Contains(t, out, "410-1 -> 410-2 via 410")
	assert.Contains(t, out, "Call ended: 410-1 -> 410-2")
	assert.Empty(t, n.Calls())
}

func TestShellHelp(t *testing.T) {
	out := run(t, network.New(), "help")
	for name := range commands {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "quit")
}

func TestParse(t *testing.T) {
	var out bytes.Buffer

	f, exit, err := Parse([]string{"-strategy", "DFS", "-max-hops", "3", "net.db"}, &out)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "dfs", f.Strategy)
	assert.Equal(t, 3, f.MaxHops)
	assert.Equal(t, "net.db", f.File)
	assert.True(t, f.Load)

	f, _, err = Parse(nil, &out)
	require.NoError(t, err)
	assert.Equal(t, -1, f.MaxHops)
	assert.False(t, f.Load)

	_, exit, err = Parse([]string{"-h"}, &out)
	assert.NoError(t, err)
	assert.True(t, exit)

	_, _, err = Parse([]string{"-strategy", "astar"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)

	_, _, err = Parse([]string{"a.json", "b.json"}, &out)
	assert.ErrorAs(t, err, &exitErr)
}
