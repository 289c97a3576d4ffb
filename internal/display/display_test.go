package display

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"phonenet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusReport(t *testing.T) {
	peer := domain.PhoneID{AreaCode: 610, Number: 1233333}
	status := []domain.SwitchboardStatus{
		{
			AreaCode: 410,
			Trunks:   []int{510},
			Phones: []domain.PhoneStatus{
				{Number: 1231111, Peer: &peer},
				{Number: 1232222},
			},
		},
		{AreaCode: 510, Trunks: []int{410}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf).Status(status))

	want := "Switchboard with area code: 410\n" +
		"\tTrunk lines are:\n" +
		"\t\tTrunk line connection to: 510\n" +
		"\tLocal phone numbers are:\n" +
		"\t\tPhone with number: 1231111 is connected to 610-1233333\n" +
		"\t\tPhone with number: 1232222 is not in use\n" +
		"Switchboard with area code: 510\n" +
		"\tTrunk lines are:\n" +
		"\t\tTrunk line connection to: 410\n" +
		"\tLocal phone numbers are:\n"
	assert.Equal(t, want, buf.String())
}

func TestCalls(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	call := *domain.NewCall(domain.PhoneID{AreaCode: 410, Number: 1}, domain.PhoneID{AreaCode: 610, Number: 2}, []int{410, 510, 610}, start)

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf).Calls([]domain.Call{call}, start.Add(3*time.Minute)))
	assert.Contains(t, buf.String(), "410-1 -> 610-2 via 410-510-610")
	assert.Contains(t, buf.String(), "up 3 minutes")

	buf.Reset()
	require.NoError(t, NewPrinter(&buf).Calls(nil, start))
	assert.Equal(t, "No active calls\n", buf.String())
}

func TestElapsedEnded(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	call := domain.NewCall(domain.PhoneID{AreaCode: 410, Number: 1}, domain.PhoneID{AreaCode: 610, Number: 2}, nil, start)
	call.End(start.Add(2 * time.Hour))

	assert.Equal(t, "lasted 2 hours", Elapsed(*call, start.Add(48*time.Hour)))
}

func TestRouteAndErrors(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	require.NoError(t, p.Route([]int{410, 510}))
	p.Error(errors.New("no trunk route"))
	p.Message("Network saved to %s.", "net.json")

	assert.Equal(t, "Route: 410-510 (1 trunk)\nERROR: no trunk route\nNetwork saved to net.json.\n", buf.String())
}
