package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_NoColors(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)

	p.Success("prebooked %s", "of-1")
	p.Error("no city region found for %q", "Atlantis")
	p.Warning("slow")
	p.Header("Hotels")

	assert.Contains(t, out.String(), "[OK] prebooked of-1")
	assert.Contains(t, out.String(), "Hotels\n------")
	assert.Equal(t, "Error: no city region found for \"Atlantis\"\n[WARN] slow\n", errOut.String())
	assert.Equal(t, "x", p.Bold("x"))
}

func TestPrinter_JSON(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out, false)

	require.NoError(t, p.JSON(map[string]int{"hotels": 2}))
	assert.JSONEq(t, `{"hotels":2}`, out.String())
}

func TestResolveColors(t *testing.T) {
	assert.False(t, ResolveColors(true))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ResolveColors(false))
}

func TestTable_Render(t *testing.T) {
	var out bytes.Buffer
	table := NewTable(&out, []string{"#", "hotel", "price"})
	table.AddRow("1", "Harbor", "420.00 EUR")
	table.AddRow("2", "Aurora", "-")

	require.NoError(t, table.Render())
	assert.Equal(t, 2, table.Len())
	assert.Contains(t, out.String(), "Harbor")
	assert.Contains(t, out.String(), "420.00 EUR")
	assert.Contains(t, out.String(), "HOTEL")
}
