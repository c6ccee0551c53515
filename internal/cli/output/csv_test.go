package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintCSV(t *testing.T) {
	table := NewTableData("Name", "Value")
	table.AddRow("key1", "value1")
	table.AddRow("key2", "value2")

	var buf bytes.Buffer
	require.NoError(t, PrintCSV(&buf, table))

	out := buf.String()
	assert.Equal(t, "Name,Value\nkey1,value1\nkey2,value2\n", out)
}
