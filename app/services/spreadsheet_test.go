package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTableThenReadSheet(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, "Students", []string{"Admission No", "First Name", " Last  Name "}, [][]interface{}{
		{"ADM/001", "Ada", "Obi"},
		{"", "", ""},
		{"ADM/002", "Bayo"},
	})
	require.NoError(t, err)

	rows, err := ReadSheet(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2, "blank rows are skipped")
	assert.Equal(t, map[string]string{"admission_no": "ADM/001", "first_name": "Ada", "last_name": "Obi"}, rows[0])
	assert.Equal(t, "Bayo", rows[1]["first_name"])
	assert.Empty(t, rows[1]["last_name"])
}

func TestReadSheetRejectsGarbage(t *testing.T) {
	_, err := ReadSheet(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}
