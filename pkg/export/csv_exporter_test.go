package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRender(t *testing.T) {
	data := NewDataset("registration_number", "first_name", "active")
	data.Append("12345678901", "Amina", "true")
	data.Append("12345678902", "Chinedu", "false")

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "registration_number,first_name,active\n12345678901,Amina,true\n12345678902,Chinedu,false\n", string(out))
}

func TestCSVRenderPadsShortRows(t *testing.T) {
	data := NewDataset("a", "b", "c")
	data.Append("1")
	data.Append("1", "2", "3", "dropped")

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n1,,\n1,2,3\n", string(out))
	assert.Equal(t, 2, data.Len())
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(NewDataset())
	assert.Error(t, err)

	_, err = NewCSVExporter().Render(nil)
	assert.Error(t, err)
}
