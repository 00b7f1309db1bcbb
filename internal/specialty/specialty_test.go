package specialty

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage/internal/textnorm"
)

func TestTableFor(t *testing.T) {
	tbl := NewTable(textnorm.New())

	assert.Equal(t, "Cardiologue", tbl.For("Myocardial infarction"))
	assert.Equal(t, "Pneumologue", tbl.For("Pneumocystis carinii pneumonia"))
	assert.Equal(t, "ORL", tbl.For("angine"))
	assert.Equal(t, Generalist, tbl.For("Maladie inconnue"))
}

func TestPhrase(t *testing.T) {
	assert.Equal(t, "un médecin généraliste", Phrase(Generalist))
	assert.Equal(t, "un médecin généraliste", Phrase(""))
	assert.Equal(t, "un Cardiologue", Phrase("Cardiologue"))
}

func TestDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "Dr Martin", "specialty": "Cardiologue"},
		{"name": "Dr Durand", "specialty": "Gastro-enterologue"},
		{"name": "Dr Petit", "specialty": "cardiologue"}
	]`), 0o644))

	d := LoadDirectoryOrEmpty(path, textnorm.New())
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"Dr Martin", "Dr Petit"}, d.Doctors("Cardiologue"))
	assert.Equal(t, []string{"Dr Durand"}, d.Doctors("Gastro-entérologue"))
	assert.Empty(t, d.Doctors("Neurologue"))
}

func TestDirectoryDegrades(t *testing.T) {
	d := LoadDirectoryOrEmpty(filepath.Join(t.TempDir(), "missing.json"), textnorm.New())
	assert.Zero(t, d.Len())

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	_, err := LoadDirectory(bad, textnorm.New())
	assert.Error(t, err)
}
