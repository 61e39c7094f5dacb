// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/confmine/pkg/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_BasicColumns(t *testing.T) {
	path := writeFile(t, "papers.csv",
		"Year,Title,Authors,Link\n"+
			"2023,Attention Everywhere,\"Alice Smith, Bob Jones\",https://example.com/a\n"+
			"2024,Sparse Surprises,Carol White,N/A\n")

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 2023, records[0].Year)
	assert.Equal(t, "Attention Everywhere", records[0].Title)
	assert.Equal(t, "Alice Smith, Bob Jones", records[0].Authors)
	assert.True(t, records[0].HasLink())
	assert.False(t, records[0].HasAbstract())

	assert.False(t, records[1].HasLink())
}

func TestLoad_AbstractColumnAndReordered(t *testing.T) {
	path := writeFile(t, "papers.csv",
		"Link,Abstract,Title,Year,Authors\n"+
			"https://example.com/a,An abstract.,Paper A,2022,Alice\n")

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "An abstract.", records[0].Abstract)
	assert.Equal(t, 2022, records[0].Year)
}

func TestLoad_MissingLinkColumn(t *testing.T) {
	path := writeFile(t, "papers.csv", "Year,Title\n2023,Paper A\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Link column")
}

func TestLoad_BadYearKeepsRow(t *testing.T) {
	path := writeFile(t, "papers.csv",
		"Year,Title,Authors,Link\nnot-a-year,Paper A,Alice,https://example.com/a\n")

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].Year)
}

func TestSaveRoundTrip(t *testing.T) {
	records := []types.Paper{
		{Year: 2023, Title: "Paper, With Comma", Authors: "Alice", Link: "https://example.com/a", Abstract: "Text one."},
		{Year: 2024, Title: "Paper B", Authors: "Bob", Link: types.LinkSentinel},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Save(records, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSave_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Save([]types.Paper{{Year: 2020, Title: "Old", Link: "https://example.com/old"}}, path))
	require.NoError(t, Save([]types.Paper{{Year: 2021, Title: "New", Link: "https://example.com/new"}}, path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Title)
}

func TestMerge_CopiesResolvedAbstracts(t *testing.T) {
	records := []types.Paper{
		{Title: "A", Link: "https://example.com/a"},
		{Title: "B", Link: "https://example.com/b"},
		{Title: "C", Link: "https://example.com/c"},
	}
	checkpoint := []types.Paper{
		{Title: "A", Link: "https://example.com/a", Abstract: "Alpha."},
		{Title: "B", Link: "https://example.com/b", Abstract: "Beta."},
		{Title: "C", Link: "https://example.com/c"}, // still unresolved
	}

	merged := Merge(records, checkpoint)
	assert.Equal(t, 2, merged)
	assert.Equal(t, "Alpha.", records[0].Abstract)
	assert.Equal(t, "Beta.", records[1].Abstract)
	assert.Empty(t, records[2].Abstract)
}

func TestMerge_KeepsExistingAbstract(t *testing.T) {
	records := []types.Paper{
		{Link: "https://example.com/a", Abstract: "Fresh."},
	}
	checkpoint := []types.Paper{
		{Link: "https://example.com/a", Abstract: "Stale."},
	}

	assert.Equal(t, 0, Merge(records, checkpoint))
	assert.Equal(t, "Fresh.", records[0].Abstract)
}

func TestMerge_IgnoresSentinelLinks(t *testing.T) {
	records := []types.Paper{{Link: types.LinkSentinel}}
	checkpoint := []types.Paper{{Link: types.LinkSentinel, Abstract: "Should not spread."}}

	assert.Equal(t, 0, Merge(records, checkpoint))
	assert.Empty(t, records[0].Abstract)
}

func TestCountResolved(t *testing.T) {
	records := []types.Paper{
		{Abstract: "x"}, {Abstract: ""}, {Abstract: "y"},
	}
	assert.Equal(t, 2, CountResolved(records))
}
