package project

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguages_ISO3(t *testing.T) {
	l := NewLanguages()

	tests := []struct {
		tag  string
		want string
	}{
		{"en", "eng"},
		{"EN", "eng"},
		{"en-US", "eng"},
		{"es_MX", "spa"},
		{"eng", "eng"},
		{"etr", "etr"},
		{"xx", "xx"},
		{"English", "English"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, l.ISO3(tt.tag))
		})
	}
}

func TestLanguages_Name(t *testing.T) {
	l := NewLanguages()

	name, ok := l.Name("fr")
	require.True(t, ok)
	assert.Equal(t, "French", name)

	name, ok = l.Name("tpi")
	require.True(t, ok)
	assert.Equal(t, "Tok Pisin", name)

	_, ok = l.Name("etr")
	assert.False(t, ok)
}

func TestLanguages_AddInvalidatesCachedLookups(t *testing.T) {
	l := NewLanguages()
	assert.Equal(t, "zz", l.ISO3("zz"))

	l.Add("ZZZ", "ZZ", "Test Language")

	assert.Equal(t, "zzz", l.ISO3("zz"))
	name, ok := l.Name("zz")
	require.True(t, ok)
	assert.Equal(t, "Test Language", name)
}

func TestLanguages_LoadTable(t *testing.T) {
	table := strings.Join([]string{
		"Id\tPart2B\tPart2T\tPart1\tScope\tLanguage_Type\tRef_Name\tComment",
		"etr\t\t\t\tI\tL\tEdolo\t",
		"eng\teng\teng\ten\tI\tL\tEnglish (Standard)\t",
		"",
	}, "\r\n")

	l := NewLanguages()
	n, err := l.LoadTable(strings.NewReader(table))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	name, ok := l.Name("etr")
	require.True(t, ok)
	assert.Equal(t, "Edolo", name)

	name, _ = l.Name("en")
	assert.Equal(t, "English (Standard)", name)
}

func TestLanguages_LoadTableRejectsShortRows(t *testing.T) {
	l := NewLanguages()
	n, err := l.LoadTable(strings.NewReader("etr\t\t\t\tI\tL\tEdolo\nbad\trow\n"))
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "line 2")
}
