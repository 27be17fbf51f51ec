package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrdering(t *testing.T) {
	targets, err := Resolve([]int{463, 9, 463, 120}, []string{"13-all", "27-all"})
	require.NoError(t, err)

	var got []string
	for _, tgt := range targets {
		got = append(got, string(tgt.Kind)+":"+tgt.Value)
	}
	// Areas ascending and deduplicated, then prefectures in configured order.
	assert.Equal(t, []string{
		"area:9", "area:120", "area:463",
		"prefecture:13-all", "prefecture:27-all",
	}, got)
}

func TestResolveAreasOnly(t *testing.T) {
	targets, err := Resolve([]int{463}, nil)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.True(t, targets[0].IsArea())
	assert.Equal(t, "463", targets[0].Value)
	assert.Equal(t, "463", targets[0].Display)
}

func TestResolvePrefecturesOnly(t *testing.T) {
	targets, err := Resolve(nil, []string{"13-all"})
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.False(t, targets[0].IsArea())
}

func TestResolveEmpty(t *testing.T) {
	_, err := Resolve(nil, nil)
	assert.ErrorIs(t, err, ErrNoTargets)
}

func TestQueryParam(t *testing.T) {
	k, v := New(KindPrefecture, "13-all").QueryParam()
	assert.Equal(t, "prefecture", k)
	assert.Equal(t, "13-all", v)
}
