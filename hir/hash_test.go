package hir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/reactprune/hir"
)

func TestDependencyHashIsOrderIndependent(t *testing.T) {
	a := &hir.ReactiveScope{Id: 1, Dependencies: []hir.IdentifierId{3, 1, 2}}
	b := &hir.ReactiveScope{Id: 1, Dependencies: []hir.IdentifierId{1, 2, 3}}

	ha, err := a.DependencyHash()
	require.NoError(t, err)
	hb, err := b.DependencyHash()
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
}

func TestDependencyHashDistinguishesDifferentSets(t *testing.T) {
	a := &hir.ReactiveScope{Id: 1, Dependencies: []hir.IdentifierId{1, 2}}
	b := &hir.ReactiveScope{Id: 1, Dependencies: []hir.IdentifierId{1, 2, 3}}

	ha, err := a.DependencyHash()
	require.NoError(t, err)
	hb, err := b.DependencyHash()
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)
}

func TestDependencyHashIsStableAcrossRuns(t *testing.T) {
	scope := &hir.ReactiveScope{Id: 7, Dependencies: []hir.IdentifierId{5, 9, 2}}
	first, err := scope.DependencyHash()
	require.NoError(t, err)
	second, err := scope.DependencyHash()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
