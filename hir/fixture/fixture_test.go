package fixture_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/reactprune/hir"
	"github.com/viant/reactprune/hir/fixture"
)

func TestParseSimpleReturn(t *testing.T) {
	src := `
const name = user.name;
const el = <Avatar name={name} />;
return el;
`
	f, err := fixture.Parse("github.com/viant/reactprune/testdata/simple", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, f.Fn)

	_, ok := f.Names["el"]
	assert.True(t, ok, "expected el to be bound")
	_, ok = f.Names["name"]
	assert.True(t, ok, "expected name to be bound")

	var sawJsx bool
	for _, stmt := range f.Fn.Body {
		if stmt.Instruction != nil && stmt.Instruction.Value.Kind == hir.JsxExpression {
			sawJsx = true
		}
	}
	assert.True(t, sawJsx, "expected a lowered JsxExpression instruction")
}

func TestParseRejectsBadModulePath(t *testing.T) {
	_, err := fixture.Parse("Not A Valid Path!", []byte("return 1;"))
	assert.Error(t, err)
}
