package ops_test

import (
	"testing"

	"github.com/lvlath-tract/tract/ops"
	"github.com/stretchr/testify/assert"
)

func TestDummyEvalAlwaysFails(t *testing.T) {
	_, err := ops.Dummy{}.Eval(nil)
	assert.ErrorIs(t, err, ops.ErrDummyEval)
}

func TestDummyName(t *testing.T) {
	assert.Equal(t, "Dummy", ops.Dummy{}.Name())
}
