package stringsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitTrim(" a , b ", ","))
	assert.Equal(t, []string{"a", "b"}, SplitTrim("a,,b,", ","))
	assert.Nil(t, SplitTrim("", ","))
	assert.Nil(t, SplitTrim(" , ", ","))
}
