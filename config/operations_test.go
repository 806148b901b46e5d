package config

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestOperationsSetAndClear(t *testing.T) {
	var op Operations

	assert.Equal(t, op, Operations(0))
	assert.False(t, op.IsSupported(CourseWrite))

	op.Set(CourseWrite | ChapterWrite)
	assert.True(t, op.IsSupported(CourseWrite))
	assert.True(t, op.IsSupported(ChapterWrite))

	op.Clear(CourseWrite)
	assert.False(t, op.IsSupported(CourseWrite))
	assert.True(t, op.IsSupported(ChapterWrite))
}

func TestOperationsAdd(t *testing.T) {
	op, err := Ops("CourseWrite", "ChapterWrite", "MembershipWrite", "CourseJoin")
	assert.NoError(t, err)
	assert.Equal(t, AllOperations, op)

	_, err = Ops("CourseWrite", "TableDrop")
	assert.EqualError(t, err, "invalid operation: TableDrop")
}
