package lole

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModifierString(t *testing.T) {
	assert.Equal(t, "Value", Value.String())
	assert.Equal(t, "Key", Key.String())
	assert.Equal(t, "Hash", Hash.String())
}

func TestDataStructureNames(t *testing.T) {
	bt := NewBaseTable("lineitem", "lineitem", []*DCol{NewDCol("l_quantity", "", Value)})
	ht := NewTable("ht_1", []*DCol{NewDCol("key_0", "", Key)}, HashTable, true, true, false)

	assert.Equal(t, "lineitem", bt.DSName())
	assert.Equal(t, "ht_1", ht.DSName())

	var _ DataStructure = bt
	var _ DataStructure = ht
}

func TestProgramAccumulatesPipelinesAndDataStructures(t *testing.T) {
	lp := NewLolepop("lole_1_Scan", []Stmt{&Done{}})
	p := NewPipeline([]*Lolepop{lp}, true)
	bt := NewBaseTable("t", "t", nil)

	prog := NewProgram([]*Pipeline{p}, []DataStructure{bt})

	assert.Len(t, prog.Pipelines, 1)
	assert.True(t, prog.Pipelines[0].Interesting)
	assert.Len(t, prog.DataStructures, 1)
	assert.Equal(t, "t", prog.DataStructures[0].DSName())
}

func TestTupleAppendAndFunExprs(t *testing.T) {
	arg := &LoleArg{}
	get := NewTupleGet(arg, 2)
	fn := NewFun("eq", &LolePred{}, get, NewConst("1"))

	assert.Equal(t, 2, get.Slot)
	assert.Same(t, Expr(arg), get.Source)
	assert.Equal(t, "eq", fn.Name)
	assert.Len(t, fn.Args, 2)

	appended := NewTupleAppend([]Expr{get, fn})
	assert.Len(t, appended.Exprs, 2)
}
